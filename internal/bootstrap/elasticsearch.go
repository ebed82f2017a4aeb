package bootstrap

import (
	"context"
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"
	infraes "github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/elasticsearch"
	infralogger "github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/config"
)

// SetupElasticsearch creates the Elasticsearch client and verifies the connection.
func SetupElasticsearch(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*es.Client, error) {
	client, err := infraes.NewClient(ctx, infraes.Config{
		URL:            cfg.Elasticsearch.URL,
		RequestTimeout: cfg.Elasticsearch.RequestTimeout,
		PingTimeout:    cfg.Elasticsearch.PingTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}
