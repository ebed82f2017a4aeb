package elasticsearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/retry"
)

// NewClient creates an Elasticsearch client and verifies the connection,
// retrying the ping with exponential backoff. The client itself has
// transport-level retries disabled.
func NewClient(ctx context.Context, cfg Config, log logger.Logger) (*es.Client, error) {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	url := normalizeURL(cfg.URL)

	transport := cfg.Transport
	if transport == nil {
		transport = createTransport(cfg.RequestTimeout)
	}

	esClient, err := es.NewClient(es.Config{
		Addresses:    []string{url},
		Transport:    transport,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	log.Info("Verifying Elasticsearch connection", logger.String("url", url))

	if err := retry.Retry(ctx, *cfg.RetryConfig, func() error {
		return pingElasticsearch(ctx, esClient, cfg.PingTimeout, log)
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch at %s: %w", url, err)
	}

	log.Info("Elasticsearch connection established", logger.String("url", url))

	return esClient, nil
}

// normalizeURL adds the http:// prefix if missing
func normalizeURL(url string) string {
	if url == "" {
		return "http://localhost:9200"
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

func createTransport(requestTimeout time.Duration) *http.Transport {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return &http.Transport{ResponseHeaderTimeout: requestTimeout}
	}
	t := transport.Clone()
	t.ResponseHeaderTimeout = requestTimeout
	return t
}

func pingElasticsearch(ctx context.Context, client *es.Client, timeout time.Duration, log logger.Logger) error {
	pingCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		log.Debug("Elasticsearch ping failed", logger.Error(err))
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			log.Debug("Failed to close ping response body", logger.Error(closeErr))
		}
	}()

	if res.IsError() {
		body, readErr := io.ReadAll(res.Body)
		errMsg := string(body)
		if readErr != nil {
			errMsg = fmt.Sprintf("error reading response body: %v", readErr)
		}
		log.Debug("Elasticsearch ping returned error",
			logger.String("status", res.Status()),
			logger.String("body", errMsg),
		)
		return fmt.Errorf("ping returned error [%s]: %s", res.Status(), errMsg)
	}

	return nil
}
