// Package bootstrap wires configuration, logging, Elasticsearch and the
// ingestion pipeline together for a single run.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	infralogger "github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/ingest"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/metrics"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/storage"
)

// Run ingests one archive. The Summary is nil when the run failed before
// the pipeline started.
func Run(ctx context.Context, o Overrides) (*ingest.Summary, error) {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig(o)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	runID := uuid.NewString()
	log, err := CreateLogger(cfg, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Product Ingestor",
		infralogger.String("version", cfg.Service.Version),
		infralogger.String("archive", cfg.Archive.Path),
		infralogger.String("elasticsearch", cfg.Elasticsearch.URL),
		infralogger.String("index", cfg.Elasticsearch.Index),
	)

	// Phase 2: Setup Elasticsearch
	esClient, err := SetupElasticsearch(ctx, cfg, log)
	if err != nil {
		log.Error("Elasticsearch unavailable", infralogger.Error(err))
		return nil, fmt.Errorf("failed to setup Elasticsearch: %w", err)
	}

	// Phase 3: Run the pipeline
	m := metrics.New()
	pipeline, err := ingest.NewPipeline(ingest.Params{
		Emitter: storage.NewIndexer(esClient, cfg.Elasticsearch.Index, log),
		Logger:  log,
		Metrics: m,
		RunID:   runID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	summary, runErr := pipeline.Run(ctx, cfg.Archive.Path)
	if runErr != nil {
		log.Error("Ingestion aborted", infralogger.Error(runErr))
	}

	// Phase 4: Dump metrics
	if cfg.Metrics.TextfilePath != "" {
		if writeErr := m.WriteTextfile(cfg.Metrics.TextfilePath); writeErr != nil {
			log.Warn("Failed to write metrics", infralogger.Error(writeErr))
		}
	}

	if runErr != nil {
		return &summary, fmt.Errorf("ingest %s: %w", cfg.Archive.Path, runErr)
	}
	return &summary, nil
}
