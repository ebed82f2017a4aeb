// Package ingest runs the archive -> parse -> clean -> index pipeline.
package ingest

//go:generate mockgen -destination=../../testutils/mocks/ingest/mock_emitter.go -package=ingest . Emitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/archive"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/metrics"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/product"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/storage"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/xmlstream"
)

// ErrNoEmitter is returned by NewPipeline when Params.Emitter is nil.
var ErrNoEmitter = errors.New("pipeline: emitter is required")

// Emitter submits a cleaned record.
type Emitter interface {
	Emit(ctx context.Context, rec product.Record) storage.Outcome
}

// Params holds the dependencies of a Pipeline.
type Params struct {
	Emitter Emitter
	Logger  logger.Logger
	Metrics *metrics.Metrics
	RunID   string
}

// Pipeline processes one archive at a time, strictly sequentially.
type Pipeline struct {
	emitter Emitter
	logger  logger.Logger
	metrics *metrics.Metrics
	runID   string
}

// NewPipeline creates a Pipeline. Logger and Metrics are optional.
func NewPipeline(p Params) (*Pipeline, error) {
	if p.Emitter == nil {
		return nil, ErrNoEmitter
	}
	if p.Logger == nil {
		p.Logger = logger.NewNop()
	}
	if p.Metrics == nil {
		p.Metrics = metrics.New()
	}
	return &Pipeline{
		emitter: p.Emitter,
		logger:  p.Logger,
		metrics: p.Metrics,
		runID:   p.RunID,
	}, nil
}

// Run ingests every XML entry of the archive at path. Malformed entries and
// failed submissions are counted and skipped. The returned error is non-nil
// when the archive or one of its entries cannot be opened or read, or ctx is
// cancelled; the Summary covers the work done up to that point.
func (p *Pipeline) Run(ctx context.Context, path string) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: p.runID, Archive: path}

	a, err := archive.Open(path, archive.WithLogger(p.logger))
	if err != nil {
		return summary, err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			p.logger.Warn("Failed to close archive", logger.Error(closeErr))
		}
	}()

	p.logger.Info("Ingesting archive", logger.String("archive", a.Path()))

	for entry, entryErr := range a.Entries() {
		if entryErr != nil {
			summary.finish(started)
			return summary, fmt.Errorf("read archive: %w", entryErr)
		}

		result, readErr := p.processEntry(ctx, entry)
		summary.add(result)
		if readErr != nil {
			summary.finish(started)
			return summary, fmt.Errorf("read archive entry %s: %w", entry.Name, readErr)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			summary.finish(started)
			return summary, fmt.Errorf("ingestion interrupted: %w", ctxErr)
		}
	}

	summary.finish(started)
	p.logger.Info("Archive ingested",
		logger.Int("entries", len(summary.Entries)),
		logger.Int("records", summary.Records),
		logger.Int("indexed", summary.Indexed),
		logger.Int("failed", summary.Failed),
		logger.Int("parse_errors", summary.ParseErrors),
		logger.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// processEntry returns an error only when the entry data itself cannot be
// read. Syntax errors are recorded in the EntrySummary.
func (p *Pipeline) processEntry(ctx context.Context, entry archive.Entry) (EntrySummary, error) {
	log := p.logger.With(logger.Entry(entry.Name))
	ctx = logger.WithContext(ctx, log)
	result := EntrySummary{Name: entry.Name}

	log.Info("Processing entry")
	p.metrics.EntriesProcessed.Inc()

	n, err := product.Parse(ctx, entry.Body, func(rec product.Record) error {
		p.metrics.RecordsParsed.Inc()

		begin := time.Now()
		outcome := p.emitter.Emit(ctx, product.Clean(rec))
		p.metrics.SubmitDuration.Observe(time.Since(begin).Seconds())

		if outcome.OK {
			result.Indexed++
			p.metrics.RecordsIndexed.Inc()
		} else {
			result.Failed++
			p.metrics.RecordsFailed.Inc()
		}
		return nil
	})
	result.Records = n

	switch {
	case err == nil:
	case ctx.Err() != nil:
		log.Warn("Entry interrupted", logger.Error(err))
	case errors.Is(err, xmlstream.ErrRead):
		log.Error("Entry data unreadable, aborting archive",
			logger.Int("records_before_error", n),
			logger.Error(err),
		)
		return result, err
	default:
		result.ParseError = err.Error()
		p.metrics.ParseErrors.Inc()
		log.Error("Malformed XML, skipping rest of entry",
			logger.Int("records_before_error", n),
			logger.Error(err),
		)
	}

	log.Info("Entry closed",
		logger.Int("records", result.Records),
		logger.Int("indexed", result.Indexed),
		logger.Int("failed", result.Failed),
	)
	return result, nil
}
