// Package metrics holds the Prometheus counters of an ingestion run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "product_ingestor"

// Metrics holds all ingestion metrics. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	EntriesProcessed prometheus.Counter
	ParseErrors      prometheus.Counter
	RecordsParsed    prometheus.Counter
	RecordsIndexed   prometheus.Counter
	RecordsFailed    prometheus.Counter
	SubmitDuration   prometheus.Histogram
}

// New creates a Metrics instance on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EntriesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_processed_total",
			Help:      "Archive entries scanned",
		}),
		ParseErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Archive entries abandoned because of malformed XML",
		}),
		RecordsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Product records assembled from the archive",
		}),
		RecordsIndexed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_indexed_total",
			Help:      "Product records accepted by Elasticsearch",
		}),
		RecordsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_failed_total",
			Help:      "Product records whose submission failed",
		}),
		SubmitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submit_duration_seconds",
			Help:      "Time to submit a single record",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path in the Prometheus text format,
// for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
