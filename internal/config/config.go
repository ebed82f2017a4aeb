package config

import (
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/config"
)

// Default configuration values.
const (
	defaultServiceName    = "product-ingestor"
	defaultServiceVersion = "1.0.0"
	defaultArchivePath    = "./xml.zip"
	defaultESURL          = "http://localhost:9200"
	defaultESTimeoutSec   = 30
	defaultESPingSec      = 5
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"

	// ProductIndex is the index every record is written to.
	ProductIndex = "products"
)

// Config holds the application configuration.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Archive       ArchiveConfig       `yaml:"archive"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Logging       LoggingConfig       `yaml:"logging"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

// ServiceConfig holds service configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Debug   bool   `env:"APP_DEBUG" yaml:"debug"`
}

// ArchiveConfig locates the input archive.
type ArchiveConfig struct {
	Path string `env:"INGEST_ARCHIVE_PATH" yaml:"path"`
}

// ElasticsearchConfig holds Elasticsearch configuration. Index is fixed and
// cannot be set from the file or the environment.
type ElasticsearchConfig struct {
	infraconfig.ElasticsearchConfig `yaml:",inline"`

	Index string `yaml:"-"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig = infraconfig.LoggingConfig

// MetricsConfig controls the end-of-run metrics dump.
type MetricsConfig struct {
	// TextfilePath, when set, receives the run's counters in the Prometheus
	// text format (node_exporter textfile collector).
	TextfilePath string `env:"INGEST_METRICS_TEXTFILE" yaml:"textfile_path"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setArchiveDefaults(&cfg.Archive)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
}

func setArchiveDefaults(a *ArchiveConfig) {
	if a.Path == "" {
		a.Path = defaultArchivePath
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.RequestTimeout == 0 {
		e.RequestTimeout = defaultESTimeoutSec * time.Second
	}
	if e.PingTimeout == 0 {
		e.PingTimeout = defaultESPingSec * time.Second
	}
	e.Index = ProductIndex
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidateRequired("archive.path", c.Archive.Path); err != nil {
		return err
	}
	if err := c.Elasticsearch.Validate(); err != nil {
		return err
	}
	if c.Elasticsearch.Index == "" {
		return &infraconfig.ValidationError{Field: "elasticsearch.index", Message: "is required"}
	}
	if c.Elasticsearch.RequestTimeout < 0 {
		return &infraconfig.ValidationError{Field: "elasticsearch.request_timeout", Message: "must not be negative"}
	}
	return c.Logging.Validate()
}
