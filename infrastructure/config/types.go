package config

import "time"

// ElasticsearchConfig holds the document store connection settings.
type ElasticsearchConfig struct {
	URL            string        `env:"ELASTICSEARCH_URL" yaml:"url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PingTimeout    time.Duration `yaml:"ping_timeout"`
}

// SetDefaults applies default values for ElasticsearchConfig.
func (c *ElasticsearchConfig) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// SetDefaults applies default values for LoggingConfig.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}
