package elasticsearch

import (
	"net/http"
	"time"

	"github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/retry"
)

// Config holds Elasticsearch client configuration
type Config struct {
	// URL is the Elasticsearch server URL (e.g., http://localhost:9200)
	URL string

	// RequestTimeout bounds how long a single request waits for response headers (default: 30s)
	RequestTimeout time.Duration

	// PingTimeout is the timeout for ping verification (default: 5s)
	PingTimeout time.Duration

	// RetryConfig governs connection verification only. Requests issued
	// through the returned client are never retried.
	RetryConfig *retry.Config

	// Transport overrides the HTTP transport. Tests use it to stub responses.
	Transport http.RoundTripper
}

// SetDefaults applies default values to the config if not set
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.RetryConfig == nil {
		c.RetryConfig = &retry.Config{
			MaxAttempts:  5,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		}
	}
}
