package logger

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level (debug, info, warn, error).
	Level string `env:"LOG_LEVEL" yaml:"level"`
	// Format is the encoder: "json" (default) or "console".
	Format string `env:"LOG_FORMAT" yaml:"format"`
	// Development adds stack traces to error entries.
	Development bool `yaml:"development"`
	// OutputPaths receive entries below error level.
	OutputPaths []string `yaml:"output_paths"`
	// ErrorOutputPaths receive error entries.
	ErrorOutputPaths []string `yaml:"error_output_paths"`
}

// Default configuration values.
const (
	DefaultLevel  = "info"
	DefaultFormat = "json"
)

// Default output paths.
var (
	DefaultOutputPaths      = []string{"stdout"}
	DefaultErrorOutputPaths = []string{"stderr"}
)

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = DefaultOutputPaths
	}
	if len(c.ErrorOutputPaths) == 0 {
		c.ErrorOutputPaths = DefaultErrorOutputPaths
	}
}
