package bootstrap

import (
	"fmt"

	infraconfig "github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/config"
	infralogger "github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/config"
)

const defaultConfigPath = "config.yml"

// Overrides carries command-line values that win over file and environment.
type Overrides struct {
	ConfigPath  string
	ArchivePath string
	Debug       bool
}

// LoadConfig loads, overrides and validates configuration.
func LoadConfig(o Overrides) (*config.Config, error) {
	configPath := o.ConfigPath
	if configPath == "" {
		configPath = infraconfig.GetConfigPath(defaultConfigPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if o.ArchivePath != "" {
		cfg.Archive.Path = o.ArchivePath
	}
	if o.Debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// CreateLogger creates the run logger. Every line carries the service name
// and the run ID.
func CreateLogger(cfg *config.Config, runID string) (infralogger.Logger, error) {
	log, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		infralogger.String("service", cfg.Service.Name),
		infralogger.String("run_id", runID),
	), nil
}
