package bootstrap_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonesrussell/north-cloud/product-ingestor/internal/bootstrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	for _, key := range []string{"CONFIG_PATH", "INGEST_ARCHIVE_PATH", "ELASTICSEARCH_URL", "LOG_LEVEL", "LOG_FORMAT", "APP_DEBUG"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("INGEST_ARCHIVE_PATH", "/from/env.zip")

	cfg, err := bootstrap.LoadConfig(bootstrap.Overrides{
		ConfigPath:  filepath.Join(t.TempDir(), "config.yml"),
		ArchivePath: "/from/flag.zip",
		Debug:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/from/flag.zip", cfg.Archive.Path)
	assert.True(t, cfg.Service.Debug)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_ConfigPathFromEnv(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "ingest.yml")
	require.NoError(t, os.WriteFile(path, []byte("archive:\n  path: /srv/feed.zip\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := bootstrap.LoadConfig(bootstrap.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "/srv/feed.zip", cfg.Archive.Path)
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ELASTICSEARCH_URL", "ftp://nowhere")

	_, err := bootstrap.LoadConfig(bootstrap.Overrides{ConfigPath: filepath.Join(t.TempDir(), "config.yml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elasticsearch.url")
}

func TestCreateLogger(t *testing.T) {
	isolateEnv(t)
	cfg, err := bootstrap.LoadConfig(bootstrap.Overrides{ConfigPath: filepath.Join(t.TempDir(), "config.yml")})
	require.NoError(t, err)

	log, err := bootstrap.CreateLogger(cfg, "run-42")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestRun_ConfigFailureHasNoSummary(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: chatty\n"), 0o600))

	summary, err := bootstrap.Run(context.Background(), bootstrap.Overrides{ConfigPath: path})
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.Contains(t, err.Error(), "logging.level")
}
