package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: spa_registry
    user: registry
  redis:
    address: localhost:6379
workers:
  approve-therapist:
    enabled: true
  list-spas:
    enabled: false
    timeout: 5000
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
	assert.Equal(t, 20, cfg.Registry.DefaultPageLimit)
	assert.Equal(t, 100, cfg.Registry.MaxPageLimit)
	assert.Equal(t, 60, cfg.Registry.CountsCacheTTL)
	assert.Equal(t, "spa_directory", cfg.Directory.Index)
	assert.Equal(t, "info", cfg.Logging.Level)

	approve := cfg.Workers["approve-therapist"]
	assert.True(t, approve.Enabled)
	assert.Equal(t, 5, approve.MaxJobsActive)
	assert.Equal(t, 30000, approve.Timeout)

	list := cfg.Workers["list-spas"]
	assert.False(t, list.Enabled)
	assert.Equal(t, 5000, list.Timeout)
}

func TestLoadFromFile_MissingBroker(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: localhost
    database: spa_registry
    user: registry
  redis:
    address: localhost:6379
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camunda.broker_address")
}

func TestLoadFromFile_DirectoryNeedsElasticsearch(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, minimalConfig+`
directory:
  enabled: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elasticsearch")
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_REGISTRY_DB_NAME", "from_env")
	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: ${TEST_REGISTRY_DB_NAME}
    user: registry
  redis:
    address: localhost:6379
`))
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Database.Postgres.Database)
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{}}
	w := GetWorkerConfig(cfg, "unknown-task")
	assert.True(t, w.Enabled)
	assert.Equal(t, 30*time.Second, GetDuration(w.Timeout))
}
