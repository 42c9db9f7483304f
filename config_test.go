package workerpool

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renholt/go-worker-pool/core"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
pool_size = 8
pool_name = "ingest"
log_level = "debug"
user_agent = "custom-agent/2.0"
connection_timeout_ms = 1500
request_timeout_ms = 10000
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.PoolSize)
	assert.Equal(t, "ingest", cfg.PoolName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "custom-agent/2.0", cfg.UserAgent)
	assert.Equal(t, 1500*time.Millisecond, cfg.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `pool_name = "minimal"`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, "minimal", cfg.PoolName)
	assert.Equal(t, def.PoolSize, cfg.PoolSize)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
	assert.Equal(t, def.ConnectTimeout, cfg.ConnectTimeout)
	assert.Equal(t, def.RequestTimeout, cfg.RequestTimeout)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := writeConfigFile(t, `log_level = "shout"`)
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	path = writeConfigFile(t, `pool_size = -4`)
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.ConnectTimeout = -time.Second
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfig)
}
