package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Leaderboard.Size)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 10s
  public_base_url: https://bingo.example.com
storage:
  type: redis
redis:
  url: redis://redis.internal:6379/2
  pool_size: 32
  min_idle_conns: 4
  txn_attempts: 5
archive:
  enabled: true
  postgres:
    host: db.internal
    password: secret
leaderboard:
  size: 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "https://bingo.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://redis.internal:6379/2", cfg.Redis.URL)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, 4, cfg.Redis.MinIdleConns)
	assert.Equal(t, 5, cfg.Redis.TxnAttempts)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "db.internal", cfg.Archive.Postgres.Host)
	assert.Equal(t, 25, cfg.Leaderboard.Size)

	// Unspecified values fall back to defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5432, cfg.Archive.Postgres.Port)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_REDIS_HOST", "redis.test")
	path := writeConfig(t, `
redis:
  url: redis://${TEST_REDIS_HOST}:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis://redis.test:6379", cfg.Redis.URL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BINGO_STORAGE_TYPE", "redis")
	t.Setenv("BINGO_PORT", "7070")
	path := writeConfig(t, `
server:
  port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	path := writeConfig(t, `
storage:
  type: cassandra
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown storage type")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
