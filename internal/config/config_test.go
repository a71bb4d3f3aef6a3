package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "complaint-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid REDIS_DB")
}
