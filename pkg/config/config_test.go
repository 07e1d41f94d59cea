package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	app := Default()

	assert.Equal(t, "localhost", app.DB.Host)
	assert.Equal(t, 5432, app.DB.Port)
	assert.True(t, app.Cache.Enabled)
	assert.Equal(t, 6379, app.Cache.Port)
	assert.Equal(t, "nats://localhost:4222", app.NATSURL)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "tunevault")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_QUERY_TIMEOUT", "10s")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("NATS_URL", "nats://queue.internal:4222")

	app, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", app.DB.Host)
	assert.Equal(t, 5433, app.DB.Port)
	assert.Equal(t, "tunevault", app.DB.Database)
	assert.Equal(t, "svc", app.DB.Username)
	assert.Equal(t, "secret", app.DB.Password)
	assert.Equal(t, 10*time.Second, app.DB.QueryTimeout)
	assert.False(t, app.Cache.Enabled)
	assert.Equal(t, "cache.internal", app.Cache.Host)
	assert.Equal(t, 30*time.Minute, app.Cache.DefaultTTL)
	assert.Equal(t, "nats://queue.internal:4222", app.NATSURL)
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	// No database name or user anywhere in the environment.
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_USER", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	app := Default()
	app.DB.Database = "tunevault"
	app.DB.Username = "svc"
	assert.NoError(t, app.Validate())

	app.NATSURL = ""
	assert.ErrorContains(t, app.Validate(), "nats url")
}
