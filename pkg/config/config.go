// Package config assembles the module's runtime configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/tunevault/tunevault/pkg/cache"
	"github.com/tunevault/tunevault/pkg/db"
)

// App is the full runtime configuration.
type App struct {
	DB      db.Config
	Cache   cache.Config
	NATSURL string
}

// Default returns the configuration before environment overrides.
func Default() *App {
	return &App{
		DB:      *db.DefaultConfig(),
		Cache:   *cache.DefaultConfig(),
		NATSURL: "nats://localhost:4222",
	}
}

// Load reads .env (if present) and the environment into an App.
func Load() (*App, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	app := Default()

	app.DB.Host = envStr("DB_HOST", app.DB.Host)
	app.DB.Port = envInt("DB_PORT", app.DB.Port)
	app.DB.Database = envStr("DB_NAME", app.DB.Database)
	app.DB.Username = envStr("DB_USER", app.DB.Username)
	app.DB.Password = envStr("DB_PASSWORD", app.DB.Password)
	app.DB.SSLMode = envStr("DB_SSL_MODE", app.DB.SSLMode)
	app.DB.MaxOpenConns = envInt("DB_MAX_OPEN_CONNS", app.DB.MaxOpenConns)
	app.DB.MaxIdleConns = envInt("DB_MAX_IDLE_CONNS", app.DB.MaxIdleConns)
	app.DB.QueryTimeout = envDuration("DB_QUERY_TIMEOUT", app.DB.QueryTimeout)
	app.DB.LogLevel = envStr("DB_LOG_LEVEL", app.DB.LogLevel)

	app.Cache.Enabled = envBool("CACHE_ENABLED", app.Cache.Enabled)
	app.Cache.Host = envStr("REDIS_HOST", app.Cache.Host)
	app.Cache.Port = envInt("REDIS_PORT", app.Cache.Port)
	app.Cache.Password = envStr("REDIS_PASSWORD", app.Cache.Password)
	app.Cache.Database = envInt("REDIS_DB", app.Cache.Database)
	app.Cache.DefaultTTL = envDuration("CACHE_TTL", app.Cache.DefaultTTL)

	app.NATSURL = envStr("NATS_URL", app.NATSURL)

	if err := app.Validate(); err != nil {
		return nil, err
	}
	return app, nil
}

// Validate delegates to the component configurations.
func (a *App) Validate() error {
	if err := a.DB.Validate(); err != nil {
		return fmt.Errorf("db config: %w", err)
	}
	if err := a.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	if a.NATSURL == "" {
		return fmt.Errorf("nats url is required")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
