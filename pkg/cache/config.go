package cache

import (
	"fmt"
	"time"
)

// DefaultTTL is the expiration applied to every entry unless a caller
// overrides it with SetWithTTL.
const DefaultTTL = time.Hour

// Config holds Redis cache configuration
type Config struct {
	// Cache Strategy
	Enabled    bool          `json:"enabled" yaml:"enabled"`
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`

	// Redis Connection
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Password string `json:"password" yaml:"password"`
	Database int    `json:"database" yaml:"database"`

	// Connection Pool
	PoolSize     int           `json:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns" yaml:"min_idle_conns"`
	MaxConnAge   time.Duration `json:"max_conn_age" yaml:"max_conn_age"`
	PoolTimeout  time.Duration `json:"pool_timeout" yaml:"pool_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout"`

	// Performance
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`

	// SCAN batch size used by DeletePrefix
	ScanBatchSize int64 `json:"scan_batch_size" yaml:"scan_batch_size"`
}

// DefaultConfig returns a cache configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultTTL:    DefaultTTL,
		Host:          "localhost",
		Port:          6379,
		Database:      0,
		PoolSize:      10,
		MinIdleConns:  3,
		MaxConnAge:    time.Hour,
		PoolTimeout:   time.Second * 4,
		IdleTimeout:   time.Minute * 5,
		ReadTimeout:   time.Second * 3,
		WriteTimeout:  time.Second * 3,
		DialTimeout:   time.Second * 5,
		ScanBatchSize: 100,
	}
}

// Validate checks if the cache configuration is valid
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil // Skip validation if cache is disabled
	}

	if c.Host == "" {
		return fmt.Errorf("cache host is required when cache is enabled")
	}
	if c.Port <= 0 {
		return fmt.Errorf("cache port must be positive")
	}
	if c.DefaultTTL <= 0 {
		return fmt.Errorf("default_ttl must be positive when cache is enabled")
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool_size must be at least 1")
	}
	if c.ScanBatchSize < 1 {
		return fmt.Errorf("scan_batch_size must be at least 1")
	}

	return nil
}

// GetAddr returns the Redis connection address
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
