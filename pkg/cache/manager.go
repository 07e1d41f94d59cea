// Package cache is the key/value layer in front of the persistent store.
// It holds only derived, reconstructible values: every entry expires after a
// default TTL and may be evicted at any time without loss of correctness.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager manages the Redis connection and cache operations
type Manager struct {
	config  *Config
	client  *redis.Client
	metrics *Metrics
}

// NewManager creates a new cache manager
func NewManager(config *Config) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache config: %w", err)
	}

	manager := &Manager{
		config:  config,
		metrics: NewMetrics(),
	}

	if config.Enabled {
		manager.client = redis.NewClient(&redis.Options{
			Addr:            config.GetAddr(),
			Password:        config.Password,
			DB:              config.Database,
			PoolSize:        config.PoolSize,
			MinIdleConns:    config.MinIdleConns,
			ConnMaxLifetime: config.MaxConnAge,
			PoolTimeout:     config.PoolTimeout,
			ConnMaxIdleTime: config.IdleTimeout,
			ReadTimeout:     config.ReadTimeout,
			WriteTimeout:    config.WriteTimeout,
			DialTimeout:     config.DialTimeout,
		})
	}

	return manager, nil
}

// Config returns the manager's configuration
func (m *Manager) Config() *Config {
	return m.config
}

// Close closes the Redis connection
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Ping tests the Redis connection
// Returns nil if cache is disabled (not an error condition)
func (m *Manager) Ping(ctx context.Context) error {
	if !m.config.Enabled {
		return nil
	}
	if m.client == nil {
		return ErrClientNotInitialized
	}

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}

// checkClient validates that cache is enabled and client is initialized
func (m *Manager) checkClient() error {
	if !m.config.Enabled {
		return ErrCacheDisabled
	}
	if m.client == nil {
		return ErrClientNotInitialized
	}
	return nil
}

// Get retrieves a value from cache. A missing key yields ErrKeyNotFound so
// callers can branch on the miss without ambiguity versus an empty value.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	if err := m.checkClient(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := m.client.Get(ctx, key)
	m.metrics.RecordGet(time.Since(start))

	if result.Err() == redis.Nil {
		m.metrics.RecordCacheMiss()
		return nil, ErrKeyNotFound
	}

	if result.Err() != nil {
		m.metrics.RecordCacheError()
		return nil, fmt.Errorf("cache get error: %w", result.Err())
	}

	m.metrics.RecordCacheHit()
	return []byte(result.Val()), nil
}

// Set stores a value in cache with the default TTL
func (m *Manager) Set(ctx context.Context, key string, value []byte) error {
	return m.SetWithTTL(ctx, key, value, m.config.DefaultTTL)
}

// SetWithTTL stores a value in cache with a custom TTL
func (m *Manager) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.checkClient(); err != nil {
		return err
	}

	start := time.Now()
	result := m.client.Set(ctx, key, value, ttl)
	m.metrics.RecordSet(time.Since(start))

	return result.Err()
}

// Delete removes a key from cache. Deleting a key that does not exist is a
// no-op, never an error.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if err := m.checkClient(); err != nil {
		return err
	}

	start := time.Now()
	result := m.client.Del(ctx, key)
	m.metrics.RecordDelete(time.Since(start))

	if result.Err() != nil {
		return result.Err()
	}
	m.metrics.RecordInvalidation()
	return nil
}

// DeletePrefix removes every key whose name starts with prefix, using SCAN
// instead of KEYS so the server is never blocked. Collection caches keyed by
// arbitrary query text cannot be enumerated by callers; this is how they are
// invalidated wholesale.
func (m *Manager) DeletePrefix(ctx context.Context, prefix string) error {
	if err := m.checkClient(); err != nil {
		return err
	}

	pattern := prefix + "*"
	var cursor uint64

	for {
		batch, next, err := m.client.Scan(ctx, cursor, pattern, m.config.ScanBatchSize).Result()
		if err != nil {
			m.metrics.RecordCacheError()
			return fmt.Errorf("failed to scan keys with prefix %s: %w", prefix, err)
		}

		if len(batch) > 0 {
			if err := m.client.Del(ctx, batch...).Err(); err != nil {
				m.metrics.RecordCacheError()
				return fmt.Errorf("failed to delete batch: %w", err)
			}
			m.metrics.RecordInvalidation()
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return nil
}

// Exists checks if a key exists in cache
func (m *Manager) Exists(ctx context.Context, key string) (bool, error) {
	if err := m.checkClient(); err != nil {
		return false, err
	}

	result := m.client.Exists(ctx, key)
	if result.Err() != nil {
		return false, result.Err()
	}
	return result.Val() > 0, nil
}

// GetMetrics returns current cache performance metrics
func (m *Manager) GetMetrics() MetricsSnapshot {
	if m.metrics == nil {
		return MetricsSnapshot{}
	}
	return m.metrics.GetSnapshot()
}

// ResetMetrics resets all performance metrics counters
func (m *Manager) ResetMetrics() {
	if m.metrics != nil {
		m.metrics.Reset()
	}
}
