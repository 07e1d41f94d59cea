package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// SetValue encodes a value with msgpack and stores it with the default TTL
func (m *Manager) SetValue(ctx context.Context, key string, value interface{}) error {
	return m.SetValueWithTTL(ctx, key, value, m.config.DefaultTTL)
}

// SetValueWithTTL encodes a value with msgpack and stores it with a custom TTL
func (m *Manager) SetValueWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := m.checkClient(); err != nil {
		return err
	}

	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCodecFailed, err)
	}
	return m.SetWithTTL(ctx, key, data, ttl)
}

// GetValue retrieves and decodes a msgpack value from cache into target.
// A missing key yields ErrKeyNotFound; a value that no longer decodes is
// reported as a codec failure, which callers treat like any other cache
// error and recompute from the store.
func (m *Manager) GetValue(ctx context.Context, key string, target interface{}) error {
	data, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := msgpack.Unmarshal(data, target); err != nil {
		m.metrics.RecordCacheError()
		return fmt.Errorf("%w: %v", ErrCodecFailed, err)
	}
	return nil
}
