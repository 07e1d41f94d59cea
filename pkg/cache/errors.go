package cache

import "errors"

// Sentinel errors for cache operations
var (
	// ErrCacheDisabled is returned when attempting operations on a disabled cache
	ErrCacheDisabled = errors.New("cache is disabled")

	// ErrClientNotInitialized is returned when the Redis client is nil
	ErrClientNotInitialized = errors.New("cache client not initialized")

	// ErrKeyNotFound is returned when a cache key doesn't exist. A miss is a
	// control-flow branch for callers, not a failure: it is distinguishable
	// from a key holding an empty value and from connectivity errors.
	ErrKeyNotFound = errors.New("cache key not found")

	// ErrConnectionFailed is returned when the Redis connection cannot be established
	ErrConnectionFailed = errors.New("cache connection failed")

	// ErrCodecFailed is returned when encoding or decoding a cached value fails
	ErrCodecFailed = errors.New("cache value codec failed")
)

// IsCacheDisabled checks if an error is ErrCacheDisabled
func IsCacheDisabled(err error) bool {
	return errors.Is(err, ErrCacheDisabled)
}

// IsKeyNotFound checks if an error is ErrKeyNotFound
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsConnectionFailed checks if an error is ErrConnectionFailed
func IsConnectionFailed(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}
