// Package service implements the catalog's entity services: cache-aside
// reads tagged with their data source, write-then-invalidate mutations, the
// playlist authorization delegate and the append-only activity log.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tunevault/tunevault/pkg/cache"
)

// The cache is best effort throughout: a miss, a connectivity failure or a
// stale codec all route the read to the persistent store, and a failed
// invalidation after a confirmed write is logged and accepted (staleness is
// bounded by the entry TTL). Cache trouble never reaches the caller.

// cacheLookup reports whether key decoded into target. A nil manager means
// the service runs store-only.
func cacheLookup(ctx context.Context, cm *cache.Manager, key string, target interface{}) bool {
	if cm == nil {
		return false
	}
	return cm.GetValue(ctx, key, target) == nil
}

// cacheStore repopulates key after a store read.
func cacheStore(ctx context.Context, cm *cache.Manager, log zerolog.Logger, key string, value interface{}) {
	if cm == nil {
		return
	}
	if err := cm.SetValue(ctx, key, value); err != nil && !cache.IsCacheDisabled(err) {
		log.Debug().Err(err).Str("key", key).Msg("cache store failed")
	}
}

// invalidateKey drops a single derived key after a confirmed write.
func invalidateKey(ctx context.Context, cm *cache.Manager, log zerolog.Logger, key string) {
	if cm == nil {
		return
	}
	if err := cm.Delete(ctx, key); err != nil && !cache.IsCacheDisabled(err) {
		log.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}

// invalidatePrefix drops every derived key under prefix after a confirmed
// write.
func invalidatePrefix(ctx context.Context, cm *cache.Manager, log zerolog.Logger, prefix string) {
	if cm == nil {
		return
	}
	if err := cm.DeletePrefix(ctx, prefix); err != nil && !cache.IsCacheDisabled(err) {
		log.Warn().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
	}
}
