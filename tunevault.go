// Package tunevault is the music-catalog backend core: albums, songs,
// playlists and collaborative playlist editing over PostgreSQL, with a
// cache-aside Redis layer and an asynchronous export hand-off.
package tunevault

import (
	"github.com/rs/zerolog"

	"github.com/tunevault/tunevault/pkg/cache"
	"github.com/tunevault/tunevault/pkg/db"
	"github.com/tunevault/tunevault/pkg/export"
	"github.com/tunevault/tunevault/pkg/service"
)

// DBConfig represents database configuration
type DBConfig = db.Config

// CacheConfig represents cache configuration
type CacheConfig = cache.Config

// NewDBManager creates a new database manager
func NewDBManager(config *DBConfig) (*db.Manager, error) {
	return db.NewManager(config)
}

// NewCacheManager creates a new cache manager
func NewCacheManager(config *CacheConfig) (*cache.Manager, error) {
	return cache.NewManager(config)
}

// NewAlbumService creates the album service (albums and likes).
// If cacheManager is nil, the service operates in store-only mode.
func NewAlbumService(store *db.Manager, cacheManager *cache.Manager, logger zerolog.Logger) *service.AlbumService {
	return service.NewAlbumService(store, cacheManager, logger)
}

// NewSongService creates the song service.
func NewSongService(store *db.Manager, cacheManager *cache.Manager, logger zerolog.Logger) *service.SongService {
	return service.NewSongService(store, cacheManager, logger)
}

// NewCollaborationService creates the collaboration service.
func NewCollaborationService(store *db.Manager, logger zerolog.Logger) *service.CollaborationService {
	return service.NewCollaborationService(store, logger)
}

// NewPlaylistService creates the playlist service wired to the collaborator
// fallback used by its authorization delegate.
func NewPlaylistService(store *db.Manager, cacheManager *cache.Manager, collaborations service.CollaborationVerifier, logger zerolog.Logger) *service.PlaylistService {
	return service.NewPlaylistService(store, cacheManager, collaborations, logger)
}

// NewExportPublisher connects the playlist export publisher to the queue.
func NewExportPublisher(url string, logger zerolog.Logger) (*export.Publisher, error) {
	return export.Connect(url, logger)
}
