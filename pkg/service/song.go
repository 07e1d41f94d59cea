package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tunevault/tunevault/pkg/cache"
	"github.com/tunevault/tunevault/pkg/db"
	"github.com/tunevault/tunevault/pkg/fault"
	"github.com/tunevault/tunevault/pkg/id"
	"github.com/tunevault/tunevault/pkg/model"
)

// SongPayload carries the attributes for creating or editing a song.
type SongPayload struct {
	Title     string  `json:"title" validate:"required"`
	Year      int     `json:"year" validate:"required,gt=0"`
	Genre     string  `json:"genre" validate:"required"`
	Performer string  `json:"performer" validate:"required"`
	Duration  *int    `json:"duration" validate:"omitempty,gte=0"`
	AlbumID   *string `json:"albumId"`
}

// SongService owns song CRUD and the cached search listings.
type SongService struct {
	store *db.Manager
	cache *cache.Manager
	log   zerolog.Logger
}

// NewSongService builds a song service on the given store handle.
// A nil cache manager disables the cache layer for this service.
func NewSongService(store *db.Manager, cacheManager *cache.Manager, logger zerolog.Logger) *SongService {
	return &SongService{
		store: store,
		cache: cacheManager,
		log:   logger.With().Str("service", "songs").Logger(),
	}
}

// Add creates a song and returns its id. A referenced album must exist.
func (s *SongService) Add(ctx context.Context, payload SongPayload) (string, error) {
	if err := validatePayload(payload); err != nil {
		return "", err
	}

	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	if err := s.checkAlbumRef(ctx, payload.AlbumID); err != nil {
		return "", err
	}

	song := model.Song{
		ID:        id.NewSong(),
		Title:     payload.Title,
		Year:      payload.Year,
		Genre:     payload.Genre,
		Performer: payload.Performer,
		Duration:  payload.Duration,
		AlbumID:   payload.AlbumID,
	}
	res := s.store.DB().WithContext(ctx).Create(&song)
	if res.Error != nil {
		return "", fmt.Errorf("failed to add song: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", fault.Invariant("song was not added")
	}

	// A new song can surface in any previously cached search shape.
	invalidatePrefix(ctx, s.cache, s.log, songKeyPrefix)
	return song.ID, nil
}

// List returns songs matching the optional title and performer filters,
// case-insensitively, and whether the result came from cache. Each distinct
// query shape is cached under its own derived key.
func (s *SongService) List(ctx context.Context, title, performer string) ([]SongSummary, bool, error) {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	key := songListKey(title, performer)

	var cached []SongSummary
	if cacheLookup(ctx, s.cache, key, &cached) {
		return cached, true, nil
	}

	query := s.store.DB().WithContext(ctx).
		Model(&model.Song{}).
		Select("id, title, performer")
	if title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if performer != "" {
		query = query.Where("LOWER(performer) LIKE ?", "%"+strings.ToLower(performer)+"%")
	}

	songs := []SongSummary{}
	if err := query.Find(&songs).Error; err != nil {
		return nil, false, fmt.Errorf("failed to list songs: %w", err)
	}

	cacheStore(ctx, s.cache, s.log, key, songs)
	return songs, false, nil
}

// GetByID returns a song and whether it came from cache.
func (s *SongService) GetByID(ctx context.Context, songID string) (*model.Song, bool, error) {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var cached model.Song
	if cacheLookup(ctx, s.cache, songKey(songID), &cached) {
		return &cached, true, nil
	}

	var song model.Song
	if err := s.store.DB().WithContext(ctx).First(&song, "id = ?", songID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fault.NotFound("song not found")
		}
		return nil, false, fmt.Errorf("failed to get song: %w", err)
	}

	cacheStore(ctx, s.cache, s.log, songKey(songID), song)
	return &song, false, nil
}

// Edit updates a song's attributes. A referenced album must exist.
func (s *SongService) Edit(ctx context.Context, songID string, payload SongPayload) error {
	if err := validatePayload(payload); err != nil {
		return err
	}

	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	if err := s.checkAlbumRef(ctx, payload.AlbumID); err != nil {
		return err
	}

	res := s.store.DB().WithContext(ctx).
		Model(&model.Song{}).
		Where("id = ?", songID).
		Updates(map[string]interface{}{
			"title":     payload.Title,
			"year":      payload.Year,
			"genre":     payload.Genre,
			"performer": payload.Performer,
			"duration":  payload.Duration,
			"album_id":  payload.AlbumID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to edit song: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("song not found")
	}

	invalidatePrefix(ctx, s.cache, s.log, songKeyPrefix)
	return nil
}

// Delete removes a song. Playlist entries referencing it cascade away.
func (s *SongService) Delete(ctx context.Context, songID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	res := s.store.DB().WithContext(ctx).Delete(&model.Song{}, "id = ?", songID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete song: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("song not found")
	}

	invalidatePrefix(ctx, s.cache, s.log, songKeyPrefix)
	return nil
}

// checkAlbumRef fails with an invariant violation when a non-empty album
// reference does not resolve.
func (s *SongService) checkAlbumRef(ctx context.Context, albumID *string) error {
	if albumID == nil || *albumID == "" {
		return nil
	}

	var count int64
	if err := s.store.DB().WithContext(ctx).
		Model(&model.Album{}).
		Where("id = ?", *albumID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check album reference: %w", err)
	}
	if count == 0 {
		return fault.Invariant("referenced album not found")
	}
	return nil
}
