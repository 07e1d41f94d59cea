package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tunevault/tunevault/pkg/cache"
	"github.com/tunevault/tunevault/pkg/db"
	"github.com/tunevault/tunevault/pkg/fault"
	"github.com/tunevault/tunevault/pkg/id"
	"github.com/tunevault/tunevault/pkg/model"
)

// AlbumPayload carries the attributes for creating or editing an album.
type AlbumPayload struct {
	Name string `json:"name" validate:"required"`
	Year int    `json:"year" validate:"required,gt=0"`
}

// SongSummary is the id/title/performer projection shared by album detail,
// playlist and search listings.
type SongSummary struct {
	ID        string `json:"id" msgpack:"id"`
	Title     string `json:"title" msgpack:"title"`
	Performer string `json:"performer" msgpack:"performer"`
}

// AlbumDetail is an album together with the songs attached to it.
type AlbumDetail struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Year     int           `json:"year"`
	CoverURL *string       `json:"coverUrl"`
	Songs    []SongSummary `json:"songs"`
}

// AlbumService owns album CRUD and the per-album likes counter.
type AlbumService struct {
	store *db.Manager
	cache *cache.Manager
	log   zerolog.Logger
}

// NewAlbumService builds an album service on the given store handle.
// A nil cache manager disables the cache layer for this service.
func NewAlbumService(store *db.Manager, cacheManager *cache.Manager, logger zerolog.Logger) *AlbumService {
	return &AlbumService{
		store: store,
		cache: cacheManager,
		log:   logger.With().Str("service", "albums").Logger(),
	}
}

// Add creates an album and returns its id.
func (s *AlbumService) Add(ctx context.Context, payload AlbumPayload) (string, error) {
	if err := validatePayload(payload); err != nil {
		return "", err
	}

	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	album := model.Album{ID: id.NewAlbum(), Name: payload.Name, Year: payload.Year}
	res := s.store.DB().WithContext(ctx).Create(&album)
	if res.Error != nil {
		return "", fmt.Errorf("failed to add album: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", fault.Invariant("album was not added")
	}
	return album.ID, nil
}

// GetByID returns an album with its songs. Album detail is served straight
// from the store; it is not individually cached.
func (s *AlbumService) GetByID(ctx context.Context, albumID string) (*AlbumDetail, error) {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var album model.Album
	if err := s.store.DB().WithContext(ctx).First(&album, "id = ?", albumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.NotFound("album not found")
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	songs := []SongSummary{}
	if err := s.store.DB().WithContext(ctx).
		Model(&model.Song{}).
		Select("id, title, performer").
		Where("album_id = ?", albumID).
		Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to get album songs: %w", err)
	}

	return &AlbumDetail{
		ID:       album.ID,
		Name:     album.Name,
		Year:     album.Year,
		CoverURL: album.CoverURL,
		Songs:    songs,
	}, nil
}

// Edit updates an album's name and year.
func (s *AlbumService) Edit(ctx context.Context, albumID string, payload AlbumPayload) error {
	if err := validatePayload(payload); err != nil {
		return err
	}

	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	res := s.store.DB().WithContext(ctx).
		Model(&model.Album{}).
		Where("id = ?", albumID).
		Updates(map[string]interface{}{"name": payload.Name, "year": payload.Year})
	if res.Error != nil {
		return fmt.Errorf("failed to edit album: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("album not found")
	}
	return nil
}

// SetCover persists the cover URL handed over by the upload collaborator.
func (s *AlbumService) SetCover(ctx context.Context, albumID, fileLocation string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	res := s.store.DB().WithContext(ctx).
		Model(&model.Album{}).
		Where("id = ?", albumID).
		Update("cover_url", fileLocation)
	if res.Error != nil {
		return fmt.Errorf("failed to set album cover: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("album not found")
	}
	return nil
}

// Delete removes an album. The store cascades its likes away and detaches
// its songs.
func (s *AlbumService) Delete(ctx context.Context, albumID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	res := s.store.DB().WithContext(ctx).Delete(&model.Album{}, "id = ?", albumID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete album: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("album not found")
	}

	invalidateKey(ctx, s.cache, s.log, likesKey(albumID))
	return nil
}

// AddLike records one like by a user on an album. A user may like a given
// album at most once; the unique index decides concurrent duplicates.
func (s *AlbumService) AddLike(ctx context.Context, albumID, userID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var albums int64
	if err := s.store.DB().WithContext(ctx).
		Model(&model.Album{}).
		Where("id = ?", albumID).
		Count(&albums).Error; err != nil {
		return fmt.Errorf("failed to check album: %w", err)
	}
	if albums == 0 {
		return fault.NotFound("album not found")
	}

	var liked int64
	if err := s.store.DB().WithContext(ctx).
		Model(&model.AlbumLike{}).
		Where("album_id = ? AND user_id = ?", albumID, userID).
		Count(&liked).Error; err != nil {
		return fmt.Errorf("failed to check album like: %w", err)
	}
	if liked > 0 {
		return fault.Invariant("album already liked")
	}

	like := model.AlbumLike{ID: id.NewAlbumLike(), AlbumID: albumID, UserID: userID}
	if err := s.store.DB().WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Race loser gets the same verdict as the precheck.
			return fault.Invariant("album already liked")
		}
		return fmt.Errorf("failed to add album like: %w", err)
	}

	invalidateKey(ctx, s.cache, s.log, likesKey(albumID))
	return nil
}

// DeleteLike removes a user's like from an album.
func (s *AlbumService) DeleteLike(ctx context.Context, albumID, userID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	res := s.store.DB().WithContext(ctx).
		Where("album_id = ? AND user_id = ?", albumID, userID).
		Delete(&model.AlbumLike{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete album like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.Invariant("album is not liked by this user")
	}

	invalidateKey(ctx, s.cache, s.log, likesKey(albumID))
	return nil
}

// Likes returns the album's like count and whether it came from cache.
func (s *AlbumService) Likes(ctx context.Context, albumID string) (int64, bool, error) {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var cached int64
	if cacheLookup(ctx, s.cache, likesKey(albumID), &cached) {
		return cached, true, nil
	}

	var count int64
	if err := s.store.DB().WithContext(ctx).
		Model(&model.AlbumLike{}).
		Where("album_id = ?", albumID).
		Count(&count).Error; err != nil {
		return 0, false, fmt.Errorf("failed to count album likes: %w", err)
	}

	cacheStore(ctx, s.cache, s.log, likesKey(albumID), count)
	return count, false, nil
}
