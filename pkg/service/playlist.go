package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tunevault/tunevault/pkg/cache"
	"github.com/tunevault/tunevault/pkg/db"
	"github.com/tunevault/tunevault/pkg/fault"
	"github.com/tunevault/tunevault/pkg/id"
	"github.com/tunevault/tunevault/pkg/model"
)

// PlaylistPayload carries the attributes for creating a playlist.
type PlaylistPayload struct {
	Name string `json:"name" validate:"required"`
}

// PlaylistSummary is the projection returned by playlist listings.
type PlaylistSummary struct {
	ID      string `json:"id" msgpack:"id"`
	Name    string `json:"name" msgpack:"name"`
	OwnerID string `json:"ownerId" msgpack:"ownerId"`
}

// PlaylistWithSongs is a playlist together with its song entries.
type PlaylistWithSongs struct {
	ID      string        `json:"id" msgpack:"id"`
	Name    string        `json:"name" msgpack:"name"`
	OwnerID string        `json:"ownerId" msgpack:"ownerId"`
	Songs   []SongSummary `json:"songs" msgpack:"songs"`
}

// ActivityRecord is one entry of a playlist's append-only audit trail.
type ActivityRecord struct {
	SongID string    `json:"songId" msgpack:"songId"`
	UserID string    `json:"userId" msgpack:"userId"`
	Action string    `json:"action" msgpack:"action"`
	Time   time.Time `json:"time" msgpack:"time"`
}

// CollaborationVerifier answers whether a user is a collaborator on a
// playlist. The playlist service only consumes the verdict; any error from
// the probe is treated as "not a collaborator".
type CollaborationVerifier interface {
	Verify(ctx context.Context, playlistID, userID string) error
}

// PlaylistService owns playlists, their song entries, the activity log and
// the authorization delegate.
type PlaylistService struct {
	store          *db.Manager
	cache          *cache.Manager
	collaborations CollaborationVerifier
	log            zerolog.Logger
}

// NewPlaylistService builds a playlist service on the given store handle.
// A nil cache manager disables the cache layer; a nil verifier disables the
// collaborator fallback, making every check owner-only.
func NewPlaylistService(store *db.Manager, cacheManager *cache.Manager, collaborations CollaborationVerifier, logger zerolog.Logger) *PlaylistService {
	return &PlaylistService{
		store:          store,
		cache:          cacheManager,
		collaborations: collaborations,
		log:            logger.With().Str("service", "playlists").Logger(),
	}
}

// Add creates a playlist owned by ownerID and returns its id.
func (s *PlaylistService) Add(ctx context.Context, payload PlaylistPayload, ownerID string) (string, error) {
	if err := validatePayload(payload); err != nil {
		return "", err
	}
	if ownerID == "" {
		return "", fault.Invariant("playlist owner is required")
	}

	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	playlist := model.Playlist{ID: id.NewPlaylist(), Name: payload.Name, OwnerID: ownerID}
	res := s.store.DB().WithContext(ctx).Create(&playlist)
	if res.Error != nil {
		return "", fmt.Errorf("failed to add playlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", fault.Invariant("playlist was not added")
	}

	invalidateKey(ctx, s.cache, s.log, ownerPlaylistsKey(ownerID))
	return playlist.ID, nil
}

// ListByOwner returns the playlists a user owns and whether the result came
// from cache.
func (s *PlaylistService) ListByOwner(ctx context.Context, userID string) ([]PlaylistSummary, bool, error) {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	key := ownerPlaylistsKey(userID)

	var cached []PlaylistSummary
	if cacheLookup(ctx, s.cache, key, &cached) {
		return cached, true, nil
	}

	playlists := []PlaylistSummary{}
	if err := s.store.DB().WithContext(ctx).
		Model(&model.Playlist{}).
		Select("id, name, owner AS owner_id").
		Where("owner = ?", userID).
		Find(&playlists).Error; err != nil {
		return nil, false, fmt.Errorf("failed to list playlists: %w", err)
	}

	cacheStore(ctx, s.cache, s.log, key, playlists)
	return playlists, false, nil
}

// Delete removes a playlist. The store cascades its song entries,
// collaborations and activities; the invalidation mirrors that cascade.
func (s *PlaylistService) Delete(ctx context.Context, playlistID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var playlist model.Playlist
	if err := s.store.DB().WithContext(ctx).First(&playlist, "id = ?", playlistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fault.NotFound("playlist not found")
		}
		return fmt.Errorf("failed to get playlist: %w", err)
	}

	res := s.store.DB().WithContext(ctx).Delete(&model.Playlist{}, "id = ?", playlistID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete playlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("playlist not found")
	}

	invalidateKey(ctx, s.cache, s.log, ownerPlaylistsKey(playlist.OwnerID))
	invalidateKey(ctx, s.cache, s.log, playlistSongsKey(playlistID))
	invalidateKey(ctx, s.cache, s.log, playlistActivitiesKey(playlistID))
	return nil
}

// AddSong adds a song to a playlist and records the mutation in the
// activity log. Duplicate entries are permitted.
func (s *PlaylistService) AddSong(ctx context.Context, playlistID, songID, userID string) error {
	if songID == "" {
		return fault.Invariant("song id is required")
	}

	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	if err := s.checkPlaylistExists(ctx, playlistID); err != nil {
		return err
	}

	var songs int64
	if err := s.store.DB().WithContext(ctx).
		Model(&model.Song{}).
		Where("id = ?", songID).
		Count(&songs).Error; err != nil {
		return fmt.Errorf("failed to check song: %w", err)
	}
	if songs == 0 {
		return fault.Invariant("referenced song not found")
	}

	entry := model.PlaylistSong{ID: id.NewPlaylistSong(), PlaylistID: playlistID, SongID: songID}
	if err := s.store.DB().WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to add playlist song: %w", err)
	}

	invalidateKey(ctx, s.cache, s.log, playlistSongsKey(playlistID))
	return s.appendActivity(ctx, playlistID, songID, userID, model.ActivityAdd)
}

// DeleteSong removes a song from a playlist and records the mutation in the
// activity log.
func (s *PlaylistService) DeleteSong(ctx context.Context, playlistID, songID, userID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	res := s.store.DB().WithContext(ctx).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&model.PlaylistSong{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete playlist song: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.NotFound("song not found in playlist")
	}

	invalidateKey(ctx, s.cache, s.log, playlistSongsKey(playlistID))
	return s.appendActivity(ctx, playlistID, songID, userID, model.ActivityDelete)
}

// Songs returns a playlist with its songs and whether the result came from
// cache.
func (s *PlaylistService) Songs(ctx context.Context, playlistID string) (*PlaylistWithSongs, bool, error) {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	key := playlistSongsKey(playlistID)

	var cached PlaylistWithSongs
	if cacheLookup(ctx, s.cache, key, &cached) {
		return &cached, true, nil
	}

	var playlist model.Playlist
	if err := s.store.DB().WithContext(ctx).First(&playlist, "id = ?", playlistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fault.NotFound("playlist not found")
		}
		return nil, false, fmt.Errorf("failed to get playlist: %w", err)
	}

	songs := []SongSummary{}
	if err := s.store.DB().WithContext(ctx).
		Table("playlist_songs").
		Select("songs.id, songs.title, songs.performer").
		Joins("JOIN songs ON songs.id = playlist_songs.song_id").
		Where("playlist_songs.playlist_id = ?", playlistID).
		Find(&songs).Error; err != nil {
		return nil, false, fmt.Errorf("failed to get playlist songs: %w", err)
	}

	result := PlaylistWithSongs{
		ID:      playlist.ID,
		Name:    playlist.Name,
		OwnerID: playlist.OwnerID,
		Songs:   songs,
	}

	cacheStore(ctx, s.cache, s.log, key, result)
	return &result, false, nil
}

// Activities returns a playlist's audit trail in insertion order and
// whether it came from cache.
func (s *PlaylistService) Activities(ctx context.Context, playlistID string) ([]ActivityRecord, bool, error) {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	key := playlistActivitiesKey(playlistID)

	var cached []ActivityRecord
	if cacheLookup(ctx, s.cache, key, &cached) {
		return cached, true, nil
	}

	if err := s.checkPlaylistExists(ctx, playlistID); err != nil {
		return nil, false, err
	}

	records := []ActivityRecord{}
	if err := s.store.DB().WithContext(ctx).
		Model(&model.PlaylistActivity{}).
		Select("song_id, user_id, action, created_at AS time").
		Where("playlist_id = ?", playlistID).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, false, fmt.Errorf("failed to list playlist activities: %w", err)
	}

	cacheStore(ctx, s.cache, s.log, key, records)
	return records, false, nil
}

// VerifyOwner fails with NotFound when the playlist does not exist and with
// Forbidden when the user is not its owner. Owner-only operations (playlist
// deletion, export, collaboration management) call this check alone.
func (s *PlaylistService) VerifyOwner(ctx context.Context, playlistID, userID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var playlist model.Playlist
	if err := s.store.DB().WithContext(ctx).First(&playlist, "id = ?", playlistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fault.NotFound("playlist not found")
		}
		return fmt.Errorf("failed to get playlist: %w", err)
	}

	if playlist.OwnerID != userID {
		return fault.Forbidden("not the playlist owner")
	}
	return nil
}

// VerifyAccess is the full delegate chain for collaborative operations:
// ownership first, then collaboration membership. A missing playlist is
// never masked by the membership probe, and a failed probe surfaces the
// ownership verdict, not its own error.
func (s *PlaylistService) VerifyAccess(ctx context.Context, playlistID, userID string) error {
	ownerErr := s.VerifyOwner(ctx, playlistID, userID)
	if ownerErr == nil {
		return nil
	}
	if !fault.IsForbidden(ownerErr) {
		return ownerErr
	}
	if s.collaborations == nil {
		return ownerErr
	}
	if err := s.collaborations.Verify(ctx, playlistID, userID); err != nil {
		return ownerErr
	}
	return nil
}

// appendActivity writes one audit row with a server-assigned timestamp and
// invalidates the log's cache entry. Rows are never updated or removed here.
func (s *PlaylistService) appendActivity(ctx context.Context, playlistID, songID, userID, action string) error {
	activity := model.PlaylistActivity{
		ID:         id.NewActivity(),
		PlaylistID: playlistID,
		SongID:     songID,
		UserID:     userID,
		Action:     action,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.DB().WithContext(ctx).Create(&activity).Error; err != nil {
		return fmt.Errorf("failed to append playlist activity: %w", err)
	}

	invalidateKey(ctx, s.cache, s.log, playlistActivitiesKey(playlistID))
	return nil
}

func (s *PlaylistService) checkPlaylistExists(ctx context.Context, playlistID string) error {
	var count int64
	if err := s.store.DB().WithContext(ctx).
		Model(&model.Playlist{}).
		Where("id = ?", playlistID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check playlist: %w", err)
	}
	if count == 0 {
		return fault.NotFound("playlist not found")
	}
	return nil
}
