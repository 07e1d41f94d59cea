package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tunevault/tunevault/pkg/db"
	"github.com/tunevault/tunevault/pkg/fault"
	"github.com/tunevault/tunevault/pkg/id"
	"github.com/tunevault/tunevault/pkg/model"
)

// CollaborationService grants and revokes non-owner write access to
// playlists. It implements CollaborationVerifier for the playlist service's
// delegate chain.
type CollaborationService struct {
	store *db.Manager
	log   zerolog.Logger
}

// NewCollaborationService builds a collaboration service on the given store
// handle.
func NewCollaborationService(store *db.Manager, logger zerolog.Logger) *CollaborationService {
	return &CollaborationService{
		store: store,
		log:   logger.With().Str("service", "collaborations").Logger(),
	}
}

// Add grants a user collaborator access to a playlist and returns the
// collaboration id. A user may be added at most once per playlist; the
// unique index decides concurrent duplicates.
func (s *CollaborationService) Add(ctx context.Context, playlistID, userID string) (string, error) {
	if playlistID == "" || userID == "" {
		return "", fault.Invariant("playlist id and user id are required")
	}

	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var existing int64
	if err := s.store.DB().WithContext(ctx).
		Model(&model.Collaboration{}).
		Where("playlist_id = ? AND user_id = ?", playlistID, userID).
		Count(&existing).Error; err != nil {
		return "", fmt.Errorf("failed to check collaboration: %w", err)
	}
	if existing > 0 {
		return "", fault.Invariant("user is already a collaborator")
	}

	collab := model.Collaboration{ID: id.NewCollaboration(), PlaylistID: playlistID, UserID: userID}
	if err := s.store.DB().WithContext(ctx).Create(&collab).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fault.Invariant("user is already a collaborator")
		}
		return "", fmt.Errorf("failed to add collaboration: %w", err)
	}
	return collab.ID, nil
}

// Delete revokes a user's collaborator access to a playlist.
func (s *CollaborationService) Delete(ctx context.Context, playlistID, userID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	res := s.store.DB().WithContext(ctx).
		Where("playlist_id = ? AND user_id = ?", playlistID, userID).
		Delete(&model.Collaboration{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete collaboration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fault.Invariant("collaboration not found")
	}
	return nil
}

// Verify fails with Forbidden when the user is not a collaborator on the
// playlist.
func (s *CollaborationService) Verify(ctx context.Context, playlistID, userID string) error {
	ctx, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var count int64
	if err := s.store.DB().WithContext(ctx).
		Model(&model.Collaboration{}).
		Where("playlist_id = ? AND user_id = ?", playlistID, userID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check collaboration: %w", err)
	}
	if count == 0 {
		return fault.Forbidden("not a playlist collaborator")
	}
	return nil
}
