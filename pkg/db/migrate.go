package db

import (
	"fmt"

	"github.com/tunevault/tunevault/pkg/model"
)

// AutoMigrate creates or updates the catalog schema: albums, songs,
// playlists, playlist_songs, playlist_song_activities, collaborations and
// user_album_likes, including the cascading foreign keys and the unique
// indexes that decide concurrent duplicate likes and collaborations.
func (m *Manager) AutoMigrate() error {
	if err := m.db.AutoMigrate(
		&model.Album{},
		&model.Song{},
		&model.Playlist{},
		&model.PlaylistSong{},
		&model.PlaylistActivity{},
		&model.Collaboration{},
		&model.AlbumLike{},
	); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}
