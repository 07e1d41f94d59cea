package model

import "time"

// Playlist is owned by exactly one user; ownership never changes after
// creation. Song entries, collaborations and activities cascade away with
// the playlist.
type Playlist struct {
	ID      string `gorm:"column:id;primaryKey;size:50" json:"id" msgpack:"id"`
	Name    string `gorm:"column:name;not null" json:"name" msgpack:"name"`
	OwnerID string `gorm:"column:owner;size:50;not null;index" json:"ownerId" msgpack:"ownerId"`
}

// TableName returns the playlists table name.
func (Playlist) TableName() string { return "playlists" }

// PlaylistSong links a playlist to a song. Duplicate (playlist, song) pairs
// are permitted.
type PlaylistSong struct {
	ID         string `gorm:"column:id;primaryKey;size:50"`
	PlaylistID string `gorm:"column:playlist_id;size:50;not null;index"`
	SongID     string `gorm:"column:song_id;size:50;not null"`

	Playlist *Playlist `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE"`
	Song     *Song     `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE"`
}

// TableName returns the playlist songs table name.
func (PlaylistSong) TableName() string { return "playlist_songs" }

// PlaylistActivity is an append-only audit row for playlist song mutations.
// Rows are never updated or deleted individually; only the cascading
// playlist deletion removes them.
type PlaylistActivity struct {
	ID         string    `gorm:"column:id;primaryKey;size:50" json:"id" msgpack:"id"`
	PlaylistID string    `gorm:"column:playlist_id;size:50;not null;index" json:"playlistId" msgpack:"playlistId"`
	SongID     string    `gorm:"column:song_id;size:50;not null" json:"songId" msgpack:"songId"`
	UserID     string    `gorm:"column:user_id;size:50;not null" json:"userId" msgpack:"userId"`
	Action     string    `gorm:"column:action;size:10;not null" json:"action" msgpack:"action"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"time" msgpack:"time"`

	Playlist *Playlist `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"-" msgpack:"-"`
}

// TableName returns the playlist activities table name.
func (PlaylistActivity) TableName() string { return "playlist_song_activities" }

// Activity actions recorded in the audit log.
const (
	ActivityAdd    = "add"
	ActivityDelete = "delete"
)
