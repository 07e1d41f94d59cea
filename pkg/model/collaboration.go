package model

// Collaboration grants a non-owner write access to a playlist. The unique
// index on (playlist_id, user_id) decides concurrent duplicate grants.
type Collaboration struct {
	ID         string `gorm:"column:id;primaryKey;size:50"`
	PlaylistID string `gorm:"column:playlist_id;size:50;not null;uniqueIndex:idx_collab_once"`
	UserID     string `gorm:"column:user_id;size:50;not null;uniqueIndex:idx_collab_once"`

	Playlist *Playlist `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE"`
}

// TableName returns the collaborations table name.
func (Collaboration) TableName() string { return "collaborations" }
