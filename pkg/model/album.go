// Package model declares the persisted catalog entities. The relational
// store is the system of record; cached copies of these rows are always
// reconstructible from it.
package model

// Album is a record release. The id is immutable once created.
type Album struct {
	ID       string  `gorm:"column:id;primaryKey;size:50" json:"id" msgpack:"id"`
	Name     string  `gorm:"column:name;not null" json:"name" msgpack:"name"`
	Year     int     `gorm:"column:year;not null" json:"year" msgpack:"year"`
	CoverURL *string `gorm:"column:cover_url" json:"coverUrl" msgpack:"coverUrl"`

	Songs []Song      `gorm:"foreignKey:AlbumID;constraint:OnDelete:SET NULL" json:"-" msgpack:"-"`
	Likes []AlbumLike `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"-" msgpack:"-"`
}

// TableName returns the albums table name.
func (Album) TableName() string { return "albums" }

// AlbumLike records a single user liking a single album. The unique index on
// (album_id, user_id) is the race decider for concurrent duplicate likes.
type AlbumLike struct {
	ID      string `gorm:"column:id;primaryKey;size:50"`
	AlbumID string `gorm:"column:album_id;size:50;not null;uniqueIndex:idx_album_like_once"`
	UserID  string `gorm:"column:user_id;size:50;not null;uniqueIndex:idx_album_like_once"`
}

// TableName returns the album likes table name.
func (AlbumLike) TableName() string { return "user_album_likes" }
