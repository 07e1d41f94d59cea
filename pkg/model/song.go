package model

// Song belongs to at most one album; deleting the album detaches its songs
// rather than removing them.
type Song struct {
	ID        string  `gorm:"column:id;primaryKey;size:50" json:"id" msgpack:"id"`
	Title     string  `gorm:"column:title;not null" json:"title" msgpack:"title"`
	Year      int     `gorm:"column:year;not null" json:"year" msgpack:"year"`
	Genre     string  `gorm:"column:genre;not null" json:"genre" msgpack:"genre"`
	Performer string  `gorm:"column:performer;not null" json:"performer" msgpack:"performer"`
	Duration  *int    `gorm:"column:duration" json:"duration" msgpack:"duration"`
	AlbumID   *string `gorm:"column:album_id;size:50;index" json:"albumId" msgpack:"albumId"`
}

// TableName returns the songs table name.
func (Song) TableName() string { return "songs" }
