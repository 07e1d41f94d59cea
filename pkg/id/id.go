// Package id generates the prefixed opaque identifiers used across the
// catalog. Each id is a short type prefix followed by 16 URL-safe random
// characters, unique enough to be assigned without coordination.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Length is the number of random characters after the prefix.
const Length = 16

func generate(prefix string) string {
	suffix, err := gonanoid.New(Length)
	if err != nil {
		// The default alphabet and crypto/rand source cannot fail here.
		panic(fmt.Sprintf("id generation failed: %v", err))
	}
	return prefix + "-" + suffix
}

// NewAlbum returns a fresh album id.
func NewAlbum() string { return generate("album") }

// NewSong returns a fresh song id.
func NewSong() string { return generate("song") }

// NewPlaylist returns a fresh playlist id.
func NewPlaylist() string { return generate("playlist") }

// NewPlaylistSong returns a fresh playlist song entry id.
func NewPlaylistSong() string { return generate("ps") }

// NewActivity returns a fresh playlist activity id.
func NewActivity() string { return generate("psa") }

// NewAlbumLike returns a fresh album like id.
func NewAlbumLike() string { return generate("ual") }

// NewCollaboration returns a fresh collaboration id.
func NewCollaboration() string { return generate("collab") }
