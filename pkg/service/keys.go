package service

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Cache key derivation lives in one place so read paths and invalidation
// cannot drift apart.
const (
	// songKeyPrefix covers every cached song detail and search variant.
	// Song writes invalidate the whole prefix: search keys hash arbitrary
	// query text and cannot be enumerated one by one.
	songKeyPrefix = "songs:"

	searchHashLength = 12 // Balance between uniqueness and key length
)

func songKey(songID string) string {
	return songKeyPrefix + "id:" + songID
}

func songListKey(title, performer string) string {
	shape := strings.ToLower(title) + "\x00" + strings.ToLower(performer)
	hash := fmt.Sprintf("%016x", xxhash.Sum64String(shape))
	return songKeyPrefix + "list:" + hash[:searchHashLength]
}

func likesKey(albumID string) string {
	return "likes:" + albumID
}

func ownerPlaylistsKey(userID string) string {
	return "playlists:owner:" + userID
}

func playlistSongsKey(playlistID string) string {
	return "playlist:songs:" + playlistID
}

func playlistActivitiesKey(playlistID string) string {
	return "playlist:activities:" + playlistID
}
