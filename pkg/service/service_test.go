package service

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tunevault/tunevault/pkg/cache"
	"github.com/tunevault/tunevault/pkg/db"
)

// testEnv wires the services against an in-memory SQLite store and an
// in-process Redis, matching the production wiring shape.
type testEnv struct {
	store          *db.Manager
	cache          *cache.Manager
	redis          *miniredis.Miniredis
	albums         *AlbumService
	songs          *SongService
	playlists      *PlaylistService
	collaborations *CollaborationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// One shared in-memory database per test, foreign keys on for every
	// pooled connection so cascades behave like the real store.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_fk=1"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := db.FromGorm(gdb, nil)
	require.NoError(t, store.AutoMigrate())
	t.Cleanup(func() { _ = store.Close() })

	mr := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := cache.DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	cm, err := cache.NewManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cm.Close() })

	log := zerolog.Nop()
	collaborations := NewCollaborationService(store, log)

	return &testEnv{
		store:          store,
		cache:          cm,
		redis:          mr,
		albums:         NewAlbumService(store, cm, log),
		songs:          NewSongService(store, cm, log),
		playlists:      NewPlaylistService(store, cm, collaborations, log),
		collaborations: collaborations,
	}
}

func (e *testEnv) addSong(t *testing.T, title, performer string) string {
	t.Helper()
	songID, err := e.songs.Add(context.Background(), SongPayload{
		Title:     title,
		Year:      2020,
		Genre:     "rock",
		Performer: performer,
	})
	require.NoError(t, err)
	return songID
}

func (e *testEnv) addPlaylist(t *testing.T, name, ownerID string) string {
	t.Helper()
	playlistID, err := e.playlists.Add(context.Background(), PlaylistPayload{Name: name}, ownerID)
	require.NoError(t, err)
	return playlistID
}
