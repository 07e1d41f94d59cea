package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunevault/tunevault/pkg/fault"
	"github.com/tunevault/tunevault/pkg/model"
)

func TestPlaylistAddAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Road Trip", "user-1")
	assert.True(t, strings.HasPrefix(playlistID, "playlist-"))

	playlists, fromCache, err := env.playlists.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, fromCache)
	require.Len(t, playlists, 1)
	assert.Equal(t, PlaylistSummary{ID: playlistID, Name: "Road Trip", OwnerID: "user-1"}, playlists[0])

	playlists, fromCache, err = env.playlists.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Len(t, playlists, 1)

	// Creating another playlist invalidates the owner's listing.
	env.addPlaylist(t, "Focus", "user-1")
	playlists, fromCache, err = env.playlists.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Len(t, playlists, 2)

	// Other owners see only their own playlists.
	playlists, _, err = env.playlists.ListByOwner(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, playlists)
}

func TestPlaylistAddRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.playlists.Add(ctx, PlaylistPayload{Name: "Ownerless"}, "")
	assert.True(t, fault.IsInvariant(err))

	_, err = env.playlists.Add(ctx, PlaylistPayload{}, "user-1")
	assert.True(t, fault.IsInvariant(err))
}

func TestPlaylistSongsAndActivityLog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Mix", "user-1")
	songID := env.addSong(t, "Clocks", "Coldplay")

	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, "user-1"))

	got, fromCache, err := env.playlists.Songs(ctx, playlistID)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, playlistID, got.ID)
	assert.Equal(t, "Mix", got.Name)
	assert.Equal(t, "user-1", got.OwnerID)
	require.Len(t, got.Songs, 1)
	assert.Equal(t, SongSummary{ID: songID, Title: "Clocks", Performer: "Coldplay"}, got.Songs[0])

	got, fromCache, err = env.playlists.Songs(ctx, playlistID)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Len(t, got.Songs, 1)

	require.NoError(t, env.playlists.DeleteSong(ctx, playlistID, songID, "user-2"))

	got, fromCache, err = env.playlists.Songs(ctx, playlistID)
	require.NoError(t, err)
	assert.False(t, fromCache, "song removal must invalidate the playlist songs entry")
	assert.Empty(t, got.Songs)

	// Both mutations are on the audit trail, in order, with their actors.
	activities, fromCache, err := env.playlists.Activities(ctx, playlistID)
	require.NoError(t, err)
	assert.False(t, fromCache)
	require.Len(t, activities, 2)
	assert.Equal(t, songID, activities[0].SongID)
	assert.Equal(t, "user-1", activities[0].UserID)
	assert.Equal(t, model.ActivityAdd, activities[0].Action)
	assert.Equal(t, songID, activities[1].SongID)
	assert.Equal(t, "user-2", activities[1].UserID)
	assert.Equal(t, model.ActivityDelete, activities[1].Action)
	assert.False(t, activities[1].Time.Before(activities[0].Time))
}

func TestPlaylistActivitiesCaching(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Audited", "user-1")
	songID := env.addSong(t, "Trouble", "Coldplay")

	activities, fromCache, err := env.playlists.Activities(ctx, playlistID)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Empty(t, activities)

	_, fromCache, err = env.playlists.Activities(ctx, playlistID)
	require.NoError(t, err)
	assert.True(t, fromCache)

	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, "user-1"))

	activities, fromCache, err = env.playlists.Activities(ctx, playlistID)
	require.NoError(t, err)
	assert.False(t, fromCache, "appending an activity must invalidate the log entry")
	assert.Len(t, activities, 1)
}

func TestPlaylistAddSongErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Sparse", "user-1")
	songID := env.addSong(t, "Exists", "Someone")

	assert.True(t, fault.IsNotFound(env.playlists.AddSong(ctx, "playlist-missing", songID, "user-1")))
	assert.True(t, fault.IsInvariant(env.playlists.AddSong(ctx, playlistID, "song-missing", "user-1")))
	assert.True(t, fault.IsInvariant(env.playlists.AddSong(ctx, playlistID, "", "user-1")))

	// Failed attempts leave no trace on the audit trail.
	activities, _, err := env.playlists.Activities(ctx, playlistID)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestPlaylistDeleteSongNotInPlaylist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Empty", "user-1")
	songID := env.addSong(t, "Elsewhere", "Someone")

	assert.True(t, fault.IsNotFound(env.playlists.DeleteSong(ctx, playlistID, songID, "user-1")))
}

func TestPlaylistDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Doomed", "user-1")
	songID := env.addSong(t, "Last Song", "Someone")
	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, "user-1"))
	_, err := env.collaborations.Add(ctx, playlistID, "user-2")
	require.NoError(t, err)

	require.NoError(t, env.playlists.Delete(ctx, playlistID))

	_, _, err = env.playlists.Songs(ctx, playlistID)
	assert.True(t, fault.IsNotFound(err))
	assert.True(t, fault.IsNotFound(env.playlists.Delete(ctx, playlistID)))

	playlists, _, err := env.playlists.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, playlists)

	// Dependent rows went with the playlist.
	for _, m := range []interface{}{&model.PlaylistSong{}, &model.PlaylistActivity{}, &model.Collaboration{}} {
		var count int64
		require.NoError(t, env.store.DB().Model(m).Where("playlist_id = ?", playlistID).Count(&count).Error)
		assert.Zero(t, count)
	}

	// The song itself survives.
	_, _, err = env.songs.GetByID(ctx, songID)
	require.NoError(t, err)
}

func TestSongDeleteRemovesPlaylistEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Shrinking", "user-1")
	songID := env.addSong(t, "Removed Upstream", "Someone")
	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, "user-1"))

	require.NoError(t, env.songs.Delete(ctx, songID))

	var count int64
	require.NoError(t, env.store.DB().Model(&model.PlaylistSong{}).Where("playlist_id = ?", playlistID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVerifyOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Private", "owner-1")

	assert.NoError(t, env.playlists.VerifyOwner(ctx, playlistID, "owner-1"))
	assert.True(t, fault.IsForbidden(env.playlists.VerifyOwner(ctx, playlistID, "stranger")))
	assert.True(t, fault.IsNotFound(env.playlists.VerifyOwner(ctx, "playlist-missing", "owner-1")))
}

func TestVerifyAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Shared", "owner-1")
	_, err := env.collaborations.Add(ctx, playlistID, "collab-1")
	require.NoError(t, err)

	// Owner passes both checks.
	assert.NoError(t, env.playlists.VerifyAccess(ctx, playlistID, "owner-1"))
	assert.NoError(t, env.playlists.VerifyOwner(ctx, playlistID, "owner-1"))

	// Collaborator passes the access chain but is not the owner.
	assert.NoError(t, env.playlists.VerifyAccess(ctx, playlistID, "collab-1"))
	assert.True(t, fault.IsForbidden(env.playlists.VerifyOwner(ctx, playlistID, "collab-1")))

	// Stranger fails with the ownership verdict, not the probe's.
	err = env.playlists.VerifyAccess(ctx, playlistID, "stranger")
	assert.True(t, fault.IsForbidden(err))
	assert.EqualError(t, err, "not the playlist owner")

	// A missing playlist is never masked by the membership probe.
	assert.True(t, fault.IsNotFound(env.playlists.VerifyAccess(ctx, "playlist-missing", "owner-1")))

	// Revoked collaborators lose access.
	require.NoError(t, env.collaborations.Delete(ctx, playlistID, "collab-1"))
	assert.True(t, fault.IsForbidden(env.playlists.VerifyAccess(ctx, playlistID, "collab-1")))
}

func TestVerifyAccessWithoutVerifier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	playlistID := env.addPlaylist(t, "Solo", "owner-1")
	_, err := env.collaborations.Add(ctx, playlistID, "collab-1")
	require.NoError(t, err)

	// With no verifier wired, every check is owner-only.
	solo := NewPlaylistService(env.store, env.cache, nil, env.playlists.log)
	assert.NoError(t, solo.VerifyAccess(ctx, playlistID, "owner-1"))
	assert.True(t, fault.IsForbidden(solo.VerifyAccess(ctx, playlistID, "collab-1")))
}
