package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/repo/memory"
)

func newPlaylist(title string, category tekmiz.Category, authorID string, createdAt time.Time) *tekmiz.Playlist {
	return &tekmiz.Playlist{
		ID:        uuid.New(),
		Title:     title,
		Category:  category,
		Author:    "Author",
		AuthorID:  authorID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestPlaylistCRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	playlist := newPlaylist("Go course", tekmiz.CategoryBackend, "a-1", time.Now().UTC())
	require.NoError(t, repo.CreatePlaylist(ctx, playlist))

	got, err := repo.GetPlaylist(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, playlist.Title, got.Title)

	// Stored copies are isolated from caller mutations
	got.Title = "mutated"
	again, err := repo.GetPlaylist(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go course", again.Title)

	playlist.Title = "Go course v2"
	require.NoError(t, repo.UpdatePlaylist(ctx, playlist))
	updated, err := repo.GetPlaylist(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go course v2", updated.Title)

	require.NoError(t, repo.DeletePlaylist(ctx, playlist.ID))
	_, err = repo.GetPlaylist(ctx, playlist.ID)
	assert.ErrorIs(t, err, tekmiz.ErrPlaylistNotFound)
	assert.ErrorIs(t, repo.DeletePlaylist(ctx, playlist.ID), tekmiz.ErrPlaylistNotFound)
}

func TestListPlaylistsFiltering(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	base := time.Now().UTC()
	oldest := newPlaylist("Intro to Go", tekmiz.CategoryBackend, "a-1", base.Add(-2*time.Hour))
	middle := newPlaylist("Advanced Go", tekmiz.CategoryBackend, "a-2", base.Add(-time.Hour))
	newest := newPlaylist("React hooks", tekmiz.CategoryFrontend, "a-1", base)
	for _, p := range []*tekmiz.Playlist{oldest, middle, newest} {
		require.NoError(t, repo.CreatePlaylist(ctx, p))
	}

	t.Run("newest first", func(t *testing.T) {
		all, err := repo.ListPlaylists(ctx, tekmiz.PlaylistFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, newest.ID, all[0].ID)
		assert.Equal(t, oldest.ID, all[2].ID)
	})

	t.Run("by category", func(t *testing.T) {
		got, err := repo.ListPlaylists(ctx, tekmiz.PlaylistFilter{Category: tekmiz.CategoryBackend})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by author", func(t *testing.T) {
		got, err := repo.ListPlaylists(ctx, tekmiz.PlaylistFilter{AuthorID: "a-1"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		got, err := repo.ListPlaylists(ctx, tekmiz.PlaylistFilter{Search: "go"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("combined filters", func(t *testing.T) {
		got, err := repo.ListPlaylists(ctx, tekmiz.PlaylistFilter{
			Category: tekmiz.CategoryBackend,
			AuthorID: "a-1",
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, oldest.ID, got[0].ID)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		got, err := repo.ListPlaylists(ctx, tekmiz.PlaylistFilter{Search: "rust"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestIncrementPlaylistViews(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	playlist := newPlaylist("Views", tekmiz.CategoryBackend, "a-1", time.Now().UTC())
	require.NoError(t, repo.CreatePlaylist(ctx, playlist))

	for want := int64(1); want <= 3; want++ {
		got, err := repo.IncrementPlaylistViews(ctx, playlist.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := repo.IncrementPlaylistViews(ctx, uuid.New())
	assert.ErrorIs(t, err, tekmiz.ErrPlaylistNotFound)
}

func TestResourceOrderingAndCount(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	playlistID := uuid.New()
	now := time.Now().UTC()
	first := &tekmiz.Resource{ID: uuid.New(), PlaylistID: playlistID, Title: "first", Order: 2, CreatedAt: now}
	second := &tekmiz.Resource{ID: uuid.New(), PlaylistID: playlistID, Title: "second", Order: 1, CreatedAt: now.Add(time.Second)}
	other := &tekmiz.Resource{ID: uuid.New(), PlaylistID: uuid.New(), Title: "elsewhere", Order: 1, CreatedAt: now}
	for _, r := range []*tekmiz.Resource{first, second, other} {
		require.NoError(t, repo.CreateResource(ctx, r))
	}

	listed, err := repo.ListResourcesByPlaylist(ctx, playlistID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "second", listed[0].Title)
	assert.Equal(t, "first", listed[1].Title)

	count, err := repo.CountResourcesByPlaylist(ctx, playlistID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.UpdateResourceOrder(ctx, first.ID, 0))
	listed, err = repo.ListResourcesByPlaylist(ctx, playlistID)
	require.NoError(t, err)
	assert.Equal(t, "first", listed[0].Title)

	assert.ErrorIs(t, repo.UpdateResourceOrder(ctx, uuid.New(), 1), tekmiz.ErrResourceNotFound)

	require.NoError(t, repo.DeleteResource(ctx, first.ID))
	count, err = repo.CountResourcesByPlaylist(ctx, playlistID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSetResourcesCount(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	playlist := newPlaylist("Counted", tekmiz.CategoryBackend, "a-1", time.Now().UTC())
	require.NoError(t, repo.CreatePlaylist(ctx, playlist))

	require.NoError(t, repo.SetResourcesCount(ctx, playlist.ID, 5))
	got, err := repo.GetPlaylist(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ResourcesCount)

	assert.ErrorIs(t, repo.SetResourcesCount(ctx, uuid.New(), 1), tekmiz.ErrPlaylistNotFound)
}
