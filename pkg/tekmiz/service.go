package tekmiz

import (
	"context"

	"github.com/google/uuid"
)

// Service is the unified interface for playlist and resource operations.
type Service interface {
	// Playlist operations
	CreatePlaylist(ctx context.Context, req CreatePlaylistRequest) (*Playlist, error)
	GetPlaylist(ctx context.Context, id uuid.UUID) (*Playlist, error)
	ListPlaylists(ctx context.Context, req ListPlaylistsRequest) ([]*Playlist, error)
	UpdatePlaylist(ctx context.Context, req UpdatePlaylistRequest) (*Playlist, error)
	DeletePlaylist(ctx context.Context, id uuid.UUID) error
	IncrementPlaylistViews(ctx context.Context, id uuid.UUID) (int64, error)

	// Resource operations
	CreateResource(ctx context.Context, req CreateResourceRequest) (*Resource, error)
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*Resource, error)
	UpdateResource(ctx context.Context, req UpdateResourceRequest) (*Resource, error)
	DeleteResource(ctx context.Context, id uuid.UUID) error

	// ReorderResources applies a batch of {id, order} updates. Items are
	// applied independently; the per-item results are always returned, and
	// the error is ErrPartialBatch when at least one item failed.
	ReorderResources(ctx context.Context, req ReorderResourcesRequest) ([]ReorderResult, error)
}
