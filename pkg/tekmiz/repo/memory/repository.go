package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
)

// Repository implements tekmiz.Repository using in-memory storage
type Repository struct {
	mu        sync.RWMutex
	playlists map[uuid.UUID]*tekmiz.Playlist
	resources map[uuid.UUID]*tekmiz.Resource
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		playlists: make(map[uuid.UUID]*tekmiz.Playlist),
		resources: make(map[uuid.UUID]*tekmiz.Resource),
	}
}

// Playlist operations

func (r *Repository) CreatePlaylist(ctx context.Context, playlist *tekmiz.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	playlistCopy := *playlist
	r.playlists[playlist.ID] = &playlistCopy

	return nil
}

func (r *Repository) GetPlaylist(ctx context.Context, id uuid.UUID) (*tekmiz.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playlist, exists := r.playlists[id]
	if !exists {
		return nil, tekmiz.ErrPlaylistNotFound
	}

	playlistCopy := *playlist
	return &playlistCopy, nil
}

func (r *Repository) ListPlaylists(ctx context.Context, filter tekmiz.PlaylistFilter) ([]*tekmiz.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)

	result := []*tekmiz.Playlist{}
	for _, playlist := range r.playlists {
		if filter.Category != "" && playlist.Category != filter.Category {
			continue
		}
		if filter.AuthorID != "" && playlist.AuthorID != filter.AuthorID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(playlist.Title), search) {
			continue
		}
		playlistCopy := *playlist
		result = append(result, &playlistCopy)
	}

	// Newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) UpdatePlaylist(ctx context.Context, playlist *tekmiz.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.playlists[playlist.ID]; !exists {
		return tekmiz.ErrPlaylistNotFound
	}

	playlistCopy := *playlist
	r.playlists[playlist.ID] = &playlistCopy

	return nil
}

func (r *Repository) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.playlists[id]; !exists {
		return tekmiz.ErrPlaylistNotFound
	}

	delete(r.playlists, id)
	return nil
}

func (r *Repository) IncrementPlaylistViews(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlist, exists := r.playlists[id]
	if !exists {
		return 0, tekmiz.ErrPlaylistNotFound
	}

	playlist.Views++
	playlist.UpdatedAt = time.Now().UTC()
	return playlist.Views, nil
}

func (r *Repository) SetResourcesCount(ctx context.Context, id uuid.UUID, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlist, exists := r.playlists[id]
	if !exists {
		return tekmiz.ErrPlaylistNotFound
	}

	playlist.ResourcesCount = count
	playlist.UpdatedAt = time.Now().UTC()
	return nil
}

// Resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *tekmiz.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	resourceCopy := *resource
	r.resources[resource.ID] = &resourceCopy

	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*tekmiz.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, exists := r.resources[id]
	if !exists {
		return nil, tekmiz.ErrResourceNotFound
	}

	resourceCopy := *resource
	return &resourceCopy, nil
}

func (r *Repository) ListResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*tekmiz.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*tekmiz.Resource{}
	for _, resource := range r.resources {
		if resource.PlaylistID == playlistID {
			resourceCopy := *resource
			result = append(result, &resourceCopy)
		}
	}

	// Ascending by order; creation time breaks ties so display stays stable
	// when concurrent creates collapsed onto the same order value.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) CountResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, resource := range r.resources {
		if resource.PlaylistID == playlistID {
			count++
		}
	}
	return count, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *tekmiz.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[resource.ID]; !exists {
		return tekmiz.ErrResourceNotFound
	}

	resourceCopy := *resource
	r.resources[resource.ID] = &resourceCopy

	return nil
}

func (r *Repository) UpdateResourceOrder(ctx context.Context, id uuid.UUID, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	resource, exists := r.resources[id]
	if !exists {
		return tekmiz.ErrResourceNotFound
	}

	resource.Order = order
	resource.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[id]; !exists {
		return tekmiz.ErrResourceNotFound
	}

	delete(r.resources, id)
	return nil
}
