package tekmiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobs      BlobStore
	ingestor   *Ingestor
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithIngestor overrides the ingestor built from the blob store
// (used to tighten the size bound in tests).
func WithIngestor(ing *Ingestor) Option {
	return func(s *service) {
		s.ingestor = ing
	}
}

// WithLogger sets the logger used for tolerated-failure warnings
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger: slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.ingestor == nil {
		s.ingestor = NewIngestor(s.blobs)
	}

	return s, nil
}

// Playlist operations

func (s *service) CreatePlaylist(ctx context.Context, req CreatePlaylistRequest) (*Playlist, error) {
	// Fail fast: no upload, no document write until the fields check out.
	switch {
	case req.Title == "":
		return nil, missingField("title")
	case req.Description == "":
		return nil, missingField("description")
	case req.Category == "":
		return nil, missingField("category")
	case req.Author == "":
		return nil, missingField("author")
	case req.AuthorID == "":
		return nil, missingField("authorId")
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}
	if req.Thumbnail == nil {
		return nil, ErrMissingThumbnail
	}

	stored, err := s.ingestor.Ingest(ctx, *req.Thumbnail)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	playlist := &Playlist{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Thumbnail:    stored.URL,
		ThumbnailKey: stored.Key,
		Category:     req.Category,
		Author:       req.Author,
		AuthorID:     req.AuthorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repository.CreatePlaylist(ctx, playlist); err != nil {
		return nil, &PlaylistError{PlaylistID: playlist.ID, Op: "create", Err: err}
	}

	// Read back the durably committed document rather than returning the
	// in-memory object just constructed.
	confirmed, err := s.repository.GetPlaylist(ctx, playlist.ID)
	if err != nil {
		return nil, &PlaylistError{PlaylistID: playlist.ID, Op: "confirm", Err: err}
	}

	return confirmed, nil
}

func (s *service) GetPlaylist(ctx context.Context, id uuid.UUID) (*Playlist, error) {
	return s.repository.GetPlaylist(ctx, id)
}

func (s *service) ListPlaylists(ctx context.Context, req ListPlaylistsRequest) ([]*Playlist, error) {
	if req.Category != "" && !req.Category.Valid() {
		// An unknown category can never match; keep the contract strict.
		return []*Playlist{}, nil
	}
	return s.repository.ListPlaylists(ctx, PlaylistFilter{
		Category: req.Category,
		AuthorID: req.AuthorID,
		Search:   req.Search,
	})
}

func (s *service) UpdatePlaylist(ctx context.Context, req UpdatePlaylistRequest) (*Playlist, error) {
	playlist, err := s.repository.GetPlaylist(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		playlist.Title = req.Title
	}
	if req.Description != "" {
		playlist.Description = req.Description
	}
	if req.Category != "" {
		if !req.Category.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
		}
		playlist.Category = req.Category
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := s.repository.UpdatePlaylist(ctx, playlist); err != nil {
		return nil, &PlaylistError{PlaylistID: playlist.ID, Op: "update", Err: err}
	}

	return playlist, nil
}

// DeletePlaylist removes the playlist and everything it owns: the backing
// blobs of its resources, the resource documents, its own thumbnail blob and
// finally the playlist document itself. Blob and resource deletions are best
// effort (logged and skipped on failure); the playlist document is deleted
// last so a partial failure never leaves a visible playlist with half its
// children gone.
func (s *service) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	playlist, err := s.repository.GetPlaylist(ctx, id)
	if err != nil {
		return err
	}

	resources, err := s.repository.ListResourcesByPlaylist(ctx, id)
	if err != nil {
		return &PlaylistError{PlaylistID: id, Op: "cascade_list", Err: err}
	}

	for _, res := range resources {
		if res.FileKey != "" {
			if err := s.blobs.Delete(ctx, res.FileKey); err != nil {
				s.logger.Warn("cascade: failed to delete resource blob",
					"playlist_id", id, "resource_id", res.ID, "key", res.FileKey, "err", err)
			}
		}
		if err := s.repository.DeleteResource(ctx, res.ID); err != nil {
			s.logger.Warn("cascade: failed to delete resource document",
				"playlist_id", id, "resource_id", res.ID, "err", err)
		}
	}

	if playlist.ThumbnailKey != "" {
		if err := s.blobs.Delete(ctx, playlist.ThumbnailKey); err != nil {
			s.logger.Warn("cascade: failed to delete thumbnail blob",
				"playlist_id", id, "key", playlist.ThumbnailKey, "err", err)
		}
	}

	if err := s.repository.DeletePlaylist(ctx, id); err != nil {
		return &PlaylistError{PlaylistID: id, Op: "delete", Err: err}
	}

	return nil
}

func (s *service) IncrementPlaylistViews(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.repository.IncrementPlaylistViews(ctx, id)
}

// Resource operations

func (s *service) CreateResource(ctx context.Context, req CreateResourceRequest) (*Resource, error) {
	switch {
	case req.Type == "":
		return nil, missingField("type")
	case req.Title == "":
		return nil, missingField("title")
	case req.UploadedBy == "":
		return nil, missingField("uploadedBy")
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResourceType, req.Type)
	}

	if _, err := s.repository.GetPlaylist(ctx, req.PlaylistID); err != nil {
		return nil, err
	}

	var (
		fileURL  string
		fileKey  string
		fileName string
		fileSize int64
	)
	if req.Type == ResourceTypeYoutube {
		if req.YoutubeURL == "" {
			return nil, ErrMissingYoutubeURL
		}
		fileURL = req.YoutubeURL
	} else {
		if req.File == nil {
			return nil, ErrMissingFile
		}
		stored, err := s.ingestor.Ingest(ctx, *req.File)
		if err != nil {
			return nil, err
		}
		fileURL = stored.URL
		fileKey = stored.Key
		fileName = stored.FileName
		fileSize = stored.Size
	}

	// Weak ordering by design: concurrent creates may read the same sibling
	// count. See DESIGN.md for the documented guarantee.
	count, err := s.repository.CountResourcesByPlaylist(ctx, req.PlaylistID)
	if err != nil {
		return nil, &PlaylistError{PlaylistID: req.PlaylistID, Op: "count_resources", Err: err}
	}

	now := time.Now().UTC()
	resource := &Resource{
		ID:          uuid.New(),
		PlaylistID:  req.PlaylistID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     fileURL,
		FileKey:     fileKey,
		FileName:    fileName,
		FileSize:    fileSize,
		Duration:    req.Duration,
		Order:       int(count) + 1,
		UploadedBy:  req.UploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateResource(ctx, resource); err != nil {
		return nil, &ResourceError{ResourceID: resource.ID, Op: "create", Err: err}
	}

	// Second write of the non-atomic pair. A failure here leaves the counter
	// trailing the real count; the next delete-triggered recount repairs it.
	if err := s.repository.SetResourcesCount(ctx, req.PlaylistID, count+1); err != nil {
		s.logger.Warn("failed to update playlist resource count",
			"playlist_id", req.PlaylistID, "resource_id", resource.ID, "err", err)
	}

	return resource, nil
}

func (s *service) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	return s.repository.GetResource(ctx, id)
}

func (s *service) ListResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*Resource, error) {
	return s.repository.ListResourcesByPlaylist(ctx, playlistID)
}

func (s *service) UpdateResource(ctx context.Context, req UpdateResourceRequest) (*Resource, error) {
	resource, err := s.repository.GetResource(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		resource.Title = req.Title
	}
	if req.Description != "" {
		resource.Description = req.Description
	}
	if req.Order != nil {
		resource.Order = *req.Order
	}
	resource.UpdatedAt = time.Now().UTC()

	if err := s.repository.UpdateResource(ctx, resource); err != nil {
		return nil, &ResourceError{ResourceID: resource.ID, Op: "update", Err: err}
	}

	return resource, nil
}

// DeleteResource removes the resource document, best-effort deletes its
// backing blob, then recomputes the parent's resourcesCount from an
// authoritative count rather than decrementing. A parent that no longer
// exists is tolerated.
func (s *service) DeleteResource(ctx context.Context, id uuid.UUID) error {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteResource(ctx, id); err != nil {
		return &ResourceError{ResourceID: id, Op: "delete", Err: err}
	}

	if resource.FileKey != "" {
		if err := s.blobs.Delete(ctx, resource.FileKey); err != nil {
			s.logger.Warn("failed to delete resource blob",
				"resource_id", id, "key", resource.FileKey, "err", err)
		}
	}

	count, err := s.repository.CountResourcesByPlaylist(ctx, resource.PlaylistID)
	if err != nil {
		s.logger.Warn("failed to recount playlist resources",
			"playlist_id", resource.PlaylistID, "err", err)
		return nil
	}
	if err := s.repository.SetResourcesCount(ctx, resource.PlaylistID, count); err != nil && !errors.Is(err, ErrPlaylistNotFound) {
		s.logger.Warn("failed to update playlist resource count",
			"playlist_id", resource.PlaylistID, "err", err)
	}

	return nil
}

func (s *service) ReorderResources(ctx context.Context, req ReorderResourcesRequest) ([]ReorderResult, error) {
	results := make([]ReorderResult, 0, len(req.Items))
	failed := false

	for _, item := range req.Items {
		result := ReorderResult{ID: item.ID, Order: item.Order, Applied: true}
		if err := s.repository.UpdateResourceOrder(ctx, item.ID, item.Order); err != nil {
			result.Applied = false
			result.Error = err.Error()
			failed = true
		}
		results = append(results, result)
	}

	if failed {
		return results, ErrPartialBatch
	}
	return results, nil
}
