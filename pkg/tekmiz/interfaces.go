package tekmiz

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for object storage backends.
//
// Implementations are long-lived and shared across concurrent requests;
// they must be safe for concurrent use.
type BlobStore interface {
	// Upload streams content to the store under params.ObjectKey.
	Upload(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download returns the stored content for an object key.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object at the given key.
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for a stored object.
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)

	// PublicURL returns the unauthenticated retrieval URL for an object key.
	PublicURL(objectKey string) string
}

// UploadParams contains parameters for uploading an object.
type UploadParams struct {
	ObjectKey   string
	ContentType string
	// Metadata is attached to the stored object for later audit
	// (declared form-field name, original file name). Not required
	// for correctness.
	Metadata map[string]string
}

// ObjectMeta contains metadata about an object in storage.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
	Metadata    map[string]string
}

// PlaylistFilter defines filtering options for listing playlists.
// Filters combine with logical AND; zero values mean "no filter".
type PlaylistFilter struct {
	Category Category
	AuthorID string
	// Search is a case-insensitive substring match on the title.
	Search string
}

// Repository defines the interface for playlist and resource persistence.
//
// Implementations must direct reads at the freshest replica available and
// acknowledge writes durably before returning (see repo/mongo for the
// majority-write-concern implementation).
type Repository interface {
	// Playlist operations
	CreatePlaylist(ctx context.Context, playlist *Playlist) error
	GetPlaylist(ctx context.Context, id uuid.UUID) (*Playlist, error)
	ListPlaylists(ctx context.Context, filter PlaylistFilter) ([]*Playlist, error)
	UpdatePlaylist(ctx context.Context, playlist *Playlist) error
	DeletePlaylist(ctx context.Context, id uuid.UUID) error

	// IncrementPlaylistViews atomically increments the stored view counter
	// and returns the new value. Concurrent increments must not lose updates.
	IncrementPlaylistViews(ctx context.Context, id uuid.UUID) (int64, error)

	// SetResourcesCount overwrites the playlist's resource counter.
	SetResourcesCount(ctx context.Context, id uuid.UUID, count int64) error

	// Resource operations
	CreateResource(ctx context.Context, resource *Resource) error
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*Resource, error)
	CountResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) (int64, error)
	UpdateResource(ctx context.Context, resource *Resource) error
	UpdateResourceOrder(ctx context.Context, id uuid.UUID, order int) error
	DeleteResource(ctx context.Context, id uuid.UUID) error
}
