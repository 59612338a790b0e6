package tekmiz

import (
	"io"

	"github.com/google/uuid"
)

// FileUpload is an inbound file: a byte stream plus its declared metadata.
// The stream is consumed exactly once during ingestion.
type FileUpload struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	// FieldName is the multipart form field the file arrived under.
	FieldName string
}

// CreatePlaylistRequest contains parameters for creating a playlist.
// Thumbnail must be present; it is ingested before the document is written.
type CreatePlaylistRequest struct {
	Title       string
	Description string
	Category    Category
	Author      string
	AuthorID    string
	Thumbnail   *FileUpload
}

// UpdatePlaylistRequest contains the editable playlist fields.
// Empty fields are left unchanged.
type UpdatePlaylistRequest struct {
	ID          uuid.UUID
	Title       string
	Description string
	Category    Category
}

// ListPlaylistsRequest contains the playlist list filters.
type ListPlaylistsRequest struct {
	Category Category
	AuthorID string
	Search   string
}

// CreateResourceRequest contains parameters for attaching a resource to a
// playlist. For ResourceTypeYoutube the YoutubeURL is required and File must
// be nil; for every other type File is required.
type CreateResourceRequest struct {
	PlaylistID  uuid.UUID
	Type        ResourceType
	Title       string
	Description string
	YoutubeURL  string
	Duration    string
	UploadedBy  string
	File        *FileUpload
}

// UpdateResourceRequest contains the editable resource fields.
// Empty strings are left unchanged; a nil Order is left unchanged.
type UpdateResourceRequest struct {
	ID          uuid.UUID
	Title       string
	Description string
	Order       *int
}

// ReorderResourcesRequest contains a batch of order updates for the
// resources of one playlist.
type ReorderResourcesRequest struct {
	PlaylistID uuid.UUID
	Items      []ReorderItem
}
