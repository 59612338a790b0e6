package tekmiz

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrPlaylistNotFound indicates a playlist id did not resolve
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrResourceNotFound indicates a resource id did not resolve
	ErrResourceNotFound = errors.New("resource not found")

	// ErrMissingField indicates a required field was empty
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidCategory indicates a category outside the fixed enumeration
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidResourceType indicates a resource type outside the fixed enumeration
	ErrInvalidResourceType = errors.New("invalid resource type")

	// ErrMissingThumbnail indicates playlist creation without a thumbnail upload
	ErrMissingThumbnail = errors.New("thumbnail image is required")

	// ErrMissingFile indicates resource creation without a file upload
	ErrMissingFile = errors.New("file is required")

	// ErrMissingYoutubeURL indicates a youtube resource without a URL
	ErrMissingYoutubeURL = errors.New("youtube url is required for youtube type")

	// ErrSizeExceeded indicates an upload stream over the size bound
	ErrSizeExceeded = errors.New("file exceeds maximum allowed size")

	// ErrPartialBatch indicates a reorder batch where some items failed
	ErrPartialBatch = errors.New("not all updates applied")
)

// PlaylistError represents an error related to playlist operations
type PlaylistError struct {
	PlaylistID uuid.UUID
	Op         string
	Err        error
}

func (e *PlaylistError) Error() string {
	return fmt.Sprintf("playlist operation %s failed for playlist %s: %v", e.Op, e.PlaylistID, e.Err)
}

func (e *PlaylistError) Unwrap() error {
	return e.Err
}

// ResourceError represents an error related to resource operations
type ResourceError struct {
	ResourceID uuid.UUID
	Op         string
	Err        error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource operation %s failed for resource %s: %v", e.Op, e.ResourceID, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// missingField wraps ErrMissingField with the offending field name.
func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}
