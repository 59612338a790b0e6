package tekmiz

import (
	"time"

	"github.com/google/uuid"
)

// Category is the domain type for playlist categories.
type Category string

// Playlist category constants (typed).
const (
	CategoryWebDevelopment Category = "Web Development"
	CategoryAIML           Category = "AI/ML"
	CategoryFullStack      Category = "Full Stack"
	CategoryAndroid        Category = "Android"
	CategoryDataScience    Category = "Data Science"
	CategoryCybersecurity  Category = "Cybersecurity"
	CategoryBackend        Category = "Backend"
	CategoryFrontend       Category = "Frontend"
	CategoryDevOps         Category = "DevOps"
)

// Categories returns the fixed playlist category enumeration.
func Categories() []Category {
	return []Category{
		CategoryWebDevelopment,
		CategoryAIML,
		CategoryFullStack,
		CategoryAndroid,
		CategoryDataScience,
		CategoryCybersecurity,
		CategoryBackend,
		CategoryFrontend,
		CategoryDevOps,
	}
}

// Valid reports whether c is a member of the category enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ResourceType is the domain type for resource kinds.
type ResourceType string

// Resource type constants (typed).
const (
	ResourceTypeVideo    ResourceType = "video"
	ResourceTypePDF      ResourceType = "pdf"
	ResourceTypeYoutube  ResourceType = "youtube"
	ResourceTypeDocument ResourceType = "document"
	ResourceTypeImage    ResourceType = "image"
)

// ResourceTypes returns the fixed resource type enumeration.
func ResourceTypes() []ResourceType {
	return []ResourceType{
		ResourceTypeVideo,
		ResourceTypePDF,
		ResourceTypeYoutube,
		ResourceTypeDocument,
		ResourceTypeImage,
	}
}

// Valid reports whether t is a member of the resource type enumeration.
func (t ResourceType) Valid() bool {
	for _, known := range ResourceTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Playlist represents a curated collection of resources owned by a creator.
//
// ResourcesCount mirrors the number of Resource documents referencing this
// playlist. The mirror is maintained by the service on resource create and
// delete; the two writes are not atomic, so the counter may trail the real
// count until the next authoritative recount.
type Playlist struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Thumbnail      string    `json:"thumbnail"`
	ThumbnailKey   string    `json:"-"`
	Category       Category  `json:"category"`
	Author         string    `json:"author"`
	AuthorID       string    `json:"authorId"`
	Views          int64     `json:"views"`
	Likes          int64     `json:"likes"`
	ResourcesCount int64     `json:"resourcesCount"`
	Trending       bool      `json:"trending"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Resource represents a single entry in a playlist.
//
// For ResourceTypeYoutube the FileURL is the caller-supplied external URL and
// FileName/FileSize/FileKey are empty. For every other type FileURL points at
// the object store, FileKey holds the storage key (used for blob deletion),
// and FileName/FileSize describe the ingested file.
type Resource struct {
	ID          uuid.UUID    `json:"id"`
	PlaylistID  uuid.UUID    `json:"playlistId"`
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	FileURL     string       `json:"fileUrl"`
	FileKey     string       `json:"-"`
	FileName    string       `json:"fileName,omitempty"`
	FileSize    int64        `json:"fileSize,omitempty"`
	Duration    string       `json:"duration,omitempty"`
	Order       int          `json:"order"`
	Views       int64        `json:"views"`
	UploadedBy  string       `json:"uploadedBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// StoredFile describes a successfully ingested blob.
type StoredFile struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

// ReorderItem is one entry of a reorder batch.
type ReorderItem struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// ReorderResult is the per-item outcome of a reorder batch. Items are applied
// independently; Applied is false only for the items that failed.
type ReorderResult struct {
	ID      uuid.UUID `json:"id"`
	Order   int       `json:"order"`
	Applied bool      `json:"applied"`
	Error   string    `json:"error,omitempty"`
}
