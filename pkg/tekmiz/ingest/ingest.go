// Package ingest holds the pure parts of the upload pipeline: content-type
// validation, folder classification and object key derivation. Everything
// here is a function of its inputs, independently testable without a
// running server or store.
package ingest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxFileBytes is the upload size bound (500 MiB).
const MaxFileBytes int64 = 500 << 20

// Folder names objects are classified into, by declared content type.
const (
	FolderThumbnails    = "thumbnails"
	FolderVideos        = "videos"
	FolderPDFs          = "pdfs"
	FolderPresentations = "presentations"
	FolderOthers        = "others"
)

// allowedTypes is the fixed MIME allow-list. Anything else fails ingestion
// before a single byte is persisted.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
	"application/pdf": true,
	"application/vnd.ms-powerpoint": true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

// AllowedTypes returns the MIME allow-list, sorted.
func AllowedTypes() []string {
	types := make([]string, 0, len(allowedTypes))
	for t := range allowedTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// UnsupportedTypeError identifies a rejected content type.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("file type %s not allowed; only images, videos, PDFs, and PPTs are allowed", e.ContentType)
}

// ValidateContentType checks the declared MIME type against the allow-list.
func ValidateContentType(contentType string) error {
	if !allowedTypes[contentType] {
		return &UnsupportedTypeError{ContentType: contentType}
	}
	return nil
}

// FolderFor classifies a declared content type into a storage folder.
// The trailing "others" branch is unreachable for allow-listed types but
// keeps the classification total.
func FolderFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return FolderThumbnails
	case strings.HasPrefix(contentType, "video/"):
		return FolderVideos
	case contentType == "application/pdf":
		return FolderPDFs
	case strings.Contains(contentType, "presentation"):
		return FolderPresentations
	default:
		return FolderOthers
	}
}

// NewObjectKey derives a globally unique storage key of the form
//
//	{folder}/{millisecond-timestamp}-{uuid}{original-extension}
//
// Nothing of the original file name survives into the key except its
// extension; uniqueness comes from the 128 random bits of the uuid.
func NewObjectKey(contentType, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s/%d-%s%s", FolderFor(contentType), time.Now().UnixMilli(), uuid.New(), ext)
}
