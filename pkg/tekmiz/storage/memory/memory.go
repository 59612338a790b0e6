package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
)

// Backend is an in-memory implementation of the tekmiz.BlobStore interface,
// used in tests and local development.
type Backend struct {
	mu       sync.RWMutex
	objects  map[string][]byte
	mimes    map[string]string
	metadata map[string]map[string]string
	updated  map[string]time.Time
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:  make(map[string][]byte),
		mimes:    make(map[string]string),
		metadata: make(map[string]map[string]string),
		updated:  make(map[string]time.Time),
	}
}

// Upload stores content directly in memory
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params tekmiz.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[params.ObjectKey] = data
	mime := params.ContentType
	if mime == "" {
		mime = "application/octet-stream"
	}
	b.mimes[params.ObjectKey] = mime
	meta := make(map[string]string, len(params.Metadata))
	for k, v := range params.Metadata {
		meta[k] = v
	}
	b.metadata[params.ObjectKey] = meta
	b.updated[params.ObjectKey] = time.Now()
	return nil
}

// Download returns the stored content
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}

	delete(b.objects, objectKey)
	delete(b.mimes, objectKey)
	delete(b.metadata, objectKey)
	delete(b.updated, objectKey)
	return nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*tekmiz.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	meta := make(map[string]string, len(b.metadata[objectKey]))
	for k, v := range b.metadata[objectKey] {
		meta[k] = v
	}

	return &tekmiz.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(data)),
		ContentType: b.mimes[objectKey],
		UpdatedAt:   b.updated[objectKey],
		Metadata:    meta,
	}, nil
}

// PublicURL returns a synthetic URL for the object key
func (b *Backend) PublicURL(objectKey string) string {
	return fmt.Sprintf("memory://%s", objectKey)
}

// Len reports the number of stored objects (test helper).
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
