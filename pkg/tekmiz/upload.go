package tekmiz

import (
	"context"
	"io"
	"log/slog"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/ingest"
)

// Ingestor streams validated uploads into a BlobStore and yields the
// public retrieval URL. Validation, folder routing and key derivation are
// delegated to the pure functions in the ingest package; the Ingestor adds
// the streaming, the size bound and the cleanup of rejected partial writes.
type Ingestor struct {
	store    BlobStore
	maxBytes int64
	logger   *slog.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithMaxFileBytes overrides the default upload size bound.
func WithMaxFileBytes(n int64) IngestorOption {
	return func(ing *Ingestor) {
		if n > 0 {
			ing.maxBytes = n
		}
	}
}

// NewIngestor creates an Ingestor over the given store.
func NewIngestor(store BlobStore, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		store:    store,
		maxBytes: ingest.MaxFileBytes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest validates the declared content type, derives a storage key, streams
// the bytes to the store and returns the stored file's public URL, original
// file name and byte size.
//
// Streams over the size bound are aborted mid-flight and any partial object
// already written is deleted, so no orphan is left reachable by URL.
func (ing *Ingestor) Ingest(ctx context.Context, upload FileUpload) (*StoredFile, error) {
	if err := ingest.ValidateContentType(upload.ContentType); err != nil {
		return nil, err
	}

	key := ingest.NewObjectKey(upload.ContentType, upload.FileName)
	bounded := &boundedReader{r: upload.Reader, max: ing.maxBytes}

	err := ing.store.Upload(ctx, bounded, UploadParams{
		ObjectKey:   key,
		ContentType: upload.ContentType,
		Metadata: map[string]string{
			"field-name":    upload.FieldName,
			"original-name": upload.FileName,
		},
	})
	if bounded.exceeded {
		if delErr := ing.store.Delete(ctx, key); delErr != nil {
			ing.logger.Warn("failed to discard oversized partial upload", "key", key, "err", delErr)
		}
		return nil, ErrSizeExceeded
	}
	if err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}

	return &StoredFile{
		Key:      key,
		URL:      ing.store.PublicURL(key),
		FileName: upload.FileName,
		Size:     bounded.n,
	}, nil
}

// boundedReader aborts the stream with ErrSizeExceeded once more than max
// bytes have been read, so oversized payloads are never buffered in full.
type boundedReader struct {
	r        io.Reader
	n        int64
	max      int64
	exceeded bool
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.exceeded {
		return 0, ErrSizeExceeded
	}
	n, err := b.r.Read(p)
	b.n += int64(n)
	if b.n > b.max {
		b.exceeded = true
		return n, ErrSizeExceeded
	}
	return n, err
}
