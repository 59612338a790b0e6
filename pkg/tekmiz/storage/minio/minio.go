package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
)

// Config options for the MinIO backend
type Config struct {
	Endpoint  string // host:port of the MinIO server
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string

	// PublicBaseURL overrides the derived public URL base (e.g. a CDN or a
	// reverse proxy in front of MinIO).
	PublicBaseURL string

	// CreateBucketIfNotExist creates the bucket on startup
	CreateBucketIfNotExist bool
}

// Backend is a MinIO implementation of the tekmiz.BlobStore interface
type Backend struct {
	client *minio.Client
	bucket string
	config Config
}

// New creates a new MinIO storage backend
func New(config Config) (*Backend, error) {
	if config.Endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	backend := &Backend{
		client: client,
		bucket: config.Bucket,
		config: config,
	}

	if config.CreateBucketIfNotExist {
		ctx := context.Background()
		exists, err := client.BucketExists(ctx, config.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create bucket: %w", err)
			}
		}
	}

	return backend, nil
}

// Upload streams content to MinIO
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params tekmiz.UploadParams) error {
	_, err := b.client.PutObject(ctx, b.bucket, params.ObjectKey, reader, -1, minio.PutObjectOptions{
		ContentType:  params.ContentType,
		UserMetadata: params.Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return nil
}

// Download downloads content directly from MinIO
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download from MinIO: %w", err)
	}
	// GetObject is lazy; a missing key only surfaces on first read or Stat.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.New("object not found")
		}
		return nil, fmt.Errorf("failed to stat MinIO object: %w", err)
	}
	return obj, nil
}

// Delete deletes content from MinIO
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete from MinIO: %w", err)
	}
	return nil
}

// GetObjectMeta retrieves metadata for an object in MinIO
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*tekmiz.ObjectMeta, error) {
	info, err := b.client.StatObject(ctx, b.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.New("object not found")
		}
		return nil, fmt.Errorf("failed to get object metadata: %w", err)
	}

	metadata := make(map[string]string, len(info.UserMetadata))
	for k, v := range info.UserMetadata {
		metadata[k] = v
	}

	return &tekmiz.ObjectMeta{
		Key:         objectKey,
		Size:        info.Size,
		ContentType: info.ContentType,
		UpdatedAt:   info.LastModified,
		ETag:        strings.Trim(info.ETag, "\""),
		Metadata:    metadata,
	}, nil
}

// PublicURL returns the unauthenticated retrieval URL for an object key
func (b *Backend) PublicURL(objectKey string) string {
	if b.config.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(b.config.PublicBaseURL, "/"), objectKey)
	}
	scheme := "http"
	if b.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, b.config.Endpoint, b.bucket, objectKey)
}
