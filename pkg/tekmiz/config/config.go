package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
	repomemory "github.com/tekmiz/tekmiz-backend/pkg/tekmiz/repo/memory"
	repomongo "github.com/tekmiz/tekmiz-backend/pkg/tekmiz/repo/mongo"
	repopg "github.com/tekmiz/tekmiz-backend/pkg/tekmiz/repo/postgres"
	fsstorage "github.com/tekmiz/tekmiz-backend/pkg/tekmiz/storage/fs"
	memorystorage "github.com/tekmiz/tekmiz-backend/pkg/tekmiz/storage/memory"
	miniostorage "github.com/tekmiz/tekmiz-backend/pkg/tekmiz/storage/minio"
	s3storage "github.com/tekmiz/tekmiz-backend/pkg/tekmiz/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		DatabaseType:  "memory",
		MongoDatabase: "tekmiz",
		Storage: StorageConfig{
			Type: "memory",
		},
	}
}

// ServerConfig represents server configuration for the tekmiz service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL   string
	DatabaseType  string // "memory", "mongo", "postgres"
	MongoDatabase string // Mongo database name (default: tekmiz)

	// Storage configuration
	Storage StorageConfig

	// CORSOrigins lists origins allowed by the HTTP layer; empty allows any
	CORSOrigins []string

	// MaxUploadBytes overrides the ingestion size limit when > 0
	MaxUploadBytes int64
}

// StorageConfig represents configuration for the blob storage backend
type StorageConfig struct {
	Type string // "memory", "fs", "s3", "minio"

	// fs
	BaseDir string

	// s3 / minio
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool

	// PublicBaseURL fronts object URLs with a CDN or proxy base
	PublicBaseURL string

	CreateBucketIfNotExist bool
}

// IsDevelopment reports whether the server runs with development defaults
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment != "production"
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "mongo", "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required when using %s", c.DatabaseType)
		}
	default:
		return errors.New("database_type must be 'memory', 'mongo' or 'postgres'")
	}

	switch c.Storage.Type {
	case "memory":
	case "fs":
		if c.Storage.BaseDir == "" {
			return errors.New("storage base_dir is required for fs storage")
		}
	case "s3", "minio":
		if c.Storage.Bucket == "" {
			return errors.New("storage bucket is required for object storage")
		}
	default:
		return errors.New("storage type must be 'memory', 'fs', 's3' or 'minio'")
	}

	if c.MaxUploadBytes < 0 {
		return errors.New("max_upload_bytes must not be negative")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (tekmiz.Service, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.BuildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	options := []tekmiz.Option{
		tekmiz.WithRepository(repo),
		tekmiz.WithBlobStore(store),
	}
	if c.MaxUploadBytes > 0 {
		options = append(options,
			tekmiz.WithIngestor(tekmiz.NewIngestor(store, tekmiz.WithMaxFileBytes(c.MaxUploadBytes))))
	}

	return tekmiz.New(options...)
}

// BuildRepository creates a Repository based on the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (tekmiz.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "mongo":
		client, err := repomongo.Connect(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		repo := repomongo.New(client.Database(c.MongoDatabase))
		idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := repo.EnsureIndexes(idxCtx); err != nil {
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
		return repo, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// BuildBlobStore creates a BlobStore based on the configuration
func (c *ServerConfig) BuildBlobStore() (tekmiz.BlobStore, error) {
	s := c.Storage
	switch s.Type {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   s.BaseDir,
			URLPrefix: s.PublicBaseURL,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 s.Region,
			Bucket:                 s.Bucket,
			AccessKeyID:            s.AccessKeyID,
			SecretAccessKey:        s.SecretAccessKey,
			Endpoint:               s.Endpoint,
			PublicBaseURL:          s.PublicBaseURL,
			CreateBucketIfNotExist: s.CreateBucketIfNotExist,
		})
	case "minio":
		return miniostorage.New(miniostorage.Config{
			Endpoint:               s.Endpoint,
			AccessKey:              s.AccessKeyID,
			SecretKey:              s.SecretAccessKey,
			UseSSL:                 s.UseSSL,
			Bucket:                 s.Bucket,
			PublicBaseURL:          s.PublicBaseURL,
			CreateBucketIfNotExist: s.CreateBucketIfNotExist,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", s.Type)
	}
}
