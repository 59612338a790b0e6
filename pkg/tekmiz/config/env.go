package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the flat environment mapping read by cleanenv.
//
//	PORT            - Server port (default: "8080")
//	ENVIRONMENT     - Runtime environment (default: "development")
//	DATABASE_URL    - "memory" (default), "mongodb://..." or "postgres://..."
//	MONGO_DATABASE  - Mongo database name (default: "tekmiz")
//	STORAGE_URL     - "memory://" (default), "file:///path",
//	                  "s3://bucket?region=..." or "minio://bucket?endpoint=..."
//	PUBLIC_URL_BASE - Optional CDN/proxy base for stored file URLs
//	CORS_ORIGINS    - Comma-separated list of allowed origins
//	MAX_UPLOAD_BYTES - Optional override of the upload size limit
type envConfig struct {
	Port           string `env:"PORT"`
	Environment    string `env:"ENVIRONMENT"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MongoDatabase  string `env:"MONGO_DATABASE"`
	StorageURL     string `env:"STORAGE_URL"`
	PublicURLBase  string `env:"PUBLIC_URL_BASE"`
	CORSOrigins    string `env:"CORS_ORIGINS"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES"`
}

// WithEnv applies environment variable overrides on top of the defaults.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var ec envConfig
		if err := cleanenv.ReadEnv(&ec); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		if ec.Port != "" {
			c.Port = ec.Port
		}
		if ec.Environment != "" {
			c.Environment = ec.Environment
		}
		if ec.MongoDatabase != "" {
			c.MongoDatabase = ec.MongoDatabase
		}
		if ec.PublicURLBase != "" {
			c.Storage.PublicBaseURL = ec.PublicURLBase
		}
		if ec.CORSOrigins != "" {
			for _, origin := range strings.Split(ec.CORSOrigins, ",") {
				if origin = strings.TrimSpace(origin); origin != "" {
					c.CORSOrigins = append(c.CORSOrigins, origin)
				}
			}
		}
		if ec.MaxUploadBytes > 0 {
			c.MaxUploadBytes = ec.MaxUploadBytes
		}

		if err := applyDatabaseEnv(ec.DatabaseURL, c); err != nil {
			return err
		}
		return applyStorageEnv(ec.StorageURL, c)
	}
}

// applyDatabaseEnv derives the database type from the connection URL
func applyDatabaseEnv(dbURL string, c *ServerConfig) error {
	switch {
	case dbURL == "" || dbURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "mongodb://"), strings.HasPrefix(dbURL, "mongodb+srv://"):
		c.DatabaseType = "mongo"
		c.DatabaseURL = dbURL
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory', 'mongodb://...' or 'postgres://...')", dbURL)
	}
	return nil
}

// applyStorageEnv derives the storage backend from the storage URL
func applyStorageEnv(storageURL string, c *ServerConfig) error {
	if storageURL == "" || storageURL == "memory" || storageURL == "memory://" {
		c.Storage.Type = "memory"
		return nil
	}

	u, err := url.Parse(storageURL)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		c.Storage.Type = "fs"
		c.Storage.BaseDir = u.Path
	case "s3":
		if u.Host == "" {
			return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
		}
		c.Storage.Type = "s3"
		c.Storage.Bucket = u.Host
		c.Storage.Region = u.Query().Get("region")
		c.Storage.Endpoint = u.Query().Get("endpoint")
		applyObjectStoreCredentials(c)
	case "minio":
		if u.Host == "" {
			return fmt.Errorf("MinIO bucket name cannot be empty in STORAGE_URL")
		}
		c.Storage.Type = "minio"
		c.Storage.Bucket = u.Host
		c.Storage.Endpoint = u.Query().Get("endpoint")
		c.Storage.UseSSL = u.Query().Get("ssl") == "true"
		c.Storage.CreateBucketIfNotExist = u.Query().Get("create_bucket") == "true"
		applyObjectStoreCredentials(c)
	default:
		return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', 's3://...' or 'minio://...')", storageURL)
	}
	return nil
}

// applyObjectStoreCredentials picks up credentials from the standard AWS
// variables, which MinIO deployments reuse as well
func applyObjectStoreCredentials(c *ServerConfig) {
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		c.Storage.AccessKeyID = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		c.Storage.SecretAccessKey = v
	}
	if c.Storage.Region == "" {
		if v := os.Getenv("AWS_REGION"); v != "" {
			c.Storage.Region = v
		}
	}
}
