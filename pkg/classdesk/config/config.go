package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classdesk/classdesk/pkg/classdesk"
	"github.com/classdesk/classdesk/pkg/classdesk/repo/memory"
	repopg "github.com/classdesk/classdesk/pkg/classdesk/repo/postgres"
	fsstorage "github.com/classdesk/classdesk/pkg/classdesk/storage/fs"
	memorystorage "github.com/classdesk/classdesk/pkg/classdesk/storage/memory"
	s3storage "github.com/classdesk/classdesk/pkg/classdesk/storage/s3"
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
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		Storage: StorageConfig{
			Type:   "memory",
			Config: map[string]interface{}{},
		},
	}
}

// ServerConfig represents server configuration for the classdesk service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Blob storage configuration
	Storage StorageConfig

	// Bearer token signing secret
	JWTSecret string
}

// StorageConfig represents configuration for the blob storage backend
type StorageConfig struct {
	Type   string // "memory", "fs", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.Storage.Type {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (classdesk.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	return classdesk.New(
		classdesk.WithRepository(repo),
		classdesk.WithBlobStore(store),
	)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (classdesk.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, errors.New("database_url is required for postgres")
		}
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildBlobStore creates a BlobStore based on the configuration
func (c *ServerConfig) buildBlobStore() (classdesk.BlobStore, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		fsConfig := fsstorage.Config{
			BaseDir: getString(c.Storage.Config, "base_dir", "./data/blobs"),
		}
		return fsstorage.New(fsConfig)

	case "s3":
		s3Config := s3storage.Config{
			Region:                 getString(c.Storage.Config, "region", "us-east-1"),
			Bucket:                 getString(c.Storage.Config, "bucket", ""),
			AccessKeyID:            getString(c.Storage.Config, "access_key_id", ""),
			SecretAccessKey:        getString(c.Storage.Config, "secret_access_key", ""),
			Endpoint:               getString(c.Storage.Config, "endpoint", ""),
			UsePathStyle:           getBool(c.Storage.Config, "use_path_style", false),
			EnableSSE:              getBool(c.Storage.Config, "enable_sse", false),
			SSEAlgorithm:           getString(c.Storage.Config, "sse_algorithm", "AES256"),
			SSEKMSKeyID:            getString(c.Storage.Config, "sse_kms_key_id", ""),
			CreateBucketIfNotExist: getBool(c.Storage.Config, "create_bucket_if_not_exist", false),
		}
		return s3storage.New(s3Config)

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return defaultValue
}
