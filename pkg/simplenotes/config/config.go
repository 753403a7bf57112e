package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-notes/pkg/simplenotes"
	"github.com/tendant/simple-notes/pkg/simplenotes/repo/memory"
	repopg "github.com/tendant/simple-notes/pkg/simplenotes/repo/postgres"
	fsstorage "github.com/tendant/simple-notes/pkg/simplenotes/storage/fs"
	memorystorage "github.com/tendant/simple-notes/pkg/simplenotes/storage/memory"
	s3storage "github.com/tendant/simple-notes/pkg/simplenotes/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of defaults.
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
		Port:         "8001",
		Environment:  "development",
		LogLevel:     "info",
		LogFormat:    "text",
		DatabaseType: "memory",
		DBSchema:     "public",
		Storage: StorageConfig{
			Type:    "memory",
			BaseDir: "./data/notes",
			S3: S3Config{
				Bucket:       "notes",
				Region:       "us-east-1",
				UsePathStyle: true,
			},
		},
		LocalNotesDir:      "assets/notes",
		MaxBodyBytes:       10 << 20,
		RequestTimeout:     60 * time.Second,
		EnableEventLogging: true,
	}
}

// ServerConfig represents configuration for the notes service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing
	LogLevel    string // debug, info, warn, error
	LogFormat   string // text, json

	// Metadata table
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema holding markdown_files (default: public)

	// Blob bucket
	Storage StorageConfig

	// SupabaseURL is the project URL, e.g. https://xyz.supabase.co. It is
	// used to derive the public file URL base and the S3 endpoint.
	SupabaseURL string
	// PublicBaseURL overrides the derived public file URL base
	PublicBaseURL string

	LocalNotesDir  string
	AdminPassword  string
	AllowedOrigins []string
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	EnableEventLogging bool
}

// StorageConfig selects and configures the blob store
type StorageConfig struct {
	Type    string // "memory", "fs", "s3"
	BaseDir string // fs only
	S3      S3Config
}

// S3Config configures the S3-compatible blob store
type S3Config struct {
	Bucket                 string
	Region                 string
	Endpoint               string
	AccessKeyID            string
	SecretAccessKey        string
	UsePathStyle           bool
	CreateBucketIfNotExist bool
}

// Bucket returns the bucket name used in public URLs
func (c *ServerConfig) Bucket() string {
	return c.Storage.S3.Bucket
}

// ResolvePublicBaseURL returns the prefix of public file URLs
func (c *ServerConfig) ResolvePublicBaseURL() string {
	if c.PublicBaseURL != "" {
		return strings.TrimRight(c.PublicBaseURL, "/")
	}
	return strings.TrimRight(c.SupabaseURL, "/") + "/storage/v1/object/public/" + c.Bucket()
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
	case "memory":
	case "fs":
		if c.Storage.BaseDir == "" {
			return errors.New("storage base directory is required for fs storage")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'text' or 'json', got: %s", c.LogFormat)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.MaxBodyBytes < 0 {
		return errors.New("max_body_bytes cannot be negative")
	}

	return nil
}

// Backends holds the long-lived handles built from configuration
type Backends struct {
	Repository simplenotes.Repository
	BlobStore  simplenotes.BlobStore

	// Set when the corresponding backend is in use
	Pool *pgxpool.Pool
	S3   *s3storage.Backend
}

// Close releases the database pool
func (b *Backends) Close() {
	if b.Pool != nil {
		b.Pool.Close()
	}
}

// BuildBackends creates the repository and blob store
func (c *ServerConfig) BuildBackends(ctx context.Context) (*Backends, error) {
	b := &Backends{}

	switch c.DatabaseType {
	case "memory":
		b.Repository = memory.New()
	case "postgres":
		pool, err := NewPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, err
		}
		b.Pool = pool
		b.Repository = repopg.NewWithPool(pool, c.DBSchema)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	store, s3Backend, err := c.buildBlobStore()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to build storage backend %s: %w", c.Storage.Type, err)
	}
	b.BlobStore = store
	b.S3 = s3Backend

	return b, nil
}

func (c *ServerConfig) buildBlobStore() (simplenotes.BlobStore, *s3storage.Backend, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(), nil, nil

	case "fs":
		store, err := fsstorage.New(fsstorage.Config{BaseDir: c.Storage.BaseDir})
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case "s3":
		s3cfg := c.Storage.S3
		if s3cfg.Endpoint == "" && c.SupabaseURL != "" {
			s3cfg.Endpoint = strings.TrimRight(c.SupabaseURL, "/") + "/storage/v1/s3"
		}
		backend, err := s3storage.New(s3storage.Config{
			Region:                 s3cfg.Region,
			Bucket:                 s3cfg.Bucket,
			AccessKeyID:            s3cfg.AccessKeyID,
			SecretAccessKey:        s3cfg.SecretAccessKey,
			Endpoint:               s3cfg.Endpoint,
			UsePathStyle:           s3cfg.UsePathStyle,
			CreateBucketIfNotExist: s3cfg.CreateBucketIfNotExist,
		})
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}
}

// BuildService creates a Service over already built backends
func (c *ServerConfig) BuildService(b *Backends, logger *slog.Logger) (simplenotes.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	options := []simplenotes.Option{
		simplenotes.WithRepository(b.Repository),
		simplenotes.WithBlobStore(b.BlobStore),
		simplenotes.WithPublicBaseURL(c.ResolvePublicBaseURL()),
		simplenotes.WithLocalNotesDir(c.LocalNotesDir),
		simplenotes.WithLogger(logger),
	}
	if c.EnableEventLogging {
		options = append(options, simplenotes.WithEventSink(simplenotes.NewLoggingEventSink(logger)))
	}

	return simplenotes.New(options...)
}

// NewPool opens a pgx pool with search_path set to schema and verifies
// connectivity.
func NewPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database_url is required")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}
