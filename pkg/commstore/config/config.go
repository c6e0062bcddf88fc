// Package config loads store configuration and assembles a ready-to-use
// commstore.Service from it.
package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/talkboard/commstore/pkg/commstore"
	"github.com/talkboard/commstore/pkg/commstore/repo/memory"
	"github.com/talkboard/commstore/pkg/commstore/repo/sqlite"
)

// Option applies configuration to a StoreConfig instance.
type Option func(*StoreConfig) error

// Load constructs a StoreConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*StoreConfig, error) {
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

func defaults() StoreConfig {
	img := commstore.DefaultImageOptions()
	return StoreConfig{
		DatabaseType:         "memory",
		MaxUploadBytes:       img.MaxUploadBytes,
		CompressionThreshold: img.CompressionThreshold,
		MaxDimension:         img.MaxDimension,
		JPEGQuality:          img.JPEGQuality,
		EnableEventLogging:   true,
		EnableDefaultData:    true,
	}
}

// StoreConfig represents configuration for the communication store.
type StoreConfig struct {
	// Database configuration
	DatabaseType string `env:"COMMSTORE_DATABASE_TYPE"` // "memory", "sqlite"
	DatabasePath string `env:"COMMSTORE_DATABASE_PATH"` // sqlite file path

	// Image processing limits
	MaxUploadBytes       int64 `env:"COMMSTORE_MAX_UPLOAD_BYTES"`
	CompressionThreshold int64 `env:"COMMSTORE_COMPRESSION_THRESHOLD"`
	MaxDimension         uint  `env:"COMMSTORE_MAX_DIMENSION"`
	JPEGQuality          int   `env:"COMMSTORE_JPEG_QUALITY"`

	// Store options
	EnableEventLogging  bool `env:"COMMSTORE_ENABLE_EVENT_LOGGING"`
	EnableCascadeDelete bool `env:"COMMSTORE_ENABLE_CASCADE_DELETE"`
	EnableDefaultData   bool `env:"COMMSTORE_ENABLE_DEFAULT_DATA"`
}

// WithEnv overlays COMMSTORE_* environment variables onto the configuration.
func WithEnv() Option {
	return func(c *StoreConfig) error {
		return cleanenv.ReadEnv(c)
	}
}

// WithDatabase selects the repository engine ("memory" or "sqlite") and, for
// sqlite, the database file path.
func WithDatabase(dbType, path string) Option {
	return func(c *StoreConfig) error {
		c.DatabaseType = dbType
		c.DatabasePath = path
		return nil
	}
}

// WithImageLimits overrides the image ingestion tunables.
func WithImageLimits(opts commstore.ImageProcessingOptions) Option {
	return func(c *StoreConfig) error {
		c.MaxUploadBytes = opts.MaxUploadBytes
		c.CompressionThreshold = opts.CompressionThreshold
		c.MaxDimension = opts.MaxDimension
		c.JPEGQuality = opts.JPEGQuality
		return nil
	}
}

// WithCascadeDelete enables removal of owned images when an entity is deleted.
func WithCascadeDelete(enabled bool) Option {
	return func(c *StoreConfig) error {
		c.EnableCascadeDelete = enabled
		return nil
	}
}

// WithDefaultData controls seeding of the built-in body-part catalog into an
// empty store.
func WithDefaultData(enabled bool) Option {
	return func(c *StoreConfig) error {
		c.EnableDefaultData = enabled
		return nil
	}
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.DatabaseType != "memory" && c.DatabaseType != "sqlite" {
		return errors.New("database_type must be 'memory' or 'sqlite'")
	}
	if c.DatabaseType == "sqlite" && c.DatabasePath == "" {
		return errors.New("database_path is required when using sqlite")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	if c.CompressionThreshold <= 0 || c.CompressionThreshold > c.MaxUploadBytes {
		return errors.New("compression_threshold must be positive and no larger than max_upload_bytes")
	}
	if c.MaxDimension == 0 {
		return errors.New("max_dimension must be positive")
	}
	return nil
}

// BuildService creates a Service instance from the configuration. For sqlite
// the same store backs both the entity and blob collections.
func (c *StoreConfig) BuildService() (commstore.Service, error) {
	repo, blobs, err := c.buildRepositories()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	options := []commstore.Option{
		commstore.WithRepository(repo),
		commstore.WithBlobRepository(blobs),
		commstore.WithImageOptions(commstore.ImageProcessingOptions{
			MaxUploadBytes:       c.MaxUploadBytes,
			CompressionThreshold: c.CompressionThreshold,
			MaxDimension:         c.MaxDimension,
			JPEGQuality:          c.JPEGQuality,
		}),
	}

	var sinks []commstore.EventSink
	if c.EnableEventLogging {
		sinks = append(sinks, commstore.NewLogEventSink(nil))
	}
	if c.EnableCascadeDelete {
		sinks = append(sinks, commstore.NewCascadeSink(blobs, nil))
	}
	switch len(sinks) {
	case 0:
	case 1:
		options = append(options, commstore.WithEventSink(sinks[0]))
	default:
		options = append(options, commstore.WithEventSink(commstore.NewMultiSink(sinks...)))
	}

	if !c.EnableDefaultData {
		options = append(options, commstore.WithSeedData([]byte("[]")))
	}

	return commstore.New(options...)
}

func (c *StoreConfig) buildRepositories() (commstore.Repository, commstore.BlobRepository, error) {
	switch c.DatabaseType {
	case "memory":
		store := memory.New()
		return store, store, nil
	case "sqlite":
		store, err := sqlite.Open(c.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}
