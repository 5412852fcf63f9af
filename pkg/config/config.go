// Package config loads spotlight settings from a TOML file.
//
//	[layout]
//	width = 1200
//	row_height = 240
//	spacing = 4
//	page_size = 20
//	final = true
//
//	[cache]
//	backend = "redis"          # file, redis or none
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[storage]
//	backend = "mongo"          # file, mongo or memory
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Missing sections and keys keep their defaults. Command-line flags override
// file values.
package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spotlight/pkg/cache"
	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/grid"
	"github.com/matzehuels/spotlight/pkg/pipeline"
	"github.com/matzehuels/spotlight/pkg/storage"
)

const appName = "spotlight"

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Config is the full configuration file.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
}

// LayoutConfig holds the default frame.
type LayoutConfig struct {
	Width     float64 `toml:"width"`
	RowHeight float64 `toml:"row_height"`
	Spacing   float64 `toml:"spacing"`
	PageSize  int     `toml:"page_size"`
	Final     bool    `toml:"final"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	Prefix        string        `toml:"prefix"`
	TTL           time.Duration `toml:"ttl"`
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Backend    string        `toml:"backend"`
	Dir        string        `toml:"dir"`
	MongoURI   string        `toml:"mongo_uri"`
	Database   string        `toml:"database"`
	Collection string        `toml:"collection"`
	TTL        time.Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Width:     pipeline.DefaultWidth,
			RowHeight: pipeline.DefaultRowHeight,
			Spacing:   pipeline.DefaultSpacing,
			PageSize:  pipeline.DefaultPageSize,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.TTLLayout,
		},
		Storage: StorageConfig{
			Backend:    BackendFile,
			Database:   storage.DefaultMongoDatabase,
			Collection: storage.DefaultMongoCollection,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// DefaultPath returns the config file location using XDG
// (~/.config/spotlight/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path loads the
// default location if it exists and returns the defaults otherwise. An
// explicit path that does not exist is an error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		def, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		if _, err := os.Stat(def); err != nil {
			return cfg, nil
		}
		path = def
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.GridConfig().Validate(); err != nil {
		return err
	}
	if c.Layout.PageSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.page_size cannot be negative")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q must be one of: file, redis, none", c.Cache.Backend)
	}

	switch c.Storage.Backend {
	case BackendFile, BackendMemory:
	case BackendMongo:
		if c.Storage.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "storage.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "storage.backend %q must be one of: file, mongo, memory", c.Storage.Backend)
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr cannot be empty")
	}
	return nil
}

// GridConfig returns the frame as a grid configuration.
func (l LayoutConfig) GridConfig() grid.Config {
	return grid.Config{Width: l.Width, RowHeight: l.RowHeight, Spacing: l.Spacing}
}

// PipelineOptions returns the frame as pipeline options.
func (l LayoutConfig) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:     l.Width,
		RowHeight: l.RowHeight,
		Spacing:   l.Spacing,
		PageSize:  l.PageSize,
		Final:     l.Final,
	}
}

// CacheDir returns the file cache directory, defaulting to
// ~/.cache/spotlight (or $XDG_CACHE_HOME/spotlight).
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Open creates the configured cache backend.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := c.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// Open creates the configured snapshot backend.
func (s StorageConfig) Open(ctx context.Context) (storage.Store, error) {
	switch s.Backend {
	case BackendMemory:
		return storage.NewMemoryStore(), nil
	case BackendMongo:
		ms, err := storage.NewMongoStore(ctx, storage.MongoConfig{
			URI:        s.MongoURI,
			Database:   s.Database,
			Collection: s.Collection,
			TTL:        s.TTL,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		fs, err := storage.NewFileStore(s.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}
