package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/spotlight/pkg/cache"
	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/storage"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Layout.Width != 800 || cfg.Layout.RowHeight != 200 || cfg.Layout.Spacing != 4 || cfg.Layout.PageSize != 20 {
		t.Errorf("Default().Layout = %+v", cfg.Layout)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Storage.Backend != BackendFile {
		t.Errorf("Default() backends = %q, %q", cfg.Cache.Backend, cfg.Storage.Backend)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[layout]
width = 1200
row_height = 300
final = true

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "2h"

[storage]
backend = "memory"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.Width != 1200 || cfg.Layout.RowHeight != 300 || !cfg.Layout.Final {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Layout.Spacing != 4 {
		t.Errorf("unset spacing should keep default, got %v", cfg.Layout.Spacing)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Storage.Backend != BackendMemory || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Storage = %+v, Server = %+v", cfg.Storage, cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[layout\nwidth = 1", errors.ErrCodeInvalidFormat},
		{"unknown key", "[layout]\ncolumns = 3\n", errors.ErrCodeInvalidInput},
		{"invalid width", "[layout]\nwidth = -5\n", errors.ErrCodeInvalidInput},
		{"nan width", "[layout]\nwidth = nan\n", errors.ErrCodeInvalidInput},
		{"infinite row height", "[layout]\nrow_height = inf\n", errors.ErrCodeInvalidInput},
		{"unknown cache backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidInput},
		{"mongo without uri", "[storage]\nbackend = \"mongo\"\n", errors.ErrCodeInvalidInput},
		{"empty addr", "[server]\naddr = \"\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without file error: %v", err)
	}
	if cfg.Layout.Width != 800 {
		t.Errorf("Load(\"\") should return defaults, got width %v", cfg.Layout.Width)
	}

	path := filepath.Join(dir, "spotlight", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[layout]\nwidth = 640\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Layout.Width != 640 {
		t.Errorf("Load(\"\") width = %v, want 640", cfg.Layout.Width)
	}
}

func TestPipelineOptions(t *testing.T) {
	l := LayoutConfig{Width: 1000, RowHeight: 250, Spacing: 2, PageSize: 50, Final: true}
	o := l.PipelineOptions()
	if o.Width != 1000 || o.RowHeight != 250 || o.Spacing != 2 || o.PageSize != 50 || !o.Final {
		t.Errorf("PipelineOptions() = %+v", o)
	}
	if l.GridConfig().Threshold() != 4 {
		t.Errorf("GridConfig().Threshold() = %v, want 4", l.GridConfig().Threshold())
	}
}

func TestCacheDir(t *testing.T) {
	if dir, _ := (CacheConfig{Dir: "/tmp/x"}).CacheDir(); dir != "/tmp/x" {
		t.Errorf("CacheDir() = %q, want /tmp/x", dir)
	}
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")
	if dir, _ := (CacheConfig{}).CacheDir(); dir != filepath.Join("/xdg/cache", "spotlight") {
		t.Errorf("CacheDir() = %q", dir)
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()

	c, err := CacheConfig{Backend: BackendNone}.Open(ctx)
	if err != nil {
		t.Fatalf("Open(none) error: %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("Open(none) = %T, want *cache.NullCache", c)
	}

	c, err = CacheConfig{Backend: BackendFile, Dir: t.TempDir()}.Open(ctx)
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("Open(file) = %T, want *cache.FileCache", c)
	}

	s, err := StorageConfig{Backend: BackendMemory}.Open(ctx)
	if err != nil {
		t.Fatalf("Open(memory) error: %v", err)
	}
	if _, ok := s.(*storage.MemoryStore); !ok {
		t.Errorf("Open(memory) = %T, want *storage.MemoryStore", s)
	}

	s, err = StorageConfig{Backend: BackendFile, Dir: t.TempDir()}.Open(ctx)
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	if _, ok := s.(*storage.FileStore); !ok {
		t.Errorf("Open(file) = %T, want *storage.FileStore", s)
	}
}
