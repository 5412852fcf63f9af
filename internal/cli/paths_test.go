package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	c := New(io.Discard, LogInfo)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)
	c := New(io.Discard, LogInfo)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(customCache, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if want := env.path("cache") + "\n"; out != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}
