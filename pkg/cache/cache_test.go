package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a miss with nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v1" {
		t.Fatalf("Get(k) = %q, %v, %v; want v1 hit", data, hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k"); string(data) != "v2" {
		t.Errorf("Get(k) after overwrite = %q, want v2", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit %v, err %v; want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashFloats(t *testing.T) {
	a := HashFloats([]float64{1, 1.5, 0.75})
	if a != HashFloats([]float64{1, 1.5, 0.75}) {
		t.Error("HashFloats should be deterministic")
	}
	if a == HashFloats([]float64{1.5, 1, 0.75}) {
		t.Error("HashFloats should depend on order")
	}
	if a == HashFloats([]float64{1, 1.5}) {
		t.Error("HashFloats should depend on length")
	}
	if len(HashFloats(nil)) != 64 {
		t.Error("HashFloats(nil) should still be a full hash")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tk1 := k.TileKey("h", TileKeyOpts{Threshold: 4})
	tk2 := k.TileKey("h", TileKeyOpts{Threshold: 4, Remainder: true})
	if tk1 == tk2 {
		t.Error("Different TileKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(tk1, "tile:") {
		t.Errorf("TileKey should start with tile:, got %s", tk1)
	}
	if tk1 != k.TileKey("h", TileKeyOpts{Threshold: 4}) {
		t.Error("TileKey should be deterministic")
	}

	lk1 := k.LayoutKey("h", LayoutKeyOpts{Width: 800, RowHeight: 200})
	lk2 := k.LayoutKey("h", LayoutKeyOpts{Width: 1200, RowHeight: 200})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey should start with layout:, got %s", lk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "gallery:7:")

	opts := TileKeyOpts{Threshold: 2}
	if got, want := scoped.TileKey("h", opts), "gallery:7:"+inner.TileKey("h", opts); got != want {
		t.Errorf("ScopedKeyer TileKey = %s, want %s", got, want)
	}
	lopts := LayoutKeyOpts{Width: 10, RowHeight: 5}
	if got, want := scoped.LayoutKey("h", lopts), "gallery:7:"+inner.LayoutKey("h", lopts); got != want {
		t.Errorf("ScopedKeyer LayoutKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.TileKey("h", TileKeyOpts{})
	if !strings.HasPrefix(key, "prefix:tile:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

var errUnreachable = errors.New("dial tcp 127.0.0.1:6379: connection refused")

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := fmt.Errorf("page 3: %w", Retryable(errUnreachable))
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false for a wrapped retryable error")
	}
	if !errors.Is(err, errUnreachable) {
		t.Error("retryable error should unwrap to its cause")
	}
	if IsRetryable(errUnreachable) {
		t.Error("IsRetryable() = true for an unmarked error")
	}
}

func TestBackoffRetry(t *testing.T) {
	b := Backoff{Attempts: 3, Delay: time.Millisecond}
	permanent := errors.New("status 404")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"first call succeeds", 0, nil, 1, nil},
		{"permanent failure is not retried", 5, permanent, 1, permanent},
		{"transient failure then success", 2, Retryable(errUnreachable), 3, nil},
		{"attempts exhausted", 5, Retryable(errUnreachable), 3, errUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Retry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("Retry() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Retry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Backoff{Attempts: 5, Delay: time.Hour}.Retry(ctx, func() error {
		calls++
		return Retryable(errUnreachable)
	})
	if err != context.Canceled || calls != 1 {
		t.Errorf("Retry() = %v after %d calls, want context.Canceled after 1", err, calls)
	}
}

func TestNewRedisCacheCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("NewRedisCache should fail with a canceled context")
	}
}
