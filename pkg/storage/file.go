package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/layout"
)

// FileStore keeps snapshots as JSON files in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based snapshot store.
// If baseDir is empty, defaults to ~/.local/share/spotlight/snapshots/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "spotlight", "snapshots")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) snapshotPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, l *layout.Layout) (string, error) {
	if err := prepare(l); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := layout.MarshalLayout(*l)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(l.ID), data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot file: %w", err)
	}
	return l.ID, nil
}

func (s *FileStore) Load(ctx context.Context, id string) (*layout.Layout, error) {
	if err := errors.ValidateSnapshotID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.snapshotPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	l, err := layout.UnmarshalLayout(data)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &l, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateSnapshotID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.snapshotPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}

func (s *FileStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read snapshot dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var head struct {
			CreatedAt time.Time `json:"created_at"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			continue
		}
		if head.CreatedAt.Before(cutoff) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the snapshot directory.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
