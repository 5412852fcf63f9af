package storage

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/spotlight/pkg/layout"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]layout.Layout
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]layout.Layout)}
}

func (s *MemoryStore) Save(ctx context.Context, l *layout.Layout) (string, error) {
	if err := prepare(l); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[l.ID] = clone(*l)
	return l.ID, nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*layout.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.snapshots[id]
	if !ok {
		return nil, notFound(id)
	}
	c := clone(l)
	return &c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[id]; !ok {
		return notFound(id)
	}
	delete(s.snapshots, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, l := range s.snapshots {
		if l.CreatedAt.Before(cutoff) {
			delete(s.snapshots, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Close() error { return nil }

// clone copies rows and tiles so callers cannot alias stored snapshots.
func clone(l layout.Layout) layout.Layout {
	rows := make([]layout.Row, len(l.Rows))
	for i, r := range l.Rows {
		r.Tiles = append([]layout.Tile(nil), r.Tiles...)
		rows[i] = r
	}
	l.Rows = rows
	return l
}

var _ Store = (*MemoryStore)(nil)
