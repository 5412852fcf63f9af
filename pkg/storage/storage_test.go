package storage

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/layout"
)

func sampleLayout() *layout.Layout {
	return &layout.Layout{
		Width:     400,
		RowHeight: 200,
		Threshold: 2,
		Height:    400,
		Items:     4,
		Rows: []layout.Row{
			{Index: 0, Start: 0, End: 2, Top: 0, Height: 200, Tiles: []layout.Tile{
				{ID: "a", Index: 0, AspectRatio: 1, Width: 200},
				{ID: "b", Index: 1, AspectRatio: 1, Left: 200, Width: 200},
			}},
			{Index: 1, Start: 2, End: 4, Top: 200, Height: 200, Tiles: []layout.Tile{
				{ID: "c", Index: 2, AspectRatio: 1, Width: 200},
				{ID: "d", Index: 3, AspectRatio: 1, Left: 200, Width: 200},
			}},
		},
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(),
	}
}

func TestSaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			l := sampleLayout()
			id, err := s.Save(ctx, l)
			if err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			if id == "" || l.ID != id {
				t.Fatalf("Save() id = %q, layout ID = %q", id, l.ID)
			}
			if l.CreatedAt.IsZero() {
				t.Error("Save() should set CreatedAt")
			}

			got, err := s.Load(ctx, id)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got.ID != id || len(got.Rows) != 2 || got.Rows[1].Tiles[0].ID != "c" {
				t.Errorf("Load() = %+v", got)
			}

			if err := s.Delete(ctx, id); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if _, err := s.Load(ctx, id); !stderrors.Is(err, ErrNotFound) {
				t.Errorf("Load() after Delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l := sampleLayout()
			id, _ := s.Save(ctx, l)

			l.Score = 42
			if again, err := s.Save(ctx, l); err != nil || again != id {
				t.Fatalf("Save() again = %q, %v; want %q", again, err, id)
			}
			got, _ := s.Load(ctx, id)
			if got.Score != 42 {
				t.Errorf("Score = %v, want 42", got.Score)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "missing-id")
			if !errors.Is(err, errors.ErrCodeSnapshotNotFound) {
				t.Errorf("Load() code = %v, want %v", errors.GetCode(err), errors.ErrCodeSnapshotNotFound)
			}
			if !stderrors.Is(err, ErrNotFound) {
				t.Error("Load() error should wrap ErrNotFound")
			}
			if err := s.Delete(ctx, "missing-id"); !stderrors.Is(err, ErrNotFound) {
				t.Errorf("Delete() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSaveRejectsBadID(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l := sampleLayout()
			l.ID = "../escape"
			if _, err := s.Save(ctx, l); err == nil {
				t.Error("Save() should reject an unsafe ID")
			}
		})
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			old := sampleLayout()
			old.CreatedAt = time.Now().Add(-48 * time.Hour)
			oldID, _ := s.Save(ctx, old)
			freshID, _ := s.Save(ctx, sampleLayout())

			n, err := s.Cleanup(ctx, 24*time.Hour)
			if err != nil {
				t.Fatalf("Cleanup() error: %v", err)
			}
			if n != 1 {
				t.Errorf("Cleanup() = %d, want 1", n)
			}
			if _, err := s.Load(ctx, oldID); err == nil {
				t.Error("old snapshot should be removed")
			}
			if _, err := s.Load(ctx, freshID); err != nil {
				t.Errorf("fresh snapshot should remain: %v", err)
			}
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	l := sampleLayout()
	id, _ := s.Save(ctx, l)

	l.Rows[0].Tiles[0].ID = "mutated"
	got, _ := s.Load(ctx, id)
	if got.Rows[0].Tiles[0].ID != "a" {
		t.Error("stored snapshot should not alias the saved layout")
	}
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	id, _ := s.Save(ctx, sampleLayout())

	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
	if _, err := os.Stat(filepath.Join(dir, id+".json")); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}
	if _, err := s.Load(ctx, "../../etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load() with traversal error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestNewMongoStoreBadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := NewMongoStore(ctx, MongoConfig{URI: "not-a-mongo-uri"}); err == nil {
		t.Error("NewMongoStore() should reject an invalid URI")
	}
}
