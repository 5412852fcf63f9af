// Package storage persists layout documents as snapshots so clients can
// fetch them again by ID and resolve scroll offsets against them.
//
// Backends implement [Store]:
//   - [FileStore]: JSON files in a directory, for the CLI
//   - [MongoStore]: a MongoDB collection, for multi-instance servers
//   - [MemoryStore]: in-process, for tests and ephemeral servers
//
// Snapshot IDs are random UUIDs assigned on first save.
package storage

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/layout"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = stderrors.New("snapshot not found")

// Store is the interface for snapshot backends.
type Store interface {
	// Save stores l and returns its ID. A layout without an ID is assigned a
	// new one; CreatedAt is set when zero. Saving an existing ID replaces it.
	Save(ctx context.Context, l *layout.Layout) (string, error)

	// Load returns the snapshot with the given ID.
	Load(ctx context.Context, id string) (*layout.Layout, error)

	// Delete removes a snapshot. Deleting an unknown ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Cleanup removes snapshots created more than maxAge ago and returns how
	// many were removed.
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)

	Close() error
}

// NewID returns a fresh snapshot ID.
func NewID() string {
	return uuid.NewString()
}

// prepare assigns an ID and creation time to l when missing.
func prepare(l *layout.Layout) error {
	if l.ID == "" {
		l.ID = NewID()
	} else if err := errors.ValidateSnapshotID(l.ID); err != nil {
		return err
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return nil
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeSnapshotNotFound, ErrNotFound, "snapshot %q", id)
}
