// Package cache stores computed tilings and layouts so repeated requests for
// the same items and frame skip the search.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// HTTP server, and [NullCache] when caching is disabled. Keys are built by a
// [Keyer] from a hash of the input plus every option that changes the result.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLTile is the lifetime of cached breakpoints.
	TTLTile = 7 * 24 * time.Hour

	// TTLLayout is the lifetime of cached layout documents.
	TTLLayout = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// TileKey returns the key for breakpoints of the given aspect ratios.
	TileKey(itemsHash string, opts TileKeyOpts) string

	// LayoutKey returns the key for a layout of the given items.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string
}

// TileKeyOpts are the tiling parameters that affect breakpoints.
type TileKeyOpts struct {
	Threshold float64 `json:"threshold"`
	Remainder bool    `json:"remainder"`
}

// LayoutKeyOpts are the frame parameters that affect a layout.
type LayoutKeyOpts struct {
	Width     float64 `json:"width"`
	RowHeight float64 `json:"row_height"`
	Spacing   float64 `json:"spacing"`
	Final     bool    `json:"final"`
	// PageSize matters because every page but the last is tiled in
	// remainder mode.
	PageSize int `json:"page_size"`
}

// DefaultKeyer builds keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TileKey hashes the item hash together with the tiling options.
func (DefaultKeyer) TileKey(itemsHash string, opts TileKeyOpts) string {
	return hashKey("tile", itemsHash, opts)
}

// LayoutKey hashes the item hash together with the frame options.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}
