// Package pipeline provides the layout pipeline shared by the CLI and the
// HTTP API.
//
// The pipeline pulls pages of items from a [source.Pager], feeds them to a
// streaming [grid.Grid], and exports the result as a [layout.Layout]. A
// [Runner] adds caching so the same items and frame are only laid out once.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{Width: 1200, RowHeight: 240, Final: true}
//	result, err := runner.Execute(ctx, source.NewSlice(items, 0), opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Layout.Rows))
//
// Run individual stages:
//
//	g, err := runner.Stream(ctx, pager, opts)             // grid only
//	l, hit, err := runner.LayoutWithCacheInfo(ctx, items, opts)
//	breaks, hit, err := runner.TileWithCacheInfo(ctx, ratios, 4, false)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spotlight/pkg/cache"
	"github.com/matzehuels/spotlight/pkg/grid"
	"github.com/matzehuels/spotlight/pkg/layout"
	"github.com/matzehuels/spotlight/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = grid.DefaultWidth

	// DefaultRowHeight is the default target row height in pixels.
	DefaultRowHeight = grid.DefaultRowHeight

	// DefaultSpacing is the default gap between items in pixels.
	DefaultSpacing = grid.DefaultSpacing

	// DefaultPageSize is the number of items fetched per page.
	DefaultPageSize = source.DefaultPageSize
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a layout run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Width     float64 `json:"width,omitempty"`
	RowHeight float64 `json:"row_height,omitempty"`
	Spacing   float64 `json:"spacing,omitempty"`
	PageSize  int     `json:"page_size,omitempty"`

	// Final places every item, stretching the last row if needed. Without it
	// trailing items that do not fill a row stay pending.
	Final bool `json:"final,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// OnPage is called after each page is appended with the rows it produced.
	OnPage func(page int, rows []grid.Row) `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Layout    layout.Layout
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Items      int
	Rows       int
	Pending    int
	Pages      int
	LayoutTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	LayoutHit bool
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.RowHeight == 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks the frame.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.GridConfig().Validate()
}

// GridConfig returns the frame parameters as a grid configuration.
func (o *Options) GridConfig() grid.Config {
	return grid.Config{Width: o.Width, RowHeight: o.RowHeight, Spacing: o.Spacing}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:     o.Width,
		RowHeight: o.RowHeight,
		Spacing:   o.Spacing,
		Final:     o.Final,
		PageSize:  o.PageSize,
	}
}
