// Package grid lays out streams of media items as justified rows.
//
// A [Grid] receives pages of items (identifier plus aspect ratio), tiles
// them with [tile.Tile], and turns the breakpoints into rows with a
// cumulative top offset and a height that makes the row span the full frame
// width. While more pages may arrive, tiling runs in remainder mode so an
// under-full trailing row stays pending instead of being stretched; the
// final page (or [Grid.Flush]) tiles strictly and places every item.
//
// Rows never change once built. A different frame width requires
// [Grid.Relayout], which returns a new Grid.
//
//	g, _ := grid.New(grid.Config{Width: 1200, RowHeight: 240, Spacing: 4})
//	g.Append(page1, false)
//	g.Append(page2, true)
//	row, delta, _ := g.RowAt(scrollY)
package grid

import (
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spotlight/pkg/closest"
	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/layout"
	"github.com/matzehuels/spotlight/pkg/tile"
)

// Default frame parameters.
const (
	DefaultWidth     = 800.0
	DefaultRowHeight = 200.0
	DefaultSpacing   = 4.0
)

// Item is a single media item to place in the grid.
type Item struct {
	ID          string  `json:"id" yaml:"id"`
	AspectRatio float64 `json:"aspect_ratio" yaml:"aspect_ratio"`
}

// Row is a laid-out row. See [layout.Row].
type Row = layout.Row

// Config describes the grid frame.
type Config struct {
	// Width is the frame width rows are justified to.
	Width float64
	// RowHeight is the target height of a row before justification.
	RowHeight float64
	// Spacing is the gap between items in a row and between rows.
	Spacing float64
}

// DefaultConfig returns the default frame parameters.
func DefaultConfig() Config {
	return Config{Width: DefaultWidth, RowHeight: DefaultRowHeight, Spacing: DefaultSpacing}
}

// Threshold returns the aggregate aspect ratio a row needs to fill the frame
// at the target row height. It is never below 1.
func (c Config) Threshold() float64 {
	return max(1, c.Width/c.RowHeight)
}

// Validate checks the frame parameters.
func (c Config) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"width", c.Width}, {"row height", c.RowHeight}, {"spacing", c.Spacing}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a finite number, received %v", v.name, v.value)
		}
	}
	if c.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must be positive, received %v", c.Width)
	}
	if c.RowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "row height must be positive, received %v", c.RowHeight)
	}
	if c.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spacing cannot be negative, received %v", c.Spacing)
	}
	return nil
}

// Option configures a Grid.
type Option func(*Grid)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(g *Grid) {
		if l != nil {
			g.logger = l
		}
	}
}

// Grid is a streaming justified layout. It is not safe for concurrent use.
type Grid struct {
	cfg       Config
	threshold float64
	items     []Item
	rows      []Row
	final     bool
	logger    *log.Logger
}

// New creates an empty grid for the given frame.
func New(cfg Config, opts ...Option) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Grid{
		cfg:       cfg,
		threshold: cfg.Threshold(),
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Config returns the frame parameters.
func (g *Grid) Config() Config { return g.cfg }

// Threshold returns the row threshold derived from the frame.
func (g *Grid) Threshold() float64 { return g.threshold }

// Append adds a page of items and lays out as many rows as the tiler
// settles. When final is false, trailing items may remain pending until the
// next call. The newly built rows are returned.
//
// Items with a non-positive or non-finite aspect ratio are rejected before
// anything is laid out.
func (g *Grid) Append(items []Item, final bool) ([]Row, error) {
	for _, it := range items {
		if errors.ValidateAspectRatio(it.AspectRatio) != nil {
			return nil, errors.New(errors.ErrCodeInvalidAspectRatio, "item %q: aspect ratio must be a positive number, received %v", it.ID, it.AspectRatio)
		}
	}

	g.items = append(g.items, items...)
	if final {
		g.final = true
	}

	offset := g.Placed()
	pending := g.items[offset:]
	ratios := make([]float64, len(pending))
	for i, it := range pending {
		ratios[i] = it.AspectRatio
	}

	breaks, err := tile.Tile(ratios, g.threshold, !final)
	if err != nil {
		return nil, err
	}

	start := len(g.rows)
	for _, span := range tile.Spans(breaks) {
		g.rows = append(g.rows, g.buildRow(offset+span.Start, offset+span.End))
	}
	added := g.rows[start:]

	g.logger.Debug("tiled page",
		"items", len(items),
		"rows", len(added),
		"pending", g.Pending(),
		"final", final)

	return added, nil
}

// Flush places every pending item.
func (g *Grid) Flush() ([]Row, error) {
	return g.Append(nil, true)
}

// buildRow justifies items[start:end) to the frame width.
func (g *Grid) buildRow(start, end int) Row {
	var aggregate float64
	for _, it := range g.items[start:end] {
		aggregate += it.AspectRatio
	}

	gaps := float64(end-start-1) * g.cfg.Spacing
	height := (g.cfg.Width - gaps) / aggregate

	var top float64
	if n := len(g.rows); n > 0 {
		top = g.rows[n-1].Bottom() + g.cfg.Spacing
	}

	tiles := make([]layout.Tile, 0, end-start)
	left := 0.0
	for i := start; i < end; i++ {
		it := g.items[i]
		w := it.AspectRatio * height
		tiles = append(tiles, layout.Tile{
			ID:          it.ID,
			Index:       i,
			AspectRatio: it.AspectRatio,
			Left:        left,
			Width:       w,
		})
		left += w + g.cfg.Spacing
	}

	return Row{
		Index:  len(g.rows),
		Start:  start,
		End:    end,
		Top:    top,
		Height: height,
		Tiles:  tiles,
	}
}

// Rows returns the laid-out rows. The slice must not be modified.
func (g *Grid) Rows() []Row { return g.rows }

// Items returns every item appended so far. The slice must not be modified.
func (g *Grid) Items() []Item { return g.items }

// Len returns the number of rows.
func (g *Grid) Len() int { return len(g.rows) }

// Placed returns the number of items assigned to rows.
func (g *Grid) Placed() int {
	if len(g.rows) == 0 {
		return 0
	}
	return g.rows[len(g.rows)-1].End
}

// Pending returns the number of items waiting for a row.
func (g *Grid) Pending() int { return len(g.items) - g.Placed() }

// Height returns the total height covered by rows.
func (g *Grid) Height() float64 {
	if len(g.rows) == 0 {
		return 0
	}
	return g.rows[len(g.rows)-1].Bottom()
}

// RowAt returns the row nearest to vertical offset y and y minus that row's
// top. The boolean is false while the grid has no rows.
func (g *Grid) RowAt(y float64) (Row, float64, bool) {
	m, ok := closest.Find(g.rows, y, func(r Row) float64 { return r.Top })
	if !ok {
		return Row{}, 0, false
	}
	return g.rows[m.Index], m.Delta, true
}

// RowOf returns the row containing the item at index.
func (g *Grid) RowOf(index int) (Row, bool) {
	i := sort.Search(len(g.rows), func(i int) bool { return g.rows[i].End > index })
	if i == len(g.rows) || g.rows[i].Start > index || index < 0 {
		return Row{}, false
	}
	return g.rows[i], true
}

// Relayout lays out the same items for a different frame and returns the
// new grid. The receiver is left unchanged.
func (g *Grid) Relayout(cfg Config) (*Grid, error) {
	next, err := New(cfg, WithLogger(g.logger))
	if err != nil {
		return nil, err
	}
	if _, err := next.Append(g.items, g.final); err != nil {
		return nil, err
	}
	return next, nil
}

// Score returns the total distortion of the placed rows.
func (g *Grid) Score() float64 {
	var total float64
	for _, r := range g.rows {
		ratios := make([]float64, 0, r.End-r.Start)
		for _, it := range g.items[r.Start:r.End] {
			ratios = append(ratios, it.AspectRatio)
		}
		total += tile.RowScore(ratios, g.threshold)
	}
	return total
}

// Export converts the grid to its serialization format.
func (g *Grid) Export() layout.Layout {
	rows := make([]layout.Row, len(g.rows))
	copy(rows, g.rows)
	return layout.Layout{
		Width:     g.cfg.Width,
		RowHeight: g.cfg.RowHeight,
		Spacing:   g.cfg.Spacing,
		Threshold: g.threshold,
		Height:    g.Height(),
		Items:     len(g.items),
		Pending:   g.Pending(),
		Score:     g.Score(),
		Rows:      rows,
	}
}

// FromLayout rebuilds a grid from a layout document so it can be queried or
// relaid out. Items are recovered from the row tiles; pending items are not
// stored in documents and are therefore dropped.
func FromLayout(l layout.Layout, opts ...Option) (*Grid, error) {
	g, err := New(Config{Width: l.Width, RowHeight: l.RowHeight, Spacing: l.Spacing}, opts...)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout")
	}

	for _, r := range l.Rows {
		if len(r.Tiles) != r.End-r.Start {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d has %d tiles for %d items", r.Index, len(r.Tiles), r.End-r.Start)
		}
		for _, t := range r.Tiles {
			g.items = append(g.items, Item{ID: t.ID, AspectRatio: t.AspectRatio})
		}
	}
	g.rows = append(g.rows, l.Rows...)
	g.final = l.Pending == 0
	return g, nil
}
