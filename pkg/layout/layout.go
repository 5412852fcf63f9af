// Package layout defines the serialization format for justified grid layouts.
//
// A [Layout] is the document produced by laying out a sequence of media
// items: frame width, target row height, spacing, the threshold used for
// tiling, and every row with its cumulative top offset, height, and the
// horizontal placement of each item. It is the format written by the CLI,
// returned by the HTTP API, cached, and stored in snapshot backends.
//
// Rows are immutable once laid out. A relayout produces a new document.
package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/spotlight/pkg/closest"
)

// Layout is the unified serialization format for a laid-out grid.
type Layout struct {
	// ID is set once the layout has been stored as a snapshot.
	ID string `json:"id,omitempty" bson:"_id,omitempty"`

	// Frame parameters
	Width     float64 `json:"width" bson:"width"`
	RowHeight float64 `json:"row_height" bson:"row_height"`
	Spacing   float64 `json:"spacing" bson:"spacing"`
	Threshold float64 `json:"threshold" bson:"threshold"`

	// Height is the total height covered by all rows.
	Height float64 `json:"height" bson:"height"`

	// Items counts every item seen, placed or pending.
	Items int `json:"items" bson:"items"`

	// Pending counts trailing items not yet assigned to a row.
	Pending int `json:"pending,omitempty" bson:"pending,omitempty"`

	// Score is the total row distortion of the placed rows.
	Score float64 `json:"score" bson:"score"`

	Rows []Row `json:"rows" bson:"rows"`

	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Row is one justified row of items.
type Row struct {
	Index  int     `json:"index" bson:"index"`
	Start  int     `json:"start" bson:"start"`
	End    int     `json:"end" bson:"end"`
	Top    float64 `json:"top" bson:"top"`
	Height float64 `json:"height" bson:"height"`
	Tiles  []Tile  `json:"tiles,omitempty" bson:"tiles,omitempty"`
}

// Bottom returns the offset just below the row.
func (r Row) Bottom() float64 { return r.Top + r.Height }

// Tile is the horizontal placement of a single item within its row.
type Tile struct {
	ID          string  `json:"id" bson:"id"`
	Index       int     `json:"index" bson:"index"`
	AspectRatio float64 `json:"aspect_ratio" bson:"aspect_ratio"`
	Left        float64 `json:"left" bson:"left"`
	Width       float64 `json:"width" bson:"width"`
}

// Placed returns the number of items assigned to rows.
func (l *Layout) Placed() int {
	if len(l.Rows) == 0 {
		return 0
	}
	return l.Rows[len(l.Rows)-1].End
}

// RowAt returns the row nearest to vertical offset y and the signed distance
// from its top. The boolean is false for a layout without rows.
func (l *Layout) RowAt(y float64) (Row, float64, bool) {
	m, ok := closest.Find(l.Rows, y, func(r Row) float64 { return r.Top })
	if !ok {
		return Row{}, 0, false
	}
	return l.Rows[m.Index], m.Delta, true
}

// Validate checks that rows are contiguous, start at item 0, and have
// non-decreasing tops.
func (l *Layout) Validate() error {
	next := 0
	prevTop := 0.0
	for i, r := range l.Rows {
		if r.Start != next {
			return fmt.Errorf("row %d starts at item %d, want %d", i, r.Start, next)
		}
		if r.End <= r.Start {
			return fmt.Errorf("row %d is empty (%d-%d)", i, r.Start, r.End)
		}
		if i > 0 && r.Top < prevTop {
			return fmt.Errorf("row %d top %v is above previous row top %v", i, r.Top, prevTop)
		}
		next, prevTop = r.End, r.Top
	}
	if next > l.Items {
		return fmt.Errorf("rows cover %d items but layout has %d", next, l.Items)
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates the rows.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
