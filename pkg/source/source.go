// Package source supplies pages of media items to the grid.
//
// A [Pager] returns numbered pages with links to the neighbouring pages, the
// shape a paginated backend query produces. [Slice] pages over items already
// in memory; [ReadManifest] and [ScanImages] load items from a manifest file
// or an image directory.
package source

import (
	"context"
	"os"

	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/grid"
)

// DefaultPageSize is the number of items per page.
const DefaultPageSize = 20

// Page is one page of items. Next and Previous are nil at the ends.
type Page struct {
	Items    []grid.Item `json:"items"`
	Next     *int        `json:"next"`
	Previous *int        `json:"previous"`
}

// Pager fetches pages by number, starting at 0.
type Pager interface {
	Page(ctx context.Context, page int) (Page, error)
}

// Slice pages over an in-memory item list.
type Slice struct {
	items []grid.Item
	size  int
}

// NewSlice returns a pager over items. A non-positive size uses
// DefaultPageSize.
func NewSlice(items []grid.Item, size int) *Slice {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Slice{items: items, size: size}
}

// Len returns the total number of items.
func (s *Slice) Len() int { return len(s.items) }

// Page returns page number page. Pages past the end are empty.
func (s *Slice) Page(ctx context.Context, page int) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if page < 0 {
		return Page{}, errors.New(errors.ErrCodeInvalidInput, "page must not be negative, received %d", page)
	}

	start := min(page*s.size, len(s.items))
	end := min(start+s.size, len(s.items))

	p := Page{Items: s.items[start:end]}
	if end < len(s.items) {
		next := page + 1
		p.Next = &next
	}
	if page > 0 {
		prev := page - 1
		p.Previous = &prev
	}
	return p, nil
}

// Open loads items from a manifest file or, when path is a directory, from
// the images inside it.
func Open(ctx context.Context, path string) ([]grid.Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "%s does not exist", path)
		}
		return nil, err
	}
	if info.IsDir() {
		return ScanImages(ctx, path)
	}
	return ReadManifest(path)
}
