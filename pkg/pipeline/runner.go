package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spotlight/pkg/cache"
	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/grid"
	"github.com/matzehuels/spotlight/pkg/layout"
	"github.com/matzehuels/spotlight/pkg/observability"
	"github.com/matzehuels/spotlight/pkg/source"
	"github.com/matzehuels/spotlight/pkg/tile"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute streams every page from pager into a grid and exports the layout.
// Streaming results are not cached; use LayoutWithCacheInfo for that.
func (r *Runner) Execute(ctx context.Context, pager source.Pager, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	pages := 0
	onPage := opts.OnPage
	opts.OnPage = func(page int, rows []grid.Row) {
		pages++
		if onPage != nil {
			onPage(page, rows)
		}
	}

	g, err := r.Stream(ctx, pager, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Layout: g.Export()}
	result.Stats = Stats{
		Items:      len(g.Items()),
		Rows:       g.Len(),
		Pending:    g.Pending(),
		Pages:      pages,
		LayoutTime: time.Since(start),
	}

	r.Logger.Info("computed layout",
		"items", result.Stats.Items,
		"rows", result.Stats.Rows,
		"pending", result.Stats.Pending,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Stream pulls pages from pager, starting at page 0, until a page has no
// next link, appending each to a new grid. When opts.Final is set the last
// page is appended in strict mode so every item is placed. The context is
// checked between pages.
func (r *Runner) Stream(ctx context.Context, pager source.Pager, opts Options) (*grid.Grid, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	g, err := grid.New(opts.GridConfig(), grid.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	page := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := pager.Page(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		last := p.Next == nil
		rows, err := g.Append(p.Items, last && opts.Final)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if opts.OnPage != nil {
			opts.OnPage(page, rows)
		}

		if last {
			return g, nil
		}
		if *p.Next <= page {
			return nil, errors.New(errors.ErrCodeInvalidInput, "page %d links back to page %d", page, *p.Next)
		}
		page = *p.Next
	}
}

// LayoutWithCacheInfo lays out items with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, items []grid.Item, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, false, err
	}

	itemsData, err := json.Marshal(items)
	if err != nil {
		return layout.Layout{}, false, fmt.Errorf("serialize items for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(itemsData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(items), opts.Width)
	start := time.Now()

	g, err := r.Stream(ctx, source.NewSlice(items, opts.PageSize), opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return layout.Layout{}, false, err
	}
	l := g.Export()
	hooks.OnLayoutComplete(ctx, len(l.Rows), time.Since(start), nil)

	if data, err := layout.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Layout(ctx context.Context, items []grid.Item, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, items, opts)
	return l, err
}

// TileWithCacheInfo computes row breakpoints with caching and returns cache
// hit info.
func (r *Runner) TileWithCacheInfo(ctx context.Context, ratios []float64, threshold float64, remainder bool) ([]int, bool, error) {
	if err := errors.ValidateThreshold(threshold); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.TileKey(cache.HashFloats(ratios), cache.TileKeyOpts{
		Threshold: threshold,
		Remainder: remainder,
	})

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var breaks []int
		if err := json.Unmarshal(data, &breaks); err == nil {
			observability.Cache().OnCacheHit(ctx, "tile")
			return breaks, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "tile")

	hooks := observability.Layout()
	hooks.OnTileStart(ctx, len(ratios), threshold)
	start := time.Now()

	breaks, err := tile.Tile(ratios, threshold, remainder)
	hooks.OnTileComplete(ctx, len(breaks), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(breaks); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTile); err == nil {
			observability.Cache().OnCacheSet(ctx, "tile", len(data))
		}
	}

	return breaks, false, nil
}

// Tile is a convenience wrapper that calls TileWithCacheInfo and discards the
// cache hit info.
func (r *Runner) Tile(ctx context.Context, ratios []float64, threshold float64, remainder bool) ([]int, error) {
	breaks, _, err := r.TileWithCacheInfo(ctx, ratios, threshold, remainder)
	return breaks, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
