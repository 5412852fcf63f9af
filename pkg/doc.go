// Package pkg provides the core libraries for the Spotlight justified grid.
//
// # Overview
//
// Spotlight lays out a stream of media items (images, videos) as rows that
// exactly fill a frame width, keeping every row close to a target height.
// Items arrive page by page; rows are built as soon as they are settled and
// never change afterwards. The pkg directory is organized into three areas:
//
//  1. Core algorithms ([tile], [closest])
//  2. Layout ([grid], [layout], [source], [pipeline])
//  3. Infrastructure ([cache], [storage], [config], [server], [observability])
//
// # Architecture
//
// The typical data flow through Spotlight:
//
//	Manifest / image directory / HTTP endpoint
//	         ↓
//	    [source] package (pages of items with aspect ratios)
//	         ↓
//	    [grid] package (tile each page, justify rows, cumulative tops)
//	         ↓
//	    [layout] package (JSON document, stored and cached)
//	         ↓
//	    [closest] lookups: scroll offset → row
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/spotlight/pkg/grid"
//	    "github.com/matzehuels/spotlight/pkg/tile"
//	)
//
//	// Breakpoints only
//	breaks, _ := tile.Tile([]float64{1.5, 0.75, 1, 1.33}, 3, false)
//
//	// Full layout
//	g, _ := grid.New(grid.Config{Width: 1200, RowHeight: 240, Spacing: 4})
//	g.Append(page1, false)
//	g.Append(page2, true)
//	row, delta, _ := g.RowAt(scrollY)
//
// # Main Packages
//
// ## Core Algorithms
//
// [tile] - Partitions a sequence of aspect ratios into rows by searching for
// the partition with the lowest total distortion. In remainder mode an
// under-full trailing row is left unplaced so the next page can complete it.
//
// [closest] - Binary search over row tops for the row nearest to a vertical
// offset.
//
// ## Layout
//
// [grid] - Streaming justified layout. Turns breakpoints into rows with a
// height, a top offset and the horizontal placement of every item.
//
// [layout] - Serialization format for laid-out grids, shared by the CLI, the
// HTTP API, the cache and the snapshot stores.
//
// [source] - Pagers over in-memory slices and HTTP endpoints, plus loaders for
// JSON/YAML manifests and image directories.
//
// [pipeline] - Streams pages into a grid with caching. Used by the CLI and the
// HTTP API so both behave the same.
//
// ## Infrastructure
//
// [cache] - Key-value cache for breakpoints and layouts with file, Redis and
// null backends.
//
// [storage] - Snapshot stores for layouts: file, MongoDB and in-memory.
//
// [config] - TOML configuration for frame defaults and backends.
//
// [server] - HTTP API built on chi.
//
// [observability] - Hooks for layout, cache and HTTP events.
//
// [errors] - Structured errors with machine-readable codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/tile/...     # Specific package
//	go test -run Example       # Examples only
//
// [tile]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/tile
// [closest]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/closest
// [grid]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/layout
// [source]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/source
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/storage
// [config]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/spotlight/pkg/errors
package pkg
