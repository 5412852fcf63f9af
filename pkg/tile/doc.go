// Package tile computes justified row breaks for media grids.
//
// # Overview
//
// Given the aspect ratios of an ordered sequence of items and a row
// threshold (the aggregate aspect ratio a full-width row should reach),
// [Tile] returns the breakpoints that partition the items into rows with the
// least total distortion. This is the layout used by photo grids where every
// row spans the full width and row heights vary slightly to absorb the
// difference.
//
// # Scoring
//
// Each candidate row [start, end) is scored by how far its aggregate aspect
// ratio is from the threshold:
//
//	delta = threshold - sum(items[start:end])
//	score = (1 + |delta|)^3
//
// Only rows that are not under-full (delta <= 0) are candidates. The cubic
// penalty strongly prefers several slightly imperfect rows over one extreme
// row.
//
// # Modes
//
//   - Strict (remainder = false): the partition always covers every item.
//     The search picks the best-scoring path that reaches the last item.
//   - Remainder (remainder = true): trailing items may be left unassigned
//     when that yields a lower score. Grids that stream pages use this mode
//     so an under-full last row can wait for more items.
//
// # Usage
//
//	breaks, err := tile.Tile([]float64{1, 1, 1, 1}, 2, false)
//	// breaks == []int{2, 4}
//	for _, span := range tile.Spans(breaks) {
//	    fmt.Println(span.Start, span.End)
//	}
//
// Every call owns its own cost cache; nothing is shared between calls, so
// Tile is safe to call from multiple goroutines on distinct inputs.
package tile
