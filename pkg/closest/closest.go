// Package closest resolves a vertical offset to the nearest laid-out row.
//
// Virtualized grids know the top offset of every row but render only the
// rows in view. When the viewport scrolls or jumps, [Find] answers "which
// row is at offset y" with a binary search over row tops, calling the top
// accessor O(log n) times.
//
//	m, ok := closest.Find(rows, scrollY, func(r Row) float64 { return r.Top })
//	if ok {
//	    first := rows[m.Index] // m.Delta is scrollY - first.Top
//	}
package closest

import "math"

// Match identifies the row selected for a target offset.
type Match struct {
	// Index is the position of the row in the searched slice.
	Index int
	// Delta is target minus the row's top. Negative when the target lies
	// above the row.
	Delta float64
}

// Find returns the row whose top is nearest to target. Rows must be sorted
// by ascending top.
//
// Targets before the first row resolve to the first row (negative delta);
// targets past the last row's top resolve to the last row. Between two
// adjacent rows the one with the smaller absolute delta wins, with ties going
// to the later row. The boolean is false only when rows is empty.
func Find[R any](rows []R, target float64, top func(R) float64) (Match, bool) {
	return FindIn(rows, target, top, 0, len(rows)-1)
}

// FindIn is like [Find] but restricts the search to rows[lo:hi+1]. Bounds
// outside the slice are clamped; an empty window reports false.
func FindIn[R any](rows []R, target float64, top func(R) float64, lo, hi int) (Match, bool) {
	if len(rows) == 0 {
		return Match{}, false
	}
	lo = max(lo, 0)
	hi = min(hi, len(rows)-1)
	if lo > hi {
		return Match{}, false
	}

	loDelta := target - top(rows[lo])
	if loDelta < 0 {
		return Match{Index: lo, Delta: loDelta}, true
	}
	hiDelta := target - top(rows[hi])
	if hiDelta > 0 {
		return Match{Index: hi, Delta: hiDelta}, true
	}

	// Invariant: loDelta >= 0 and hiDelta <= 0.
	for hi-lo >= 2 {
		mid := lo + (hi-lo)/2
		midDelta := target - top(rows[mid])
		switch {
		case midDelta < 0:
			hi, hiDelta = mid, midDelta
		case midDelta > 0:
			lo, loDelta = mid, midDelta
		default:
			return Match{Index: mid, Delta: midDelta}, true
		}
	}

	if math.Abs(loDelta) < math.Abs(hiDelta) {
		return Match{Index: lo, Delta: loDelta}, true
	}
	return Match{Index: hi, Delta: hiDelta}, true
}
