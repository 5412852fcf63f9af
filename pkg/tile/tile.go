package tile

import (
	"math"

	"github.com/matzehuels/spotlight/pkg/errors"
)

// Span is a half-open range [Start, End) of item indices laid out as one row.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of items in the span.
func (s Span) Len() int { return s.End - s.Start }

// rowCost is the memoized evaluation of one candidate row.
type rowCost struct {
	aggregate float64
	delta     float64
	score     float64
}

// node is the best partial partition found so far ending at an item index.
type node struct {
	parent int
	score  float64
	length int
}

// tiler holds the per-call search state. It is discarded when Tile returns.
type tiler struct {
	items     []float64
	threshold float64
	costs     map[Span]rowCost
	nodes     []*node
}

// Tile partitions items (aspect ratios) into justified rows and returns the
// row breakpoints in increasing order. Each consecutive pair of breakpoints,
// starting from an implicit 0, delimits one row.
//
// In strict mode the last breakpoint is always len(items). In remainder mode
// trailing items may be left out when a shorter partition scores better.
//
// Tile returns an error with code [errors.ErrCodeInvalidThreshold] when
// threshold < 1. Empty input yields an empty result.
func Tile(items []float64, threshold float64, remainder bool) ([]int, error) {
	if err := errors.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []int{}, nil
	}

	t := &tiler{
		items:     items,
		threshold: threshold,
		costs:     make(map[Span]rowCost),
		nodes:     make([]*node, len(items)+1),
	}
	t.search()
	return t.breakpoints(t.cursor(remainder), !remainder), nil
}

// row returns the cost of laying out items[start:end) as a single row.
// Aggregates are extended from the (start, end-1) entry when present so sums
// accumulate left to right.
func (t *tiler) row(start, end int) rowCost {
	key := Span{start, end}
	if c, ok := t.costs[key]; ok {
		return c
	}

	var aggregate float64
	if prev, ok := t.costs[Span{start, end - 1}]; ok {
		aggregate = prev.aggregate + t.items[end-1]
	} else {
		for _, ar := range t.items[start:end] {
			aggregate += ar
		}
	}

	delta := t.threshold - aggregate
	c := rowCost{
		aggregate: aggregate,
		delta:     delta,
		score:     math.Pow(1+math.Abs(delta), 3),
	}
	t.costs[key] = c
	return c
}

// search settles the best predecessor of every reachable end index.
//
// Edges only point forward, so visiting indices in ascending order means a
// node's score is final before it is expanded.
func (t *tiler) search() {
	n := len(t.items)
	t.nodes[0] = &node{parent: 0, score: t.row(0, 0).score}

	for item := 0; item < n; item++ {
		from := t.nodes[item]
		if from == nil {
			continue
		}

		base := from.score
		if item == 0 {
			base = 0
		}

		// first is the first end at which the row reaches the threshold.
		// Once items[first:end] could form a full row of its own, splitting
		// at first is strictly cheaper, so longer rows are never optimal.
		first := -1
		for end := item + 1; end <= n; end++ {
			c := t.row(item, end)
			if c.delta > 0 {
				continue
			}
			if first < 0 {
				first = end
			} else if c.aggregate-t.row(item, first).aggregate >= t.threshold {
				break
			}
			t.relax(item, end, base+c.score, from.length+1)
		}
	}
}

// relax records parent as the predecessor of end if it improves on the
// current best. Ties keep the first predecessor found.
func (t *tiler) relax(parent, end int, score float64, length int) {
	if cur := t.nodes[end]; cur != nil && cur.score <= score {
		return
	}
	t.nodes[end] = &node{parent: parent, score: score, length: length}
}

// cursor selects the end index the final partition walks back from.
func (t *tiler) cursor(remainder bool) int {
	last := len(t.nodes) - 1
	if !remainder {
		for i := last; i > 0; i-- {
			if t.nodes[i] != nil {
				return i
			}
		}
		return 0
	}

	cursor, length := -1, 0
	best := math.Inf(1)
	for i := last; i >= 0; i-- {
		nd := t.nodes[i]
		if nd == nil {
			continue
		}
		if cursor >= 0 && nd.length < length {
			break
		}
		if nd.score >= best {
			break
		}
		cursor, best, length = i, nd.score, nd.length
	}
	return cursor
}

// breakpoints walks the predecessor chain from cursor back to the root.
func (t *tiler) breakpoints(cursor int, full bool) []int {
	var result []int
	for c := cursor; c > 0; c = t.nodes[c].parent {
		result = append(result, c)
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	n := len(t.items)
	if full && (len(result) == 0 || result[len(result)-1] != n) {
		result = append(result, n)
	}
	if result == nil {
		result = []int{}
	}
	return result
}

// Spans converts breakpoints into row spans, starting from index 0.
func Spans(breakpoints []int) []Span {
	spans := make([]Span, 0, len(breakpoints))
	start := 0
	for _, end := range breakpoints {
		spans = append(spans, Span{Start: start, End: end})
		start = end
	}
	return spans
}

// RowScore returns the distortion score of laying out ratios as one row.
func RowScore(ratios []float64, threshold float64) float64 {
	var aggregate float64
	for _, ar := range ratios {
		aggregate += ar
	}
	return math.Pow(1+math.Abs(threshold-aggregate), 3)
}

// Score returns the total distortion of the partition described by
// breakpoints: the sum of the row scores. Items after the last breakpoint
// are not counted.
func Score(items []float64, breakpoints []int, threshold float64) float64 {
	var total float64
	for _, s := range Spans(breakpoints) {
		total += RowScore(items[s.Start:s.End], threshold)
	}
	return total
}
