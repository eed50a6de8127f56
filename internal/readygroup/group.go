// Package readygroup implements the Ready Group: the set of row buckets
// whose requests all become ready on the same target cycle.
package readygroup

import (
	"sort"

	"github.com/memsim/rowopen/internal/bucket"
	"github.com/memsim/rowopen/request"
	"github.com/memsim/rowopen/rowcoord"
)

// Counters is the subset of the facade's statistics a Group mutates
// while adding requests. It is passed by pointer so callers keep a
// single source of truth for the monotonic counters.
type Counters struct {
	RequestsAdded      *uint64
	DuplicatesDetected *uint64
	ConfidenceUpdates  *uint64
}

// Group maps row coordinate to row bucket for every request ready at one
// cycle. Every bucket it holds contains only requests whose ready cycle
// equals the Group's own ReadyCycle (invariant I4).
type Group struct {
	ReadyCycle request.Cycle
	rows       map[rowcoord.Coordinate]*bucket.Bucket
	order      []rowcoord.Coordinate // insertion order, for deterministic iteration
}

// New creates an empty ready group for readyCycle.
func New(readyCycle request.Cycle) *Group {
	return &Group{
		ReadyCycle: readyCycle,
		rows:       make(map[rowcoord.Coordinate]*bucket.Bucket),
	}
}

// Empty reports whether the group holds no rows.
func (g *Group) Empty() bool {
	return len(g.rows) == 0
}

// Len returns the total number of requests across all rows in the group.
func (g *Group) Len() int {
	n := 0
	for _, b := range g.rows {
		n += b.Len()
	}
	return n
}

// Add inserts req under row's bucket, creating the bucket if this is its
// first request, or coalescing into an existing block-equal member.
func (g *Group) Add(row rowcoord.Coordinate, req request.Request, blockNumber func(rowcoord.Address) uint64, weights bucket.ScoreWeights, counters Counters) bucket.AddResult {
	b, ok := g.rows[row]
	if !ok {
		b = bucket.New(row)
		g.rows[row] = b
		g.order = append(g.order, row)
	}

	result := b.Add(req, blockNumber, weights)
	switch {
	case result.Coalesced:
		*counters.DuplicatesDetected++
		if result.ConfidenceRaised {
			*counters.ConfidenceUpdates++
		}
	default:
		*counters.RequestsAdded++
	}
	return result
}

// RemoveRow drops row's bucket entirely (used once a bucket empties out
// after a successful issue).
func (g *Group) RemoveRow(row rowcoord.Coordinate) {
	delete(g.rows, row)
	for i, r := range g.order {
		if r == row {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Bucket returns the bucket for row, if any.
func (g *Group) Bucket(row rowcoord.Coordinate) (*bucket.Bucket, bool) {
	b, ok := g.rows[row]
	return b, ok
}

// Buckets returns every non-empty bucket in the group in a stable order:
// insertion order of the row first seen, which is the deterministic
// tie-break the planner's stable sort relies on.
func (g *Group) Buckets() []*bucket.Bucket {
	out := make([]*bucket.Bucket, 0, len(g.order))
	for _, row := range g.order {
		if b, ok := g.rows[row]; ok && !b.Empty() {
			out = append(out, b)
		}
	}
	return out
}

// SortedRows returns the group's row coordinates ordered by
// rowcoord.Coordinate.Less, used only for diagnostics/tests that need a
// canonical ordering independent of insertion order.
func (g *Group) SortedRows() []rowcoord.Coordinate {
	rows := make([]rowcoord.Coordinate, 0, len(g.rows))
	for r := range g.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Less(rows[j]) })
	return rows
}
