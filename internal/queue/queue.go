// Package queue implements the Scheduler Queue: the ordered mapping from
// target-ready cycle to Ready Group, capped at a total request count.
package queue

import (
	"sort"

	"github.com/memsim/rowopen/internal/readygroup"
	"github.com/memsim/rowopen/request"
)

// Queue owns every Ready Group, keyed by ready cycle, and tracks total
// occupancy against a fixed capacity. Iteration is always in ascending
// cycle order (invariant I7); there is no bounded-capacity ordered map in
// the standard library, so a sorted key slice stands in for one.
type Queue struct {
	groups   map[request.Cycle]*readygroup.Group
	capacity int
	count    int
}

// New creates an empty queue with the given capacity.
func New(capacity int) *Queue {
	return &Queue{
		groups:   make(map[request.Cycle]*readygroup.Group),
		capacity: capacity,
	}
}

// Capacity returns the configured maximum request count.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Size returns the total number of requests currently queued.
func (q *Queue) Size() int {
	return q.count
}

// Full reports whether the queue is at capacity.
func (q *Queue) Full() bool {
	return q.count >= q.capacity
}

// GroupFor returns the group for readyCycle, creating it if absent.
func (q *Queue) GroupFor(readyCycle request.Cycle) *readygroup.Group {
	g, ok := q.groups[readyCycle]
	if !ok {
		g = readygroup.New(readyCycle)
		q.groups[readyCycle] = g
	}
	return g
}

// NoteAdded records that one more request entered the queue. Callers
// must check Full before adding; NoteAdded does not itself enforce
// capacity.
func (q *Queue) NoteAdded() {
	q.count++
}

// NoteRemoved records that n requests left the queue, whether issued,
// pruned, or otherwise retired.
func (q *Queue) NoteRemoved(n int) {
	q.count -= n
}

// RemoveGroup drops an empty or expired group entirely.
func (q *Queue) RemoveGroup(readyCycle request.Cycle) {
	delete(q.groups, readyCycle)
}

// SortedCycles returns every group's ready cycle in ascending order,
// the iteration order invariant I7 requires.
func (q *Queue) SortedCycles() []request.Cycle {
	cycles := make([]request.Cycle, 0, len(q.groups))
	for c := range q.groups {
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i] < cycles[j] })
	return cycles
}

// Group returns the group at readyCycle, if any, without creating it.
func (q *Queue) Group(readyCycle request.Cycle) (*readygroup.Group, bool) {
	g, ok := q.groups[readyCycle]
	return g, ok
}

// Clear drops every group, resetting occupancy to zero but preserving
// capacity.
func (q *Queue) Clear() {
	q.groups = make(map[request.Cycle]*readygroup.Group)
	q.count = 0
}
