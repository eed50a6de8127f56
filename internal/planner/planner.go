// Package planner implements the Issue Planner: the per-tick selection
// and dispatch algorithm that prunes expired groups, scores and sorts
// candidates, enforces bank/channel/rank balancing, and drives the host
// Issue Sink.
package planner

import (
	"sort"

	"github.com/memsim/rowopen/internal/bucket"
	"github.com/memsim/rowopen/internal/queue"
	"github.com/memsim/rowopen/internal/usage"
	"github.com/memsim/rowopen/request"
	"github.com/memsim/rowopen/rowcoord"
)

// TryIssue is the host-provided Issue Sink: it attempts to dispatch req
// to the DRAM controller and reports whether the controller accepted it.
// It must not reenter the scheduler and must not suspend.
type TryIssue func(req request.Request) bool

// OnIssued is invoked once per successful issue, after bookkeeping, so
// the facade can feed the optional row-access-history extension without
// the planner needing to know about it.
type OnIssued func(coord rowcoord.Coordinate)

// Counters is the subset of the facade's statistics the planner mutates.
type Counters struct {
	PrunedExpired    *uint64
	IssuedSuccess    *uint64
	IssueFailures    *uint64
	TotalDelayCycles *uint64
}

// candidate pairs a row's bucket with its coordinate and last score, the
// same triple the original source's RowCandidate holds.
type candidate struct {
	row    rowcoord.Coordinate
	bucket *bucket.Bucket
	score  float64
	order  int // position in the group's stable iteration order
}

// Prune drops every group whose ready cycle is far enough in the past
// that now has moved beyond its slack window (Phase P1). Groups merely
// past their ready cycle but still within slack are left untouched.
func Prune(q *queue.Queue, now request.Cycle, slack request.Cycle, counters Counters) {
	for _, cycle := range q.SortedCycles() {
		if now <= cycle+slack {
			continue
		}
		g, ok := q.Group(cycle)
		if !ok {
			continue
		}
		n := g.Len()
		if n > 0 {
			*counters.PrunedExpired += uint64(n)
			q.NoteRemoved(n)
		}
		q.RemoveGroup(cycle)
	}
}

// Issue runs Phase P2: plan and issue, against every ready group in
// ascending cycle order, up to budget successful issues.
func Issue(q *queue.Queue, now request.Cycle, budget int, tryIssue TryIssue, onIssued OnIssued, counters Counters) {
	if budget <= 0 {
		return
	}

	issued := 0
	tracker := usage.New()

	for _, cycle := range q.SortedCycles() {
		if cycle > now {
			continue
		}
		g, ok := q.Group(cycle)
		if !ok {
			continue
		}

		candidates := buildCandidates(g)
		skipped := make(map[rowcoord.Coordinate]bool)

		for issued < budget {
			c, ok := selectCandidate(candidates, skipped, tracker)
			if !ok {
				break
			}

			idx, req := c.bucket.HighestConfidence()
			if tryIssue(req) {
				*counters.IssuedSuccess++
				*counters.TotalDelayCycles += uint64(now - cycle)
				tracker.Record(c.row)
				if onIssued != nil {
					onIssued(c.row)
				}

				c.bucket.Remove(idx)
				q.NoteRemoved(1)
				if c.bucket.Empty() {
					g.RemoveRow(c.row)
					skipped[c.row] = true
				}
				issued++
			} else {
				*counters.IssueFailures++
				skipped[c.row] = true
			}
		}

		if g.Empty() {
			q.RemoveGroup(cycle)
		}
		if issued >= budget {
			break
		}
	}
}

// buildCandidates snapshots a group's non-empty buckets with their
// current score and stable insertion order, matching the original
// source's one-candidate-per-non-empty-row construction.
func buildCandidates(g interface {
	Buckets() []*bucket.Bucket
}) []candidate {
	buckets := g.Buckets()
	candidates := make([]candidate, 0, len(buckets))
	for i, b := range buckets {
		candidates = append(candidates, candidate{
			row:    b.Row,
			bucket: b,
			score:  b.Score(),
			order:  i,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}

// selectCandidate picks the candidate whose bank is not already busy
// this tick, minimising (channel-count, rank-count) lexicographically
// among such candidates, breaking further ties by score (already
// reflected in candidates' sorted order) and then by insertion order.
func selectCandidate(candidates []candidate, skipped map[rowcoord.Coordinate]bool, tracker *usage.Tracker) (candidate, bool) {
	best := -1
	for i, c := range candidates {
		if skipped[c.row] {
			continue
		}
		if tracker.BankInUse(c.row) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		if better(c, candidates[best], tracker) {
			best = i
		}
	}
	if best == -1 {
		return candidate{}, false
	}
	return candidates[best], true
}

// better reports whether a should be preferred over the current best
// under the channel/rank-balancing policy.
func better(a, b candidate, tracker *usage.Tracker) bool {
	aCh, bCh := tracker.ChannelCount(a.row.Channel), tracker.ChannelCount(b.row.Channel)
	if aCh != bCh {
		return aCh < bCh
	}
	aRk, bRk := tracker.RankCount(a.row.Rank), tracker.RankCount(b.row.Rank)
	if aRk != bRk {
		return aRk < bRk
	}
	if a.score != b.score {
		return a.score > b.score
	}
	return a.order < b.order
}
