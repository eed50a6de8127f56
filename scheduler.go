// Package rowopen implements the DRAM row-open speculative prefetch
// scheduler: it queues candidate addresses by DRAM row, and at a
// controlled rate issues speculative row-open requests against a
// host-supplied Issue Sink so that a later demand access can land as a
// row-buffer hit.
package rowopen

import (
	"github.com/memsim/rowopen/internal/bucket"
	"github.com/memsim/rowopen/internal/planner"
	"github.com/memsim/rowopen/internal/queue"
	"github.com/memsim/rowopen/internal/readygroup"
	"github.com/memsim/rowopen/request"
	"github.com/memsim/rowopen/rowcoord"
	"github.com/memsim/rowopen/stats"
)

// Scheduler is the public facade (C9). It owns its queue, statistics,
// and optional row-access history exclusively; the Address-Mapping
// Oracle passed in through Config is held only by borrow.
type Scheduler struct {
	cfg     Config
	q       *queue.Queue
	s       stats.Stats
	history *stats.RowAccessHistogram
}

// New constructs a Scheduler from cfg. cfg.Mapper must be non-nil.
func New(cfg Config) *Scheduler {
	sched := &Scheduler{
		cfg: cfg,
		q:   queue.New(cfg.Capacity),
	}
	if cfg.TrackRowHistory {
		sched.history = stats.NewRowAccessHistogram()
	}
	return sched
}

func (s *Scheduler) weights() bucket.ScoreWeights {
	return bucket.ScoreWeights{
		DensityWeight: s.cfg.DensityWeight,
		ConfWeight:    s.cfg.ConfWeight,
		MaxConfidence: s.cfg.MaxConfidence,
		RowBufferSize: s.cfg.RowBufferSize,
	}
}

// AddRequest submits a candidate prefetch observed at cycle now, ready
// delay cycles later. See spec §4.1 for the full decision table.
func (s *Scheduler) AddRequest(req request.Request, now request.Cycle, delay request.Cycle) AddOutcome {
	if s.q.Full() {
		s.s.DroppedFullQueue++
		return DroppedFull
	}

	req.InsertedAt = now
	req.ReadyDelay = delay
	readyAt := now + delay

	row := s.cfg.Mapper.Map(req.Addr)
	group := s.q.GroupFor(readyAt)

	result := group.Add(row, req, s.blockNumber, s.weights(), readygroup.Counters{
		RequestsAdded:      &s.s.RequestsAdded,
		DuplicatesDetected: &s.s.DuplicatesDetected,
		ConfidenceUpdates:  &s.s.ConfidenceUpdates,
	})

	if result.Coalesced {
		return CoalescedDuplicate
	}
	s.q.NoteAdded()
	return Accepted
}

func (s *Scheduler) blockNumber(addr rowcoord.Address) uint64 {
	return s.cfg.Mapper.BlockNumber(addr)
}

// Tick executes Prune, Plan & Issue, and Cleanup for simulated cycle
// now, attempting up to budget issues through tryIssue. See spec §4.4.
func (s *Scheduler) Tick(now request.Cycle, budget int, tryIssue func(req request.Request) bool) {
	pruneCounters := planner.Counters{PrunedExpired: &s.s.PrunedExpired}
	planner.Prune(s.q, now, request.Cycle(s.cfg.Slack), pruneCounters)

	issueCounters := planner.Counters{
		IssuedSuccess:    &s.s.IssuedSuccess,
		IssueFailures:    &s.s.IssueFailures,
		TotalDelayCycles: &s.s.TotalDelayCycles,
	}

	var onIssued planner.OnIssued
	if s.history != nil {
		onIssued = func(coord rowcoord.Coordinate) {
			s.history.RecordOpen(coord.Channel, coord.Rank, coord.BankGroup, coord.Bank, coord.Row)
		}
	}

	planner.Issue(s.q, now, budget, planner.TryIssue(tryIssue), onIssued, issueCounters)
}

// Size returns the total number of requests currently queued (T1).
func (s *Scheduler) Size() int {
	return s.q.Size()
}

// Capacity returns the configured maximum request count.
func (s *Scheduler) Capacity() int {
	return s.q.Capacity()
}

// Clear drops every queued group but preserves configuration.
func (s *Scheduler) Clear() {
	s.q.Clear()
}

// ResetStats zeroes the eight counters without mutating queue state.
func (s *Scheduler) ResetStats() {
	s.s.Reset()
}

// Stats returns a snapshot of the current statistics.
func (s *Scheduler) Stats() stats.Stats {
	return s.s
}

// NoteRowAccessed records that a downstream demand access landed on
// coord, feeding the optional row-access-history extension. It is a
// no-op if row-history tracking was not enabled at construction.
func (s *Scheduler) NoteRowAccessed(coord rowcoord.Coordinate) {
	if s.history == nil {
		return
	}
	s.history.RecordAccess(coord.Channel, coord.Rank, coord.BankGroup, coord.Bank, coord.Row)
}

// RowAccessHistogram returns the optional per-row open/access history,
// or nil if row-history tracking was not enabled at construction.
func (s *Scheduler) RowAccessHistogram() *stats.RowAccessHistogram {
	return s.history
}
