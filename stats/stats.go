// Package stats implements the scheduler's statistics surface: the eight
// monotonic counters, their derived metrics, and a human-readable report.
package stats

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Stats holds the eight primary counters the scheduler maintains. All
// fields are exported so the facade can reset and report on them
// directly; callers outside this package should treat it as read-only
// and obtain a copy via Scheduler.Stats rather than mutating it.
type Stats struct {
	RequestsAdded      uint64
	DuplicatesDetected uint64
	ConfidenceUpdates  uint64
	DroppedFullQueue   uint64
	PrunedExpired      uint64
	IssuedSuccess      uint64
	IssueFailures      uint64
	TotalDelayCycles   uint64
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	*s = Stats{}
}

// AverageDelay returns TotalDelayCycles / IssuedSuccess, or 0 when no
// requests have been issued yet.
func (s Stats) AverageDelay() float64 {
	if s.IssuedSuccess == 0 {
		return 0
	}
	return float64(s.TotalDelayCycles) / float64(s.IssuedSuccess)
}

// IssueSuccessRate returns IssuedSuccess / (IssuedSuccess + IssueFailures),
// or 0 when no issues have been attempted yet.
func (s Stats) IssueSuccessRate() float64 {
	attempts := s.IssuedSuccess + s.IssueFailures
	if attempts == 0 {
		return 0
	}
	return float64(s.IssuedSuccess) / float64(attempts)
}

// TotalAttemptedIssues is IssuedSuccess + IssueFailures.
func (s Stats) TotalAttemptedIssues() uint64 {
	return s.IssuedSuccess + s.IssueFailures
}

// Report renders a human-readable, column-aligned summary, grouped the
// way the original scheduler's print() method groups its fields: request
// lifecycle, queue outcomes, duplicates, and issuance attempts.
func (s Stats) Report(name string, stillQueued uint64) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "%s statistics:\n", name)
	fmt.Fprintf(w, "Request Lifecycle:\n")
	fmt.Fprintf(w, "  requests added:\t%d\n", s.RequestsAdded)
	fmt.Fprintf(w, "  still queued:\t%d\n", stillQueued)
	fmt.Fprintf(w, "  issued success:\t%d\n", s.IssuedSuccess)
	fmt.Fprintf(w, "  pruned expired:\t%d\n", s.PrunedExpired)
	fmt.Fprintf(w, "Queue Results:\n")
	fmt.Fprintf(w, "  dropped (full queue):\t%d\n", s.DroppedFullQueue)
	fmt.Fprintf(w, "Duplicates:\n")
	fmt.Fprintf(w, "  duplicates detected:\t%d\n", s.DuplicatesDetected)
	fmt.Fprintf(w, "  confidence updates:\t%d\n", s.ConfidenceUpdates)
	fmt.Fprintf(w, "Issuance Attempts:\n")
	fmt.Fprintf(w, "  issue failures:\t%d\n", s.IssueFailures)
	fmt.Fprintf(w, "  total attempted issues:\t%d\n", s.TotalAttemptedIssues())
	fmt.Fprintf(w, "  issue success rate:\t%.2f%%\n", s.IssueSuccessRate()*100)
	fmt.Fprintf(w, "  avg delay (cycles):\t%.2f\n", s.AverageDelay())
	fmt.Fprintf(w, "  total delay cycles:\t%d\n", s.TotalDelayCycles)

	w.Flush()
	return buf.String()
}
