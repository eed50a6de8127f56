// Package bucket implements the Row Bucket: the mutable aggregate of
// pending requests that share a DRAM row.
package bucket

import (
	"github.com/memsim/rowopen/request"
	"github.com/memsim/rowopen/rowcoord"
)

// ScoreWeights bundles the configuration knobs the score function needs.
// It is passed in rather than embedded so a Bucket has no configuration
// dependency of its own.
type ScoreWeights struct {
	DensityWeight  float64
	ConfWeight     float64
	MaxConfidence  uint32
	RowBufferSize  int
}

// Bucket aggregates the pending requests that target one DRAM row. All
// members share Row (invariant), no two members are block-equal
// (invariant, enforced by Add), and Score reflects exactly the current
// members under the last weights passed to Add.
type Bucket struct {
	Row      rowcoord.Coordinate
	requests []request.Request
	score    float64
	weights  ScoreWeights
	accessed bool
}

// New creates an empty bucket for row.
func New(row rowcoord.Coordinate) *Bucket {
	return &Bucket{Row: row}
}

// Len returns the number of requests currently held.
func (b *Bucket) Len() int {
	return len(b.requests)
}

// Empty reports whether the bucket holds no requests.
func (b *Bucket) Empty() bool {
	return len(b.requests) == 0
}

// Score returns the last computed priority score.
func (b *Bucket) Score() float64 {
	return b.score
}

// Accessed reports whether MarkAccessed has been called on this bucket.
// The scheduler itself never calls MarkAccessed.
func (b *Bucket) Accessed() bool {
	return b.accessed
}

// MarkAccessed records that a downstream demand hit this row. It is
// idempotent.
func (b *Bucket) MarkAccessed() {
	b.accessed = true
}

// AddResult reports what Add did to the bucket.
type AddResult struct {
	Coalesced        bool
	ConfidenceRaised bool
}

// Add inserts req, or coalesces it into an existing block-equal member.
// On coalescing, req's confidence and metadata monotonically upgrade the
// existing member only if req.Confidence is strictly greater. The score
// is recomputed in every case (append or upgrade), matching
// DramRow::add_prefetch and DramRow::calculate_score.
func (b *Bucket) Add(req request.Request, blockNumber func(rowcoord.Address) uint64, weights ScoreWeights) AddResult {
	for i := range b.requests {
		if request.BlockEqual(b.requests[i], req, blockNumber) {
			raised := false
			if req.Confidence > b.requests[i].Confidence {
				b.requests[i].Confidence = req.Confidence
				b.requests[i].Metadata = req.Metadata
				raised = true
			}
			b.recompute(weights)
			return AddResult{Coalesced: true, ConfidenceRaised: raised}
		}
	}
	b.requests = append(b.requests, req)
	b.recompute(weights)
	return AddResult{}
}

// Remove deletes the request at index i, preserving the relative order
// of the remaining members (insertion order matters for tie-breaking),
// and recomputes the score under the last weights passed to Add.
func (b *Bucket) Remove(i int) {
	b.requests = append(b.requests[:i], b.requests[i+1:]...)
	b.recompute(b.weights)
}

// Requests returns the bucket's members in insertion order. Callers must
// not mutate the returned slice.
func (b *Bucket) Requests() []request.Request {
	return b.requests
}

// HighestConfidence returns the index and value of the member with the
// greatest confidence, ties broken by earliest insertion. It panics if
// the bucket is empty; callers must check Empty first.
func (b *Bucket) HighestConfidence() (int, request.Request) {
	best := 0
	for i := 1; i < len(b.requests); i++ {
		if b.requests[i].Confidence > b.requests[best].Confidence {
			best = i
		}
	}
	return best, b.requests[best]
}

// recompute applies the scoring formula: density_w * density +
// conf_w * mean_confidence_normalised.
func (b *Bucket) recompute(w ScoreWeights) {
	b.weights = w
	if len(b.requests) == 0 {
		b.score = 0
		return
	}
	density := float64(len(b.requests)) / float64(w.RowBufferSize)
	if density > 1 {
		density = 1
	}

	var sumConf float64
	for _, r := range b.requests {
		sumConf += float64(r.Confidence)
	}
	meanConf := sumConf / float64(len(b.requests))
	meanConfNorm := meanConf / float64(w.MaxConfidence)
	if meanConfNorm > 1 {
		meanConfNorm = 1
	}
	if meanConfNorm < 0 {
		meanConfNorm = 0
	}

	b.score = w.DensityWeight*density + w.ConfWeight*meanConfNorm
}
