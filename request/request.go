// Package request defines the speculative prefetch request value type
// carried through the scheduler's queue.
package request

import "github.com/memsim/rowopen/rowcoord"

// Cycle is a simulated clock tick.
type Cycle uint64

// Request is the immutable tuple the prefetcher hands to the scheduler:
// a candidate address, the predictor's confidence in it, opaque metadata
// the host round-trips back out through the issue callback, the cycle it
// was observed, and how many cycles must pass before it is ready.
type Request struct {
	Addr       rowcoord.Address
	Confidence uint32
	Metadata   uint64
	InsertedAt Cycle
	ReadyDelay Cycle
}

// ReadyAt is the cycle this request becomes issuable.
func (r Request) ReadyAt() Cycle {
	return r.InsertedAt + r.ReadyDelay
}

// BlockEqual reports whether two requests address the same cache block,
// as determined by the given block-number function (normally
// rowcoord.AddressMapper.BlockNumber). Confidence, metadata, and timing
// are irrelevant to block equality.
func BlockEqual(a, b Request, blockNumber func(rowcoord.Address) uint64) bool {
	return blockNumber(a.Addr) == blockNumber(b.Addr)
}
