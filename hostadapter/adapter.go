// Package hostadapter glues the scheduler into a cycle-driven host: a
// ticking component that accepts candidate addresses on an inbound port
// and drains the scheduler's issue planner against a downstream port,
// the same role berti_tri.cc's prefetcher_cycle_operate plays against
// the C++ scheduler.
package hostadapter

import (
	"log"

	"github.com/rs/xid"

	"github.com/memsim/rowopen"
	"github.com/memsim/rowopen/internal/engine"
	"github.com/memsim/rowopen/request"
	"github.com/memsim/rowopen/rowcoord"
)

// Candidate is the message a prefetcher sends on the inbound port: an
// address and confidence to schedule, plus how many cycles until it
// becomes ready.
type Candidate struct {
	ID         string
	Addr       uint64
	Confidence uint32
	Metadata   uint64
	ReadyDelay uint64
}

// Issue is the message forwarded to the downstream port once the
// planner selects a request to dispatch.
type Issue struct {
	ID         string
	Addr       uint64
	Confidence uint32
	Metadata   uint64
}

// Comp is a ticking component (engine.Ticker) wrapping a *rowopen.Scheduler.
// Each tick it drains every pending Candidate into AddRequest, then
// computes an issue budget as a fraction of the downstream port's free
// slots and calls Scheduler.Tick once, forwarding chosen requests onto
// the downstream port.
type Comp struct {
	name      string
	sched     *rowopen.Scheduler
	inbound   *engine.Port
	downstream *engine.Port
	bwFraction float64
}

// NewComp builds a host adapter named name, wrapping sched, reading
// candidates from inbound, and issuing onto downstream. bwFraction is
// the share of downstream's free slots the adapter is allowed to spend
// on speculative row-opens each tick (berti_tri's DRAM_WARM_BW_FRACTION).
func NewComp(name string, sched *rowopen.Scheduler, inbound, downstream *engine.Port, bwFraction float64) *Comp {
	return &Comp{
		name:       name,
		sched:      sched,
		inbound:    inbound,
		downstream: downstream,
		bwFraction: bwFraction,
	}
}

// Tick implements engine.Ticker. It runs the ingress phase (drain
// inbound candidates into the scheduler) then the issue phase (tick the
// scheduler against a budget sized off downstream's free capacity),
// chaining their "made progress" results the way mem/dram.middleware.Tick
// ORs its own sub-phase booleans.
func (c *Comp) Tick(now uint64) bool {
	ingress := c.ingress(now)
	issue := c.issue(now)
	return ingress || issue
}

func (c *Comp) ingress(now uint64) bool {
	progressed := false
	for {
		msg, ok := c.inbound.Retrieve()
		if !ok {
			break
		}
		candidate, ok := msg.(Candidate)
		if !ok {
			log.Printf("%s: dropping malformed inbound message %v", c.name, msg)
			continue
		}
		outcome := c.sched.AddRequest(request.Request{
			Addr:       rowcoord.Address(candidate.Addr),
			Confidence: candidate.Confidence,
			Metadata:   candidate.Metadata,
		}, request.Cycle(now), request.Cycle(candidate.ReadyDelay))
		if outcome == rowopen.DroppedFull {
			log.Printf("%s: dropped candidate %s, queue full", c.name, candidate.ID)
		}
		progressed = true
	}
	return progressed
}

func (c *Comp) issue(now uint64) bool {
	budget := c.issueBudget()
	if budget == 0 {
		return false
	}

	issuedAny := false
	c.sched.Tick(request.Cycle(now), budget, func(req request.Request) bool {
		if !c.downstream.CanSend() {
			return false
		}
		err := c.downstream.Send(Issue{
			ID:         xid.New().String(),
			Addr:       uint64(req.Addr),
			Confidence: req.Confidence,
			Metadata:   req.Metadata,
		})
		if err != nil {
			return false
		}
		issuedAny = true
		return true
	})
	return issuedAny
}

// issueBudget applies bwFraction to the downstream port's current free
// slots, floored at one whenever downstream has any room at all —
// mirroring berti_tri's max(1, available_pq_slots * DRAM_WARM_BW_FRACTION).
func (c *Comp) issueBudget() int {
	free := c.downstream.FreeSlots()
	if free <= 0 {
		return 0
	}
	budget := int(float64(free) * c.bwFraction)
	if budget < 1 {
		budget = 1
	}
	if budget > free {
		budget = free
	}
	return budget
}
