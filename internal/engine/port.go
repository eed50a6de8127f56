package engine

import "fmt"

// Port is a bounded, FIFO message channel between two components, the
// same role akita's sim.Port plays: a component sends into its own
// outbound port and receives from its own inbound port, never reaching
// directly into a peer's state.
type Port struct {
	name     string
	capacity int
	buf      []any
}

// NewPort creates a port with the given capacity. A capacity of zero
// means unbounded.
func NewPort(name string, capacity int) *Port {
	return &Port{name: name, capacity: capacity}
}

// Name returns the port's identifier, used in trace output.
func (p *Port) Name() string {
	return p.name
}

// CanSend reports whether Send would succeed right now.
func (p *Port) CanSend() bool {
	return p.capacity == 0 || len(p.buf) < p.capacity
}

// Send enqueues msg, returning an error if the port is full.
func (p *Port) Send(msg any) error {
	if !p.CanSend() {
		return fmt.Errorf("port %s: send on full port (capacity %d)", p.name, p.capacity)
	}
	p.buf = append(p.buf, msg)
	return nil
}

// Peek returns the next message without removing it, and whether one
// was available.
func (p *Port) Peek() (any, bool) {
	if len(p.buf) == 0 {
		return nil, false
	}
	return p.buf[0], true
}

// Retrieve removes and returns the next message, and whether one was
// available.
func (p *Port) Retrieve() (any, bool) {
	if len(p.buf) == 0 {
		return nil, false
	}
	msg := p.buf[0]
	p.buf = p.buf[1:]
	return msg, true
}

// Len returns the number of messages currently buffered.
func (p *Port) Len() int {
	return len(p.buf)
}

// FreeSlots returns how many more messages the port can buffer before
// Send starts failing. An unbounded port reports a large sentinel
// rather than a literal infinity, since callers use this to size issue
// budgets.
func (p *Port) FreeSlots() int {
	if p.capacity == 0 {
		return int(^uint(0) >> 1)
	}
	return p.capacity - len(p.buf)
}
