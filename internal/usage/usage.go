// Package usage implements the Usage Tracker: transient per-tick
// counters of channels and ranks used, and banks occupied, consulted by
// the issue planner to keep a single tick from serialising behind one
// bank's activation time.
package usage

import "github.com/memsim/rowopen/rowcoord"

// Tracker is discarded at the end of every tick; it holds no state
// across ticks.
type Tracker struct {
	channelUsage map[int]int
	rankUsage    map[int]int
	bankBusy     map[bankKey]bool
}

type bankKey struct {
	channel, rank, bankGroup, bank int
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		channelUsage: make(map[int]int),
		rankUsage:    make(map[int]int),
		bankBusy:     make(map[bankKey]bool),
	}
}

// Record notes that a request targeting coord was issued this tick.
func (t *Tracker) Record(coord rowcoord.Coordinate) {
	t.channelUsage[coord.Channel]++
	t.rankUsage[coord.Rank]++
	t.bankBusy[bankOf(coord)] = true
}

// ChannelCount returns how many requests this tick already targeted ch.
func (t *Tracker) ChannelCount(ch int) int {
	return t.channelUsage[ch]
}

// RankCount returns how many requests this tick already targeted rk.
func (t *Tracker) RankCount(rk int) int {
	return t.rankUsage[rk]
}

// BankInUse reports whether coord's bank has already been targeted this
// tick.
func (t *Tracker) BankInUse(coord rowcoord.Coordinate) bool {
	return t.bankBusy[bankOf(coord)]
}

func bankOf(coord rowcoord.Coordinate) bankKey {
	return bankKey{coord.Channel, coord.Rank, coord.BankGroup, coord.Bank}
}
