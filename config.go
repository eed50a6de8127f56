package rowopen

import "github.com/memsim/rowopen/rowcoord"

// Config is the scheduler's immutable bind-time configuration (C10).
// Construct one with Builder rather than this struct literal directly,
// the way the teacher's dram.Builder assembles a DRAM controller.
type Config struct {
	Capacity         int
	Slack            uint64
	DensityWeight    float64
	ConfWeight       float64
	MaxConfidence    uint32
	RowBufferSize    int
	TrackRowHistory  bool
	Mapper           rowcoord.AddressMapper
}

// Builder assembles a Config through a fluent chain of value-receiver
// With* methods, mirroring mem/dram.Builder / MakeBuilder() in the
// teacher: each With* returns a modified copy rather than mutating in
// place, so partially configured builders can be shared safely.
type Builder struct {
	cfg Config
}

// MakeBuilder returns a Builder pre-populated with the defaults the
// original ChampSim scheduler ships (queue size 126, one cycle of
// slack, 0.6/0.4 density/confidence weights, confidence normalised out
// of 16, a 128-entry row buffer).
func MakeBuilder() Builder {
	return Builder{cfg: Config{
		Capacity:      126,
		Slack:         1,
		DensityWeight: 0.6,
		ConfWeight:    0.4,
		MaxConfidence: 16,
		RowBufferSize: 128,
		Mapper:        rowcoord.DefaultBitSliceMapper(),
	}}
}

// WithCapacity sets the hard cap on total queued requests.
func (b Builder) WithCapacity(capacity int) Builder {
	b.cfg.Capacity = capacity
	return b
}

// WithSlack sets how many cycles past a request's ready cycle it stays
// issuable before being pruned.
func (b Builder) WithSlack(slack uint64) Builder {
	b.cfg.Slack = slack
	return b
}

// WithDensityWeight sets the weight of the row-fullness term in the
// score function.
func (b Builder) WithDensityWeight(w float64) Builder {
	b.cfg.DensityWeight = w
	return b
}

// WithConfidenceWeight sets the weight of the mean-confidence term in
// the score function.
func (b Builder) WithConfidenceWeight(w float64) Builder {
	b.cfg.ConfWeight = w
	return b
}

// WithMaxConfidence sets the denominator that normalises raw confidence
// into [0, 1].
func (b Builder) WithMaxConfidence(maxConf uint32) Builder {
	b.cfg.MaxConfidence = maxConf
	return b
}

// WithRowBufferSize sets the denominator that normalises row-fullness
// into [0, 1].
func (b Builder) WithRowBufferSize(size int) Builder {
	b.cfg.RowBufferSize = size
	return b
}

// WithAddressMapper installs the Address-Mapping Oracle the scheduler
// borrows for the lifetime of every AddRequest call.
func (b Builder) WithAddressMapper(mapper rowcoord.AddressMapper) Builder {
	b.cfg.Mapper = mapper
	return b
}

// WithRowHistoryTracking enables the optional per-row open/access
// histogram extension. Disabled by default so the common path pays
// nothing for it.
func (b Builder) WithRowHistoryTracking(enabled bool) Builder {
	b.cfg.TrackRowHistory = enabled
	return b
}

// Build finalises the configuration.
func (b Builder) Build() Config {
	return b.cfg
}
