package stats

import "math/bits"

// HistogramBucket is one power-of-two bucket's accumulated view: how many
// samples fell in [Min, Max] and the sum of their values.
type HistogramBucket struct {
	Min, Max uint64
	Count    uint64
	Sum      uint64
}

// numBuckets covers every value a uint64 can hold: bucket 0 for the
// value 0, then one bucket per bit position, the last one unbounded.
const numBuckets = 65

// Histogram buckets observed values by power-of-two range, matching the
// sibling scheduler variant's PowerOfTwoHistogram: bucket 0 holds exactly
// the value 0; bucket i in [1, 64) covers [2^(i-1), 2^i - 1]; the last
// bucket extends to the maximum representable value.
type Histogram struct {
	buckets [numBuckets]HistogramBucket
}

// NewHistogram returns an empty histogram with bucket boundaries
// pre-filled (even un-sampled buckets report their Min/Max range).
func NewHistogram() *Histogram {
	h := &Histogram{}
	h.buckets[0] = HistogramBucket{Min: 0, Max: 0}
	for i := 1; i < numBuckets; i++ {
		lo := uint64(1) << (i - 1)
		var hi uint64
		if i == numBuckets-1 {
			hi = ^uint64(0)
		} else {
			hi = uint64(1)<<i - 1
		}
		h.buckets[i] = HistogramBucket{Min: lo, Max: hi}
	}
	return h
}

// bucketIndex returns the bucket a value falls into, by its highest set
// bit (value 0 is bucket 0; a value with highest bit at position p, 1
// indexed, falls in bucket p).
func bucketIndex(v uint64) int {
	if v == 0 {
		return 0
	}
	return bits.Len64(v)
}

// Observe records one sample.
func (h *Histogram) Observe(v uint64) {
	i := bucketIndex(v)
	h.buckets[i].Count++
	h.buckets[i].Sum += v
}

// Buckets returns every bucket, including empty ones, in ascending
// range order.
func (h *Histogram) Buckets() []HistogramBucket {
	out := make([]HistogramBucket, numBuckets)
	copy(out, h.buckets[:])
	return out
}

// TotalCount returns the total number of observations across all
// buckets.
func (h *Histogram) TotalCount() uint64 {
	var total uint64
	for _, b := range h.buckets {
		total += b.Count
	}
	return total
}

// RowAccessHistogram tracks, per DRAM row, how many times it was opened
// by this scheduler versus how many of those opens were actually hit by
// a subsequent downstream demand access — the "was accessed" extension
// from the sibling scheduler variant, plus an aggregate power-of-two view.
// Each RecordOpen (RecordAccess) observes that row's running open (access)
// count as one sample, so a row opened n times contributes the samples 1
// through n to OpenHist.
type RowAccessHistogram struct {
	opens      map[rowKey]uint64
	accesses   map[rowKey]uint64
	OpenHist   *Histogram
	AccessHist *Histogram
}

type rowKey struct {
	Channel, Rank, BankGroup, Bank, Row int
}

// NewRowAccessHistogram returns an empty tracker.
func NewRowAccessHistogram() *RowAccessHistogram {
	return &RowAccessHistogram{
		opens:      make(map[rowKey]uint64),
		accesses:   make(map[rowKey]uint64),
		OpenHist:   NewHistogram(),
		AccessHist: NewHistogram(),
	}
}

// rowKeyOf adapts a rowcoord.Coordinate-shaped value into this package's
// local key type without importing rowcoord, keeping stats free of a
// dependency cycle with the packages that depend on it.
func rowKeyOf(channel, rank, bankGroup, bank, row int) rowKey {
	return rowKey{channel, rank, bankGroup, bank, row}
}

// RecordOpen notes a successful speculative row-open.
func (h *RowAccessHistogram) RecordOpen(channel, rank, bankGroup, bank, row int) {
	k := rowKeyOf(channel, rank, bankGroup, bank, row)
	h.opens[k]++
	h.OpenHist.Observe(h.opens[k])
}

// RecordAccess notes that a downstream demand hit an open row.
func (h *RowAccessHistogram) RecordAccess(channel, rank, bankGroup, bank, row int) {
	k := rowKeyOf(channel, rank, bankGroup, bank, row)
	h.accesses[k]++
	h.AccessHist.Observe(h.accesses[k])
}
