package rowopen_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/memsim/rowopen"
	"github.com/memsim/rowopen/request"
	"github.com/memsim/rowopen/rowcoord"
)

// tableMapper is a test double for the Address-Mapping Oracle: it looks
// up pre-seeded coordinate and block-number tables rather than slicing
// bits, so scenario tests can place addresses on whatever rows/banks the
// scenario calls for.
type tableMapper struct {
	rows   map[rowcoord.Address]rowcoord.Coordinate
	blocks map[rowcoord.Address]uint64
}

func newTableMapper() *tableMapper {
	return &tableMapper{
		rows:   make(map[rowcoord.Address]rowcoord.Coordinate),
		blocks: make(map[rowcoord.Address]uint64),
	}
}

func (m *tableMapper) at(addr rowcoord.Address, coord rowcoord.Coordinate, block uint64) *tableMapper {
	m.rows[addr] = coord
	m.blocks[addr] = block
	return m
}

func (m *tableMapper) Map(addr rowcoord.Address) rowcoord.Coordinate {
	return m.rows[addr]
}

func (m *tableMapper) BlockNumber(addr rowcoord.Address) uint64 {
	if b, ok := m.blocks[addr]; ok {
		return b
	}
	return uint64(addr)
}

func alwaysTrue(request.Request) bool { return true }
func alwaysFalse(request.Request) bool { return false }

var _ = Describe("Scheduler", func() {
	var mapper *tableMapper

	BeforeEach(func() {
		mapper = newTableMapper()
	})

	Describe("S1 single-row coalescing", func() {
		It("coalesces block-equal requests and issues the higher-confidence winner", func() {
			rowA := rowcoord.Coordinate{Row: 1}
			mapper.at(0x1000, rowA, 1).at(0x1040, rowA, 2)

			sched := rowopen.New(rowopen.MakeBuilder().
				WithCapacity(8).WithSlack(2).
				WithDensityWeight(0.6).WithConfidenceWeight(0.4).
				WithMaxConfidence(16).WithRowBufferSize(128).
				WithAddressMapper(mapper).Build())

			outcome := sched.AddRequest(request.Request{Addr: 0x1000, Confidence: 3}, 0, 5)
			Expect(outcome).To(Equal(rowopen.Accepted))
			Expect(sched.Size()).To(Equal(1))

			outcome = sched.AddRequest(request.Request{Addr: 0x1000, Confidence: 10}, 0, 5)
			Expect(outcome).To(Equal(rowopen.CoalescedDuplicate))
			Expect(sched.Stats().DuplicatesDetected).To(Equal(uint64(1)))
			Expect(sched.Stats().ConfidenceUpdates).To(Equal(uint64(1)))
			Expect(sched.Size()).To(Equal(1))

			outcome = sched.AddRequest(request.Request{Addr: 0x1040, Confidence: 8}, 0, 5)
			Expect(outcome).To(Equal(rowopen.Accepted))
			Expect(sched.Size()).To(Equal(2))

			var issued []request.Request
			sched.Tick(5, 1, func(r request.Request) bool {
				issued = append(issued, r)
				return true
			})

			Expect(issued).To(HaveLen(1))
			Expect(issued[0].Addr).To(Equal(rowcoord.Address(0x1000)))
			Expect(issued[0].Confidence).To(Equal(uint32(10)))
			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(1)))
			Expect(sched.Size()).To(Equal(1))
		})
	})

	Describe("S2 expiry", func() {
		It("keeps a request issuable through the slack window and prunes it one cycle later", func() {
			rowA := rowcoord.Coordinate{Row: 1}
			mapper.at(0x2000, rowA, 1)

			sched := rowopen.New(rowopen.MakeBuilder().
				WithCapacity(4).WithSlack(1).WithAddressMapper(mapper).Build())

			Expect(sched.AddRequest(request.Request{Addr: 0x2000, Confidence: 1}, 0, 10)).To(Equal(rowopen.Accepted))

			sched.Tick(11, 4, alwaysTrue)
			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(1)))
			Expect(sched.Size()).To(Equal(0))
		})

		It("prunes once now exceeds ready cycle plus slack", func() {
			rowA := rowcoord.Coordinate{Row: 1}
			mapper.at(0x2000, rowA, 1)

			sched := rowopen.New(rowopen.MakeBuilder().
				WithCapacity(4).WithSlack(1).WithAddressMapper(mapper).Build())

			Expect(sched.AddRequest(request.Request{Addr: 0x2000, Confidence: 1}, 0, 10)).To(Equal(rowopen.Accepted))

			sched.Tick(12, 4, alwaysTrue)
			Expect(sched.Stats().PrunedExpired).To(Equal(uint64(1)))
			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(0)))
			Expect(sched.Size()).To(Equal(0))
		})
	})

	Describe("S3 bank-conflict avoidance", func() {
		It("issues only one of two rows sharing a bank in the same tick", func() {
			rowA := rowcoord.Coordinate{Channel: 0, Bank: 0, Row: 1}
			rowB := rowcoord.Coordinate{Channel: 0, Bank: 0, Row: 2}
			mapper.at(0x3000, rowA, 1).at(0x4000, rowB, 2)

			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(8).WithAddressMapper(mapper).Build())
			Expect(sched.AddRequest(request.Request{Addr: 0x3000, Confidence: 5}, 0, 0)).To(Equal(rowopen.Accepted))
			Expect(sched.AddRequest(request.Request{Addr: 0x4000, Confidence: 5}, 0, 0)).To(Equal(rowopen.Accepted))

			sched.Tick(0, 2, alwaysTrue)

			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(1)))
			Expect(sched.Size()).To(Equal(1))
		})
	})

	Describe("S4 channel balancing", func() {
		It("spreads issues across channels instead of doubling up on one", func() {
			a := rowcoord.Coordinate{Channel: 0, Bank: 0, Row: 1}
			b := rowcoord.Coordinate{Channel: 0, Bank: 1, Row: 2}
			c := rowcoord.Coordinate{Channel: 1, Bank: 0, Row: 3}
			d := rowcoord.Coordinate{Channel: 1, Bank: 1, Row: 4}
			mapper.at(0x10, a, 1).at(0x20, b, 2).at(0x30, c, 3).at(0x40, d, 4)

			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(8).WithAddressMapper(mapper).Build())
			for _, addr := range []rowcoord.Address{0x10, 0x20, 0x30, 0x40} {
				Expect(sched.AddRequest(request.Request{Addr: addr, Confidence: 5}, 0, 0)).To(Equal(rowopen.Accepted))
			}

			var issuedChannels []int
			sched.Tick(0, 2, func(r request.Request) bool {
				issuedChannels = append(issuedChannels, mapper.Map(r.Addr).Channel)
				return true
			})

			Expect(issuedChannels).To(HaveLen(2))
			Expect(issuedChannels).To(ContainElement(0))
			Expect(issuedChannels).To(ContainElement(1))
		})
	})

	Describe("S5 sink refusal", func() {
		It("preserves the request for a later tick with a truthy sink", func() {
			rowA := rowcoord.Coordinate{Row: 1}
			mapper.at(0x5000, rowA, 1)

			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(4).WithAddressMapper(mapper).Build())
			Expect(sched.AddRequest(request.Request{Addr: 0x5000, Confidence: 1}, 0, 0)).To(Equal(rowopen.Accepted))

			sched.Tick(0, 1, alwaysFalse)
			Expect(sched.Stats().IssueFailures).To(Equal(uint64(1)))
			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(0)))
			Expect(sched.Size()).To(Equal(1))

			sched.Tick(0, 1, alwaysTrue)
			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(1)))
			Expect(sched.Size()).To(Equal(0))
		})
	})

	Describe("S6 capacity drop", func() {
		It("drops requests once the queue is full", func() {
			a := rowcoord.Coordinate{Row: 1}
			b := rowcoord.Coordinate{Row: 2}
			c := rowcoord.Coordinate{Row: 3}
			mapper.at(0x100, a, 1).at(0x200, b, 2).at(0x300, c, 3)

			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(2).WithAddressMapper(mapper).Build())
			Expect(sched.AddRequest(request.Request{Addr: 0x100, Confidence: 1}, 0, 0)).To(Equal(rowopen.Accepted))
			Expect(sched.AddRequest(request.Request{Addr: 0x200, Confidence: 1}, 0, 0)).To(Equal(rowopen.Accepted))
			Expect(sched.AddRequest(request.Request{Addr: 0x300, Confidence: 1}, 0, 0)).To(Equal(rowopen.DroppedFull))
			Expect(sched.Stats().DroppedFullQueue).To(Equal(uint64(1)))
		})
	})

	Describe("boundary behaviour", func() {
		It("B1: capacity zero drops every add", func() {
			a := rowcoord.Coordinate{Row: 1}
			mapper.at(0x1, a, 1)
			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(0).WithAddressMapper(mapper).Build())
			Expect(sched.AddRequest(request.Request{Addr: 0x1, Confidence: 1}, 0, 0)).To(Equal(rowopen.DroppedFull))
		})

		It("B2: zero slack only allows issue exactly at the ready cycle", func() {
			a := rowcoord.Coordinate{Row: 1}
			mapper.at(0x1, a, 1)
			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(4).WithSlack(0).WithAddressMapper(mapper).Build())
			Expect(sched.AddRequest(request.Request{Addr: 0x1, Confidence: 1}, 0, 5)).To(Equal(rowopen.Accepted))

			sched.Tick(5, 1, alwaysTrue)
			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(1)))
		})

		It("B3: zero budget issues nothing but still prunes", func() {
			a := rowcoord.Coordinate{Row: 1}
			mapper.at(0x1, a, 1)
			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(4).WithSlack(1).WithAddressMapper(mapper).Build())
			Expect(sched.AddRequest(request.Request{Addr: 0x1, Confidence: 1}, 0, 10)).To(Equal(rowopen.Accepted))

			sched.Tick(20, 0, alwaysTrue)
			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(0)))
			Expect(sched.Stats().PrunedExpired).To(Equal(uint64(1)))
			Expect(sched.Size()).To(Equal(0))
		})

		It("B4: a request exactly at the expiry boundary is still issuable", func() {
			a := rowcoord.Coordinate{Row: 1}
			mapper.at(0x1, a, 1)
			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(4).WithSlack(1).WithAddressMapper(mapper).Build())
			Expect(sched.AddRequest(request.Request{Addr: 0x1, Confidence: 1}, 0, 10)).To(Equal(rowopen.Accepted))

			sched.Tick(11, 1, alwaysTrue)
			Expect(sched.Stats().IssuedSuccess).To(Equal(uint64(1)))
		})
	})

	Describe("laws", func() {
		It("L1: clear then add of the same argument accepts again", func() {
			a := rowcoord.Coordinate{Row: 1}
			mapper.at(0x1, a, 1)
			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(2).WithAddressMapper(mapper).Build())
			Expect(sched.AddRequest(request.Request{Addr: 0x1, Confidence: 1}, 0, 0)).To(Equal(rowopen.Accepted))
			Expect(sched.AddRequest(request.Request{Addr: 0x1, Confidence: 1}, 0, 0)).To(Equal(rowopen.CoalescedDuplicate))

			sched.Clear()
			Expect(sched.Size()).To(Equal(0))
			Expect(sched.AddRequest(request.Request{Addr: 0x1, Confidence: 1}, 0, 0)).To(Equal(rowopen.Accepted))
		})

		It("L3: reset_stats zeroes counters without mutating queue state", func() {
			a := rowcoord.Coordinate{Row: 1}
			mapper.at(0x1, a, 1)
			sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(4).WithAddressMapper(mapper).Build())
			sched.AddRequest(request.Request{Addr: 0x1, Confidence: 1}, 0, 0)
			Expect(sched.Size()).To(Equal(1))

			sched.ResetStats()
			Expect(sched.Stats().RequestsAdded).To(Equal(uint64(0)))
			Expect(sched.Size()).To(Equal(1))
		})
	})
})
