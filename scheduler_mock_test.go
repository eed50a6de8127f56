package rowopen_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/memsim/rowopen"
	"github.com/memsim/rowopen/request"
	"github.com/memsim/rowopen/rowcoord"
	"github.com/memsim/rowopen/rowcoord/mock_rowcoord"
)

// These specs exercise the Address-Mapping Oracle collaborator through a
// generated gomock double rather than the hand-written tableMapper, so
// that AddRequest's consultation of the oracle (call count, argument,
// and timing relative to the capacity check) is pinned directly, the
// way CommandQueue and Port are pinned against the DRAM controller.
var _ = Describe("Scheduler against a mocked AddressMapper", func() {
	var (
		mockCtrl *gomock.Controller
		mapper   *mock_rowcoord.MockAddressMapper
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mapper = mock_rowcoord.NewMockAddressMapper(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("consults the oracle exactly once per accepted AddRequest", func() {
		coord := rowcoord.Coordinate{Row: 7}
		mapper.EXPECT().Map(rowcoord.Address(0x40)).Return(coord).Times(1)
		mapper.EXPECT().BlockNumber(rowcoord.Address(0x40)).Return(uint64(4)).Times(1)

		sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(4).WithAddressMapper(mapper).Build())
		Expect(sched.AddRequest(request.Request{Addr: 0x40, Confidence: 1}, 0, 0)).To(Equal(rowopen.Accepted))
	})

	It("never consults the oracle once the queue is full", func() {
		coord := rowcoord.Coordinate{Row: 7}
		mapper.EXPECT().Map(rowcoord.Address(0x40)).Return(coord).Times(1)
		mapper.EXPECT().BlockNumber(rowcoord.Address(0x40)).Return(uint64(4)).Times(1)

		sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(1).WithAddressMapper(mapper).Build())
		Expect(sched.AddRequest(request.Request{Addr: 0x40, Confidence: 1}, 0, 0)).To(Equal(rowopen.Accepted))

		// The capacity-full guard rejects the second request before it
		// ever reaches the oracle (spec §4.1), so no further Map or
		// BlockNumber call is expected here.
		Expect(sched.AddRequest(request.Request{Addr: 0x80, Confidence: 1}, 0, 0)).To(Equal(rowopen.DroppedFull))
	})

	It("coalesces a block-equal request without re-mapping its coordinate a second time", func() {
		coord := rowcoord.Coordinate{Row: 7}
		mapper.EXPECT().Map(rowcoord.Address(0x40)).Return(coord).Times(1)
		mapper.EXPECT().Map(rowcoord.Address(0x44)).Return(coord).Times(1)
		mapper.EXPECT().BlockNumber(gomock.Any()).Return(uint64(4)).Times(2)

		sched := rowopen.New(rowopen.MakeBuilder().WithCapacity(4).WithAddressMapper(mapper).Build())
		Expect(sched.AddRequest(request.Request{Addr: 0x40, Confidence: 1}, 0, 0)).To(Equal(rowopen.Accepted))
		Expect(sched.AddRequest(request.Request{Addr: 0x44, Confidence: 1}, 0, 0)).To(Equal(rowopen.CoalescedDuplicate))
	})
})
