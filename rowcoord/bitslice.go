package rowcoord

// BitSliceMapper is a default AddressMapper that extracts row coordinates
// by slicing contiguous bit ranges out of the address, the same technique
// the DRAM controller model uses to derive channel/rank/bank/row fields
// from a bus address before any scheduler ever sees it. Field widths are
// configured in bits; a width of zero pins that field at 0 for every
// address (useful for single-channel or single-rank configurations).
type BitSliceMapper struct {
	ColumnBits    uint
	BankBits      uint
	BankGroupBits uint
	RankBits      uint
	ChannelBits   uint
	BlockBits     uint
}

// DefaultBitSliceMapper returns a mapper with widths typical of a modest
// multi-channel DIMM: 6 column bits, 3 bank bits, 2 bank-group bits, 1
// rank bit, 1 channel bit, on top of a 6-bit (64-byte) cache block.
func DefaultBitSliceMapper() BitSliceMapper {
	return BitSliceMapper{
		ColumnBits:    6,
		BankBits:      3,
		BankGroupBits: 2,
		RankBits:      1,
		ChannelBits:   1,
		BlockBits:     6,
	}
}

func slice(addr Address, offset, width uint) int {
	if width == 0 {
		return 0
	}
	mask := Address(1)<<width - 1
	return int((addr >> offset) & mask)
}

// Map implements AddressMapper.
func (m BitSliceMapper) Map(addr Address) Coordinate {
	offset := m.BlockBits + m.ColumnBits
	bank := slice(addr, offset, m.BankBits)
	offset += m.BankBits
	bankGroup := slice(addr, offset, m.BankGroupBits)
	offset += m.BankGroupBits
	rank := slice(addr, offset, m.RankBits)
	offset += m.RankBits
	channel := slice(addr, offset, m.ChannelBits)
	offset += m.ChannelBits
	row := int(addr >> offset)

	return Coordinate{
		Channel:   channel,
		Rank:      rank,
		BankGroup: bankGroup,
		Bank:      bank,
		Row:       row,
	}
}

// BlockNumber implements AddressMapper.
func (m BitSliceMapper) BlockNumber(addr Address) uint64 {
	if m.BlockBits == 0 {
		return uint64(addr)
	}
	return uint64(addr) >> m.BlockBits
}
