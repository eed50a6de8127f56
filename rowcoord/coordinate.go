// Package rowcoord identifies DRAM rows and maps addresses onto them.
package rowcoord

// Coordinate names a single DRAM row by its physical location.
type Coordinate struct {
	Channel   int
	Rank      int
	BankGroup int
	Bank      int
	Row       int
}

// Less gives Coordinate a deterministic total order (lexicographic over
// channel, rank, bank group, bank, row) so that row maps can iterate in a
// fixed, documented order instead of relying on hash-map iteration.
func (c Coordinate) Less(other Coordinate) bool {
	if c.Channel != other.Channel {
		return c.Channel < other.Channel
	}
	if c.Rank != other.Rank {
		return c.Rank < other.Rank
	}
	if c.BankGroup != other.BankGroup {
		return c.BankGroup < other.BankGroup
	}
	if c.Bank != other.Bank {
		return c.Bank < other.Bank
	}
	return c.Row < other.Row
}

// SameBank reports whether two coordinates target the same physical bank
// (channel, rank, bank group, bank), ignoring row.
func (c Coordinate) SameBank(other Coordinate) bool {
	return c.Channel == other.Channel &&
		c.Rank == other.Rank &&
		c.BankGroup == other.BankGroup &&
		c.Bank == other.Bank
}

// Address is a raw byte address as seen by the host's address space.
type Address uint64

// AddressMapper is the Address-Mapping Oracle: a pure, deterministic,
// referentially transparent function from an address to DRAM row
// coordinates plus a cache-block number used for block-equality. The
// scheduler treats an AddressMapper as a borrowed external collaborator —
// it is consulted only from AddRequest, never at issue time, and is never
// owned or outlived by the scheduler.
//
//go:generate mockgen -source=coordinate.go -destination=mock_rowcoord/mock_address_mapper.go -package=mock_rowcoord
type AddressMapper interface {
	// Map extracts the row coordinate addressed by addr.
	Map(addr Address) Coordinate
	// BlockNumber returns the cache-block number addr falls within, used
	// to detect block-equal requests independent of row coordinates.
	BlockNumber(addr Address) uint64
}
