// Package addrset contains the address sets that are collected while decoding
// a sequence and consumed when patching it.
package addrset

import "slices"

// Kind identifies a mutation relevant instruction kind.
type Kind uint8

// Address set kinds.
const (
	None Kind = iota
	Volume
	Jump
	EqJump
	LtJump
	GteqJump
	RJump
	ReqJump
	RltJump

	kindCount
)

// Kinds lists all collectable kinds in output order.
var Kinds = []Kind{Volume, Jump, EqJump, LtJump, GteqJump, RJump, ReqJump, RltJump}

var kindNames = [kindCount]string{
	None:     "none",
	Volume:   "mstrvol",
	Jump:     "jump",
	EqJump:   "eqjump",
	LtJump:   "ltjump",
	GteqJump: "gteqjump",
	RJump:    "rjump",
	ReqJump:  "reqjump",
	RltJump:  "rltjump",
}

// String returns the instruction name the kind collects.
func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Sets holds one ordered address list per kind. Duplicates are kept.
// The zero value is ready to use.
type Sets struct {
	addresses [kindCount][]int64
}

// New returns empty address sets.
func New() *Sets {
	return &Sets{}
}

// Add appends an address to the set of the given kind.
func (s *Sets) Add(kind Kind, address int64) {
	if kind == None || kind >= kindCount {
		return
	}
	s.addresses[kind] = append(s.addresses[kind], address)
}

// Addresses returns a copy of the addresses collected for the kind.
func (s *Sets) Addresses(kind Kind) []int64 {
	if kind >= kindCount {
		return nil
	}
	return slices.Clone(s.addresses[kind])
}

// Len returns the number of addresses collected for the kind.
func (s *Sets) Len(kind Kind) int {
	if kind >= kindCount {
		return 0
	}
	return len(s.addresses[kind])
}

// Equal returns whether both sets contain the same addresses in the same order.
func (s *Sets) Equal(other *Sets) bool {
	for _, kind := range Kinds {
		if !slices.Equal(s.addresses[kind], other.addresses[kind]) {
			return false
		}
	}
	return true
}
