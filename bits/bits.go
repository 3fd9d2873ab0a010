// Package bits holds the hash slicing and bitmap arithmetic shared by the trie nodes.
//
// A trie of width B consumes a 64-bit hash B bits at a time, least significant bits first:
//
//	shift:   ... 15     10      5      0
//	hash:    ... [BBBBB][BBBBB][BBBBB][BBBBB]
//
// Each B-bit slice picks one of 1<<B slots of a node. Node bitmaps are 64-bit words, so B
// is limited to [1..6].
package bits

import (
	"strconv"

	"github.com/hideo55/go-popcount"
)

const (
	hashWidth = 64 // bits in a Hash

	MinBits     Bits = 1
	MaxBits     Bits = 6 // 1<<6 == 64 == width of a Bitmap
	DefaultBits Bits = 5
)

// Hash is a full hash of a value.
type Hash = uint64

// Bitmap marks populated slots of a node.
type Bitmap uint64

// Bits is a branching width B (number of hash bits consumed per trie level).
type Bits uint8

// Valid reports whether b can be used as a trie width.
func (b Bits) Valid() bool {
	return b >= MinBits && b <= MaxBits
}

// Branches returns the number of slots in a node (1<<B).
func (b Bits) Branches() uint {
	return 1 << b
}

// Mask returns a mask of the lowest B bits.
func (b Bits) Mask() Hash {
	return Hash(1)<<b - 1
}

// MaxDepth returns the number of levels needed to consume a whole hash.
func (b Bits) MaxDepth() uint {
	return (hashWidth + uint(b) - 1) / uint(b)
}

// MaxShift returns the shift at which all hash bits are exhausted.
func (b Bits) MaxShift() uint {
	return b.MaxDepth() * uint(b)
}

// Index returns the slot index of a hash at the given shift.
func (b Bits) Index(hash Hash, shift uint) uint {
	if shift >= hashWidth {
		return 0
	}

	return uint((hash >> shift) & b.Mask())
}

// Bit returns a single-bit bitmap of a hash slot at the given shift.
func (b Bits) Bit(hash Hash, shift uint) Bitmap {
	return Bit(b.Index(hash, shift))
}

func (b Bits) String() string {
	return "B" + strconv.Itoa(int(b))
}

// Bit returns a bitmap with only the idx-th bit set.
func Bit(idx uint) Bitmap {
	return Bitmap(1) << idx
}

// Count returns the number of populated slots.
func (bmp Bitmap) Count() int {
	return int(popcount.Count(uint64(bmp)))
}

// Offset returns the dense offset of a slot bit: the number of populated slots below it.
func (bmp Bitmap) Offset(bit Bitmap) int {
	return int(popcount.Count(uint64(bmp & (bit - 1))))
}

// Has reports whether any of the given bits is set.
func (bmp Bitmap) Has(bit Bitmap) bool {
	return bmp&bit != 0
}

// Popcount returns the number of set bits.
func Popcount(bmp Bitmap) int {
	return bmp.Count()
}
