package bits

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBits_Limits(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Bits        Bits
		ExpValid    bool
		ExpBranches uint
		ExpMask     Hash
		ExpDepth    uint
		ExpShift    uint
	}{
		{0, false, 1, 0, 0, 0},
		{1, true, 2, 0b1, 64, 64},
		{2, true, 4, 0b11, 32, 64},
		{3, true, 8, 0b111, 22, 66},
		{4, true, 16, 0b1111, 16, 64},
		{5, true, 32, 0b11111, 13, 65},
		{6, true, 64, 0b111111, 11, 66},
		{7, false, 128, 0b1111111, 10, 70},
	} {
		tcase := tcase

		t.Run(tcase.Bits.String(), func(t *testing.T) {
			assert.Equal(t, tcase.ExpValid, tcase.Bits.Valid())
			assert.Equal(t, tcase.ExpBranches, tcase.Bits.Branches())
			assert.Equal(t, tcase.ExpMask, tcase.Bits.Mask())

			if tcase.Bits == 0 {
				return // MaxDepth divides by B
			}

			assert.Equal(t, tcase.ExpDepth, tcase.Bits.MaxDepth())
			assert.Equal(t, tcase.ExpShift, tcase.Bits.MaxShift())
		})
	}
}

func TestBits_Index(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Bits     Bits
		BitHash  string
		Shift    uint
		ExpIndex uint
	}{
		{6, "000000", 0, 0},
		{6, "000001", 0, 1},
		{6, "111111_000001", 0, 1},
		{6, "111111_000001", 6, 0b111111},
		{6, "111111_000001", 12, 0},
		{5, "10101_00011", 0, 0b00011},
		{5, "10101_00011", 5, 0b10101},
		{5, "11111_00000_00000", 10, 0b11111},
		{5, "1111", 65, 0},
		{2, "11_10_01_00", 4, 0b10},
	} {
		tcase := tcase
		name := fmt.Sprintf("%v,%s>>%d", tcase.Bits, tcase.BitHash, tcase.Shift)

		t.Run(name, func(t *testing.T) {
			hash, err := bitStringToHash(tcase.BitHash)
			require.NoError(t, err)

			assert.Equal(t, tcase.ExpIndex, tcase.Bits.Index(hash, tcase.Shift))
			assert.Equal(t, Bit(tcase.ExpIndex), tcase.Bits.Bit(hash, tcase.Shift))
		})
	}
}

func TestIndex_TopBits(t *testing.T) {
	t.Parallel()

	// the last slice of a 64-bit hash is narrower than B
	var hash Hash = 0xF000_0000_0000_0000

	assert.Equal(t, uint(0b1111), DefaultBits.Index(hash, 60))
	assert.Equal(t, uint(0b1111), MaxBits.Index(hash, 60))
	assert.Equal(t, uint(0b11), Bits(2).Index(hash, 62))
}

func TestBitmap_Offset(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Bitmap    string
		Idx       uint
		ExpOffset int
		ExpHas    bool
	}{
		{"0", 0, 0, false},
		{"1", 0, 0, true},
		{"1", 5, 1, false},
		{"1011", 1, 1, true},
		{"1011", 2, 2, false},
		{"1011", 3, 2, true},
		{"1011", 63, 3, false},
	} {
		tcase := tcase
		name := fmt.Sprintf("%s@%d", tcase.Bitmap, tcase.Idx)

		t.Run(name, func(t *testing.T) {
			bmp, err := strconv.ParseUint(tcase.Bitmap, 2, 64)
			require.NoError(t, err)

			assert.Equal(t, tcase.ExpOffset, Bitmap(bmp).Offset(Bit(tcase.Idx)))
			assert.Equal(t, tcase.ExpHas, Bitmap(bmp).Has(Bit(tcase.Idx)))
		})
	}
}

func TestBitmap_Count(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Bitmap(0).Count())
	assert.Equal(t, 3, Bitmap(0b1011).Count())
	assert.Equal(t, 64, Popcount(^Bitmap(0)))
}

// bitStringToHash parses a binary string written most significant bits first;
// underscores are ignored.
func bitStringToHash(bitStr string) (Hash, error) {
	return strconv.ParseUint(strings.ReplaceAll(bitStr, "_", ""), 2, 64)
}
