package hamt

import (
	"github.com/aglyzov/go-hamt/bits"
)

// BuildMerged returns a fresh subtree holding two values whose hashes share every slice
// below shift.
//
// While the slices of both hashes at the current shift are equal, the values are pushed
// one level down under a single-child branch. As soon as they differ, a two-value leaf
// branch ends the chain. When the hashes are exhausted the values go to a collision node.
//
//	shift:  0         B         2B
//	        [idx] --> [idx] --> [v1 .. v2]
func (f *Factory[T]) BuildMerged(shift uint, v1 T, hash1 bits.Hash, v2 T, hash2 bits.Hash) (Node[T], error) {
	if shift >= f.bits.MaxShift() {
		node, err := f.MakeCollision(v1, v2)
		if err != nil {
			return nil, err
		}
		return node, nil
	}

	var (
		idx1 = f.bits.Index(hash1, shift)
		idx2 = f.bits.Index(hash2, shift)
	)

	if idx1 != idx2 {
		node, err := f.MakeBranchPair(idx1, v1, idx2, v2)
		if err != nil {
			return nil, err
		}
		return node, nil
	}

	child, err := f.BuildMerged(shift+uint(f.bits), v1, hash1, v2, hash2)
	if err != nil {
		return nil, err
	}

	node, err := f.MakeBranchChild(1, child)
	if err != nil {
		f.Release(child)
		return nil, err
	}

	node.nodemap = bits.Bit(idx1)

	return node, nil
}
