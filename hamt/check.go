package hamt

import (
	"github.com/cockroachdb/errors"

	"github.com/aglyzov/go-hamt/bits"
)

// ErrCorrupted is returned by Check when a trie breaks a structural invariant.
var ErrCorrupted = errors.New("hamt: corrupted trie")

// Check verifies the structural invariants of the trie under root:
//
//   - nodemap and datamap of a branch never share a bit;
//   - a branch has exactly popcount(nodemap) children and popcount(datamap) values,
//     and no values block when its datamap is empty;
//   - every value sits in the slot its hash selects at that depth, so values are ordered
//     by slot;
//   - collision nodes appear only at the maximum depth and hold two or more values of one hash;
//   - every reachable node and values block has a positive reference count.
func (t *Trie[T]) Check(root Node[T]) error {
	if root == nil {
		return errors.Wrap(ErrCorrupted, "nil root")
	}
	return t.check(root, 0, 0)
}

func (t *Trie[T]) check(node Node[T], shift uint, prefix bits.Hash) error {
	if node.RefCount() <= 0 {
		return errors.Wrapf(ErrCorrupted, "node at shift %d has %d references", shift, node.RefCount())
	}

	switch cur := node.(type) {
	case *Branch[T]:
		return t.checkBranch(cur, shift, prefix)
	case *Collision[T]:
		return t.checkCollision(cur, shift, prefix)
	}

	return errors.Wrapf(ErrCorrupted, "unexpected node %T", node)
}

func (t *Trie[T]) checkBranch(node *Branch[T], shift uint, prefix bits.Hash) error {
	if shift >= t.bits.MaxShift() {
		return errors.Wrapf(ErrCorrupted, "branch below the maximum depth (shift %d)", shift)
	}

	if node.nodemap&node.datamap != 0 {
		return errors.Wrapf(ErrCorrupted, "shift %d: nodemap %b overlaps datamap %b", shift, node.nodemap, node.datamap)
	}

	if n := node.nodemap.Count(); len(node.children) != n {
		return errors.Wrapf(ErrCorrupted, "shift %d: %d children for nodemap %b", shift, len(node.children), node.nodemap)
	}

	switch {
	case node.datamap == 0 && node.values != nil:
		return errors.Wrapf(ErrCorrupted, "shift %d: values block with an empty datamap", shift)
	case node.datamap != 0 && node.values == nil:
		return errors.Wrapf(ErrCorrupted, "shift %d: no values block for datamap %b", shift, node.datamap)
	case node.values != nil && len(node.values.items) != node.datamap.Count():
		return errors.Wrapf(ErrCorrupted, "shift %d: %d values for datamap %b", shift, len(node.values.items), node.datamap)
	case node.values != nil && node.values.RefCount() <= 0:
		return errors.Wrapf(ErrCorrupted, "shift %d: values block has %d references", shift, node.values.RefCount())
	}

	var (
		mask     = prefixMask(shift)
		branches = t.bits.Branches()
	)

	for idx := uint(0); idx < branches; idx++ {
		bit := bits.Bit(idx)

		if node.datamap.Has(bit) {
			v := node.values.items[node.datamap.Offset(bit)]
			hash := t.hash(v)

			if hash&mask != prefix || t.bits.Index(hash, shift) != idx {
				return errors.Wrapf(ErrCorrupted, "shift %d: value with hash %#x stored in slot %d", shift, hash, idx)
			}
		}

		if node.nodemap.Has(bit) {
			child := node.children[node.nodemap.Offset(bit)]
			if child == nil {
				return errors.Wrapf(ErrCorrupted, "shift %d: nil child in slot %d", shift, idx)
			}

			if err := t.check(child, shift+uint(t.bits), prefix|bits.Hash(idx)<<shift); err != nil {
				return err
			}
		}
	}

	return nil
}

func (t *Trie[T]) checkCollision(node *Collision[T], shift uint, prefix bits.Hash) error {
	if shift < t.bits.MaxShift() {
		return errors.Wrapf(ErrCorrupted, "collision node above the maximum depth (shift %d)", shift)
	}

	if len(node.entries) < 2 {
		return errors.Wrapf(ErrCorrupted, "collision node of %d entries", len(node.entries))
	}

	hash := t.hash(node.entries[0])
	if hash != prefix {
		return errors.Wrapf(ErrCorrupted, "collision hash %#x under prefix %#x", hash, prefix)
	}

	for _, v := range node.entries[1:] {
		if t.hash(v) != hash {
			return errors.Wrapf(ErrCorrupted, "collision node mixes hashes %#x and %#x", hash, t.hash(v))
		}
	}

	return nil
}

// prefixMask returns a mask of the hash bits consumed above shift.
func prefixMask(shift uint) bits.Hash {
	if shift >= 64 {
		return ^bits.Hash(0)
	}
	return bits.Hash(1)<<shift - 1
}
