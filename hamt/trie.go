package hamt

import (
	"github.com/aglyzov/go-hamt/bits"
)

// HashFunc returns a full hash of a value.
type HashFunc[T any] func(T) bits.Hash

// EqualFunc reports whether two values are equal.
type EqualFunc[T any] func(a, b T) bool

// Equal is an EqualFunc for comparable types.
func Equal[T comparable](a, b T) bool {
	return a == b
}

// Trie binds a node factory to a hash function and an equality comparator and implements
// the lookups and path-copying updates of a trie family.
//
// A root is any node returned by Empty, Add, Update or Remove. Operations borrow the root
// they are given and return a new root owned by the caller; the old root stays valid.
type Trie[T any] struct {
	*Factory[T]

	hash  HashFunc[T]
	equal EqualFunc[T]
}

// New returns a new Trie.
func New[T any](hash HashFunc[T], equal EqualFunc[T], opts ...Option) (*Trie[T], error) {
	factory, err := NewFactory[T](opts...)
	if err != nil {
		return nil, err
	}

	return &Trie[T]{
		Factory: factory,
		hash:    hash,
		equal:   equal,
	}, nil
}

// Hash returns the hash of a value.
func (t *Trie[T]) Hash(v T) bits.Hash {
	return t.hash(v)
}

// Empty returns a new empty root.
func (t *Trie[T]) Empty() (Node[T], error) {
	root, err := t.MakeBranch(0)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// Find returns the stored value equal to probe.
func (t *Trie[T]) Find(root Node[T], probe T) (T, bool) {
	var (
		hash  = t.hash(probe)
		shift uint
		node  = root
		zero  T
	)

	for {
		switch cur := node.(type) {
		case *Branch[T]:
			bit := t.bits.Bit(hash, shift)

			switch {
			case cur.nodemap.Has(bit):
				node = cur.children[cur.nodemap.Offset(bit)]
				shift += uint(t.bits)
			case cur.datamap.Has(bit):
				if v := cur.values.items[cur.datamap.Offset(bit)]; t.equal(v, probe) {
					return v, true
				}
				return zero, false
			default:
				return zero, false
			}

		case *Collision[T]:
			for _, v := range cur.entries {
				if t.equal(v, probe) {
					return v, true
				}
			}
			return zero, false

		default:
			return zero, false
		}
	}
}

// Add returns a new root holding v. If an equal value is already stored the trie does not
// change and the returned root is nil.
func (t *Trie[T]) Add(root Node[T], v T) (Node[T], error) {
	node, _, err := t.add(root, v, t.hash(v), 0, false)
	return node, err
}

// Update returns a new root holding v, replacing an equal value if there is one.
// The flag reports whether v was added rather than replaced.
func (t *Trie[T]) Update(root Node[T], v T) (Node[T], bool, error) {
	return t.add(root, v, t.hash(v), 0, true)
}

func (t *Trie[T]) add(node Node[T], v T, hash bits.Hash, shift uint, replace bool) (Node[T], bool, error) {
	switch cur := node.(type) {
	case *Branch[T]:
		bit := t.bits.Bit(hash, shift)

		switch {
		case cur.nodemap.Has(bit):
			offset := cur.nodemap.Offset(bit)

			child, added, err := t.add(cur.children[offset], v, hash, shift+uint(t.bits), replace)
			if err != nil || child == nil {
				return nil, false, err
			}

			dst, err := t.CopyBranchReplaceChild(cur, offset, child)
			if err != nil {
				t.Release(child)
				return nil, false, err
			}
			return dst, added, nil

		case cur.datamap.Has(bit):
			offset := cur.datamap.Offset(bit)
			prev := cur.values.items[offset]

			if t.equal(prev, v) {
				if !replace {
					return nil, false, nil
				}

				dst, err := t.CopyBranchReplaceValue(cur, offset, v)
				if err != nil {
					return nil, false, err
				}
				return dst, false, nil
			}

			merged, err := t.BuildMerged(shift+uint(t.bits), prev, t.hash(prev), v, hash)
			if err != nil {
				return nil, false, err
			}

			dst, err := t.CopyBranchReplaceWithMerged(cur, bit, offset, merged)
			if err != nil {
				t.Release(merged)
				return nil, false, err
			}
			return dst, true, nil

		default:
			dst, err := t.CopyBranchInsertValue(cur, bit, v)
			if err != nil {
				return nil, false, err
			}
			return dst, true, nil
		}

	case *Collision[T]:
		for pos, prev := range cur.entries {
			if !t.equal(prev, v) {
				continue
			}

			if !replace {
				return nil, false, nil
			}

			dst, err := t.CopyCollisionReplace(cur, pos, v)
			if err != nil {
				return nil, false, err
			}
			return dst, false, nil
		}

		dst, err := t.CopyCollisionInsert(cur, v)
		if err != nil {
			return nil, false, err
		}
		return dst, true, nil
	}

	assertf(false, "unexpected node %T", node)

	return nil, false, nil
}

type removal int

const (
	notFound  removal = iota // nothing removed
	collapsed                // the sub-trie shrank to a single value
	rebuilt                  // the sub-trie was rebuilt
)

// Remove returns a new root without the value equal to probe. If there is no such value
// the trie does not change and the returned root is nil.
func (t *Trie[T]) Remove(root Node[T], probe T) (Node[T], error) {
	res, node, _, err := t.remove(root, probe, t.hash(probe), 0)
	if err != nil || res == notFound {
		return nil, err
	}

	assertf(res == rebuilt, "root collapsed into a value")

	return node, nil
}

func (t *Trie[T]) remove(node Node[T], probe T, hash bits.Hash, shift uint) (removal, Node[T], T, error) {
	var zero T

	switch cur := node.(type) {
	case *Branch[T]:
		bit := t.bits.Bit(hash, shift)

		switch {
		case cur.nodemap.Has(bit):
			offset := cur.nodemap.Offset(bit)

			res, child, last, err := t.remove(cur.children[offset], probe, hash, shift+uint(t.bits))
			if err != nil || res == notFound {
				return notFound, nil, zero, err
			}

			if res == collapsed {
				if shift > 0 && cur.datamap == 0 && cur.nodemap == bit {
					// the only child collapsed - collapse this branch too
					return collapsed, nil, last, nil
				}

				dst, err := t.CopyBranchInlineChild(cur, bit, offset, last)
				if err != nil {
					return notFound, nil, zero, err
				}
				return rebuilt, dst, zero, nil
			}

			dst, err := t.CopyBranchReplaceChild(cur, offset, child)
			if err != nil {
				t.Release(child)
				return notFound, nil, zero, err
			}
			return rebuilt, dst, zero, nil

		case cur.datamap.Has(bit):
			offset := cur.datamap.Offset(bit)

			if !t.equal(cur.values.items[offset], probe) {
				return notFound, nil, zero, nil
			}

			if shift > 0 && cur.nodemap == 0 && cur.datamap.Count() == 2 {
				// a leaf pair - the remaining value moves up
				return collapsed, nil, cur.values.items[1-offset], nil
			}

			dst, err := t.CopyBranchRemoveValue(cur, bit, offset)
			if err != nil {
				return notFound, nil, zero, err
			}
			return rebuilt, dst, zero, nil
		}

		return notFound, nil, zero, nil

	case *Collision[T]:
		for pos, v := range cur.entries {
			if !t.equal(v, probe) {
				continue
			}

			if len(cur.entries) == 2 {
				return collapsed, nil, cur.entries[1-pos], nil
			}

			dst, err := t.CopyCollisionRemove(cur, pos)
			if err != nil {
				return notFound, nil, zero, err
			}
			return rebuilt, dst, zero, nil
		}

		return notFound, nil, zero, nil
	}

	assertf(false, "unexpected node %T", node)

	return notFound, nil, zero, nil
}

// Walk calls fn for every stored value in no particular order until fn returns false.
// It reports whether the walk was completed.
func (t *Trie[T]) Walk(root Node[T], fn func(T) bool) bool {
	switch cur := root.(type) {
	case *Branch[T]:
		for _, v := range cur.values.Items() {
			if !fn(v) {
				return false
			}
		}
		for _, child := range cur.children {
			if !t.Walk(child, fn) {
				return false
			}
		}
	case *Collision[T]:
		for _, v := range cur.entries {
			if !fn(v) {
				return false
			}
		}
	}

	return true
}
