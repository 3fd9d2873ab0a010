package hamt

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/aglyzov/go-hamt/bits"
	"github.com/aglyzov/go-hamt/heap"
)

// Factory builds trie nodes of a single width B, accounting them against a heap.
//
// Construction primitives return nodes holding one reference owned by the caller.
// Children and values blocks passed in are either retained (Inc) or moved into the
// result, as documented per method. A failed call returns an error matching
// heap.ErrAllocationFailure and leaves every reference count untouched.
type Factory[T any] struct {
	bits bits.Bits
	heap heap.Heap
	log  *zap.SugaredLogger
}

// NewFactory returns a new node factory.
func NewFactory[T any](opts ...Option) (*Factory[T], error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Factory[T]{
		bits: cfg.bits,
		heap: cfg.heap,
		log:  cfg.log,
	}, nil
}

// Bits returns the branching width of the factory.
func (f *Factory[T]) Bits() bits.Bits {
	return f.bits
}

// MakeBranch returns an empty branch sized for n children without a values block.
// The caller fills the bitmaps and the children.
func (f *Factory[T]) MakeBranch(n int) (*Branch[T], error) {
	assertf(n >= 0 && n <= int(f.bits.Branches()), "branch of %d children with %v", n, f.bits)

	if err := f.allocate("branch", sizeofBranch[T](n)); err != nil {
		return nil, err
	}

	node := &Branch[T]{children: make([]Node[T], n)}
	node.init()

	return node, nil
}

// MakeBranchShared returns a branch sized for n children sharing an existing values block.
func (f *Factory[T]) MakeBranchShared(n int, values *Values[T]) (*Branch[T], error) {
	assertf(values != nil, "shared values block is nil")

	node, err := f.MakeBranch(n)
	if err != nil {
		return nil, err
	}

	values.Inc()
	node.values = values

	return node, nil
}

// MakeBranchValues returns a branch sized for n children and a fresh values block of nv
// values. The caller fills the bitmaps, the children and the values.
func (f *Factory[T]) MakeBranchValues(n, nv int) (*Branch[T], error) {
	assertf(nv > 0 && nv <= int(f.bits.Branches()), "values block of %d with %v", nv, f.bits)

	node, err := f.MakeBranch(n)
	if err != nil {
		return nil, err
	}

	if err = f.allocate("values", sizeofValues[T](nv)); err != nil {
		f.heap.Deallocate(node.sizeof())
		return nil, err
	}

	node.values = &Values[T]{items: make([]T, nv)}
	node.values.init()

	return node, nil
}

// MakeBranchChild returns a branch sized for n children with the first slot taken by child.
// The reference to child moves into the result; the bitmaps are left to the caller.
func (f *Factory[T]) MakeBranchChild(n int, child Node[T]) (*Branch[T], error) {
	assertf(n >= 1, "branch of %d children cannot hold a child", n)

	node, err := f.MakeBranch(n)
	if err != nil {
		return nil, err
	}

	node.children[0] = child

	return node, nil
}

// MakeBranchPair returns a leaf branch holding two values at two different slots.
// The values are stored in ascending slot order.
func (f *Factory[T]) MakeBranchPair(idx1 uint, v1 T, idx2 uint, v2 T) (*Branch[T], error) {
	assertf(idx1 != idx2, "pair of values in the same slot %d", idx1)

	node, err := f.MakeBranchValues(0, 2)
	if err != nil {
		return nil, err
	}

	node.datamap = bits.Bit(idx1) | bits.Bit(idx2)

	if idx1 < idx2 {
		node.values.items[0], node.values.items[1] = v1, v2
	} else {
		node.values.items[0], node.values.items[1] = v2, v1
	}

	return node, nil
}

// MakeCollisionN returns a collision node of n zero entries for the caller to fill.
func (f *Factory[T]) MakeCollisionN(n int) (*Collision[T], error) {
	assertf(n >= 2, "collision of %d entries", n)

	if err := f.allocate("collision", sizeofCollision[T](n)); err != nil {
		return nil, err
	}

	node := &Collision[T]{entries: make([]T, n)}
	node.init()

	return node, nil
}

// MakeCollision returns a collision node of two entries.
func (f *Factory[T]) MakeCollision(v1, v2 T) (*Collision[T], error) {
	node, err := f.MakeCollisionN(2)
	if err != nil {
		return nil, err
	}

	node.entries[0], node.entries[1] = v1, v2

	return node, nil
}

// Release drops one owning reference to a node. When it was the last one, the node gives
// up its references to its children and values block and its storage is freed.
func (f *Factory[T]) Release(node Node[T]) {
	if node == nil || !node.Dec() {
		return
	}

	switch node := node.(type) {
	case *Branch[T]:
		for _, child := range node.children {
			f.Release(child)
		}
		f.deleteBranch(node)
	case *Collision[T]:
		f.deleteCollision(node)
	}
}

// deleteBranch frees the storage of an unreachable branch. The values block is freed only
// if this branch held its last reference; children are not touched.
func (f *Factory[T]) deleteBranch(node *Branch[T]) {
	if vs := node.values; vs != nil && vs.Dec() {
		f.heap.Deallocate(sizeofValues[T](len(vs.items)))
	}
	f.heap.Deallocate(node.sizeof())
}

func (f *Factory[T]) deleteCollision(node *Collision[T]) {
	f.heap.Deallocate(node.sizeof())
}

func (f *Factory[T]) allocate(what string, size uintptr) error {
	if err := f.heap.Allocate(size); err != nil {
		f.log.Debugw("allocation failed", "what", what, "size", size, "error", err)
		return errors.Wrapf(err, "hamt: allocate %s", what)
	}
	return nil
}

// assertf panics with an assertion failure when a precondition does not hold.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(errors.AssertionFailedf("hamt: "+format, args...))
	}
}
