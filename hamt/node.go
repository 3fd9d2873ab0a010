// Package hamt implements the nodes of a persistent hash array-mapped trie and the
// path-copying algorithms that build new trie versions out of old ones.
//
// A trie is made of two node shapes:
//
//   - Branch: two bitmaps over the 1<<B slots of a hash slice, a shared block of inline
//     values (one per datamap bit) and a dense array of children (one per nodemap bit);
//   - Collision: a flat array of values whose hashes are equal through the whole depth.
//
//	                 nodemap: 0b0100_0000   datamap: 0b0000_1001
//	[Branch] --+-- values:   [v0, v3]         (shared with other versions)
//	           `-- children: [Branch(slot 6)]
//
// Nodes are never mutated after construction except for their reference counts. Every
// update builds new nodes along the path from the root to the touched slot and shares
// everything else with the previous version.
package hamt

import (
	"unsafe"

	"github.com/aglyzov/go-hamt/bits"
)

// Node is either a *Branch or a *Collision.
type Node[T any] interface {
	Inc()
	Dec() bool
	DecUnsafe()
	RefCount() int32

	sizeof() uintptr
}

// Values is a reference counted block of inline values shared by branch versions.
type Values[T any] struct {
	refcount
	items []T
}

// Items returns a read-only view of the values.
func (vs *Values[T]) Items() []T {
	if vs == nil {
		return nil
	}
	return vs.items
}

// Branch is an inner node of a trie.
type Branch[T any] struct {
	refcount
	nodemap  bits.Bitmap
	datamap  bits.Bitmap
	values   *Values[T]
	children []Node[T]
}

// Nodemap returns the bitmap of slots holding a child.
func (n *Branch[T]) Nodemap() bits.Bitmap { return n.nodemap }

// Datamap returns the bitmap of slots holding an inline value.
func (n *Branch[T]) Datamap() bits.Bitmap { return n.datamap }

// Block returns the shared values block (nil when the datamap is empty).
func (n *Branch[T]) Block() *Values[T] { return n.values }

// Values returns a read-only view of the inline values ordered by slot.
func (n *Branch[T]) Values() []T { return n.values.Items() }

// Children returns a read-only view of the children ordered by slot.
func (n *Branch[T]) Children() []Node[T] { return n.children }

// Value returns the inline value stored in a slot bit.
func (n *Branch[T]) Value(bit bits.Bitmap) (T, bool) {
	if !n.datamap.Has(bit) {
		var zero T
		return zero, false
	}
	return n.values.items[n.datamap.Offset(bit)], true
}

// Child returns the child stored in a slot bit.
func (n *Branch[T]) Child(bit bits.Bitmap) (Node[T], bool) {
	if !n.nodemap.Has(bit) {
		return nil, false
	}
	return n.children[n.nodemap.Offset(bit)], true
}

func (n *Branch[T]) sizeof() uintptr {
	return sizeofBranch[T](len(n.children))
}

// Collision is a leaf node holding values with fully colliding hashes.
type Collision[T any] struct {
	refcount
	entries []T
}

// Count returns the number of entries.
func (n *Collision[T]) Count() int { return len(n.entries) }

// Entries returns a read-only view of the entries.
func (n *Collision[T]) Entries() []T { return n.entries }

func (n *Collision[T]) sizeof() uintptr {
	return sizeofCollision[T](len(n.entries))
}

// sizeofBranch returns the byte size of a branch with n children.
func sizeofBranch[T any](n int) uintptr {
	var (
		hdr   Branch[T]
		child Node[T]
	)
	return unsafe.Sizeof(hdr) + uintptr(n)*unsafe.Sizeof(child)
}

// sizeofValues returns the byte size of a values block with n values.
func sizeofValues[T any](n int) uintptr {
	var (
		hdr Values[T]
		val T
	)
	return unsafe.Sizeof(hdr) + uintptr(n)*unsafe.Sizeof(val)
}

// sizeofCollision returns the byte size of a collision node with n entries.
func sizeofCollision[T any](n int) uintptr {
	var (
		hdr Collision[T]
		val T
	)
	return unsafe.Sizeof(hdr) + uintptr(n)*unsafe.Sizeof(val)
}
