package hamt

import (
	"github.com/aglyzov/go-hamt/bits"
)

// CopyCollisionInsert returns a collision node holding v followed by all entries of src.
func (f *Factory[T]) CopyCollisionInsert(src *Collision[T], v T) (*Collision[T], error) {
	dst, err := f.MakeCollisionN(len(src.entries) + 1)
	if err != nil {
		return nil, err
	}

	dst.entries[0] = v
	copy(dst.entries[1:], src.entries)

	return dst, nil
}

// CopyCollisionReplace returns a collision node equal to src except for the entry at pos,
// which becomes v.
func (f *Factory[T]) CopyCollisionReplace(src *Collision[T], pos int, v T) (*Collision[T], error) {
	assertf(pos >= 0 && pos < len(src.entries), "collision position %d out of %d", pos, len(src.entries))

	dst, err := f.MakeCollisionN(len(src.entries))
	if err != nil {
		return nil, err
	}

	copy(dst.entries, src.entries)
	dst.entries[pos] = v

	return dst, nil
}

// CopyBranchReplaceChild returns a branch equal to src except for the child at offset,
// which becomes child.
//
// The caller's reference to child moves into the result. The result shares the values
// block and every other child of src (each retained once); the replaced child is not
// retained and stays owned by src.
func (f *Factory[T]) CopyBranchReplaceChild(src *Branch[T], offset int, child Node[T]) (*Branch[T], error) {
	n := len(src.children)

	assertf(offset >= 0 && offset < n, "child offset %d out of %d", offset, n)

	var (
		dst *Branch[T]
		err error
	)

	if src.values != nil {
		dst, err = f.MakeBranchShared(n, src.values)
	} else {
		dst, err = f.MakeBranch(n)
	}

	if err != nil {
		return nil, err
	}

	dst.nodemap, dst.datamap = src.nodemap, src.datamap

	copy(dst.children, src.children)
	incNodes(dst.children[:offset])
	incNodes(dst.children[offset+1:])
	dst.children[offset] = child

	return dst, nil
}

// CopyBranchReplaceValue returns a branch equal to src with a new values block in which
// the value at offset is v. Every child of src is retained by the result.
func (f *Factory[T]) CopyBranchReplaceValue(src *Branch[T], offset int, v T) (*Branch[T], error) {
	var (
		n  = len(src.children)
		nv = src.datamap.Count()
	)

	assertf(offset >= 0 && offset < nv, "value offset %d out of %d", offset, nv)

	dst, err := f.MakeBranchValues(n, nv)
	if err != nil {
		return nil, err
	}

	dst.nodemap, dst.datamap = src.nodemap, src.datamap

	copy(dst.children, src.children)
	incNodes(dst.children)

	copy(dst.values.items, src.values.items)
	dst.values.items[offset] = v

	return dst, nil
}

// CopyBranchReplaceWithMerged returns a branch in which the inline value of the slot bit
// (stored at voffset) is replaced by the sub-node node. The bit moves from the datamap to
// the nodemap. The reference to node moves into the result; every child of src is retained.
func (f *Factory[T]) CopyBranchReplaceWithMerged(src *Branch[T], bit bits.Bitmap, voffset int, node Node[T]) (*Branch[T], error) {
	assertf(!src.nodemap.Has(bit), "slot %b already holds a child", bit)
	assertf(src.datamap.Has(bit), "slot %b holds no value", bit)
	assertf(voffset == src.datamap.Offset(bit), "value offset %d does not match slot %b", voffset, bit)

	var (
		n       = len(src.children)
		nv      = src.datamap.Count()
		noffset = src.nodemap.Offset(bit)
	)

	dst, err := f.makeBranchSized(n+1, nv-1)
	if err != nil {
		return nil, err
	}

	dst.nodemap = src.nodemap | bit
	dst.datamap = src.datamap &^ bit

	copy(dst.children[:noffset], src.children[:noffset])
	copy(dst.children[noffset+1:], src.children[noffset:])
	incNodes(src.children)
	dst.children[noffset] = node

	if dst.values != nil {
		copy(dst.values.items[:voffset], src.values.items[:voffset])
		copy(dst.values.items[voffset:], src.values.items[voffset+1:])
	}

	return dst, nil
}

// CopyBranchInsertValue returns a branch equal to src plus an inline value v in the
// previously empty slot bit. Every child of src is retained.
func (f *Factory[T]) CopyBranchInsertValue(src *Branch[T], bit bits.Bitmap, v T) (*Branch[T], error) {
	assertf(!(src.nodemap|src.datamap).Has(bit), "slot %b is not empty", bit)

	var (
		n      = len(src.children)
		nv     = src.datamap.Count()
		offset = src.datamap.Offset(bit)
	)

	dst, err := f.MakeBranchValues(n, nv+1)
	if err != nil {
		return nil, err
	}

	dst.nodemap = src.nodemap
	dst.datamap = src.datamap | bit

	copy(dst.children, src.children)
	incNodes(dst.children)

	items := src.values.Items()

	copy(dst.values.items[:offset], items[:offset])
	copy(dst.values.items[offset+1:], items[offset:])
	dst.values.items[offset] = v

	return dst, nil
}

// makeBranchSized returns a branch of n children with a fresh values block of nv values,
// or without a values block when nv is zero.
func (f *Factory[T]) makeBranchSized(n, nv int) (*Branch[T], error) {
	if nv == 0 {
		return f.MakeBranch(n)
	}
	return f.MakeBranchValues(n, nv)
}

func incNodes[T any](nodes []Node[T]) {
	for _, node := range nodes {
		node.Inc()
	}
}
