package hamt

import (
	"github.com/aglyzov/go-hamt/bits"
)

// CopyCollisionRemove returns a collision node equal to src without the entry at pos.
// A collision node of two entries collapses into an inline value instead.
func (f *Factory[T]) CopyCollisionRemove(src *Collision[T], pos int) (*Collision[T], error) {
	n := len(src.entries)

	assertf(n > 2, "collision of %d entries cannot shrink", n)
	assertf(pos >= 0 && pos < n, "collision position %d out of %d", pos, n)

	dst, err := f.MakeCollisionN(n - 1)
	if err != nil {
		return nil, err
	}

	copy(dst.entries[:pos], src.entries[:pos])
	copy(dst.entries[pos:], src.entries[pos+1:])

	return dst, nil
}

// CopyBranchRemoveValue returns a branch equal to src without the inline value of the slot
// bit (stored at offset). Every child of src is retained.
func (f *Factory[T]) CopyBranchRemoveValue(src *Branch[T], bit bits.Bitmap, offset int) (*Branch[T], error) {
	assertf(src.datamap.Has(bit), "slot %b holds no value", bit)
	assertf(offset == src.datamap.Offset(bit), "value offset %d does not match slot %b", offset, bit)

	var (
		n  = len(src.children)
		nv = src.datamap.Count()
	)

	dst, err := f.makeBranchSized(n, nv-1)
	if err != nil {
		return nil, err
	}

	dst.nodemap = src.nodemap
	dst.datamap = src.datamap &^ bit

	copy(dst.children, src.children)
	incNodes(dst.children)

	if dst.values != nil {
		copy(dst.values.items[:offset], src.values.items[:offset])
		copy(dst.values.items[offset:], src.values.items[offset+1:])
	}

	return dst, nil
}

// CopyBranchInlineChild returns a branch in which the child of the slot bit (stored at
// noffset) is replaced by the inline value v. The bit moves from the nodemap to the
// datamap. The replaced child is not retained; every other child is.
func (f *Factory[T]) CopyBranchInlineChild(src *Branch[T], bit bits.Bitmap, noffset int, v T) (*Branch[T], error) {
	assertf(src.nodemap.Has(bit), "slot %b holds no child", bit)
	assertf(!src.datamap.Has(bit), "slot %b already holds a value", bit)
	assertf(noffset == src.nodemap.Offset(bit), "child offset %d does not match slot %b", noffset, bit)

	var (
		n       = len(src.children)
		nv      = src.datamap.Count()
		voffset = src.datamap.Offset(bit)
	)

	dst, err := f.MakeBranchValues(n-1, nv+1)
	if err != nil {
		return nil, err
	}

	dst.nodemap = src.nodemap &^ bit
	dst.datamap = src.datamap | bit

	copy(dst.children[:noffset], src.children[:noffset])
	copy(dst.children[noffset:], src.children[noffset+1:])
	incNodes(dst.children)

	items := src.values.Items()

	copy(dst.values.items[:voffset], items[:voffset])
	copy(dst.values.items[voffset+1:], items[voffset:])
	dst.values.items[voffset] = v

	return dst, nil
}
