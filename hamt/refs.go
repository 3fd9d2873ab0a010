package hamt

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/atomic"
)

// refcount counts owning edges into a node or a values block.
// A freshly built object starts with a single reference held by its creator.
type refcount struct {
	refs atomic.Int32
}

func (r *refcount) init() {
	r.refs.Store(1)
}

// Inc adds an owning reference.
func (r *refcount) Inc() {
	r.refs.Inc()
}

// Dec drops an owning reference and reports whether it was the last one.
func (r *refcount) Dec() bool {
	refs := r.refs.Dec()
	if refs < 0 {
		panic(errors.AssertionFailedf("hamt: reference count dropped to %d", refs))
	}
	return refs == 0
}

// DecUnsafe drops an owning reference that is known not to be the last one.
// It panics if that assumption does not hold.
func (r *refcount) DecUnsafe() {
	if refs := r.refs.Dec(); refs <= 0 {
		panic(errors.AssertionFailedf("hamt: unchecked release of the last reference (%d)", refs))
	}
}

// RefCount returns the current number of owning references.
func (r *refcount) RefCount() int32 {
	return r.refs.Load()
}
