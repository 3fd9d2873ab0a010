// Package heap defines the allocation contract used by trie nodes.
//
// Go memory is garbage collected, so a Heap does not hand out raw blocks. It admits or
// rejects allocations of an exact byte size and gets the same size back when a block is
// freed. That is enough to budget the memory of a trie family and to prove that releasing
// the last version of a trie frees every node.
package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// ErrAllocationFailure is returned when a heap cannot satisfy a size request.
var ErrAllocationFailure = errors.New("heap: allocation failure")

// Heap admits allocations of a given size and takes them back on deallocation.
type Heap interface {
	Allocate(size uintptr) error
	Deallocate(size uintptr)
}

type unbounded struct{}

func (unbounded) Allocate(uintptr) error { return nil }
func (unbounded) Deallocate(uintptr)     {}

// Unbounded returns a heap that accepts every request and tracks nothing.
func Unbounded() Heap {
	return unbounded{}
}

// Stats is a snapshot of an Accounting heap.
type Stats struct {
	LiveBytes  int64
	LiveBlocks int64
	Allocs     int64
	Frees      int64
	Failures   int64
}

// Accounting is a heap that tracks live bytes and blocks and optionally enforces a byte limit.
// It is safe for concurrent use.
type Accounting struct {
	limit int64
	log   *zap.SugaredLogger

	liveBytes atomic.Int64
	allocs    *xsync.Counter
	frees     *xsync.Counter
	failures  *xsync.Counter
}

// Option configures an Accounting heap.
type Option func(*Accounting)

// WithLimit sets a budget of live bytes; zero means no limit.
func WithLimit(limit int64) Option {
	return func(h *Accounting) {
		h.limit = limit
	}
}

// WithLogger sets a logger for allocation failures.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(h *Accounting) {
		h.log = log
	}
}

// New returns a new Accounting heap.
func New(opts ...Option) *Accounting {
	h := &Accounting{
		log:      zap.NewNop().Sugar(),
		allocs:   xsync.NewCounter(),
		frees:    xsync.NewCounter(),
		failures: xsync.NewCounter(),
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.limit < 0 {
		h.limit = 0
	}

	return h
}

// Allocate reserves size bytes or returns an error matching ErrAllocationFailure.
func (h *Accounting) Allocate(size uintptr) error {
	live := h.liveBytes.Add(int64(size))

	if h.limit > 0 && live > h.limit {
		// roll back the reservation
		h.liveBytes.Sub(int64(size))
		h.failures.Inc()

		h.log.Debugw("allocation rejected", "size", size, "live", live-int64(size), "limit", h.limit)

		return errors.Wrapf(ErrAllocationFailure, "cannot allocate %d bytes (limit %d)", size, h.limit)
	}

	h.allocs.Inc()

	return nil
}

// Deallocate gives size bytes back. Giving back more than is live is a programming error.
func (h *Accounting) Deallocate(size uintptr) {
	if live := h.liveBytes.Sub(int64(size)); live < 0 {
		panic(errors.AssertionFailedf("heap: deallocated %d bytes, live bytes dropped to %d", size, live))
	}

	h.frees.Inc()
}

// Stats returns a snapshot of the heap counters.
func (h *Accounting) Stats() Stats {
	allocs, frees := h.allocs.Value(), h.frees.Value()

	return Stats{
		LiveBytes:  h.liveBytes.Load(),
		LiveBlocks: allocs - frees,
		Allocs:     allocs,
		Frees:      frees,
		Failures:   h.failures.Value(),
	}
}

// Limit returns the byte budget (zero if unlimited).
func (h *Accounting) Limit() int64 {
	return h.limit
}
