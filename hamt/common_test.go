package hamt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aglyzov/go-hamt/bits"
	"github.com/aglyzov/go-hamt/heap"
)

// item is a test value with an explicit hash.
type item struct {
	Key  string
	Hash bits.Hash
}

func (it item) String() string {
	return fmt.Sprintf("%s#%x", it.Key, it.Hash)
}

func itemHash(it item) bits.Hash { return it.Hash }

func itemEqual(a, b item) bool { return a.Key == b.Key }

func newTestTrie(t testing.TB, opts ...Option) (*Trie[item], *heap.Accounting) {
	t.Helper()

	h := heap.New()

	trie, err := New(itemHash, itemEqual, append([]Option{WithHeap(h)}, opts...)...)
	require.NoError(t, err)

	return trie, h
}

// mustAdd adds values one by one, releasing intermediate roots, and returns the final root.
func mustAdd(t testing.TB, trie *Trie[item], root Node[item], values ...item) Node[item] {
	t.Helper()

	for _, v := range values {
		next, err := trie.Add(root, v)
		require.NoError(t, err)
		require.NotNil(t, next, "%v already present", v)

		trie.Release(root)
		root = next
	}

	return root
}

func mustEmpty(t testing.TB, trie *Trie[item]) Node[item] {
	t.Helper()

	root, err := trie.Empty()
	require.NoError(t, err)

	return root
}

// flakyHeap admits a fixed number of allocations and rejects the rest.
type flakyHeap struct {
	*heap.Accounting
	budget int
}

func (h *flakyHeap) Allocate(size uintptr) error {
	if h.budget == 0 {
		return heap.ErrAllocationFailure
	}
	if h.budget > 0 {
		h.budget--
	}
	return h.Accounting.Allocate(size)
}

func collectAll[T any](trie *Trie[T], root Node[T]) []T {
	var all []T

	trie.Walk(root, func(v T) bool {
		all = append(all, v)
		return true
	})

	return all
}
