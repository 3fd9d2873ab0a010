package set

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/aglyzov/go-hamt/bits"
	"github.com/aglyzov/go-hamt/hamt"
	"github.com/aglyzov/go-hamt/hasher"
	"github.com/aglyzov/go-hamt/heap"
)

func TestSet_Empty(t *testing.T) {
	t.Parallel()

	s, err := NewStringSet()
	require.NoError(t, err)

	assert.True(t, s.Empty())
	assert.Zero(t, s.Len())
	assert.False(t, s.Has(""))
	assert.False(t, s.Has("abc"))
	assert.Empty(t, s.Values())

	var nilSet *Set[string]
	assert.Zero(t, nilSet.Len())
	assert.False(t, nilSet.Has("abc"))

	s.Release()
	s.Release()
}

func TestSet_AddDel(t *testing.T) {
	t.Parallel()

	h := heap.New()

	s0, err := NewStringSet(hamt.WithHeap(h))
	require.NoError(t, err)

	s1, added, err := s0.Add("one")
	require.NoError(t, err)
	assert.True(t, added)

	s2, added, err := s1.Add("one")
	require.NoError(t, err)
	assert.False(t, added)

	s3, removed, err := s2.Del("one")
	require.NoError(t, err)
	assert.True(t, removed)

	s4, removed, err := s3.Del("one")
	require.NoError(t, err)
	assert.False(t, removed)

	for _, tcase := range []*struct {
		Name   string
		Set    *Set[string]
		ExpLen int
	}{
		{"s0", s0, 0},
		{"s1", s1, 1},
		{"s2", s2, 1},
		{"s3", s3, 0},
		{"s4", s4, 0},
	} {
		assert.Equal(t, tcase.ExpLen, tcase.Set.Len(), tcase.Name)
		assert.Equal(t, tcase.ExpLen == 1, tcase.Set.Has("one"), tcase.Name)
		require.NoError(t, tcase.Set.Check(), tcase.Name)
	}

	for _, s := range []*Set[string]{s3, s1, s4, s0, s2} {
		s.Release()
	}

	assert.Zero(t, h.Stats().LiveBytes)
}

func TestSet_FakeData(t *testing.T) {
	t.Parallel()

	const (
		total = 10_000
		seed  = 1234567890
	)

	var (
		fake  = gofakeit.New(seed)
		h     = heap.New()
		state = map[string]struct{}{}
	)

	s, err := NewStringSet(hamt.WithHeap(h), hamt.WithBits(4))
	require.NoError(t, err)

	for i := 0; i < total; i++ {
		key := fake.Word()

		next, added, err := s.Add(key)
		require.NoError(t, err)

		_, existed := state[key]
		assert.Equal(t, !existed, added, key)
		state[key] = struct{}{}

		s.Release()
		s = next
	}

	require.NoError(t, s.Check())
	assert.Equal(t, len(state), s.Len())
	assert.ElementsMatch(t, keysOf(state), s.Values())

	for key := range state {
		assert.True(t, s.Has(key), key)

		next, removed, err := s.Del(key)
		require.NoError(t, err)
		assert.True(t, removed, key)

		s.Release()
		s = next
	}

	assert.True(t, s.Empty())

	s.Release()
	assert.Zero(t, h.Stats().LiveBytes)
	assert.Zero(t, h.Stats().LiveBlocks)
}

func TestSet_Collisions(t *testing.T) {
	t.Parallel()

	s, err := NewSet(hasher.Constant[int](0xABCD), hamt.Equal[int])
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		next, added, err := s.Add(i)
		require.NoError(t, err)
		require.True(t, added)

		s.Release()
		s = next
	}

	require.NoError(t, s.Check())

	for i := 0; i < 100; i++ {
		assert.True(t, s.Has(i), i)
	}
	assert.False(t, s.Has(100))

	s.Release()
}

func TestSet_ConcurrentVersions(t *testing.T) {
	t.Parallel()

	const (
		total    = 1_000
		versions = 64
	)

	h := heap.New()

	base, err := NewSet(hasher.Uint64, hamt.Equal[uint64], hamt.WithHeap(h), hamt.WithBits(bits.MaxBits))
	require.NoError(t, err)

	for i := uint64(0); i < total; i++ {
		next, _, err := base.Add(i)
		require.NoError(t, err)

		base.Release()
		base = next
	}

	sets := make([]*Set[uint64], versions)
	for i := range sets {
		sets[i], _, err = base.Add(total + uint64(i))
		require.NoError(t, err)
	}

	base.Release()

	var g errgroup.Group

	for i, s := range sets {
		i, s := i, s

		g.Go(func() error {
			defer s.Release()

			if err := s.Check(); err != nil {
				return err
			}

			assert.True(t, s.Has(total+uint64(i)))
			assert.Equal(t, total+1, s.Len())
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Zero(t, h.Stats().LiveBytes)
	assert.Zero(t, h.Stats().LiveBlocks)
}

func keysOf(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
