// Package set implements a persistent hash set on top of a hash array mapped trie.
//
// Every Set is an immutable version. Add and Del return a new version sharing most of its
// nodes with the receiver, which stays valid until it is released.
package set

import (
	"github.com/aglyzov/go-hamt/hamt"
	"github.com/aglyzov/go-hamt/hasher"
)

type Set[T any] struct {
	trie *hamt.Trie[T]
	root hamt.Node[T]
	size int
}

// NewSet returns an empty set of values hashed and compared with the given functions.
func NewSet[T any](hash hamt.HashFunc[T], equal hamt.EqualFunc[T], opts ...hamt.Option) (*Set[T], error) {
	trie, err := hamt.New(hash, equal, opts...)
	if err != nil {
		return nil, err
	}

	root, err := trie.Empty()
	if err != nil {
		return nil, err
	}

	return &Set[T]{trie: trie, root: root}, nil
}

// NewStringSet returns an empty set of strings.
func NewStringSet(opts ...hamt.Option) (*Set[string], error) {
	return NewSet(hasher.String, hamt.Equal[string], opts...)
}

// Len returns the number of values in the set.
func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.size
}

func (s *Set[T]) Empty() bool {
	return s.Len() == 0
}

// Has reports whether the set holds a value equal to v.
func (s *Set[T]) Has(v T) bool {
	if s.Empty() {
		return false
	}
	_, ok := s.trie.Find(s.root, v)
	return ok
}

// Add returns a version of the set holding v. The flag reports whether v was not there yet.
func (s *Set[T]) Add(v T) (*Set[T], bool, error) {
	root, err := s.trie.Add(s.root, v)
	if err != nil {
		return nil, false, err
	}
	if root == nil {
		return s.Clone(), false, nil
	}
	return &Set[T]{trie: s.trie, root: root, size: s.size + 1}, true, nil
}

// Del returns a version of the set without v. The flag reports whether v was there.
func (s *Set[T]) Del(v T) (*Set[T], bool, error) {
	root, err := s.trie.Remove(s.root, v)
	if err != nil {
		return nil, false, err
	}
	if root == nil {
		return s.Clone(), false, nil
	}
	return &Set[T]{trie: s.trie, root: root, size: s.size - 1}, true, nil
}

// Iter calls handler for every value in no particular order until it returns false.
func (s *Set[T]) Iter(handler func(T) bool) bool {
	return s.trie.Walk(s.root, handler)
}

// Values returns all values of the set in no particular order.
func (s *Set[T]) Values() []T {
	values := make([]T, 0, s.size)

	s.Iter(func(v T) bool {
		values = append(values, v)
		return true
	})

	return values
}

// Clone returns another handle to the same version. Both have to be released.
func (s *Set[T]) Clone() *Set[T] {
	s.root.Inc()
	return &Set[T]{trie: s.trie, root: s.root, size: s.size}
}

// Release drops the version. The set must not be used afterwards.
func (s *Set[T]) Release() {
	if s.root == nil {
		return
	}
	s.trie.Release(s.root)
	s.root = nil
}

// Check verifies the structure of the underlying trie.
func (s *Set[T]) Check() error {
	return s.trie.Check(s.root)
}
