// Package dict implements a persistent hash map on top of a hash array mapped trie.
package dict

import (
	"fmt"

	"github.com/aglyzov/go-hamt/bits"
	"github.com/aglyzov/go-hamt/hamt"
	"github.com/aglyzov/go-hamt/hasher"
)

// Item is a key with its value. Items are hashed and compared by key only.
type Item[K, V any] struct {
	Key K
	Val V
}

func (it Item[K, V]) String() string {
	return fmt.Sprintf("%v:%v", it.Key, it.Val)
}

// Dict is an immutable version of a map. Set and Del return new versions.
type Dict[K, V any] struct {
	trie *hamt.Trie[Item[K, V]]
	root hamt.Node[Item[K, V]]
	size int
}

// NewDict returns an empty dict with keys hashed and compared with the given functions.
func NewDict[K, V any](hash hamt.HashFunc[K], equal hamt.EqualFunc[K], opts ...hamt.Option) (*Dict[K, V], error) {
	trie, err := hamt.New(
		func(it Item[K, V]) bits.Hash { return hash(it.Key) },
		func(a, b Item[K, V]) bool { return equal(a.Key, b.Key) },
		opts...,
	)
	if err != nil {
		return nil, err
	}

	root, err := trie.Empty()
	if err != nil {
		return nil, err
	}

	return &Dict[K, V]{trie: trie, root: root}, nil
}

// NewStringDict returns an empty dict keyed by strings.
func NewStringDict[V any](opts ...hamt.Option) (*Dict[string, V], error) {
	return NewDict[string, V](hasher.XXString, hamt.Equal[string], opts...)
}

// Len returns the number of keys in the dict.
func (d *Dict[K, V]) Len() int {
	if d == nil {
		return 0
	}
	return d.size
}

func (d *Dict[K, V]) Empty() bool {
	return d.Len() == 0
}

// Get returns a value associated with the key.
func (d *Dict[K, V]) Get(key K) (val V, ok bool) {
	if d.Empty() {
		return
	}

	it, ok := d.trie.Find(d.root, Item[K, V]{Key: key})
	return it.Val, ok
}

// Set returns a version of the dict with key mapped to val.
func (d *Dict[K, V]) Set(key K, val V) (*Dict[K, V], error) {
	root, added, err := d.trie.Update(d.root, Item[K, V]{Key: key, Val: val})
	if err != nil {
		return nil, err
	}

	size := d.size
	if added {
		size++
	}

	return &Dict[K, V]{trie: d.trie, root: root, size: size}, nil
}

// Replace applies a func to the previous value of a key (if any) and returns a version of
// the dict with the key mapped to the result.
func (d *Dict[K, V]) Replace(key K, replace func(prev V, ok bool) V) (*Dict[K, V], error) {
	prev, ok := d.Get(key)
	return d.Set(key, replace(prev, ok))
}

// Del returns a version of the dict without the key and the value it was mapped to.
func (d *Dict[K, V]) Del(key K) (*Dict[K, V], V, bool, error) {
	val, ok := d.Get(key)
	if !ok {
		return d.Clone(), val, false, nil
	}

	root, err := d.trie.Remove(d.root, Item[K, V]{Key: key})
	if err != nil {
		var zero V
		return nil, zero, false, err
	}

	return &Dict[K, V]{trie: d.trie, root: root, size: d.size - 1}, val, true, nil
}

// Iter calls handler for every item in no particular order until it returns false.
func (d *Dict[K, V]) Iter(handler func(Item[K, V]) bool) bool {
	return d.trie.Walk(d.root, handler)
}

// Keys returns all keys in no particular order.
func (d *Dict[K, V]) Keys() []K {
	keys := make([]K, 0, d.size)

	d.Iter(func(it Item[K, V]) bool {
		keys = append(keys, it.Key)
		return true
	})

	return keys
}

// Items returns all items in no particular order.
func (d *Dict[K, V]) Items() []Item[K, V] {
	items := make([]Item[K, V], 0, d.size)

	d.Iter(func(it Item[K, V]) bool {
		items = append(items, it)
		return true
	})

	return items
}

// Clone returns another handle to the same version. Both have to be released.
func (d *Dict[K, V]) Clone() *Dict[K, V] {
	d.root.Inc()
	return &Dict[K, V]{trie: d.trie, root: d.root, size: d.size}
}

// Release drops the version. The dict must not be used afterwards.
func (d *Dict[K, V]) Release() {
	if d.root == nil {
		return
	}
	d.trie.Release(d.root)
	d.root = nil
}

// Check verifies the structure of the underlying trie.
func (d *Dict[K, V]) Check() error {
	return d.trie.Check(d.root)
}
