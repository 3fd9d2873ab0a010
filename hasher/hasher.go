// Package hasher provides 64-bit hash functions for trie values.
package hasher

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// String hashes s with 64-bit MurmurHash3.
func String(s string) uint64 {
	return murmur3.Sum64([]byte(s))
}

// Bytes hashes b with 64-bit MurmurHash3.
func Bytes(b []byte) uint64 {
	return murmur3.Sum64(b)
}

// XXString hashes s with xxHash.
func XXString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// XXBytes hashes b with xxHash.
func XXBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Uint64 hashes the little-endian bytes of v with 64-bit MurmurHash3.
func Uint64(v uint64) uint64 {
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], v)

	return murmur3.Sum64(buf[:])
}

// Constant returns a hash function that maps every value to h.
// Every value hashed with it ends up in a single collision node.
func Constant[T any](h uint64) func(T) uint64 {
	return func(T) uint64 { return h }
}
