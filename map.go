// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// package avlhash is a Go implementation of a fixed size hash table whose
// buckets are AVL trees rather than linked lists.
//
// # Buckets
//
// A chained hash table degrades to a linear scan of one bucket when many
// keys collide, whether by accident or because an adversary chose them. Here
// each bucket is a height balanced binary search tree, so even if every key
// lands in the same bucket a lookup visits O(log n) nodes. The number of
// buckets is fixed when the Map is created and the table never rehashes;
// it is up to the caller to size it for the expected load.
//
// # AVL trees
//
// An AVL tree keeps, for every node, the heights of its left and right
// subtrees within one of each other. Each node caches its height (a leaf has
// height 0, an absent child counts as -1) and the difference
// height(left)-height(right) is the node's balance factor. After an insert
// the heights are recomputed walking up from the new leaf. The first
// ancestor whose balance factor reaches +/-2 is fixed with one rotation,
// or two when the new key went down a zigzag path (left then right, or
// right then left). That rotation restores the subtree to its previous
// height, so the walk stops there. Deletes splice out the node, or its
// in-order successor when it has two children, and then walk all the way up
// rotating wherever the balance factor reached +/-2, since a delete can
// require a rotation at every level.
//
// # Implementation
//
// Nodes are stored in an index addressed arena and refer to their children
// and parent by index. All the trees of a Map share one arena; a bucket is
// just the index of its root. The arena level operations take a root index
// and return the root index after the operation, which callers store back:
// a rotation at the top of a tree changes which node is the root.
//
// Hashing uses xxhash by default. Keys with an underlying string type hash
// their bytes; other ordered types hash their in-memory representation.
package avlhash

import (
	"cmp"
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/pkg/errors"
)

const debug = false

// Map is an unordered map from keys to values with Put, Get, Delete, and All
// operations. Keys are spread over a fixed number of buckets by a hash
// function and each bucket is an AVL tree ordered by key, so the worst case
// cost of an operation is logarithmic in the size of the largest bucket.
//
// A Map is NOT goroutine-safe.
type Map[K cmp.Ordered, V any] struct {
	hash hashFn[K]
	seed uintptr
	// arena holds the nodes of every bucket.
	arena arena[K, V]
	// roots[i] is the root of bucket i, nilNode if the bucket is empty.
	roots []nodeID
	// capacity is the arena pre-allocation hint.
	capacity int
}

// New constructs a new Map with the specified number of buckets, which must
// be positive.
func New[K cmp.Ordered, V any](buckets int, options ...Option[K, V]) *Map[K, V] {
	if buckets <= 0 {
		panic(fmt.Sprintf("avlhash: invalid bucket count %d", buckets))
	}
	m := &Map[K, V]{
		hash:  defaultHasher[K](),
		seed:  uintptr(rand.Uint64()),
		roots: make([]nodeID, buckets),
	}
	for _, op := range options {
		op.apply(m)
	}
	m.arena.init(m.capacity)
	return m
}

// Bucket returns the index of the bucket that key belongs to, in
// [0, Buckets()).
func (m *Map[K, V]) Bucket(key K) int {
	return m.bucket(&key)
}

func (m *Map[K, V]) bucket(key *K) int {
	// The hash is unsigned so the remainder can not be negative.
	return int(m.hash(key, m.seed) % uintptr(len(m.roots)))
}

// Put inserts an entry into the map. If an entry with the same key already
// exists Put leaves it untouched and returns false.
func (m *Map[K, V]) Put(key K, value V) bool {
	b := m.bucket(&key)
	if m.arena.find(m.roots[b], key) != nilNode {
		if debug {
			fmt.Printf("put(%v): exists in bucket %d\n", key, b)
		}
		return false
	}
	root, err := m.arena.insert(m.roots[b], key, value)
	if err != nil {
		// Unreachable: presence was checked above.
		panic(errors.Wrap(err, "put"))
	}
	m.roots[b] = root
	m.arena.checkInvariants(root)
	return true
}

// Get retrieves the value from the map for the specified key, return ok=false
// if the key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	b := m.bucket(&key)
	if x := m.arena.find(m.roots[b], key); x != nilNode {
		return m.arena.at(x).value, true
	}
	return value, false
}

// Delete deletes the entry corresponding to the specified key from the map.
// It returns an error wrapping ErrKeyNotFound if there is no such entry.
func (m *Map[K, V]) Delete(key K) error {
	b := m.bucket(&key)
	root, err := m.arena.delete(m.roots[b], key)
	if err != nil {
		return err
	}
	m.roots[b] = root
	m.arena.checkInvariants(root)
	return nil
}

// Len returns the number of entries in the map, summing the size of every
// bucket.
func (m *Map[K, V]) Len() int {
	n := 0
	for _, root := range m.roots {
		n += m.arena.count(root)
	}
	return n
}

// Buckets returns the number of buckets.
func (m *Map[K, V]) Buckets() int {
	return len(m.roots)
}

// Distribution returns the number of entries in each bucket. It is intended
// for measuring how evenly the hash function spreads keys.
func (m *Map[K, V]) Distribution() []int {
	r := make([]int, len(m.roots))
	for i, root := range m.roots {
		r[i] = m.arena.count(root)
	}
	return r
}

// Heights returns the height of each bucket's tree, -1 for empty buckets.
func (m *Map[K, V]) Heights() []int {
	r := make([]int, len(m.roots))
	for i, root := range m.roots {
		r[i] = int(m.arena.height(root))
	}
	return r
}

// Keys returns an iterator over every key in the map, bucket by bucket.
// Keys within a bucket are in ascending order; there is no order across
// buckets.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		m.All(func(k K, _ V) bool {
			return yield(k)
		})
	}
}

// All calls yield sequentially for each key and value present in the map. If
// yield returns false, range stops the iteration. The map must not be
// mutated during iteration.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	for _, root := range m.roots {
		if !m.arena.walk(root, yield) {
			return
		}
	}
}

// Clear deletes all entries from the map. The bucket count is unchanged.
func (m *Map[K, V]) Clear() {
	m.arena.reset()
	clear(m.roots)
}
