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

package avlhash

import (
	"cmp"
	"io"
	"iter"

	"github.com/pkg/errors"
)

// Tree is an ordered map from keys to values kept height balanced as an AVL
// tree. For every node the heights of its two subtrees differ by at most
// one, so lookups, inserts and deletes take O(log n) time. The zero value is
// an empty tree ready to use.
//
// A Tree is NOT goroutine-safe.
type Tree[K cmp.Ordered, V any] struct {
	arena arena[K, V]
	root  nodeID
}

// NewTree returns an empty tree.
func NewTree[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{}
}

// Get returns the value stored for key, or ok=false if the key is absent.
func (t *Tree[K, V]) Get(key K) (value V, ok bool) {
	if x := t.arena.find(t.root, key); x != nilNode {
		return t.arena.at(x).value, true
	}
	return value, false
}

// Insert adds an entry for key. It returns an error wrapping ErrDuplicateKey,
// and leaves the tree unchanged, if the key is already present.
func (t *Tree[K, V]) Insert(key K, value V) error {
	root, err := t.arena.insert(t.root, key, value)
	if err != nil {
		return err
	}
	t.root = root
	t.arena.checkInvariants(t.root)
	return nil
}

// Delete removes the entry for key. It returns an error wrapping
// ErrKeyNotFound if there is no such entry.
func (t *Tree[K, V]) Delete(key K) error {
	root, err := t.arena.delete(t.root, key)
	if err != nil {
		return err
	}
	t.root = root
	t.arena.checkInvariants(t.root)
	return nil
}

// Min returns the entry with the smallest key.
func (t *Tree[K, V]) Min() (key K, value V, err error) {
	x := t.arena.minimum(t.root)
	if x == nilNode {
		return key, value, errors.Wrap(ErrEmptyTree, "min")
	}
	n := t.arena.at(x)
	return n.key, n.value, nil
}

// Max returns the entry with the largest key.
func (t *Tree[K, V]) Max() (key K, value V, err error) {
	x := t.arena.maximum(t.root)
	if x == nilNode {
		return key, value, errors.Wrap(ErrEmptyTree, "max")
	}
	n := t.arena.at(x)
	return n.key, n.value, nil
}

// Successor returns the smallest key greater than key, with ok=false if key
// is the largest key in the tree. key itself must be present.
func (t *Tree[K, V]) Successor(key K) (next K, ok bool, err error) {
	x := t.arena.find(t.root, key)
	if x == nilNode {
		return next, false, errors.Wrapf(ErrKeyNotFound, "successor %v", key)
	}
	if s := t.arena.next(x); s != nilNode {
		return t.arena.at(s).key, true, nil
	}
	return next, false, nil
}

// Predecessor returns the largest key less than key, with ok=false if key is
// the smallest key in the tree. key itself must be present.
func (t *Tree[K, V]) Predecessor(key K) (prev K, ok bool, err error) {
	x := t.arena.find(t.root, key)
	if x == nilNode {
		return prev, false, errors.Wrapf(ErrKeyNotFound, "predecessor %v", key)
	}
	if p := t.arena.prev(x); p != nilNode {
		return t.arena.at(p).key, true, nil
	}
	return prev, false, nil
}

// Len returns the number of entries in the tree. It counts the nodes and so
// takes O(n) time.
func (t *Tree[K, V]) Len() int {
	return t.arena.count(t.root)
}

// Height returns the height of the tree: -1 when empty, 0 for a single entry.
func (t *Tree[K, V]) Height() int {
	return int(t.arena.height(t.root))
}

// Depth returns the number of edges between the node holding key and the
// root.
func (t *Tree[K, V]) Depth(key K) (int, error) {
	x := t.arena.find(t.root, key)
	if x == nilNode {
		return 0, errors.Wrapf(ErrKeyNotFound, "depth %v", key)
	}
	return t.arena.depth(x), nil
}

// Keys returns an iterator over the keys in ascending order. The iterator may
// be ranged over any number of times. The tree must not be modified while an
// iteration is in progress.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		t.arena.walk(t.root, func(k K, _ V) bool {
			return yield(k)
		})
	}
}

// All calls yield sequentially for each key and value in ascending key
// order. If yield returns false, range stops the iteration.
func (t *Tree[K, V]) All(yield func(key K, value V) bool) {
	t.arena.walk(t.root, yield)
}

// Mirror returns a copy of t with the left and right children swapped at
// every node. The copy iterates in descending key order and is NOT a valid
// search tree: Get, Insert and Delete on it have unspecified results. It is
// intended for diagnostics and tests.
func (t *Tree[K, V]) Mirror() *Tree[K, V] {
	m := &Tree[K, V]{}
	if t.root == nilNode {
		return m
	}
	m.arena.init(t.arena.live)
	m.root = m.arena.mirror(&t.arena, t.root, nilNode)
	return m
}

// Clear removes all entries.
func (t *Tree[K, V]) Clear() {
	t.arena.reset()
	t.root = nilNode
}

// Dump writes an ASCII picture of the tree shape to w.
func (t *Tree[K, V]) Dump(w io.Writer) {
	t.arena.dump(w, t.root)
}
