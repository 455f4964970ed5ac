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

import "cmp"

// Option configures a Map while it is being created.
type Option[K cmp.Ordered, V any] interface {
	apply(m *Map[K, V])
}

type hashOption[K cmp.Ordered, V any] struct {
	hash func(key *K, seed uintptr) uintptr
}

func (op hashOption[K, V]) apply(m *Map[K, V]) {
	m.hash = op.hash
}

// WithHash is an option to specify the hash function to use for a Map[K,V].
// The bucket for a key is the hash value modulo the bucket count.
func WithHash[K cmp.Ordered, V any](hash func(key *K, seed uintptr) uintptr) Option[K, V] {
	return hashOption[K, V]{hash}
}

type seedOption[K cmp.Ordered, V any] struct {
	seed uintptr
}

func (op seedOption[K, V]) apply(m *Map[K, V]) {
	m.seed = op.seed
}

// WithSeed is an option to fix the seed passed to the hash function. By
// default every Map picks a random seed, so bucket placement differs from
// one Map to the next.
func WithSeed[K cmp.Ordered, V any](seed uintptr) Option[K, V] {
	return seedOption[K, V]{seed}
}

type nodeCapacityOption[K cmp.Ordered, V any] struct {
	capacity int
}

func (op nodeCapacityOption[K, V]) apply(m *Map[K, V]) {
	m.capacity = op.capacity
}

// WithNodeCapacity is an option to pre-allocate room for n entries so that
// the node arena does not grow while the first n entries are inserted.
func WithNodeCapacity[K cmp.Ordered, V any](n int) Option[K, V] {
	return nodeCapacityOption[K, V]{n}
}
