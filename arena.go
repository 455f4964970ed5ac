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

// nodeID is a handle to a node in an arena. The zero handle is reserved and
// denotes an absent node, so an empty tree is simply a zero root handle.
type nodeID uint32

const nilNode nodeID = 0

// node is a single entry of an AVL tree. Children are owned by their parent;
// the parent handle is a back reference used for upward walks and rotation
// bookkeeping only.
type node[K cmp.Ordered, V any] struct {
	key    K
	value  V
	height int32
	left   nodeID
	right  nodeID
	parent nodeID
}

// arena is an index-addressed pool of nodes. Any number of trees may share
// an arena; each is identified by its root handle. Released slots are kept
// on a free list threaded through the parent field and are reused by later
// allocations.
//
// Node pointers returned by at are only valid until the next alloc, which may
// grow the backing slice. Code that allocates must re-fetch pointers.
type arena[K cmp.Ordered, V any] struct {
	nodes []node[K, V]
	free  nodeID
	// The number of allocated (not released) nodes.
	live int
}

func (a *arena[K, V]) init(capacity int) {
	a.nodes = make([]node[K, V], 1, capacity+1)
	a.free = nilNode
	a.live = 0
}

// at returns the node for handle id. It must not be called with nilNode.
func (a *arena[K, V]) at(id nodeID) *node[K, V] {
	return &a.nodes[id]
}

// alloc returns a handle to a fresh leaf node.
func (a *arena[K, V]) alloc(key K, value V, parent nodeID) nodeID {
	if len(a.nodes) == 0 {
		// Slot 0 backs nilNode and is never handed out.
		a.nodes = append(a.nodes, node[K, V]{})
	}
	var id nodeID
	if a.free != nilNode {
		id = a.free
		a.free = a.nodes[id].parent
	} else {
		a.nodes = append(a.nodes, node[K, V]{})
		id = nodeID(len(a.nodes) - 1)
	}
	a.nodes[id] = node[K, V]{
		key:    key,
		value:  value,
		parent: parent,
	}
	a.live++
	return id
}

// release returns id to the free list. The slot is zeroed so that the
// key and value can be garbage collected.
func (a *arena[K, V]) release(id nodeID) {
	a.nodes[id] = node[K, V]{parent: a.free}
	a.free = id
	a.live--
}

// reset releases every node at once.
func (a *arena[K, V]) reset() {
	clear(a.nodes)
	if len(a.nodes) > 0 {
		a.nodes = a.nodes[:1]
	}
	a.free = nilNode
	a.live = 0
}
