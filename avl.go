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
	"fmt"

	"github.com/pkg/errors"
)

// The functions in this file implement the AVL algorithms on top of an arena.
// Every structural operation takes the handle of a subtree root and returns
// the handle of the root after the operation, which may be a different node
// since rotations can lift a descendant into the root position. Callers must
// store the returned handle; the old one no longer denotes the tree.

func (a *arena[K, V]) height(id nodeID) int32 {
	if id == nilNode {
		return -1
	}
	return a.nodes[id].height
}

func (a *arena[K, V]) setHeight(id nodeID) {
	n := a.at(id)
	n.height = 1 + max(a.height(n.left), a.height(n.right))
}

// balance returns height(left) - height(right) for id.
func (a *arena[K, V]) balance(id nodeID) int32 {
	n := a.at(id)
	return a.height(n.left) - a.height(n.right)
}

// replaceChild points p's link to old at x instead. A nil p means old was a
// root and there is no link to update.
func (a *arena[K, V]) replaceChild(p, old, x nodeID) {
	if x != nilNode {
		a.at(x).parent = p
	}
	if p == nilNode {
		return
	}
	switch pn := a.at(p); {
	case pn.left == old:
		pn.left = x
	case pn.right == old:
		pn.right = x
	default:
		panic(fmt.Sprintf("corrupt avl: %d is not a child of %d", old, p))
	}
}

// rotateLeft rotates the subtree rooted at x, turning (x a (y b c)) into
// (y (x a b) c), and returns y.
func (a *arena[K, V]) rotateLeft(x nodeID) nodeID {
	xn := a.at(x)
	p := xn.parent
	y := xn.right
	yn := a.at(y)
	b := yn.left
	if debug {
		fmt.Printf("rotate-left: %v -> %v\n", xn.key, yn.key)
	}

	xn.right = b
	if b != nilNode {
		a.at(b).parent = x
	}
	yn.left = x
	xn.parent = y
	a.replaceChild(p, x, y)

	a.setHeight(x)
	a.setHeight(y)
	return y
}

// rotateRight rotates the subtree rooted at y, turning (y (x a b) c) into
// (x a (y b c)), and returns x.
func (a *arena[K, V]) rotateRight(y nodeID) nodeID {
	yn := a.at(y)
	p := yn.parent
	x := yn.left
	xn := a.at(x)
	b := xn.right
	if debug {
		fmt.Printf("rotate-right: %v -> %v\n", yn.key, xn.key)
	}

	yn.left = b
	if b != nilNode {
		a.at(b).parent = y
	}
	xn.right = y
	yn.parent = x
	a.replaceChild(p, y, x)

	a.setHeight(y)
	a.setHeight(x)
	return x
}

// find returns the node holding key or nilNode.
func (a *arena[K, V]) find(root nodeID, key K) nodeID {
	x := root
	for x != nilNode {
		n := a.at(x)
		switch c := cmp.Compare(key, n.key); {
		case c < 0:
			x = n.left
		case c > 0:
			x = n.right
		default:
			return x
		}
	}
	return nilNode
}

// insert adds key to the tree rooted at root. The tree is left untouched if
// the key is already present.
func (a *arena[K, V]) insert(root nodeID, key K, value V) (nodeID, error) {
	if root == nilNode {
		return a.alloc(key, value, nilNode), nil
	}

	p := root
	var less bool
	for {
		n := a.at(p)
		c := cmp.Compare(key, n.key)
		if c == 0 {
			return root, errors.Wrapf(ErrDuplicateKey, "insert %v", key)
		}
		next := n.right
		if less = c < 0; less {
			next = n.left
		}
		if next == nilNode {
			break
		}
		p = next
	}

	x := a.alloc(key, value, p)
	if less {
		a.at(p).left = x
	} else {
		a.at(p).right = x
	}
	if debug {
		fmt.Printf("insert(%v): parent=%v\n", key, a.at(p).key)
	}

	for p != nilNode {
		old := a.at(p).height
		a.setHeight(p)
		if bf := a.balance(p); bf > 1 || bf < -1 {
			// A single (possibly double) rotation restores the subtree to its
			// height before the insert, so nothing above it changes.
			p = a.rebalanceInsert(p, key)
			if a.at(p).parent == nilNode {
				root = p
			}
			break
		}
		if a.at(p).height == old {
			break
		}
		p = a.at(p).parent
	}
	return root, nil
}

// rebalanceInsert rebalances z after key was inserted beneath it. The side the
// key went down, and the side it went down at z's child, choose between the
// single and the double rotation.
func (a *arena[K, V]) rebalanceInsert(z nodeID, key K) nodeID {
	zn := a.at(z)
	if cmp.Less(key, zn.key) {
		if cmp.Compare(key, a.at(zn.left).key) > 0 {
			a.rotateLeft(zn.left)
		}
		return a.rotateRight(z)
	}
	if cmp.Less(key, a.at(zn.right).key) {
		a.rotateRight(zn.right)
	}
	return a.rotateLeft(z)
}

// delete removes key from the tree rooted at root.
func (a *arena[K, V]) delete(root nodeID, key K) (nodeID, error) {
	x := a.find(root, key)
	if x == nilNode {
		return root, errors.Wrapf(ErrKeyNotFound, "delete %v", key)
	}

	if xn := a.at(x); xn.left != nilNode && xn.right != nilNode {
		// Two children: the in-order successor has no left child. Move its
		// entry into x and splice the successor out instead.
		s := a.minimum(xn.right)
		sn := a.at(s)
		if debug {
			fmt.Printf("delete(%v): successor=%v\n", key, sn.key)
		}
		xn.key, xn.value = sn.key, sn.value
		x = s
	}

	xn := a.at(x)
	child := xn.left
	if child == nilNode {
		child = xn.right
	}
	p := xn.parent
	a.replaceChild(p, x, child)
	if p == nilNode {
		root = child
	}
	a.release(x)

	return a.rebalanceUp(root, p), nil
}

// rebalanceUp recomputes heights from x to the root, rotating at every node
// whose balance factor has reached +/-2. It returns the root.
func (a *arena[K, V]) rebalanceUp(root, x nodeID) nodeID {
	for x != nilNode {
		a.setHeight(x)
		switch bf := a.balance(x); {
		case bf > 1:
			if l := a.at(x).left; a.balance(l) < 0 {
				a.rotateLeft(l)
			}
			x = a.rotateRight(x)
		case bf < -1:
			if r := a.at(x).right; a.balance(r) > 0 {
				a.rotateRight(r)
			}
			x = a.rotateLeft(x)
		}
		p := a.at(x).parent
		if p == nilNode {
			root = x
		}
		x = p
	}
	return root
}

// minimum returns the leftmost node of the subtree rooted at x.
func (a *arena[K, V]) minimum(x nodeID) nodeID {
	if x == nilNode {
		return nilNode
	}
	for l := a.at(x).left; l != nilNode; l = a.at(x).left {
		x = l
	}
	return x
}

// maximum returns the rightmost node of the subtree rooted at x.
func (a *arena[K, V]) maximum(x nodeID) nodeID {
	if x == nilNode {
		return nilNode
	}
	for r := a.at(x).right; r != nilNode; r = a.at(x).right {
		x = r
	}
	return x
}

// next returns the in-order successor of x: the minimum of its right subtree
// if there is one, else the nearest ancestor that has x in its left subtree.
func (a *arena[K, V]) next(x nodeID) nodeID {
	if r := a.at(x).right; r != nilNode {
		return a.minimum(r)
	}
	p := a.at(x).parent
	for p != nilNode && a.at(p).right == x {
		x, p = p, a.at(p).parent
	}
	return p
}

// prev returns the in-order predecessor of x.
func (a *arena[K, V]) prev(x nodeID) nodeID {
	if l := a.at(x).left; l != nilNode {
		return a.maximum(l)
	}
	p := a.at(x).parent
	for p != nilNode && a.at(p).left == x {
		x, p = p, a.at(p).parent
	}
	return p
}

// count returns the number of nodes in the subtree rooted at x.
func (a *arena[K, V]) count(x nodeID) int {
	if x == nilNode {
		return 0
	}
	n := a.at(x)
	return 1 + a.count(n.left) + a.count(n.right)
}

// depth returns the number of parent links between x and its root.
func (a *arena[K, V]) depth(x nodeID) int {
	d := 0
	for p := a.at(x).parent; p != nilNode; p = a.at(p).parent {
		d++
	}
	return d
}

// walk calls yield for each entry of the subtree rooted at root in ascending
// key order, stopping early if yield returns false. The walk follows parent
// links rather than recursing, so it uses constant space.
func (a *arena[K, V]) walk(root nodeID, yield func(key K, value V) bool) bool {
	for x := a.minimum(root); x != nilNode; x = a.next(x) {
		n := a.at(x)
		if !yield(n.key, n.value) {
			return false
		}
	}
	return true
}

// mirror copies the subtree rooted at x from src into a, swapping left and
// right at every node, and returns the handle of the copy.
func (a *arena[K, V]) mirror(src *arena[K, V], x, parent nodeID) nodeID {
	if x == nilNode {
		return nilNode
	}
	sn := *src.at(x)
	id := a.alloc(sn.key, sn.value, parent)
	// Children are copied before the fields of id are written; alloc may move
	// the backing array.
	left := a.mirror(src, sn.right, id)
	right := a.mirror(src, sn.left, id)
	n := a.at(id)
	n.left, n.right, n.height = left, right, sn.height
	return id
}
