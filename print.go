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
	"fmt"
	"io"
)

type branch int

const (
	rootBranch branch = iota
	leftBranch
	rightBranch
)

// dump writes an ASCII rendering of the subtree rooted at root to w. The
// right subtree is drawn above a node and the left subtree below it, so the
// picture reads as the tree rotated a quarter turn counter-clockwise.
func (a *arena[K, V]) dump(w io.Writer, root nodeID) {
	if root == nilNode {
		fmt.Fprintln(w, "(empty)")
		return
	}
	a.dumpNode(w, root, "", rootBranch)
}

func (a *arena[K, V]) dumpNode(w io.Writer, x nodeID, prefix string, br branch) {
	n := a.at(x)
	if n.right != nilNode {
		t := "       "
		if br == leftBranch {
			t = "|      "
		}
		a.dumpNode(w, n.right, prefix+t, rightBranch)
	}
	switch br {
	case rootBranch:
		fmt.Fprintf(w, "%s|------+ ", prefix)
	case leftBranch:
		fmt.Fprintf(w, "%s\\------+ ", prefix)
	case rightBranch:
		fmt.Fprintf(w, "%s/------+ ", prefix)
	}
	fmt.Fprintf(w, "%v h=%d bf=%+d\n", n.key, n.height, a.balance(x))
	if n.left != nilNode {
		t := "       "
		if br == rightBranch {
			t = "|      "
		}
		a.dumpNode(w, n.left, prefix+t, leftBranch)
	}
}
