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
	"strings"

	"github.com/pkg/errors"
)

// validate walks the subtree rooted at root and reports the first violation
// of the AVL invariants: parent links agree with child links, keys are
// strictly ascending in order, cached heights are exact and every balance
// factor lies in [-1, 1].
func (a *arena[K, V]) validate(root nodeID) error {
	if root == nilNode {
		return nil
	}
	if p := a.at(root).parent; p != nilNode {
		return errors.Errorf("root %v has parent %v", a.at(root).key, a.at(p).key)
	}
	_, err := a.validateNode(root, nil, nil)
	return err
}

// validateNode checks x against the exclusive key bounds lo and hi and
// returns the recomputed height of x.
func (a *arena[K, V]) validateNode(x nodeID, lo, hi *K) (int32, error) {
	if x == nilNode {
		return -1, nil
	}
	n := a.at(x)
	if lo != nil && cmp.Compare(n.key, *lo) <= 0 {
		return 0, errors.Errorf("key %v not greater than %v", n.key, *lo)
	}
	if hi != nil && cmp.Compare(n.key, *hi) >= 0 {
		return 0, errors.Errorf("key %v not less than %v", n.key, *hi)
	}
	for _, c := range [2]nodeID{n.left, n.right} {
		if c != nilNode && a.at(c).parent != x {
			return 0, errors.Errorf("child %v of %v has wrong parent", a.at(c).key, n.key)
		}
	}
	lh, err := a.validateNode(n.left, lo, &n.key)
	if err != nil {
		return 0, err
	}
	rh, err := a.validateNode(n.right, &n.key, hi)
	if err != nil {
		return 0, err
	}
	if h := 1 + max(lh, rh); h != n.height {
		return 0, errors.Errorf("key %v: cached height %d, actual %d", n.key, n.height, h)
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		return 0, errors.Errorf("key %v: balance factor %d", n.key, bf)
	}
	return n.height, nil
}

// checkInvariants panics if the tree rooted at root is corrupt. It is a noop
// unless built with the invariants tag.
func (a *arena[K, V]) checkInvariants(root nodeID) {
	if !invariants {
		return
	}
	if err := a.validate(root); err != nil {
		var buf strings.Builder
		a.dump(&buf, root)
		panic(fmt.Sprintf("invariant failed: %v\n%s", err, buf.String()))
	}
}
