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

import "github.com/pkg/errors"

var (
	// ErrDuplicateKey is returned when inserting a key that is already
	// present. Existing values are never silently overwritten.
	ErrDuplicateKey = errors.New("avlhash: duplicate key")
	// ErrKeyNotFound is returned by mutations and neighbour lookups of a key
	// that is not present.
	ErrKeyNotFound = errors.New("avlhash: key not found")
	// ErrEmptyTree is returned by operations that cannot produce a result on
	// an empty tree.
	ErrEmptyTree = errors.New("avlhash: empty tree")
)
