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
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// hashFn maps a key to a hash value. The seed is chosen per Map.
type hashFn[K any] func(key *K, seed uintptr) uintptr

// defaultHasher returns an xxhash based hash function for K. Keys whose
// underlying type is string hash their bytes. All other ordered types are
// fixed size and hash their in-memory representation.
func defaultHasher[K cmp.Ordered]() hashFn[K] {
	if reflect.TypeFor[K]().Kind() == reflect.String {
		return func(key *K, seed uintptr) uintptr {
			s := *(*string)(unsafe.Pointer(key))
			return uintptr(xxhash.Sum64String(s) ^ uint64(seed))
		}
	}
	return func(key *K, seed uintptr) uintptr {
		var zero K
		if *key == zero {
			// -0.0 == 0.0 but their bit patterns differ.
			key = &zero
		}
		b := unsafe.Slice((*byte)(unsafe.Pointer(key)), unsafe.Sizeof(*key))
		return uintptr(xxhash.Sum64(b) ^ uint64(seed))
	}
}

// FirstByteHash hashes a string by its first byte only, ignoring the seed.
// Keys sharing a first letter always share a bucket, which makes it useful
// for demonstrating bucket skew.
func FirstByteHash[K ~string](key *K, _ uintptr) uintptr {
	if len(*key) == 0 {
		return 0
	}
	return uintptr((*key)[0])
}

// LastByteHash hashes a string by its last byte only, ignoring the seed.
func LastByteHash[K ~string](key *K, _ uintptr) uintptr {
	s := *key
	if len(s) == 0 {
		return 0
	}
	return uintptr(s[len(s)-1])
}
