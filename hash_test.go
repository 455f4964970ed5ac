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
	"math"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestDefaultHasherString(t *testing.T) {
	type name string

	h := defaultHasher[string]()
	hn := defaultHasher[name]()
	for _, s := range []string{"", "a", "hello", "the quick brown fox"} {
		k, n := s, name(s)
		require.EqualValues(t, uintptr(xxhash.Sum64String(s)), h(&k, 0))
		require.EqualValues(t, h(&k, 99), hn(&n, 99))
	}

	k := "hello"
	require.NotEqual(t, h(&k, 1), h(&k, 2))
}

func TestDefaultHasherNumeric(t *testing.T) {
	hi := defaultHasher[int64]()
	a, b := int64(1), int64(1)
	require.EqualValues(t, hi(&a, 5), hi(&b, 5))
	b = 2
	require.NotEqual(t, hi(&a, 5), hi(&b, 5))

	hf := defaultHasher[float64]()
	pz, nz := 0.0, math.Copysign(0, -1)
	require.EqualValues(t, hf(&pz, 3), hf(&nz, 3))

	m := New[float64, string](13)
	require.True(t, m.Put(pz, "zero"))
	v, ok := m.Get(nz)
	require.True(t, ok)
	require.Equal(t, "zero", v)
}

func TestByteHashes(t *testing.T) {
	testCases := []struct {
		key   string
		first uintptr
		last  uintptr
	}{
		{"", 0, 0},
		{"a", 'a', 'a'},
		{"abc", 'a', 'c'},
		{"zebra", 'z', 'a'},
	}
	for _, c := range testCases {
		t.Run(c.key, func(t *testing.T) {
			k := c.key
			require.EqualValues(t, c.first, FirstByteHash(&k, 17))
			require.EqualValues(t, c.last, LastByteHash(&k, 17))
		})
	}
}
