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

// Package randkeys generates reproducible random lowercase string keys for
// tests, benchmarks and reports.
package randkeys

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Generator produces random strings of lowercase ASCII letters whose length
// lies in [minLen, maxLen). It is NOT goroutine-safe.
type Generator struct {
	rng    *rand.Rand
	minLen int
	maxLen int
}

// New returns a Generator seeded with seed. The same seed always yields the
// same sequence of strings.
func New(seed uint64, minLen, maxLen int) *Generator {
	if minLen < 0 || maxLen <= minLen {
		panic(fmt.Sprintf("randkeys: invalid length range [%d, %d)", minLen, maxLen))
	}
	return &Generator{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		minLen: minLen,
		maxLen: maxLen,
	}
}

// String returns the next random string.
func (g *Generator) String() string {
	n := g.minLen + g.rng.IntN(g.maxLen-g.minLen)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + g.rng.IntN(26)))
	}
	return b.String()
}

// Strings returns the next n random strings. Duplicates are possible.
func (g *Generator) Strings(n int) []string {
	r := make([]string, n)
	for i := range r {
		r[i] = g.String()
	}
	return r
}
