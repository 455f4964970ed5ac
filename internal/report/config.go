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

package report

import (
	"github.com/cockroachdb/avlhash"
	"github.com/pkg/errors"
)

// HashKind names a bucket hash function.
type HashKind string

const (
	// HashXXHash is the default avlhash hasher.
	HashXXHash HashKind = "xxhash"
	// HashFirstByte buckets a key by its first byte.
	HashFirstByte HashKind = "first"
	// HashLastByte buckets a key by its last byte.
	HashLastByte HashKind = "last"
)

// maxLetters is the number of capital letters available to the tree report.
const maxLetters = 26

// Config holds the parameters of the reports.
type Config struct {
	// Letters is the number of capital letters, starting at 'A', inserted in
	// order by the tree report.
	Letters int
	// Dump draws the final tree shape in the tree report.
	Dump bool

	// Buckets is the bucket count of the table report's map.
	Buckets int
	// Keys is the number of random keys the table report inserts.
	Keys int
	// MinLen and MaxLen bound the length of random keys: [MinLen, MaxLen).
	MinLen int
	MaxLen int
	// Seed seeds the random key generator.
	Seed uint64
	// Hash selects the bucket hash function.
	Hash HashKind

	// Output is the path the report is written to. Empty means stdout.
	Output string
}

// DefaultConfig returns the configuration of the classic demonstration: the
// alphabet inserted in order, and 1000 random 10-19 letter words over 13
// buckets.
func DefaultConfig() Config {
	return Config{
		Letters: maxLetters,
		Buckets: 13,
		Keys:    1000,
		MinLen:  10,
		MaxLen:  20,
		Seed:    1,
		Hash:    HashXXHash,
	}
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	switch {
	case c.Letters < 0 || c.Letters > maxLetters:
		return errors.Errorf("letters must be in [0, %d]: %d", maxLetters, c.Letters)
	case c.Buckets <= 0:
		return errors.Errorf("buckets must be positive: %d", c.Buckets)
	case c.Keys < 0:
		return errors.Errorf("keys must not be negative: %d", c.Keys)
	case c.MinLen < 0 || c.MaxLen <= c.MinLen:
		return errors.Errorf("invalid key length range [%d, %d)", c.MinLen, c.MaxLen)
	}
	if _, err := c.hasher(); err != nil {
		return err
	}
	return nil
}

// hasher returns the hash function selected by c.Hash, or nil for the
// default.
func (c Config) hasher() (func(key *string, seed uintptr) uintptr, error) {
	switch c.Hash {
	case HashXXHash, "":
		return nil, nil
	case HashFirstByte:
		return avlhash.FirstByteHash[string], nil
	case HashLastByte:
		return avlhash.LastByteHash[string], nil
	default:
		return nil, errors.Errorf("unknown hash %q", c.Hash)
	}
}
