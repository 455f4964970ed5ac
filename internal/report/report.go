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

// Package report prints diagnostic reports about avlhash trees and maps:
// tree heights as keys are inserted, in-order key listings and the spread
// of keys over buckets.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/avlhash"
	"github.com/cockroachdb/avlhash/internal/randkeys"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// skewFactor is how many times the mean bucket size a bucket may hold before
// the table report warns about the hash function.
const skewFactor = 2

type options struct {
	fs     afero.Fs
	logger Logger
	stdout io.Writer
}

// Option configures a Reporter.
type Option func(*options)

// WithFileSystem sets the file system reports are written to.
func WithFileSystem(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStdout sets the writer used when Config.Output is empty.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// Reporter renders reports for one Config.
type Reporter struct {
	cfg Config
	options
}

// New returns a Reporter for cfg, or an error if cfg is invalid.
func New(cfg Config, opts ...Option) (*Reporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "report config")
	}
	r := &Reporter{
		cfg: cfg,
		options: options{
			fs:     afero.NewOsFs(),
			logger: DiscardLogger{},
			stdout: os.Stdout,
		},
	}
	for _, opt := range opts {
		opt(&r.options)
	}
	return r, nil
}

// Tree inserts the configured number of capital letters in order into an
// empty tree, printing the tree height after every insert, then prints the
// keys in order and the size.
func (r *Reporter) Tree() error {
	var buf bytes.Buffer
	tree := avlhash.NewTree[string, struct{}]()

	writeInorder(&buf, tree)
	fmt.Fprintln(&buf)

	for i := 0; i < r.cfg.Letters; i++ {
		key := string(rune('A' + i))
		if err := tree.Insert(key, struct{}{}); err != nil {
			return errors.Wrap(err, "tree report")
		}
		fmt.Fprintf(&buf, "inserted key=%s, height=%d\n", key, tree.Height())
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "<inorder>")
	writeInorder(&buf, tree)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "size = %d\n", tree.Len())

	if r.cfg.Dump {
		fmt.Fprintln(&buf)
		tree.Dump(&buf)
	}

	r.logger.Info("tree report", "letters", r.cfg.Letters, "height", tree.Height())
	return r.write(buf.Bytes())
}

func writeInorder[V any](w io.Writer, tree *avlhash.Tree[string, V]) {
	if tree.Len() == 0 {
		fmt.Fprintln(w, "The tree is empty")
		return
	}
	for k := range tree.Keys() {
		fmt.Fprintln(w, k)
	}
}

// Table inserts random keys into a map and prints its size, the number of
// keys in each bucket and the height of each bucket's tree.
func (r *Reporter) Table() error {
	m, err := r.newMap()
	if err != nil {
		return err
	}

	g := randkeys.New(r.cfg.Seed, r.cfg.MinLen, r.cfg.MaxLen)
	duplicates := 0
	for i := 0; i < r.cfg.Keys; i++ {
		if !m.Put(g.String(), struct{}{}) {
			duplicates++
		}
	}

	dist := m.Distribution()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "size: %d\n", m.Len())
	fmt.Fprintln(&buf, "distribution:")
	writeInts(&buf, dist)
	fmt.Fprintln(&buf, "heights:")
	writeInts(&buf, m.Heights())

	r.logger.Info("table report",
		"buckets", m.Buckets(), "keys", r.cfg.Keys, "size", m.Len(),
		"duplicates", duplicates, "hash", string(r.cfg.Hash))
	if b, n, skewed := mostLoaded(dist, m.Len()); skewed {
		r.logger.Warn("bucket skew", "bucket", b, "entries", n,
			"mean", float64(m.Len())/float64(len(dist)))
	}
	return r.write(buf.Bytes())
}

func (r *Reporter) newMap() (*avlhash.Map[string, struct{}], error) {
	hash, err := r.cfg.hasher()
	if err != nil {
		return nil, err
	}
	opts := []avlhash.Option[string, struct{}]{
		avlhash.WithSeed[string, struct{}](uintptr(r.cfg.Seed)),
		avlhash.WithNodeCapacity[string, struct{}](r.cfg.Keys),
	}
	if hash != nil {
		opts = append(opts, avlhash.WithHash[string, struct{}](hash))
	}
	return avlhash.New(r.cfg.Buckets, opts...), nil
}

// mostLoaded returns the fullest bucket and whether it holds more than
// skewFactor times the mean.
func mostLoaded(dist []int, total int) (bucket, n int, skewed bool) {
	for i, c := range dist {
		if c > n {
			bucket, n = i, c
		}
	}
	return bucket, n, n*len(dist) > skewFactor*total
}

func writeInts(w io.Writer, vals []int) {
	for i, v := range vals {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, v)
	}
	fmt.Fprintln(w)
}

func (r *Reporter) write(data []byte) error {
	if r.cfg.Output == "" {
		_, err := r.stdout.Write(data)
		return errors.Wrap(err, "write report")
	}
	if dir := filepath.Dir(r.cfg.Output); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	if err := afero.WriteFile(r.fs, r.cfg.Output, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", r.cfg.Output)
	}
	r.logger.Info("report written", "path", r.cfg.Output, "bytes", len(data))
	return nil
}
