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

// avlhash-report prints diagnostic reports about avlhash trees and maps.
// Usage:
// $ avlhash-report [global flags] sub-command [sub-command flags]
// It has sub-commands:
// - tree: insert capital letters in order, printing heights and keys
// - table: insert random words into a map, printing the bucket distribution
//
// Global flags:
// - log: logger to use, one of zap, logrus or none (default zap)
// - out: file to write the report to instead of stdout
// - seed: seed for random keys and bucket placement
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/avlhash/internal/report"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := newCliApp(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "avlhash-report failed: %v\n", err)
		os.Exit(1)
	}
}

func newCliApp(fs afero.Fs, stdout, stderr io.Writer) *cli.App {
	defaults := report.DefaultConfig()

	app := cli.NewApp()
	app.Name = "avlhash-report"
	app.Usage = "avlhash diagnostic reports"
	app.Version = "0.0.1"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "log",
			Usage: "logger to use: zap, logrus or none",
			Value: "zap",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "write the report to this file instead of stdout",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "seed for random keys and bucket placement",
			Value: defaults.Seed,
		},
	}

	run := func(c *cli.Context, cfg report.Config, fn func(*report.Reporter) error) error {
		cfg.Output = c.String("out")
		cfg.Seed = c.Uint64("seed")
		logger, sync, err := newLogger(c.String("log"), stderr)
		if err != nil {
			return err
		}
		defer sync()
		r, err := report.New(cfg,
			report.WithFileSystem(fs),
			report.WithLogger(logger),
			report.WithStdout(stdout))
		if err != nil {
			return err
		}
		return fn(r)
	}

	app.Commands = []*cli.Command{
		{
			Name:  "tree",
			Usage: "insert capital letters in order and print tree heights",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "letters",
					Usage: "number of letters to insert, starting at A",
					Value: defaults.Letters,
				},
				&cli.BoolFlag{
					Name:  "dump",
					Usage: "draw the final tree",
				},
			},
			Action: func(c *cli.Context) error {
				cfg := defaults
				cfg.Letters = c.Int("letters")
				cfg.Dump = c.Bool("dump")
				return run(c, cfg, (*report.Reporter).Tree)
			},
		},
		{
			Name:  "table",
			Usage: "insert random words into a map and print the bucket distribution",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "buckets",
					Usage: "number of buckets",
					Value: defaults.Buckets,
				},
				&cli.IntFlag{
					Name:  "keys",
					Usage: "number of random keys to insert",
					Value: defaults.Keys,
				},
				&cli.IntFlag{
					Name:  "min-len",
					Usage: "minimum key length",
					Value: defaults.MinLen,
				},
				&cli.IntFlag{
					Name:  "max-len",
					Usage: "maximum key length, exclusive",
					Value: defaults.MaxLen,
				},
				&cli.StringFlag{
					Name:  "hash",
					Usage: "bucket hash: xxhash, first or last",
					Value: string(defaults.Hash),
				},
			},
			Action: func(c *cli.Context) error {
				cfg := defaults
				cfg.Buckets = c.Int("buckets")
				cfg.Keys = c.Int("keys")
				cfg.MinLen = c.Int("min-len")
				cfg.MaxLen = c.Int("max-len")
				cfg.Hash = report.HashKind(c.String("hash"))
				return run(c, cfg, (*report.Reporter).Table)
			},
		},
	}

	return app
}

// newLogger builds the named logger. The returned func flushes it.
func newLogger(name string, w io.Writer) (report.Logger, func(), error) {
	switch name {
	case "zap":
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		zl, err := cfg.Build()
		if err != nil {
			return nil, nil, errors.Wrap(err, "build zap logger")
		}
		return report.NewZap(zl), func() { _ = zl.Sync() }, nil
	case "logrus":
		ll := logrus.New()
		ll.SetOutput(w)
		return report.NewLogrus(ll), func() {}, nil
	case "none", "":
		return report.DiscardLogger{}, func() {}, nil
	default:
		return nil, nil, errors.Errorf("unknown logger %q", name)
	}
}
