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
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	DiscardLogger
	warnings []string
	infos    []string
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.warnings = append(l.warnings, msg)
}

func (l *recordingLogger) Info(msg string, _ ...any) {
	l.infos = append(l.infos, msg)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	testCases := []struct {
		name   string
		modify func(c *Config)
	}{
		{"letters", func(c *Config) { c.Letters = 27 }},
		{"buckets", func(c *Config) { c.Buckets = 0 }},
		{"keys", func(c *Config) { c.Keys = -1 }},
		{"lengths", func(c *Config) { c.MinLen, c.MaxLen = 5, 5 }},
		{"hash", func(c *Config) { c.Hash = "md5" }},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.modify(&cfg)
			require.Error(t, cfg.Validate())
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}

func TestTreeReport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Letters = 5
	var out bytes.Buffer
	r, err := New(cfg, WithStdout(&out))
	require.NoError(t, err)
	require.NoError(t, r.Tree())

	require.Equal(t, ""+
		"The tree is empty\n"+
		"\n"+
		"inserted key=A, height=0\n"+
		"inserted key=B, height=1\n"+
		"inserted key=C, height=1\n"+
		"inserted key=D, height=2\n"+
		"inserted key=E, height=2\n"+
		"\n"+
		"<inorder>\n"+
		"A\nB\nC\nD\nE\n"+
		"\n"+
		"size = 5\n", out.String())
}

func TestTreeReportDump(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Letters = 3
	cfg.Dump = true
	var out bytes.Buffer
	r, err := New(cfg, WithStdout(&out))
	require.NoError(t, err)
	require.NoError(t, r.Tree())
	require.Contains(t, out.String(), "|------+ B h=1 bf=+0\n")
}

func parseInts(t *testing.T, line string) []int {
	var r []int
	for _, f := range strings.Fields(line) {
		v, err := strconv.Atoi(f)
		require.NoError(t, err)
		r = append(r, v)
	}
	return r
}

func TestTableReport(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := &recordingLogger{}
	cfg := DefaultConfig()
	cfg.Output = "reports/table.txt"
	r, err := New(cfg, WithFileSystem(fs), WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, r.Table())

	data, err := afero.ReadFile(fs, "reports/table.txt")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[0], "size: "), lines[0])
	require.Equal(t, "distribution:", lines[1])
	require.Equal(t, "heights:", lines[3])

	size, err := strconv.Atoi(strings.TrimPrefix(lines[0], "size: "))
	require.NoError(t, err)
	require.LessOrEqual(t, size, cfg.Keys)

	dist := parseInts(t, lines[2])
	require.Len(t, dist, cfg.Buckets)
	sum := 0
	for _, n := range dist {
		sum += n
	}
	require.EqualValues(t, size, sum)
	require.Len(t, parseInts(t, lines[4]), cfg.Buckets)

	require.Equal(t, []string{"table report", "report written"}, logger.infos)
	require.Empty(t, logger.warnings)
}

func TestTableReportDeterministic(t *testing.T) {
	run := func() string {
		var out bytes.Buffer
		cfg := DefaultConfig()
		r, err := New(cfg, WithStdout(&out))
		require.NoError(t, err)
		require.NoError(t, r.Table())
		return out.String()
	}
	require.Equal(t, run(), run())
}

func TestTableReportSkew(t *testing.T) {
	// A first byte hash can only reach the 26 buckets of the lowercase
	// letters, so with 1000 buckets those few are heavily overloaded.
	cfg := DefaultConfig()
	cfg.Hash = HashFirstByte
	cfg.Buckets = 1000
	logger := &recordingLogger{}
	var out bytes.Buffer
	r, err := New(cfg, WithStdout(&out), WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, r.Table())
	require.Equal(t, []string{"bucket skew"}, logger.warnings)
}

func TestMostLoaded(t *testing.T) {
	b, n, skewed := mostLoaded([]int{1, 5, 2, 0}, 8)
	require.EqualValues(t, 1, b)
	require.EqualValues(t, 5, n)
	require.True(t, skewed)

	_, _, skewed = mostLoaded([]int{2, 2, 3, 1}, 8)
	require.False(t, skewed)
}
