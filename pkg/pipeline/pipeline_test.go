// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/consensys/go-isacost/pkg/constmat"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Costs 2 (add + ret)
const addFive = `
define i32 @f(i32 %x) {
  %a = add i32 %x, 5
  ret i32 %a
}
`

// Costs 1 (ret)
const retVoid = `
define void @g() {
  ret void
}

declare void @h()
`

func Test_UnitName_01(t *testing.T) {
	checkUnitName(t, "bench/optimized/a.ll", "bench/a.ll")
	checkUnitName(t, "optimized/x/y.ll", "x/y.ll")
	checkUnitName(t, "a/optimized/optimized/b.ll", "a/optimized/b.ll")
	//
	_, ok := UnitName("a/original/b.ll")
	assert.False(t, ok)
	//
	_, ok = UnitName("a/optimized.ll")
	assert.False(t, ok)
}

func Test_Discover_01(t *testing.T) {
	fs := corpus(t, map[string]string{
		"in/zlib/optimized/inflate.ll":  addFive,
		"in/zlib/original/inflate.ll":   addFive,
		"in/zlib/optimized/inflate.txt": addFive,
		"in/bzip/optimized/sub/main.ll": retVoid,
	})
	//
	units, err := Discover(fs, "in")
	//
	require.NoError(t, err)
	assert.Equal(t, []Unit{
		{"bzip/sub/main.ll", "in/bzip/optimized/sub/main.ll"},
		{"zlib/inflate.ll", "in/zlib/optimized/inflate.ll"},
	}, units)
}

func Test_Discover_02(t *testing.T) {
	_, err := Discover(afero.NewMemMapFs(), "missing")
	//
	assert.Error(t, err)
}

func Test_Run_01(t *testing.T) {
	var (
		fs = corpus(t, map[string]string{
			"in/b/optimized/b.ll": addFive,
			"in/a/optimized/a.ll": retVoid,
			"in/c/optimized/c.ll": "define i32 @broken(",
		})
		progress []uint
		buf      bytes.Buffer
	)
	//
	units, err := Discover(fs, "in")
	require.NoError(t, err)
	//
	report, failures, err := Run(context.Background(), fs, units, Config{
		Jobs:     2,
		Progress: func(n uint) { progress = append(progress, n) },
	})
	//
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "c/c.ll", failures[0].Unit.Name)
	assert.IsType(t, &ParseError{}, failures[0].Err)
	assert.Equal(t, []uint{1, 2, 3}, progress)
	//
	require.NoError(t, report.Write(&buf))
	assert.Equal(t, "a/a.ll 1\nb/b.ll 2\nTotal 3\n", buf.String())
	//
	unit, ok := report.Get("b/b.ll")
	require.True(t, ok)
	require.Len(t, unit.Functions, 1)
	assert.Equal(t, "f", unit.Functions[0].Name)
	//
	tree := report.Tree().String()
	assert.True(t, strings.HasPrefix(tree, "Total 3\n"))
	assert.Contains(t, tree, "b/b.ll")
	assert.Contains(t, tree, "[2]")
}

func Test_Run_02(t *testing.T) {
	// Determinism
	var files = make(map[string]string)
	//
	for i := 0; i < 50; i++ {
		files[fmt.Sprintf("in/u%02d/optimized/x.ll", i)] = addFive
	}
	//
	var (
		fs       = corpus(t, files)
		units, _ = Discover(fs, "in")
		r1, _, _ = Run(context.Background(), fs, units, Config{Jobs: 8})
		r2, _, _ = Run(context.Background(), fs, units, Config{Jobs: 1})
	)
	//
	assert.Equal(t, 50, r1.Len())
	assert.Equal(t, uint64(100), r1.Total())
	assert.Equal(t, r1.Names(), r2.Names())
	assert.Equal(t, r1.Total(), r2.Total())
}

func Test_Run_03(t *testing.T) {
	var (
		fs       = corpus(t, map[string]string{"in/a/optimized/a.ll": "define i32 @f(i32 %x) {\n  ret i32 1000000\n}\n"})
		hist     = constmat.NewHistogram()
		units, _ = Discover(fs, "in")
	)
	//
	_, _, err := Run(context.Background(), fs, units, Config{Sink: hist})
	//
	require.NoError(t, err)
	assert.Equal(t, []constmat.Entry{{Value: 1000000, Count: 1}}, hist.Entries())
}

func Test_Run_04(t *testing.T) {
	var (
		fs          = corpus(t, map[string]string{"in/a/optimized/a.ll": addFive})
		units, _    = Discover(fs, "in")
		ctx, cancel = context.WithCancel(context.Background())
	)
	//
	cancel()
	//
	_, _, err := Run(ctx, fs, units, Config{})
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Run_05(t *testing.T) {
	// Unreadable units are skipped
	units := []Unit{{"missing.ll", "in/optimized/missing.ll"}}
	//
	report, failures, err := Run(context.Background(), afero.NewMemMapFs(), units, Config{})
	//
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, 0, report.Len())
	assert.Equal(t, uint64(0), report.Total())
}

// ============================================================================
// Helpers
// ============================================================================

func corpus(t *testing.T, files map[string]string) afero.Fs {
	var fs = afero.NewMemMapFs()
	//
	for path, contents := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0o644))
	}
	//
	return fs
}

func checkUnitName(t *testing.T, path string, expected string) {
	t.Helper()
	//
	actual, ok := UnitName(path)
	//
	assert.True(t, ok, path)
	assert.Equal(t, expected, actual)
}
