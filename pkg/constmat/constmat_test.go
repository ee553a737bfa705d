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
package constmat

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tier_01(t *testing.T) {
	checkTier(t, 0, 0, 1)
	checkTier(t, 1, -1, 2, 2047, -2048)
	checkTier(t, 2, 2048, -2049, math.MaxInt32, math.MinInt32)
	checkTier(t, 4, math.MaxInt32+1, math.MinInt32-1, math.MaxInt64, math.MinInt64)
}

func Test_Sum_01(t *testing.T) {
	entries, err := Read(strings.NewReader("0 5\n1 3\n100 2\n5000 1\n"))
	//
	require.NoError(t, err)
	assert.Equal(t, uint64(4), Sum(entries))
}

func Test_Read_01(t *testing.T) {
	entries, err := Read(strings.NewReader("-7 2\n\n  42   9 \n"))
	//
	require.NoError(t, err)
	assert.Equal(t, []Entry{{-7, 2}, {42, 9}}, entries)
}

func Test_Read_02(t *testing.T) {
	_, err := Read(strings.NewReader("1 2\n3\n"))
	assert.ErrorContains(t, err, "line 2")
	//
	_, err = Read(strings.NewReader("x 2\n"))
	assert.ErrorContains(t, err, "invalid value")
	//
	_, err = Read(strings.NewReader("1 -2\n"))
	assert.ErrorContains(t, err, "invalid count")
}

func Test_Histogram_01(t *testing.T) {
	var (
		hist = NewHistogram()
		wg   sync.WaitGroup
	)
	//
	for i := 0; i < 8; i++ {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			//
			for j := int64(0); j < 100; j++ {
				hist.Add(j % 10)
			}
		}()
	}
	//
	wg.Wait()
	//
	entries := hist.Entries()
	require.Len(t, entries, 10)
	//
	for i, e := range entries {
		assert.Equal(t, Entry{int64(i), 80}, e)
	}
}

func Test_Histogram_02(t *testing.T) {
	var (
		hist = NewHistogram()
		buf  bytes.Buffer
	)
	//
	hist.Add(5000)
	hist.Add(-3)
	hist.Add(5000)
	//
	require.NoError(t, Write(&buf, hist.Entries()))
	assert.Equal(t, "-3 1\n5000 2\n", buf.String())
	// Round trip
	entries, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, hist.Entries(), entries)
}

func Test_Summarize_01(t *testing.T) {
	var entries []Entry
	// 20 rare constants followed by 20 common ones
	for i := 0; i < 20; i++ {
		entries = append(entries, Entry{int64(i), 1})
		entries = append(entries, Entry{int64(100 + i), 1000})
	}
	//
	summary := Summarize(entries)
	// Total is 20020, so the threshold is 20.02 and is reached just after the
	// rare constants.
	assert.Equal(t, 20, summary.Position)
	assert.Equal(t, uint64(1000), summary.Count)
	require.Len(t, summary.Top, TOP_N)
	// Stable with respect to the original order
	assert.Equal(t, Entry{104, 1000}, summary.Top[0])
	assert.Equal(t, Entry{119, 1000}, summary.Top[TOP_N-1])
}

func Test_Summarize_02(t *testing.T) {
	summary := Summarize([]Entry{{7, 3}})
	//
	assert.Equal(t, 0, summary.Position)
	assert.Equal(t, []Entry{{7, 3}}, summary.Top)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func checkTier(t *testing.T, expected uint64, values ...int64) {
	t.Helper()
	//
	for _, v := range values {
		assert.Equal(t, expected, Tier(v), "tier of %d", v)
	}
}
