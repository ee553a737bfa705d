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
	"cmp"
	"slices"
)

// COVERAGE is the fraction of all constant occurrences which a summary aims to
// cover with the most frequent constants.
const COVERAGE = 0.999

// TOP_N is the number of most frequent constants reported in a summary.
const TOP_N = 16

// Summary describes the shape of a histogram.
type Summary struct {
	// Position (in order of increasing frequency) of the first constant at
	// which the cumulative count reaches 1-COVERAGE of all occurrences.  All
	// constants from this position onwards account for (at least) COVERAGE
	// of the occurrences.
	Position int
	// Count of the constant at Position.
	Count uint64
	// The most frequent constants, in order of increasing frequency.
	Top []Entry
}

// Summarize a given histogram.
func Summarize(entries []Entry) Summary {
	var (
		sorted     = slices.Clone(entries)
		cumulative uint64
		total      uint64
		summary    Summary
	)
	//
	if len(entries) == 0 {
		return summary
	}
	// Stable sort by increasing count
	slices.SortStableFunc(sorted, func(l, r Entry) int {
		return cmp.Compare(l.Count, r.Count)
	})
	//
	for _, e := range sorted {
		total += e.Count
	}
	//
	threshold := float64(total) * (1 - COVERAGE)
	//
	for i, e := range sorted {
		cumulative += e.Count
		//
		if float64(cumulative) >= threshold {
			summary.Position, summary.Count = i, e.Count
			break
		}
	}
	//
	summary.Top = sorted[max(0, len(sorted)-TOP_N):]
	//
	return summary
}
