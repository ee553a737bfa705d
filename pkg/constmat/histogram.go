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
	"sync"
)

// Histogram counts the occurrences of constants.  A histogram can be safely
// updated from multiple goroutines.
type Histogram struct {
	mux    sync.Mutex
	counts map[int64]uint64
}

// NewHistogram constructs an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[int64]uint64)}
}

// Add a single occurrence of a given constant.
func (p *Histogram) Add(value int64) {
	p.mux.Lock()
	p.counts[value]++
	p.mux.Unlock()
}

// Len returns the number of distinct constants.
func (p *Histogram) Len() int {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return len(p.counts)
}

// Entries returns the contents of this histogram sorted by value.
func (p *Histogram) Entries() []Entry {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	var entries = make([]Entry, 0, len(p.counts))
	//
	for value, count := range p.counts {
		entries = append(entries, Entry{value, count})
	}
	//
	slices.SortFunc(entries, func(l, r Entry) int {
		return cmp.Compare(l.Value, r.Value)
	})
	//
	return entries
}
