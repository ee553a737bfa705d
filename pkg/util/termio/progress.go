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
package termio

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Progress draws a single line reporting the number of items processed so
// far.  The line is redrawn in place, and is only drawn at all when writing to
// a terminal.
type Progress struct {
	mux     sync.Mutex
	writer  io.Writer
	enabled bool
	// Number of items processed.
	count uint
}

// NewProgress constructs a progress line on stderr, which is enabled only if
// stderr is a terminal.
func NewProgress() *Progress {
	return NewProgressWriter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewProgressWriter constructs a progress line for a given writer.
func NewProgressWriter(writer io.Writer, enabled bool) *Progress {
	return &Progress{writer: writer, enabled: enabled}
}

// Update the number of items processed, redrawing the line.
func (p *Progress) Update(count uint) {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	p.count = count
	//
	if p.enabled {
		fmt.Fprintf(p.writer, "\rProgress: %d", count)
	}
}

// Count returns the number of items processed so far.
func (p *Progress) Count() uint {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return p.count
}

// Finish the progress line.
func (p *Progress) Finish() {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	if p.enabled && p.count > 0 {
		fmt.Fprintln(p.writer)
	}
}
