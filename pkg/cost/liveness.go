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
package cost

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-isacost/pkg/ir"
)

// Liveness records the values requested by the (already visited) consumers
// within a function.  Locals are held in a dense bitset indexed by their
// position within the function, whilst constants are held in the order they
// were first requested.  Two occurrences of the same constant are the same
// value.
type Liveness struct {
	locals *bitset.BitSet
	// Constants in request order
	constants []ir.Value
	// Everything else (constants included)
	others map[ir.Value]struct{}
}

// NewLiveness constructs an empty liveness set for a function with a given
// number of locals.
func NewLiveness(nlocals uint) *Liveness {
	return &Liveness{
		locals: bitset.New(nlocals),
		others: make(map[ir.Value]struct{}),
	}
}

// Request marks a given value as live.  Requesting a value more than once has
// no further effect.
func (p *Liveness) Request(value ir.Value) {
	if local, ok := value.(ir.Local); ok {
		p.locals.Set(local.Index())
		return
	} else if _, ok := p.others[value]; ok {
		return
	}
	//
	p.others[value] = struct{}{}
	//
	if ir.IsConstant(value) {
		p.constants = append(p.constants, value)
	}
}

// IsLive checks whether a given value has been requested.
func (p *Liveness) IsLive(value ir.Value) bool {
	if local, ok := value.(ir.Local); ok {
		return p.locals.Test(local.Index())
	}
	//
	_, ok := p.others[value]
	//
	return ok
}

// Constants returns the requested constants, in the order they were first
// requested.
func (p *Liveness) Constants() []ir.Value {
	return p.constants
}

// Len returns the number of distinct values requested so far.
func (p *Liveness) Len() uint {
	return p.locals.Count() + uint(len(p.others))
}
