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
package encoding

import (
	"context"
	"time"

	"github.com/consensys/go-isacost/pkg/isa"
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	log "github.com/sirupsen/logrus"
)

// Outcome of an attempt to find an encoding.
type Outcome uint8

const (
	// SAT indicates an encoding was found.
	SAT Outcome = iota
	// UNSAT indicates no encoding exists.
	UNSAT
	// UNKNOWN indicates the solver gave up (e.g. it timed out).
	UNKNOWN
)

func (p Outcome) String() string {
	switch p {
	case SAT:
		return "sat"
	case UNSAT:
		return "unsat"
	default:
		return "unknown"
	}
}

// POLL_INTERVAL determines how often a running solver checks for
// cancellation.
const POLL_INTERVAL = 10 * time.Millisecond

// Assignment gives the opcode prefix of a single operation.
type Assignment struct {
	Op isa.OpcodeSpec
	// Opcode prefix, where the most significant bit of the prefix is bit
	// Length-1.
	Prefix uint64
	// Length of the prefix.
	Length uint
}

// Solution is the result of attempting to encode an opcode table.
type Solution struct {
	Outcome Outcome
	// Assignments for each operation (in table order), if an encoding was
	// found.
	Assignments []Assignment
}

// Solve attempts to assign a prefix to every operation of an opcode table,
// such that no two operations can be confused when decoding.  That is, for
// every pair of operations, their prefixes differ within the shorter of the
// two lengths.  The search stops (with an unknown outcome) if the context is
// cancelled.  An error is returned if the table itself is invalid.
func Solve(ctx context.Context, table []isa.OpcodeSpec, width uint) (Solution, error) {
	if err := isa.Validate(table, width); err != nil {
		return Solution{}, err
	}
	//
	var (
		circuit  = logic.NewC()
		prefixes = make([][]z.Lit, len(table))
		g        = gini.New()
		pairs    []z.Lit
	)
	// One unknown per prefix bit, most significant first
	for i, op := range table {
		prefixes[i] = make([]z.Lit, op.PrefixLength(width))
		//
		for j := range prefixes[i] {
			prefixes[i][j] = circuit.Lit()
		}
	}
	//
	for i := range table {
		for j := i + 1; j < len(table); j++ {
			pairs = append(pairs, distinct(circuit, prefixes[i], prefixes[j]))
		}
	}
	//
	circuit.ToCnf(g)
	//
	for _, m := range pairs {
		g.Add(m)
		g.Add(0)
	}
	//
	log.Debugf("encoding %d operations (%d constraints, %d variables)", len(table), len(pairs), g.MaxVar())
	//
	switch solve(ctx, g) {
	case 1:
		return Solution{SAT, model(g, table, prefixes)}, nil
	case -1:
		return Solution{Outcome: UNSAT}, nil
	default:
		return Solution{Outcome: UNKNOWN}, nil
	}
}

// Construct a literal which holds when two prefixes differ in (at least) one
// of their shared leading bits.
func distinct(circuit *logic.C, lhs []z.Lit, rhs []z.Lit) z.Lit {
	var (
		n     = min(len(lhs), len(rhs))
		diffs = make([]z.Lit, n)
	)
	//
	for k := 0; k < n; k++ {
		diffs[k] = circuit.Xor(lhs[k], rhs[k])
	}
	//
	return circuit.Ors(diffs...)
}

// Run the solver until it completes, or the context is cancelled.
func solve(ctx context.Context, g *gini.Gini) int {
	if ctx.Err() != nil {
		return 0
	}
	//
	var (
		handle = g.GoSolve()
		ticker = time.NewTicker(POLL_INTERVAL)
	)
	//
	defer ticker.Stop()
	//
	for {
		if result, done := handle.Test(); done {
			return result
		}
		//
		select {
		case <-ctx.Done():
			return handle.Stop()
		case <-ticker.C:
		}
	}
}

// Extract the prefix of each operation from a satisfying assignment.
func model(g *gini.Gini, table []isa.OpcodeSpec, prefixes [][]z.Lit) []Assignment {
	var assignments = make([]Assignment, len(table))
	//
	for i, op := range table {
		var prefix uint64
		//
		for _, m := range prefixes[i] {
			prefix <<= 1
			//
			if g.Value(m) {
				prefix |= 1
			}
		}
		//
		assignments[i] = Assignment{op, prefix, uint(len(prefixes[i]))}
	}
	//
	return assignments
}
