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
	"github.com/consensys/go-isacost/pkg/ir"
)

// FunctionCost associates a function with its estimated cost.
type FunctionCost struct {
	Name string
	Cost uint64
}

// Function estimates the cost of a single function.  Declarations cost
// nothing.
func Function(fn *ir.Function, sink ConstantSink) uint64 {
	if fn.IsDeclaration() {
		return 0
	}
	//
	return NewEstimator(fn, sink).Run()
}

// Program estimates the cost of every function defined in a given program,
// returning the total along with a breakdown per function (in definition
// order).
func Program(program *ir.Program, sink ConstantSink) (uint64, []FunctionCost) {
	var (
		total     uint64
		breakdown []FunctionCost
	)
	//
	for _, fn := range program.Definitions() {
		cost := Function(fn, sink)
		total += cost
		breakdown = append(breakdown, FunctionCost{fn.Name, cost})
	}
	//
	return total, breakdown
}
