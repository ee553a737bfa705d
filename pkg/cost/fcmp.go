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
	"math"

	"github.com/consensys/go-isacost/pkg/ir"
)

// Smallest normal value of each floating-point format which can be compared
// exactly as a double.
var smallestNormals = map[ir.FloatFormat]float64{
	ir.HALF:   0x1p-14,
	ir.BFLOAT: 0x1p-126,
	ir.FLOAT:  0x1p-126,
	ir.DOUBLE: 0x1p-1022,
}

// ClassTest determines whether a floating-point comparison "lhs pred rhs" is
// equivalent to testing the class of some value x (e.g. "x == 0.0" tests
// whether x is zero).  Such comparisons are implemented by a single class
// test instruction.  If so, x is returned, where any fabs applied to x is
// looked through.
func ClassTest(pred ir.Predicate, lhs ir.Value, rhs ir.Value) (ir.Value, bool) {
	c, ok := rhs.(ir.ConstFloat)
	if !ok {
		return nil, false
	}
	//
	var (
		value, exact = c.Float64()
		x            = stripFabs(lhs)
	)
	//
	switch {
	case !exact || math.IsNaN(value):
		return nil, false
	case pred == ir.FCMP_ORD || pred == ir.FCMP_UNO:
		// nan test
		return x, true
	case math.IsInf(value, 0):
		return x, pred != ir.FCMP_FALSE && pred != ir.FCMP_TRUE
	case value == 0:
		// zero test
		switch pred {
		case ir.FCMP_OEQ, ir.FCMP_UEQ, ir.FCMP_ONE, ir.FCMP_UNE:
			return x, true
		}
	case x != lhs && value == smallestNormals[c.Format]:
		// normal test, i.e. "fabs(x) < smallest normal" is a subnormal or zero
		switch pred {
		case ir.FCMP_OLT, ir.FCMP_ULT, ir.FCMP_OGE, ir.FCMP_UGE:
			return x, true
		}
	}
	//
	return nil, false
}
