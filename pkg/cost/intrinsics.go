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
	"github.com/consensys/go-isacost/pkg/isa/imm"
)

// Rules for those intrinsics which map onto instructions, indexed by base
// name.  Calls to any other intrinsic are unsupported.
var intrinsics map[string]Rule

func init() {
	intrinsics = map[string]Rule{
		"ctlz":       bitCount,
		"cttz":       bitCount,
		"ctpop":      bitCount,
		"abs":        absolute,
		"bswap":      unary(1),
		"bitreverse": unary(1),
		"smax":       minMax,
		"smin":       minMax,
		"umax":       minMax,
		"umin":       minMax,
		"copysign":   copySign,
		"fabs":       unary(FCHEAP_OP_COST),
		"is.fpclass": unary(FCHEAP_OP_COST),
		"minnum":     floatMinMax,
		"maxnum":     floatMinMax,
		"minimum":    floatMinMax,
		"maximum":    floatMinMax,
		"sqrt":       unary(FDIV_COST),
		"fma":        fusedMulAdd,
		"fmuladd":    fusedMulAdd,
		"fshl":       funnelShift,
		"fshr":       funnelShift,
		"assume":     nothing,
	}
}

// Construct a rule which prices an intrinsic by a given cost, requesting only
// its first argument.  Any remaining arguments are immediate.
func unary(cost uint64) Rule {
	return func(e *Estimator, insn *ir.Instruction) {
		e.request(insn.Operand(0))
		e.add(cost)
	}
}

// The second argument of ctlz / cttz is an immediate flag.
func bitCount(e *Estimator, insn *ir.Instruction) {
	e.request(insn.Operand(0))
	e.add(BIT_COUNT_COST)
}

// The absolute value of a difference is a single instruction.
func absolute(e *Estimator, insn *ir.Instruction) {
	if sub, ok := instructionOf(insn.Operand(0), ir.SUB); ok {
		e.request(sub.Operand(0))
		e.request(sub.Operand(1))
	} else {
		e.request(insn.Operand(0))
	}
	//
	e.add(1)
}

func minMax(e *Estimator, insn *ir.Instruction) {
	e.request(insn.Operand(0))
	e.fold(insn.Operand(1), imm.MIN_MAX_IMM)
	e.add(1)
}

func floatMinMax(e *Estimator, insn *ir.Instruction) {
	e.request(insn.Operand(0))
	e.fold(insn.Operand(1), imm.FP_IMM)
	e.add(FCHEAP_OP_COST)
}

// Copying the negated sign of a value is a single instruction.
func copySign(e *Estimator, insn *ir.Instruction) {
	var sign = insn.Operand(1)
	//
	if neg, ok := instructionOf(sign, ir.FNEG); ok {
		sign = neg.Operand(0)
	}
	//
	e.fold(insn.Operand(0), imm.FP_IMM)
	e.request(sign)
	e.add(FCHEAP_OP_COST)
}

func fusedMulAdd(e *Estimator, insn *ir.Instruction) {
	for _, arg := range insn.Operands[:3] {
		e.request(arg)
	}
	//
	e.add(FMUL_COST)
}

func funnelShift(e *Estimator, insn *ir.Instruction) {
	e.request(insn.Operand(0))
	e.request(insn.Operand(1))
	e.fold(insn.Operand(2), imm.SHAMT)
	e.add(1)
}
