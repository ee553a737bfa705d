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
	"fmt"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/consensys/go-isacost/pkg/isa/imm"
)

// ConstantSink receives every integer constant which must be materialised
// within a function (once per function).
type ConstantSink interface {
	Add(value int64)
}

// Estimator computes the cost of executing a single function on the modelled
// instruction set.  Instructions are visited backwards, such that every
// instruction is visited after all of its (reachable) uses.  An instruction is
// priced only when some visited instruction requested its result, or it has a
// side effect.  Constants which cannot be folded into their users are priced
// once at the end, according to how expensive they are to materialise.
type Estimator struct {
	fn   *ir.Function
	live *Liveness
	cost uint64
	sink ConstantSink
}

// NewEstimator constructs an estimator for a given function.  The sink is
// optional.
func NewEstimator(fn *ir.Function, sink ConstantSink) *Estimator {
	return &Estimator{fn, NewLiveness(fn.NumLocals()), 0, sink}
}

// Run the estimator over its function, returning the total cost.
func (e *Estimator) Run() uint64 {
	var blocks = e.fn.PostOrder()
	// Phi nodes keep their incoming values alive, irrespective of whether they
	// are used themselves.
	for _, block := range blocks {
		for _, phi := range block.Phis() {
			for _, value := range phi.Operands {
				e.request(value)
			}
		}
	}
	//
	for _, block := range blocks {
		for i := len(block.Instructions) - 1; i >= 0; i-- {
			insn := block.Instructions[i]
			//
			if e.live.IsLive(insn) || insn.HasSideEffects() {
				e.visit(insn)
			}
		}
	}
	//
	for _, constant := range e.live.Constants() {
		e.add(e.materialise(constant))
	}
	//
	return e.cost
}

// Liveness returns the values requested so far.
func (e *Estimator) Liveness() *Liveness {
	return e.live
}

func (e *Estimator) visit(insn *ir.Instruction) {
	if insn.Opcode < ir.NUM_OPCODES && rules[insn.Opcode] != nil {
		rules[insn.Opcode](e, insn)
		return
	}
	//
	panic(fmt.Sprintf("unhandled instruction \"%s\"", insn.Describe()))
}

// Determine the cost of materialising a given (requested) constant.
func (e *Estimator) materialise(value ir.Value) uint64 {
	switch c := value.(type) {
	case ir.ConstInt:
		if c.Width > 64 {
			return 0
		} else if e.sink != nil {
			e.sink.Add(c.Int64())
		}
		//
		switch {
		case imm.LARGE_IMM.FitsInt(c), imm.BIT_IMM.FitsInt(c):
			return 1
		case imm.UPPER_IMM.FitsInt(c):
			return 2
		default:
			return LOAD_STORE_COST
		}
	case ir.ConstFloat:
		if imm.FP_LOAD_IMM.Fits(c) {
			return FCHEAP_OP_COST
		}
		//
		return LOAD_STORE_COST
	default:
		// Pointers, undefined values and aggregates are free.
		return 0
	}
}

// ============================================================================
// Helpers
// ============================================================================

func (e *Estimator) add(cost uint64) {
	e.cost += cost
}

func (e *Estimator) request(value ir.Value) {
	e.live.Request(value)
}

// Request a value unless it can be folded under a given budget.
func (e *Estimator) fold(value ir.Value, budget imm.Budget) {
	if !budget.Fits(value) {
		e.live.Request(value)
	}
}

// Charge a given cost and request every operand of an instruction.
func (e *Estimator) operands(insn *ir.Instruction, cost uint64) {
	e.add(cost)
	//
	for _, value := range insn.Operands {
		e.request(value)
	}
}

// Price the addition of a value to another.
func (e *Estimator) countAdd(lhs ir.Value, rhs ir.Value) {
	e.request(lhs)
	e.fold(rhs, imm.ADD_SUB_IMM)
	e.add(1)
}

// Price the multiplication of a value by another.  Multiplication by a power
// of two is a shift, whilst small multipliers are folded.
func (e *Estimator) countMul(lhs ir.Value, rhs ir.Value) {
	e.request(lhs)
	//
	if imm.POW2_IMM.Fits(rhs) || imm.MUL_IMM.Fits(rhs) {
		e.add(1)
	} else {
		e.request(rhs)
		e.add(MUL_COST)
	}
}

// Price a comparison of a value against another.
func (e *Estimator) countCmp(lhs ir.Value, rhs ir.Value) {
	e.request(lhs)
	e.fold(rhs, imm.CMP_IMM)
	e.add(1)
}

// Determine whether a given value is an instruction of a given kind.
func instructionOf(value ir.Value, opcode ir.Opcode) (*ir.Instruction, bool) {
	if insn, ok := value.(*ir.Instruction); ok && insn.Opcode == opcode {
		return insn, true
	}
	//
	return nil, false
}

// Determine whether a given value is a call of a given intrinsic.
func intrinsicOf(value ir.Value, name string) (*ir.Instruction, bool) {
	if insn, ok := value.(*ir.Instruction); ok && insn.IsIntrinsic(name) {
		return insn, true
	}
	//
	return nil, false
}

// Strip an enclosing fabs (if present) from a given value.
func stripFabs(value ir.Value) ir.Value {
	if insn, ok := intrinsicOf(value, "fabs"); ok {
		return insn.Operand(0)
	}
	//
	return value
}

// Match "xor x, -1" (or "xor -1, x") returning x.
func matchNot(value ir.Value) (ir.Value, bool) {
	insn, ok := instructionOf(value, ir.XOR)
	//
	switch {
	case !ok:
		return nil, false
	case isAllOnes(insn.Operand(1)):
		return insn.Operand(0), true
	case isAllOnes(insn.Operand(0)):
		return insn.Operand(1), true
	default:
		return nil, false
	}
}

func isAllOnes(value ir.Value) bool {
	c, ok := value.(ir.ConstInt)
	//
	return ok && c == ir.NewConstInt(c.Width, -1)
}
