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

// Rule prices a single (visited) instruction, and requests those operands
// which cannot be folded into it.
type Rule func(*Estimator, *ir.Instruction)

// Rules for each opcode.  A missing rule indicates an instruction which has
// not been modelled at all (as opposed to one which is modelled as
// unsupported).
var rules [ir.NUM_OPCODES]Rule

func init() {
	// Terminators
	rules[ir.RET] = jump
	rules[ir.BR] = (*Estimator).visitBr
	rules[ir.SWITCH] = (*Estimator).visitSwitch
	rules[ir.INDIRECTBR] = jump
	rules[ir.INVOKE] = (*Estimator).visitCall
	rules[ir.CALLBR] = unsupported
	rules[ir.RESUME] = unsupported
	rules[ir.UNREACHABLE] = free
	rules[ir.CATCHSWITCH] = unsupported
	rules[ir.CATCHRET] = unsupported
	rules[ir.CLEANUPRET] = unsupported
	// Arithmetic
	rules[ir.FNEG] = (*Estimator).visitFNeg
	rules[ir.ADD] = (*Estimator).visitAdd
	rules[ir.SUB] = (*Estimator).visitSub
	rules[ir.MUL] = (*Estimator).visitMul
	rules[ir.UDIV] = (*Estimator).visitDiv
	rules[ir.SDIV] = (*Estimator).visitDiv
	rules[ir.UREM] = (*Estimator).visitDiv
	rules[ir.SREM] = (*Estimator).visitDiv
	rules[ir.SHL] = (*Estimator).visitShift
	rules[ir.LSHR] = (*Estimator).visitShift
	rules[ir.ASHR] = (*Estimator).visitShift
	rules[ir.AND] = (*Estimator).visitBitwise
	rules[ir.OR] = (*Estimator).visitBitwise
	rules[ir.XOR] = (*Estimator).visitBitwise
	rules[ir.FADD] = (*Estimator).visitFloat
	rules[ir.FSUB] = (*Estimator).visitFloat
	rules[ir.FMUL] = (*Estimator).visitFloat
	rules[ir.FDIV] = (*Estimator).visitFloat
	rules[ir.FREM] = call
	// Memory
	rules[ir.ALLOCA] = free
	rules[ir.LOAD] = memory
	rules[ir.STORE] = memory
	rules[ir.GETELEMENTPTR] = (*Estimator).visitGetElementPtr
	rules[ir.FENCE] = nothing
	rules[ir.CMPXCHG] = memory
	rules[ir.ATOMICRMW] = memory
	// Casts
	for op := ir.TRUNC; op <= ir.ADDRSPACECAST; op++ {
		rules[op] = (*Estimator).visitCast
	}
	// Other
	rules[ir.ICMP] = (*Estimator).visitCmp
	rules[ir.FCMP] = (*Estimator).visitCmp
	rules[ir.PHI] = nothing
	rules[ir.CALL] = (*Estimator).visitCall
	rules[ir.SELECT] = (*Estimator).visitSelect
	rules[ir.VA_ARG] = unsupported
	rules[ir.EXTRACTELEMENT] = unsupported
	rules[ir.INSERTELEMENT] = unsupported
	rules[ir.SHUFFLEVECTOR] = unsupported
	rules[ir.EXTRACTVALUE] = unsupported
	rules[ir.INSERTVALUE] = unsupported
	rules[ir.LANDINGPAD] = unsupported
	rules[ir.FREEZE] = free
	rules[ir.CLEANUPPAD] = unsupported
	rules[ir.CATCHPAD] = unsupported
}

// ============================================================================
// Generic rules
// ============================================================================

func nothing(e *Estimator, insn *ir.Instruction) {}

func free(e *Estimator, insn *ir.Instruction) {
	e.operands(insn, 0)
}

func jump(e *Estimator, insn *ir.Instruction) {
	e.operands(insn, JUMP_COST)
}

func memory(e *Estimator, insn *ir.Instruction) {
	e.operands(insn, LOAD_STORE_COST)
}

func call(e *Estimator, insn *ir.Instruction) {
	e.operands(insn, CALL_COST)
}

func unsupported(e *Estimator, insn *ir.Instruction) {
	e.operands(insn, UNSUPPORTED_COST)
}

// ============================================================================
// Arithmetic
// ============================================================================

func (e *Estimator) visitAdd(insn *ir.Instruction) {
	e.countAdd(insn.Operand(0), insn.Operand(1))
}

// Reverse subtract allows the minuend to be folded.
func (e *Estimator) visitSub(insn *ir.Instruction) {
	e.fold(insn.Operand(0), imm.ADD_SUB_IMM)
	e.request(insn.Operand(1))
	e.add(1)
}

func (e *Estimator) visitMul(insn *ir.Instruction) {
	e.countMul(insn.Operand(0), insn.Operand(1))
}

func (e *Estimator) visitDiv(insn *ir.Instruction) {
	e.request(insn.Operand(0))
	e.fold(insn.Operand(1), imm.DIV_IMM)
	e.add(DIV_COST)
}

// Either an immediate is shifted by a register, or a register is shifted by
// an immediate amount.
func (e *Estimator) visitShift(insn *ir.Instruction) {
	if imm.SHIFT_IMM.Fits(insn.Operand(0)) {
		e.request(insn.Operand(1))
	} else {
		e.request(insn.Operand(0))
		e.fold(insn.Operand(1), imm.SHAMT)
	}
	//
	e.add(1)
}

// Bitwise operations can invert either operand for free.
func (e *Estimator) visitBitwise(insn *ir.Instruction) {
	var lhs, rhs = insn.Operand(0), insn.Operand(1)
	//
	if x, ok := matchNot(lhs); ok {
		lhs = x
	} else if x, ok := matchNot(rhs); ok {
		rhs = x
	}
	//
	e.request(lhs)
	e.fold(rhs, imm.BIT_IMM)
	e.add(1)
}

func (e *Estimator) visitFloat(insn *ir.Instruction) {
	var (
		lhs, rhs = insn.Operand(0), insn.Operand(1)
		cost     = FCHEAP_OP_COST
	)
	//
	switch insn.Opcode {
	case ir.FSUB:
		// Reverse subtract
		lhs, rhs = rhs, lhs
	case ir.FMUL:
		cost = FMUL_COST
	case ir.FDIV:
		cost = FDIV_COST
	}
	//
	e.request(lhs)
	e.fold(rhs, imm.FP_IMM)
	e.add(cost)
}

// Negating the absolute value is a single operation.
func (e *Estimator) visitFNeg(insn *ir.Instruction) {
	e.request(stripFabs(insn.Operand(0)))
	e.add(FCHEAP_OP_COST)
}

// ============================================================================
// Casts
// ============================================================================

func (e *Estimator) visitCast(insn *ir.Instruction) {
	var cost uint64 = 1
	//
	switch {
	case insn.Opcode == ir.SEXT:
		cost = 0
	case insn.Opcode == ir.ZEXT && insn.Flags.Has(ir.NNEG):
		cost = 0
	case insn.Opcode == ir.TRUNC && insn.Flags.Has(ir.NSW):
		cost = 0
	case insn.Operand(0).Type().IsFloat() || insn.Typ.IsFloat():
		cost = FCHEAP_OP_COST
	}
	//
	e.operands(insn, cost)
}

// ============================================================================
// Comparisons
// ============================================================================

func (e *Estimator) visitCmp(insn *ir.Instruction) {
	var lhs, rhs = insn.Operand(0), insn.Operand(1)
	//
	if insn.Opcode == ir.ICMP {
		e.countCmp(lhs, rhs)
	} else if x, ok := ClassTest(insn.Predicate, lhs, rhs); ok {
		e.request(x)
		e.add(FCHEAP_OP_COST)
	} else {
		e.request(lhs)
		e.fold(rhs, imm.FP_IMM)
		e.add(FCHEAP_OP_COST)
	}
}

func (e *Estimator) visitSelect(insn *ir.Instruction) {
	e.request(insn.Operand(0))
	e.fold(insn.Operand(1), imm.SELECT_IMM)
	e.fold(insn.Operand(2), imm.SELECT_IMM)
	e.add(1)
}

// ============================================================================
// Control flow
// ============================================================================

// A conditional branch on an integer comparison is a single compare-and-branch
// (the comparison itself is not needed).
func (e *Estimator) visitBr(insn *ir.Instruction) {
	if len(insn.Operands) == 1 {
		if cmp, ok := instructionOf(insn.Operand(0), ir.ICMP); ok {
			e.request(cmp.Operand(0))
			e.fold(cmp.Operand(1), imm.BRANCH_CMP_IMM)
			e.add(1)
			//
			return
		}
	}
	//
	jump(e, insn)
}

// A switch is expanded into a sequence of compare and branches, where the
// final branch is not needed when the default is unreachable.
func (e *Estimator) visitSwitch(insn *ir.Instruction) {
	var (
		cases     = uint64(insn.NumCases())
		first     = insn.Targets[0].FirstNonPhi()
		condition = insn.Operand(0)
	)
	//
	if first != nil && first.Opcode == ir.UNREACHABLE && cases > 0 {
		cases--
	}
	//
	e.operands(insn, JUMP_COST*cases)
	//
	for _, value := range insn.Operands[1:] {
		e.countCmp(condition, value)
	}
}

func (e *Estimator) visitCall(insn *ir.Instruction) {
	if insn.Intrinsic != "" {
		if rule, ok := intrinsics[insn.Intrinsic]; ok {
			rule(e, insn)
			return
		}
		//
		e.add(UNSUPPORTED_COST)
	}
	// Arguments only, since the callee is materialised as part of the call.
	call(e, insn)
}

// ============================================================================
// Address computation
// ============================================================================

// An address computation is decomposed into a sequence of multiply-adds (one
// for each variable index), followed by an add of any constant offset.
func (e *Estimator) visitGetElementPtr(insn *ir.Instruction) {
	var (
		base              = insn.Operand(0)
		variables, offset = CollectOffset(insn)
	)
	//
	e.request(base)
	//
	for _, v := range variables {
		if v.Scale != 1 {
			e.countMul(v.Value, ir.NewConstInt(64, v.Scale))
			e.countAdd(v.Value, base)
		} else {
			e.request(v.Value)
			e.add(1)
		}
	}
	//
	if offset != 0 {
		e.countAdd(base, ir.NewConstInt(64, offset))
	}
}
