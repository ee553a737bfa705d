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
package isa

// INSTRUCTION_BITS is the total width of every encoded instruction.
const INSTRUCTION_BITS uint = 32

// REG_BITS is the width of a register operand.
const REG_BITS uint = 5

// BINOP_REG is the width of the register fields of a three-register operation.
const BINOP_REG uint = 3 * REG_BITS

// UNOP_REG is the width of the register fields of a two-register operation.
const UNOP_REG uint = 2 * REG_BITS

// OP_TYPE_BITS selects an operand type (8, 16, 32 or 64 bits).
const OP_TYPE_BITS uint = 2

// PRED_BITS is the width of a comparison predicate.
const PRED_BITS uint = 4

// FP_CLASS_BITS is the width of a floating-point class mask.
const FP_CLASS_BITS uint = 10

// SHAMT_BITS is the width of an (unsigned) shift amount.
const SHAMT_BITS uint = 6

// ADD_SUB_IMM_BITS is the width of a signed add/subtract immediate.
const ADD_SUB_IMM_BITS uint = 12

// BIT_IMM_BITS is the width of a bit-pattern immediate.  The layouts are:
//
//	0   | byte (8) | shift (6)
//	100 | splat byte (8)
//	110 | mask length k, giving 2^k-1
//	111 | mask length k, giving ~(2^k-1)
const BIT_IMM_BITS uint = 15

// SELECT_IMM_BITS is the width of a signed select immediate.
const SELECT_IMM_BITS uint = 12

// SMALL_SELECT_IMM_BITS is the width of each immediate when both select
// operands are immediates.
const SMALL_SELECT_IMM_BITS uint = 8

// LARGE_IMM_BITS is the width of a load-immediate.
const LARGE_IMM_BITS uint = 20

// SHIFT_IMM_BITS is the width of a signed immediate shifted by a register.
const SHIFT_IMM_BITS uint = 12

// MIN_MAX_IMM_BITS is the width of a signed min/max immediate.
const MIN_MAX_IMM_BITS uint = 12

// MUL_DIV_BITS is the width of a multiply/divide immediate.
const MUL_DIV_BITS uint = 10

// SMALL_MUL_BITS is the width of the multiplier/divisor fused into an
// add-style operation (e.g. MULIADD).
const SMALL_MUL_BITS uint = 4

// FP_IMM_BITS is the width of a floating-point load-immediate (IEEE half).
const FP_IMM_BITS uint = 16

// FP_SMALL_IMM_BITS is the width of a floating-point operand immediate
// (8-bit E4M3FN).
const FP_SMALL_IMM_BITS uint = 8

// NOT_BIT marks an inverted operand of a bitwise operation.
const NOT_BIT uint = 1

// NEG_BIT marks a negated floating-point operand.
const NEG_BIT uint = 1

// LINK_BIT marks a jump which saves its return address.
const LINK_BIT uint = 1

// CMP_IMM_BITS is the width of a signed compare immediate.
const CMP_IMM_BITS uint = 12

// JUMP_OFFSET_IMM_BITS is the width of a jump offset.
const JUMP_OFFSET_IMM_BITS uint = 16

// BRANCH_OFFSET_IMM_BITS is the width of a conditional branch offset.
const BRANCH_OFFSET_IMM_BITS uint = 10

// BRANCH_CMP_IMM_BITS is the width of a signed immediate compared against in a
// fused compare-and-branch.
const BRANCH_CMP_IMM_BITS uint = 6
