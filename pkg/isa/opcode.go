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

import (
	"fmt"
)

// OpcodeSpec describes a single operation of the instruction set by its
// mnemonic and the number of bits occupied by its non-opcode fields (i.e.
// registers, immediates, flags, etc).  Whatever remains of the instruction
// width is available for the opcode prefix.
type OpcodeSpec struct {
	Mnemonic string
	Length   uint
}

// PrefixLength returns the number of bits available for the opcode of this
// operation, given the overall instruction width.
func (p OpcodeSpec) PrefixLength(width uint) uint {
	return width - p.Length
}

func (p OpcodeSpec) String() string {
	return fmt.Sprintf("%s:%d", p.Mnemonic, p.Length)
}

// OPCODES is the table of all operations in the instruction set.
var OPCODES = []OpcodeSpec{
	{"LI", REG_BITS + LARGE_IMM_BITS},
	{"LUI", REG_BITS + LARGE_IMM_BITS},
	{"LBITI", REG_BITS + BIT_IMM_BITS},
	{"ADD", BINOP_REG + OP_TYPE_BITS},
	{"SUB", BINOP_REG + OP_TYPE_BITS},
	{"ADDI", UNOP_REG + OP_TYPE_BITS + ADD_SUB_IMM_BITS},
	{"RSBI", UNOP_REG + OP_TYPE_BITS + ADD_SUB_IMM_BITS},
	{"SLL", BINOP_REG + OP_TYPE_BITS},
	{"SRL", BINOP_REG + OP_TYPE_BITS},
	{"SRA", BINOP_REG + OP_TYPE_BITS},
	{"SLLVI", UNOP_REG + SHAMT_BITS + OP_TYPE_BITS},
	{"SRLVI", UNOP_REG + SHAMT_BITS + OP_TYPE_BITS},
	{"SRAVI", UNOP_REG + SHAMT_BITS + OP_TYPE_BITS},
	{"SLLIV", UNOP_REG + SHIFT_IMM_BITS + OP_TYPE_BITS},
	{"SRLIV", UNOP_REG + SHIFT_IMM_BITS + OP_TYPE_BITS},
	{"SRAIV", UNOP_REG + SHIFT_IMM_BITS + OP_TYPE_BITS},
	{"FSHL", 4*REG_BITS + OP_TYPE_BITS},
	{"FSHR", 4*REG_BITS + OP_TYPE_BITS},
	{"FSHLI", BINOP_REG + SHAMT_BITS + OP_TYPE_BITS},
	{"AND", BINOP_REG + NOT_BIT},
	{"OR", BINOP_REG + NOT_BIT},
	{"XOR", BINOP_REG + NOT_BIT},
	{"ANDI", UNOP_REG + NOT_BIT + BIT_IMM_BITS},
	{"ORI", UNOP_REG + NOT_BIT + BIT_IMM_BITS},
	{"XORI", UNOP_REG + NOT_BIT + BIT_IMM_BITS},
	{"ICMP", BINOP_REG + OP_TYPE_BITS + PRED_BITS},
	{"ICMPI", UNOP_REG + OP_TYPE_BITS + PRED_BITS + CMP_IMM_BITS},
	{"CTPOP", UNOP_REG + OP_TYPE_BITS},
	{"CTLZ", UNOP_REG + OP_TYPE_BITS},
	{"CTTZ", UNOP_REG + OP_TYPE_BITS},
	{"SELVV", BINOP_REG},
	{"SELVI", UNOP_REG + OP_TYPE_BITS + SELECT_IMM_BITS},
	{"SELIV", UNOP_REG + OP_TYPE_BITS + SELECT_IMM_BITS},
	{"SELII", REG_BITS + OP_TYPE_BITS + 2*SMALL_SELECT_IMM_BITS},
	{"SCMPSELI", BINOP_REG + OP_TYPE_BITS},
	{"UCMPSELI", BINOP_REG + OP_TYPE_BITS},
	{"MUL", BINOP_REG + OP_TYPE_BITS},
	{"MULI", UNOP_REG + OP_TYPE_BITS + MUL_DIV_BITS},
	{"MULHU", BINOP_REG + OP_TYPE_BITS},
	{"MULHS", BINOP_REG + OP_TYPE_BITS},
	{"SDIV", BINOP_REG + OP_TYPE_BITS},
	{"SDIVI", UNOP_REG + OP_TYPE_BITS + MUL_DIV_BITS},
	{"UDIV", BINOP_REG + OP_TYPE_BITS},
	{"UDIVI", UNOP_REG + OP_TYPE_BITS + MUL_DIV_BITS},
	{"SREM", BINOP_REG + OP_TYPE_BITS},
	{"SREMI", UNOP_REG + OP_TYPE_BITS + MUL_DIV_BITS},
	{"UREM", BINOP_REG + OP_TYPE_BITS},
	{"UREMI", UNOP_REG + OP_TYPE_BITS + MUL_DIV_BITS},
	{"ABS", UNOP_REG + OP_TYPE_BITS},
	{"ABSDIFF", BINOP_REG + OP_TYPE_BITS},
	{"BSWAP16", UNOP_REG},
	{"BSWAP32", UNOP_REG},
	{"BSWAP64", UNOP_REG},
	{"BREV", UNOP_REG + OP_TYPE_BITS},
	{"SMAX", BINOP_REG + OP_TYPE_BITS},
	{"SMIN", BINOP_REG + OP_TYPE_BITS},
	{"UMAX", BINOP_REG + OP_TYPE_BITS},
	{"UMIN", BINOP_REG + OP_TYPE_BITS},
	{"SMAXI", UNOP_REG + OP_TYPE_BITS + MIN_MAX_IMM_BITS},
	{"SMINI", UNOP_REG + OP_TYPE_BITS + MIN_MAX_IMM_BITS},
	{"UMAXI", UNOP_REG + OP_TYPE_BITS + MIN_MAX_IMM_BITS},
	{"UMINI", UNOP_REG + OP_TYPE_BITS + MIN_MAX_IMM_BITS},
	{"SSAT", UNOP_REG + OP_TYPE_BITS + SHAMT_BITS},
	{"USAT", UNOP_REG + OP_TYPE_BITS + SHAMT_BITS},
	{"FADD", BINOP_REG + OP_TYPE_BITS},
	{"FADDI", UNOP_REG + OP_TYPE_BITS + FP_SMALL_IMM_BITS},
	{"FSUB", BINOP_REG + OP_TYPE_BITS},
	{"FRSBI", UNOP_REG + OP_TYPE_BITS + FP_SMALL_IMM_BITS},
	{"FMUL", BINOP_REG + OP_TYPE_BITS},
	{"FMULI", UNOP_REG + OP_TYPE_BITS + FP_SMALL_IMM_BITS},
	{"FDIV", BINOP_REG + OP_TYPE_BITS},
	{"FDIVI", UNOP_REG + OP_TYPE_BITS + FP_SMALL_IMM_BITS},
	{"FSQRT", UNOP_REG + OP_TYPE_BITS},
	{"FABS", UNOP_REG + OP_TYPE_BITS + NEG_BIT},
	{"FCOPYSIGN", BINOP_REG + OP_TYPE_BITS + NEG_BIT},
	{"FCOPYSIGNI", UNOP_REG + OP_TYPE_BITS + NEG_BIT + FP_SMALL_IMM_BITS - 1},
	{"FMAX", BINOP_REG + OP_TYPE_BITS},
	{"FMIN", BINOP_REG + OP_TYPE_BITS},
	{"FMAXNM", BINOP_REG + OP_TYPE_BITS},
	{"FMINNM", BINOP_REG + OP_TYPE_BITS},
	{"FCLASS", UNOP_REG + FP_CLASS_BITS + OP_TYPE_BITS},
	{"FTOSI", UNOP_REG + OP_TYPE_BITS},
	{"FTOUI", UNOP_REG + OP_TYPE_BITS},
	{"FTOSISAT", UNOP_REG + OP_TYPE_BITS + SHAMT_BITS},
	{"FTOUISAT", UNOP_REG + OP_TYPE_BITS + SHAMT_BITS},
	{"FTOBI", UNOP_REG + OP_TYPE_BITS},
	{"SITOF", UNOP_REG + OP_TYPE_BITS},
	{"UITOF", UNOP_REG + OP_TYPE_BITS},
	{"BITOF", UNOP_REG + OP_TYPE_BITS},
	{"FMA", 4*REG_BITS + OP_TYPE_BITS},
	{"FLI", REG_BITS + OP_TYPE_BITS + FP_IMM_BITS},
	{"FCMP", BINOP_REG + OP_TYPE_BITS + PRED_BITS},
	{"FCMPI", UNOP_REG + OP_TYPE_BITS + PRED_BITS + FP_SMALL_IMM_BITS},
	{"J", LINK_BIT + JUMP_OFFSET_IMM_BITS},
	{"JR", REG_BITS + LINK_BIT + JUMP_OFFSET_IMM_BITS},
	{"BCMP", 2*REG_BITS + OP_TYPE_BITS + PRED_BITS + BRANCH_OFFSET_IMM_BITS},
	{"BCMPI", REG_BITS + BRANCH_CMP_IMM_BITS + OP_TYPE_BITS + PRED_BITS + BRANCH_OFFSET_IMM_BITS},
	{"SHLIADD", BINOP_REG + OP_TYPE_BITS + SHAMT_BITS},
	{"MULIADD", BINOP_REG + OP_TYPE_BITS + SMALL_MUL_BITS},
	{"SRLIDIFF", BINOP_REG + OP_TYPE_BITS + SHAMT_BITS},
	{"SRAIDIFF", BINOP_REG + OP_TYPE_BITS + SHAMT_BITS},
	{"UDIVIDIFF", BINOP_REG + OP_TYPE_BITS + SMALL_MUL_BITS},
	{"SDIVIDIFF", BINOP_REG + OP_TYPE_BITS + SMALL_MUL_BITS},
}

// Validate checks that a given opcode table can be encoded within an
// instruction of the given width.  Specifically, every mnemonic must be unique
// and every operation must leave at least one bit for its opcode.
func Validate(table []OpcodeSpec, width uint) error {
	var mnemonics = make(map[string]bool, len(table))
	//
	for _, op := range table {
		if mnemonics[op.Mnemonic] {
			return fmt.Errorf("redefined operation mnemonic %s", op.Mnemonic)
		} else if op.Length >= width {
			return fmt.Errorf("operation %s has no room for an opcode (%d of %d bits used)", op.Mnemonic, op.Length,
				width)
		}
		//
		mnemonics[op.Mnemonic] = true
	}
	//
	return nil
}

func init() {
	if err := Validate(OPCODES, INSTRUCTION_BITS); err != nil {
		panic(err.Error())
	}
}
