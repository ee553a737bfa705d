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
package imm

import (
	"fmt"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/consensys/go-isacost/pkg/isa"
)

// Kind identifies the rule by which a budget accepts constants.
type Kind uint8

const (
	// SIGNED accepts integers within a signed range.
	SIGNED Kind = iota
	// UNSIGNED accepts integers within an unsigned range.
	UNSIGNED
	// BIT_PATTERN accepts integers matching a bit-pattern immediate.
	BIT_PATTERN
	// POWER_OF_2 accepts integers with exactly one bit set.
	POWER_OF_2
	// FP_SMALL accepts floats representable in the 8-bit E4M3FN format.
	FP_SMALL
	// FP_HALF accepts floats representable in IEEE half precision.
	FP_HALF
)

// Budget is a named fold category, determining which constant operands can be
// encoded directly within an instruction.
type Budget struct {
	kind Kind
	bits uint
}

// Signed constructs a budget accepting signed integers of n bits.
func Signed(n uint) Budget {
	return Budget{SIGNED, n}
}

// Unsigned constructs a budget accepting unsigned integers of n bits.
func Unsigned(n uint) Budget {
	return Budget{UNSIGNED, n}
}

var (
	// ADD_SUB_IMM is the budget of add / reverse-subtract immediates.
	ADD_SUB_IMM = Signed(isa.ADD_SUB_IMM_BITS)
	// SHIFT_IMM is the budget of an immediate shifted by a register.
	SHIFT_IMM = Signed(isa.SHIFT_IMM_BITS)
	// SHAMT is the budget of immediate shift amounts.
	SHAMT = Unsigned(isa.SHAMT_BITS)
	// MUL_IMM is the budget of multiply immediates.
	MUL_IMM = Signed(isa.MUL_DIV_BITS)
	// DIV_IMM is the budget of divide / remainder immediates.
	DIV_IMM = Unsigned(isa.MUL_DIV_BITS)
	// CMP_IMM is the budget of compare immediates.
	CMP_IMM = Signed(isa.CMP_IMM_BITS)
	// SELECT_IMM is the budget of select immediates.
	SELECT_IMM = Signed(isa.SELECT_IMM_BITS)
	// MIN_MAX_IMM is the budget of min / max immediates.
	MIN_MAX_IMM = Signed(isa.MIN_MAX_IMM_BITS)
	// BRANCH_CMP_IMM is the budget of compare-and-branch immediates.
	BRANCH_CMP_IMM = Signed(isa.BRANCH_CMP_IMM_BITS)
	// LARGE_IMM is the budget of load-immediates.
	LARGE_IMM = Signed(isa.LARGE_IMM_BITS)
	// UPPER_IMM is the budget of constants built from a load-immediate
	// followed by an add-immediate.
	UPPER_IMM = Signed(isa.LARGE_IMM_BITS + isa.ADD_SUB_IMM_BITS)
	// BIT_IMM is the budget of bit-pattern immediates.
	BIT_IMM = Budget{BIT_PATTERN, isa.BIT_IMM_BITS}
	// POW2_IMM is the budget of multipliers turned into shifts.
	POW2_IMM = Budget{POWER_OF_2, isa.SHAMT_BITS}
	// FP_IMM is the budget of floating-point operand immediates.
	FP_IMM = Budget{FP_SMALL, isa.FP_SMALL_IMM_BITS}
	// FP_LOAD_IMM is the budget of floating-point load-immediates.
	FP_LOAD_IMM = Budget{FP_HALF, isa.FP_IMM_BITS}
)

// Kind returns the rule by which this budget accepts constants.
func (b Budget) Kind() Kind {
	return b.kind
}

// Bits returns the number of bits occupied by an immediate of this budget.
func (b Budget) Bits() uint {
	return b.bits
}

func (b Budget) String() string {
	switch b.kind {
	case SIGNED:
		return fmt.Sprintf("Int<%d>", b.bits)
	case UNSIGNED:
		return fmt.Sprintf("UInt<%d>", b.bits)
	case BIT_PATTERN:
		return "BitImm"
	case POWER_OF_2:
		return "Power2"
	case FP_SMALL:
		return "FPSmall"
	default:
		return "FPHalf"
	}
}

// Fits determines whether a given operand can be folded into an instruction
// under this budget.  Only constants can be folded.  Integer constants wider
// than 64 bits never fold, except that the null value of any type always fits
// a range budget.
func (b Budget) Fits(v ir.Value) bool {
	switch b.kind {
	case FP_SMALL, FP_HALF:
		return b.fitsFloat(v)
	default:
		return b.fitsInt(v)
	}
}

// FitsInt determines whether a given integer constant fits this budget.
func (b Budget) FitsInt(c ir.ConstInt) bool {
	switch {
	case c.Width > 64:
		return (b.kind == SIGNED || b.kind == UNSIGNED) && c.IsZero()
	case b.kind == SIGNED:
		return IsInt(c.Int64(), b.bits)
	case b.kind == UNSIGNED:
		return IsUint(c.Uint64(), b.bits)
	case b.kind == BIT_PATTERN:
		return IsBitPattern(c.Uint64(), c.Width)
	case b.kind == POWER_OF_2:
		return IsPowerOf2(c.Uint64())
	default:
		return false
	}
}

func (b Budget) fitsInt(v ir.Value) bool {
	if c, ok := v.(ir.ConstInt); ok {
		return b.FitsInt(c)
	}
	// Null pointers, zero floats and zero initialisers match range budgets.
	return (b.kind == SIGNED || b.kind == UNSIGNED) && ir.IsNullValue(v)
}

func (b Budget) fitsFloat(v ir.Value) bool {
	c, ok := v.(ir.ConstFloat)
	if !ok {
		return false
	}
	//
	value, exact := c.Float64()
	//
	switch {
	case !exact:
		return false
	case b.kind == FP_SMALL:
		return IsSmallFloat(value)
	default:
		return IsHalfFloat(value)
	}
}
