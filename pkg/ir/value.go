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
package ir

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
)

// Value represents anything which can be used as an operand of an instruction.
// That is, an instruction result, a function parameter, a basic block or a
// constant.  Constants are plain comparable values, such that two occurrences
// of the same constant (e.g. i32 5) are equal when used as map keys.
// Parameters, instructions and blocks are compared by identity.
type Value interface {
	// Type returns the type of this value.
	Type() *Type
	// String returns the textual representation of this value when used as
	// an operand.
	String() string
}

// Local is implemented by values defined within a function (i.e. parameters
// and instruction results).  Every local has a unique index within its
// enclosing function, which is assigned when the function is finalised.
type Local interface {
	Value
	// Index of this value within its enclosing function.
	Index() uint
}

// Param represents a formal parameter of a function.
type Param struct {
	Name string
	Typ  *Type
	id   uint
}

// Type implementation for Value interface.
func (p *Param) Type() *Type {
	return p.Typ
}

// Index implementation for Local interface.
func (p *Param) Index() uint {
	return p.id
}

func (p *Param) String() string {
	return "%" + p.Name
}

// ============================================================================
// Constants
// ============================================================================

// ConstInt is an integer constant of a given bitwidth.  Only the least
// significant 128 bits are retained, which is sufficient for classification
// since constants wider than 64 bits are never folded.
type ConstInt struct {
	Width uint
	// Least significant 64 bits (zero extended beyond Width)
	Lo uint64
	// Next 64 bits (zero extended beyond Width)
	Hi uint64
}

// NewConstInt constructs an integer constant of a given width from a signed
// value, which is truncated to the width.
func NewConstInt(width uint, value int64) ConstInt {
	var hi uint64
	//
	if value < 0 {
		hi = math.MaxUint64
	}
	//
	return ConstInt{width, uint64(value), hi}.normalise()
}

// NewConstIntFromBig constructs an integer constant of a given width from an
// arbitrary precision value, which is truncated to the width using two's
// complement.
func NewConstIntFromBig(width uint, value *big.Int) ConstInt {
	var (
		mod = new(big.Int).Lsh(big.NewInt(1), 128)
		v   = new(big.Int).Mod(value, mod)
		lo  = new(big.Int).And(v, new(big.Int).SetUint64(math.MaxUint64))
		hi  = new(big.Int).Rsh(v, 64)
	)
	//
	return ConstInt{width, lo.Uint64(), hi.Uint64()}.normalise()
}

// Bool constructs an i1 constant.
func Bool(b bool) ConstInt {
	if b {
		return ConstInt{1, 1, 0}
	}
	//
	return ConstInt{1, 0, 0}
}

func (c ConstInt) normalise() ConstInt {
	switch {
	case c.Width < 64:
		c.Lo &= (uint64(1) << c.Width) - 1
		c.Hi = 0
	case c.Width == 64:
		c.Hi = 0
	case c.Width < 128:
		c.Hi &= (uint64(1) << (c.Width - 64)) - 1
	}
	//
	return c
}

// Type implementation for Value interface.
func (c ConstInt) Type() *Type {
	return IntType(c.Width)
}

// IsZero checks whether this constant is zero.
func (c ConstInt) IsZero() bool {
	return c.Lo == 0 && c.Hi == 0
}

// Uint64 returns this constant zero extended to 64 bits.  This is only
// meaningful for constants of at most 64 bits.
func (c ConstInt) Uint64() uint64 {
	return c.Lo
}

// Int64 returns this constant sign extended to 64 bits.  This is only
// meaningful for constants of at most 64 bits.
func (c ConstInt) Int64() int64 {
	if c.Width == 0 || c.Width >= 64 {
		return int64(c.Lo)
	}
	//
	shift := 64 - c.Width
	//
	return int64(c.Lo<<shift) >> shift
}

func (c ConstInt) String() string {
	switch {
	case c.Width == 1 && c.Lo == 1:
		return "true"
	case c.Width == 1:
		return "false"
	case c.Width <= 64:
		return fmt.Sprintf("%d", c.Int64())
	default:
		return fmt.Sprintf("0x%x%016x", c.Hi, c.Lo)
	}
}

// ConstFloat is a floating-point constant of a given format.  For formats of
// at most 64 bits, Lo holds the bits of the value as an IEEE double (every
// such value is exactly representable as a double).  For wider formats, Hi
// and Lo hold the raw bits of the value.
type ConstFloat struct {
	Format FloatFormat
	Hi     uint64
	Lo     uint64
}

// NewConstFloat constructs a floating-point constant of a given format from a
// value which is exactly representable in that format.
func NewConstFloat(format FloatFormat, value float64) ConstFloat {
	switch format {
	case X86_FP80:
		sign, exp, mantissa := decomposeDouble(value)
		// Explicit integer bit
		return ConstFloat{format, sign<<15 | exp, mantissa << 11}
	case FP128:
		sign, exp, mantissa := decomposeDouble(value)
		mantissa &^= 1 << 52
		//
		return ConstFloat{format, sign<<63 | exp<<48 | mantissa>>4, mantissa << 60}
	case PPC_FP128:
		// Double-double with a zero low part
		return ConstFloat{format, math.Float64bits(value), 0}
	default:
		return ConstFloat{format, 0, math.Float64bits(value)}
	}
}

// Decompose a double into its sign, its exponent (biased for the 15-bit
// exponent of the wide formats) and its 53-bit mantissa (with the integer bit
// explicit).
func decomposeDouble(value float64) (uint64, uint64, uint64) {
	var (
		raw      = math.Float64bits(value)
		sign     = raw >> 63
		exp      = (raw >> 52) & 0x7ff
		mantissa = raw & ((1 << 52) - 1)
	)
	//
	switch {
	case exp == 0x7ff:
		// Infinities and NaNs
		return sign, 0x7fff, mantissa | 1<<52
	case exp == 0 && mantissa == 0:
		return sign, 0, 0
	case exp == 0:
		// Subnormals are normal in the wide formats
		shift := uint64(bits.Len64(mantissa))
		mantissa <<= 53 - shift
		//
		return sign, 16383 - 1022 - (53 - shift), mantissa
	default:
		return sign, exp - 1023 + 16383, mantissa | 1<<52
	}
}

// Type implementation for Value interface.
func (c ConstFloat) Type() *Type {
	return FloatType(c.Format)
}

// IsPositiveZero checks whether this constant is +0.0.
func (c ConstFloat) IsPositiveZero() bool {
	return c.Hi == 0 && c.Lo == 0
}

// Float64 returns the value of this constant as a double, along with a flag
// indicating whether or not the conversion is exact.
func (c ConstFloat) Float64() (float64, bool) {
	switch c.Format {
	case HALF, BFLOAT, FLOAT, DOUBLE:
		return math.Float64frombits(c.Lo), true
	case X86_FP80:
		return decodeWide(c.Hi&0x8000 != 0, int64(c.Hi&0x7fff), 16383, new(big.Int).SetUint64(c.Lo), 63, true)
	case FP128:
		mantissa := new(big.Int).SetUint64(c.Hi & ((1 << 48) - 1))
		mantissa.Lsh(mantissa, 64).Or(mantissa, new(big.Int).SetUint64(c.Lo))
		//
		return decodeWide(c.Hi>>63 != 0, int64((c.Hi>>48)&0x7fff), 16383, mantissa, 112, false)
	default:
		return math.NaN(), false
	}
}

// Decode a wide binary floating-point value with a given sign, biased exponent
// and mantissa.  The explicit flag indicates whether the integer bit is
// explicit in the mantissa (as for x87).
func decodeWide(sign bool, exp int64, bias int64, mantissa *big.Int, fraction uint, explicit bool) (float64, bool) {
	if exp == 0x7fff {
		// Infinities and NaNs
		if mantissa.Sign() == 0 || (explicit && mantissa.BitLen() == 64 && mantissa.TrailingZeroBits() == 63) {
			return math.Copysign(math.Inf(1), signOf(sign)), true
		}
		//
		return math.NaN(), true
	}
	//
	if !explicit && exp != 0 {
		// Implicit integer bit for normal values
		mantissa = new(big.Int).SetBit(mantissa, int(fraction), 1)
	}
	//
	if exp == 0 {
		exp = 1
	}
	//
	value := new(big.Float).SetPrec(256).SetInt(mantissa)
	value.SetMantExp(value, int(exp-bias)-int(fraction))
	//
	if sign {
		value.Neg(value)
	}
	//
	f, accuracy := value.Float64()
	//
	return f, accuracy == big.Exact && !math.IsInf(f, 0)
}

func signOf(negative bool) float64 {
	if negative {
		return -1
	}
	//
	return 1
}

func (c ConstFloat) String() string {
	if f, exact := c.Float64(); exact && c.Format <= DOUBLE {
		return fmt.Sprintf("%g", f)
	}
	//
	return fmt.Sprintf("0x%016x%016x", c.Hi, c.Lo)
}

// Global is a reference to a global variable or function.
type Global struct {
	Name string
}

// Type implementation for Value interface.
func (g Global) Type() *Type {
	return PtrType()
}

func (g Global) String() string {
	return "@" + g.Name
}

// OpaqueKind classifies constants whose value is never inspected.
type OpaqueKind uint8

const (
	// NULL is the null pointer.
	NULL OpaqueKind = iota
	// ZERO_INIT is the all zeros aggregate / vector.
	ZERO_INIT
	// UNDEF is an undefined value.
	UNDEF
	// POISON is a poison value.
	POISON
	// AGGREGATE is a literal array, struct or vector.
	AGGREGATE
	// EXPRESSION is a constant expression, such as a getelementptr over a
	// global.
	EXPRESSION
	// METADATA is a metadata operand.
	METADATA
	// ASM is an inline assembly callee.
	ASM
)

// Opaque is a constant whose value plays no role in costing (e.g. undef,
// aggregates or constant expressions).  The text is retained such that
// distinct constants remain distinct.
type Opaque struct {
	Kind OpaqueKind
	Text string
	Typ  *Type
}

// Type implementation for Value interface.
func (c Opaque) Type() *Type {
	return c.Typ
}

// IsZero checks whether this constant is the null value of its type.
func (c Opaque) IsZero() bool {
	return c.Kind == NULL || c.Kind == ZERO_INIT
}

func (c Opaque) String() string {
	return c.Text
}

// IsConstant determines whether a given value is a constant.
func IsConstant(v Value) bool {
	switch v.(type) {
	case ConstInt, ConstFloat, Global, Opaque:
		return true
	default:
		return false
	}
}

// IsNullValue determines whether a given value is a constant equal to the
// null value of its type (i.e. integer zero, +0.0, null, or zeroinitializer).
func IsNullValue(v Value) bool {
	switch c := v.(type) {
	case ConstInt:
		return c.IsZero()
	case ConstFloat:
		return c.IsPositiveZero()
	case Opaque:
		return c.IsZero()
	default:
		return false
	}
}
