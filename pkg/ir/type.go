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
	"strings"
)

// TypeKind identifies the broad class of a type.
type TypeKind uint8

const (
	// VOID_TYPE is the type of instructions which produce no value.
	VOID_TYPE TypeKind = iota
	// INT_TYPE is an integer of arbitrary bitwidth.
	INT_TYPE
	// FLOAT_TYPE is a floating-point type of some format.
	FLOAT_TYPE
	// PTR_TYPE is an (opaque) pointer.
	PTR_TYPE
	// LABEL_TYPE is the type of a basic block.
	LABEL_TYPE
	// ARRAY_TYPE is a fixed-length array of elements.
	ARRAY_TYPE
	// VECTOR_TYPE is a fixed-length (or scalable) vector of elements.
	VECTOR_TYPE
	// STRUCT_TYPE is a (possibly named and/or packed) structure.
	STRUCT_TYPE
	// TOKEN_TYPE is the type of values which cannot be inspected.
	TOKEN_TYPE
	// METADATA_TYPE is the type of metadata arguments to intrinsics.
	METADATA_TYPE
)

// FloatFormat identifies a particular floating-point representation.
type FloatFormat uint8

const (
	// HALF is IEEE binary16.
	HALF FloatFormat = iota
	// BFLOAT is the 16-bit "brain" float.
	BFLOAT
	// FLOAT is IEEE binary32.
	FLOAT
	// DOUBLE is IEEE binary64.
	DOUBLE
	// X86_FP80 is the x87 80-bit extended format.
	X86_FP80
	// FP128 is IEEE binary128.
	FP128
	// PPC_FP128 is the PowerPC double-double format.
	PPC_FP128
)

var floatFormatNames = []string{"half", "bfloat", "float", "double", "x86_fp80", "fp128", "ppc_fp128"}

var floatFormatWidths = []uint{16, 16, 32, 64, 80, 128, 128}

func (f FloatFormat) String() string {
	return floatFormatNames[f]
}

// Width returns the number of bits in this format.
func (f FloatFormat) Width() uint {
	return floatFormatWidths[f]
}

// Type represents the type of a value.  Types are compared structurally (see
// Equal), except for named structs which are compared by name.
type Type struct {
	Kind TypeKind
	// Bitwidth for integers
	Width uint
	// Format for floating-point types
	Format FloatFormat
	// Number of elements for arrays and vectors
	Len uint
	// Scalable vectors
	Scalable bool
	// Element type for arrays and vectors
	Elem *Type
	// Fields for structs
	Fields []*Type
	// Packed structs have no padding
	Packed bool
	// Name of a named struct (without leading '%')
	Name string
	// Opaque structs have no body
	Opaque bool
}

// VoidType constructs the void type.
func VoidType() *Type {
	return &Type{Kind: VOID_TYPE}
}

// IntType constructs an integer type of a given bitwidth.
func IntType(width uint) *Type {
	return &Type{Kind: INT_TYPE, Width: width}
}

// FloatType constructs a floating-point type of a given format.
func FloatType(format FloatFormat) *Type {
	return &Type{Kind: FLOAT_TYPE, Format: format, Width: format.Width()}
}

// PtrType constructs the (opaque) pointer type.
func PtrType() *Type {
	return &Type{Kind: PTR_TYPE, Width: 64}
}

// LabelType constructs the type of basic blocks.
func LabelType() *Type {
	return &Type{Kind: LABEL_TYPE}
}

// ArrayType constructs an array type.
func ArrayType(n uint, elem *Type) *Type {
	return &Type{Kind: ARRAY_TYPE, Len: n, Elem: elem}
}

// VectorType constructs a vector type.
func VectorType(n uint, elem *Type, scalable bool) *Type {
	return &Type{Kind: VECTOR_TYPE, Len: n, Elem: elem, Scalable: scalable}
}

// StructType constructs a literal (i.e. unnamed) struct type.
func StructType(packed bool, fields ...*Type) *Type {
	return &Type{Kind: STRUCT_TYPE, Fields: fields, Packed: packed}
}

// NamedType constructs a named struct type whose body is defined later.
func NamedType(name string) *Type {
	return &Type{Kind: STRUCT_TYPE, Name: name, Opaque: true}
}

// IsInt checks whether this is an integer type.
func (t *Type) IsInt() bool {
	return t.Kind == INT_TYPE
}

// IsFloat checks whether this is a floating-point type, or a vector thereof.
func (t *Type) IsFloat() bool {
	if t.Kind == VECTOR_TYPE {
		return t.Elem.IsFloat()
	}
	//
	return t.Kind == FLOAT_TYPE
}

// IsVoid checks whether this is the void type.
func (t *Type) IsVoid() bool {
	return t.Kind == VOID_TYPE
}

// Equal determines whether two types are identical.
func (t *Type) Equal(o *Type) bool {
	switch {
	case t == o:
		return true
	case t.Kind != o.Kind:
		return false
	case t.Kind == STRUCT_TYPE && (t.Name != "" || o.Name != ""):
		return t.Name == o.Name
	case t.Kind == STRUCT_TYPE:
		if t.Packed != o.Packed || len(t.Fields) != len(o.Fields) {
			return false
		}
		//
		for i := range t.Fields {
			if !t.Fields[i].Equal(o.Fields[i]) {
				return false
			}
		}
		//
		return true
	case t.Kind == ARRAY_TYPE || t.Kind == VECTOR_TYPE:
		return t.Len == o.Len && t.Scalable == o.Scalable && t.Elem.Equal(o.Elem)
	case t.Kind == FLOAT_TYPE:
		return t.Format == o.Format
	default:
		return t.Width == o.Width
	}
}

// StoreSize returns the number of bytes written when storing a value of this
// type.
func (t *Type) StoreSize() uint64 {
	switch t.Kind {
	case INT_TYPE, FLOAT_TYPE:
		if t.Kind == FLOAT_TYPE && t.Format == X86_FP80 {
			return 10
		}
		//
		return (uint64(t.Width) + 7) / 8
	case PTR_TYPE:
		return 8
	case ARRAY_TYPE:
		return uint64(t.Len) * t.Elem.AllocSize()
	case VECTOR_TYPE:
		return (uint64(t.Len)*t.Elem.bits() + 7) / 8
	case STRUCT_TYPE:
		size, _ := t.layout(len(t.Fields))
		return size
	default:
		return 0
	}
}

// AllocSize returns the number of bytes between successive elements of this
// type in memory, including alignment padding.
func (t *Type) AllocSize() uint64 {
	return alignTo(t.StoreSize(), t.Align())
}

// Align returns the ABI alignment (in bytes) of this type.  This follows the
// usual 64-bit data layout, where integers are aligned to their (power of two)
// size up to 16 bytes.
func (t *Type) Align() uint64 {
	switch t.Kind {
	case INT_TYPE:
		return min(16, nextPowerOf2((uint64(t.Width)+7)/8))
	case FLOAT_TYPE:
		if t.Format == X86_FP80 || t.Format == FP128 || t.Format == PPC_FP128 {
			return 16
		}
		//
		return (uint64(t.Width) + 7) / 8
	case PTR_TYPE:
		return 8
	case ARRAY_TYPE:
		return t.Elem.Align()
	case VECTOR_TYPE:
		return nextPowerOf2(t.StoreSize())
	case STRUCT_TYPE:
		_, align := t.layout(len(t.Fields))
		return align
	default:
		return 1
	}
}

// FieldOffset returns the byte offset of the nth field of a struct type.
func (t *Type) FieldOffset(n int) uint64 {
	if t.Kind != STRUCT_TYPE || n >= len(t.Fields) {
		panic(fmt.Sprintf("invalid field %d of type %s", n, t.String()))
	}
	//
	offset, _ := t.layout(n)
	// Align start of this field
	if !t.Packed {
		offset = alignTo(offset, t.Fields[n].Align())
	}
	//
	return offset
}

// Compute the size and alignment of the first n fields of a struct.  When n
// covers all fields, the size is rounded up to the struct's alignment.
func (t *Type) layout(n int) (uint64, uint64) {
	var offset, align uint64 = 0, 1
	//
	for _, field := range t.Fields[:n] {
		if !t.Packed {
			offset = alignTo(offset, field.Align())
			align = max(align, field.Align())
		}
		//
		offset += field.AllocSize()
	}
	//
	if n == len(t.Fields) && !t.Packed {
		offset = alignTo(offset, align)
	}
	//
	return offset, align
}

func (t *Type) bits() uint64 {
	if t.Kind == PTR_TYPE {
		return 64
	}
	//
	return uint64(t.Width)
}

func (t *Type) String() string {
	switch t.Kind {
	case VOID_TYPE:
		return "void"
	case INT_TYPE:
		return fmt.Sprintf("i%d", t.Width)
	case FLOAT_TYPE:
		return t.Format.String()
	case PTR_TYPE:
		return "ptr"
	case LABEL_TYPE:
		return "label"
	case TOKEN_TYPE:
		return "token"
	case METADATA_TYPE:
		return "metadata"
	case ARRAY_TYPE:
		return fmt.Sprintf("[%d x %s]", t.Len, t.Elem.String())
	case VECTOR_TYPE:
		if t.Scalable {
			return fmt.Sprintf("<vscale x %d x %s>", t.Len, t.Elem.String())
		}
		//
		return fmt.Sprintf("<%d x %s>", t.Len, t.Elem.String())
	default:
		if t.Name != "" {
			return "%" + t.Name
		}
		//
		var fields = make([]string, len(t.Fields))
		//
		for i, f := range t.Fields {
			fields[i] = f.String()
		}
		//
		if t.Packed {
			return fmt.Sprintf("<{ %s }>", strings.Join(fields, ", "))
		}
		//
		return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
	}
}

func alignTo(n uint64, align uint64) uint64 {
	if align <= 1 {
		return n
	}
	//
	return (n + align - 1) / align * align
}

func nextPowerOf2(n uint64) uint64 {
	var p uint64 = 1
	//
	for p < n {
		p <<= 1
	}
	//
	return p
}
