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

// ScaledIndex is a variable index of an address computation, along with the
// number of bytes it is multiplied by.
type ScaledIndex struct {
	Value ir.Value
	Scale int64
}

// CollectOffset decomposes the address computed by a getelementptr into a sum
// of scaled variable indices and a constant byte offset (which is added to the
// base pointer).  Variable indices are given in the order they first appear,
// with repeated occurrences of the same index combined.  Arithmetic wraps at
// 64 bits.
func CollectOffset(insn *ir.Instruction) ([]ScaledIndex, int64) {
	var (
		variables []ScaledIndex
		offset    int64
		typ       = insn.Elem
	)
	//
	for i, index := range insn.Operands[1:] {
		var scale int64
		//
		if i == 0 {
			scale = int64(typ.AllocSize())
		} else if typ.Kind == ir.STRUCT_TYPE {
			// Struct indices are always constant
			if c, ok := index.(ir.ConstInt); ok && c.Uint64() < uint64(len(typ.Fields)) {
				field := int(c.Uint64())
				offset += int64(typ.FieldOffset(field))
				typ = typ.Fields[field]
			}
			//
			continue
		} else if typ.Elem != nil {
			typ = typ.Elem
			scale = int64(typ.AllocSize())
		}
		//
		switch {
		case scale == 0 || ir.IsNullValue(index):
			continue
		case isConstInt(index):
			offset += index.(ir.ConstInt).Int64() * scale
		default:
			variables = addScaledIndex(variables, index, scale)
		}
	}
	// Indices may cancel out
	return removeZeroScales(variables), offset
}

func isConstInt(value ir.Value) bool {
	_, ok := value.(ir.ConstInt)
	return ok
}

func addScaledIndex(variables []ScaledIndex, index ir.Value, scale int64) []ScaledIndex {
	for i := range variables {
		if variables[i].Value == index {
			variables[i].Scale += scale
			return variables
		}
	}
	//
	return append(variables, ScaledIndex{index, scale})
}

func removeZeroScales(variables []ScaledIndex) []ScaledIndex {
	var result = variables[:0]
	//
	for _, v := range variables {
		if v.Scale != 0 {
			result = append(result, v)
		}
	}
	//
	return result
}
