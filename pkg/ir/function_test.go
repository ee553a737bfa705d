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
	"math"
	"math/big"
	"testing"
)

func Test_PostOrder_01(t *testing.T) {
	// entry -> a -> exit, entry -> b -> exit, dead -> exit
	var (
		exit  = block("exit", RET)
		a     = block("a", BR, exit)
		b     = block("b", BR, exit)
		entry = block("entry", BR, a, b)
		dead  = block("dead", BR, exit)
	)
	//
	fn := function(entry, a, b, dead, exit)
	//
	checkOrder(t, fn.PostOrder(), "exit", "a", "b", "entry")
}

func Test_PostOrder_02(t *testing.T) {
	// Loops
	var (
		exit  = block("exit", RET)
		body  = block("body", BR)
		head  = block("head", BR, body, exit)
		entry = block("entry", BR, head)
	)
	//
	body.Instructions[0].Targets = []*Block{head}
	fn := function(entry, head, body, exit)
	//
	checkOrder(t, fn.PostOrder(), "body", "exit", "head", "entry")
}

func Test_PostOrder_03(t *testing.T) {
	fn := &Function{Name: "decl"}
	//
	if !fn.IsDeclaration() || len(fn.PostOrder()) != 0 {
		t.Errorf("declaration has no blocks")
	}
}

func Test_Finalise_01(t *testing.T) {
	var (
		exit  = block("exit", RET)
		entry = block("entry", BR, exit)
		param = &Param{Name: "x", Typ: IntType(32)}
		fn    = &Function{Name: "f", Params: []*Param{param}, Blocks: []*Block{entry, exit}}
	)
	//
	fn.Finalise()
	//
	if fn.NumLocals() != 3 || param.Index() != 0 || exit.Instructions[0].Index() != 2 {
		t.Errorf("unexpected local numbering")
	}
	//
	if exit.Parent() != fn || exit.Instructions[0].Parent() != exit {
		t.Errorf("unexpected parents")
	}
}

func Test_ConstInt_01(t *testing.T) {
	checkInt(t, NewConstInt(8, -1), 255, -1)
	checkInt(t, NewConstInt(32, 1<<31), 1<<31, math.MinInt32)
	checkInt(t, NewConstInt(64, -5), math.MaxUint64-4, -5)
	checkInt(t, NewConstInt(1, 1), 1, -1)
	//
	if NewConstInt(128, -1).Hi != math.MaxUint64 {
		t.Errorf("expected sign extension of i128")
	}
	//
	if NewConstInt(100, -1).Hi != (1<<36)-1 {
		t.Errorf("expected truncation of i100")
	}
}

func Test_ConstInt_02(t *testing.T) {
	minimum, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)
	c := NewConstIntFromBig(128, minimum)
	//
	if c.Hi != 1<<63 || c.Lo != 0 {
		t.Errorf("unexpected i128 minimum %x %x", c.Hi, c.Lo)
	}
	// Equal constants are equal values
	if Value(NewConstInt(32, 5)) != Value(NewConstIntFromBig(32, new(big.Int).SetInt64(5))) {
		t.Errorf("expected equal constants")
	}
}

func Test_ConstFloat_01(t *testing.T) {
	// Every double is exactly representable in the wider formats
	for _, format := range []FloatFormat{DOUBLE, X86_FP80, FP128} {
		for _, v := range []float64{0, 1, -2.5, 0.1, math.Inf(-1), math.SmallestNonzeroFloat64, math.MaxFloat64} {
			actual, exact := NewConstFloat(format, v).Float64()
			//
			if !exact || actual != v {
				t.Errorf("%s: expected %g, got %g", format.String(), v, actual)
			}
		}
	}
}

func Test_ConstFloat_02(t *testing.T) {
	if _, exact := NewConstFloat(PPC_FP128, 1).Float64(); exact {
		t.Errorf("ppc_fp128 should never be exact")
	}
	//
	if !NewConstFloat(DOUBLE, 0).IsPositiveZero() || NewConstFloat(DOUBLE, math.Copysign(0, -1)).IsPositiveZero() {
		t.Errorf("unexpected positive zero")
	}
}

func Test_IntrinsicName_01(t *testing.T) {
	checkIntrinsic(t, "llvm.ctpop.i32", "ctpop")
	checkIntrinsic(t, "llvm.smax.v4i32", "smax")
	checkIntrinsic(t, "llvm.memcpy.p0.p0.i64", "memcpy")
	checkIntrinsic(t, "llvm.fmuladd.f64", "fmuladd")
	checkIntrinsic(t, "llvm.is.fpclass.f32", "is.fpclass")
	checkIntrinsic(t, "llvm.lifetime.start.p0", "lifetime.start")
	checkIntrinsic(t, "llvm.experimental.noalias.scope.decl", "experimental.noalias.scope.decl")
	checkIntrinsic(t, "printf", "")
}

func Test_Layout_01(t *testing.T) {
	var (
		i8  = IntType(8)
		i32 = IntType(32)
		i64 = IntType(64)
	)
	//
	checkSize(t, StructType(false, i8, i64), 16, 8)
	checkSize(t, StructType(true, i8, i64), 9, 1)
	checkSize(t, ArrayType(3, i32), 12, 4)
	checkSize(t, FloatType(X86_FP80), 16, 16)
	checkSize(t, IntType(1), 1, 1)
	checkSize(t, VectorType(4, i32, false), 16, 16)
	//
	if off := StructType(false, i8, i32, i64).FieldOffset(2); off != 8 {
		t.Errorf("expected offset 8, got %d", off)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func block(name string, opcode Opcode, targets ...*Block) *Block {
	insn := &Instruction{Opcode: opcode, Typ: VoidType(), Targets: targets}
	return &Block{Name: name, Instructions: []*Instruction{insn}}
}

func function(blocks ...*Block) *Function {
	fn := &Function{Name: "f", Result: VoidType(), Blocks: blocks}
	fn.Finalise()
	//
	return fn
}

func checkOrder(t *testing.T, order []*Block, names ...string) {
	t.Helper()
	//
	if len(order) != len(names) {
		t.Fatalf("expected %d blocks, got %d", len(names), len(order))
	}
	//
	for i, b := range order {
		if b.Name != names[i] {
			t.Errorf("expected block %s at %d, got %s", names[i], i, b.Name)
		}
	}
}

func checkInt(t *testing.T, c ConstInt, unsigned uint64, signed int64) {
	t.Helper()
	//
	if c.Uint64() != unsigned || c.Int64() != signed {
		t.Errorf("%d-bit constant: expected %d/%d, got %d/%d", c.Width, unsigned, signed, c.Uint64(), c.Int64())
	}
}

func checkIntrinsic(t *testing.T, function string, expected string) {
	t.Helper()
	//
	if actual := IntrinsicName(function); actual != expected {
		t.Errorf("%s: expected \"%s\", got \"%s\"", function, expected, actual)
	}
}

func checkSize(t *testing.T, typ *Type, size uint64, align uint64) {
	t.Helper()
	//
	if typ.AllocSize() != size || typ.Align() != align {
		t.Errorf("%s: expected size %d / align %d, got %d / %d", typ.String(), size, align, typ.AllocSize(),
			typ.Align())
	}
}
