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
	"testing"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/consensys/go-isacost/pkg/ir/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Arithmetic
// ============================================================================

func Test_Add_01(t *testing.T) {
	// Folded immediate
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i32 %x) {
  %a = add i32 %x, 5
  ret i32 %a
}`)
}

func Test_Add_02(t *testing.T) {
	// Materialised by a load-immediate followed by an add-immediate
	checkCost(t, 1+2+JUMP_COST, `
define i32 @f(i32 %x) {
  %a = add i32 %x, 1000000
  ret i32 %a
}`)
}

func Test_Add_03(t *testing.T) {
	// Materialised by a load-immediate
	checkCost(t, 1+1+JUMP_COST, `
define i32 @f(i32 %x) {
  %a = add i32 %x, 5000
  ret i32 %a
}`)
}

func Test_Sub_01(t *testing.T) {
	// Reverse subtract folds the minuend
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i32 %x) {
  %a = sub i32 7, %x
  ret i32 %a
}`)
}

func Test_Sub_02(t *testing.T) {
	// Subtrahend is never folded
	checkCost(t, 1+1+JUMP_COST, `
define i32 @f(i32 %x) {
  %a = sub i32 %x, 7
  ret i32 %a
}`)
}

func Test_Shift_01(t *testing.T) {
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i32 %x) {
  %a = shl i32 %x, 3
  ret i32 %a
}`)
}

func Test_Shift_02(t *testing.T) {
	// Immediate shifted by a register
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i32 %n) {
  %a = shl i32 1, %n
  ret i32 %a
}`)
}

func Test_Mul_01(t *testing.T) {
	checkCost(t, 1+JUMP_COST, `
define i64 @f(i64 %x) {
  %a = mul i64 %x, 8
  ret i64 %a
}`)
}

func Test_Mul_02(t *testing.T) {
	checkCost(t, MUL_COST+1+JUMP_COST, `
define i64 @f(i64 %x) {
  %a = mul i64 %x, 1000
  ret i64 %a
}`)
}

func Test_Bitwise_01(t *testing.T) {
	// The inversion is absorbed, and never requested
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i32 %x, i32 %y) {
  %n = xor i32 %y, -1
  %a = and i32 %x, %n
  ret i32 %a
}`)
}

func Test_Bitwise_02(t *testing.T) {
	checkCost(t, 1+JUMP_COST, `
define i64 @f(i64 %x) {
  %a = and i64 %x, 4294967295
  ret i64 %a
}`)
}

func Test_Div_01(t *testing.T) {
	checkCost(t, DIV_COST+JUMP_COST, `
define i32 @f(i32 %x) {
  %a = udiv i32 %x, 7
  ret i32 %a
}`)
}

func Test_Div_02(t *testing.T) {
	// Negative divisors are not folded
	checkCost(t, DIV_COST+1+JUMP_COST, `
define i32 @f(i32 %x) {
  %a = sdiv i32 %x, -7
  ret i32 %a
}`)
}

// ============================================================================
// Floating point
// ============================================================================

func Test_Float_01(t *testing.T) {
	checkCost(t, FCHEAP_OP_COST+JUMP_COST, `
define double @f(double %x) {
  %a = fadd double %x, 1.0
  ret double %a
}`)
}

func Test_Float_02(t *testing.T) {
	// Not representable as a half
	checkCost(t, FCHEAP_OP_COST+LOAD_STORE_COST+JUMP_COST, `
define double @f(double %x) {
  %a = fadd double %x, 0.1
  ret double %a
}`)
}

func Test_Float_03(t *testing.T) {
	// Representable as a half, but not in eight bits
	checkCost(t, FMUL_COST+FCHEAP_OP_COST+JUMP_COST, `
define float @f(float %x) {
  %a = fmul float %x, 1000.0
  ret float %a
}`)
}

func Test_Float_04(t *testing.T) {
	// Reverse subtract
	checkCost(t, FCHEAP_OP_COST+JUMP_COST, `
define double @f(double %x) {
  %a = fsub double 1.0, %x
  ret double %a
}`)
}

func Test_Float_05(t *testing.T) {
	// Negated absolute value
	checkCost(t, FCHEAP_OP_COST+JUMP_COST, `
define double @f(double %x) {
  %a = call double @llvm.fabs.f64(double %x)
  %b = fneg double %a
  ret double %b
}

declare double @llvm.fabs.f64(double)`)
}

func Test_Float_06(t *testing.T) {
	checkCost(t, FDIV_COST+JUMP_COST, `
define double @f(double %x) {
  %a = call double @llvm.sqrt.f64(double %x)
  ret double %a
}

declare double @llvm.sqrt.f64(double)`)
}

func Test_Float_07(t *testing.T) {
	checkCost(t, CALL_COST+JUMP_COST, `
define double @f(double %x, double %y) {
  %a = frem double %x, %y
  ret double %a
}`)
}

func Test_Fcmp_01(t *testing.T) {
	// Zero test
	checkCost(t, FCHEAP_OP_COST+1+JUMP_COST, `
define i32 @f(double %x) {
  %c = fcmp oeq double %x, 0.0
  %z = zext i1 %c to i32
  ret i32 %z
}`)
}

func Test_Fcmp_02(t *testing.T) {
	// Subnormal test
	checkCost(t, FCHEAP_OP_COST+1+JUMP_COST, `
define i32 @f(double %x) {
  %a = call double @llvm.fabs.f64(double %x)
  %c = fcmp olt double %a, 0x0010000000000000
  %z = zext i1 %c to i32
  ret i32 %z
}

declare double @llvm.fabs.f64(double)`)
}

func Test_Fcmp_03(t *testing.T) {
	// Not a class test
	checkCost(t, FCHEAP_OP_COST+LOAD_STORE_COST+1+JUMP_COST, `
define i32 @f(double %x) {
  %c = fcmp olt double %x, 0.1
  %z = zext i1 %c to i32
  ret i32 %z
}`)
}

func Test_Fcmp_04(t *testing.T) {
	// Infinity test
	checkCost(t, FCHEAP_OP_COST+1+JUMP_COST, `
define i32 @f(float %x) {
  %c = fcmp une float %x, 0x7FF0000000000000
  %z = zext i1 %c to i32
  ret i32 %z
}`)
}

// ============================================================================
// Casts
// ============================================================================

func Test_Cast_01(t *testing.T) {
	checkCost(t, JUMP_COST, `
define i64 @f(i32 %x) {
  %a = sext i32 %x to i64
  ret i64 %a
}`)
}

func Test_Cast_02(t *testing.T) {
	checkCost(t, JUMP_COST, `
define i64 @f(i32 %x) {
  %a = zext nneg i32 %x to i64
  ret i64 %a
}`)
}

func Test_Cast_03(t *testing.T) {
	checkCost(t, 1+JUMP_COST, `
define i64 @f(i32 %x) {
  %a = zext i32 %x to i64
  ret i64 %a
}`)
}

func Test_Cast_04(t *testing.T) {
	checkCost(t, FCHEAP_OP_COST+JUMP_COST, `
define double @f(i32 %x) {
  %a = sitofp i32 %x to double
  ret double %a
}`)
}

func Test_Cast_05(t *testing.T) {
	// Truncation which cannot overflow
	checkCost(t, JUMP_COST, `
define i32 @f(i64 %x) {
  %t = trunc nsw i64 %x to i32
  ret i32 %t
}`)
}

func Test_Cast_06(t *testing.T) {
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i64 %x) {
  %t = trunc i64 %x to i32
  ret i32 %t
}`)
}

func Test_Freeze_01(t *testing.T) {
	checkCost(t, JUMP_COST, `
define i32 @f(i32 %x) {
  %y = freeze i32 %x
  ret i32 %y
}`)
}

// ============================================================================
// Control flow
// ============================================================================

func Test_Ret_01(t *testing.T) {
	checkCost(t, JUMP_COST+1, `
define i32 @f() {
  ret i32 5
}`)
}

func Test_Branch_01(t *testing.T) {
	// Compare and branch, where the comparison is never requested
	checkCost(t, 1+2*JUMP_COST, `
define void @f(i32 %x) {
entry:
  %c = icmp slt i32 %x, 10
  br i1 %c, label %a, label %b
a:
  ret void
b:
  ret void
}`)
}

func Test_Branch_02(t *testing.T) {
	// Compare and branch, where the immediate is too large
	checkCost(t, 1+1+2*JUMP_COST, `
define void @f(i32 %x) {
entry:
  %c = icmp slt i32 %x, 100
  br i1 %c, label %a, label %b
a:
  ret void
b:
  ret void
}`)
}

func Test_Branch_03(t *testing.T) {
	// A shared constant is materialised once
	checkCost(t, 3*JUMP_COST+2, `
define i32 @f(i1 %c) {
entry:
  br i1 %c, label %a, label %b
a:
  ret i32 1000000
b:
  ret i32 1000000
}`)
}

func Test_Switch_01(t *testing.T) {
	// One branch (the default is unreachable), two comparisons, and four
	// materialised constants.
	checkCost(t, JUMP_COST+2+2*JUMP_COST+4, `
define i32 @f(i32 %x) {
entry:
  switch i32 %x, label %d [
    i32 0, label %a
    i32 5000, label %b
  ]
a:
  ret i32 1
b:
  ret i32 2
d:
  unreachable
}`)
}

func Test_Phi_01(t *testing.T) {
	// Incoming values are requested irrespective of the phi
	checkCost(t, 1+1+1+JUMP_COST+1, `
define i32 @f(i32 %n) {
entry:
  br label %loop
loop:
  %i = phi i32 [ 0, %entry ], [ %j, %loop ]
  %j = add i32 %i, 1
  %c = icmp slt i32 %j, %n
  br i1 %c, label %loop, label %exit
exit:
  ret i32 %j
}`)
}

func Test_Unreachable_01(t *testing.T) {
	// Unreachable blocks cost nothing
	checkCost(t, JUMP_COST, `
define void @f(ptr %p) {
entry:
  ret void
dead:
  store i32 1, ptr %p
  ret void
}`)
}

// ============================================================================
// Memory
// ============================================================================

func Test_Memory_01(t *testing.T) {
	checkCost(t, LOAD_STORE_COST+JUMP_COST, `
define void @f(ptr %p, i32 %v) {
  store i32 %v, ptr %p
  ret void
}`)
}

func Test_Memory_02(t *testing.T) {
	// Scaled index (shift then add)
	checkCost(t, 2+LOAD_STORE_COST+JUMP_COST, `
define i32 @f(ptr %p, i64 %i) {
  %q = getelementptr inbounds i32, ptr %p, i64 %i
  %v = load i32, ptr %q
  ret i32 %v
}`)
}

func Test_Memory_03(t *testing.T) {
	// Constant offset
	checkCost(t, 1+LOAD_STORE_COST+JUMP_COST, `
%pair = type { i32, i64 }

define i64 @f(ptr %p) {
  %q = getelementptr inbounds %pair, ptr %p, i64 0, i32 1
  %v = load i64, ptr %q
  ret i64 %v
}`)
}

func Test_Memory_04(t *testing.T) {
	// Unit scale
	checkCost(t, 1+LOAD_STORE_COST+JUMP_COST, `
define i8 @f(ptr %p, i64 %i) {
  %q = getelementptr i8, ptr %p, i64 %i
  %v = load i8, ptr %q
  ret i8 %v
}`)
}

// ============================================================================
// Calls
// ============================================================================

func Test_Call_01(t *testing.T) {
	checkCost(t, CALL_COST+JUMP_COST, `
define i32 @f(i32 %x) {
  %r = call i32 @g(i32 %x)
  ret i32 %r
}

declare i32 @g(i32)`)
}

func Test_Call_02(t *testing.T) {
	// Unknown intrinsic
	checkCost(t, UNSUPPORTED_COST+CALL_COST+1+1+JUMP_COST, `
define void @f(ptr %d, ptr %s) {
  call void @llvm.memcpy.p0.p0.i64(ptr %d, ptr %s, i64 16, i1 false)
  ret void
}

declare void @llvm.memcpy.p0.p0.i64(ptr, ptr, i64, i1)`)
}

func Test_Call_03(t *testing.T) {
	checkCost(t, BIT_COUNT_COST+JUMP_COST, `
define i32 @f(i32 %x) {
  %r = call i32 @llvm.ctpop.i32(i32 %x)
  ret i32 %r
}

declare i32 @llvm.ctpop.i32(i32)`)
}

func Test_Call_04(t *testing.T) {
	// Absolute difference
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i32 %a, i32 %b) {
  %d = sub i32 %a, %b
  %r = call i32 @llvm.abs.i32(i32 %d, i1 false)
  ret i32 %r
}

declare i32 @llvm.abs.i32(i32, i1)`)
}

func Test_Call_05(t *testing.T) {
	// Dead calls to pure functions are removed
	checkCost(t, JUMP_COST, `
define void @f(i32 %x) {
  %r = call i32 @g(i32 %x)
  ret void
}

declare i32 @g(i32) #0

attributes #0 = { nounwind willreturn memory(none) }`)
}

// ============================================================================
// Intrinsics
// ============================================================================

func Test_Intrinsic_01(t *testing.T) {
	// Shift amount folded
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i32 %a, i32 %b) {
  %r = call i32 @llvm.fshl.i32(i32 %a, i32 %b, i32 3)
  ret i32 %r
}

declare i32 @llvm.fshl.i32(i32, i32, i32)`)
}

func Test_Intrinsic_02(t *testing.T) {
	// Shift amount out of range
	checkCost(t, 1+1+JUMP_COST, `
define i32 @f(i32 %a, i32 %b) {
  %r = call i32 @llvm.fshr.i32(i32 %a, i32 %b, i32 100)
  ret i32 %r
}

declare i32 @llvm.fshr.i32(i32, i32, i32)`)
}

func Test_Intrinsic_03(t *testing.T) {
	checkCost(t, 1+JUMP_COST, `
define i32 @f(i32 %a, i32 %b, i32 %c) {
  %r = call i32 @llvm.fshr.i32(i32 %a, i32 %b, i32 %c)
  ret i32 %r
}

declare i32 @llvm.fshr.i32(i32, i32, i32)`)
}

func Test_Intrinsic_04(t *testing.T) {
	for _, name := range []string{"smax", "smin", "umax", "umin"} {
		checkCost(t, 1+JUMP_COST, fmt.Sprintf(`
define i32 @f(i32 %%x) {
  %%r = call i32 @llvm.%s.i32(i32 %%x, i32 100)
  ret i32 %%r
}

declare i32 @llvm.%s.i32(i32, i32)`, name, name))
	}
}

func Test_Intrinsic_05(t *testing.T) {
	// Bound too large to fold
	checkCost(t, 1+1+JUMP_COST, `
define i32 @f(i32 %x) {
  %r = call i32 @llvm.smin.i32(i32 %x, i32 5000)
  ret i32 %r
}

declare i32 @llvm.smin.i32(i32, i32)`)
}

func Test_Intrinsic_06(t *testing.T) {
	// Magnitude folded, negation absorbed
	checkCost(t, FCHEAP_OP_COST+JUMP_COST, `
define double @f(double %b) {
  %n = fneg double %b
  %r = call double @llvm.copysign.f64(double 1.0, double %n)
  ret double %r
}

declare double @llvm.copysign.f64(double, double)`)
}

func Test_Intrinsic_07(t *testing.T) {
	// Magnitude loaded
	checkCost(t, FCHEAP_OP_COST+LOAD_STORE_COST+JUMP_COST, `
define double @f(double %b) {
  %r = call double @llvm.copysign.f64(double 1.000000e+10, double %b)
  ret double %r
}

declare double @llvm.copysign.f64(double, double)`)
}

func Test_Intrinsic_08(t *testing.T) {
	for _, name := range []string{"bswap", "bitreverse"} {
		checkCost(t, 1+JUMP_COST, fmt.Sprintf(`
define i32 @f(i32 %%x) {
  %%r = call i32 @llvm.%s.i32(i32 %%x)
  ret i32 %%r
}

declare i32 @llvm.%s.i32(i32)`, name, name))
	}
}

func Test_Intrinsic_09(t *testing.T) {
	for _, name := range []string{"fma", "fmuladd"} {
		checkCost(t, FMUL_COST+JUMP_COST, fmt.Sprintf(`
define double @f(double %%a, double %%b, double %%c) {
  %%r = call double @llvm.%s.f64(double %%a, double %%b, double %%c)
  ret double %%r
}

declare double @llvm.%s.f64(double, double, double)`, name, name))
	}
}

func Test_Intrinsic_10(t *testing.T) {
	// Absolute difference of an argument and a constant
	checkCost(t, 1+1+JUMP_COST, `
define i32 @f(i32 %a) {
  %d = sub i32 %a, 100000
  %r = call i32 @llvm.abs.i32(i32 %d, i1 false)
  ret i32 %r
}

declare i32 @llvm.abs.i32(i32, i1)`)
}

// ============================================================================
// Unsupported
// ============================================================================

func Test_Unsupported_01(t *testing.T) {
	checkCost(t, UNSUPPORTED_COST+JUMP_COST, `
define i32 @f({ i32, i1 } %s) {
  %v = extractvalue { i32, i1 } %s, 0
  ret i32 %v
}`)
}

func Test_Unsupported_02(t *testing.T) {
	checkCost(t, UNSUPPORTED_COST+JUMP_COST, `
define { i32, i1 } @f({ i32, i1 } %s, i32 %x) {
  %r = insertvalue { i32, i1 } %s, i32 %x, 0
  ret { i32, i1 } %r
}`)
}

func Test_Unsupported_03(t *testing.T) {
	checkCost(t, UNSUPPORTED_COST+JUMP_COST, `
define i32 @f(<4 x i32> %v, i32 %i) {
  %r = extractelement <4 x i32> %v, i32 %i
  ret i32 %r
}`)
}

func Test_Unsupported_04(t *testing.T) {
	checkCost(t, UNSUPPORTED_COST+JUMP_COST, `
define <4 x i32> @f(<4 x i32> %v, i32 %x, i32 %i) {
  %r = insertelement <4 x i32> %v, i32 %x, i32 %i
  ret <4 x i32> %r
}`)
}

func Test_Unsupported_05(t *testing.T) {
	checkCost(t, UNSUPPORTED_COST+JUMP_COST, `
define <4 x i32> @f(<4 x i32> %a, <4 x i32> %b) {
  %r = shufflevector <4 x i32> %a, <4 x i32> %b, <4 x i32> zeroinitializer
  ret <4 x i32> %r
}`)
}

func Test_Unsupported_06(t *testing.T) {
	// Retained even when unused
	checkCost(t, UNSUPPORTED_COST+JUMP_COST, `
define void @f(ptr %ap) {
  %v = va_arg ptr %ap, i32
  ret void
}`)
}

func Test_Unsupported_07(t *testing.T) {
	// Landing pad and resume
	checkCost(t, CALL_COST+2*UNSUPPORTED_COST+JUMP_COST, `
define void @f() personality ptr @p {
entry:
  invoke void @h() to label %ok unwind label %bad
ok:
  ret void
bad:
  %lp = landingpad { ptr, i32 } cleanup
  resume { ptr, i32 } %lp
}

declare void @h()

declare i32 @p(...)`)
}

func Test_Select_01(t *testing.T) {
	checkCost(t, 1+1+JUMP_COST, `
define i32 @f(i1 %c) {
  %r = select i1 %c, i32 5, i32 100000
  ret i32 %r
}`)
}

// ============================================================================
// Properties
// ============================================================================

func Test_DeadCode_01(t *testing.T) {
	var (
		live = parse(t, `
define i32 @f(i32 %x) {
  %a = add i32 %x, 5
  ret i32 %a
}`)
		dead = parse(t, `
define i32 @f(i32 %x) {
  %a = add i32 %x, 5
  %b = mul i32 %x, 12345
  %c = udiv i32 %b, %a
  ret i32 %a
}`)
	)
	//
	c1, _ := Program(live, nil)
	c2, _ := Program(dead, nil)
	assert.Equal(t, c1, c2)
}

func Test_Determinism_01(t *testing.T) {
	program := parse(t, `
define i32 @f(i32 %x, i1 %c) {
entry:
  br i1 %c, label %a, label %b
a:
  %y = mul i32 %x, 1000
  ret i32 %y
b:
  %z = add i32 %x, 100000
  ret i32 %z
}

define i32 @g(i32 %x) {
  %r = call i32 @f(i32 %x, i1 true)
  ret i32 %r
}`)
	//
	c1, b1 := Program(program, nil)
	c2, b2 := Program(program, nil)
	//
	assert.Equal(t, c1, c2)
	assert.Equal(t, b1, b2)
	require.Len(t, b1, 2)
	assert.Equal(t, "f", b1[0].Name)
	assert.Equal(t, c1, b1[0].Cost+b1[1].Cost)
}

func Test_Sink_01(t *testing.T) {
	var (
		sink    recorder
		program = parse(t, `
define i32 @f(i1 %c) {
entry:
  br i1 %c, label %a, label %b
a:
  ret i32 1000000
b:
  %r = select i1 %c, i32 -7, i32 100000
  ret i32 %r
}`)
	)
	//
	Program(program, &sink)
	// Folded constants are never materialised
	assert.ElementsMatch(t, []int64{1000000, 100000}, sink.values)
}

func Test_Unhandled_01(t *testing.T) {
	var (
		insn  = &ir.Instruction{Opcode: ir.NUM_OPCODES, Typ: ir.VoidType()}
		ret   = &ir.Instruction{Opcode: ir.RET, Typ: ir.VoidType()}
		entry = &ir.Block{Name: "entry", Instructions: []*ir.Instruction{insn, ret}}
		fn    = &ir.Function{Name: "f", Result: ir.VoidType(), Blocks: []*ir.Block{entry}}
	)
	//
	fn.Finalise()
	est := NewEstimator(fn, nil)
	//
	assert.Panics(t, func() { est.visit(insn) })
}

// ============================================================================
// Helpers
// ============================================================================

type recorder struct {
	values []int64
}

func (p *recorder) Add(value int64) {
	p.values = append(p.values, value)
}

func parse(t *testing.T, text string) *ir.Program {
	t.Helper()
	//
	program, errs := parser.ParseString("test.ll", text)
	//
	for _, err := range errs {
		t.Error(err.Error())
	}
	//
	require.Empty(t, errs)
	//
	return program
}

func checkCost(t *testing.T, expected uint64, text string) {
	t.Helper()
	//
	actual, _ := Program(parse(t, text), nil)
	//
	assert.Equal(t, expected, actual)
}
