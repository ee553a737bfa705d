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
	"regexp"
	"strings"
)

// Instruction represents a single operation within a basic block.  The
// instruction doubles as the value it produces (if any).
type Instruction struct {
	Opcode Opcode
	// Name of the result (without leading '%'), or empty if none.
	Name string
	// Type of the result (void if none).
	Typ *Type
	// Value operands, in their textual order.  For calls these are the
	// arguments; for switches the scrutinee followed by the case values.
	Operands []Value
	// Blocks targeted by a terminator.  For a switch, the default target
	// comes first followed by one target per case.  For an invoke, the
	// normal destination comes before the unwind destination.
	Targets []*Block
	// Incoming blocks of a phi node, one per operand.
	Incoming []*Block
	// Predicate of a comparison.
	Predicate Predicate
	// Optional keywords
	Flags Flags
	// Allocated type (alloca) or source element type (getelementptr).
	Elem *Type
	// Called function (call, invoke, callbr).
	Callee Value
	// Intrinsic name (e.g. "ctpop" for @llvm.ctpop.i32), or empty.
	Intrinsic string
	// Pure calls can be removed when their result is unused.
	Pure bool
	// Constant indices of extractvalue / insertvalue.
	Indices []uint64
	//
	parent *Block
	id     uint
}

// Type implementation for Value interface.
func (p *Instruction) Type() *Type {
	return p.Typ
}

// Index implementation for Local interface.
func (p *Instruction) Index() uint {
	return p.id
}

// Parent returns the block enclosing this instruction.
func (p *Instruction) Parent() *Block {
	return p.parent
}

// Operand returns the ith operand of this instruction.
func (p *Instruction) Operand(i int) Value {
	return p.Operands[i]
}

// NumCases returns the number of (non-default) cases of a switch.
func (p *Instruction) NumCases() int {
	return len(p.Targets) - 1
}

// IsIntrinsic checks whether this instruction is a call to a given intrinsic.
func (p *Instruction) IsIntrinsic(name string) bool {
	return p.Opcode == CALL && p.Intrinsic == name
}

// IsTerminator checks whether this instruction ends its basic block.
func (p *Instruction) IsTerminator() bool {
	return p.Opcode.IsTerminator()
}

// HasSideEffects determines whether this instruction must be retained even
// when its result is unused.  This covers control-flow, memory writes,
// volatile or atomic accesses, calls which are not known to be pure,
// exception-handling pads and variadic argument reads.
func (p *Instruction) HasSideEffects() bool {
	switch p.Opcode {
	case STORE, FENCE, CMPXCHG, ATOMICRMW, VA_ARG, LANDINGPAD, CLEANUPPAD, CATCHPAD, INVOKE, CALLBR:
		return true
	case LOAD:
		return p.Flags&(VOLATILE|ATOMIC) != 0
	case CALL:
		return !p.Pure
	default:
		return p.Opcode.IsTerminator()
	}
}

func (p *Instruction) String() string {
	if p.Name == "" {
		return fmt.Sprintf("<%s>", p.Opcode.String())
	}
	//
	return "%" + p.Name
}

// Describe returns a (simplified) textual form of this instruction, useful for
// debugging.
func (p *Instruction) Describe() string {
	var builder strings.Builder
	//
	if p.Name != "" {
		builder.WriteString(fmt.Sprintf("%%%s = ", p.Name))
	}
	//
	builder.WriteString(p.Opcode.String())
	//
	if p.Opcode == CALL && p.Callee != nil {
		builder.WriteString(" ")
		builder.WriteString(p.Callee.String())
	}
	//
	for i, op := range p.Operands {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(" ")
		builder.WriteString(op.String())
	}
	//
	for _, target := range p.Targets {
		builder.WriteString(", label ")
		builder.WriteString(target.String())
	}
	//
	return builder.String()
}

// impureIntrinsics identifies intrinsics whose (unused) calls cannot be
// removed.  All other intrinsics are considered free of side effects.
var impureIntrinsics = map[string]bool{
	"assume":                          true,
	"memcpy":                          true,
	"memcpy.inline":                   true,
	"memmove":                         true,
	"memset":                          true,
	"memset.inline":                   true,
	"lifetime.start":                  true,
	"lifetime.end":                    true,
	"trap":                            true,
	"debugtrap":                       true,
	"ubsantrap":                       true,
	"stackrestore":                    true,
	"va_start":                        true,
	"va_end":                          true,
	"va_copy":                         true,
	"prefetch":                        true,
	"sideeffect":                      true,
	"experimental.noalias.scope.decl": true,
	"eh.sjlj.setjmp":                  true,
	"eh.sjlj.longjmp":                 true,
	"clear_cache":                     true,
	"instrprof.increment":             true,
}

// IsPureIntrinsic determines whether calls to a given intrinsic (identified by
// its base name) can be removed when their result is unused.
func IsPureIntrinsic(name string) bool {
	return !impureIntrinsics[name]
}

// Matches the type suffixes used to mangle overloaded intrinsic names.
var mangledSuffix = regexp.MustCompile(`^(i[0-9]+|bf16|f16|f32|f64|f80|f128|ppcf128|p[0-9]+|[vn]x?v?[0-9]+[a-z].*|` +
	`a[0-9]+[a-z].*|s_.*|sl_.*|x86mmx|x86amx|isVoid|token)$`)

// IntrinsicName returns the base name of an intrinsic (e.g. "ctpop" for
// "llvm.ctpop.i32"), or the empty string if the given function is not an
// intrinsic.
func IntrinsicName(function string) string {
	if !strings.HasPrefix(function, "llvm.") {
		return ""
	}
	//
	parts := strings.Split(strings.TrimPrefix(function, "llvm."), ".")
	//
	for len(parts) > 1 && mangledSuffix.MatchString(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	//
	return strings.Join(parts, ".")
}
