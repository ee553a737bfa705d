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

// Opcode identifies the operation performed by an instruction.
type Opcode uint8

// Terminators
const (
	RET Opcode = iota
	BR
	SWITCH
	INDIRECTBR
	INVOKE
	CALLBR
	RESUME
	UNREACHABLE
	CATCHSWITCH
	CATCHRET
	CLEANUPRET
)

// Unary and binary operators
const (
	FNEG Opcode = iota + CLEANUPRET + 1
	ADD
	FADD
	SUB
	FSUB
	MUL
	FMUL
	UDIV
	SDIV
	FDIV
	UREM
	SREM
	FREM
	SHL
	LSHR
	ASHR
	AND
	OR
	XOR
)

// Memory operations
const (
	ALLOCA Opcode = iota + XOR + 1
	LOAD
	STORE
	GETELEMENTPTR
	FENCE
	CMPXCHG
	ATOMICRMW
)

// Casts
const (
	TRUNC Opcode = iota + ATOMICRMW + 1
	ZEXT
	SEXT
	FPTOUI
	FPTOSI
	UITOFP
	SITOFP
	FPTRUNC
	FPEXT
	PTRTOINT
	INTTOPTR
	BITCAST
	ADDRSPACECAST
)

// Other operations
const (
	ICMP Opcode = iota + ADDRSPACECAST + 1
	FCMP
	PHI
	CALL
	SELECT
	VA_ARG
	EXTRACTELEMENT
	INSERTELEMENT
	SHUFFLEVECTOR
	EXTRACTVALUE
	INSERTVALUE
	LANDINGPAD
	FREEZE
	CLEANUPPAD
	CATCHPAD
	// NUM_OPCODES is the number of distinct opcodes.
	NUM_OPCODES
)

var opcodeNames = [NUM_OPCODES]string{
	"ret", "br", "switch", "indirectbr", "invoke", "callbr", "resume", "unreachable", "catchswitch", "catchret",
	"cleanupret",
	"fneg", "add", "fadd", "sub", "fsub", "mul", "fmul", "udiv", "sdiv", "fdiv", "urem", "srem", "frem", "shl", "lshr",
	"ashr", "and", "or", "xor",
	"alloca", "load", "store", "getelementptr", "fence", "cmpxchg", "atomicrmw",
	"trunc", "zext", "sext", "fptoui", "fptosi", "uitofp", "sitofp", "fptrunc", "fpext", "ptrtoint", "inttoptr",
	"bitcast", "addrspacecast",
	"icmp", "fcmp", "phi", "call", "select", "va_arg", "extractelement", "insertelement", "shufflevector",
	"extractvalue", "insertvalue", "landingpad", "freeze", "cleanuppad", "catchpad",
}

var opcodesByName map[string]Opcode

func init() {
	opcodesByName = make(map[string]Opcode, NUM_OPCODES)
	//
	for i, name := range opcodeNames {
		opcodesByName[name] = Opcode(i)
	}
}

// LookupOpcode returns the opcode with a given name, if one exists.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

func (op Opcode) String() string {
	if op < NUM_OPCODES {
		return opcodeNames[op]
	}
	//
	return "???"
}

// IsTerminator checks whether this opcode ends a basic block.
func (op Opcode) IsTerminator() bool {
	return op <= CLEANUPRET
}

// IsBinary checks whether this opcode is a binary operator.
func (op Opcode) IsBinary() bool {
	return op >= ADD && op <= XOR
}

// IsCast checks whether this opcode is a conversion.
func (op Opcode) IsCast() bool {
	return op >= TRUNC && op <= ADDRSPACECAST
}

// Predicate is the condition of a comparison.
type Predicate uint8

// Floating-point predicates
const (
	FCMP_FALSE Predicate = iota
	FCMP_OEQ
	FCMP_OGT
	FCMP_OGE
	FCMP_OLT
	FCMP_OLE
	FCMP_ONE
	FCMP_ORD
	FCMP_UNO
	FCMP_UEQ
	FCMP_UGT
	FCMP_UGE
	FCMP_ULT
	FCMP_ULE
	FCMP_UNE
	FCMP_TRUE
)

// Integer predicates
const (
	ICMP_EQ Predicate = iota + FCMP_TRUE + 1
	ICMP_NE
	ICMP_UGT
	ICMP_UGE
	ICMP_ULT
	ICMP_ULE
	ICMP_SGT
	ICMP_SGE
	ICMP_SLT
	ICMP_SLE
)

var predicateNames = []string{
	"false", "oeq", "ogt", "oge", "olt", "ole", "one", "ord", "uno", "ueq", "ugt", "uge", "ult", "ule", "une", "true",
	"eq", "ne", "ugt", "uge", "ult", "ule", "sgt", "sge", "slt", "sle",
}

// LookupPredicate returns the predicate with a given name for either integer
// or floating-point comparisons.
func LookupPredicate(name string, float bool) (Predicate, bool) {
	var start, end = int(ICMP_EQ), len(predicateNames)
	//
	if float {
		start, end = int(FCMP_FALSE), int(FCMP_TRUE)+1
	}
	//
	for i := start; i < end; i++ {
		if predicateNames[i] == name {
			return Predicate(i), true
		}
	}
	//
	return 0, false
}

func (p Predicate) String() string {
	return predicateNames[p]
}

// Flags records the optional keywords attached to an instruction.
type Flags uint16

const (
	// NUW signals no unsigned wrap.
	NUW Flags = 1 << iota
	// NSW signals no signed wrap.
	NSW
	// EXACT signals an exact division or shift.
	EXACT
	// NNEG signals a non-negative zext or uitofp operand.
	NNEG
	// DISJOINT signals an or whose operands have no common bits.
	DISJOINT
	// INBOUNDS signals an in-bounds getelementptr.
	INBOUNDS
	// VOLATILE signals a volatile memory access.
	VOLATILE
	// ATOMIC signals an atomic load or store.
	ATOMIC
	// SAMESIGN signals an icmp whose operands have the same sign.
	SAMESIGN
	// FAST_MATH signals that some fast-math flag was given.
	FAST_MATH
)

// Has checks whether all of the given flags are set.
func (f Flags) Has(flags Flags) bool {
	return f&flags == flags
}
