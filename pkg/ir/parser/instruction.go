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
package parser

import (
	"fmt"
	"strconv"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/consensys/go-isacost/pkg/util/source"
)

// Optional keywords which can precede the operands of an instruction.
var flagKeywords = map[string]ir.Flags{
	"nuw":      ir.NUW,
	"nsw":      ir.NSW,
	"nusw":     0,
	"exact":    ir.EXACT,
	"nneg":     ir.NNEG,
	"disjoint": ir.DISJOINT,
	"inbounds": ir.INBOUNDS,
	"volatile": ir.VOLATILE,
	"atomic":   ir.ATOMIC,
	"samesign": ir.SAMESIGN,
	"weak":     0,
	"fast":     ir.FAST_MATH,
	"nnan":     ir.FAST_MATH,
	"ninf":     ir.FAST_MATH,
	"nsz":      ir.FAST_MATH,
	"arcp":     ir.FAST_MATH,
	"contract": ir.FAST_MATH,
	"afn":      ir.FAST_MATH,
	"reassoc":  ir.FAST_MATH,
}

// Parse a single instruction, which may define a named result.  Trailing
// information which plays no role in costing (e.g. alignment or metadata) is
// skipped.
func (p *Parser) parseInstruction(env *environment) (*ir.Instruction, []source.SyntaxError) {
	var (
		name      string
		nameToken = p.lookahead()
		errs      []source.SyntaxError
	)
	//
	if p.follows(LOCAL, EQUALS) {
		name = p.localName(nameToken)
		p.index += 2
	}
	// Tail call markers
	for p.matchKeyword("tail") || p.matchKeyword("musttail") || p.matchKeyword("notail") {
	}
	//
	opToken, errs := p.expect(IDENTIFIER)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	opcode, ok := ir.LookupOpcode(p.string(opToken))
	if !ok {
		return nil, p.syntaxErrors(opToken, "unknown instruction")
	}
	//
	insn := &ir.Instruction{Opcode: opcode, Name: name, Typ: ir.VoidType()}
	//
	switch {
	case opcode == ir.FNEG || opcode.IsBinary():
		errs = p.parseBinary(insn, env)
	case opcode.IsCast():
		errs = p.parseCast(insn, env)
	default:
		errs = p.parseOther(insn, env)
	}
	//
	if len(errs) > 0 {
		return nil, errs
	} else if name != "" && !env.define(name, insn) {
		return nil, p.syntaxErrors(nameToken, "duplicate definition")
	}
	// Skip alignment, metadata, etc.
	p.skipRest()
	//
	return insn, nil
}

func (p *Parser) parseOther(insn *ir.Instruction, env *environment) []source.SyntaxError {
	switch insn.Opcode {
	case ir.RET:
		return p.parseRet(insn, env)
	case ir.BR:
		return p.parseBr(insn, env)
	case ir.SWITCH:
		return p.parseSwitch(insn, env)
	case ir.INDIRECTBR:
		return p.parseIndirectBr(insn, env)
	case ir.INVOKE, ir.CALLBR, ir.CALL:
		return p.parseCall(insn, env)
	case ir.RESUME, ir.FREEZE:
		return p.parseUnary(insn, env)
	case ir.UNREACHABLE, ir.FENCE:
		return nil
	case ir.CATCHSWITCH, ir.CATCHRET, ir.CLEANUPRET, ir.CATCHPAD, ir.CLEANUPPAD:
		return p.parseExceptionPad(insn, env)
	case ir.ALLOCA:
		return p.parseAlloca(insn, env)
	case ir.LOAD:
		return p.parseLoad(insn, env)
	case ir.STORE:
		return p.parseStore(insn, env)
	case ir.GETELEMENTPTR:
		return p.parseGetElementPtr(insn, env)
	case ir.CMPXCHG:
		return p.parseCmpXchg(insn, env)
	case ir.ATOMICRMW:
		return p.parseAtomicRmw(insn, env)
	case ir.ICMP, ir.FCMP:
		return p.parseCompare(insn, env)
	case ir.PHI:
		return p.parsePhi(insn, env)
	case ir.SELECT:
		return p.parseSelect(insn, env)
	case ir.VA_ARG:
		return p.parseVaArg(insn, env)
	case ir.EXTRACTELEMENT, ir.INSERTELEMENT, ir.SHUFFLEVECTOR:
		return p.parseVectorOp(insn, env)
	case ir.EXTRACTVALUE, ir.INSERTVALUE:
		return p.parseAggregateOp(insn, env)
	case ir.LANDINGPAD:
		return p.parseLandingPad(insn, env)
	default:
		panic(fmt.Sprintf("unknown instruction %s", insn.Opcode.String()))
	}
}

// Parse the optional keywords of an instruction (e.g. nuw, nsw, fast-math
// flags).
func (p *Parser) parseFlags() ir.Flags {
	var flags ir.Flags
	//
	for tok := p.lookahead(); tok.Kind == IDENTIFIER; tok = p.lookahead() {
		flag, ok := flagKeywords[p.string(tok)]
		if !ok {
			break
		}
		//
		flags |= flag
		p.index++
	}
	//
	return flags
}

// Parse a unary or binary operator, e.g. "add nsw i32 %x, 1".
func (p *Parser) parseBinary(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var (
		errs []source.SyntaxError
		n    = 2
	)
	//
	if insn.Opcode == ir.FNEG {
		n = 1
	}
	//
	insn.Flags = p.parseFlags()
	//
	if insn.Typ, errs = p.parseType(); len(errs) > 0 {
		return errs
	}
	//
	insn.Operands, errs = p.parseValues(insn.Typ, n, env)
	//
	return errs
}

// Parse a conversion, e.g. "zext nneg i8 %x to i32".
func (p *Parser) parseCast(insn *ir.Instruction, env *environment) []source.SyntaxError {
	insn.Flags = p.parseFlags()
	//
	operand, errs := p.parseTypedValue(env)
	if len(errs) > 0 {
		return errs
	} else if errs = p.expectKeyword("to"); len(errs) > 0 {
		return errs
	}
	//
	insn.Operands = []ir.Value{operand}
	insn.Typ, errs = p.parseType()
	//
	return errs
}

// Parse an integer or floating-point comparison, e.g. "icmp slt i32 %x, 10".
func (p *Parser) parseCompare(insn *ir.Instruction, env *environment) []source.SyntaxError {
	insn.Flags = p.parseFlags()
	//
	predToken, errs := p.expect(IDENTIFIER)
	if len(errs) > 0 {
		return errs
	}
	//
	pred, ok := ir.LookupPredicate(p.string(predToken), insn.Opcode == ir.FCMP)
	if !ok {
		return p.syntaxErrors(predToken, "unknown predicate")
	}
	//
	typ, errs := p.parseType()
	if len(errs) > 0 {
		return errs
	}
	//
	insn.Predicate = pred
	insn.Typ = ir.IntType(1)
	//
	if typ.Kind == ir.VECTOR_TYPE {
		insn.Typ = ir.VectorType(typ.Len, insn.Typ, typ.Scalable)
	}
	//
	insn.Operands, errs = p.parseValues(typ, 2, env)
	//
	return errs
}

// Parse a select, e.g. "select i1 %c, i32 %x, i32 5".
func (p *Parser) parseSelect(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	insn.Flags = p.parseFlags()
	//
	if insn.Operands, errs = p.parseTypedValues(3, env); len(errs) > 0 {
		return errs
	}
	//
	insn.Typ = insn.Operands[1].Type()
	//
	return nil
}

// Parse an instruction with a single typed operand, e.g. "freeze i32 %x".
func (p *Parser) parseUnary(insn *ir.Instruction, env *environment) []source.SyntaxError {
	operand, errs := p.parseTypedValue(env)
	if len(errs) > 0 {
		return errs
	}
	//
	insn.Operands = []ir.Value{operand}
	//
	if insn.Opcode == ir.FREEZE {
		insn.Typ = operand.Type()
	}
	//
	return nil
}

// Parse a phi node, e.g. "phi i32 [ 0, %entry ], [ %next, %loop ]".
func (p *Parser) parsePhi(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	insn.Flags = p.parseFlags()
	//
	if insn.Typ, errs = p.parseType(); len(errs) > 0 {
		return errs
	}
	//
	for first := true; first || p.follows(COMMA, LSQUARE); first = false {
		if !first {
			p.index++
		}
		//
		if _, errs = p.expect(LSQUARE); len(errs) > 0 {
			return errs
		}
		//
		value, errs := p.parseValue(insn.Typ, env)
		if len(errs) > 0 {
			return errs
		} else if _, errs = p.expect(COMMA); len(errs) > 0 {
			return errs
		}
		//
		block, errs := p.parseBlockRef(env)
		if len(errs) > 0 {
			return errs
		} else if _, errs = p.expect(RSQUARE); len(errs) > 0 {
			return errs
		}
		//
		insn.Operands = append(insn.Operands, value)
		insn.Incoming = append(insn.Incoming, block)
	}
	//
	return nil
}

// Parse a stack allocation, e.g. "alloca [4 x i32], align 16".  A missing
// element count is implicitly "i32 1".
func (p *Parser) parseAlloca(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	for p.matchKeyword("inalloca") || p.matchKeyword("swifterror") {
	}
	//
	if insn.Elem, errs = p.parseType(); len(errs) > 0 {
		return errs
	}
	//
	insn.Typ = ir.PtrType()
	//
	if p.follows(COMMA) && p.isTypeStart(p.tokens[p.index+1]) {
		p.index++
		//
		count, errs := p.parseTypedValue(env)
		if len(errs) > 0 {
			return errs
		}
		//
		insn.Operands = []ir.Value{count}
	} else {
		insn.Operands = []ir.Value{ir.NewConstInt(32, 1)}
	}
	//
	return nil
}

// Parse a load, e.g. "load volatile i32, ptr %p, align 4".
func (p *Parser) parseLoad(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	insn.Flags = p.parseFlags()
	//
	if insn.Typ, errs = p.parseType(); len(errs) > 0 {
		return errs
	} else if _, errs = p.expect(COMMA); len(errs) > 0 {
		return errs
	}
	//
	ptr, errs := p.parseTypedValue(env)
	insn.Operands = []ir.Value{ptr}
	//
	return errs
}

// Parse a store, e.g. "store i32 %x, ptr %p, align 4".
func (p *Parser) parseStore(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	insn.Flags = p.parseFlags()
	insn.Operands, errs = p.parseTypedValues(2, env)
	//
	return errs
}

// Parse an address calculation, e.g. "getelementptr inbounds %T, ptr %p, i64
// 0, i32 1".
func (p *Parser) parseGetElementPtr(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	insn.Flags = p.parseGepFlags()
	//
	if insn.Elem, errs = p.parseType(); len(errs) > 0 {
		return errs
	}
	//
	insn.Typ = ir.PtrType()
	//
	for p.follows(COMMA) && p.isTypeStart(p.tokens[p.index+1]) {
		p.index++
		//
		p.matchKeyword("inrange")
		//
		operand, errs := p.parseTypedValue(env)
		if len(errs) > 0 {
			return errs
		}
		//
		if typ := operand.Type(); typ.Kind == ir.VECTOR_TYPE {
			insn.Typ = ir.VectorType(typ.Len, ir.PtrType(), typ.Scalable)
		}
		//
		insn.Operands = append(insn.Operands, operand)
	}
	//
	if len(insn.Operands) == 0 {
		return p.syntaxErrors(p.lookahead(), "expected pointer operand")
	}
	//
	return nil
}

func (p *Parser) parseGepFlags() ir.Flags {
	var flags ir.Flags
	//
	for {
		flags |= p.parseFlags()
		//
		if !p.isKeyword(p.lookahead(), "inrange") || !p.follows(IDENTIFIER, LBRACE) {
			return flags
		}
		//
		p.index++
		p.skipBalanced()
	}
}

// Parse a compare-and-exchange, e.g. "cmpxchg ptr %p, i32 %old, i32 %new
// acq_rel monotonic".  The result is a pair of the loaded value and a success
// flag.
func (p *Parser) parseCmpXchg(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	insn.Flags = p.parseFlags()
	//
	if insn.Operands, errs = p.parseTypedValues(3, env); len(errs) > 0 {
		return errs
	}
	//
	insn.Typ = ir.StructType(false, insn.Operands[1].Type(), ir.IntType(1))
	//
	return nil
}

// Parse an atomic read-modify-write, e.g. "atomicrmw add ptr %p, i32 1 seq_cst".
func (p *Parser) parseAtomicRmw(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	insn.Flags = p.parseFlags()
	//
	if _, errs = p.expect(IDENTIFIER); len(errs) > 0 {
		return errs
	} else if insn.Operands, errs = p.parseTypedValues(2, env); len(errs) > 0 {
		return errs
	}
	//
	insn.Typ = insn.Operands[1].Type()
	//
	return nil
}

// Parse a variadic argument read, e.g. "va_arg ptr %ap, i32".
func (p *Parser) parseVaArg(insn *ir.Instruction, env *environment) []source.SyntaxError {
	list, errs := p.parseTypedValue(env)
	if len(errs) > 0 {
		return errs
	} else if _, errs = p.expect(COMMA); len(errs) > 0 {
		return errs
	}
	//
	insn.Operands = []ir.Value{list}
	insn.Typ, errs = p.parseType()
	//
	return errs
}

// Parse a vector operation: extractelement, insertelement or shufflevector.
func (p *Parser) parseVectorOp(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var (
		errs []source.SyntaxError
		n    = 3
	)
	//
	if insn.Opcode == ir.EXTRACTELEMENT {
		n = 2
	}
	//
	if insn.Operands, errs = p.parseTypedValues(n, env); len(errs) > 0 {
		return errs
	}
	//
	vector := insn.Operands[0].Type()
	//
	switch insn.Opcode {
	case ir.EXTRACTELEMENT:
		insn.Typ = elementType(vector)
	case ir.INSERTELEMENT:
		insn.Typ = vector
	default:
		mask := insn.Operands[2].Type()
		insn.Typ = ir.VectorType(mask.Len, elementType(vector), mask.Scalable)
	}
	//
	return nil
}

// Parse an aggregate operation, e.g. "extractvalue { i32, i1 } %r, 1".
func (p *Parser) parseAggregateOp(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var (
		errs []source.SyntaxError
		n    = 2
	)
	//
	if insn.Opcode == ir.EXTRACTVALUE {
		n = 1
	}
	//
	if insn.Operands, errs = p.parseTypedValues(n, env); len(errs) > 0 {
		return errs
	}
	//
	typ := insn.Operands[0].Type()
	insn.Typ = typ
	//
	for p.follows(COMMA, NUMBER) {
		p.index++
		index, _ := strconv.ParseUint(p.string(p.next()), 10, 64)
		insn.Indices = append(insn.Indices, index)
		//
		switch {
		case typ.Kind == ir.STRUCT_TYPE && index < uint64(len(typ.Fields)):
			typ = typ.Fields[index]
		case typ.Kind == ir.ARRAY_TYPE:
			typ = typ.Elem
		}
	}
	//
	if insn.Opcode == ir.EXTRACTVALUE {
		insn.Typ = typ
	}
	//
	return nil
}

// Parse a landing pad, whose clauses may continue over subsequent lines:
//
//	landingpad { ptr, i32 }
//	        cleanup
//	        catch ptr @typeinfo
func (p *Parser) parseLandingPad(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	if insn.Typ, errs = p.parseType(); len(errs) > 0 {
		return errs
	}
	//
	for {
		switch {
		case p.matchKeyword("cleanup"):
		case p.matchKeyword("catch"), p.matchKeyword("filter"):
			clause, errs := p.parseTypedValue(env)
			if len(errs) > 0 {
				return errs
			}
			//
			insn.Operands = append(insn.Operands, clause)
		default:
			return nil
		}
	}
}

// Parse an exception-handling pad or return.  These are not modelled in
// detail, hence local operands and target labels are simply extracted from
// the remainder of the line.  For example:
//
//	%cs = catchswitch within none [label %handler] unwind to caller
//	catchret from %pad to label %next
func (p *Parser) parseExceptionPad(insn *ir.Instruction, env *environment) []source.SyntaxError {
	switch insn.Opcode {
	case ir.CATCHSWITCH, ir.CATCHPAD, ir.CLEANUPPAD:
		insn.Typ = &ir.Type{Kind: ir.TOKEN_TYPE}
	}
	//
	for p.sameLine() {
		tok := p.next()
		//
		switch {
		case tok.Kind == LOCAL && p.index >= 2 && p.isKeyword(p.tokens[p.index-2], "label"):
			insn.Targets = append(insn.Targets, env.block(p.localName(tok), tok.Span))
		case tok.Kind == LOCAL:
			insn.Operands = append(insn.Operands, env.lookup(p.localName(tok), &ir.Type{Kind: ir.TOKEN_TYPE}, tok.Span))
		}
	}
	//
	return nil
}

// ============================================================================
// Terminators
// ============================================================================

// Parse a return, e.g. "ret void" or "ret i32 %x".
func (p *Parser) parseRet(insn *ir.Instruction, env *environment) []source.SyntaxError {
	if p.matchKeyword("void") {
		return nil
	}
	//
	value, errs := p.parseTypedValue(env)
	insn.Operands = []ir.Value{value}
	//
	return errs
}

// Parse a branch, e.g. "br label %exit" or "br i1 %c, label %then, label
// %else".
func (p *Parser) parseBr(insn *ir.Instruction, env *environment) []source.SyntaxError {
	if !p.isKeyword(p.lookahead(), "label") {
		cond, errs := p.parseTypedValue(env)
		if len(errs) > 0 {
			return errs
		} else if _, errs = p.expect(COMMA); len(errs) > 0 {
			return errs
		}
		//
		insn.Operands = []ir.Value{cond}
	}
	//
	for first := true; first || p.followsLabel(); first = false {
		if !first {
			p.index++
		}
		//
		target, errs := p.parseLabel(env)
		if len(errs) > 0 {
			return errs
		}
		//
		insn.Targets = append(insn.Targets, target)
	}
	//
	return nil
}

// Parse a switch, whose cases normally appear on subsequent lines:
//
//	switch i32 %x, label %default [
//	  i32 0, label %zero
//	  i32 1, label %one
//	]
func (p *Parser) parseSwitch(insn *ir.Instruction, env *environment) []source.SyntaxError {
	value, errs := p.parseTypedValue(env)
	if len(errs) > 0 {
		return errs
	} else if _, errs = p.expect(COMMA); len(errs) > 0 {
		return errs
	}
	//
	def, errs := p.parseLabel(env)
	if len(errs) > 0 {
		return errs
	} else if _, errs = p.expect(LSQUARE); len(errs) > 0 {
		return errs
	}
	//
	insn.Operands = []ir.Value{value}
	insn.Targets = []*ir.Block{def}
	//
	for !p.match(RSQUARE) {
		caseValue, errs := p.parseTypedValue(env)
		if len(errs) > 0 {
			return errs
		} else if _, errs = p.expect(COMMA); len(errs) > 0 {
			return errs
		}
		//
		target, errs := p.parseLabel(env)
		if len(errs) > 0 {
			return errs
		}
		//
		insn.Operands = append(insn.Operands, caseValue)
		insn.Targets = append(insn.Targets, target)
	}
	//
	return nil
}

// Parse an indirect branch, e.g. "indirectbr ptr %addr, [label %a, label %b]".
func (p *Parser) parseIndirectBr(insn *ir.Instruction, env *environment) []source.SyntaxError {
	addr, errs := p.parseTypedValue(env)
	if len(errs) > 0 {
		return errs
	} else if _, errs = p.expect(COMMA); len(errs) > 0 {
		return errs
	}
	//
	insn.Operands = []ir.Value{addr}
	insn.Targets, errs = p.parseLabelList(env)
	//
	return errs
}

// Parse a bracketed list of labels, e.g. "[label %a, label %b]".
func (p *Parser) parseLabelList(env *environment) ([]*ir.Block, []source.SyntaxError) {
	var targets []*ir.Block
	//
	if _, errs := p.expect(LSQUARE); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RSQUARE) {
		if len(targets) > 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		target, errs := p.parseLabel(env)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		targets = append(targets, target)
	}
	//
	return targets, nil
}

// Check whether a comma followed by a block reference is next.
func (p *Parser) followsLabel() bool {
	return p.follows(COMMA, IDENTIFIER) && p.isKeyword(p.tokens[p.index+1], "label")
}

// Parse a typed block reference, e.g. "label %exit".
func (p *Parser) parseLabel(env *environment) (*ir.Block, []source.SyntaxError) {
	if errs := p.expectKeyword("label"); len(errs) > 0 {
		return nil, errs
	}
	//
	return p.parseBlockRef(env)
}

// Parse an (untyped) block reference, e.g. "%exit".
func (p *Parser) parseBlockRef(env *environment) (*ir.Block, []source.SyntaxError) {
	tok, errs := p.expect(LOCAL)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return env.block(p.localName(tok), tok.Span), nil
}

// ============================================================================
// Calls
// ============================================================================

// Parse a call, invoke or callbr, e.g.
//
//	call fastcc noundef i32 @f(i32 noundef %x, ptr nonnull %p) #3, !dbg !12
//	invoke void @g() to label %cont unwind label %lpad
func (p *Parser) parseCall(insn *ir.Instruction, env *environment) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	insn.Flags = p.parseFlags()
	// Calling convention and return attributes
	p.skipAttributes()
	//
	if insn.Typ, errs = p.parseType(); len(errs) > 0 {
		return errs
	}
	// Explicit function type, e.g. for variadic callees
	if p.lookahead().Kind == LBRACE {
		p.skipBalanced()
	}
	//
	if insn.Callee, errs = p.parseCallee(env); len(errs) > 0 {
		return errs
	}
	//
	if global, ok := insn.Callee.(ir.Global); ok {
		insn.Intrinsic = ir.IntrinsicName(global.Name)
	}
	//
	if insn.Operands, errs = p.parseArguments(env); len(errs) > 0 {
		return errs
	}
	//
	p.callAttrs[insn] = p.parseCallAttributes()
	// Operand bundles
	if p.lookahead().Kind == LSQUARE {
		p.skipBalanced()
	}
	//
	switch insn.Opcode {
	case ir.INVOKE:
		return p.parseInvokeTargets(insn, env)
	case ir.CALLBR:
		return p.parseCallBrTargets(insn, env)
	default:
		return nil
	}
}

func (p *Parser) parseCallee(env *environment) (ir.Value, []source.SyntaxError) {
	var start = p.lookahead()
	//
	if !p.matchKeyword("asm") {
		return p.parseValue(ir.PtrType(), env)
	}
	//
	for p.lookahead().Kind == IDENTIFIER {
		// sideeffect, alignstack, inteldialect, unwind
		p.index++
	}
	//
	if _, errs := p.expect(STRING); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COMMA); len(errs) > 0 {
		return nil, errs
	}
	//
	end, errs := p.expect(STRING)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	text := p.srcfile.Text(source.NewSpan(start.Span.Start(), end.Span.End()))
	//
	return ir.Opaque{Kind: ir.ASM, Text: text, Typ: ir.PtrType()}, nil
}

// Parse the arguments of a call, including any parameter attributes.
func (p *Parser) parseArguments(env *environment) ([]ir.Value, []source.SyntaxError) {
	var args []ir.Value
	//
	if _, errs := p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RBRACE) {
		if len(args) > 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		arg, errs := p.parseArgument(env)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	//
	return args, nil
}

func (p *Parser) parseArgument(env *environment) (ir.Value, []source.SyntaxError) {
	var start = p.lookahead()
	//
	typ, errs := p.parseType()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.skipAttributes()
	//
	if typ.Kind != ir.METADATA_TYPE {
		return p.parseValue(typ, env)
	}
	// Metadata arguments, e.g. "metadata !12", "metadata i32 0" or
	// "metadata !DIExpression()".
	if p.lookahead().Kind == METADATA {
		p.index++
		//
		if kind := p.lookahead().Kind; kind == LBRACE || kind == LCURLY {
			p.skipBalanced()
		}
	} else if p.lookahead().Kind == STRING {
		p.index++
	} else if _, errs = p.parseTypedValue(env); len(errs) > 0 {
		return nil, errs
	}
	//
	last := p.tokens[p.index-1]
	text := p.srcfile.Text(source.NewSpan(start.Span.Start(), last.Span.End()))
	//
	return ir.Opaque{Kind: ir.METADATA, Text: text, Typ: typ}, nil
}

// Parse the destinations of an invoke, which may be on the following line:
//
//	to label %cont unwind label %lpad
func (p *Parser) parseInvokeTargets(insn *ir.Instruction, env *environment) []source.SyntaxError {
	if errs := p.expectKeyword("to"); len(errs) > 0 {
		return errs
	}
	//
	normal, errs := p.parseLabel(env)
	if len(errs) > 0 {
		return errs
	} else if errs = p.expectKeyword("unwind"); len(errs) > 0 {
		return errs
	}
	//
	unwind, errs := p.parseLabel(env)
	insn.Targets = []*ir.Block{normal, unwind}
	//
	return errs
}

// Parse the destinations of a callbr, e.g. "to label %fall [label %indirect]".
func (p *Parser) parseCallBrTargets(insn *ir.Instruction, env *environment) []source.SyntaxError {
	if errs := p.expectKeyword("to"); len(errs) > 0 {
		return errs
	}
	//
	normal, errs := p.parseLabel(env)
	if len(errs) > 0 {
		return errs
	}
	//
	indirect, errs := p.parseLabelList(env)
	insn.Targets = append([]*ir.Block{normal}, indirect...)
	//
	return errs
}

// ============================================================================
// Operands
// ============================================================================

// Parse a comma-separated list of n values of a given type, e.g. "%x, 1".
func (p *Parser) parseValues(typ *ir.Type, n int, env *environment) ([]ir.Value, []source.SyntaxError) {
	var values = make([]ir.Value, n)
	//
	for i := 0; i < n; i++ {
		if i > 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		value, errs := p.parseValue(typ, env)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		values[i] = value
	}
	//
	return values, nil
}

// Parse a comma-separated list of n typed values, e.g. "i32 %x, ptr %p".
func (p *Parser) parseTypedValues(n int, env *environment) ([]ir.Value, []source.SyntaxError) {
	var values = make([]ir.Value, n)
	//
	for i := 0; i < n; i++ {
		if i > 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		value, errs := p.parseTypedValue(env)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		values[i] = value
	}
	//
	return values, nil
}

// Parse a type followed by a value of that type, e.g. "i32 5".
func (p *Parser) parseTypedValue(env *environment) (ir.Value, []source.SyntaxError) {
	typ, errs := p.parseType()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return p.parseValue(typ, env)
}

func elementType(typ *ir.Type) *ir.Type {
	if typ.Elem != nil {
		return typ.Elem
	}
	//
	return typ
}
