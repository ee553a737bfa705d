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
	"strings"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/consensys/go-isacost/pkg/util/source"
	"github.com/consensys/go-isacost/pkg/util/source/lex"
)

// Parse accepts a given source file containing textual intermediate
// representation, and constructs the corresponding program.  Only the subset
// of the representation relevant for cost estimation is retained.  In
// particular, global variables and metadata are skipped.
func Parse(srcfile *source.File) (*ir.Program, []source.SyntaxError) {
	parser := NewParser(srcfile)
	// Parse functions
	return parser.Parse()
}

// ParseString is a convenience wrapper for parsing a string, e.g. for testing.
func ParseString(filename string, text string) (*ir.Program, []source.SyntaxError) {
	return Parse(source.NewSourceFile(filename, []byte(text)))
}

// ============================================================================
// Module
// ============================================================================

// Parser is a parser for textual intermediate representation.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
	// Named (struct) types encountered so far
	types map[string]*ir.Type
	// Attribute groups, as defined at the end of a module
	groups map[string]attributes
	// Attributes of each function header
	functionAttrs map[string]attributes
	// Attributes of each call site
	callAttrs map[*ir.Instruction]attributes
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{
		srcfile:       srcfile,
		types:         make(map[string]*ir.Type),
		groups:        make(map[string]attributes),
		functionAttrs: make(map[string]attributes),
		callAttrs:     make(map[*ir.Instruction]attributes),
	}
}

// Parse the given source file into a program, or some number of syntax errors.
func (p *Parser) Parse() (*ir.Program, []source.SyntaxError) {
	var (
		program ir.Program
		fn      *ir.Function
		errors  []source.SyntaxError
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		lookahead := p.lookahead()
		fn = nil
		//
		switch {
		case p.isKeyword(lookahead, "define"):
			fn, errors = p.parseFunction(true)
		case p.isKeyword(lookahead, "declare"):
			fn, errors = p.parseFunction(false)
		case p.isKeyword(lookahead, "attributes"):
			errors = p.parseAttributeGroup()
		case p.follows(LOCAL, EQUALS) && p.isKeyword(p.tokens[p.index+2], "type"):
			errors = p.parseTypeDefinition()
		case lookahead.Kind == GLOBAL, lookahead.Kind == METADATA, p.isSkippedDeclaration(lookahead):
			p.skipLine()
		default:
			errors = p.syntaxErrors(lookahead, "unknown declaration")
		}
		//
		if len(errors) > 0 {
			return nil, errors
		} else if fn != nil {
			program.Functions = append(program.Functions, fn)
		}
	}
	// Determine which calls can be removed when unused
	p.resolvePurity(&program)
	//
	return &program, nil
}

// Top-level declarations which play no role in costing.
func (p *Parser) isSkippedDeclaration(token lex.Token) bool {
	if token.Kind != IDENTIFIER {
		return false
	}
	//
	switch text := p.string(token); text {
	case "source_filename", "target", "module", "uselistorder", "uselistorder_bb":
		return true
	default:
		// comdat definitions
		return strings.HasPrefix(text, "$")
	}
}

func (p *Parser) parseTypeDefinition() []source.SyntaxError {
	var (
		nameToken = p.next()
		name      = p.localName(nameToken)
		named     = p.namedType(name)
	)
	// Skip '=' and 'type'
	p.index += 2
	//
	if p.matchKeyword("opaque") {
		return nil
	}
	//
	body, errs := p.parseType()
	if len(errs) > 0 {
		return errs
	} else if body.Kind != ir.STRUCT_TYPE {
		return p.syntaxErrors(nameToken, "expected struct type")
	}
	//
	named.Fields, named.Packed, named.Opaque = body.Fields, body.Packed, false
	//
	return nil
}

// Parse a function definition or declaration, both of which begin with a
// header such as:
//
//	define dso_local noundef i32 @main(i32 noundef %0, ptr %1) #0 {
func (p *Parser) parseFunction(definition bool) (*ir.Function, []source.SyntaxError) {
	var (
		fn   ir.Function
		env  = newEnvironment()
		errs []source.SyntaxError
	)
	// Skip define / declare
	p.index++
	// Skip linkage, visibility, calling convention and return attributes.
	p.skipAttributes()
	//
	if fn.Result, errs = p.parseType(); len(errs) > 0 {
		return nil, errs
	}
	//
	nameToken, errs := p.expect(GLOBAL)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	fn.Name = p.globalName(nameToken)
	//
	if fn.Params, fn.VarArgs, errs = p.parseParams(env); len(errs) > 0 {
		return nil, errs
	}
	// Function attributes
	attrs := p.parseTrailingAttributes(definition)
	p.functionAttrs[fn.Name] = attrs
	//
	if !definition {
		return &fn, nil
	}
	//
	if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	if fn.Blocks, errs = p.parseBody(env); len(errs) > 0 {
		return nil, errs
	}
	//
	fn.Finalise()
	//
	return &fn, nil
}

// Parse the formal parameters of a function, some of which may be unnamed
// (e.g. in a declaration).  Unnamed parameters are numbered implicitly.
func (p *Parser) parseParams(env *environment) ([]*ir.Param, bool, []source.SyntaxError) {
	var (
		params  []*ir.Param
		varargs bool
	)
	//
	if _, errs := p.expect(LBRACE); len(errs) > 0 {
		return nil, false, errs
	}
	//
	for !p.match(RBRACE) {
		if len(params) > 0 || varargs {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, false, errs
			}
		}
		//
		if p.match(ELLIPSIS) {
			varargs = true
			continue
		}
		//
		typ, errs := p.parseType()
		if len(errs) > 0 {
			return nil, false, errs
		}
		//
		p.skipAttributes()
		//
		var (
			param     = &ir.Param{Typ: typ}
			nameToken = p.lookahead()
		)
		//
		if nameToken.Kind == LOCAL {
			p.index++
			param.Name = p.localName(nameToken)
		} else {
			param.Name = env.nextNumber()
		}
		//
		if !env.define(param.Name, param) {
			return nil, false, p.syntaxErrors(nameToken, "duplicate parameter")
		}
		//
		params = append(params, param)
	}
	//
	return params, varargs, nil
}

// Parse the body of a function definition, up to and including the closing
// brace.
func (p *Parser) parseBody(env *environment) ([]*ir.Block, []source.SyntaxError) {
	var (
		blocks []*ir.Block
		block  *ir.Block
	)
	//
	for !p.match(RCURLY) {
		lookahead := p.lookahead()
		//
		switch {
		case lookahead.Kind == END_OF:
			return nil, p.syntaxErrors(lookahead, "unexpected end of file")
		case lookahead.Kind == DEBUG_RECORD:
			// Debug records play no role in costing
			p.skipLine()
		case p.follows(IDENTIFIER, COLON) || p.follows(NUMBER, COLON) || p.follows(STRING, COLON):
			label := p.labelName(p.next())
			p.index++
			//
			if block = env.label(label); block == nil {
				return nil, p.syntaxErrors(lookahead, "duplicate block label")
			}
			//
			blocks = append(blocks, block)
		default:
			if block == nil {
				// Unlabelled entry block
				block = env.label(env.nextNumber())
				blocks = append(blocks, block)
			}
			//
			insn, errs := p.parseInstruction(env)
			if len(errs) > 0 {
				return nil, errs
			}
			//
			block.Instructions = append(block.Instructions, insn)
		}
	}
	//
	return blocks, env.resolve(p.srcfile, blocks)
}

// ============================================================================
// Types
// ============================================================================

func (p *Parser) parseType() (*ir.Type, []source.SyntaxError) {
	var (
		typ  *ir.Type
		errs []source.SyntaxError
		tok  = p.lookahead()
	)
	//
	switch tok.Kind {
	case IDENTIFIER:
		typ, errs = p.parseNamedType()
	case LOCAL:
		p.index++
		typ = p.namedType(p.localName(tok))
	case LCURLY:
		typ, errs = p.parseStructType(false)
	case LANGLE:
		if p.follows(LANGLE, LCURLY) {
			p.index++
			//
			if typ, errs = p.parseStructType(true); len(errs) == 0 {
				_, errs = p.expect(RANGLE)
			}
		} else {
			typ, errs = p.parseSequenceType(RANGLE)
		}
	case LSQUARE:
		typ, errs = p.parseSequenceType(RSQUARE)
	default:
		return nil, p.syntaxErrors(tok, "expected type")
	}
	// Legacy (typed) pointers
	for len(errs) == 0 && p.match(STAR) {
		typ = ir.PtrType()
	}
	//
	return typ, errs
}

func (p *Parser) parseNamedType() (*ir.Type, []source.SyntaxError) {
	var (
		tok  = p.next()
		text = p.string(tok)
	)
	//
	switch text {
	case "void":
		return ir.VoidType(), nil
	case "half":
		return ir.FloatType(ir.HALF), nil
	case "bfloat":
		return ir.FloatType(ir.BFLOAT), nil
	case "float":
		return ir.FloatType(ir.FLOAT), nil
	case "double":
		return ir.FloatType(ir.DOUBLE), nil
	case "x86_fp80":
		return ir.FloatType(ir.X86_FP80), nil
	case "fp128":
		return ir.FloatType(ir.FP128), nil
	case "ppc_fp128":
		return ir.FloatType(ir.PPC_FP128), nil
	case "ptr":
		// Address spaces are ignored
		if p.matchKeyword("addrspace") {
			p.skipBalanced()
		}
		//
		return ir.PtrType(), nil
	case "label":
		return ir.LabelType(), nil
	case "token", "x86_amx", "x86_mmx":
		return &ir.Type{Kind: ir.TOKEN_TYPE}, nil
	case "metadata":
		return &ir.Type{Kind: ir.METADATA_TYPE}, nil
	}
	//
	if width, ok := intTypeWidth(text); ok {
		return ir.IntType(width), nil
	}
	//
	return nil, p.syntaxErrors(tok, "unknown type")
}

// Parse a struct type, e.g. "{ i32, ptr }".
func (p *Parser) parseStructType(packed bool) (*ir.Type, []source.SyntaxError) {
	var fields []*ir.Type
	//
	p.index++
	//
	for !p.match(RCURLY) {
		if len(fields) > 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		field, errs := p.parseType()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		fields = append(fields, field)
	}
	//
	return ir.StructType(packed, fields...), nil
}

// Parse an array type "[n x T]" or a vector type "<n x T>" (or scalable
// "<vscale x n x T>").
func (p *Parser) parseSequenceType(closing uint) (*ir.Type, []source.SyntaxError) {
	var scalable bool
	//
	p.index++
	//
	if p.matchKeyword("vscale") {
		if errs := p.expectKeyword("x"); len(errs) > 0 {
			return nil, errs
		}
		//
		scalable = true
	}
	//
	lenToken, errs := p.expect(NUMBER)
	if len(errs) > 0 {
		return nil, errs
	} else if errs = p.expectKeyword("x"); len(errs) > 0 {
		return nil, errs
	}
	//
	elem, errs := p.parseType()
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(closing); len(errs) > 0 {
		return nil, errs
	}
	//
	n, _ := strconv.ParseUint(p.string(lenToken), 10, 32)
	//
	if closing == RSQUARE {
		return ir.ArrayType(uint(n), elem), nil
	}
	//
	return ir.VectorType(uint(n), elem, scalable), nil
}

// Check whether a given keyword denotes an integer type (e.g. "i32") and, if
// so, return its width.
func intTypeWidth(text string) (uint, bool) {
	if len(text) < 2 || text[0] != 'i' {
		return 0, false
	}
	//
	width, err := strconv.ParseUint(text[1:], 10, 32)
	//
	return uint(width), err == nil && width > 0
}

func (p *Parser) isTypeStart(token lex.Token) bool {
	switch token.Kind {
	case LOCAL, LCURLY, LSQUARE, LANGLE:
		return true
	case IDENTIFIER:
		switch text := p.string(token); text {
		case "void", "half", "bfloat", "float", "double", "x86_fp80", "fp128", "ppc_fp128", "ptr", "label", "token",
			"metadata", "x86_amx", "x86_mmx":
			return true
		default:
			_, ok := intTypeWidth(text)
			return ok
		}
	default:
		return false
	}
}

func (p *Parser) namedType(name string) *ir.Type {
	if typ, ok := p.types[name]; ok {
		return typ
	}
	//
	typ := ir.NamedType(name)
	p.types[name] = typ
	//
	return typ
}

// ============================================================================
// Helpers
// ============================================================================

// Skip any attributes or other keywords (e.g. linkage, calling conventions)
// which precede a type or value.  Attributes may have arguments, such as
// "align 8" or "dereferenceable(16)".
func (p *Parser) skipAttributes() {
	for {
		tok := p.lookahead()
		//
		switch {
		case tok.Kind == STRING && p.tokens[p.index+1].Kind == EQUALS:
			// String attributes, e.g. "frame-pointer"="all"
			p.index += 3
		case tok.Kind == ATTR_GROUP:
			p.index++
		case tok.Kind != IDENTIFIER || p.isTypeStart(tok) || p.isValueKeyword(tok):
			return
		default:
			p.index++
			//
			switch {
			case p.lookahead().Kind == LBRACE:
				p.skipBalanced()
			case p.lookahead().Kind == NUMBER:
				// e.g. align 8, cc 10
				p.index++
			}
		}
	}
}

// Skip a balanced group of brackets, starting from an opening bracket.
func (p *Parser) skipBalanced() lex.Token {
	var (
		depth = 0
		first = p.lookahead()
	)
	//
	for {
		tok := p.lookahead()
		//
		switch tok.Kind {
		case END_OF:
			return first
		case LBRACE, LCURLY, LSQUARE, LANGLE:
			depth++
		case RBRACE, RCURLY, RSQUARE, RANGLE:
			depth--
		}
		//
		p.index++
		//
		if depth <= 0 {
			return tok
		}
	}
}

// Skip the next token, along with all remaining tokens on its line.
func (p *Parser) skipLine() {
	p.index++
	p.skipRest()
}

// Skip all remaining tokens on the current line.
func (p *Parser) skipRest() {
	for p.sameLine() {
		p.index++
	}
}

// Check whether the next token is on the same line as the previous one.
func (p *Parser) sameLine() bool {
	tok := p.lookahead()
	return tok.Kind != END_OF && !p.srcfile.StartsLine(tok.Span)
}

func (p *Parser) isKeyword(token lex.Token, keyword string) bool {
	return token.Kind == IDENTIFIER && p.string(token) == keyword
}

func (p *Parser) matchKeyword(keyword string) bool {
	if p.isKeyword(p.lookahead(), keyword) {
		p.index++
		return true
	}
	//
	return false
}

func (p *Parser) expectKeyword(keyword string) []source.SyntaxError {
	if !p.matchKeyword(keyword) {
		return p.syntaxErrors(p.lookahead(), fmt.Sprintf("expected \"%s\"", keyword))
	}
	//
	return nil
}

func (p *Parser) localName(token lex.Token) string {
	return unquote(p.string(token)[1:])
}

func (p *Parser) globalName(token lex.Token) string {
	return unquote(p.string(token)[1:])
}

func (p *Parser) labelName(token lex.Token) string {
	return unquote(p.string(token))
}

func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return text[1 : len(text)-1]
	}
	//
	return text
}

func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

func (p *Parser) lookahead() lex.Token {
	return p.tokens[min(p.index, len(p.tokens)-1)]
}

func (p *Parser) next() lex.Token {
	tok := p.lookahead()
	p.index++
	//
	return tok
}

func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

func (p *Parser) follows(kinds ...uint) bool {
	for i, kind := range kinds {
		n := i + p.index
		if n >= len(p.tokens) {
			return false
		} else if p.tokens[n].Kind != kind {
			return false
		}
	}
	//
	return true
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
