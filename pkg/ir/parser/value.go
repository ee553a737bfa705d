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
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/consensys/go-isacost/pkg/util/source"
	"github.com/consensys/go-isacost/pkg/util/source/lex"
	"github.com/x448/float16"
)

// Keywords which denote simple constants.
var constantKeywords = map[string]ir.OpaqueKind{
	"null":            ir.NULL,
	"none":            ir.NULL,
	"zeroinitializer": ir.ZERO_INIT,
	"undef":           ir.UNDEF,
	"poison":          ir.POISON,
}

// Keywords which begin a constant expression.
var expressionKeywords = map[string]bool{
	"getelementptr": true, "bitcast": true, "ptrtoint": true, "inttoptr": true, "addrspacecast": true,
	"trunc": true, "zext": true, "sext": true, "fptrunc": true, "fpext": true, "fptoui": true, "fptosi": true,
	"uitofp": true, "sitofp": true, "add": true, "sub": true, "mul": true, "shl": true, "lshr": true, "ashr": true,
	"and": true, "or": true, "xor": true, "icmp": true, "fcmp": true, "select": true, "extractelement": true,
	"insertelement": true, "shufflevector": true, "blockaddress": true, "dso_local_equivalent": true,
	"no_cfi": true, "ptrauth": true, "splat": true,
}

// Check whether a given token begins a value (rather than, for example, being
// an attribute).
func (p *Parser) isValueKeyword(token lex.Token) bool {
	if token.Kind != IDENTIFIER {
		return false
	}
	//
	text := p.string(token)
	_, ok := constantKeywords[text]
	//
	return ok || expressionKeywords[text] || text == "true" || text == "false" || text == "asm"
}

// Parse a value of a given type.  Local names which are not yet defined
// produce placeholders, which are resolved at the end of the enclosing
// function.
func (p *Parser) parseValue(typ *ir.Type, env *environment) (ir.Value, []source.SyntaxError) {
	var tok = p.lookahead()
	//
	switch tok.Kind {
	case LOCAL:
		p.index++
		return env.lookup(p.localName(tok), typ, tok.Span), nil
	case GLOBAL:
		p.index++
		return ir.Global{Name: p.globalName(tok)}, nil
	case NUMBER, FLOAT, HEX:
		p.index++
		return p.parseNumber(tok, typ)
	case LCURLY, LSQUARE, LANGLE:
		end := p.skipBalanced()
		return p.opaque(ir.AGGREGATE, tok, end, typ), nil
	case CSTRING:
		p.index++
		return p.opaque(ir.AGGREGATE, tok, tok, typ), nil
	case METADATA:
		p.index++
		return p.opaque(ir.METADATA, tok, tok, typ), nil
	case IDENTIFIER:
		return p.parseKeywordValue(typ, env)
	default:
		return nil, p.syntaxErrors(tok, "expected value")
	}
}

func (p *Parser) parseKeywordValue(typ *ir.Type, env *environment) (ir.Value, []source.SyntaxError) {
	var (
		tok  = p.next()
		text = p.string(tok)
	)
	//
	if kind, ok := constantKeywords[text]; ok {
		return ir.Opaque{Kind: kind, Text: text, Typ: typ}, nil
	}
	//
	switch text {
	case "true", "false":
		return ir.Bool(text == "true"), nil
	case "dso_local_equivalent", "no_cfi":
		// e.g. "dso_local_equivalent @f"
		if _, errs := p.parseValue(typ, env); len(errs) > 0 {
			return nil, errs
		}
		//
		return p.opaque(ir.EXPRESSION, tok, p.tokens[p.index-1], typ), nil
	case "splat":
		end := p.skipBalanced()
		return p.opaque(ir.AGGREGATE, tok, end, typ), nil
	}
	//
	if !expressionKeywords[text] {
		return nil, p.syntaxErrors(tok, "unknown value")
	}
	// Skip flags and predicates, e.g. "getelementptr inbounds (...)"
	for p.lookahead().Kind == IDENTIFIER {
		p.index++
	}
	//
	if p.lookahead().Kind != LBRACE {
		return nil, p.syntaxErrors(p.lookahead(), "expected constant expression")
	}
	//
	end := p.skipBalanced()
	//
	return p.opaque(ir.EXPRESSION, tok, end, typ), nil
}

// Construct an opaque constant whose text spans a given range of tokens.
func (p *Parser) opaque(kind ir.OpaqueKind, start lex.Token, end lex.Token, typ *ir.Type) ir.Opaque {
	text := p.srcfile.Text(source.NewSpan(start.Span.Start(), end.Span.End()))
	return ir.Opaque{Kind: kind, Text: text, Typ: typ}
}

// Parse a numeric literal of a given type.
func (p *Parser) parseNumber(tok lex.Token, typ *ir.Type) (ir.Value, []source.SyntaxError) {
	var (
		text = p.string(tok)
		kind = typ.Kind
	)
	//
	if kind == ir.VECTOR_TYPE || kind == ir.ARRAY_TYPE {
		return nil, p.syntaxErrors(tok, "expected aggregate")
	} else if kind == ir.FLOAT_TYPE {
		value, ok := parseFloat(text, typ.Format)
		if !ok {
			return nil, p.syntaxErrors(tok, "invalid floating-point literal")
		}
		//
		return value, nil
	} else if tok.Kind == FLOAT {
		return nil, p.syntaxErrors(tok, "unexpected floating-point literal")
	}
	//
	var (
		value = new(big.Int)
		ok    bool
	)
	//
	if tok.Kind == HEX {
		_, ok = value.SetString(strings.TrimPrefix(text, "0x"), 16)
	} else {
		_, ok = value.SetString(text, 10)
	}
	//
	if !ok {
		return nil, p.syntaxErrors(tok, "invalid integer literal")
	}
	//
	width := typ.Width
	if kind != ir.INT_TYPE {
		width = 64
	}
	//
	return ir.NewConstIntFromBig(width, value), nil
}

// Parse a floating-point literal in a given format.  Decimal literals are
// rounded to the format, whilst hexadecimal literals give the exact bits.
// Plain hexadecimal literals hold the bits of a double (even for narrower
// formats), whilst the prefixes H (half), R (bfloat), K (x86_fp80),
// L (fp128) and M (ppc_fp128) give the bits of the format itself.
func parseFloat(text string, format ir.FloatFormat) (ir.ConstFloat, bool) {
	if !strings.HasPrefix(text, "0x") {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ir.ConstFloat{}, false
		}
		//
		return ir.NewConstFloat(format, roundFloat(value, format)), true
	}
	//
	var (
		digits = text[2:]
		prefix byte
	)
	//
	if len(digits) > 0 && strings.IndexByte("HRKLM", digits[0]) >= 0 {
		prefix, digits = digits[0], digits[1:]
	}
	//
	switch prefix {
	case 'H':
		bits, err := strconv.ParseUint(digits, 16, 16)
		value := float64(float16.Frombits(uint16(bits)).Float32())
		//
		return ir.NewConstFloat(format, value), err == nil
	case 'R':
		bits, err := strconv.ParseUint(digits, 16, 16)
		value := float64(math.Float32frombits(uint32(bits) << 16))
		//
		return ir.NewConstFloat(format, value), err == nil
	case 'K':
		// Sign and exponent, followed by the (explicit) mantissa
		return wideFloat(format, digits, 4)
	case 'L', 'M':
		// Low bits followed by high bits
		if len(digits) != 32 {
			return ir.ConstFloat{}, false
		}
		//
		lo, err1 := strconv.ParseUint(digits[:16], 16, 64)
		hi, err2 := strconv.ParseUint(digits[16:], 16, 64)
		//
		return ir.ConstFloat{Format: format, Hi: hi, Lo: lo}, err1 == nil && err2 == nil
	default:
		bits, err := strconv.ParseUint(digits, 16, 64)
		value := roundFloat(math.Float64frombits(bits), format)
		//
		return ir.NewConstFloat(format, value), err == nil
	}
}

// Split the digits of a wide literal into high and low words, where the high
// word has a given number of digits.
func wideFloat(format ir.FloatFormat, digits string, hiDigits int) (ir.ConstFloat, bool) {
	if len(digits) != hiDigits+16 {
		return ir.ConstFloat{}, false
	}
	//
	hi, err1 := strconv.ParseUint(digits[:hiDigits], 16, 64)
	lo, err2 := strconv.ParseUint(digits[hiDigits:], 16, 64)
	//
	return ir.ConstFloat{Format: format, Hi: hi, Lo: lo}, err1 == nil && err2 == nil
}

// Round a given value to the nearest value of a given format (of at most 64
// bits).
func roundFloat(value float64, format ir.FloatFormat) float64 {
	switch format {
	case ir.HALF:
		return float64(float16.Fromfloat32(float32(value)).Float32())
	case ir.BFLOAT:
		return float64(roundBFloat(float32(value)))
	case ir.FLOAT:
		return float64(float32(value))
	default:
		return value
	}
}

// Round a single precision value to bfloat precision, using round-to-nearest
// ties-to-even.
func roundBFloat(value float32) float32 {
	if math.IsNaN(float64(value)) {
		return value
	}
	//
	bits := math.Float32bits(value)
	bits += 0x7fff + ((bits >> 16) & 1)
	//
	return math.Float32frombits(bits &^ 0xffff)
}
