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
	"github.com/consensys/go-isacost/pkg/util/source"
	"github.com/consensys/go-isacost/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals "; ... \n"
const COMMENT uint = 2

// LBRACE signals "("
const LBRACE uint = 3

// RBRACE signals ")"
const RBRACE uint = 4

// LCURLY signals "{"
const LCURLY uint = 5

// RCURLY signals "}"
const RCURLY uint = 6

// LSQUARE signals "["
const LSQUARE uint = 7

// RSQUARE signals "]"
const RSQUARE uint = 8

// LANGLE signals "<"
const LANGLE uint = 9

// RANGLE signals ">"
const RANGLE uint = 10

// COMMA signals ","
const COMMA uint = 11

// COLON signals ":"
const COLON uint = 12

// EQUALS signals "="
const EQUALS uint = 13

// STAR signals "*"
const STAR uint = 14

// ELLIPSIS signals "..."
const ELLIPSIS uint = 15

// NUMBER signals a (possibly negative) decimal integer
const NUMBER uint = 20

// FLOAT signals a decimal floating-point literal
const FLOAT uint = 21

// HEX signals a hexadecimal literal, possibly with a floating-point format
// prefix (e.g. 0xH3C00)
const HEX uint = 22

// STRING signals a quoted string
const STRING uint = 23

// CSTRING signals a character array literal, e.g. c"hello\00"
const CSTRING uint = 24

// LOCAL signals a local identifier, e.g. %x
const LOCAL uint = 25

// GLOBAL signals a global identifier, e.g. @main
const GLOBAL uint = 26

// METADATA signals a metadata reference, e.g. !dbg or !12
const METADATA uint = 27

// ATTR_GROUP signals an attribute group reference, e.g. #0
const ATTR_GROUP uint = 28

// IDENTIFIER signals a keyword, type or label name
const IDENTIFIER uint = 29

// DEBUG_RECORD signals the start of a debug record, e.g. #dbg_value
const DEBUG_RECORD uint = 30

var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\n'), lex.Unit('\r')))

// Comments start with ';' and continue until a newline or EOF.
var comment lex.Scanner[rune] = lex.SequenceNullableLast(lex.Unit(';'), lex.Until('\n'))

var digit = lex.Within('0', '9')

var hexDigit = lex.Or(digit, lex.Within('A', 'F'), lex.Within('a', 'f'))

var nameChar = lex.Or(
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'),
	digit,
	lex.Unit('_'),
	lex.Unit('.'),
	lex.Unit('$'),
	lex.Unit('-'))

var identifierStart = lex.Or(
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'),
	lex.Unit('_'),
	lex.Unit('.'),
	lex.Unit('$'))

// Rule for describing keywords, types and (bare) labels
var identifier lex.Scanner[rune] = lex.And(identifierStart, lex.Many(nameChar))

// Rule for describing strings in quotes
var quoted lex.Scanner[rune] = func(items []rune) uint {
	if len(items) == 0 || items[0] != '"' {
		return 0
	}
	//
	for i := 1; i < len(items); i++ {
		if items[i] == '"' {
			return uint(i + 1)
		}
	}
	// unterminated
	return 0
}

var cstring = lex.Sequence(lex.Unit('c'), quoted)

// Rule for (possibly quoted) names following a sigil
var name = lex.Or(quoted, lex.Many(nameChar))

var local = lex.Sequence(lex.Unit('%'), name)

var global = lex.Sequence(lex.Unit('@'), name)

var metadata = lex.SequenceNullableLast(lex.Unit('!'), lex.Many(nameChar))

var attrGroup = lex.Sequence(lex.Unit('#'), lex.Many(digit))

var debugRecord = lex.SequenceNullableLast(lex.String("#dbg_"), lex.Many(nameChar))

var hex = lex.SequenceNullableLast(
	lex.String("0x"),
	lex.Or(lex.Unit('K'), lex.Unit('L'), lex.Unit('M'), lex.Unit('H'), lex.Unit('R'), hexDigit),
	lex.Many(hexDigit))

// Rule for describing decimal integers, which must not run into an
// identifier character (e.g. as in 0x12).
var number lex.Scanner[rune] = func(items []rune) uint {
	var n = signedDigits(items)
	//
	if n == 0 || (n < uint(len(items)) && (items[n] == '.' || identifierStart(items[n:]) != 0)) {
		return 0
	}
	//
	return n
}

// Rule for describing decimal floating-point numbers, such as 1.5, -2.0e+10
// or 5.0E-1.
var float lex.Scanner[rune] = func(items []rune) uint {
	var n = signedDigits(items)
	//
	if n == 0 || n >= uint(len(items)) || items[n] != '.' {
		return 0
	}
	// Fractional part
	n += 1 + lex.Many(digit)(items[n+1:])
	// Exponent
	if n < uint(len(items)) && (items[n] == 'e' || items[n] == 'E') {
		m := n + 1
		//
		if m < uint(len(items)) && (items[m] == '+' || items[m] == '-') {
			m++
		}
		//
		if d := lex.Many(digit)(items[m:]); d > 0 {
			n = m + d
		}
	}
	//
	return n
}

func signedDigits(items []rune) uint {
	var start uint
	//
	if len(items) > 0 && (items[0] == '-' || items[0] == '+') {
		start = 1
	}
	//
	if d := lex.Many(digit)(items[start:]); d > 0 {
		return start + d
	}
	//
	return 0
}

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit('<'), LANGLE),
	lex.Rule(lex.Unit('>'), RANGLE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.Unit('*'), STAR),
	lex.Rule(lex.String("..."), ELLIPSIS),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(hex, HEX),
	lex.Rule(float, FLOAT),
	lex.Rule(number, NUMBER),
	lex.Rule(quoted, STRING),
	lex.Rule(cstring, CSTRING),
	lex.Rule(local, LOCAL),
	lex.Rule(global, GLOBAL),
	lex.Rule(metadata, METADATA),
	lex.Rule(debugRecord, DEBUG_RECORD),
	lex.Rule(attrGroup, ATTR_GROUP),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace and comments are discarded.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect(WHITESPACE, COMMENT)
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+lexer.Remaining()
		end = min(end, start+1)
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(end)), "unknown text encountered")
		//
		return nil, []source.SyntaxError{*err}
	}
	//
	return tokens, nil
}
