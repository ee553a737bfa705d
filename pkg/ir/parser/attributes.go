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
	"strings"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/consensys/go-isacost/pkg/util/source"
)

// attributes captures those function (or call site) attributes which
// determine whether a call can be removed when its result is unused.
type attributes struct {
	words map[string]bool
	// Contents of a memory(...) attribute, or empty if none.
	memory string
	// Referenced attribute groups (e.g. "#0")
	groups []string
}

func newAttributes() attributes {
	return attributes{words: make(map[string]bool)}
}

// Parse an attribute group definition, such as:
//
//	attributes #0 = { nounwind willreturn memory(none) "frame-pointer"="all" }
func (p *Parser) parseAttributeGroup() []source.SyntaxError {
	var attrs = newAttributes()
	// Skip "attributes"
	p.index++
	//
	group, errs := p.expect(ATTR_GROUP)
	if len(errs) > 0 {
		return errs
	} else if _, errs = p.expect(EQUALS); len(errs) > 0 {
		return errs
	} else if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return errs
	}
	//
	p.collectAttributes(&attrs, func() bool { return p.match(RCURLY) })
	p.groups[p.string(group)] = attrs
	//
	return nil
}

// Parse the attributes following the parameters of a function header.  For
// a definition, these continue up to the opening brace of the body.
// Otherwise, they continue to the end of the line.
func (p *Parser) parseTrailingAttributes(definition bool) attributes {
	var attrs = newAttributes()
	//
	p.collectAttributes(&attrs, func() bool {
		if definition {
			return p.lookahead().Kind == LCURLY || p.lookahead().Kind == END_OF
		}
		//
		return !p.sameLine()
	})
	//
	return attrs
}

// Parse the attributes of a call site, which follow the closing brace of its
// arguments.
func (p *Parser) parseCallAttributes() attributes {
	var attrs = newAttributes()
	//
	p.collectAttributes(&attrs, func() bool {
		kind := p.lookahead().Kind
		// An invoke continues with its normal destination
		return !p.sameLine() || kind == COMMA || kind == LSQUARE || p.isKeyword(p.lookahead(), "to")
	})
	//
	return attrs
}

// Collect attributes until a given stop condition holds.  Unrecognised tokens
// (e.g. string attributes, sections or personality functions) are skipped.
func (p *Parser) collectAttributes(attrs *attributes, stop func() bool) {
	for !stop() {
		tok := p.lookahead()
		//
		switch {
		case tok.Kind == END_OF:
			return
		case tok.Kind == ATTR_GROUP:
			attrs.groups = append(attrs.groups, p.string(tok))
			p.index++
		case p.isKeyword(tok, "memory") && p.follows(IDENTIFIER, LBRACE):
			p.index++
			start := p.lookahead()
			end := p.skipBalanced()
			text := p.srcfile.Text(source.NewSpan(start.Span.End(), end.Span.Start()))
			attrs.memory = strings.TrimSpace(text)
		case tok.Kind == IDENTIFIER:
			attrs.words[p.string(tok)] = true
			p.index++
			//
			if p.lookahead().Kind == LBRACE {
				p.skipBalanced()
			}
		case tok.Kind == LBRACE || tok.Kind == LSQUARE || tok.Kind == LANGLE:
			p.skipBalanced()
		default:
			p.index++
		}
	}
}

// Determine the purity of every call within a given program.  Calls to
// intrinsics are pure unless the intrinsic is known to have side effects.
// Other calls are pure only when the call site and callee (including their
// attribute groups) together establish that the call does not write memory,
// does not unwind and always returns.
func (p *Parser) resolvePurity(program *ir.Program) {
	for _, fn := range program.Functions {
		fn.Pure = p.isPure(p.functionAttrs[fn.Name])
		//
		for _, block := range fn.Blocks {
			for _, insn := range block.Instructions {
				if insn.Opcode != ir.CALL {
					continue
				} else if insn.Intrinsic != "" {
					insn.Pure = ir.IsPureIntrinsic(insn.Intrinsic)
					continue
				}
				//
				site := p.callAttrs[insn]
				//
				if callee, ok := insn.Callee.(ir.Global); ok {
					insn.Pure = p.isPure(site, p.functionAttrs[callee.Name])
				} else {
					insn.Pure = p.isPure(site)
				}
			}
		}
	}
}

// Check whether the union of some sets of attributes establishes purity.
func (p *Parser) isPure(sets ...attributes) bool {
	var (
		words  = make(map[string]bool)
		memory []string
	)
	//
	add := func(attrs attributes) {
		for word := range attrs.words {
			words[word] = true
		}
		//
		if attrs.memory != "" {
			memory = append(memory, attrs.memory)
		}
	}
	//
	for _, attrs := range sets {
		add(attrs)
		//
		for _, group := range attrs.groups {
			add(p.groups[group])
		}
	}
	//
	if !words["nounwind"] || !words["willreturn"] {
		return false
	} else if words["readnone"] || words["readonly"] {
		return true
	}
	//
	for _, effects := range memory {
		if readOnlyMemory(effects) {
			return true
		}
	}
	//
	return false
}

// Check whether the contents of a memory(...) attribute permit no writes.
// For example, "none", "read" and "argmem: read" all permit no writes.
func readOnlyMemory(effects string) bool {
	return !strings.Contains(effects, "write")
}
