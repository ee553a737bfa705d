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
	"strconv"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/consensys/go-isacost/pkg/util/source"
)

// environment maintains the local names visible within a single function
// body.  Since values may be used before they are defined (e.g. by phi nodes),
// unresolved uses are represented by placeholders which are resolved once the
// body is complete.
type environment struct {
	values map[string]ir.Value
	blocks map[string]*ir.Block
	// First use of each block, for reporting undefined labels.
	uses map[*ir.Block]source.Span
	// Blocks which have been labelled
	defined map[*ir.Block]bool
	// Next implicit (numbered) name
	number uint
}

func newEnvironment() *environment {
	return &environment{
		values:  make(map[string]ir.Value),
		blocks:  make(map[string]*ir.Block),
		uses:    make(map[*ir.Block]source.Span),
		defined: make(map[*ir.Block]bool),
	}
}

// forward is a placeholder for a local value which is used before it is
// defined.
type forward struct {
	name string
	typ  *ir.Type
	span source.Span
}

// Type implementation for Value interface.
func (f *forward) Type() *ir.Type {
	return f.typ
}

func (f *forward) String() string {
	return "%" + f.name
}

// Define a local value with a given name, returning false if the name is
// already in use.
func (e *environment) define(name string, value ir.Value) bool {
	if _, ok := e.values[name]; ok {
		return false
	}
	//
	e.values[name] = value
	e.claim(name)
	//
	return true
}

// Lookup a local value with a given name, producing a placeholder if the value
// has not yet been defined.
func (e *environment) lookup(name string, typ *ir.Type, span source.Span) ir.Value {
	if value, ok := e.values[name]; ok {
		return value
	}
	//
	return &forward{name, typ, span}
}

// Return the block with a given label, creating it if necessary.
func (e *environment) block(name string, span source.Span) *ir.Block {
	if block, ok := e.blocks[name]; ok {
		return block
	}
	//
	block := &ir.Block{Name: name}
	e.blocks[name] = block
	e.uses[block] = span
	//
	return block
}

// Mark the block with a given label as defined, returning nil if it was
// already defined.
func (e *environment) label(name string) *ir.Block {
	block := e.block(name, source.NewSpan(0, 0))
	//
	if e.defined[block] {
		return nil
	}
	//
	e.defined[block] = true
	e.claim(name)
	//
	return block
}

// Allocate the next implicit name.
func (e *environment) nextNumber() string {
	return strconv.FormatUint(uint64(e.number), 10)
}

// Explicitly numbered names advance the implicit numbering.
func (e *environment) claim(name string) {
	if n, err := strconv.ParseUint(name, 10, 64); err == nil && uint(n) >= e.number {
		e.number = uint(n) + 1
	}
}

// Resolve all placeholders within a given function body, reporting any names
// which were never defined.
func (e *environment) resolve(srcfile *source.File, blocks []*ir.Block) []source.SyntaxError {
	var errors []source.SyntaxError
	//
	resolve := func(value ir.Value) ir.Value {
		if fwd, ok := value.(*forward); ok {
			if actual, ok := e.values[fwd.name]; ok {
				return actual
			}
			//
			errors = append(errors, *srcfile.SyntaxError(fwd.span, "unknown value"))
		}
		//
		return value
	}
	//
	for _, block := range blocks {
		for _, insn := range block.Instructions {
			for i, operand := range insn.Operands {
				insn.Operands[i] = resolve(operand)
			}
			//
			if insn.Callee != nil {
				insn.Callee = resolve(insn.Callee)
			}
		}
	}
	//
	for _, block := range e.blocks {
		if !e.defined[block] {
			errors = append(errors, *srcfile.SyntaxError(e.uses[block], "unknown block"))
		}
	}
	//
	return errors
}
