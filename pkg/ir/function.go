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

// Block is a basic block, i.e. a straight-line sequence of instructions ending
// in a terminator.  A block is also a value (of label type) since it can be
// used as an operand of a terminator.
type Block struct {
	Name         string
	Instructions []*Instruction
	parent       *Function
}

// Type implementation for Value interface.
func (b *Block) Type() *Type {
	return LabelType()
}

func (b *Block) String() string {
	return "%" + b.Name
}

// Parent returns the function enclosing this block.
func (b *Block) Parent() *Function {
	return b.parent
}

// Terminator returns the final instruction of this block, or nil if the block
// is empty.
func (b *Block) Terminator() *Instruction {
	if n := len(b.Instructions); n > 0 && b.Instructions[n-1].IsTerminator() {
		return b.Instructions[n-1]
	}
	//
	return nil
}

// Successors returns the blocks to which control may be transferred from
// this block.
func (b *Block) Successors() []*Block {
	if term := b.Terminator(); term != nil {
		return term.Targets
	}
	//
	return nil
}

// Phis returns the phi nodes at the start of this block.
func (b *Block) Phis() []*Instruction {
	for i, insn := range b.Instructions {
		if insn.Opcode != PHI {
			return b.Instructions[:i]
		}
	}
	//
	return b.Instructions
}

// FirstNonPhi returns the first instruction of this block which is not a phi
// node, or nil if there is none.
func (b *Block) FirstNonPhi() *Instruction {
	if phis := b.Phis(); len(phis) < len(b.Instructions) {
		return b.Instructions[len(phis)]
	}
	//
	return nil
}

// Function represents either a function definition (which has a body) or a
// declaration (which does not).
type Function struct {
	Name    string
	Result  *Type
	Params  []*Param
	Blocks  []*Block
	VarArgs bool
	// Function attributes are known to make calls removable.
	Pure bool
	// Number of local values (parameters and instructions).
	locals uint
}

// IsDeclaration checks whether this function has no body.
func (f *Function) IsDeclaration() bool {
	return len(f.Blocks) == 0
}

// Entry returns the entry block of this function.
func (f *Function) Entry() *Block {
	return f.Blocks[0]
}

// NumLocals returns the number of distinct local values (i.e. parameters and
// instructions) of this function.
func (f *Function) NumLocals() uint {
	return f.locals
}

// Finalise links every block and instruction to its parent, and allocates a
// unique index to every local value of this function.  This must be called
// once the body of a function is complete, and before it is analysed.
func (f *Function) Finalise() {
	var index uint
	//
	for _, param := range f.Params {
		param.id = index
		index++
	}
	//
	for _, block := range f.Blocks {
		block.parent = f
		//
		for _, insn := range block.Instructions {
			insn.parent = block
			insn.id = index
			index++
		}
	}
	//
	f.locals = index
}

// PostOrder returns the blocks reachable from the entry block in depth-first
// postorder.  That is, a block appears only after all of the blocks reachable
// from it along the depth-first spanning tree.  Blocks unreachable from entry
// are not included.
func (f *Function) PostOrder() []*Block {
	type frame struct {
		block *Block
		next  int
	}
	//
	var (
		order   = make([]*Block, 0, len(f.Blocks))
		visited = make(map[*Block]bool, len(f.Blocks))
		stack   []frame
	)
	//
	if f.IsDeclaration() {
		return nil
	}
	//
	visited[f.Entry()] = true
	stack = append(stack, frame{f.Entry(), 0})
	//
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succs := top.block.Successors()
		//
		if top.next < len(succs) {
			succ := succs[top.next]
			top.next++
			//
			if !visited[succ] {
				visited[succ] = true
				stack = append(stack, frame{succ, 0})
			}
		} else {
			order = append(order, top.block)
			stack = stack[:len(stack)-1]
		}
	}
	//
	return order
}

// Program is a single unit of textual intermediate representation, consisting
// of zero or more function definitions and declarations.
type Program struct {
	Functions []*Function
}

// Function returns the function of a given name, or nil if no such function
// exists.
func (p *Program) Function(name string) *Function {
	for _, f := range p.Functions {
		if f.Name == name {
			return f
		}
	}
	//
	return nil
}

// Definitions returns all functions with bodies in this program.
func (p *Program) Definitions() []*Function {
	var defs []*Function
	//
	for _, f := range p.Functions {
		if !f.IsDeclaration() {
			defs = append(defs, f)
		}
	}
	//
	return defs
}
