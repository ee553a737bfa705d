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
	"testing"

	"github.com/consensys/go-isacost/pkg/ir"
	"github.com/stretchr/testify/assert"
)

func Test_Liveness_01(t *testing.T) {
	var (
		x    = &ir.Param{Name: "x", Typ: ir.IntType(32)}
		y    = &ir.Param{Name: "y", Typ: ir.IntType(32)}
		exit = &ir.Block{Name: "exit", Instructions: []*ir.Instruction{{Opcode: ir.RET, Typ: ir.VoidType()}}}
		fn   = &ir.Function{Name: "f", Params: []*ir.Param{x, y}, Blocks: []*ir.Block{exit}}
	)
	//
	fn.Finalise()
	live := NewLiveness(fn.NumLocals())
	//
	live.Request(y)
	live.Request(y)
	//
	assert.False(t, live.IsLive(x))
	assert.True(t, live.IsLive(y))
	assert.Equal(t, uint(1), live.Len())
}

func Test_Liveness_02(t *testing.T) {
	var live = NewLiveness(0)
	// Constants are identified by value
	live.Request(ir.NewConstInt(32, 5))
	live.Request(ir.Global{Name: "g"})
	live.Request(ir.NewConstInt(32, 5))
	live.Request(ir.NewConstInt(64, 5))
	live.Request(ir.NewConstInt(32, -1))
	//
	assert.True(t, live.IsLive(ir.NewConstInt(32, 5)))
	assert.False(t, live.IsLive(ir.NewConstInt(16, 5)))
	assert.Equal(t, []ir.Value{
		ir.NewConstInt(32, 5), ir.Global{Name: "g"}, ir.NewConstInt(64, 5), ir.NewConstInt(32, -1),
	}, live.Constants())
}
