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
package encoding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/consensys/go-isacost/pkg/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func Test_Encoding_01(t *testing.T) {
	table := []isa.OpcodeSpec{{Mnemonic: "A", Length: 2}, {Mnemonic: "B", Length: 2}}
	solution := checkSolve(t, SAT, table, 4)
	//
	assert.NotEqual(t, solution.Assignments[0].Prefix, solution.Assignments[1].Prefix)
}

func Test_Encoding_02(t *testing.T) {
	// Only two 1-bit prefixes exist
	table := []isa.OpcodeSpec{{Mnemonic: "A", Length: 3}, {Mnemonic: "B", Length: 3}, {Mnemonic: "C", Length: 3}}
	solution := checkSolve(t, UNSAT, table, 4)
	//
	assert.Empty(t, solution.Assignments)
}

func Test_Encoding_03(t *testing.T) {
	// A 1-bit prefix leaves room for two 2-bit prefixes
	checkSolve(t, SAT, []isa.OpcodeSpec{{Mnemonic: "A", Length: 3}, {Mnemonic: "B", Length: 2}, {Mnemonic: "C", Length: 2}}, 4)
}

func Test_Encoding_04(t *testing.T) {
	checkSolve(t, UNSAT, []isa.OpcodeSpec{{Mnemonic: "A", Length: 3}, {Mnemonic: "B", Length: 2}, {Mnemonic: "C", Length: 2}, {Mnemonic: "D", Length: 2}}, 4)
}

func Test_Encoding_05(t *testing.T) {
	checkSolve(t, SAT, isa.OPCODES, isa.INSTRUCTION_BITS)
}

func Test_Encoding_06(t *testing.T) {
	checkSolve(t, SAT, []isa.OpcodeSpec{{Mnemonic: "A", Length: 0}}, 4)
}

func Test_Encoding_Invalid_01(t *testing.T) {
	_, err := Solve(context.Background(), []isa.OpcodeSpec{{Mnemonic: "A", Length: 2}, {Mnemonic: "A", Length: 1}}, 4)
	assert.ErrorContains(t, err, "redefined")
}

func Test_Encoding_Invalid_02(t *testing.T) {
	_, err := Solve(context.Background(), []isa.OpcodeSpec{{Mnemonic: "A", Length: 4}}, 4)
	assert.ErrorContains(t, err, "no room")
}

func Test_Encoding_Cancel_01(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	checkSolveWithin(t, ctx, UNKNOWN, pigeonhole(33, 5), 32)
}

func Test_Encoding_Cancel_02(t *testing.T) {
	// Deadline expires during the search
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	//
	checkSolveWithin(t, ctx, UNKNOWN, pigeonhole(33, 5), 32)
}

func Test_Encoding_Write_01(t *testing.T) {
	var (
		out      strings.Builder
		solution = Solution{SAT, []Assignment{
			{isa.OpcodeSpec{Mnemonic: "ADD", Length: 30}, 1, 2},
			{isa.OpcodeSpec{Mnemonic: "FCOPYSIGNI", Length: 29}, 0, 3},
		}}
	)
	//
	require.NoError(t, Write(&out, solution))
	assert.Equal(t, "         ADD 01\n  FCOPYSIGNI 000\n", out.String())
}

func Test_Encoding_Write_02(t *testing.T) {
	var out strings.Builder
	//
	require.NoError(t, Write(&out, Solution{Outcome: UNSAT}))
	assert.Equal(t, "unsat\n", out.String())
}

func Test_Encoding_Identifier_01(t *testing.T) {
	assert.Equal(t, "OP_FCOPYSIGNI", Identifier("FCOPYSIGNI"))
	assert.Equal(t, "OP_FCVT_S", Identifier("FCVT.S"))
}

func Test_Encoding_Generate_01(t *testing.T) {
	var (
		filename = filepath.Join(t.TempDir(), "opcodes.go")
		solution = Solution{SAT, []Assignment{
			{isa.OpcodeSpec{Mnemonic: "ADD", Length: 2}, 1, 2},
			{isa.OpcodeSpec{Mnemonic: "SUB", Length: 2}, 2, 2},
		}}
	)
	//
	require.NoError(t, GenerateGo(filename, "opcodes", solution, 4))
	//
	bytes, err := os.ReadFile(filename)
	require.NoError(t, err)
	//
	text := string(bytes)
	assert.Contains(t, text, "package opcodes")
	assert.Contains(t, text, "0b01 << 2")
	assert.Contains(t, text, "\"SUB\"")
}

func Test_Encoding_Generate_02(t *testing.T) {
	err := GenerateGo(filepath.Join(t.TempDir(), "opcodes.go"), "opcodes", Solution{Outcome: UNSAT}, 4)
	assert.Error(t, err)
}

// Solve a given table, checking the outcome and that any encoding found is
// decodable.
func checkSolve(t *testing.T, expected Outcome, table []isa.OpcodeSpec, width uint) Solution {
	return checkSolveWithin(t, context.Background(), expected, table, width)
}

func checkSolveWithin(t *testing.T, ctx context.Context, expected Outcome, table []isa.OpcodeSpec,
	width uint) Solution {
	solution, err := Solve(ctx, table, width)
	//
	require.NoError(t, err)
	require.Equal(t, expected, solution.Outcome)
	//
	if expected == SAT {
		require.Len(t, solution.Assignments, len(table))
		//
		for i, a := range solution.Assignments {
			assert.Equal(t, table[i], a.Op)
			assert.Equal(t, table[i].PrefixLength(width), a.Length)
			//
			for _, b := range solution.Assignments[i+1:] {
				n := min(a.Length, b.Length)
				assert.NotEqual(t, a.Prefix>>(a.Length-n), b.Prefix>>(b.Length-n), "%s collides with %s",
					a.Op.Mnemonic, b.Op.Mnemonic)
			}
		}
	}
	//
	return solution
}

// Construct a table of n operations which all have prefixes of a given length,
// for a 32-bit instruction.  This is unsatisfiable whenever n exceeds the number
// of such prefixes, but hard for the solver to refute.
func pigeonhole(n int, prefix uint) []isa.OpcodeSpec {
	var table = make([]isa.OpcodeSpec, n)
	//
	for i := range table {
		table[i] = isa.OpcodeSpec{Mnemonic: fmt.Sprintf("OP%d", i), Length: 32 - prefix}
	}
	//
	return table
}
