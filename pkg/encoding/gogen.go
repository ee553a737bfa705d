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
	"fmt"
	"strings"

	"github.com/consensys/bavard"
	"github.com/pkg/errors"
	"github.com/stoewer/go-strcase"
)

// COPYRIGHT_HOLDER is recorded in the header of generated source files.
const COPYRIGHT_HOLDER = "Consensys Software Inc."

// COPYRIGHT_YEAR is recorded in the header of generated source files.
const COPYRIGHT_YEAR = 2025

// GENERATED_BY identifies the generator of generated source files.
const GENERATED_BY = "go-isacost"

// Template for a Go source file declaring the opcode prefix of every operation
// in an encoding.
const opcodesTemplate = `
// Opcode prefixes, left-aligned within a {{.Width}}-bit instruction.
const (
{{- range .Opcodes}}
	// {{.Ident}} encodes {{.Mnemonic}} with a {{.Length}}-bit prefix.
	{{.Ident}} uint32 = 0b{{.Bits}} << {{.Shift}}
{{- end}}
)

// Opcode describes the prefix assigned to a single operation.
type Opcode struct {
	Mnemonic string
	Prefix   uint32
	Length   uint
}

// OPCODES lists every operation in the instruction set.
var OPCODES = []Opcode{
{{- range .Opcodes}}
	{"{{.Mnemonic}}", {{.Ident}}, {{.Length}}},
{{- end}}
}
`

type goOpcode struct {
	Ident    string
	Mnemonic string
	Bits     string
	Length   uint
	Shift    uint
}

type goOpcodes struct {
	Width   uint
	Opcodes []goOpcode
}

// Identifier returns the Go identifier used for the opcode constant of a given
// mnemonic (e.g. "FCVT.S" becomes "OP_FCVT_S").
func Identifier(mnemonic string) string {
	var name = strings.Map(func(r rune) rune {
		if r == '.' || r == '-' {
			return '_'
		}
		//
		return r
	}, mnemonic)
	//
	return "OP_" + strcase.UpperSnakeCase(strings.ToLower(name))
}

// GenerateGo writes a Go source file into the given package, declaring a
// constant for the opcode of every operation in a satisfying encoding.
// Prefixes are aligned with the most significant bit of an instruction of the
// given width.
func GenerateGo(filename string, pkg string, solution Solution, width uint) error {
	var data = goOpcodes{Width: width}
	//
	if solution.Outcome != SAT {
		return fmt.Errorf("cannot generate opcodes for %s encoding", solution.Outcome)
	} else if width > 32 {
		return fmt.Errorf("instruction width %d exceeds 32 bits", width)
	}
	//
	for _, a := range solution.Assignments {
		data.Opcodes = append(data.Opcodes, goOpcode{
			Ident:    Identifier(a.Op.Mnemonic),
			Mnemonic: a.Op.Mnemonic,
			Bits:     a.Bits(),
			Length:   a.Length,
			Shift:    width - a.Length,
		})
	}
	//
	err := bavard.GenerateFromString(filename, []string{opcodesTemplate}, data,
		bavard.Apache2(COPYRIGHT_HOLDER, COPYRIGHT_YEAR),
		bavard.Package(pkg),
		bavard.GeneratedBy(GENERATED_BY),
		bavard.Format(false))
	//
	return errors.Wrapf(err, "failed generating %s", filename)
}
