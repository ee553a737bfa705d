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
	"io"
	"strings"

	"github.com/pkg/errors"
)

// MNEMONIC_WIDTH is the width of the (right-aligned) mnemonic column when
// writing an encoding.
const MNEMONIC_WIDTH = 12

// Bits returns the prefix of this assignment as a binary string, including
// any leading zeros.
func (p Assignment) Bits() string {
	if p.Length == 0 {
		return ""
	}
	//
	return fmt.Sprintf("%0*b", p.Length, p.Prefix)
}

// Write a solution in textual form.  Each operation is written on its own line
// (in table order) as its mnemonic followed by its prefix.  If no encoding was
// found, only the outcome is written.
func Write(w io.Writer, solution Solution) error {
	var builder strings.Builder
	//
	if solution.Outcome != SAT {
		builder.WriteString(solution.Outcome.String())
		builder.WriteString("\n")
	}
	//
	for _, a := range solution.Assignments {
		builder.WriteString(fmt.Sprintf("%*s %s\n", MNEMONIC_WIDTH, a.Op.Mnemonic, a.Bits()))
	}
	//
	if _, err := io.WriteString(w, builder.String()); err != nil {
		return errors.Wrap(err, "failed writing encoding")
	}
	//
	return nil
}
