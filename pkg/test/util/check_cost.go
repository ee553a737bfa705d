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
package util

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/consensys/go-isacost/pkg/constmat"
	"github.com/consensys/go-isacost/pkg/cost"
	"github.com/consensys/go-isacost/pkg/ir/parser"
	"github.com/consensys/go-isacost/pkg/util/source"
)

// ExpectedCost is the cost declared by a test file for either a single
// function, or the whole file.
type ExpectedCost struct {
	// Function name, or empty for the whole file.
	Function string
	Cost     uint64
}

func (p ExpectedCost) String() string {
	if p.Function == "" {
		return fmt.Sprintf("total %d", p.Cost)
	}
	//
	return fmt.Sprintf("@%s %d", p.Function, p.Cost)
}

// CheckCost checks that a given test file parses, and has the costs declared
// at the beginning of the file.  Costs are declared either for the whole file
// (";;cost:N") or for a single function (";;cost:@name:N").  Estimation is also
// repeated to check it is deterministic.
func CheckCost(t *testing.T, test string) {
	var filename = testFilename(test)
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	//
	expected, errs := ExtractAttributes(srcfile, extractCost)
	if len(errs) > 0 {
		t.Fatal(errors.Join(errs...))
	} else if len(expected) == 0 {
		t.Fatalf("Error %s declares no expected costs", filename)
	}
	//
	program, serrs := parser.Parse(srcfile)
	if len(serrs) > 0 {
		for _, err := range serrs {
			t.Errorf("%s\n%s", err.Error(), err.Highlight())
		}
		//
		t.FailNow()
	}
	//
	var (
		histogram          = constmat.NewHistogram()
		total, breakdown   = cost.Program(program, histogram)
		total2, breakdown2 = cost.Program(program, nil)
	)
	//
	if total != total2 || fmt.Sprint(breakdown) != fmt.Sprint(breakdown2) {
		t.Errorf("Error %s estimated inconsistently (%d vs %d)", filename, total, total2)
	}
	//
	for _, e := range expected {
		actual, ok := lookupCost(e.Function, total, breakdown)
		//
		if !ok {
			t.Errorf("Error %s has no function @%s", filename, e.Function)
		} else if actual != e.Cost {
			t.Errorf("Error %s expected %s, got %d", filename, e, actual)
		}
	}
}

func lookupCost(function string, total uint64, breakdown []cost.FunctionCost) (uint64, bool) {
	if function == "" {
		return total, true
	}
	//
	for _, fc := range breakdown {
		if fc.Name == function {
			return fc.Cost, true
		}
	}
	//
	return 0, false
}

func extractCost(lineno int, lines []source.Line, _ *source.File) (bool, ExpectedCost, error) {
	var (
		contents = lines[lineno].String()
		expected ExpectedCost
		text     string
	)
	//
	splits, ok := splitAttribute(contents, "cost")
	//
	switch {
	case !ok:
		return false, expected, nil
	case len(splits) == 1:
		text = splits[0]
	case len(splits) == 2 && len(splits[0]) > 1 && splits[0][0] == '@':
		expected.Function, text = splits[0][1:], splits[1]
	default:
		return true, expected, fmt.Errorf("malformed expected cost \"%s\", should be e.g. \";;cost:@f:N\"", contents)
	}
	//
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return true, expected, fmt.Errorf("invalid cost \"%s\" (%s)", text, err.Error())
	}
	//
	expected.Cost = n
	//
	return true, expected, nil
}
