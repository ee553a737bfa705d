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
	"fmt"
	"os"
	"testing"

	"github.com/consensys/go-isacost/pkg/util/source"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the LLVM IR test files are found.
const TestDir = "../../testdata"

// EXTENSION of every test file.
const EXTENSION = "ll"

// Determine the filename of a given test.
func testFilename(test string) string {
	return fmt.Sprintf("%s/%s.%s", TestDir, test, EXTENSION)
}

func readSourceFile(t *testing.T, filename string) *source.File {
	// Read test file
	bytes, err := os.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	// Package up as source file
	return source.NewSourceFile(filename, bytes)
}
