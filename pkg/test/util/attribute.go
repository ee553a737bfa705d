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
	"strings"

	"github.com/consensys/go-isacost/pkg/util/source"
)

// Attribute provides a generic mechanism for extracting attributes from the
// beginning of a test file.  Each attribute is a comment of the form
// ";;tag:field:...:field".  Given a line, an attribute determines whether or
// not it matched and, if so, the item it describes (or an error if the
// attribute is malformed).
type Attribute[T any] func(int, []source.Line, *source.File) (bool, T, error)

// ExtractAttributes extracts all attributes at the beginning of a source file.
// Extraction stops at the first line which no attribute matches.
func ExtractAttributes[T any](srcfile *source.File, attributes ...Attribute[T]) ([]T, []error) {
	var (
		// Calculate the character offset of each line
		lines = srcfile.Lines()
		// Now construct items
		items []T
		//
		errors []error
		//
		matched = true
	)
	// scan file line-by-line until no attribute matches
	for i := 0; i < len(lines) && matched; i++ {
		matched = false

		for _, attribute := range attributes {
			m, item, err := attribute(i, lines, srcfile)
			//
			if err != nil {
				errors = append(errors, err)
			} else if m {
				items = append(items, item)
			}
			//
			matched = matched || m
		}
	}
	//
	return items, errors
}

// Split an attribute line with a given tag into its fields, or return false if
// the line is not such an attribute.
func splitAttribute(contents string, tag string) ([]string, bool) {
	var prefix = ";;" + tag + ":"
	//
	if !strings.HasPrefix(contents, prefix) {
		return nil, false
	}
	//
	return strings.Split(strings.TrimSpace(contents[len(prefix):]), ":"), true
}
