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
	"strconv"
	"strings"

	"github.com/consensys/go-isacost/pkg/util/source"
)

// Extract an expected syntax error of the form ";;error:L:S-E:msg" from a given
// line in the source file.  Lines and columns are numbered from 1, and the end
// column is exclusive.
func extractSyntaxError(lineno int, lines []source.Line, srcfile *source.File) (bool, source.SyntaxError, error) {
	var contents = lines[lineno].String()
	//
	splits, ok := splitAttribute(contents, "error")
	if !ok {
		return false, source.SyntaxError{}, nil
	} else if len(splits) < 3 {
		return true, source.SyntaxError{}, fmt.Errorf("malformed expected error \"%s\", should be e.g. \";;error:X:Y-Z:msg\"",
			contents)
	}
	// Parse line number
	line, err := strconv.Atoi(splits[0])
	if err != nil {
		return true, source.SyntaxError{}, fmt.Errorf("invalid span \"%s:%s\" (%s)", splits[0], splits[1], err.Error())
	} else if line == 0 {
		return true, source.SyntaxError{}, fmt.Errorf("invalid span \"%s:%s\" (lines numbered from 1)", splits[0],
			splits[1])
	}
	// Parse column span
	start, end, err := parseColumnSpan(splits[1])
	if err != nil {
		return true, source.SyntaxError{}, err
	}
	//
	span, err := determineFileSpan(line, start, end, lines)
	if err != nil {
		return true, source.SyntaxError{}, err
	}
	//
	return true, *srcfile.SyntaxError(span, strings.Join(splits[2:], ":")), nil
}

func parseColumnSpan(text string) (start, end int, err error) {
	var splits = strings.Split(text, "-")
	//
	if len(splits) != 2 {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (malformed, should be X-Y)", text)
	}
	// Parse span start as integer
	if start, err = strconv.Atoi(splits[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (%s)", text, err.Error())
	} else if start == 0 {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (columns numbered from 1)", text)
	}
	// Parse span end as integer
	if end, err = strconv.Atoi(splits[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (%s)", text, err.Error())
	} else if end < start {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (ends before it starts)", text)
	}
	//
	return start, end, nil
}

func determineFileSpan(lineno, start, end int, lines []source.Line) (source.Span, error) {
	// Sanity checks
	if lineno > len(lines) {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (non-existent line)", lineno, start, end)
	}
	//
	line := lines[lineno-1]
	// Subtract one from each since column numbering starts from 1.
	start--
	end--
	//
	if start >= line.Length() || end > line.Length() {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (overflows to following line)", lineno, start, end)
	}
	// Add line offset
	return source.NewSpan(start+line.Start(), end+line.Start()), nil
}
