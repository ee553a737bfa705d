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
package constmat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/consensys/go-isacost/pkg/isa"
	"github.com/consensys/go-isacost/pkg/isa/imm"
	"github.com/pkg/errors"
)

// Entry records how often a given constant occurs.
type Entry struct {
	Value int64
	Count uint64
}

// Tier determines the cost of materialising a given constant in a register.
// Zero and one are assumed to be available for free, small constants need a
// single instruction, constants of up to 32 bits need two, and anything else is
// loaded from a constant pool.
func Tier(value int64) uint64 {
	switch {
	case value == 0 || value == 1:
		return 0
	case imm.IsInt(value, isa.ADD_SUB_IMM_BITS):
		return 1
	case imm.IsInt(value, isa.LARGE_IMM_BITS+isa.ADD_SUB_IMM_BITS):
		return 2
	default:
		return 4
	}
}

// Sum the materialisation cost of every constant occurrence.
func Sum(entries []Entry) uint64 {
	var sum uint64
	//
	for _, e := range entries {
		sum += Tier(e.Value) * e.Count
	}
	//
	return sum
}

// Read a histogram, given as one "<value> <count>" pair per line.  Blank lines
// are ignored.
func Read(reader io.Reader) ([]Entry, error) {
	var (
		scanner = bufio.NewScanner(reader)
		entries []Entry
		lineno  = 0
	)
	//
	for scanner.Scan() {
		lineno++
		//
		fields := strings.Fields(scanner.Text())
		//
		if len(fields) == 0 {
			continue
		} else if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"<value> <count>\"", lineno)
		}
		//
		value, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: invalid value", lineno)
		}
		//
		count, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: invalid count", lineno)
		}
		//
		entries = append(entries, Entry{value, count})
	}
	//
	return entries, scanner.Err()
}

// Write a histogram as one "<value> <count>" pair per line.
func Write(writer io.Writer, entries []Entry) error {
	var buffered = bufio.NewWriter(writer)
	//
	for _, e := range entries {
		if _, err := fmt.Fprintf(buffered, "%d %d\n", e.Value, e.Count); err != nil {
			return err
		}
	}
	//
	return buffered.Flush()
}
