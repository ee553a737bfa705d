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
package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/consensys/go-isacost/pkg/cost"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/pkg/errors"
	"github.com/xlab/treeprint"
)

// UnitCost is the estimated cost of a single unit.
type UnitCost struct {
	Cost uint64
	// Breakdown of the cost by function.
	Functions []cost.FunctionCost
}

// Report associates each unit with its estimated cost, in order of unit name.
type Report struct {
	units *orderedmap.OrderedMap[string, UnitCost]
	total uint64
}

// NewReport constructs a report from a given set of unit costs.
func NewReport(costs map[string]UnitCost) *Report {
	var (
		names = make([]string, 0, len(costs))
		units = orderedmap.NewOrderedMap[string, UnitCost]()
		total uint64
	)
	//
	for name := range costs {
		names = append(names, name)
	}
	//
	slices.Sort(names)
	//
	for _, name := range names {
		units.Set(name, costs[name])
		total += costs[name].Cost
	}
	//
	return &Report{units, total}
}

// Len returns the number of units in this report.
func (p *Report) Len() int {
	return p.units.Len()
}

// Total returns the sum of all unit costs.
func (p *Report) Total() uint64 {
	return p.total
}

// Get returns the cost of a given unit, if it exists.
func (p *Report) Get(name string) (UnitCost, bool) {
	return p.units.Get(name)
}

// Names returns the names of all units, in order.
func (p *Report) Names() []string {
	var names = make([]string, 0, p.units.Len())
	//
	for el := p.units.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	//
	return names
}

// Write this report as one "<name> <cost>" line per unit, followed by a line
// giving the total.
func (p *Report) Write(writer io.Writer) error {
	var buffered = bufio.NewWriter(writer)
	//
	for el := p.units.Front(); el != nil; el = el.Next() {
		if _, err := fmt.Fprintf(buffered, "%s %d\n", el.Key, el.Value.Cost); err != nil {
			return errors.Wrap(err, "failed writing report")
		}
	}
	//
	if _, err := fmt.Fprintf(buffered, "Total %d\n", p.total); err != nil {
		return errors.Wrap(err, "failed writing report")
	}
	//
	return errors.Wrap(buffered.Flush(), "failed writing report")
}

// Tree renders this report as a tree, where each unit is broken down into the
// cost of its functions.
func (p *Report) Tree() treeprint.Tree {
	var tree = treeprint.NewWithRoot(fmt.Sprintf("Total %d", p.total))
	//
	for el := p.units.Front(); el != nil; el = el.Next() {
		branch := tree.AddMetaBranch(el.Value.Cost, el.Key)
		//
		for _, fn := range el.Value.Functions {
			branch.AddMetaNode(fn.Cost, fn.Name)
		}
	}
	//
	return tree
}
