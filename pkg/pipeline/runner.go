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
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/consensys/go-isacost/pkg/cost"
	"github.com/consensys/go-isacost/pkg/ir/parser"
	"github.com/consensys/go-isacost/pkg/util/source"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Config determines how a batch of units is estimated.
type Config struct {
	// Maximum number of units estimated concurrently (zero means one per
	// CPU).
	Jobs uint
	// Optional sink for materialised constants.
	Sink cost.ConstantSink
	// Optional callback, invoked (from a single goroutine at a time) after
	// each unit completes with the number of units completed so far.
	Progress func(completed uint)
}

// Failure records a unit which could not be estimated.
type Failure struct {
	Unit Unit
	Err  error
}

// ParseError is returned for units which could not be parsed.
type ParseError struct {
	Errors []source.SyntaxError
}

func (p *ParseError) Error() string {
	var (
		first = p.Errors[0]
		line  = first.FirstEnclosingLine()
	)
	//
	if len(p.Errors) == 1 {
		return fmt.Sprintf("%s:%d: %s", first.SourceFile().Filename(), line.Number(), first.Message())
	}
	//
	return fmt.Sprintf("%s:%d: %s (and %d more errors)", first.SourceFile().Filename(), line.Number(),
		first.Message(), len(p.Errors)-1)
}

// Run estimates the cost of every unit in a given batch.  Units which cannot
// be read or parsed are skipped, and returned as failures.  An error is
// returned only if the context is cancelled.
func Run(ctx context.Context, filesystem afero.Fs, units []Unit, config Config) (*Report, []Failure, error) {
	var (
		group, gctx = errgroup.WithContext(ctx)
		mux         sync.Mutex
		costs       = make(map[string]UnitCost)
		failures    []Failure
		completed   uint
	)
	//
	if config.Jobs == 0 {
		group.SetLimit(runtime.NumCPU())
	} else {
		group.SetLimit(int(config.Jobs))
	}
	//
	for _, unit := range units {
		if gctx.Err() != nil {
			break
		}
		// Copy the loop variable for the closure (pre-Go 1.22 loop semantics).
		unit := unit
		//
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			//
			c, err := Estimate(filesystem, unit, config.Sink)
			//
			mux.Lock()
			defer mux.Unlock()
			//
			if err != nil {
				log.Warnf("skipping %s: %s", unit.Path, err.Error())
				failures = append(failures, Failure{unit, err})
			} else {
				log.Debugf("estimated %s as %d", unit.Name, c.Cost)
				costs[unit.Name] = c
			}
			//
			completed++
			//
			if config.Progress != nil {
				config.Progress(completed)
			}
			//
			return nil
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, failures, err
	} else if err := ctx.Err(); err != nil {
		return nil, failures, err
	}
	//
	return NewReport(costs), failures, nil
}

// Estimate the cost of a single unit.
func Estimate(filesystem afero.Fs, unit Unit, sink cost.ConstantSink) (UnitCost, error) {
	bytes, err := afero.ReadFile(filesystem, unit.Path)
	if err != nil {
		return UnitCost{}, errors.Wrap(err, "failed reading")
	}
	//
	program, errs := parser.Parse(source.NewSourceFile(unit.Path, bytes))
	if len(errs) > 0 {
		return UnitCost{}, &ParseError{errs}
	}
	//
	total, functions := cost.Program(program, sink)
	//
	return UnitCost{total, functions}, nil
}
