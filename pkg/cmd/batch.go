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
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/consensys/go-isacost/pkg/cost"
	"github.com/consensys/go-isacost/pkg/pipeline"
	"github.com/consensys/go-isacost/pkg/util"
	"github.com/consensys/go-isacost/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Estimate every unit found under a given input directory, using the worker
// limit configured on the command line.  Units which fail are reported and
// skipped, whilst an interrupt aborts the batch entirely.
func runBatch(cmd *cobra.Command, root string, sink cost.ConstantSink) *pipeline.Report {
	var (
		filesystem  = afero.NewOsFs()
		stats       = util.NewPerfStats()
		progress    = termio.NewProgress()
		ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt)
	)
	//
	defer cancel()
	//
	units, err := pipeline.Discover(filesystem, root)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	log.Debugf("discovered %d units in %s", len(units), root)
	//
	report, failures, err := pipeline.Run(ctx, filesystem, units, pipeline.Config{
		Jobs:     GetUint(cmd, "jobs"),
		Sink:     sink,
		Progress: progress.Update,
	})
	//
	progress.Finish()
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	} else if len(failures) > 0 {
		log.Warnf("skipped %d of %d units", len(failures), len(units))
		//
		if GetFlag(cmd, "verbose") {
			printFailures(failures)
		}
	}
	//
	stats.Log(fmt.Sprintf("Estimating %d units", len(units)))
	//
	return report
}

// Create (or truncate) an output file, or exit if this fails.
func createOutput(filename string) afero.File {
	file, err := afero.NewOsFs().Create(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	return file
}

func addBatchFlags(cmd *cobra.Command, output string) {
	cmd.Flags().StringP("output", "o", output, "specify output file.")
	cmd.Flags().UintP("jobs", "j", 0, "maximum number of files processed in parallel (0 = one per CPU).")
}
