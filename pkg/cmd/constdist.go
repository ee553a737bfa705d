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
	"fmt"
	"os"

	"github.com/consensys/go-isacost/pkg/constmat"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var constdistCmd = &cobra.Command{
	Use:   "constdist [flags] input_dir",
	Short: "collect the distribution of materialised constants.",
	Long: `Estimate every optimised LLVM IR file found under the given directory, and
	 record how often each integer constant had to be materialised in a register.
	 The histogram is written as one "<value> <count>" line per constant.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			output    = GetString(cmd, "output")
			histogram = constmat.NewHistogram()
		)
		//
		runBatch(cmd, args[0], histogram)
		//
		file := createOutput(output)
		entries := histogram.Entries()
		//
		if err := constmat.Write(file, entries); err != nil {
			fmt.Println(err)
			os.Exit(1)
		} else if err := file.Close(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		log.Infof("wrote %s (%d constants)", output, len(entries))
	},
}

func init() {
	rootCmd.AddCommand(constdistCmd)
	addBatchFlags(constdistCmd, "constdist.txt")
}
