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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [flags] input_dir",
	Short: "estimate the cost of a corpus of compiled programs.",
	Long: `Estimate the cost of executing every optimised LLVM IR file found under the
	 given directory on the modelled instruction set, writing one line per file
	 followed by the total.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output := GetString(cmd, "output")
		report := runBatch(cmd, args[0], nil)
		//
		file := createOutput(output)
		//
		if err := report.Write(file); err != nil {
			fmt.Println(err)
			os.Exit(1)
		} else if err := file.Close(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		log.Infof("wrote %s (%d units)", output, report.Len())
		//
		if GetFlag(cmd, "breakdown") {
			fmt.Print(report.Tree().String())
		}
		//
		fmt.Printf("Total: %d\n", report.Total())
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	addBatchFlags(estimateCmd, "cost.txt")
	estimateCmd.Flags().Bool("breakdown", false, "print the cost of each function.")
}
