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
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var constmatCmd = &cobra.Command{
	Use:   "constmat [flags] [histogram_file]",
	Short: "compute the cost of materialising a histogram of constants.",
	Long: `Compute the total cost of materialising every constant in a histogram of
	 "<value> <count>" lines (by default constdist.txt), where each constant is
	 priced according to the smallest immediate field it fits.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var filename = "constdist.txt"
		//
		if len(args) == 1 {
			filename = args[0]
		}
		//
		file, err := afero.NewOsFs().Open(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		defer file.Close()
		//
		entries, err := constmat.Read(file)
		if err != nil {
			fmt.Printf("%s: %s\n", filename, err.Error())
			os.Exit(2)
		}
		//
		if GetFlag(cmd, "summary") {
			printSummary(constmat.Summarize(entries))
		}
		//
		fmt.Printf("Cost: %d\n", constmat.Sum(entries))
	},
}

func printSummary(summary constmat.Summary) {
	fmt.Printf("%d %d\n", summary.Position, summary.Count)
	//
	for _, e := range summary.Top {
		fmt.Printf("%d %d\n", e.Value, e.Count)
	}
}

func init() {
	rootCmd.AddCommand(constmatCmd)
	constmatCmd.Flags().Bool("summary", false, "summarise the most frequent constants.")
}
