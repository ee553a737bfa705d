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

	"github.com/consensys/go-isacost/pkg/encoding"
	"github.com/consensys/go-isacost/pkg/isa"
	"github.com/consensys/go-isacost/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [flags]",
	Short: "search for a decodable opcode encoding.",
	Long: `Search for an assignment of opcode prefixes to every operation of the
	 instruction set, such that every instruction can be decoded unambiguously
	 from its leading bits.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			timeout = GetDuration(cmd, "timeout")
			goOut   = GetString(cmd, "go-out")
			ctx     = context.Background()
			stats   = util.NewPerfStats()
		)
		//
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			//
			defer cancel()
		}
		//
		solution, err := encoding.Solve(ctx, isa.OPCODES, isa.INSTRUCTION_BITS)
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		stats.Log("Encoding")
		//
		if err := encoding.Write(os.Stdout, solution); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		switch solution.Outcome {
		case encoding.UNSAT:
			os.Exit(1)
		case encoding.UNKNOWN:
			os.Exit(2)
		}
		//
		if goOut != "" {
			pkg := GetString(cmd, "package")
			//
			if err := encoding.GenerateGo(goOut, pkg, solution, isa.INSTRUCTION_BITS); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			//
			log.Infof("wrote %s", goOut)
		}
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().Duration("timeout", 0, "give up after a given duration (0 = never).")
	encodeCmd.Flags().String("go-out", "", "generate a Go source file declaring the opcodes.")
	encodeCmd.Flags().String("package", "opcodes", "package of the generated Go source file.")
}
