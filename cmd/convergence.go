/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/notargets/gocoax/convergence"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// ConvergenceCmd represents the convergence command
var ConvergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Energy convergence study on nested polar meshes",
	Long: `
Solves the cable on a sequence of polar meshes and reports the relative
error of the stored energy against the closed form together with the
observed order of accuracy.

gocoax convergence --levels 2,4,8,16 --csvFile study.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			levels   []int
			csvFile  string
			prof, _  = cmd.Flags().GetBool("profile")
			study    *convergence.Study
			order    float64
			cx       *Coax
			csvWrite *os.File
		)
		if levels, err = cmd.Flags().GetIntSlice("levels"); err != nil {
			return
		}
		if csvFile, err = cmd.Flags().GetString("csvFile"); err != nil {
			return
		}
		if prof {
			defer profile.Start().Stop()
		}
		if cx, err = setup(); err != nil {
			return
		}
		if study, err = RunConvergence(cx, levels); err != nil {
			return
		}
		for i := range study.Refinement {
			fmt.Printf("%4d %8d %12.4e %14.6e %12.4e\n", study.Refinement[i], study.NumNodes[i],
				study.H[i], study.Energy[i], study.RelError[i])
		}
		if order, err = study.Order(); err != nil {
			return
		}
		fmt.Printf("%8.4f\t= observed order\n", order)
		if len(csvFile) != 0 {
			if csvWrite, err = os.Create(csvFile); err != nil {
				return
			}
			defer csvWrite.Close()
			return study.WriteCSV(csvWrite)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvergenceCmd)
	ConvergenceCmd.Flags().IntSlice("levels", []int{2, 4, 8, 16}, "polar mesh refinement levels")
	ConvergenceCmd.Flags().String("csvFile", "", "write the study to this CSV file")
	ConvergenceCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
}

// RunConvergence reuses the cable and solver options of cx for every level
func RunConvergence(cx *Coax, levels []int) (*convergence.Study, error) {
	return convergence.Run(cx.Ref, cx.MS.P, levels)
}
