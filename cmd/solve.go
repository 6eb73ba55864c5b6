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
	"math"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve for the vector potential and print energy and line parameters",
	Long: `
Assembles and solves the magnetostatic system of the cable, then reports the
stored energy against the closed form, and the inductance, capacitance and
resistance of the line.

gocoax solve -I coax.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			prof, _    = cmd.Flags().GetBool("profile")
			compare, _ = cmd.Flags().GetBool("compare")
			cx         *Coax
			r          *SolveResult
		)
		if prof {
			defer profile.Start().Stop()
		}
		if cx, err = setup(); err != nil {
			return
		}
		if r, err = RunSolve(cx, compare); err != nil {
			return
		}
		r.Print()
		return
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
	SolveCmd.Flags().BoolP("compare", "c", false, "compare the nodal potential against the closed form solution")
}

func setup() (cx *Coax, err error) {
	ip, err := processInput()
	if err != nil {
		return
	}
	ip.Print()
	return NewCoax(ip)
}

type SolveResult struct {
	Energy, Exact  float64
	L, C, R        float64
	PotentialError float64 // NaN unless compared
}

func (r *SolveResult) RelEnergyError() float64 {
	return math.Abs(r.Energy-r.Exact) / r.Exact
}

func RunSolve(cx *Coax, compare bool) (r *SolveResult, err error) {
	r = &SolveResult{PotentialError: math.NaN()}
	if _, err = cx.MS.Solve(); err != nil {
		return nil, err
	}
	if r.Energy, err = cx.MS.Energy(); err != nil {
		return nil, err
	}
	r.Exact = cx.Ref.WMag()
	line, err := cx.MS.LineParameters()
	if err != nil {
		return nil, err
	}
	r.L, r.C, r.R = line.L, line.C, line.R
	if compare {
		if r.PotentialError, err = cx.PotentialError(); err != nil {
			return nil, err
		}
	}
	log.WithFields(log.Fields{
		"energy":   r.Energy,
		"relError": r.RelEnergyError(),
	}).Info("solved")
	return
}

func (r *SolveResult) Print() {
	fmt.Printf("%12.6e\t= W_mag (FEM) [J]\n", r.Energy)
	fmt.Printf("%12.6e\t= W_mag (analytic) [J]\n", r.Exact)
	fmt.Printf("%12.6e\t= W_mag relative error\n", r.RelEnergyError())
	fmt.Printf("%12.6e\t= L [H]\n", r.L)
	fmt.Printf("%12.6e\t= C [F]\n", r.C)
	fmt.Printf("%12.6e\t= R [Ohm/m]\n", r.R)
	if !math.IsNaN(r.PotentialError) {
		fmt.Printf("%12.6e\t= max |a/lz - A_z| / |A_z(0)|\n", r.PotentialError)
	}
}
