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
	"math/cmplx"

	"github.com/notargets/gocoax/txline"
	"github.com/spf13/cobra"
)

// LineCmd represents the line command
var LineCmd = &cobra.Command{
	Use:   "line",
	Short: "Sweep the frequency domain line parameters",
	Long: `
Computes R, L and C from the magnetostatic solution and evaluates the
impedance, admittance, characteristic impedance, propagation constant and
ABCD matrix of a line section over a logarithmic frequency sweep.

gocoax line --start 1e3 --stop 1e9 --points 7 --length 10`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			cx  *Coax
			pts []txline.Point
		)
		if cx, err = setup(); err != nil {
			return
		}
		sw := &cx.IP.Sweep
		if cmd.Flags().Changed("start") {
			sw.Start, _ = cmd.Flags().GetFloat64("start")
		}
		if cmd.Flags().Changed("stop") {
			sw.Stop, _ = cmd.Flags().GetFloat64("stop")
		}
		if cmd.Flags().Changed("points") {
			sw.Points, _ = cmd.Flags().GetInt("points")
		}
		if cmd.Flags().Changed("length") {
			sw.Length, _ = cmd.Flags().GetFloat64("length")
		}
		if pts, err = RunLine(cx); err != nil {
			return
		}
		PrintSweep(pts)
		return
	},
}

func init() {
	rootCmd.AddCommand(LineCmd)
	LineCmd.Flags().Float64("start", 0, "first frequency [Hz]")
	LineCmd.Flags().Float64("stop", 0, "last frequency [Hz]")
	LineCmd.Flags().Int("points", 0, "number of frequencies")
	LineCmd.Flags().Float64("length", 0, "length of the line section [m]")
}

func RunLine(cx *Coax) (pts []txline.Point, err error) {
	var (
		line  txline.Line
		freqs []float64
		sw    = cx.IP.Sweep
	)
	if line, err = cx.MS.LineParameters(); err != nil {
		return
	}
	if freqs, err = txline.LogSpace(sw.Start, sw.Stop, sw.Points); err != nil {
		return
	}
	if v, err := txline.PhaseVelocity(cx.IP.EpsShell(), cx.IP.MuShell()); err == nil {
		fmt.Printf("%12.6e\t= phase velocity [m/s]\n", v)
	}
	return line.Sweep(freqs, sw.Length)
}

func PrintSweep(pts []txline.Point) {
	fmt.Printf("%12s %12s %12s %12s %12s %12s\n", "f [Hz]", "|Zc| [Ohm]", "arg(Zc)", "alpha", "beta", "|B| [Ohm]")
	for _, pt := range pts {
		fmt.Printf("%12.4e %12.4e %12.4e %12.4e %12.4e %12.4e\n",
			pt.F, cmplx.Abs(pt.Zc), cmplx.Phase(pt.Zc), real(pt.Gamma), imag(pt.Gamma), cmplx.Abs(pt.T[0][1]))
	}
}
