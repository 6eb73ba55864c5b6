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
	"github.com/notargets/gocoax/plot"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// PlotCmd represents the plot command
var PlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the potential and flux density against the closed form solution",
	Long: `
Solves the cable and writes two PNG files, <output>_Az.png with the nodal
potential a/lz and <output>_B.png with the element flux density |B|, both
over radius together with the analytic profile.

gocoax plot -o coax`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			cx     *Coax
			output string
		)
		if output, err = cmd.Flags().GetString("output"); err != nil {
			return
		}
		if cx, err = setup(); err != nil {
			return
		}
		return RunPlot(cx, output)
	},
}

func init() {
	rootCmd.AddCommand(PlotCmd)
	PlotCmd.Flags().StringP("output", "o", "coax", "prefix of the PNG files")
}

func RunPlot(cx *Coax, output string) (err error) {
	var (
		B      [][2]float64
		pa, pb *plot.Profile
	)
	if _, err = cx.MS.Solve(); err != nil {
		return
	}
	if B, err = cx.MS.FluxDensity(); err != nil {
		return
	}
	geo := cx.MS.Geo
	if pa, err = plot.PotentialProfile(geo.Radius(), cx.MS.A(), cx.IP.Lz, cx.Ref); err != nil {
		return
	}
	if pb, err = plot.FluxProfile(geo.CentroidRadius(), B, cx.Ref); err != nil {
		return
	}
	for suffix, pr := range map[string]*plot.Profile{"_Az.png": pa, "_B.png": pb} {
		if err = pr.Save(output + suffix); err != nil {
			return
		}
		log.Infof("wrote %s", output+suffix)
	}
	return
}
