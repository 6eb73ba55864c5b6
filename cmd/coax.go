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

	"github.com/notargets/gocoax/InputParameters"
	"github.com/notargets/gocoax/analytic"
	"github.com/notargets/gocoax/geometry"
	"github.com/notargets/gocoax/mesh"
	"github.com/notargets/gocoax/mesh/polar"
	"github.com/notargets/gocoax/mesh/readers"
	"github.com/notargets/gocoax/solver"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const exampleFile = `
########################################
Title: "Coax Cable"
R1: 2.e-3
R2: 3.5e-3
Current: 16
Lz: 0.3
MuRWire: 1
MuRShell: 5
EpsRShell: 1
Sigma: 57.7e6
Groups:
  WIRE: 1
  SHELL: 2
  GND: 3
Solver: cholesky # Can be "dense" or "cg"
Refinement: 8
Sweep:
  Start: 1.e3
  Stop: 1.e9
  Points: 7
  Length: 1
########################################
`

// processInput starts from the reference cable, applies the input file and
// then the flag, environment and config file overrides
func processInput() (ip *InputParameters.CoaxParameters, err error) {
	ip = InputParameters.Defaults()
	if icFile := viper.GetString("input"); len(icFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(icFile); err != nil {
			return nil, err
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", icFile, err)
		}
	}
	var (
		mf = viper.GetString("mesh")
		n  = viper.GetInt("refinement")
	)
	switch {
	case len(mf) != 0 && n > 0:
		return nil, fmt.Errorf("%w: a mesh file (%s) and a polar refinement (%d) are exclusive",
			InputParameters.ErrInput, mf, n)
	case len(mf) != 0:
		ip.MeshFile = mf
	case n > 0:
		if len(ip.MeshFile) != 0 {
			log.Warnf("refinement %d replaces the mesh file %s of the input file", n, ip.MeshFile)
		}
		ip.Refinement = n
		ip.MeshFile = ""
	}
	if s := viper.GetString("solver"); len(s) != 0 {
		ip.Solver = s
	}
	if err = ip.Validate(); err != nil {
		fmt.Printf("Example File:%s\n", exampleFile)
		return nil, err
	}
	return
}

// Coax bundles a solution with the reference cable it is compared against
type Coax struct {
	IP  *InputParameters.CoaxParameters
	MS  *solver.MSSolution
	Ref analytic.Coax
}

func NewCoax(ip *InputParameters.CoaxParameters) (cx *Coax, err error) {
	var (
		wire, shell, gnd int
		msh              *mesh.Mesh
		geo              *geometry.Geo
		ls               solver.LinearSolver
		loader           mesh.Loader
	)
	if wire, err = ip.Tag(InputParameters.Wire); err != nil {
		return
	}
	if shell, err = ip.Tag(InputParameters.Shell); err != nil {
		return
	}
	if gnd, err = ip.Tag(InputParameters.Ground); err != nil {
		return
	}
	if len(ip.MeshFile) != 0 {
		loader = readers.File(ip.MeshFile)
	} else {
		loader = polar.Coax{
			R1: ip.R1, R2: ip.R2, Refinement: ip.Refinement,
			WireTag: wire, ShellTag: shell, GroundTag: gnd,
		}
	}
	if msh, err = mesh.Create(loader); err != nil {
		return
	}
	log.WithFields(log.Fields{
		"nodes":    msh.NumNodes(),
		"elements": msh.NumElements(),
		"mesh":     ip.MeshFile,
	}).Info("read mesh")
	if n := msh.DroppedSurfaceElements(); n != 0 {
		log.Warnf("%d surface elements that are not 3-node triangles were dropped", n)
	}
	if geo, err = geometry.New(msh, geometry.Materials{
		WireTag: wire, ShellTag: shell,
		MuWire: ip.MuWire(), MuShell: ip.MuShell(),
	}); err != nil {
		return
	}
	if ls, err = solver.NewLinearSolver(ip.Solver); err != nil {
		return
	}
	cx = &Coax{
		IP:  ip,
		Ref: analytic.Coax{
			I: ip.Current, R1: ip.R1, R2: ip.R2,
			MuWire: ip.MuWire(), MuShell: ip.MuShell(), Lz: ip.Lz,
		},
	}
	cx.MS, err = solver.NewMSSolution(geo, solver.Params{
		Lz:        ip.Lz,
		Current:   ip.Current,
		R1:        ip.R1,
		Sigma:     ip.Sigma,
		Eps:       ip.EpsShell(),
		Mu:        ip.MuShell(),
		GroundTag: gnd,
		Solver:    ls,
	})
	return
}

// PotentialError is the largest nodal deviation of a/lz from the closed form
// potential, relative to the closed form potential on the axis
func (cx *Coax) PotentialError() (maxErr float64, err error) {
	if !cx.MS.IsSolved() {
		return 0, solver.ErrNotSolved
	}
	var (
		a      = cx.MS.A()
		radius = cx.MS.Geo.Radius()
		scale  = cx.Ref.Az(0)
	)
	if scale == 0 {
		return 0, nil
	}
	for i := range a {
		d := a[i]/cx.IP.Lz - cx.Ref.Az(radius[i])
		if d < 0 {
			d = -d
		}
		if d > maxErr {
			maxErr = d
		}
	}
	if scale < 0 {
		scale = -scale
	}
	return maxErr / scale, nil
}
