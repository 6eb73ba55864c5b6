package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gocoax/mesh"
)

var (
	ErrNoRegion     = errors.New("geometry: element belongs to no material region")
	ErrPermeability = errors.New("geometry: permeability must be positive")
)

// Materials selects the permeability of each region by physical group tag
type Materials struct {
	WireTag, ShellTag int
	MuWire, MuShell   float64 // permeability [H/m]
}

// Geo derives the per node and per element fields the solver needs
type Geo struct {
	Mesh *mesh.Mesh
	Mat  Materials

	reluctivity []float64
	radius      []float64
}

// New computes the reluctivity of every element. An element whose nodes are
// all in the wire group gets 1/MuWire, all in the shell group 1/MuShell. An
// element that qualifies for both is wire, one that qualifies for neither is
// an error because it would contribute nothing to the stiffness matrix.
func New(m *mesh.Mesh, mat Materials) (geo *Geo, err error) {
	if !(mat.MuWire > 0) || !(mat.MuShell > 0) {
		return nil, fmt.Errorf("%w: mu_wire = %g, mu_shell = %g", ErrPermeability, mat.MuWire, mat.MuShell)
	}
	var (
		inWire, inShell []bool
	)
	if inWire, err = m.ElementInGroup(mat.WireTag); err != nil {
		return nil, fmt.Errorf("wire region: %w", err)
	}
	if inShell, err = m.ElementInGroup(mat.ShellTag); err != nil {
		return nil, fmt.Errorf("shell region: %w", err)
	}
	geo = &Geo{
		Mesh:        m,
		Mat:         mat,
		reluctivity: make([]float64, m.NumElements()),
		radius:      make([]float64, m.NumNodes()),
	}
	for k := range geo.reluctivity {
		switch {
		case inWire[k]:
			geo.reluctivity[k] = 1 / mat.MuWire
		case inShell[k]:
			geo.reluctivity[k] = 1 / mat.MuShell
		default:
			return nil, fmt.Errorf("%w: element %d, nodes %v", ErrNoRegion, k, m.Element(k))
		}
	}
	for i := range geo.radius {
		p := m.NodeCoord(i)
		geo.radius[i] = math.Hypot(p[0], p[1])
	}
	return
}

// Reluctivity returns a copy of 1/mu per element
func (geo *Geo) Reluctivity() []float64 {
	out := make([]float64, len(geo.reluctivity))
	copy(out, geo.reluctivity)
	return out
}

func (geo *Geo) ElementReluctivity(k int) float64 { return geo.reluctivity[k] }

// Radius returns the distance of each node from the cable axis
func (geo *Geo) Radius() []float64 {
	out := make([]float64, len(geo.radius))
	copy(out, geo.radius)
	return out
}

// CentroidRadius returns the distance of each element centroid from the axis
func (geo *Geo) CentroidRadius() (rc []float64) {
	rc = make([]float64, geo.Mesh.NumElements())
	for k := range rc {
		var x, y float64
		for _, n := range geo.Mesh.Element(k) {
			p := geo.Mesh.NodeCoord(n)
			x += p[0] / 3
			y += p[1] / 3
		}
		rc[k] = math.Hypot(x, y)
	}
	return
}
