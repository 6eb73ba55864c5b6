package assembly

import (
	"fmt"

	"github.com/notargets/gocoax/mesh"
)

// WireArea sums the areas of the elements in the wire group
func WireArea(m *mesh.Mesh, wireTag int) (S float64, err error) {
	var inWire []bool
	if inWire, err = m.ElementInGroup(wireTag); err != nil {
		return
	}
	for k, in := range inWire {
		if in {
			S += m.ElementArea(k)
		}
	}
	if S == 0 {
		err = fmt.Errorf("%w: group %d", ErrNoWire, wireTag)
	}
	return
}

// GridCurrent is the fraction of a unit current carried by each element.
// The density 1/S_wire is uniform over the wire and zero elsewhere.
func GridCurrent(m *mesh.Mesh, wireTag int) (ie []float64, err error) {
	var (
		S      float64
		inWire []bool
	)
	if S, err = WireArea(m, wireTag); err != nil {
		return
	}
	if inWire, err = m.ElementInGroup(wireTag); err != nil {
		return
	}
	ie = make([]float64, m.NumElements())
	for k, in := range inWire {
		if in {
			ie[k] = m.ElementArea(k) / S
		}
	}
	return
}

// CurrentDistribution assembles the nodal current distribution X of a unit
// current. Each wire element hands a third of its current to each of its
// nodes and shared nodes accumulate, so the entries of X sum to one.
func CurrentDistribution(m *mesh.Mesh, wireTag int) (X []float64, err error) {
	var ie []float64
	if ie, err = GridCurrent(m, wireTag); err != nil {
		return
	}
	X = make([]float64, m.NumNodes())
	for k, cur := range ie {
		if cur == 0 {
			continue
		}
		for _, n := range m.Element(k) {
			X[n] += cur / 3
		}
	}
	return
}

// Load scales the current distribution by the drive current, j = I*X
func Load(X []float64, I float64) (j []float64) {
	j = make([]float64, len(X))
	for n, x := range X {
		j[n] = I * x
	}
	return
}
