// Package polar triangulates the annular cross-section of a coaxial cable
// with concentric rings of nodes. It stands in for an external mesher when
// no gmsh file is supplied and gives tests a family of nested refinements.
package polar

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gocoax/mesh"
)

var ErrBadParameters = errors.New("polar: invalid mesh parameters")

// gmsh element type of the 2-node boundary line
const gmshLine = 1

// Coax describes the cross-section to mesh. Refinement is the number of
// rings inside the wire; the shell rings use the same radial spacing.
type Coax struct {
	R1, R2     float64
	Refinement int

	WireTag, ShellTag, GroundTag int
}

// Load satisfies mesh.Loader
func (cx Coax) Load() (*mesh.RawMesh, error) {
	return cx.Triangulate()
}

// Triangulate emits the raw node, element and group tables. Ring k of the
// wire sits at radius R1*k/N with 6k nodes, so the wire/shell interface and
// the outer ground circle carry nodes exactly on their radii.
func (cx Coax) Triangulate() (rm *mesh.RawMesh, err error) {
	if err = cx.validate(); err != nil {
		return
	}
	var (
		N     = cx.Refinement
		h     = cx.R1 / float64(N)
		M     = int(math.Ceil((cx.R2-cx.R1)/h - 1.e-9))
		radii []float64
	)
	for k := 1; k <= N; k++ {
		radii = append(radii, cx.R1*float64(k)/float64(N))
	}
	for k := 1; k <= M; k++ {
		radii = append(radii, cx.R1+(cx.R2-cx.R1)*float64(k)/float64(M))
	}

	rm = mesh.NewRawMesh()
	rm.GroupNames[cx.WireTag] = "WIRE"
	rm.GroupNames[cx.ShellTag] = "SHELL"
	rm.GroupNames[cx.GroundTag] = "GND"

	nextTag := 1
	addRing := func(r float64, n int) (ring []int) {
		ring = make([]int, n)
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			rm.AddNode(nextTag, r*math.Cos(theta), r*math.Sin(theta), 0)
			ring[i] = nextTag
			nextTag++
		}
		return
	}

	inner := addRing(0, 1)
	for k, r := range radii {
		var (
			outer = addRing(r, ringSize(N, r, cx.R1))
			tag   = cx.WireTag
		)
		if k >= N {
			tag = cx.ShellTag
		}
		stitch(rm, inner, outer, tag)
		inner = outer
	}

	// The outermost ring is the ground boundary
	for i := range inner {
		rm.AddElement(gmshLine, []int{inner[i], inner[(i+1)%len(inner)]}, cx.GroundTag)
	}
	return
}

func (cx Coax) validate() error {
	switch {
	case cx.Refinement < 1:
		return fmt.Errorf("%w: refinement %d < 1", ErrBadParameters, cx.Refinement)
	case !(cx.R1 > 0 && cx.R2 > cx.R1):
		return fmt.Errorf("%w: radii must satisfy 0 < r1 < r2, got r1 = %g, r2 = %g",
			ErrBadParameters, cx.R1, cx.R2)
	case cx.WireTag == cx.ShellTag || cx.WireTag == cx.GroundTag || cx.ShellTag == cx.GroundTag:
		return fmt.Errorf("%w: group tags must be distinct", ErrBadParameters)
	}
	return nil
}

// ringSize keeps the arc spacing close to the radial spacing
func ringSize(N int, r, r1 float64) int {
	n := 6 * int(math.Round(float64(N)*r/r1))
	if n < 6 {
		n = 6
	}
	return n
}

// stitch fills the band between two concentric rings with triangles by
// sweeping both rings in angle, always advancing the ring whose next node
// comes first. Both rings start at angle zero.
func stitch(rm *mesh.RawMesh, inner, outer []int, tag int) {
	var (
		m, n = len(inner), len(outer)
	)
	if m == 1 {
		for j := 0; j < n; j++ {
			rm.AddElement(mesh.GmshTriangle, []int{inner[0], outer[j], outer[(j+1)%n]}, tag)
		}
		return
	}
	var i, j int
	for i < m || j < n {
		advanceInner := j == n ||
			(i < m && float64(i+1)/float64(m) <= float64(j+1)/float64(n))
		if advanceInner {
			rm.AddElement(mesh.GmshTriangle, []int{inner[i%m], inner[(i+1)%m], outer[j%n]}, tag)
			i++
		} else {
			rm.AddElement(mesh.GmshTriangle, []int{inner[i%m], outer[(j+1)%n], outer[j%n]}, tag)
			j++
		}
	}
}
