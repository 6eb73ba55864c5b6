package assembly

import (
	"testing"

	"github.com/notargets/gocoax/geometry"
	"github.com/notargets/gocoax/mesh"
	"github.com/notargets/gocoax/mesh/polar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// Two triangles of the square [0,2]x[0,1] sharing the diagonal 1-3
func squareGeo(t *testing.T, wireGroups ...int) *geometry.Geo {
	rm := mesh.NewRawMesh()
	rm.AddNode(1, 0, 0, 0)
	rm.AddNode(2, 2, 0, 0)
	rm.AddNode(3, 2, 1, 0)
	rm.AddNode(4, 0, 1, 0)
	rm.AddElement(mesh.GmshTriangle, []int{1, 2, 3}, append([]int{1}, wireGroups...)...)
	rm.AddElement(mesh.GmshTriangle, []int{1, 3, 4}, 2)
	rm.AddElement(1, []int{3, 4}, 3)
	m, err := mesh.New(rm)
	require.NoError(t, err)
	geo, err := geometry.New(m, geometry.Materials{WireTag: 1, ShellTag: 2, MuWire: 0.5, MuShell: 4})
	require.NoError(t, err)
	return geo
}

func TestElementStiffness(t *testing.T) {
	rm := mesh.NewRawMesh()
	rm.AddNode(1, 0, 0, 0)
	rm.AddNode(2, 1, 0, 0)
	rm.AddNode(3, 0, 1, 0)
	rm.AddElement(mesh.GmshTriangle, []int{1, 2, 3}, 1)
	m, err := mesh.New(rm)
	require.NoError(t, err)
	geo, err := geometry.New(m, geometry.Materials{WireTag: 1, ShellTag: 1, MuWire: 1, MuShell: 1})
	require.NoError(t, err)

	Ke := ElementStiffness(geo, 0, 1)
	want := [3][3]float64{
		{1, -0.5, -0.5},
		{-0.5, 0.5, 0},
		{-0.5, 0, 0.5},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want[i][j], Ke[i][j], 1.e-14)
		}
	}
	// Scales with 1/lz
	Ke2 := ElementStiffness(geo, 0, 2)
	assert.InDelta(t, 0.5, Ke2[0][0], 1.e-14)
}

func TestKnu(t *testing.T) {
	geo := squareGeo(t)
	lz := 0.3
	K, err := Knu(geo, lz)
	require.NoError(t, err)
	assert.True(t, K.IsReadOnly())
	assert.Equal(t, "Knu", K.Name())
	nr, nc := K.Dims()
	assert.Equal(t, 4, nr)
	assert.Equal(t, 4, nc)
	assert.True(t, K.IsSymmetric(1.e-14))

	// Shared nodes accumulate the diagonal of both elements
	var (
		KA = ElementStiffness(geo, 0, lz)
		KB = ElementStiffness(geo, 1, lz)
	)
	assert.InDelta(t, KA[0][0]+KB[0][0], K.At(0, 0), 1.e-12)
	assert.InDelta(t, KA[2][2]+KB[1][1], K.At(2, 2), 1.e-12)
	assert.InDelta(t, KA[0][2]+KB[0][1], K.At(0, 2), 1.e-12)
	assert.InDelta(t, KA[1][1], K.At(1, 1), 1.e-12)
	assert.Equal(t, 0., K.At(1, 3))

	// Constant potentials are in the null space
	var (
		ones = []float64{1, 1, 1, 1}
		Ku   = make([]float64, 4)
	)
	K.MulVecTo(Ku, ones)
	for _, v := range Ku {
		assert.InDelta(t, 0., v, 1.e-12)
	}
	assert.Panics(t, func() { K.Set(0, 0, 1) })

	_, err = Knu(geo, 0)
	assert.ErrorIs(t, err, ErrAxialLength)
}

func TestKnuParallel(t *testing.T) {
	m, err := mesh.Create(polar.Coax{R1: 2.e-3, R2: 3.5e-3, Refinement: 4, WireTag: 1, ShellTag: 2, GroundTag: 3})
	require.NoError(t, err)
	geo, err := geometry.New(m, geometry.Materials{WireTag: 1, ShellTag: 2, MuWire: 1, MuShell: 5})
	require.NoError(t, err)
	serial, err := KnuParallel(geo, 0.3, 1)
	require.NoError(t, err)
	for _, np := range []int{2, 3, 7, 1000} {
		K, err := KnuParallel(geo, 0.3, np)
		require.NoError(t, err)
		for i := 0; i < m.NumNodes(); i++ {
			for j := 0; j < m.NumNodes(); j++ {
				assert.Equal(t, serial.At(i, j), K.At(i, j))
			}
		}
	}
}

func TestCurrentDistribution(t *testing.T) {
	geo := squareGeo(t)
	X, err := CurrentDistribution(geo.Mesh, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1. / 3, 1. / 3, 1. / 3, 0}, X, 1.e-15)

	// Both elements in the wire, equal areas
	geo = squareGeo(t, 2)
	X, err = CurrentDistribution(geo.Mesh, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1. / 3, 1. / 6, 1. / 3, 1. / 6}, X, 1.e-15)
	assert.InDelta(t, 1., floats.Sum(X), 1.e-15)

	S, err := WireArea(geo.Mesh, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2., S, 1.e-15)
	ie, err := GridCurrent(geo.Mesh, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, ie)

	_, err = CurrentDistribution(geo.Mesh, 3)
	assert.ErrorIs(t, err, ErrNoWire)
	_, err = CurrentDistribution(geo.Mesh, 8)
	assert.ErrorIs(t, err, mesh.ErrUnknownGroup)
}

func TestLoad(t *testing.T) {
	X := []float64{0.25, 0.5, 0.25, 0}
	assert.Equal(t, []float64{4, 8, 4, 0}, Load(X, 16))
	for _, v := range Load(X, 0) {
		assert.Equal(t, 0., v)
	}
}
