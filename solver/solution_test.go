package solver

import (
	"math"
	"testing"

	"github.com/notargets/gocoax/assembly"
	"github.com/notargets/gocoax/geometry"
	"github.com/notargets/gocoax/mesh"
	"github.com/notargets/gocoax/mesh/polar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mu0  = 1.25663706212e-6
	eps0 = 8.8541878128e-12
	r1   = 2.e-3
	r2   = 3.5e-3
	lz   = 0.3
	amps = 16.
)

// Closed form energy of the reference cable with mu_shell = 5 mu_wire
func wMag(I float64) float64 {
	return I * I * lz * mu0 * (1 + 20*math.Log(r2/r1)) / (16 * math.Pi)
}

func coaxParams(I float64, ls LinearSolver) Params {
	return Params{
		Lz: lz, Current: I, R1: r1, Sigma: 57.7e6,
		Eps: eps0, Mu: 5 * mu0, GroundTag: 3, Solver: ls,
	}
}

func coaxGeo(t *testing.T, N int) *geometry.Geo {
	m, err := mesh.Create(polar.Coax{R1: r1, R2: r2, Refinement: N, WireTag: 1, ShellTag: 2, GroundTag: 3})
	require.NoError(t, err)
	geo, err := geometry.New(m, geometry.Materials{WireTag: 1, ShellTag: 2, MuWire: mu0, MuShell: 5 * mu0})
	require.NoError(t, err)
	return geo
}

func TestEnergyConvergence(t *testing.T) {
	for _, ls := range []LinearSolver{Cholesky{}, CG{}} {
		var (
			prev = math.Inf(1)
			Wa   = wMag(amps)
		)
		// Nested doubling refinements, the error drops by about four each level
		for _, N := range []int{2, 4, 8} {
			ms, err := NewMSSolution(coaxGeo(t, N), coaxParams(amps, ls))
			require.NoError(t, err)
			_, err = ms.Solve()
			require.NoError(t, err, "%s N = %d", ls.Name(), N)
			W, err := ms.Energy()
			require.NoError(t, err)
			relErr := math.Abs(W-Wa) / Wa
			t.Logf("%s N = %2d W = %.6e analytic = %.6e rel = %.3e", ls.Name(), N, W, Wa, relErr)
			assert.Less(t, relErr, prev, "%s N = %d", ls.Name(), N)
			prev = relErr
		}
		assert.Less(t, prev, 0.01, ls.Name())
	}
}

func TestGroundPotential(t *testing.T) {
	geo := coaxGeo(t, 4)
	ms, err := NewMSSolution(geo, coaxParams(amps, nil))
	require.NoError(t, err)
	assert.False(t, ms.IsSolved())
	_, err = ms.FluxDensity()
	assert.ErrorIs(t, err, ErrNotSolved)
	_, err = ms.Energy()
	assert.ErrorIs(t, err, ErrNotSolved)

	a, err := ms.Solve()
	require.NoError(t, err)
	assert.True(t, ms.IsSolved())
	gnd, err := geo.Mesh.NodesInGroup(3)
	require.NoError(t, err)
	require.NotEmpty(t, gnd)
	for _, i := range gnd {
		assert.Equal(t, 0., a[i])
	}
	// Largest potential on the axis
	maxA := 0.
	for _, v := range a {
		maxA = math.Max(maxA, v)
	}
	assert.Equal(t, maxA, a[0])

	// Solving again gives the same potential
	a2, err := ms.Solve()
	require.NoError(t, err)
	assert.Equal(t, a, a2)
	a2[0] = 0
	assert.Equal(t, a[0], ms.A()[0])
}

func TestZeroCurrent(t *testing.T) {
	ms, err := NewMSSolution(coaxGeo(t, 3), coaxParams(0, nil))
	require.NoError(t, err)
	a, err := ms.Solve()
	require.NoError(t, err)
	for _, v := range a {
		assert.Equal(t, 0., v)
	}
	B, err := ms.FluxDensity()
	require.NoError(t, err)
	for _, b := range B {
		assert.Equal(t, [2]float64{0, 0}, b)
	}
	W, err := ms.Energy()
	require.NoError(t, err)
	assert.Equal(t, 0., W)
	// The inductance does not depend on the drive current
	L, err := ms.Inductance()
	require.NoError(t, err)
	assert.Greater(t, L, 0.)
}

func TestFluxDensityEnergy(t *testing.T) {
	geo := coaxGeo(t, 6)
	ms, err := NewMSSolution(geo, coaxParams(amps, nil))
	require.NoError(t, err)
	_, err = ms.Solve()
	require.NoError(t, err)
	B, err := ms.FluxDensity()
	require.NoError(t, err)
	W, err := ms.Energy()
	require.NoError(t, err)

	// 0.5 a^T K a equals the integral of |B|^2 / (2 mu) over the volume
	var (
		Wb float64
		nu = geo.Reluctivity()
		rc = geo.CentroidRadius()
	)
	inShell, err := geo.Mesh.ElementInGroup(2)
	require.NoError(t, err)
	for k, b := range B {
		Bsq := b[0]*b[0] + b[1]*b[1]
		Wb += 0.5 * nu[k] * Bsq * geo.Mesh.ElementArea(k) * lz
		if inShell[k] {
			exact := 5 * mu0 * amps / (2 * math.Pi * rc[k])
			assert.InDelta(t, exact, math.Sqrt(Bsq), 0.15*exact, "element %d", k)
		}
	}
	assert.InDelta(t, W, Wb, 1.e-9*W)
}

func TestLineParameters(t *testing.T) {
	ms, err := NewMSSolution(coaxGeo(t, 8), coaxParams(amps, nil))
	require.NoError(t, err)
	_, err = ms.Solve()
	require.NoError(t, err)
	W, err := ms.Energy()
	require.NoError(t, err)

	L, err := ms.Inductance()
	require.NoError(t, err)
	assert.InDelta(t, 2*W/(amps*amps), L, 1.e-8*L)
	Lexact := 2 * wMag(amps) / (amps * amps)
	assert.InDelta(t, Lexact, L, 0.03*Lexact)

	C, err := ms.Capacitance()
	require.NoError(t, err)
	assert.InDelta(t, eps0*5*mu0/L, C, 1.e-12*C)
	assert.InDelta(t, 1/(57.7e6*math.Pi*r1*r1), ms.Resistance(), 1.e-12)

	line, err := ms.LineParameters()
	require.NoError(t, err)
	assert.Equal(t, L, line.L)
	assert.Equal(t, C, line.C)
	assert.Equal(t, ms.Resistance(), line.R)

	X, err := ms.CurrentDistribution()
	require.NoError(t, err)
	sum := 0.
	for _, x := range X {
		sum += x
	}
	assert.InDelta(t, 1., sum, 1.e-12)
	K, err := ms.Knu()
	require.NoError(t, err)
	assert.True(t, K.IsReadOnly())
	assert.True(t, K.IsSymmetric(1.e-12))
}

func TestSolveFailures(t *testing.T) {
	geo := coaxGeo(t, 2)

	p := coaxParams(amps, nil)
	p.GroundTag = 99
	ms, err := NewMSSolution(geo, p)
	require.NoError(t, err)
	a, err := ms.Solve()
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrNoDirichlet)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageBoundary, se.Stage)
	assert.False(t, ms.IsSolved())

	// Every node grounded leaves nothing to solve
	p = coaxParams(amps, nil)
	p.GroundTag = 2
	rm := mesh.NewRawMesh()
	rm.AddNode(1, 0, 0, 0)
	rm.AddNode(2, 1, 0, 0)
	rm.AddNode(3, 0, 1, 0)
	rm.AddElement(mesh.GmshTriangle, []int{1, 2, 3}, 1, 2)
	m, err := mesh.New(rm)
	require.NoError(t, err)
	g, err := geometry.New(m, geometry.Materials{WireTag: 1, ShellTag: 2, MuWire: mu0, MuShell: mu0})
	require.NoError(t, err)
	ms, err = NewMSSolution(g, p)
	require.NoError(t, err)
	_, err = ms.Solve()
	assert.ErrorIs(t, err, ErrNoDOF)

	// No wire elements
	p = coaxParams(amps, nil)
	g, err = geometry.New(geo.Mesh, geometry.Materials{WireTag: 1, ShellTag: 2, MuWire: mu0, MuShell: mu0})
	require.NoError(t, err)
	g.Mat.WireTag = 3
	ms, err = NewMSSolution(g, p)
	require.NoError(t, err)
	_, err = ms.Solve()
	assert.ErrorIs(t, err, assembly.ErrNoWire)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageAssembly, se.Stage)

	_, err = NewMSSolution(geo, Params{Lz: 0, R1: r1, Sigma: 1, Eps: 1, Mu: 1})
	assert.ErrorIs(t, err, ErrParameter)
	_, err = NewMSSolution(geo, Params{Lz: 1, Current: math.NaN(), R1: r1, Sigma: 1, Eps: 1, Mu: 1})
	assert.ErrorIs(t, err, ErrParameter)
	_, err = NewMSSolution(nil, coaxParams(amps, nil))
	assert.ErrorIs(t, err, ErrParameter)
}

func TestFloatingIsland(t *testing.T) {
	m := twoIslands(t)
	geo, err := geometry.New(m, geometry.Materials{WireTag: 1, ShellTag: 2, MuWire: mu0, MuShell: mu0})
	require.NoError(t, err)
	ms, err := NewMSSolution(geo, coaxParams(amps, nil))
	require.NoError(t, err)
	_, err = ms.Solve()
	assert.ErrorIs(t, err, ErrFloating)
	_, err = ms.Inductance()
	assert.ErrorIs(t, err, ErrFloating)
}
