package solver

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/notargets/gocoax/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearSolvers(t *testing.T) {
	var (
		A = denseCSR([][]float64{
			{4, 1, 0},
			{1, 3, 1},
			{0, 1, 2},
		})
		x0 = []float64{1, -2, 0.5}
		b  = make([]float64, 3)
	)
	A.MulVecTo(b, x0)
	for _, name := range []string{"cholesky", "dense", "CG", ""} {
		ls, err := NewLinearSolver(name)
		require.NoError(t, err)
		x, err := ls.Solve(A, b)
		require.NoError(t, err, ls.Name())
		assert.InDeltaSlice(t, x0, x, 1.e-9, ls.Name())

		x, err = ls.Solve(A, make([]float64, 3))
		require.NoError(t, err)
		assert.Equal(t, make([]float64, 3), x)

		_, err = ls.Solve(A, b[:2])
		assert.ErrorIs(t, err, ErrDimension)
	}
	_, err := NewLinearSolver("lu")
	assert.ErrorIs(t, err, ErrUnknownSolver)
}

func TestSingular(t *testing.T) {
	// Laplacian of a free two node bar
	free := denseCSR([][]float64{
		{1, -1},
		{-1, 1},
	})
	x, err := Cholesky{}.Solve(free, []float64{1, -1})
	assert.ErrorIs(t, err, ErrSingular)
	assert.Nil(t, x)

	zeroDiag := denseCSR([][]float64{
		{1, 0},
		{0, 0},
	})
	x, err = CG{}.Solve(zeroDiag, []float64{1, 1})
	assert.ErrorIs(t, err, ErrSingular)
	assert.Nil(t, x)
	_, err = Cholesky{}.Solve(zeroDiag, []float64{1, 1})
	assert.ErrorIs(t, err, ErrSingular)
}

func TestCGNotConverged(t *testing.T) {
	A := denseCSR([][]float64{
		{4, 1, 0},
		{1, 3, 1},
		{0, 1, 2},
	})
	x, err := CG{MaxIter: 1, Tol: 1.e-14}.Solve(A, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Nil(t, x)
}

// Laplacian of a path whose nodes are numbered in a shuffled order
func shuffledPath(n int, seed int64) (A utils.CSR, order []int) {
	order = rand.New(rand.NewSource(seed)).Perm(n)
	T := utils.NewTriplet(n, n, 3*n)
	for k := 0; k < n; k++ {
		T.Put(order[k], order[k], 2)
		if k+1 < n {
			T.Put(order[k], order[k+1], -1)
			T.Put(order[k+1], order[k], -1)
		}
	}
	return T.ToCSR(), order
}

func TestRCM(t *testing.T) {
	A, _ := shuffledPath(40, 7)
	perm := RCM(A)
	sorted := append([]int(nil), perm...)
	sort.Ints(sorted)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}
	assert.Greater(t, Bandwidth(A, nil), 1)
	assert.Equal(t, 1, Bandwidth(A, inversePermutation(perm)))

	// Two components are numbered one after the other
	B := denseCSR([][]float64{
		{2, 0, -1, 0},
		{0, 2, 0, -1},
		{-1, 0, 2, 0},
		{0, -1, 0, 2},
	})
	assert.Equal(t, 1, Bandwidth(B, inversePermutation(RCM(B))))
}

func TestBandCholesky(t *testing.T) {
	A, _ := shuffledPath(50, 3)
	b := make([]float64, 50)
	for i := range b {
		b[i] = float64(i%7) - 3
	}
	xd, err := DenseCholesky{}.Solve(A, b)
	require.NoError(t, err)
	xb, err := Cholesky{}.Solve(A, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, xd, xb, 1.e-9)

	// The deflated coax system
	ms, err := NewMSSolution(coaxGeo(t, 6), coaxParams(amps, nil))
	require.NoError(t, err)
	require.NoError(t, ms.assemble())
	J := ms.J
	bd := make([]float64, len(ms.dof))
	for ii, i := range ms.dof {
		bd[ii] = J[i]
	}
	xd, err = DenseCholesky{}.Solve(ms.kd, bd)
	require.NoError(t, err)
	xb, err = Cholesky{}.Solve(ms.kd, bd)
	require.NoError(t, err)
	xc, err := CG{Tol: 1.e-13}.Solve(ms.kd, bd)
	require.NoError(t, err)
	for i := range xd {
		assert.InDelta(t, xd[i], xb[i], 1.e-9*math.Abs(xd[i])+1.e-18)
		assert.InDelta(t, xd[i], xc[i], 1.e-7*math.Abs(xd[i])+1.e-18)
	}
	n, _ := ms.kd.Dims()
	assert.Less(t, Bandwidth(ms.kd, inversePermutation(RCM(ms.kd))), n/4)
}
