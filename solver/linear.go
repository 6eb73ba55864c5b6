package solver

import (
	"fmt"
	"strings"

	"github.com/notargets/gocoax/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearSolver solves A x = b for a symmetric positive definite A. A failed
// solve never returns a partial x.
type LinearSolver interface {
	Solve(A utils.CSR, b []float64) (x []float64, err error)
	Name() string
}

// NewLinearSolver returns a solver by name: "cholesky", "dense" or "cg"
func NewLinearSolver(name string) (LinearSolver, error) {
	switch strings.ToLower(name) {
	case "", "cholesky":
		return Cholesky{}, nil
	case "dense":
		return DenseCholesky{}, nil
	case "cg":
		return CG{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
}

// MaxCondition is the largest condition number estimate Cholesky accepts
const MaxCondition = 1.e12

func checkSquare(A utils.CSR, b []float64) (n int, err error) {
	nr, nc := A.Dims()
	if nr != nc || len(b) != nr {
		return 0, fmt.Errorf("%w: A is %d x %d, len(b) = %d", ErrDimension, nr, nc, len(b))
	}
	if nr == 0 {
		return 0, ErrNoDOF
	}
	return nr, nil
}

// Cholesky renumbers the unknowns with RCM and factors the matrix as a
// symmetric band matrix, storage is N*(k+1) for bandwidth k
type Cholesky struct{}

func (Cholesky) Name() string { return "cholesky" }

func (Cholesky) Solve(A utils.CSR, b []float64) (x []float64, err error) {
	var (
		n    int
		chol mat.BandCholesky
	)
	if n, err = checkSquare(A, b); err != nil {
		return nil, err
	}
	var (
		inv = inversePermutation(RCM(A))
		k   = Bandwidth(A, inv)
		S   = mat.NewSymBandDense(n, k, nil)
		pb  = make([]float64, n)
	)
	A.DoNonZero(func(i, j int, v float64) {
		if pi, pj := inv[i], inv[j]; pj >= pi {
			S.SetSymBand(pi, pj, v)
		}
	})
	if ok := chol.Factorize(S); !ok {
		return nil, fmt.Errorf("%w: matrix %q is not positive definite", ErrSingular, A.Name())
	}
	if cond := chol.Cond(); cond > MaxCondition {
		return nil, fmt.Errorf("%w: condition number estimate %g", ErrSingular, cond)
	}
	for i, v := range b {
		pb[inv[i]] = v
	}
	X := mat.NewVecDense(n, nil)
	if err = chol.SolveVecTo(X, mat.NewVecDense(n, pb)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	x = make([]float64, n)
	for i := range x {
		x[i] = X.AtVec(inv[i])
	}
	return
}

// DenseCholesky factors the full dense matrix, for small systems and as a
// reference for the band solver
type DenseCholesky struct{}

func (DenseCholesky) Name() string { return "dense" }

func (DenseCholesky) Solve(A utils.CSR, b []float64) (x []float64, err error) {
	var (
		n    int
		chol mat.Cholesky
	)
	if n, err = checkSquare(A, b); err != nil {
		return nil, err
	}
	if ok := chol.Factorize(A.ToSymDense()); !ok {
		return nil, fmt.Errorf("%w: matrix %q is not positive definite", ErrSingular, A.Name())
	}
	if cond := chol.Cond(); cond > MaxCondition {
		return nil, fmt.Errorf("%w: condition number estimate %g", ErrSingular, cond)
	}
	rhs := make([]float64, len(b))
	copy(rhs, b)
	X := mat.NewVecDense(n, nil)
	if err = chol.SolveVecTo(X, mat.NewVecDense(n, rhs)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	x = make([]float64, n)
	for i := range x {
		x[i] = X.AtVec(i)
	}
	return
}

// CG is a Jacobi preconditioned conjugate gradient iteration over the
// sparse matrix. Zero values select the defaults.
type CG struct {
	Tol     float64 // relative residual, default 1e-10
	MaxIter int     // default 10*N
}

func (CG) Name() string { return "cg" }

func (cg CG) Solve(A utils.CSR, b []float64) (x []float64, err error) {
	var (
		nr      int
		tol     = cg.Tol
		maxIter = cg.MaxIter
	)
	if nr, err = checkSquare(A, b); err != nil {
		return nil, err
	}
	if tol <= 0 {
		tol = 1.e-10
	}
	if maxIter <= 0 {
		maxIter = 10 * nr
	}
	diag := make([]float64, nr)
	A.DoNonZero(func(i, j int, v float64) {
		if i == j {
			diag[i] = v
		}
	})
	for i, d := range diag {
		if !(d > 0) {
			return nil, fmt.Errorf("%w: diagonal entry %d is %g", ErrSingular, i, d)
		}
	}
	x = make([]float64, nr)
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return
	}
	var (
		r  = make([]float64, nr)
		z  = make([]float64, nr)
		p  = make([]float64, nr)
		Ap = make([]float64, nr)
	)
	copy(r, b)
	floats.DivTo(z, r, diag)
	copy(p, z)
	rz := floats.Dot(r, z)
	for it := 0; it < maxIter; it++ {
		A.MulVecTo(Ap, p)
		pAp := floats.Dot(p, Ap)
		if !(pAp > 0) {
			return nil, fmt.Errorf("%w: non positive curvature %g at iteration %d", ErrSingular, pAp, it)
		}
		alpha := rz / pAp
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)
		if floats.Norm(r, 2) <= tol*bnorm {
			return
		}
		floats.DivTo(z, r, diag)
		rzNew := floats.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew
		// p = z + beta*p
		floats.Scale(beta, p)
		floats.Add(p, z)
	}
	return nil, fmt.Errorf("%w: %d iterations, residual %g", ErrNotConverged, maxIter, floats.Norm(r, 2)/bnorm)
}
