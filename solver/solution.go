package solver

import (
	"fmt"
	"math"

	"github.com/notargets/gocoax/assembly"
	"github.com/notargets/gocoax/geometry"
	"github.com/notargets/gocoax/txline"
	"github.com/notargets/gocoax/utils"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Params are the physical constants and options of a magnetostatic solve
type Params struct {
	Lz        float64 // axial length [m]
	Current   float64 // drive current [A]
	R1        float64 // wire radius [m]
	Sigma     float64 // wire conductivity [S/m]
	Eps, Mu   float64 // permittivity and permeability of the dielectric
	GroundTag int     // physical group held at zero potential
	Solver    LinearSolver
}

func (p Params) validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"Lz", p.Lz}, {"R1", p.R1}, {"Sigma", p.Sigma}, {"Eps", p.Eps}, {"Mu", p.Mu},
	} {
		if !(v.val > 0) {
			return fmt.Errorf("%w: %s = %g must be positive", ErrParameter, v.name, v.val)
		}
	}
	if math.IsNaN(p.Current) || math.IsInf(p.Current, 0) {
		return fmt.Errorf("%w: Current = %g", ErrParameter, p.Current)
	}
	return nil
}

// MSSolution is the magnetostatic solution over one geometry. The assembled
// matrices are built on first use and shared by every later solve.
type MSSolution struct {
	Geo *geometry.Geo
	P   Params

	assembled bool
	knu       utils.CSR
	kd        utils.CSR // Knu with the ground rows and columns removed
	X, J      []float64
	fixed     []int
	dof       []int

	a        []float64
	solved   bool
	lInd     float64
	inductOK bool
}

func NewMSSolution(geo *geometry.Geo, p Params) (ms *MSSolution, err error) {
	if geo == nil || geo.Mesh == nil {
		return nil, fmt.Errorf("%w: no geometry", ErrParameter)
	}
	if err = p.validate(); err != nil {
		return nil, err
	}
	if p.Solver == nil {
		p.Solver = Cholesky{}
	}
	ms = &MSSolution{
		Geo: geo,
		P:   p,
		a:   make([]float64, geo.Mesh.NumNodes()),
	}
	return
}

func (ms *MSSolution) assemble() (err error) {
	if ms.assembled {
		return
	}
	msh := ms.Geo.Mesh
	if ms.knu, err = assembly.Knu(ms.Geo, ms.P.Lz); err != nil {
		return stageError(StageAssembly, err)
	}
	if ms.X, err = assembly.CurrentDistribution(msh, ms.Geo.Mat.WireTag); err != nil {
		return stageError(StageAssembly, err)
	}
	ms.J = assembly.Load(ms.X, ms.P.Current)
	if ms.fixed, err = msh.NodesInGroup(ms.P.GroundTag); err != nil {
		return stageError(StageBoundary, fmt.Errorf("%w: %v", ErrNoDirichlet, err))
	}
	if err = checkGrounded(msh, ms.fixed); err != nil {
		return stageError(StageBoundary, err)
	}
	if ms.dof, err = DOFs(msh.NumNodes(), ms.fixed); err != nil {
		return stageError(StageBoundary, err)
	}
	if ms.kd, _, err = Deflate(ms.knu, ms.J, ms.dof); err != nil {
		return stageError(StageBoundary, err)
	}
	log.WithFields(log.Fields{
		"nodes":    msh.NumNodes(),
		"elements": msh.NumElements(),
		"nnz":      ms.knu.NNZ(),
		"ground":   len(ms.fixed),
		"dofs":     len(ms.dof),
	}).Debug("assembled Knu")
	ms.assembled = true
	return
}

// solveFor solves the deflated system for the full length right hand side
// rhs and returns the inflated potential, zero on the ground nodes
func (ms *MSSolution) solveFor(rhs []float64) (a []float64, err error) {
	var (
		bd, x []float64
	)
	if bd, err = DeflateVector(rhs, ms.dof); err != nil {
		return nil, stageError(StageBoundary, err)
	}
	if x, err = ms.P.Solver.Solve(ms.kd, bd); err != nil {
		return nil, stageError(StageSolve, err)
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, stageError(StageSolve, fmt.Errorf("%w: non finite potential", ErrSingular))
		}
	}
	if a, err = Inflate(make([]float64, len(rhs)), x, ms.dof); err != nil {
		return nil, stageError(StageBoundary, err)
	}
	return
}

// Solve computes the magnetic vector potential a for the drive current. A
// failed solve leaves the previous state untouched.
func (ms *MSSolution) Solve() (a []float64, err error) {
	if err = ms.assemble(); err != nil {
		return
	}
	if a, err = ms.solveFor(ms.J); err != nil {
		return
	}
	ms.a, ms.solved = a, true
	log.WithFields(log.Fields{
		"solver":  ms.P.Solver.Name(),
		"current": ms.P.Current,
		"max|a|":  floats.Norm(a, math.Inf(1)),
	}).Debug("solved vector potential")
	return ms.A(), nil
}

func (ms *MSSolution) IsSolved() bool { return ms.solved }

// A returns a copy of the potential, all zero before Solve
func (ms *MSSolution) A() []float64 {
	out := make([]float64, len(ms.a))
	copy(out, ms.a)
	return out
}

// Knu returns the assembled read only stiffness matrix
func (ms *MSSolution) Knu() (K utils.CSR, err error) {
	if err = ms.assemble(); err != nil {
		return
	}
	return ms.knu, nil
}

// CurrentDistribution returns a copy of X, the nodal distribution of a unit current
func (ms *MSSolution) CurrentDistribution() (X []float64, err error) {
	if err = ms.assemble(); err != nil {
		return
	}
	X = make([]float64, len(ms.X))
	copy(X, ms.X)
	return
}

// FluxDensity returns (Bx, By) per element from the gradient of the linear
// shape functions, Bx = sum(c_i a_i)/(2 S lz), By = -sum(b_i a_i)/(2 S lz)
func (ms *MSSolution) FluxDensity() (B [][2]float64, err error) {
	if !ms.solved {
		return nil, stageError(StagePostprocess, ErrNotSolved)
	}
	msh := ms.Geo.Mesh
	B = make([][2]float64, msh.NumElements())
	for k := range B {
		var (
			a, b, c = msh.ShapeCoefficients(k)
			nodes   = msh.Element(k)
			bx, by  float64
		)
		// a_1 + a_2 + a_3 = 2S, signed by the winding
		den := (a[0] + a[1] + a[2]) * ms.P.Lz
		for i, n := range nodes {
			bx += c[i] * ms.a[n]
			by -= b[i] * ms.a[n]
		}
		B[k] = [2]float64{bx / den, by / den}
	}
	return
}

// Energy is the stored magnetic energy 0.5 a^T Knu a
func (ms *MSSolution) Energy() (W float64, err error) {
	if !ms.solved {
		return 0, stageError(StagePostprocess, ErrNotSolved)
	}
	Ka := make([]float64, len(ms.a))
	ms.knu.MulVecTo(Ka, ms.a)
	return 0.5 * floats.Dot(ms.a, Ka), nil
}

// Inductance solves Knu a_X = X for the unit current distribution and
// returns X . a_X
func (ms *MSSolution) Inductance() (L float64, err error) {
	if ms.inductOK {
		return ms.lInd, nil
	}
	if err = ms.assemble(); err != nil {
		return
	}
	var aX []float64
	if aX, err = ms.solveFor(ms.X); err != nil {
		return
	}
	if L = floats.Dot(ms.X, aX); !(L > 0) {
		return 0, stageError(StagePostprocess, fmt.Errorf("%w: inductance %g", ErrSingular, L))
	}
	ms.lInd, ms.inductOK = L, true
	log.WithField("L", L).Debug("computed inductance")
	return
}

// Capacitance from the TEM relation C = eps*mu/L
func (ms *MSSolution) Capacitance() (C float64, err error) {
	var L float64
	if L, err = ms.Inductance(); err != nil {
		return
	}
	return ms.P.Eps * ms.P.Mu / L, nil
}

// Resistance is the DC resistance of the solid wire, 1/(sigma*pi*r1^2)
func (ms *MSSolution) Resistance() float64 {
	return 1 / (ms.P.Sigma * math.Pi * ms.P.R1 * ms.P.R1)
}

// LineParameters collects R, L and C for the frequency domain line model
func (ms *MSSolution) LineParameters() (line txline.Line, err error) {
	if line.L, err = ms.Inductance(); err != nil {
		return
	}
	if line.C, err = ms.Capacitance(); err != nil {
		return
	}
	line.R = ms.Resistance()
	return
}
