// Package convergence runs the energy refinement study of the coax solver on
// the polar mesh and estimates the observed order of accuracy.
package convergence

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/notargets/gocoax/analytic"
	"github.com/notargets/gocoax/geometry"
	"github.com/notargets/gocoax/mesh"
	"github.com/notargets/gocoax/mesh/polar"
	"github.com/notargets/gocoax/solver"
	"gonum.org/v1/gonum/stat"
)

var ErrTooFewPoints = errors.New("convergence: at least two refinement levels are needed")

// Study holds one row per refinement level
type Study struct {
	Title      string
	Refinement []int
	NumNodes   []int
	H          []float64 // radial spacing R1/N
	Energy     []float64
	RelError   []float64
}

func NewStudy(title string) *Study {
	return &Study{Title: title}
}

func (cs *Study) Add(refinement, numNodes int, h, energy, relError float64) {
	cs.Refinement = append(cs.Refinement, refinement)
	cs.NumNodes = append(cs.NumNodes, numNodes)
	cs.H = append(cs.H, h)
	cs.Energy = append(cs.Energy, energy)
	cs.RelError = append(cs.RelError, relError)
}

func (cs *Study) Len() int { return len(cs.Refinement) }

// Order fits log(err) = c + p log(h) and returns p
func (cs *Study) Order() (p float64, err error) {
	if cs.Len() < 2 {
		return 0, ErrTooFewPoints
	}
	var (
		lh = make([]float64, cs.Len())
		le = make([]float64, cs.Len())
	)
	for i := range lh {
		if !(cs.RelError[i] > 0) {
			return 0, fmt.Errorf("convergence: relative error %g at level %d", cs.RelError[i], cs.Refinement[i])
		}
		lh[i], le[i] = math.Log(cs.H[i]), math.Log(cs.RelError[i])
	}
	_, p = stat.LinearRegression(lh, le, nil, false)
	return
}

// Run solves the cable once per refinement level and compares the stored
// energy against the closed form
func Run(cx analytic.Coax, p solver.Params, refinements []int) (cs *Study, err error) {
	if len(refinements) < 2 {
		return nil, ErrTooFewPoints
	}
	if err = cx.Validate(); err != nil {
		return
	}
	cs = NewStudy(fmt.Sprintf("R1=%g R2=%g I=%g", cx.R1, cx.R2, cx.I))
	Wa := cx.WMag()
	for _, N := range refinements {
		var (
			pm = polar.Coax{
				R1: cx.R1, R2: cx.R2, Refinement: N,
				WireTag: 1, ShellTag: 2, GroundTag: 3,
			}
			msh *mesh.Mesh
			geo *geometry.Geo
			ms  *solver.MSSolution
			W   float64
		)
		if msh, err = mesh.Create(pm); err != nil {
			return
		}
		if geo, err = geometry.New(msh, geometry.Materials{
			WireTag: pm.WireTag, ShellTag: pm.ShellTag,
			MuWire: cx.MuWire, MuShell: cx.MuShell,
		}); err != nil {
			return
		}
		p.GroundTag = pm.GroundTag
		if ms, err = solver.NewMSSolution(geo, p); err != nil {
			return
		}
		if _, err = ms.Solve(); err != nil {
			return
		}
		if W, err = ms.Energy(); err != nil {
			return
		}
		cs.Add(N, msh.NumNodes(), cx.R1/float64(N), W, math.Abs(W-Wa)/Wa)
	}
	return
}

var header = []string{"title", "refinement", "nodes", "h", "energy", "relError"}

func (cs *Study) WriteCSV(w io.Writer) (err error) {
	cw := csv.NewWriter(w)
	if err = cw.Write(header); err != nil {
		return
	}
	for i := range cs.Refinement {
		rec := []string{
			cs.Title,
			strconv.Itoa(cs.Refinement[i]),
			strconv.Itoa(cs.NumNodes[i]),
			strconv.FormatFloat(cs.H[i], 'g', -1, 64),
			strconv.FormatFloat(cs.Energy[i], 'g', -1, 64),
			strconv.FormatFloat(cs.RelError[i], 'g', -1, 64),
		}
		if err = cw.Write(rec); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV groups the rows written by WriteCSV by title
func ReadCSV(r io.Reader) (studies map[string]*Study, err error) {
	var (
		records [][]string
		cs      *Study
		ok      bool
	)
	if records, err = csv.NewReader(bufio.NewReader(r)).ReadAll(); err != nil {
		return
	}
	studies = make(map[string]*Study)
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("convergence: line %d has %d fields, want %d", i+1, len(rec), len(header))
		}
		var (
			n, nodes   int
			h, W, rerr float64
		)
		if n, err = strconv.Atoi(rec[1]); err == nil {
			nodes, err = strconv.Atoi(rec[2])
		}
		if err == nil {
			h, err = strconv.ParseFloat(rec[3], 64)
		}
		if err == nil {
			W, err = strconv.ParseFloat(rec[4], 64)
		}
		if err == nil {
			rerr, err = strconv.ParseFloat(rec[5], 64)
		}
		if err != nil {
			return nil, fmt.Errorf("convergence: line %d: %w", i+1, err)
		}
		if cs, ok = studies[rec[0]]; !ok {
			cs = NewStudy(rec[0])
			studies[rec[0]] = cs
		}
		cs.Add(n, nodes, h, W, rerr)
	}
	return
}
