// Package plot renders radial profiles of a magnetostatic solution against
// the analytic coax field as PNG files.
package plot

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gocoax/analytic"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNoData = errors.New("plot: no data")

const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
	// points along the analytic curve
	analyticPoints = 200
)

// Profile pairs a numeric field sampled at scattered radii with its closed form
type Profile struct {
	Title, YLabel string
	Numeric       plotter.XYs
	Exact         plotter.XYs
}

// PotentialProfile builds the A_z profile from the nodal potential. The
// potential of the solver carries the axial length, so a/lz is plotted.
func PotentialProfile(radius, a []float64, lz float64, cx analytic.Coax) (pr *Profile, err error) {
	if len(radius) != len(a) || len(a) == 0 {
		return nil, fmt.Errorf("%w: %d radii, %d values", ErrNoData, len(radius), len(a))
	}
	pr = &Profile{Title: "Vector potential", YLabel: "A_z [Vs/m]"}
	pr.Numeric = make(plotter.XYs, len(a))
	for i := range a {
		pr.Numeric[i].X, pr.Numeric[i].Y = radius[i], a[i]/lz
	}
	pr.Exact = sample(cx.Az, cx.R2)
	return
}

// FluxProfile builds |B| per element at the element centroid radius
func FluxProfile(centroidRadius []float64, B [][2]float64, cx analytic.Coax) (pr *Profile, err error) {
	if len(centroidRadius) != len(B) || len(B) == 0 {
		return nil, fmt.Errorf("%w: %d radii, %d values", ErrNoData, len(centroidRadius), len(B))
	}
	pr = &Profile{Title: "Flux density", YLabel: "|B| [T]"}
	pr.Numeric = make(plotter.XYs, len(B))
	for k, b := range B {
		pr.Numeric[k].X, pr.Numeric[k].Y = centroidRadius[k], math.Hypot(b[0], b[1])
	}
	pr.Exact = sample(cx.BPhi, cx.R2)
	return
}

func sample(f func(r float64) float64, rmax float64) (xys plotter.XYs) {
	xys = make(plotter.XYs, analyticPoints)
	for i := range xys {
		r := rmax * float64(i) / float64(analyticPoints-1)
		xys[i].X, xys[i].Y = r, f(r)
	}
	return
}

// Save writes the profile, numeric values as points and the analytic curve as a line
func (pr *Profile) Save(filename string) (err error) {
	var (
		p   = plot.New()
		sc  *plotter.Scatter
		ln  *plotter.Line
		num = make(plotter.XYs, len(pr.Numeric))
	)
	copy(num, pr.Numeric)
	sort.Slice(num, func(i, j int) bool { return num[i].X < num[j].X })
	p.Title.Text = pr.Title
	p.X.Label.Text = "r [m]"
	p.Y.Label.Text = pr.YLabel
	p.Add(plotter.NewGrid())
	if sc, err = plotter.NewScatter(num); err != nil {
		return
	}
	sc.GlyphStyle.Radius = vg.Points(1.5)
	if ln, err = plotter.NewLine(pr.Exact); err != nil {
		return
	}
	ln.LineStyle.Width = vg.Points(1)
	p.Add(sc, ln)
	p.Legend.Add("FEM", sc)
	p.Legend.Add("analytic", ln)
	p.Legend.Top = true
	return p.Save(Width, Height, filename)
}
