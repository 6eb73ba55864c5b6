// Package analytic holds the closed form magnetostatic field of an ideal
// coaxial cable: a solid wire of radius R1 carrying a uniform current I,
// surrounded by a shell of permeability MuShell grounded at R2.
package analytic

import (
	"errors"
	"fmt"
	"math"
)

var ErrBadCable = errors.New("analytic: radii and permeabilities must satisfy 0 < R1 < R2, mu > 0")

type Coax struct {
	I               float64 // current [A]
	R1, R2          float64 // wire and shell radius [m]
	MuWire, MuShell float64 // permeability [H/m]
	Lz              float64 // axial length [m]
}

func (cx Coax) Validate() error {
	if !(cx.R1 > 0) || !(cx.R2 > cx.R1) || !(cx.MuWire > 0) || !(cx.MuShell > 0) {
		return fmt.Errorf("%w: %+v", ErrBadCable, cx)
	}
	return nil
}

// HPhi is the azimuthal field strength, linear inside the wire and 1/r outside
func (cx Coax) HPhi(r float64) float64 {
	if r < cx.R1 {
		return cx.I / (2 * math.Pi * cx.R1 * cx.R1) * r
	}
	return cx.I / (2 * math.Pi * r)
}

// BPhi = mu(r) * HPhi
func (cx Coax) BPhi(r float64) float64 {
	if r < cx.R1 {
		return cx.MuWire * cx.HPhi(r)
	}
	return cx.MuShell * cx.HPhi(r)
}

// Az is the axial vector potential per unit length, zero at R2
func (cx Coax) Az(r float64) float64 {
	if r < cx.R1 {
		return -cx.I / (2 * math.Pi) *
			(cx.MuWire/2*(r*r-cx.R1*cx.R1)/(cx.R1*cx.R1) + cx.MuShell*math.Log(cx.R1/cx.R2))
	}
	return -cx.MuShell * cx.I / (2 * math.Pi) * math.Log(r/cx.R2)
}

// WMag is the magnetic energy stored over the axial length,
//
//	W = I^2 Lz / (4 pi) * (MuWire/4 + MuShell ln(R2/R1))
//
// which reduces to I^2 Lz MuWire (1 + 20 ln(R2/R1)) / (16 pi) for MuShell = 5 MuWire
func (cx Coax) WMag() float64 {
	return cx.I * cx.I * cx.Lz / (4 * math.Pi) * (cx.MuWire/4 + cx.MuShell*math.Log(cx.R2/cx.R1))
}

// Inductance is 2 W / I^2 over the axial length
func (cx Coax) Inductance() float64 {
	return cx.Lz / (2 * math.Pi) * (cx.MuWire/4 + cx.MuShell*math.Log(cx.R2/cx.R1))
}
