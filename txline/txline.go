// Package txline evaluates the telegrapher's equation closed forms for a
// uniform two conductor line described by its series resistance R,
// inductance L and shunt capacitance C.
package txline

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrFrequency = errors.New("txline: frequency must be positive")
	ErrLength    = errors.New("txline: line length must not be negative")
	ErrMaterial  = errors.New("txline: permittivity and permeability must be positive")
)

type Line struct {
	R float64 // series resistance [Ohm/m]
	L float64 // series inductance [H]
	C float64 // shunt capacitance [F]
}

func omega(f float64) (w float64, err error) {
	if !(f > 0) {
		err = fmt.Errorf("%w: %g", ErrFrequency, f)
		return
	}
	return 2 * math.Pi * f, nil
}

// Impedance Z = R + jwL
func (l Line) Impedance(f float64) (Z complex128, err error) {
	var w float64
	if w, err = omega(f); err != nil {
		return
	}
	return complex(l.R, w*l.L), nil
}

// Admittance Y = jwC
func (l Line) Admittance(f float64) (Y complex128, err error) {
	var w float64
	if w, err = omega(f); err != nil {
		return
	}
	return complex(0, w*l.C), nil
}

// CharacteristicImpedance Zc = sqrt(Z/Y)
func (l Line) CharacteristicImpedance(f float64) (Zc complex128, err error) {
	var Z, Y complex128
	if Z, Y, err = l.zy(f); err != nil {
		return
	}
	return cmplx.Sqrt(Z / Y), nil
}

// Propagation is the propagation constant sqrt(Z*Y), alpha + j*beta
func (l Line) Propagation(f float64) (gamma complex128, err error) {
	var Z, Y complex128
	if Z, Y, err = l.zy(f); err != nil {
		return
	}
	return cmplx.Sqrt(Z * Y), nil
}

func (l Line) zy(f float64) (Z, Y complex128, err error) {
	if Z, err = l.Impedance(f); err != nil {
		return
	}
	Y, err = l.Admittance(f)
	return
}

// ABCD is the chain matrix relating (V1, I1) to (V2, I2)
type ABCD [2][2]complex128

// ABCD returns the chain matrix of a line section of the given length:
//
//	| cosh(gl)      Zc sinh(gl) |
//	| sinh(gl)/Zc   cosh(gl)    |
func (l Line) ABCD(f, length float64) (T ABCD, err error) {
	if length < 0 {
		err = fmt.Errorf("%w: %g", ErrLength, length)
		return
	}
	var gamma, Zc complex128
	if gamma, err = l.Propagation(f); err != nil {
		return
	}
	if Zc, err = l.CharacteristicImpedance(f); err != nil {
		return
	}
	gl := gamma * complex(length, 0)
	ch, sh := cmplx.Cosh(gl), cmplx.Sinh(gl)
	T = ABCD{
		{ch, Zc * sh},
		{sh / Zc, ch},
	}
	return
}

func (T ABCD) Det() complex128 {
	return T[0][0]*T[1][1] - T[0][1]*T[1][0]
}

// Mul chains two sections, T followed by U
func (T ABCD) Mul(U ABCD) (R ABCD) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			R[i][j] = T[i][0]*U[0][j] + T[i][1]*U[1][j]
		}
	}
	return
}

// InputImpedance of the section terminated by the load ZL
func (T ABCD) InputImpedance(ZL complex128) complex128 {
	return (T[0][0]*ZL + T[0][1]) / (T[1][0]*ZL + T[1][1])
}

// Point holds the line parameters at one frequency
type Point struct {
	F     float64
	Z, Y  complex128
	Zc    complex128
	Gamma complex128
	T     ABCD
}

// Sweep evaluates the line at every frequency for a section of the given length
func (l Line) Sweep(freqs []float64, length float64) (pts []Point, err error) {
	pts = make([]Point, len(freqs))
	for i, f := range freqs {
		pt := Point{F: f}
		if pt.Z, pt.Y, err = l.zy(f); err != nil {
			return nil, err
		}
		if pt.Zc, err = l.CharacteristicImpedance(f); err != nil {
			return nil, err
		}
		if pt.Gamma, err = l.Propagation(f); err != nil {
			return nil, err
		}
		if pt.T, err = l.ABCD(f, length); err != nil {
			return nil, err
		}
		pts[i] = pt
	}
	return
}

// PhaseVelocity of a TEM wave v = 1/sqrt(eps*mu)
func PhaseVelocity(eps, mu float64) (v float64, err error) {
	if !(eps > 0) || !(mu > 0) {
		err = fmt.Errorf("%w: eps = %g, mu = %g", ErrMaterial, eps, mu)
		return
	}
	return 1 / math.Sqrt(eps*mu), nil
}

// Wavelength lambda = v/f
func Wavelength(f, v float64) (lambda float64, err error) {
	if !(f > 0) {
		err = fmt.Errorf("%w: %g", ErrFrequency, f)
		return
	}
	return v / f, nil
}

// LogSpace returns n frequencies spaced logarithmically from f0 to f1
func LogSpace(f0, f1 float64, n int) (freqs []float64, err error) {
	if !(f0 > 0) || !(f1 >= f0) || n < 1 {
		err = fmt.Errorf("%w: range [%g, %g] with %d points", ErrFrequency, f0, f1, n)
		return
	}
	freqs = make([]float64, n)
	if n == 1 {
		freqs[0] = f0
		return
	}
	return floats.LogSpan(freqs, f0, f1), nil
}
