package InputParameters

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

const (
	Mu0  = 1.25663706212e-6 // vacuum permeability [H/m]
	Eps0 = 8.8541878128e-12 // vacuum permittivity [F/m]
)

var ErrInput = errors.New("input parameters")

// Frequency sweep of the line parameters
type Sweep struct {
	Start  float64 `json:"Start"`
	Stop   float64 `json:"Stop"`
	Points int     `json:"Points"`
	Length float64 `json:"Length"` // line section length for the ABCD matrix [m]
}

// Parameters obtained from the YAML input file. Permeabilities and the
// permittivity are relative to vacuum.
type CoaxParameters struct {
	Title      string         `json:"Title"`
	R1         float64        `json:"R1"`      // wire radius [m]
	R2         float64        `json:"R2"`      // shell radius [m]
	Current    float64        `json:"Current"` // [A]
	Lz         float64        `json:"Lz"`      // axial length [m]
	MuRWire    float64        `json:"MuRWire"`
	MuRShell   float64        `json:"MuRShell"`
	EpsRShell  float64        `json:"EpsRShell"`
	Sigma      float64        `json:"Sigma"` // wire conductivity [S/m]
	Groups     map[string]int `json:"Groups"`
	Solver     string         `json:"Solver"`
	MeshFile   string         `json:"MeshFile"`
	Refinement int            `json:"Refinement"` // polar mesh refinement when no MeshFile is given
	Sweep      Sweep          `json:"Sweep"`
}

// Group names recognized in Groups
const (
	Wire   = "WIRE"
	Shell  = "SHELL"
	Ground = "GND"
)

// Defaults returns the reference cable, a 2mm copper wire inside a 3.5mm shell
func Defaults() *CoaxParameters {
	return &CoaxParameters{
		Title:      "Coax Cable",
		R1:         2.e-3,
		R2:         3.5e-3,
		Current:    16,
		Lz:         0.3,
		MuRWire:    1,
		MuRShell:   5,
		EpsRShell:  1,
		Sigma:      57.7e6,
		Groups:     map[string]int{Wire: 1, Shell: 2, Ground: 3},
		Solver:     "cholesky",
		Refinement: 8,
		Sweep:      Sweep{Start: 1.e3, Stop: 1.e9, Points: 7, Length: 1},
	}
}

func (ip *CoaxParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// MuWire, MuShell, EpsShell in SI units
func (ip *CoaxParameters) MuWire() float64   { return ip.MuRWire * Mu0 }
func (ip *CoaxParameters) MuShell() float64  { return ip.MuRShell * Mu0 }
func (ip *CoaxParameters) EpsShell() float64 { return ip.EpsRShell * Eps0 }

func (ip *CoaxParameters) Tag(group string) (tag int, err error) {
	var ok bool
	if tag, ok = ip.Groups[strings.ToUpper(group)]; !ok {
		err = fmt.Errorf("%w: no tag for group %s", ErrInput, group)
	}
	return
}

func (ip *CoaxParameters) Validate() error {
	var msgs []string
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			msgs = append(msgs, fmt.Sprintf("%s = %g must be positive", name, v))
		}
	}
	positive("R1", ip.R1)
	positive("R2", ip.R2)
	positive("Lz", ip.Lz)
	positive("MuRWire", ip.MuRWire)
	positive("MuRShell", ip.MuRShell)
	positive("EpsRShell", ip.EpsRShell)
	positive("Sigma", ip.Sigma)
	if ip.R2 <= ip.R1 {
		msgs = append(msgs, fmt.Sprintf("R2 = %g must exceed R1 = %g", ip.R2, ip.R1))
	}
	for _, g := range []string{Wire, Shell, Ground} {
		if _, err := ip.Tag(g); err != nil {
			msgs = append(msgs, fmt.Sprintf("missing group %s", g))
		}
	}
	if len(ip.MeshFile) == 0 && ip.Refinement < 1 {
		msgs = append(msgs, "either MeshFile or a Refinement >= 1 is needed")
	}
	if len(msgs) != 0 {
		return fmt.Errorf("%w: %s", ErrInput, strings.Join(msgs, "; "))
	}
	return nil
}

func (ip *CoaxParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5g\t\t= R1\n", ip.R1)
	fmt.Printf("%8.5g\t\t= R2\n", ip.R2)
	fmt.Printf("%8.5g\t\t= Current\n", ip.Current)
	fmt.Printf("%8.5g\t\t= Lz\n", ip.Lz)
	fmt.Printf("%8.5g\t\t= MuRWire\n", ip.MuRWire)
	fmt.Printf("%8.5g\t\t= MuRShell\n", ip.MuRShell)
	fmt.Printf("%8.5g\t\t= EpsRShell\n", ip.EpsRShell)
	fmt.Printf("%8.5g\t\t= Sigma\n", ip.Sigma)
	fmt.Printf("[%s]\t\t= Solver\n", ip.Solver)
	if len(ip.MeshFile) != 0 {
		fmt.Printf("[%s]\t= MeshFile\n", ip.MeshFile)
	} else {
		fmt.Printf("[%d]\t\t\t= Refinement\n", ip.Refinement)
	}
	keys := make([]string, len(ip.Groups))
	i := 0
	for k := range ip.Groups {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Groups[%s] = %d\n", key, ip.Groups[key])
	}
}
