package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Thin Shell
R1: 0.001
R2: 0.004
Current: 2.5
Lz: 1.
MuRWire: 1
MuRShell: 3
EpsRShell: 2.2
Sigma: 5.8e7
Solver: cg
MeshFile: coax.msh
Groups:
  WIRE: 11
  SHELL: 12
  GND: 13
Sweep:
  Start: 1.e3
  Stop: 1.e6
  Points: 4
  Length: 10
`)
	var ip CoaxParameters
	require.NoError(t, ip.Parse(fileInput))
	assert.Equal(t, "Thin Shell", ip.Title)
	assert.Equal(t, 0.004, ip.R2)
	assert.Equal(t, "cg", ip.Solver)
	assert.Equal(t, 4, ip.Sweep.Points)
	assert.InDelta(t, 3*Mu0, ip.MuShell(), 1.e-20)
	assert.InDelta(t, 2.2*Eps0, ip.EpsShell(), 1.e-24)
	tag, err := ip.Tag("gnd")
	require.NoError(t, err)
	assert.Equal(t, 13, tag)
	assert.NoError(t, ip.Validate())
	ip.Print()
}

func TestParseOverDefaults(t *testing.T) {
	ip := Defaults()
	require.NoError(t, ip.Parse([]byte("Current: 0\nRefinement: 3\n")))
	assert.Equal(t, 0., ip.Current)
	assert.Equal(t, 3, ip.Refinement)
	assert.Equal(t, 2.e-3, ip.R1)
	assert.NoError(t, ip.Validate())
}

func TestValidate(t *testing.T) {
	ip := Defaults()
	ip.R2 = ip.R1
	ip.Sigma = 0
	delete(ip.Groups, Ground)
	err := ip.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInput))
	assert.Contains(t, err.Error(), "R2")
	assert.Contains(t, err.Error(), "Sigma")
	assert.Contains(t, err.Error(), "GND")

	_, err = ip.Tag(Ground)
	assert.ErrorIs(t, err, ErrInput)
}
