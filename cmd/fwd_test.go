package cmd

import (
	"math"
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/gotdem/InputParameters"
)

func TestRunFwd(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Sounding
CellsX: [{N: 4, W: 25.}]
CellsY: [{N: 4, W: 25.}]
CellsZ: [{N: 4, W: 25.}]
X0: [-50., -50., -50.]
Sigma: 0.01
SigmaBlocks:
  - {Min: [-25., -25., -25.], Max: [25., 25., 0.], Value: 0.1}
TimeSteps: [{N: 4, Dt: 1.e-5}]
SrcLoc: [0., 0., 0.5]
SrcMoment: 1.
RxLocs: [[12.5, 0., 0.]]
RxTimes: [2.e-5]
Solver: cg
CGTol: 1.e-9
`)
	var input InputParameters.TDEMParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	// Check the mesh, conductivity and solver selections
	assert.Equal(t, input.CellsX[0].N, 4)
	assert.Equal(t, input.Sigma, 0.01)
	assert.Equal(t, input.SigmaBlocks[0].Value, 0.1)
	assert.Equal(t, input.SolverName(), "cg")
	input.Print()
	c, sigma, err := input.Problem()
	if err != nil {
		panic(err)
	}
	assert.Equal(t, c.Mesh.NC, 64)
	// The block paints the four cells whose centers it contains
	assert.Equal(t, sigma.AtVec(0), 0.01)
	assert.Equal(t, sigma.AtVec(21), 0.1)
	nBlock := 0
	for i := 0; i < sigma.Len(); i++ {
		if sigma.AtVec(i) == 0.1 {
			nBlock++
		}
	}
	assert.Equal(t, nBlock, 4)
	// A small end to end solve produces finite data
	d, err := c.Dpred(sigma)
	if err != nil {
		panic(err)
	}
	assert.Equal(t, d.Len(), 1)
	assert.Equal(t, math.IsNaN(d.AtVec(0)) || math.IsInf(d.AtVec(0), 0), false)
}
