package TDEM

import (
	"fmt"
	"math"

	"github.com/notargets/gotdem/FV3D"
	"github.com/notargets/gotdem/utils"
)

// Mapping takes an abstract model vector to cell conductivities. Deriv is
// the Jacobian of the transform at m, sized cells x parameters.
type Mapping interface {
	Transform(m utils.Vector) utils.Vector
	Deriv(m utils.Vector) utils.CSR
	NP() int
}

// IdentityMap treats the model as conductivity directly.
type IdentityMap struct {
	N int
}

func (mp *IdentityMap) Transform(m utils.Vector) utils.Vector {
	checkModelSize(m, mp.N)
	return m.Copy()
}

func (mp *IdentityMap) Deriv(m utils.Vector) utils.CSR {
	checkModelSize(m, mp.N)
	return utils.NewDiagCSR(utils.NewVectorConstant(mp.N, 1))
}

func (mp *IdentityMap) NP() int { return mp.N }

// ExpMap models log conductivity, keeping the physical value positive for
// any real model.
type ExpMap struct {
	N int
}

func (mp *ExpMap) Transform(m utils.Vector) utils.Vector {
	checkModelSize(m, mp.N)
	return m.Copy().Apply(math.Exp)
}

func (mp *ExpMap) Deriv(m utils.Vector) utils.CSR {
	checkModelSize(m, mp.N)
	return utils.NewDiagCSR(m.Copy().Apply(math.Exp))
}

func (mp *ExpMap) NP() int { return mp.N }

// Vertical1DMap tiles a layered conductivity, one value per z level,
// across all cells of that level.
type Vertical1DMap struct {
	Mesh *FV3D.TensorMesh
}

func (mp *Vertical1DMap) Transform(m utils.Vector) (sigma utils.Vector) {
	checkModelSize(m, mp.NP())
	var (
		tm = mp.Mesh
	)
	sigma = utils.NewVector(tm.NC)
	for c := 0; c < tm.NC; c++ {
		sigma.Set(c, m.AtVec(c/(tm.Nx*tm.Ny)))
	}
	return
}

func (mp *Vertical1DMap) Deriv(m utils.Vector) utils.CSR {
	checkModelSize(m, mp.NP())
	var (
		tm = mp.Mesh
		P  = utils.NewDOK(tm.NC, tm.Nz)
	)
	for c := 0; c < tm.NC; c++ {
		P.Set(c, c/(tm.Nx*tm.Ny), 1)
	}
	return P.ToCSR()
}

func (mp *Vertical1DMap) NP() int { return mp.Mesh.Nz }

func checkModelSize(m utils.Vector, np int) {
	if m.Len() != np {
		err := fmt.Errorf("model has %v parameters, mapping expects %v", m.Len(), np)
		panic(err)
	}
}
