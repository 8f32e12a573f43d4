package TDEM

import (
	"fmt"

	"github.com/notargets/gotdem/FV3D"
	"github.com/notargets/gotdem/utils"
)

// MassMatrices bundles the material matrices for one conductivity model
// together with the model dependent, dt independent operator
// combinations the stepping reuses. All masses are diagonal, stored as
// vectors.
type MassMatrices struct {
	MeSigma  utils.Vector // Edge conductivity mass
	MeSigmaI utils.Vector // Its exact inverse
	MfMui    utils.Vector // Face mass of 1/mu
	W        utils.CSR    // Df C Dei Ct Df, symmetric positive definite
	BFromE   utils.CSR    // Df C Dei
	EFromB   utils.CSR    // Dei Ct Df
}

// NewMassMatrices builds the masses for cell conductivity sigma and a
// uniform permeability mu, then forms the combinations around the edge
// curl. Df and De are the diagonal face and edge masses, Dei the inverse
// of De.
func NewMassMatrices(mesh *FV3D.TensorMesh, sigma utils.Vector, mu float64) (mm *MassMatrices) {
	if sigma.Len() != mesh.NC {
		err := fmt.Errorf("conductivity has %v values for %v cells", sigma.Len(), mesh.NC)
		panic(err)
	}
	if mu <= 0 {
		err := fmt.Errorf("permeability must be positive, have %v", mu)
		panic(err)
	}
	var (
		me  = mesh.EdgeMass(sigma)
		meI = me.Copy().Apply(func(x float64) float64 { return 1 / x })
		mf  = mesh.FaceMass(utils.NewVectorConstant(mesh.NC, 1/mu))
	)
	mm = &MassMatrices{
		MeSigma:  me,
		MeSigmaI: meI,
		MfMui:    mf,
	}
	CtDf := mesh.EdgeCurlT.ScaleCols(mf)
	mm.EFromB = CtDf.ScaleRows(meI)
	mm.BFromE = mesh.EdgeCurl.ScaleRows(mf).ScaleCols(meI)
	mm.W = mm.BFromE.MulCSR(CtDf)
	mm.W.SetReadOnly("W")
	mm.BFromE.SetReadOnly("BFromE")
	mm.EFromB.SetReadOnly("EFromB")
	return
}
