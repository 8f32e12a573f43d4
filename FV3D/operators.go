package FV3D

import (
	"github.com/notargets/gotdem/utils"
)

func (tm *TensorMesh) assembleOperators() {
	tm.EdgeCurl = tm.buildEdgeCurl()
	tm.EdgeCurlT = tm.EdgeCurl.Transpose()
	tm.FaceDiv = tm.buildFaceDiv()
	tm.AvE2CC = tm.buildAvE2CC()
	tm.AvF2CC = tm.buildAvF2CC()
	tm.EdgeMassD = tm.AvE2CC.Transpose().ScaleCols(tm.Vol)
	tm.FaceMassD = tm.AvF2CC.Transpose().ScaleCols(tm.Vol)
}

// buildEdgeCurl assembles the NF x NE mimetic curl. Each face row is the
// boundary circulation of the edge field divided by the face area, so
// applying it to edge samples of a smooth field approximates the normal
// component of the curl at the face center. Orientations follow the right
// hand rule about each face normal.
func (tm *TensorMesh) buildEdgeCurl() utils.CSR {
	var (
		nx, ny, nz = tm.Nx, tm.Ny, tm.Nz
		D          = utils.NewDOK(tm.NF, tm.NE)
	)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i <= nx; i++ {
				f := tm.fxIdx(i, j, k)
				a := 1 / (tm.Hy[j] * tm.Hz[k])
				D.Set(f, tm.ezIdx(i, j+1, k), tm.Hz[k]*a)
				D.Set(f, tm.ezIdx(i, j, k), -tm.Hz[k]*a)
				D.Set(f, tm.eyIdx(i, j, k+1), -tm.Hy[j]*a)
				D.Set(f, tm.eyIdx(i, j, k), tm.Hy[j]*a)
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i < nx; i++ {
				f := tm.fyIdx(i, j, k)
				a := 1 / (tm.Hx[i] * tm.Hz[k])
				D.Set(f, tm.exIdx(i, j, k+1), tm.Hx[i]*a)
				D.Set(f, tm.exIdx(i, j, k), -tm.Hx[i]*a)
				D.Set(f, tm.ezIdx(i+1, j, k), -tm.Hz[k]*a)
				D.Set(f, tm.ezIdx(i, j, k), tm.Hz[k]*a)
			}
		}
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				f := tm.fzIdx(i, j, k)
				a := 1 / (tm.Hx[i] * tm.Hy[j])
				D.Set(f, tm.eyIdx(i+1, j, k), tm.Hy[j]*a)
				D.Set(f, tm.eyIdx(i, j, k), -tm.Hy[j]*a)
				D.Set(f, tm.exIdx(i, j+1, k), -tm.Hx[i]*a)
				D.Set(f, tm.exIdx(i, j, k), tm.Hx[i]*a)
			}
		}
	}
	return D.ToCSR()
}

// buildFaceDiv assembles the NC x NF divergence, net outward flux per
// unit volume. Composed with the curl it vanishes identically, which
// pins down the orientation conventions of both operators.
func (tm *TensorMesh) buildFaceDiv() utils.CSR {
	var (
		nx, ny, nz = tm.Nx, tm.Ny, tm.Nz
		D          = utils.NewDOK(tm.NC, tm.NF)
	)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := tm.cIdx(i, j, k)
				D.Set(c, tm.fxIdx(i+1, j, k), 1/tm.Hx[i])
				D.Set(c, tm.fxIdx(i, j, k), -1/tm.Hx[i])
				D.Set(c, tm.fyIdx(i, j+1, k), 1/tm.Hy[j])
				D.Set(c, tm.fyIdx(i, j, k), -1/tm.Hy[j])
				D.Set(c, tm.fzIdx(i, j, k+1), 1/tm.Hz[k])
				D.Set(c, tm.fzIdx(i, j, k), -1/tm.Hz[k])
			}
		}
	}
	return D.ToCSR()
}

// buildAvE2CC averages edge values to cell centers. Each cell touches
// four edges of each component, and the three component averages carry
// equal thirds so rows sum to one.
func (tm *TensorMesh) buildAvE2CC() utils.CSR {
	var (
		nx, ny, nz = tm.Nx, tm.Ny, tm.Nz
		D          = utils.NewDOK(tm.NC, tm.NE)
		w          = 1. / 12.
	)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := tm.cIdx(i, j, k)
				for dk := 0; dk < 2; dk++ {
					for dj := 0; dj < 2; dj++ {
						D.Set(c, tm.exIdx(i, j+dj, k+dk), w)
						D.Set(c, tm.eyIdx(i+dj, j, k+dk), w)
						D.Set(c, tm.ezIdx(i+dj, j+dk, k), w)
					}
				}
			}
		}
	}
	return D.ToCSR()
}

// buildAvF2CC averages face values to cell centers, two faces per
// component at a sixth each.
func (tm *TensorMesh) buildAvF2CC() utils.CSR {
	var (
		nx, ny, nz = tm.Nx, tm.Ny, tm.Nz
		D          = utils.NewDOK(tm.NC, tm.NF)
		w          = 1. / 6.
	)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := tm.cIdx(i, j, k)
				D.Set(c, tm.fxIdx(i, j, k), w)
				D.Set(c, tm.fxIdx(i+1, j, k), w)
				D.Set(c, tm.fyIdx(i, j, k), w)
				D.Set(c, tm.fyIdx(i, j+1, k), w)
				D.Set(c, tm.fzIdx(i, j, k), w)
				D.Set(c, tm.fzIdx(i, j, k+1), w)
			}
		}
	}
	return D.ToCSR()
}

// EdgeMass returns the diagonal lumped edge mass for the cell centered
// coefficient cc, the volume weighted average of the coefficient over the
// cells adjacent to each edge. It is linear in cc with constant derivative
// EdgeMassD.
func (tm *TensorMesh) EdgeMass(cc utils.Vector) utils.Vector {
	return tm.EdgeMassD.MulVec(cc)
}

// FaceMass is the face analogue of EdgeMass with derivative FaceMassD.
func (tm *TensorMesh) FaceMass(cc utils.Vector) utils.Vector {
	return tm.FaceMassD.MulVec(cc)
}
