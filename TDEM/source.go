package TDEM

import (
	"math"
	"runtime"
	"sync"

	"github.com/notargets/gotdem/FV3D"
	"github.com/notargets/gotdem/utils"
)

// Mu0 is the permeability of free space in H/m.
const Mu0 = 4.e-07 * math.Pi

// VMDSource is a vertical magnetic dipole of the given moment. Its
// static flux seeds the stepping through the curl of the dipole vector
// potential sampled on edges, so the discrete initial flux is exactly
// divergence free.
type VMDSource struct {
	Loc    [3]float64
	Moment float64
}

// InitialB evaluates b0 = C a with a the edge sampled vector potential
// A = mu0 m / (4 pi r^3) * (-y, x, 0) about the dipole location.
func (s *VMDSource) InitialB(mesh *FV3D.TensorMesh) (b0 utils.Vector) {
	var (
		X     = mesh.EdgeCenters()
		a     = utils.NewVector(mesh.NE)
		coeff = Mu0 * s.Moment / (4 * math.Pi)
		aD    = a.RawVector().Data
		wg    sync.WaitGroup
		nproc = runtime.NumCPU()
	)
	if nproc > mesh.NE {
		nproc = mesh.NE
	}
	pm := utils.NewPartitionMap(nproc, mesh.NE)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			eMin, eMax := pm.GetBucketRange(np)
			for e := eMin; e < eMax; e++ {
				axis := mesh.EdgeAxis(e)
				if axis == 2 {
					continue // A has no z component
				}
				var (
					dx = X.At(e, 0) - s.Loc[0]
					dy = X.At(e, 1) - s.Loc[1]
					dz = X.At(e, 2) - s.Loc[2]
					r  = math.Sqrt(dx*dx + dy*dy + dz*dz)
				)
				if r == 0 {
					continue // Degenerate placement on an edge center
				}
				if axis == 0 {
					aD[e] = -coeff * dy / utils.POW(r, 3)
				} else {
					aD[e] = coeff * dx / utils.POW(r, 3)
				}
			}
		}(np)
	}
	wg.Wait()
	b0 = mesh.EdgeCurl.MulVec(a)
	return
}
