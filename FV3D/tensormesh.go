package FV3D

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/notargets/gotdem/utils"
)

// TensorMesh is a 3D tensor product staggered grid. Scalar coefficients
// live at cell centers, flux degrees of freedom on faces and field degrees
// of freedom on edges. Within each Cartesian component block the x index
// varies fastest, then y, then z.
type TensorMesh struct {
	Hx, Hy, Hz []float64 // Cell widths along each axis
	X0         [3]float64
	Nx, Ny, Nz int
	NC, NE, NF int
	// Per component counts, ordered x, y, z within the edge and face blocks
	NEx, NEy, NEz       int
	NFx, NFy, NFz       int
	NodeX, NodeY, NodeZ []float64
	CCx, CCy, CCz       []float64 // Cell center coordinates
	Vol                 utils.Vector
	EdgeLen             utils.Vector
	FaceArea            utils.Vector
	EdgeCurl            utils.CSR // Maps edge fields to per-face circulation densities
	EdgeCurlT           utils.CSR
	FaceDiv             utils.CSR
	AvE2CC              utils.CSR // Averages the three edge groups to cell centers
	AvF2CC              utils.CSR
	EdgeMassD           utils.CSR // Derivative of the edge mass diagonal wrt center values
	FaceMassD           utils.CSR
}

func NewTensorMesh(hx, hy, hz []float64, x0 [3]float64) (tm *TensorMesh) {
	checkWidths(hx, "x")
	checkWidths(hy, "y")
	checkWidths(hz, "z")
	var (
		nx, ny, nz = len(hx), len(hy), len(hz)
	)
	tm = &TensorMesh{
		Hx: hx, Hy: hy, Hz: hz,
		X0: x0,
		Nx: nx, Ny: ny, Nz: nz,
		NC:  nx * ny * nz,
		NEx: nx * (ny + 1) * (nz + 1),
		NEy: (nx + 1) * ny * (nz + 1),
		NEz: (nx + 1) * (ny + 1) * nz,
		NFx: (nx + 1) * ny * nz,
		NFy: nx * (ny + 1) * nz,
		NFz: nx * ny * (nz + 1),
	}
	tm.NE = tm.NEx + tm.NEy + tm.NEz
	tm.NF = tm.NFx + tm.NFy + tm.NFz
	tm.NodeX, tm.CCx = nodesAndCenters(hx, x0[0])
	tm.NodeY, tm.CCy = nodesAndCenters(hy, x0[1])
	tm.NodeZ, tm.CCz = nodesAndCenters(hz, x0[2])
	tm.assembleGeometry()
	tm.assembleOperators()
	return
}

func checkWidths(h []float64, axis string) {
	if len(h) == 0 {
		err := fmt.Errorf("no cells along axis %s", axis)
		panic(err)
	}
	for _, width := range h {
		if width <= 0 {
			err := fmt.Errorf("cell widths must be positive, got %v on axis %s", width, axis)
			panic(err)
		}
	}
}

func nodesAndCenters(h []float64, origin float64) (nodes, centers []float64) {
	nodes = make([]float64, len(h)+1)
	centers = make([]float64, len(h))
	nodes[0] = origin
	for i, width := range h {
		nodes[i+1] = nodes[i] + width
		centers[i] = nodes[i] + 0.5*width
	}
	return
}

// Linear index helpers. Each component block is indexed (i,j,k) with i
// fastest, and the y/z blocks are offset past the preceding blocks.
func (tm *TensorMesh) cIdx(i, j, k int) int { return i + tm.Nx*(j+tm.Ny*k) }
func (tm *TensorMesh) exIdx(i, j, k int) int {
	return i + tm.Nx*(j+(tm.Ny+1)*k)
}
func (tm *TensorMesh) eyIdx(i, j, k int) int {
	return tm.NEx + i + (tm.Nx+1)*(j+tm.Ny*k)
}
func (tm *TensorMesh) ezIdx(i, j, k int) int {
	return tm.NEx + tm.NEy + i + (tm.Nx+1)*(j+(tm.Ny+1)*k)
}
func (tm *TensorMesh) fxIdx(i, j, k int) int {
	return i + (tm.Nx+1)*(j+tm.Ny*k)
}
func (tm *TensorMesh) fyIdx(i, j, k int) int {
	return tm.NFx + i + tm.Nx*(j+(tm.Ny+1)*k)
}
func (tm *TensorMesh) fzIdx(i, j, k int) int {
	return tm.NFx + tm.NFy + i + tm.Nx*(j+tm.Ny*k)
}

func (tm *TensorMesh) assembleGeometry() {
	var (
		nx, ny, nz = tm.Nx, tm.Ny, tm.Nz
	)
	tm.Vol = utils.NewVector(tm.NC)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				tm.Vol.Set(tm.cIdx(i, j, k), tm.Hx[i]*tm.Hy[j]*tm.Hz[k])
			}
		}
	}
	tm.EdgeLen = utils.NewVector(tm.NE)
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i < nx; i++ {
				tm.EdgeLen.Set(tm.exIdx(i, j, k), tm.Hx[i])
			}
		}
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i <= nx; i++ {
				tm.EdgeLen.Set(tm.eyIdx(i, j, k), tm.Hy[j])
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				tm.EdgeLen.Set(tm.ezIdx(i, j, k), tm.Hz[k])
			}
		}
	}
	tm.FaceArea = utils.NewVector(tm.NF)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i <= nx; i++ {
				tm.FaceArea.Set(tm.fxIdx(i, j, k), tm.Hy[j]*tm.Hz[k])
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i < nx; i++ {
				tm.FaceArea.Set(tm.fyIdx(i, j, k), tm.Hx[i]*tm.Hz[k])
			}
		}
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				tm.FaceArea.Set(tm.fzIdx(i, j, k), tm.Hx[i]*tm.Hy[j])
			}
		}
	}
}

// EdgeCenters returns the NE x 3 matrix of edge midpoint coordinates,
// ordered like the edge degrees of freedom. Rows are filled in parallel
// partitions since production meshes carry millions of edges.
func (tm *TensorMesh) EdgeCenters() (X utils.Matrix) {
	X = utils.NewMatrix(tm.NE, 3)
	var (
		pm = utils.NewPartitionMap(parallelDegree(tm.NE), tm.NE)
		wg = sync.WaitGroup{}
	)
	for n := 0; n < pm.ParallelDegree; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(n)
			for e := kMin; e < kMax; e++ {
				x, y, z := tm.edgeCenter(e)
				X.Set(e, 0, x)
				X.Set(e, 1, y)
				X.Set(e, 2, z)
			}
		}(n)
	}
	wg.Wait()
	return
}

func (tm *TensorMesh) edgeCenter(e int) (x, y, z float64) {
	var (
		nx, ny  = tm.Nx, tm.Ny
		i, j, k int
	)
	switch {
	case e < tm.NEx:
		i = e % nx
		j = (e / nx) % (ny + 1)
		k = e / (nx * (ny + 1))
		x, y, z = tm.CCx[i], tm.NodeY[j], tm.NodeZ[k]
	case e < tm.NEx+tm.NEy:
		e -= tm.NEx
		i = e % (nx + 1)
		j = (e / (nx + 1)) % ny
		k = e / ((nx + 1) * ny)
		x, y, z = tm.NodeX[i], tm.CCy[j], tm.NodeZ[k]
	default:
		e -= tm.NEx + tm.NEy
		i = e % (nx + 1)
		j = (e / (nx + 1)) % (ny + 1)
		k = e / ((nx + 1) * (ny + 1))
		x, y, z = tm.NodeX[i], tm.NodeY[j], tm.CCz[k]
	}
	return
}

// EdgeAxis reports the Cartesian component of edge e, 0 for x, 1 for y
// and 2 for z.
func (tm *TensorMesh) EdgeAxis(e int) int {
	switch {
	case e < tm.NEx:
		return 0
	case e < tm.NEx+tm.NEy:
		return 1
	default:
		return 2
	}
}

func parallelDegree(maxIndex int) (np int) {
	np = runtime.NumCPU()
	if np > maxIndex {
		np = maxIndex
	}
	return
}
