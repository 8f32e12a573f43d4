package FV3D

import (
	"fmt"

	"github.com/notargets/gotdem/utils"
)

// InterpFz builds the 1 x NF row that extracts the z component flux
// density at loc by trilinear interpolation over the lattice of z face
// centers. Locations outside the hull of that lattice are refused, they
// would need extrapolation.
func (tm *TensorMesh) InterpFz(loc [3]float64) (R utils.CSR, err error) {
	var (
		ix, iy, iz int
		wx, wy, wz float64
	)
	if ix, wx, err = bracket(tm.CCx, loc[0]); err == nil {
		if iy, wy, err = bracket(tm.CCy, loc[1]); err == nil {
			iz, wz, err = bracket(tm.NodeZ, loc[2])
		}
	}
	if err != nil {
		err = fmt.Errorf("cannot interpolate at (%v,%v,%v): %v", loc[0], loc[1], loc[2], err)
		return
	}
	D := utils.NewDOK(1, tm.NF)
	for dk := 0; dk < 2; dk++ {
		for dj := 0; dj < 2; dj++ {
			for di := 0; di < 2; di++ {
				wt := pick(wx, di) * pick(wy, dj) * pick(wz, dk)
				if wt == 0 {
					continue
				}
				D.Set(0, tm.fzIdx(ix+di, iy+dj, iz+dk), wt)
			}
		}
	}
	R = D.ToCSR()
	return
}

// bracket locates x in the sorted coordinate list, returning the left
// index and the fractional offset toward the right neighbor. The bounds
// check doubles as the degenerate single coordinate case, where only an
// exact hit passes and the offset stays zero.
func bracket(coords []float64, x float64) (i0 int, w float64, err error) {
	var (
		n = len(coords)
	)
	if x < coords[0] || x > coords[n-1] {
		err = fmt.Errorf("coordinate %v outside of [%v,%v]", x, coords[0], coords[n-1])
		return
	}
	if n == 1 {
		return
	}
	for i0 < n-2 && x > coords[i0+1] {
		i0++
	}
	w = (x - coords[i0]) / (coords[i0+1] - coords[i0])
	return
}

func pick(w float64, d int) float64 {
	if d == 0 {
		return 1 - w
	}
	return w
}
