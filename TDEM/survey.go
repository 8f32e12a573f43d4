package TDEM

import (
	"fmt"

	"github.com/notargets/gotdem/FV3D"
	"github.com/notargets/gotdem/utils"
)

// RxBz measures the vertical flux density at a point for a list of
// observation times.
type RxBz struct {
	Loc   [3]float64
	Times []float64
}

func (rx *RxBz) ND() int { return len(rx.Times) }

// Survey pairs one source with its receivers.
type Survey struct {
	Src *VMDSource
	Rxs []*RxBz
}

func (sv *Survey) ND() (nd int) {
	for _, rx := range sv.Rxs {
		nd += rx.ND()
	}
	return
}

// ProjectFields maps a field history onto the survey data, interpolating
// the flux trilinearly in space over the vertical faces and linearly in
// time between step ends. Observation times run from 0, where the seeded
// initial flux is sampled, to the end of the stepping. Data are ordered
// receiver major, then time, then source column.
func (sv *Survey) ProjectFields(mesh *FV3D.TensorMesh, times *TimeMesh, F *Fields) (d utils.Vector, err error) {
	var (
		data = make([]float64, 0, sv.ND()*F.NTx)
		q    utils.CSR
	)
	for _, rx := range sv.Rxs {
		if q, err = mesh.InterpFz(rx.Loc); err != nil {
			return
		}
		for _, t := range rx.Times {
			var (
				tInd int
				w    float64
			)
			if tInd, w, err = times.Bracket(t); err != nil {
				return
			}
			var (
				bLo = q.MulMatrix(F.GetB(tInd-1))
				bHi = q.MulMatrix(F.GetB(tInd))
			)
			for j := 0; j < F.NTx; j++ {
				data = append(data, (1-w)*bLo.At(0, j) + w*bHi.At(0, j))
			}
		}
	}
	d = utils.NewVector(len(data), data)
	return
}
