package TDEM

import (
	"fmt"

	"github.com/notargets/gotdem/utils"
)

// FieldType selects one of the two coupled unknowns of the b formulation.
type FieldType uint8

const (
	ElectricField       FieldType = iota // Lives on mesh edges
	MagneticFluxDensity                  // Lives on mesh faces
)

func (ft FieldType) String() string {
	switch ft {
	case ElectricField:
		return "e"
	case MagneticFluxDensity:
		return "b"
	}
	return fmt.Sprintf("FieldType(%d)", uint8(ft))
}

// Fields is the field history of a stepped solve, one matrix per step and
// field with one column per source. An optional initial flux can be
// seeded ahead of the first step and is reported by GetB(-1), which
// otherwise returns zeros.
type Fields struct {
	NE, NF   int
	NTx, NT  int
	E, B     []utils.Matrix
	B0       utils.Matrix
	seededB0 bool
}

func NewFields(nE, nF, nTx, nT int) (F *Fields) {
	if nE <= 0 || nF <= 0 || nTx <= 0 || nT <= 0 {
		err := fmt.Errorf("invalid field dimensions: nE,nF,nTx,nT = %v,%v,%v,%v", nE, nF, nTx, nT)
		panic(err)
	}
	F = &Fields{
		NE: nE, NF: nF,
		NTx: nTx, NT: nT,
		E: make([]utils.Matrix, nT),
		B: make([]utils.Matrix, nT),
	}
	for tInd := 0; tInd < nT; tInd++ {
		F.E[tInd] = utils.NewMatrix(nE, nTx)
		F.B[tInd] = utils.NewMatrix(nF, nTx)
	}
	return
}

// SeedB0 installs the flux the history starts from, owned by the caller
// thereafter only through GetB(-1).
func (F *Fields) SeedB0(b0 utils.Matrix) {
	F.checkShape(b0, F.NF, "initial flux")
	F.B0 = b0.Copy()
	F.seededB0 = true
}

func (F *Fields) GetE(tInd int) utils.Matrix {
	F.checkIndex(tInd, 0)
	return F.E[tInd]
}

// GetB returns the flux at step tInd. Index -1 addresses the state ahead
// of the first step, the seeded initial flux or zeros when none was set.
func (F *Fields) GetB(tInd int) utils.Matrix {
	F.checkIndex(tInd, -1)
	if tInd == -1 {
		if F.seededB0 {
			return F.B0
		}
		return utils.NewMatrix(F.NF, F.NTx)
	}
	return F.B[tInd]
}

func (F *Fields) SetE(A utils.Matrix, tInd int) {
	F.checkIndex(tInd, 0)
	F.checkShape(A, F.NE, "electric field")
	F.E[tInd] = A
}

func (F *Fields) SetB(A utils.Matrix, tInd int) {
	F.checkIndex(tInd, 0)
	F.checkShape(A, F.NF, "flux density")
	F.B[tInd] = A
}

// Get and Set dispatch on the field type.
func (F *Fields) Get(ft FieldType, tInd int) utils.Matrix {
	switch ft {
	case ElectricField:
		return F.GetE(tInd)
	case MagneticFluxDensity:
		return F.GetB(tInd)
	}
	err := fmt.Errorf("unknown field type %v", ft)
	panic(err)
}

func (F *Fields) Set(ft FieldType, A utils.Matrix, tInd int) {
	switch ft {
	case ElectricField:
		F.SetE(A, tInd)
	case MagneticFluxDensity:
		F.SetB(A, tInd)
	default:
		err := fmt.Errorf("unknown field type %v", ft)
		panic(err)
	}
}

// Vec flattens the history step by step, electric block then flux block,
// columns in source order within each block.
func (F *Fields) Vec() (v utils.Vector) {
	data := make([]float64, 0, F.NT*F.NTx*(F.NE+F.NF))
	for tInd := 0; tInd < F.NT; tInd++ {
		for j := 0; j < F.NTx; j++ {
			data = append(data, F.E[tInd].Col(j).RawVector().Data...)
		}
		for j := 0; j < F.NTx; j++ {
			data = append(data, F.B[tInd].Col(j).RawVector().Data...)
		}
	}
	v = utils.NewVector(len(data), data)
	return
}

func (F *Fields) checkIndex(tInd, min int) {
	if tInd < min || tInd >= F.NT {
		err := fmt.Errorf("time index %v out of range [%v,%v]", tInd, min, F.NT-1)
		panic(err)
	}
}

func (F *Fields) checkShape(A utils.Matrix, nr int, what string) {
	ar, ac := A.Dims()
	if ar != nr || ac != F.NTx {
		err := fmt.Errorf("%s shape %v x %v does not match %v x %v", what, ar, ac, nr, F.NTx)
		panic(err)
	}
}
