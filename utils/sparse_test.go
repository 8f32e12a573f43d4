package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparse(t *testing.T) {
	// DOK assembly to CSR preserves entries
	{
		D := NewDOK(2, 3)
		D.Set(0, 0, 1).Set(0, 2, 2).Set(1, 1, 3)
		A := D.ToCSR()
		assert.Equal(t, A.At(0, 0), 1.)
		assert.Equal(t, A.At(0, 2), 2.)
		assert.Equal(t, A.At(1, 1), 3.)
		assert.Equal(t, A.At(1, 0), 0.)
		assert.Panics(t, func() { D.Set(2, 0, 1) })
	}
	// MulVec against a dense reference
	{
		A := testCSR(2, 3, []float64{
			1, 0, 2,
			0, -3, 0,
		})
		v := NewVector(3, []float64{1, 2, 3})
		assert.True(t, nearVec(A.MulVec(v).RawVector().Data, []float64{7, -6}, 1.e-12))
		assert.Panics(t, func() { A.MulVec(NewVector(2)) })
	}
	// MulMatrix multiplies every column
	{
		A := testCSR(2, 3, []float64{
			1, 0, 2,
			0, -3, 0,
		})
		B := NewMatrix(3, 2, []float64{
			1, 4,
			2, 5,
			3, 6,
		})
		R := A.MulMatrix(B)
		assert.True(t, nearVec(R.RawMatrix().Data, []float64{7, 16, -6, -15}, 1.e-12))
	}
	// MulCSR against the dense product
	{
		A := testCSR(2, 3, []float64{
			1, 0, 2,
			0, -3, 0,
		})
		B := testCSR(3, 2, []float64{
			1, 4,
			0, 5,
			3, 0,
		})
		R := A.MulCSR(B)
		Ref := A.ToDense().Mul(B.ToDense())
		assert.True(t, nearVec(R.ToDense().RawMatrix().Data, Ref.RawMatrix().Data, 1.e-12))
	}
	// Transpose round trip
	{
		A := testCSR(2, 3, []float64{
			1, 0, 2,
			0, -3, 0,
		})
		At := A.Transpose()
		nr, nc := At.Dims()
		assert.Equal(t, nr, 3)
		assert.Equal(t, nc, 2)
		assert.True(t, nearVec(At.Transpose().ToDense().RawMatrix().Data,
			A.ToDense().RawMatrix().Data, 1.e-15))
		assert.Equal(t, At.At(2, 0), 2.)
	}
	// ScaleRows, ScaleCols
	{
		A := testCSR(2, 2, []float64{
			1, 2,
			3, 4,
		})
		d := NewVector(2, []float64{2, -1})
		assert.True(t, nearVec(A.ScaleRows(d).ToDense().RawMatrix().Data,
			[]float64{2, 4, -3, -4}, 1.e-15))
		assert.True(t, nearVec(A.ScaleCols(d).ToDense().RawMatrix().Data,
			[]float64{2, -2, 6, -4}, 1.e-15))
	}
	// PlusDiag adds to both stored and unstored diagonal entries
	{
		A := testCSR(2, 2, []float64{
			1, 2,
			3, 0,
		})
		d := NewVector(2, []float64{10, 20})
		R := A.PlusDiag(d, 0.5)
		assert.True(t, nearVec(R.ToDense().RawMatrix().Data,
			[]float64{6, 2, 3, 10}, 1.e-15))
	}
	// NewDiagCSR
	{
		D := NewDiagCSR(NewVector(3, []float64{1, 2, 3}))
		assert.True(t, nearVec(D.ToDense().RawMatrix().Data,
			[]float64{1, 0, 0, 0, 2, 0, 0, 0, 3}, 1.e-15))
	}
	// Read only guard
	{
		A := testCSR(2, 2, []float64{1, 0, 0, 1})
		A.SetReadOnly("A")
		_ = A.MulVec(NewVector(2, []float64{1, 1})) // Reads stay legal
	}
}

// testCSR builds a CSR from a dense row-major layout, skipping zeros.
func testCSR(nr, nc int, data []float64) CSR {
	D := NewDOK(nr, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if val := data[j+i*nc]; val != 0 {
				D.Set(i, j, val)
			}
		}
	}
	return D.ToCSR()
}
