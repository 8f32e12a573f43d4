package utils

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, A.RawMatrix().Data, []float64{1, 4, 2, 5, 3, 6})
	}
	// Mul
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		A := M.Mul(M.Transpose())
		assert.Equal(t, A.RawMatrix().Data, []float64{14, 32, 32, 77})
	}
	// Copy, Scale, Add, Subtract
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		})
		A := M.Copy().Scale(2)
		assert.Equal(t, A.RawMatrix().Data, []float64{2, 4, 6, 8})
		assert.Equal(t, M.RawMatrix().Data, []float64{1, 2, 3, 4})
		A.Add(M)
		assert.Equal(t, A.RawMatrix().Data, []float64{3, 6, 9, 12})
		A.Subtract(M).Subtract(M)
		assert.Equal(t, A.RawMatrix().Data, []float64{1, 2, 3, 4})
	}
	// ElMul, Apply
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		})
		A := M.Copy().ElMul(M)
		assert.Equal(t, A.RawMatrix().Data, []float64{1, 4, 9, 16})
		A.Apply(math.Sqrt)
		assert.Equal(t, A.RawMatrix().Data, []float64{1, 2, 3, 4})
	}
	// ScaleRows is a left multiply by diag(d)
	{
		M := NewMatrix(3, 2, []float64{
			1, 2,
			3, 4,
			5, 6,
		})
		d := NewVector(3, []float64{2, 0, -1})
		A := M.Copy().ScaleRows(d)
		assert.Equal(t, A.RawMatrix().Data, []float64{2, 4, 0, 0, -5, -6})
		assert.Panics(t, func() { M.Copy().ScaleRows(NewVector(2)) })
	}
	// Col, Row, Min, Max, Norm
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, M.Col(1).RawVector().Data, []float64{2, 5})
		assert.Equal(t, M.Row(1).RawVector().Data, []float64{4, 5, 6})
		assert.Equal(t, M.Col(-1).RawVector().Data, []float64{3, 6})
		assert.Equal(t, M.Min(), 1.)
		assert.Equal(t, M.Max(), 6.)
		assert.True(t, near(M.Norm(), math.Sqrt(91), 1.e-12))
	}
	// Inverse
	{
		M := NewMatrix(2, 2, []float64{
			4, 1,
			1, 3,
		})
		MInv, err := M.Inverse()
		assert.NoError(t, err)
		I := M.Mul(MInv)
		assert.True(t, nearVec(I.RawMatrix().Data, []float64{1, 0, 0, 1}, 1.e-12))
	}
	// Read only guard
	{
		M := NewMatrix(2, 2)
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 1) })
		M.SetWritable()
		M.Set(0, 0, 1)
		assert.Equal(t, M.At(0, 0), 1.)
	}
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			fmt.Printf("Diff = %v, Left[%d] = %v, Right[%d] = %v\n", math.Abs(val-b[i]), i, val, i, b[i])
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
