package TDEM

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gotdem/utils"
)

func TestFields(t *testing.T) {
	{ // An unseeded history reports zero flux ahead of the first step
		F := NewFields(4, 3, 2, 5)
		bm1 := F.GetB(-1)
		nr, nc := bm1.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 2, nc)
		assert.True(t, near(bm1.Norm(), 0, 1.e-15))
	}
	{ // Seeding installs the initial flux behind GetB(-1)
		F := NewFields(4, 3, 2, 5)
		b0 := utils.NewMatrix(3, 2, []float64{1, 2, 3, 4, 5, 6})
		F.SeedB0(b0)
		assert.True(t, near(F.GetB(-1).At(2, 1), 6, 1.e-15))
		// The seed is copied, later writes to the argument do not leak in
		b0.Set(2, 1, 100)
		assert.True(t, near(F.GetB(-1).At(2, 1), 6, 1.e-15))
	}
	{ // Typed get and set dispatch to the matching store
		F := NewFields(4, 3, 1, 2)
		e := utils.NewMatrix(4, 1, []float64{1, 2, 3, 4})
		b := utils.NewMatrix(3, 1, []float64{5, 6, 7})
		F.Set(ElectricField, e, 1)
		F.Set(MagneticFluxDensity, b, 0)
		assert.True(t, near(F.Get(ElectricField, 1).At(3, 0), 4, 1.e-15))
		assert.True(t, near(F.Get(MagneticFluxDensity, 0).At(2, 0), 7, 1.e-15))
		assert.Equal(t, "e", ElectricField.String())
		assert.Equal(t, "b", MagneticFluxDensity.String())
	}
	{ // Vec stacks e then b per step, columns in source order
		F := NewFields(2, 1, 2, 2)
		F.SetE(utils.NewMatrix(2, 2, []float64{1, 2, 3, 4}), 0)
		F.SetB(utils.NewMatrix(1, 2, []float64{5, 6}), 0)
		F.SetE(utils.NewMatrix(2, 2, []float64{7, 8, 9, 10}), 1)
		F.SetB(utils.NewMatrix(1, 2, []float64{11, 12}), 1)
		v := F.Vec()
		assert.Equal(t, 12, v.Len())
		assert.True(t, nearVec([]float64{1, 3, 2, 4, 5, 6, 7, 9, 8, 10, 11, 12}, v.RawVector().Data, 1.e-15))
	}
	{ // Shape and index misuse panics
		F := NewFields(4, 3, 1, 2)
		assert.Panics(t, func() { F.SetE(utils.NewMatrix(3, 1), 0) })
		assert.Panics(t, func() { F.SetB(utils.NewMatrix(3, 2), 0) })
		assert.Panics(t, func() { F.GetE(-1) })
		assert.Panics(t, func() { F.GetB(2) })
		assert.Panics(t, func() { F.GetB(-2) })
		assert.Panics(t, func() { F.SeedB0(utils.NewMatrix(4, 1)) })
		assert.Panics(t, func() { NewFields(0, 3, 1, 2) })
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
