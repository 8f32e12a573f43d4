package TDEM

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gotdem/FV3D"
	"github.com/notargets/gotdem/utils"
)

func surveyTestMesh() *FV3D.TensorMesh {
	return FV3D.NewTensorMesh(
		[]float64{40, 40, 40},
		[]float64{40, 40, 40},
		[]float64{40, 40, 40, 40},
		[3]float64{-60, -60, -80})
}

func TestSurveyProjection(t *testing.T) {
	var (
		mesh = surveyTestMesh()
		tms  = NewTimeMesh([]StepSpec{{2., 2}})
	)
	{ // A flux constant in space and time projects to that constant at all times
		var (
			sv = &Survey{Rxs: []*RxBz{{Loc: [3]float64{0, 0, 0}, Times: []float64{0, 1, 2, 3, 4}}}}
			F  = NewFields(mesh.NE, mesh.NF, 1, tms.NT())
		)
		F.SeedB0(utils.NewMatrix(mesh.NF, 1).Apply(func(float64) float64 { return 2.5 }))
		for tInd := 0; tInd < tms.NT(); tInd++ {
			F.SetB(utils.NewMatrix(mesh.NF, 1).Apply(func(float64) float64 { return 2.5 }), tInd)
		}
		d, err := sv.ProjectFields(mesh, tms, F)
		assert.NoError(t, err)
		assert.Equal(t, 5, d.Len())
		assert.Equal(t, sv.ND(), d.Len())
		assert.True(t, nearVec([]float64{2.5, 2.5, 2.5, 2.5, 2.5}, d.RawVector().Data, 1.e-12))
	}
	{ // Time interpolation is linear between step ends and samples the seed at t = 0
		var (
			sv = &Survey{Rxs: []*RxBz{{Loc: [3]float64{0, 0, 0}, Times: []float64{0, 0.5, 2, 3}}}}
			F  = NewFields(mesh.NE, mesh.NF, 1, tms.NT())
		)
		F.SeedB0(utils.NewMatrix(mesh.NF, 1).Apply(func(float64) float64 { return 1 }))
		F.SetB(utils.NewMatrix(mesh.NF, 1).Apply(func(float64) float64 { return 3 }), 0)
		F.SetB(utils.NewMatrix(mesh.NF, 1).Apply(func(float64) float64 { return 7 }), 1)
		d, err := sv.ProjectFields(mesh, tms, F)
		assert.NoError(t, err)
		assert.True(t, nearVec([]float64{1, 1.5, 3, 5}, d.RawVector().Data, 1.e-12))
	}
	{ // Observation times outside the stepping and receivers off the mesh error
		F := NewFields(mesh.NE, mesh.NF, 1, tms.NT())
		sv := &Survey{Rxs: []*RxBz{{Loc: [3]float64{0, 0, 0}, Times: []float64{5}}}}
		_, err := sv.ProjectFields(mesh, tms, F)
		assert.Error(t, err)
		sv = &Survey{Rxs: []*RxBz{{Loc: [3]float64{500, 0, 0}, Times: []float64{1}}}}
		_, err = sv.ProjectFields(mesh, tms, F)
		assert.Error(t, err)
	}
}

func TestVMDInitialB(t *testing.T) {
	var (
		mesh = surveyTestMesh()
		src  = &VMDSource{Loc: [3]float64{0, 0, 0.5}, Moment: 1}
		b0   = src.InitialB(mesh)
	)
	{ // The seeded flux is nonzero and exactly divergence free
		assert.Equal(t, mesh.NF, b0.Len())
		assert.True(t, b0.Norm() > 0)
		div := mesh.FaceDiv.MulVec(b0)
		assert.True(t, near(div.Apply(math.Abs).Max(), 0, 1.e-18))
	}
	{ // The moment scales the flux linearly
		big := &VMDSource{Loc: src.Loc, Moment: 100}
		assert.True(t, near(big.InitialB(mesh).Norm(), 100*b0.Norm(), 1.e-12))
	}
}
