/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/notargets/gotdem/FV3D"
	"github.com/notargets/gotdem/TDEM"
	"github.com/notargets/gotdem/utils"

	"github.com/spf13/cobra"
)

type ModelCheck struct {
	N    int
	Seed int64
}

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Self check of the stepping and sensitivity operators",
	Long: `
Builds a small internal problem, verifies that solving recovers a field
history from its applied space time operator, and tabulates the finite
difference agreement of the data Jacobian over a range of perturbation
sizes,

gotdem check -n 3`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("check called")
		mc := &ModelCheck{}
		mc.N, _ = cmd.Flags().GetInt("n")
		mc.Seed, _ = cmd.Flags().GetInt64("seed")
		RunCheck(mc)
	},
}

func init() {
	rootCmd.AddCommand(CheckCmd)
	CheckCmd.Flags().IntP("n", "n", 3, "cells per axis of the check mesh, minimum 2")
	CheckCmd.Flags().Int64P("seed", "s", 1, "seed for the random fields and model direction")
}

func RunCheck(mc *ModelCheck) {
	var (
		n = mc.N
		r = rand.New(rand.NewSource(mc.Seed))
	)
	if n < 2 {
		n = 2
	}
	var (
		hs = utils.ConstArray(n, 40)
		x0 = -20 * float64(n)
	)
	var (
		mesh = FV3D.NewTensorMesh(hs, hs, hs, [3]float64{x0, x0, x0})
		tms  = TDEM.NewTimeMesh([]TDEM.StepSpec{{Dt: 1.e-05, N: 5}})
		sv   = &TDEM.Survey{
			Src: &TDEM.VMDSource{Loc: [3]float64{0, 0, 0.5}, Moment: 1},
			Rxs: []*TDEM.RxBz{{Loc: [3]float64{20, 0, 0}, Times: []float64{2.e-05, 5.e-05}}},
		}
		c = TDEM.NewProblem(mesh, tms, &TDEM.ExpMap{N: mesh.NC}, sv)
		m = utils.NewVectorConstant(mesh.NC, math.Log(0.01))
	)
	fmt.Printf("mesh: %d x %d x %d cells, %d edges, %d faces, %d steps\n",
		n, n, n, mesh.NE, mesh.NF, tms.NT())

	u := TDEM.NewFields(mesh.NE, mesh.NF, 1, tms.NT())
	for tInd := 0; tInd < tms.NT(); tInd++ {
		u.SetE(randomMatrix(r, mesh.NE), tInd)
		u.SetB(randomMatrix(r, mesh.NF), tInd)
	}
	f := c.AhVec(m, u)
	y, err := c.SolveAh(m, f)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	diff := y.Vec().Sub(u.Vec())
	fmt.Printf("apply then solve roundtrip: |y - u| / |u| = %8.2e\n", diff.Norm()/u.Vec().Norm())

	v := utils.NewVector(mesh.NC)
	for i := 0; i < mesh.NC; i++ {
		v.Set(i, r.NormFloat64())
	}
	jv, err := c.J(m, v, nil)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	d0, err := c.Dpred(m)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("data Jacobian finite difference, |FD(h) - Jv| / |Jv|\n")
	for _, h := range utils.LogSpace(-4, -1, 7) {
		dh, errF := c.Dpred(m.Copy().Add(v.Copy().Scale(h)))
		if errF != nil {
			fmt.Printf("error: %s\n", errF.Error())
			os.Exit(1)
		}
		errV := dh.Sub(d0).Scale(1 / h).Sub(jv).Norm() / jv.Norm()
		fmt.Printf("  h = %8.2e  err = %8.2e\n", h, errV)
	}
}

func randomMatrix(r *rand.Rand, nr int) (R utils.Matrix) {
	R = utils.NewMatrix(nr, 1)
	for i := 0; i < nr; i++ {
		R.Set(i, 0, r.NormFloat64())
	}
	return
}
