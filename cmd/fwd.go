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
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/notargets/gotdem/InputParameters"

	"github.com/spf13/cobra"
)

type ModelFwd struct {
	InputFile string
	Profile   bool
}

// FwdCmd represents the fwd command
var FwdCmd = &cobra.Command{
	Use:   "fwd",
	Short: "Forward model a time domain EM sounding described in a YAML file",
	Long: `
Steps the b field forward in time for the mesh, conductivity, source and
receivers given in the input file and prints the predicted vertical flux
density at each receiver and observation time,

gotdem fwd -I sounding.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("fwd called")
		mf := &ModelFwd{}
		if mf.InputFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		mf.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processInput(mf)
		RunFwd(mf, ip)
	},
}

func processInput(mf *ModelFwd) (ip *InputParameters.TDEMParameters) {
	var (
		err error
	)
	if len(mf.InputFile) == 0 {
		err = fmt.Errorf("must supply a run description file (-I, --inputFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Halfspace Sounding"
CellsX: [{N: 10, W: 25.}]
CellsY: [{N: 10, W: 25.}]
CellsZ: [{N: 12, W: 25.}]
X0: [-125., -125., -200.]
Sigma: 0.01
SigmaBlocks:
  - {Min: [-50., -50., -100.], Max: [50., 50., -50.], Value: 0.1}
TimeSteps: [{N: 10, Dt: 1.e-5}, {N: 10, Dt: 5.e-5}]
SrcLoc: [0., 0., 0.]
SrcMoment: 1.
RxLocs: [[50., 0., 0.]]
RxTimes: [1.e-4, 2.e-4, 4.e-4]
Solver: cholesky
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(mf.InputFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.TDEMParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(FwdCmd)
	FwdCmd.Flags().StringP("inputFile", "I", "", "YAML file describing mesh, conductivity, time stepping, source and receivers")
	FwdCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the solve to the current directory")
}

func RunFwd(mf *ModelFwd, ip *InputParameters.TDEMParameters) {
	ip.Print()
	c, sigma, err := ip.Problem()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if mf.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	start := time.Now()
	d, err := c.Dpred(sigma)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("solve time: %v\n", time.Since(start))
	nd := 0
	for ri, rx := range c.Survey.Rxs {
		fmt.Printf("rx[%d] at (%v, %v, %v)\n", ri, rx.Loc[0], rx.Loc[1], rx.Loc[2])
		for _, tt := range rx.Times {
			fmt.Printf("  t = %10.4e  bz = %14.6e\n", tt, d.AtVec(nd))
			nd++
		}
	}
}
