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
	"math"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/panelyze/panelyze/InputParameters"
	"github.com/panelyze/panelyze/geometry2D"
	"github.com/panelyze/panelyze/kernels"
	"github.com/panelyze/panelyze/material"
	"github.com/panelyze/panelyze/solver"
)

type SolveRun struct {
	CaseFile string
	Profile  bool
}

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the BEM pipeline for a panel case file and report stresses",
	Long: `Run the BEM pipeline for a panel case file: discretize the boundary,
assemble the influence matrices, solve the mixed boundary condition system
under uniaxial tension, and report interior stresses at the requested
evaluation points.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		sr := &SolveRun{}
		if sr.CaseFile, err = cmd.Flags().GetString("caseFile"); err != nil {
			panic(err)
		}
		sr.Profile, _ = cmd.Flags().GetBool("profile")
		cp := processInput(sr)
		if err = RunSolve(sr, cp); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processInput(sr *SolveRun) (cp *InputParameters.CaseParameters) {
	if len(sr.CaseFile) == 0 {
		fmt.Printf("error: must supply a case file (-c, --caseFile) in YAML format\n")
		exampleFile := `
########################################
Title: "Plate with central circular hole"
Width: 10.
Height: 10.
Material:
    E1: 10.e6
    E2: 10.01e6
    Nu12: 0.33
    G12: 3.759e6
    Thickness: 1.
Cutouts:
    - CX: 5.
      CY: 5.
      R: 0.5
ElementsPerSide: 20
ElementsPerCutout: 80
AppliedTension: 1000.
EvalPoints:
    - [5., 5.51]
########################################
`
		fmt.Printf("Example case file contents:%s", exampleFile)
		os.Exit(1)
	}
	var (
		data []byte
		err  error
	)
	if data, err = ioutil.ReadFile(sr.CaseFile); err != nil {
		fmt.Printf("error reading case file %s: %s\n", sr.CaseFile, err.Error())
		os.Exit(1)
	}
	cp = &InputParameters.CaseParameters{}
	if err = cp.Parse(data); err != nil {
		fmt.Printf("error parsing case file %s: %s\n", sr.CaseFile, err.Error())
		os.Exit(1)
	}
	cp.Print()
	return
}

// RunSolve executes the pipeline built by the library packages: material ->
// kernels -> discretization -> assembly -> mixed-BC solve -> stress recovery.
func RunSolve(sr *SolveRun, cp *InputParameters.CaseParameters) (err error) {
	if sr.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	thickness := cp.Material.Thickness
	if thickness == 0 {
		thickness = 1
	}
	mat, err := material.NewOrthotropic(cp.Material.E1, cp.Material.E2,
		cp.Material.Nu12, cp.Material.G12, thickness)
	if err != nil {
		return
	}
	fmt.Printf("Material: %s\n", mat)
	ker, err := kernels.New(mat)
	if err != nil {
		return
	}

	geom := geometry2D.NewPanel(cp.Width, cp.Height)
	for _, c := range cp.Cutouts {
		geom.AddCutout(geometry2D.CircularCutout{CX: c.CX, CY: c.CY, R: c.R})
	}
	elements, err := geom.Discretize(cp.ElementsPerSide, cp.ElementsPerCutout)
	if err != nil {
		return
	}
	fmt.Printf("Discretized boundary: %d elements\n", len(elements))

	sys := solver.NewSystem(ker, elements)
	start := time.Now()
	if err = sys.Assemble(); err != nil {
		return
	}
	residual, _ := sys.RigidBodyCheck()
	fmt.Printf("Assembled %d x %d system in %v, rigid body residual %.3g\n",
		sys.NDOF(), sys.NDOF(), time.Since(start), residual)

	u, t, err := sys.Solve(uniaxialBC(elements, cp))
	if err != nil {
		return
	}
	var uMax float64
	for _, v := range u {
		uMax = math.Max(uMax, math.Abs(v))
	}
	fmt.Printf("Solved boundary state: max |u| = %.6g\n", uMax)

	if len(cp.EvalPoints) == 0 {
		return
	}
	stresses, err := sys.ComputeStress(cp.EvalPoints, u, t)
	if err != nil {
		return
	}
	farField := cp.AppliedTension / thickness
	for i, s := range stresses {
		fmt.Printf("Stress at (%g, %g): sxx = %.4f, syy = %.4f, sxy = %.4f\n",
			cp.EvalPoints[i][0], cp.EvalPoints[i][1],
			s.XX/thickness, s.YY/thickness, s.XY/thickness)
		if farField != 0 {
			fmt.Printf("  K_t = %.3f (far field %.0f)\n", s.XX/thickness/farField, farField)
		}
	}
	return
}

// uniaxialBC is the load case of the original panel scripts: traction-free
// everywhere, AppliedTension pulling +-x on the right/left edges, rigid body
// modes pinned by fixing the (0,0) corner element fully and the (W,0) corner
// element vertically.
func uniaxialBC(elements []geometry2D.Element, cp *InputParameters.CaseParameters) *solver.BC {
	var (
		bc  = solver.NewTractionBC(len(elements))
		q   = cp.AppliedTension
		tol = 1.e-09 * math.Max(cp.Width, cp.Height)
	)
	for i, el := range elements {
		if math.Abs(el.Center[0]) < tol { // left edge
			bc.SetTraction(2*i, -q)
		}
		if math.Abs(el.Center[0]-cp.Width) < tol { // right edge
			bc.SetTraction(2*i, q)
		}
	}
	bc.SetDisplacement(0, 0).SetDisplacement(1, 0)
	kBR := cp.ElementsPerSide - 1 // last element of the bottom edge, at (W,0)
	bc.SetDisplacement(2*kBR+1, 0)
	return bc
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("caseFile", "c", "", "YAML case file describing the panel")
	SolveCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}
