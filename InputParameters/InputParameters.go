package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gotdem/FV3D"
	"github.com/notargets/gotdem/TDEM"
	"github.com/notargets/gotdem/utils"
)

// CellGroup requests N cells of width W along one axis.
type CellGroup struct {
	N int     `yaml:"N"`
	W float64 `yaml:"W"`
}

// StepGroup requests N time steps of width Dt.
type StepGroup struct {
	N  int     `yaml:"N"`
	Dt float64 `yaml:"Dt"`
}

// Block overrides the background conductivity inside an axis aligned box.
type Block struct {
	Min   [3]float64 `yaml:"Min"`
	Max   [3]float64 `yaml:"Max"`
	Value float64    `yaml:"Value"`
}

// Parameters obtained from the YAML input file
type TDEMParameters struct {
	Title       string       `yaml:"Title"`
	CellsX      []CellGroup  `yaml:"CellsX"`
	CellsY      []CellGroup  `yaml:"CellsY"`
	CellsZ      []CellGroup  `yaml:"CellsZ"`
	X0          [3]float64   `yaml:"X0"`
	Sigma       float64      `yaml:"Sigma"` // Background conductivity
	SigmaBlocks []Block      `yaml:"SigmaBlocks"`
	Mu          float64      `yaml:"Mu"` // Zero selects free space
	TimeSteps   []StepGroup  `yaml:"TimeSteps"`
	SrcLoc      [3]float64   `yaml:"SrcLoc"`
	SrcMoment   float64      `yaml:"SrcMoment"`
	RxLocs      [][3]float64 `yaml:"RxLocs"`
	RxTimes     []float64    `yaml:"RxTimes"`
	Solver      string       `yaml:"Solver"` // cholesky (default) or cg
	CGTol       float64      `yaml:"CGTol"`
	CGMaxIter   int          `yaml:"CGMaxIter"`
}

func (ip *TDEMParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *TDEMParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%d x %d x %d\t\t= Cells\n", countCells(ip.CellsX), countCells(ip.CellsY), countCells(ip.CellsZ))
	fmt.Printf("%8.5f\t\t= Sigma\n", ip.Sigma)
	for i, blk := range ip.SigmaBlocks {
		fmt.Printf("SigmaBlocks[%d] = %v\n", i, blk)
	}
	fmt.Printf("[%d]\t\t\t= Time Steps\n", countSteps(ip.TimeSteps))
	fmt.Printf("%v\t\t= SrcLoc\n", ip.SrcLoc)
	fmt.Printf("%8.5f\t\t= SrcMoment\n", ip.SrcMoment)
	fmt.Printf("[%d]\t\t\t= Receivers\n", len(ip.RxLocs))
	fmt.Printf("[%s]\t\t= Solver\n", ip.SolverName())
}

func countCells(groups []CellGroup) (n int) {
	for _, g := range groups {
		n += g.N
	}
	return
}

func countSteps(groups []StepGroup) (n int) {
	for _, g := range groups {
		n += g.N
	}
	return
}

func expandWidths(groups []CellGroup) (h []float64, err error) {
	for _, g := range groups {
		if g.N <= 0 || g.W <= 0 {
			err = fmt.Errorf("invalid cell group, %v cells of width %v", g.N, g.W)
			return
		}
		for i := 0; i < g.N; i++ {
			h = append(h, g.W)
		}
	}
	if len(h) == 0 {
		err = fmt.Errorf("no cells specified")
	}
	return
}

// Mesh expands the per axis cell groups into the tensor mesh.
func (ip *TDEMParameters) Mesh() (mesh *FV3D.TensorMesh, err error) {
	var hx, hy, hz []float64
	if hx, err = expandWidths(ip.CellsX); err != nil {
		err = fmt.Errorf("CellsX: %v", err)
		return
	}
	if hy, err = expandWidths(ip.CellsY); err != nil {
		err = fmt.Errorf("CellsY: %v", err)
		return
	}
	if hz, err = expandWidths(ip.CellsZ); err != nil {
		err = fmt.Errorf("CellsZ: %v", err)
		return
	}
	mesh = FV3D.NewTensorMesh(hx, hy, hz, ip.X0)
	return
}

// Conductivity paints the background value over the mesh, then each block
// in order over the cells whose center it contains.
func (ip *TDEMParameters) Conductivity(mesh *FV3D.TensorMesh) (sigma utils.Vector, err error) {
	if ip.Sigma <= 0 {
		err = fmt.Errorf("background conductivity must be positive, have %v", ip.Sigma)
		return
	}
	sigma = utils.NewVectorConstant(mesh.NC, ip.Sigma)
	for bi, blk := range ip.SigmaBlocks {
		if blk.Value <= 0 {
			err = fmt.Errorf("SigmaBlocks[%d] value must be positive, have %v", bi, blk.Value)
			return
		}
		cc := 0
		for k := 0; k < mesh.Nz; k++ {
			for j := 0; j < mesh.Ny; j++ {
				for i := 0; i < mesh.Nx; i++ {
					if inBlock(blk, mesh.CCx[i], mesh.CCy[j], mesh.CCz[k]) {
						sigma.Set(cc, blk.Value)
					}
					cc++
				}
			}
		}
	}
	return
}

func inBlock(blk Block, x, y, z float64) bool {
	return x >= blk.Min[0] && x <= blk.Max[0] &&
		y >= blk.Min[1] && y <= blk.Max[1] &&
		z >= blk.Min[2] && z <= blk.Max[2]
}

// Steps converts the step groups for the time mesh.
func (ip *TDEMParameters) Steps() (specs []TDEM.StepSpec, err error) {
	for _, g := range ip.TimeSteps {
		if g.N <= 0 || g.Dt <= 0 {
			err = fmt.Errorf("invalid time step group, %v steps of dt = %v", g.N, g.Dt)
			return
		}
		specs = append(specs, TDEM.StepSpec{Dt: g.Dt, N: g.N})
	}
	if len(specs) == 0 {
		err = fmt.Errorf("no time steps specified")
	}
	return
}

func (ip *TDEMParameters) SolverName() string {
	if ip.Solver == "" {
		return "cholesky"
	}
	return ip.Solver
}

// LinSolver selects the per step solver named in the input.
func (ip *TDEMParameters) LinSolver() (s utils.LinSolver, err error) {
	switch ip.SolverName() {
	case "cholesky":
		s = utils.Cholesky{}
	case "cg":
		s = utils.ConjugateGradient{Tol: ip.CGTol, MaxIter: ip.CGMaxIter}
	default:
		err = fmt.Errorf("unknown solver [%s], valid are cholesky, cg", ip.Solver)
	}
	return
}

// Problem assembles the forward problem and its conductivity model from
// the input. The model drives an identity mapping, conductivities are
// given directly in the file.
func (ip *TDEMParameters) Problem() (c *TDEM.Problem, sigma utils.Vector, err error) {
	mesh, err := ip.Mesh()
	if err != nil {
		return
	}
	if sigma, err = ip.Conductivity(mesh); err != nil {
		return
	}
	specs, err := ip.Steps()
	if err != nil {
		return
	}
	if ip.SrcMoment == 0 {
		err = fmt.Errorf("SrcMoment must be nonzero")
		return
	}
	if len(ip.RxLocs) == 0 || len(ip.RxTimes) == 0 {
		err = fmt.Errorf("at least one receiver location and time are required")
		return
	}
	survey := &TDEM.Survey{
		Src: &TDEM.VMDSource{Loc: ip.SrcLoc, Moment: ip.SrcMoment},
	}
	for _, loc := range ip.RxLocs {
		survey.Rxs = append(survey.Rxs, &TDEM.RxBz{Loc: loc, Times: ip.RxTimes})
	}
	c = TDEM.NewProblem(mesh, TDEM.NewTimeMesh(specs), &TDEM.IdentityMap{N: mesh.NC}, survey)
	if ip.Mu > 0 {
		c.Mu = ip.Mu
	}
	if c.Solver, err = ip.LinSolver(); err != nil {
		return
	}
	return
}
