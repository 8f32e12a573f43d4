package TDEM

import (
	"fmt"
	"sync"

	"github.com/notargets/gotdem/FV3D"
	"github.com/notargets/gotdem/utils"
)

/*
Problem advances the quasi static b formulation of Maxwell's equations
with backward Euler steps. Per step, with diagonal masses Df = MfMui and
De = MeSigma and the edge curl C,

	(1/dt) (b - bPrev) + C e = 0
	Ct Df b - De e = 0

Eliminating e yields one symmetric positive definite solve per step,

	(W + Df/dt) b = (1/dt) Df bPrev,  W = Df C Dei Ct Df

and e is recovered from b afterwards. The same stepping, driven through
a second kernel, solves the lower block bidiagonal sensitivity system
used by G, SolveAh and J.
*/
type Problem struct {
	Mesh   *FV3D.TensorMesh
	Times  *TimeMesh
	Map    Mapping
	Survey *Survey
	Mu     float64
	Solver utils.LinSolver
}

func NewProblem(mesh *FV3D.TensorMesh, times *TimeMesh, mapping Mapping, survey *Survey) (c *Problem) {
	c = &Problem{
		Mesh:   mesh,
		Times:  times,
		Map:    mapping,
		Survey: survey,
		Mu:     Mu0,
		Solver: utils.Cholesky{},
	}
	return
}

// MassMatricesFor builds the material matrices for model m through the
// problem's mapping.
func (c *Problem) MassMatricesFor(m utils.Vector) *MassMatrices {
	return NewMassMatrices(c.Mesh, c.Map.Transform(m), c.Mu)
}

// GetA assembles the step matrix W + Df/dt for step tInd.
func (c *Problem) GetA(tInd int, mm *MassMatrices) utils.CSR {
	return c.getAForDt(c.Times.Dt(tInd), mm)
}

func (c *Problem) getAForDt(dt float64, mm *MassMatrices) utils.CSR {
	if mm == nil {
		panic("mass matrices have not been built")
	}
	return mm.W.PlusDiag(mm.MfMui, 1/dt)
}

// GetRHS forms the forward right hand side (1/dt) Df b for step tInd
// from the flux of the previous step. Ahead of the first step that is
// the seeded initial flux, or zero when none was seeded.
func (c *Problem) GetRHS(tInd int, mm *MassMatrices, F *Fields) utils.Matrix {
	if mm == nil {
		panic("mass matrices have not been built")
	}
	return F.GetB(tInd-1).Copy().ScaleRows(mm.MfMui).Scale(1 / c.Times.Dt(tInd))
}

// stepKernel supplies the per step right hand side and the electric
// field recovery, the two places where the forward and the sensitivity
// sweeps differ.
type stepKernel interface {
	RHS(tInd int, F *Fields) utils.Matrix
	CalcE(b utils.Matrix, tInd int) utils.Matrix
}

type forwardKernel struct {
	c  *Problem
	mm *MassMatrices
}

func (k *forwardKernel) RHS(tInd int, F *Fields) utils.Matrix {
	return k.c.GetRHS(tInd, k.mm, F)
}

func (k *forwardKernel) CalcE(b utils.Matrix, tInd int) utils.Matrix {
	return k.mm.EFromB.MulMatrix(b)
}

// sensitivityKernel steps the block system Ah y = p for a forcing
// history p. The forcing's flux block enters through Df, its electric
// block through Df C Dei, and the recovery subtracts Dei p.e.
type sensitivityKernel struct {
	c  *Problem
	mm *MassMatrices
	p  *Fields
}

func (k *sensitivityKernel) RHS(tInd int, F *Fields) utils.Matrix {
	rhs := k.mm.BFromE.MulMatrix(k.p.GetE(tInd))
	rhs.Add(k.p.GetB(tInd).Copy().ScaleRows(k.mm.MfMui))
	if tInd > 0 {
		rhs.Add(F.GetB(tInd-1).Copy().ScaleRows(k.mm.MfMui).Scale(1 / k.c.Times.Dt(tInd)))
	}
	return rhs
}

func (k *sensitivityKernel) CalcE(b utils.Matrix, tInd int) utils.Matrix {
	e := k.mm.EFromB.MulMatrix(b)
	e.Subtract(k.p.GetE(tInd).Copy().ScaleRows(k.mm.MeSigmaI))
	return e
}

// solveTimeSteps factorizes once per distinct dt, then sweeps the steps
// in order, solving for b and recovering e through the kernel.
func (c *Problem) solveTimeSteps(mm *MassMatrices, kern stepKernel, seed utils.Matrix, nTx int) (F *Fields, err error) {
	F = NewFields(c.Mesh.NE, c.Mesh.NF, nTx, c.Times.NT())
	if seed.M != nil {
		F.SeedB0(seed)
	}
	facs, err := c.factorizations(mm)
	if err != nil {
		return
	}
	for tInd := 0; tInd < c.Times.NT(); tInd++ {
		b, errStep := facs[c.Times.Dt(tInd)].Solve(kern.RHS(tInd, F))
		if errStep != nil {
			err = fmt.Errorf("time step %d: %v", tInd, errStep)
			return
		}
		F.SetB(b, tInd)
		F.SetE(kern.CalcE(b, tInd), tInd)
	}
	return
}

// factorizations prepares one factorization per distinct step width. The
// sweep itself is sequential, but the factorizations are independent and
// built concurrently.
func (c *Problem) factorizations(mm *MassMatrices) (facs map[float64]utils.Factorization, err error) {
	var (
		dts  []float64
		seen = make(map[float64]bool)
	)
	for tInd := 0; tInd < c.Times.NT(); tInd++ {
		if dt := c.Times.Dt(tInd); !seen[dt] {
			seen[dt] = true
			dts = append(dts, dt)
		}
	}
	var (
		wg   sync.WaitGroup
		fs   = make([]utils.Factorization, len(dts))
		errs = make([]error, len(dts))
	)
	for i, dt := range dts {
		wg.Add(1)
		go func(i int, dt float64) {
			defer wg.Done()
			if fs[i], errs[i] = c.Solver.Factorize(c.getAForDt(dt, mm)); errs[i] != nil {
				errs[i] = fmt.Errorf("dt = %v: %v", dt, errs[i])
			}
		}(i, dt)
	}
	wg.Wait()
	facs = make(map[float64]utils.Factorization)
	for i, dt := range dts {
		if errs[i] != nil {
			err = errs[i]
			return
		}
		facs[dt] = fs[i]
	}
	return
}

// Fields runs the forward simulation for model m. When a survey source
// is attached its static flux seeds the stepping, otherwise the history
// starts from zero.
func (c *Problem) Fields(m utils.Vector) (F *Fields, err error) {
	var (
		mm   = c.MassMatricesFor(m)
		seed utils.Matrix
	)
	if c.Survey != nil && c.Survey.Src != nil {
		b0 := c.Survey.Src.InitialB(c.Mesh)
		seed = utils.NewMatrix(c.Mesh.NF, 1, b0.RawVector().Data)
	}
	return c.solveTimeSteps(mm, &forwardKernel{c: c, mm: mm}, seed, 1)
}

// Dpred runs the forward model and projects the flux history onto the
// survey.
func (c *Problem) Dpred(m utils.Vector) (d utils.Vector, err error) {
	if c.Survey == nil {
		err = fmt.Errorf("no survey attached")
		return
	}
	F, err := c.Fields(m)
	if err != nil {
		return
	}
	return c.Survey.ProjectFields(c.Mesh, c.Times, F)
}

// G assembles the sensitivity forcing for a model perturbation v around
// fields u, per step the elementwise product of u's electric field with
// the perturbed edge conductivity mass. Only the electric block is
// forced, the flux block stays zero. When u is nil the fields of m are
// computed first.
func (c *Problem) G(m, v utils.Vector, u *Fields) (p *Fields, err error) {
	if u == nil {
		if u, err = c.Fields(m); err != nil {
			return
		}
	}
	var (
		dsig = c.Map.Deriv(m).MulVec(v)
		cvec = c.Mesh.EdgeMassD.MulVec(dsig)
	)
	p = NewFields(u.NE, u.NF, u.NTx, u.NT)
	for tInd := 0; tInd < u.NT; tInd++ {
		p.SetE(u.GetE(tInd).Copy().ScaleRows(cvec).Scale(-1), tInd)
	}
	return
}

// SolveAh solves the space time system Ah y = p for a forcing history p,
// reusing the stepping machinery under the sensitivity kernel. The flux
// history starts from zero regardless of any survey source.
func (c *Problem) SolveAh(m utils.Vector, p *Fields) (y *Fields, err error) {
	if p.NE != c.Mesh.NE || p.NF != c.Mesh.NF || p.NT != c.Times.NT() {
		errShape := fmt.Errorf("forcing sized %v edges, %v faces, %v steps does not match %v, %v, %v",
			p.NE, p.NF, p.NT, c.Mesh.NE, c.Mesh.NF, c.Times.NT())
		panic(errShape)
	}
	mm := c.MassMatricesFor(m)
	return c.solveTimeSteps(mm, &sensitivityKernel{c: c, mm: mm, p: p}, utils.Matrix{}, p.NTx)
}

// J applies the data Jacobian to a model perturbation v, the derivative
// of the projected data along v. The forcing G builds is the negative
// of the linearized residual, so the projected auxiliary solution is
// negated to restore the derivative's sign. When u is nil the fields of
// m are computed first.
func (c *Problem) J(m, v utils.Vector, u *Fields) (d utils.Vector, err error) {
	if c.Survey == nil {
		err = fmt.Errorf("no survey attached")
		return
	}
	if u == nil {
		if u, err = c.Fields(m); err != nil {
			return
		}
	}
	p, err := c.G(m, v, u)
	if err != nil {
		return
	}
	y, err := c.SolveAh(m, p)
	if err != nil {
		return
	}
	if d, err = c.Survey.ProjectFields(c.Mesh, c.Times, y); err != nil {
		return
	}
	d.Scale(-1)
	return
}

// AhVec applies the space time operator directly to a field history,
// returning per step the residuals of both equations,
//
//	f.b = (1/dt) (b - bPrev) + C e
//	f.e = Ct Df b - De e
//
// with the flux difference at the first step taken against zero.
func (c *Problem) AhVec(m utils.Vector, u *Fields) (f *Fields) {
	var (
		mm = c.MassMatricesFor(m)
	)
	f = NewFields(u.NE, u.NF, u.NTx, u.NT)
	for tInd := 0; tInd < u.NT; tInd++ {
		dt := c.Times.Dt(tInd)
		b := u.GetB(tInd).Copy().Scale(1 / dt)
		b.Add(c.Mesh.EdgeCurl.MulMatrix(u.GetE(tInd)))
		if tInd > 0 {
			b.Subtract(u.GetB(tInd-1).Copy().Scale(1 / dt))
		}
		e := c.Mesh.EdgeCurlT.MulMatrix(u.GetB(tInd).Copy().ScaleRows(mm.MfMui))
		e.Subtract(u.GetE(tInd).Copy().ScaleRows(mm.MeSigma))
		f.SetB(b, tInd)
		f.SetE(e, tInd)
	}
	return
}
