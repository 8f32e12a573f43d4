package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinSolver prepares a symmetric positive definite system for repeated
// solves against many right hand sides.
type LinSolver interface {
	Factorize(A CSR) (Factorization, error)
}

// Factorization solves the prepared system. Solve treats each column of B
// as an independent right hand side.
type Factorization interface {
	Solve(B Matrix) (Matrix, error)
	SolveVec(b Vector) (Vector, error)
}

// Cholesky factors the system densely via gonum. The off diagonal halves
// are averaged when loading, so a symmetric sparse input is reproduced
// exactly.
type Cholesky struct{}

func (c Cholesky) Factorize(A CSR) (f Factorization, err error) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		err := fmt.Errorf("cannot factorize a non-square matrix, nr,nc = %v,%v", nr, nc)
		panic(err)
	}
	S := mat.NewSymDense(nr, nil)
	A.DoNonZero(func(i, j int, val float64) {
		if j < i {
			return
		}
		S.SetSym(i, j, 0.5*(val+A.At(j, i)))
	})
	chol := &mat.Cholesky{}
	if ok := chol.Factorize(S); !ok {
		err = fmt.Errorf("unable to factorize, matrix is not positive definite")
		return
	}
	f = &cholFactorization{chol: chol}
	return
}

type cholFactorization struct {
	chol *mat.Cholesky
}

func (cf *cholFactorization) Solve(B Matrix) (X Matrix, err error) {
	var (
		nr, nc = B.Dims()
	)
	X = NewMatrix(nr, nc)
	if err = cf.chol.SolveTo(X.M, B.M); err != nil {
		err = fmt.Errorf("cholesky solve failed: %v", err)
	}
	return
}

func (cf *cholFactorization) SolveVec(b Vector) (x Vector, err error) {
	x = NewVector(b.Len())
	if err = cf.chol.SolveVecTo(x.V, b.V); err != nil {
		err = fmt.Errorf("cholesky solve failed: %v", err)
	}
	return
}

// ConjugateGradient solves iteratively using the sparse operator directly,
// trading factorization cost for per-solve iterations. Zero values select
// the defaults.
type ConjugateGradient struct {
	Tol     float64 // Relative residual target, default 1.e-10
	MaxIter int     // Default 10x the system dimension
}

func (c ConjugateGradient) Factorize(A CSR) (f Factorization, err error) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		err := fmt.Errorf("cannot factorize a non-square matrix, nr,nc = %v,%v", nr, nc)
		panic(err)
	}
	var (
		tol     = c.Tol
		maxIter = c.MaxIter
	)
	if tol == 0 {
		tol = 1.e-10
	}
	if maxIter == 0 {
		maxIter = 10 * nr
	}
	f = &cgSystem{A: A, tol: tol, maxIter: maxIter}
	return
}

type cgSystem struct {
	A       CSR
	tol     float64
	maxIter int
}

func (s *cgSystem) Solve(B Matrix) (X Matrix, err error) {
	var (
		nr, nc = B.Dims()
		x      Vector
	)
	X = NewMatrix(nr, nc)
	for j := 0; j < nc; j++ {
		if x, err = s.SolveVec(B.Col(j)); err != nil {
			return
		}
		X.SetCol(j, x.RawVector().Data)
	}
	return
}

func (s *cgSystem) SolveVec(b Vector) (x Vector, err error) {
	var (
		n     = b.Len()
		bNorm = b.Norm()
	)
	x = NewVector(n)
	if bNorm == 0 {
		return
	}
	var (
		r  = b.Copy()
		p  = r.Copy()
		rs = r.Dot(r)
	)
	for iter := 0; iter < s.maxIter; iter++ {
		Ap := s.A.MulVec(p)
		pAp := p.Dot(Ap)
		if pAp <= 0 {
			err = fmt.Errorf("conjugate gradient: matrix is not positive definite")
			return
		}
		alpha := rs / pAp
		x.Add(p.Copy().Scale(alpha))
		r.Sub(Ap.Scale(alpha))
		rsNew := r.Dot(r)
		if math.Sqrt(rsNew) <= s.tol*bNorm {
			return
		}
		p = r.Copy().Add(p.Scale(rsNew / rs))
		rs = rsNew
	}
	err = fmt.Errorf("conjugate gradient: no convergence after %v iterations, relative residual = %v",
		s.maxIter, math.Sqrt(rs)/bNorm)
	return
}
