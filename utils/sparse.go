package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)              { return m.M.Dims() }
func (m DOK) At(i, j int) float64           { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix                 { return m.M.T() }
func (m DOK) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	m.checkWritable()
	if i < 0 || i >= nr || j < 0 || j >= nc {
		err := fmt.Errorf("index out of bounds: i,j = %v,%v, bounds = %v,%v", i, j, nr, nc)
		panic(err)
	}
	m.M.Set(i, j, val)
	return m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// NewDiagCSR builds the sparse diagonal matrix diag(d).
func NewDiagCSR(d Vector) (R CSR) {
	var (
		n     = d.Len()
		dataD = d.RawVector().Data
	)
	D := NewDOK(n, n)
	for i := 0; i < n; i++ {
		D.Set(i, i, dataD[i])
	}
	R = D.ToCSR()
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m *CSR) SetReadOnly(name ...string) CSR {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *CSR) SetWritable() CSR {
	m.readOnly = false
	return *m
}

// DoNonZero visits each stored element in row-major order.
func (m CSR) DoNonZero(fn func(i, j int, val float64)) {
	m.M.DoNonZero(fn)
}

func (m CSR) MulVec(v Vector) (R Vector) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	if v.Len() != nc {
		err := fmt.Errorf("dimension mismatch: MulVec nc = %v, len(v) = %v", nc, v.Len())
		panic(err)
	}
	R = NewVector(nr)
	var (
		dataR = R.RawVector().Data
		dataV = v.RawVector().Data
	)
	m.M.DoNonZero(func(i, j int, val float64) {
		dataR[i] += val * dataV[j]
	})
	return
}

func (m CSR) MulMatrix(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
	)
	if nrA != nc {
		err := fmt.Errorf("dimension mismatch: MulMatrix nc = %v, A nr = %v", nc, nrA)
		panic(err)
	}
	R = NewMatrix(nr, ncA)
	var (
		dataR = R.RawMatrix().Data
		dataA = A.RawMatrix().Data
	)
	m.M.DoNonZero(func(i, j int, val float64) {
		for k := 0; k < ncA; k++ {
			dataR[k+i*ncA] += val * dataA[k+j*ncA]
		}
	})
	return
}

func (m CSR) MulCSR(A CSR) (R CSR) { // Does not change receiver
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
	)
	if nrA != nc {
		err := fmt.Errorf("dimension mismatch: MulCSR nc = %v, A nr = %v", nc, nrA)
		panic(err)
	}
	// Gather A into per-row index maps, then accumulate the product rows
	rowsA := make([]map[int]float64, nrA)
	A.M.DoNonZero(func(i, j int, val float64) {
		if rowsA[i] == nil {
			rowsA[i] = make(map[int]float64)
		}
		rowsA[i][j] = val
	})
	acc := make([]map[int]float64, nr)
	m.M.DoNonZero(func(i, k int, val float64) {
		if rowsA[k] == nil {
			return
		}
		if acc[i] == nil {
			acc[i] = make(map[int]float64)
		}
		for j, valA := range rowsA[k] {
			acc[i][j] += val * valA
		}
	})
	D := NewDOK(nr, ncA)
	for i, row := range acc {
		for j, val := range row {
			D.Set(i, j, val)
		}
	}
	R = D.ToCSR()
	return
}

func (m CSR) Transpose() (R CSR) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	D := NewDOK(nc, nr)
	m.M.DoNonZero(func(i, j int, val float64) {
		D.Set(j, i, val)
	})
	R = D.ToCSR()
	return
}

// ScaleRows forms diag(d) * m.
func (m CSR) ScaleRows(d Vector) (R CSR) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataD  = d.RawVector().Data
	)
	if d.Len() != nr {
		err := fmt.Errorf("dimension mismatch: ScaleRows nr = %v, len(d) = %v", nr, d.Len())
		panic(err)
	}
	D := NewDOK(nr, nc)
	m.M.DoNonZero(func(i, j int, val float64) {
		D.Set(i, j, val*dataD[i])
	})
	R = D.ToCSR()
	return
}

// ScaleCols forms m * diag(d).
func (m CSR) ScaleCols(d Vector) (R CSR) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataD  = d.RawVector().Data
	)
	if d.Len() != nc {
		err := fmt.Errorf("dimension mismatch: ScaleCols nc = %v, len(d) = %v", nc, d.Len())
		panic(err)
	}
	D := NewDOK(nr, nc)
	m.M.DoNonZero(func(i, j int, val float64) {
		D.Set(i, j, val*dataD[j])
	})
	R = D.ToCSR()
	return
}

// PlusDiag forms m + scale * diag(d) for a square receiver.
func (m CSR) PlusDiag(d Vector, scale float64) (R CSR) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataD  = d.RawVector().Data
	)
	if nr != nc || d.Len() != nr {
		err := fmt.Errorf("dimension mismatch: PlusDiag nr,nc = %v,%v, len(d) = %v", nr, nc, d.Len())
		panic(err)
	}
	rows := make([]map[int]float64, nr)
	for i := 0; i < nr; i++ {
		rows[i] = make(map[int]float64)
		rows[i][i] = scale * dataD[i]
	}
	m.M.DoNonZero(func(i, j int, val float64) {
		rows[i][j] += val
	})
	D := NewDOK(nr, nc)
	for i, row := range rows {
		for j, val := range row {
			D.Set(i, j, val)
		}
	}
	R = D.ToCSR()
	return
}

func (m CSR) ToDense() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, nc)
	dataR := R.RawMatrix().Data
	m.M.DoNonZero(func(i, j int, val float64) {
		dataR[j+i*nc] = val
	})
	return
}
