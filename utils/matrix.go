package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		m,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *Matrix) SetWritable() Matrix {
	m.readOnly = false
	return *m
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		data   = m.M.RawMatrix().Data
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) Add(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	var (
		data = m.M.RawMatrix().Data
	)
	for i := range data {
		data[i] *= a
	}
	return m
}

// MulVec computes m*x into a new slice.
func (m Matrix) MulVec(x []float64) (b []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch in MulVec: nc = %d, len(x) = %d", nc, len(x)))
	}
	b = make([]float64, nr)
	xv := NewVector(nc, x)
	bv := NewVector(nr, b)
	bv.V.MulVec(m.M, xv.V)
	return
}

func (m Matrix) String() string {
	return fmt.Sprintf("%v\n", mat.Formatted(m.M, mat.Squeeze()))
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("matrix is read only: %s", m.name)
		panic(err)
	}
}

// LUSolve solves m*x = b for x using an LU factorization of a copy of m.
// The receiver and b are unchanged. A zero pivot in the factorization is
// reported as an error, signalling an exactly singular system.
func (m Matrix) LUSolve(b []float64) (x []float64, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("LUSolve requires a square matrix, have %dx%d", nr, nc)
		return
	}
	if len(b) != nr {
		err = fmt.Errorf("LUSolve dimension mismatch: n = %d, len(b) = %d", nr, len(b))
		return
	}
	A := m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(A.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("lu: matrix is singular, zero pivot in Getrf")
		return
	}
	x = make([]float64, nr)
	copy(x, b)
	bG := blas64.General{
		Rows:   nr,
		Cols:   1,
		Stride: 1,
		Data:   x,
	}
	lapack64.Getrs(blas.NoTrans, A.RawMatrix(), bG, iPiv)
	return
}

// ConditionNumber is the 2-norm condition number from the singular value
// spectrum. Returns 1e16 when the factorization fails or the smallest
// singular value underflows.
func (m Matrix) ConditionNumber() float64 {
	var svd mat.SVD
	if !svd.Factorize(m.M, mat.SVDNone) {
		return 1e16
	}
	values := svd.Values(nil)
	if len(values) == 0 {
		return 1e16
	}
	minVal := values[len(values)-1] // Singular values are in descending order
	maxVal := values[0]
	if minVal < 1e-16 {
		return 1e16
	}
	return maxVal / minVal
}
