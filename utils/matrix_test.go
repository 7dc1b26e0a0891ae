package utils

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixReadOnly(t *testing.T) {
	M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
	M.Set(0, 1, 5)
	M = M.SetReadOnly("M")
	assert.Panics(t, func() { M.Set(0, 0, 1) })
	assert.Panics(t, func() { M.Add(0, 0, 1) })
	assert.Panics(t, func() { M.Scale(2) })
	// Copies are writable again
	C := M.Copy()
	C.Set(0, 0, 9)
	assert.Equal(t, 9., C.At(0, 0))
	assert.Equal(t, 1., M.At(0, 0))
}

func TestMatrixMulVec(t *testing.T) {
	M := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := M.MulVec([]float64{1, 1, 1})
	assert.InDeltaSlice(t, []float64{6, 15}, b, 1.e-14)
	assert.Panics(t, func() { M.MulVec([]float64{1, 1}) })
}

func TestLUSolve(t *testing.T) {
	M := NewMatrix(3, 3, []float64{
		2, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	x, err := M.LUSolve([]float64{3, 5, 3})
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, x, 1.e-12)
	// Receiver unchanged, reusable
	assert.Equal(t, 2., M.At(0, 0))
	_, err = NewMatrix(2, 2, []float64{1, 2, 2, 4}).LUSolve([]float64{1, 1})
	assert.Error(t, err)
}

func TestConditionNumber(t *testing.T) {
	I := NewMatrix(2, 2, []float64{1, 0, 0, 1})
	assert.InDelta(t, 1, I.ConditionNumber(), 1.e-12)
	S := NewMatrix(2, 2, []float64{1, 0, 0, 1.e-20})
	assert.InDelta(t, 1.e16, S.ConditionNumber(), 1)
}

func TestCSolve(t *testing.T) {
	// x = (1, i)
	a := [][]complex128{
		{2, complex(0, 1)},
		{complex(0, -1), 1},
	}
	b := []complex128{1, 0}
	x, err := CSolve(a, b)
	assert.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(x[0]-1), 1.e-14)
	assert.InDelta(t, 0, cmplx.Abs(x[1]-complex(0, 1)), 1.e-14)

	_, err = CSolve([][]complex128{{0, 0}, {0, 0}}, []complex128{1, 1})
	assert.Error(t, err)
}
