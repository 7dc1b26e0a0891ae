package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (V Vector) {
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(dataO[0]))
			panic(err)
		}
		V = Vector{mat.NewVecDense(n, dataO[0])}
	} else {
		V = Vector{mat.NewVecDense(n, make([]float64, n))}
	}
	return
}

func (v Vector) Len() int              { return v.V.Len() }
func (v Vector) AtVec(i int) float64   { return v.V.AtVec(i) }
func (v Vector) RawData() []float64    { return v.V.RawVector().Data }
func (v Vector) Set(i int, val float64) Vector {
	v.V.SetVec(i, val)
	return v
}

func (v Vector) Copy() (R Vector) {
	R = NewVector(v.Len())
	copy(R.RawData(), v.RawData())
	return
}

func (v Vector) String() string {
	return fmt.Sprintf("%v\n", mat.Formatted(v.V, mat.Squeeze()))
}
