package utils

import (
	"fmt"
	"math/cmplx"
)

// CSolve solves the dense complex system a*x = b in place by Gaussian
// elimination with partial pivoting. a and b are overwritten; the returned
// slice aliases b. gonum's mat package has no dense complex solver, and the
// systems here are tiny (4x4 point-force coefficient systems), so a direct
// elimination keeps the dependency surface where it already is.
func CSolve(a [][]complex128, b []complex128) (x []complex128, err error) {
	var (
		n = len(a)
	)
	if len(b) != n {
		err = fmt.Errorf("CSolve dimension mismatch: n = %d, len(b) = %d", n, len(b))
		return
	}
	for k := 0; k < n; k++ {
		// Partial pivot on column k
		p := k
		pm := cmplx.Abs(a[k][k])
		for i := k + 1; i < n; i++ {
			if m := cmplx.Abs(a[i][k]); m > pm {
				p, pm = i, m
			}
		}
		if pm == 0 {
			err = fmt.Errorf("CSolve: singular system, zero pivot at column %d", k)
			return
		}
		if p != k {
			a[k], a[p] = a[p], a[k]
			b[k], b[p] = b[p], b[k]
		}
		for i := k + 1; i < n; i++ {
			f := a[i][k] / a[k][k]
			if f == 0 {
				continue
			}
			a[i][k] = 0
			for j := k + 1; j < n; j++ {
				a[i][j] -= f * a[k][j]
			}
			b[i] -= f * b[k]
		}
	}
	for i := n - 1; i >= 0; i-- {
		s := b[i]
		for j := i + 1; j < n; j++ {
			s -= a[i][j] * b[j]
		}
		b[i] = s / a[i][i]
	}
	return b, nil
}
