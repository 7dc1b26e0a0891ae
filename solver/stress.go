package solver

import (
	"fmt"
	"runtime"
	"sync"
)

// Stress is the in-plane stress tensor at one evaluation point.
type Stress struct {
	XX, YY, XY float64
}

// ComputeStress evaluates the boundary integral representation of stress at
// the given points using the solved boundary state (u, t), one tensor per
// point. It is a pure function of the Solution State; the System matrices
// are not touched.
//
// Points must lie strictly inside the panel material, away from cutouts and
// boundaries. That is a modeling convention, not a validated precondition:
// the integrand grows like 1/r^2 toward the boundary, and a point on or very
// near an element produces a numerically meaningless result rather than an
// error. Offset evaluation points from the boundary by a couple of element
// lengths.
func (sys *System) ComputeStress(pts [][2]float64, u, t []float64) (stresses []Stress, err error) {
	if !sys.assembled {
		err = fmt.Errorf("system not assembled")
		return
	}
	var n = sys.NDOF()
	if len(u) != n || len(t) != n {
		err = fmt.Errorf("%w: solution state has %d/%d DOFs, system has %d",
			ErrBCMismatch, len(u), len(t), n)
		return
	}
	stresses = make([]Stress, len(pts))
	var (
		NP = runtime.NumCPU()
		wg = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			for p := np; p < len(pts); p += NP {
				stresses[p] = sys.stressAt(pts[p], u, t)
			}
		}(np)
	}
	wg.Wait()
	return
}

func (sys *System) stressAt(X [2]float64, u, t []float64) (s Stress) {
	for j, ej := range sys.Elements {
		var (
			tj = [2]float64{t[2*j], t[2*j+1]}
			uj = [2]float64{u[2*j], u[2*j+1]}
		)
		sys.integrate(X, ej, func(fld [2]float64, w float64) {
			D, S := sys.Ker.Stress(X, fld, ej.Normal)
			for b := 0; b < 2; b++ {
				s.XX += w * (D[0][b]*tj[b] + S[0][b]*uj[b])
				s.YY += w * (D[1][b]*tj[b] + S[1][b]*uj[b])
				s.XY += w * (D[2][b]*tj[b] + S[2][b]*uj[b])
			}
		})
	}
	return
}
