// Package solver assembles the discretized boundary integral equation for a
// panel, solves it under mixed boundary conditions, and recovers interior
// stresses. One System owns one pair of influence matrices; there is no
// shared state between Systems, so independent analyses can run concurrently.
package solver

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/panelyze/panelyze/geometry2D"
	"github.com/panelyze/panelyze/kernels"
	"github.com/panelyze/panelyze/utils"
)

const (
	// GaussOrder is the fixed quadrature order for regular element
	// integrals; the kernels are smooth there.
	GaussOrder = 8
	// NearFactor*L is the source-to-element distance below which the
	// integrand is near-singular and the element is subdivided.
	NearFactor = 2.0
	// NearSubdiv and MaxSubdiv bound the panel count of a subdivided
	// element; the count grows as the source approaches, so that panel size
	// tracks the source distance.
	NearSubdiv = 4
	MaxSubdiv  = 32
)

// System holds the influence-coefficient matrices of one discretized panel:
// H (traction kernel plus the free term) and G (displacement kernel), sized
// 2N x 2N for N elements, in the collocation form H*u = G*t. Both are built
// once by Assemble, locked read-only, and shared by any number of solves.
type System struct {
	Ker      *kernels.BEM
	Elements []geometry2D.Element

	H, G      utils.Matrix
	assembled bool

	gaussX, gaussW []float64
}

// NewSystem binds kernels and a discretization. Assemble must run before
// Solve or ComputeStress.
func NewSystem(ker *kernels.BEM, elements []geometry2D.Element) *System {
	var (
		x = make([]float64, GaussOrder)
		w = make([]float64, GaussOrder)
	)
	(quad.Legendre{}).FixedLocations(x, w, -1, 1)
	return &System{
		Ker:      ker,
		Elements: elements,
		gaussX:   x,
		gaussW:   w,
	}
}

// NDOF is the equation count, two per element.
func (sys *System) NDOF() int { return 2 * len(sys.Elements) }

// Assemble validates the discretization and builds H and G, integrating the
// kernels over every element for every collocation point. Off-diagonal
// blocks use fixed Gauss quadrature (subdivided when the collocation point
// is within NearFactor element lengths); diagonal blocks use the analytic
// self-element forms: the log self-integral for G, and the half-identity
// free term for H, the principal value of the odd traction kernel being zero
// on a straight element collocated at its midpoint. On failure the System is
// left without matrices; a previously assembled System is never mutated.
func (sys *System) Assemble() (err error) {
	if sys.assembled {
		return nil
	}
	if err = geometry2D.Validate(sys.Elements); err != nil {
		return
	}
	var (
		n  = sys.NDOF()
		H  = utils.NewMatrix(n, n)
		G  = utils.NewMatrix(n, n)
		NP = runtime.NumCPU()
		wg = sync.WaitGroup{}
	)
	// Rows are independent: each collocation point writes only its own two
	// rows, so the workers share nothing but the final barrier.
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			for i := np; i < len(sys.Elements); i += NP {
				sys.assembleRow(i, H, G)
			}
		}(np)
	}
	wg.Wait()
	sys.H = H.SetReadOnly("H")
	sys.G = G.SetReadOnly("G")
	sys.assembled = true
	return
}

func (sys *System) assembleRow(i int, H, G utils.Matrix) {
	var (
		src = sys.Elements[i].Center
	)
	for j, ej := range sys.Elements {
		if i == j {
			U := sys.Ker.SelfDisplacementIntegral(ej.Tangent(), ej.Length/2)
			for a := 0; a < 2; a++ {
				for b := 0; b < 2; b++ {
					G.Set(2*i+a, 2*j+b, U[a][b])
				}
			}
			// Free term c = 1/2 on the smooth element interior
			H.Set(2*i+0, 2*j+0, 0.5)
			H.Set(2*i+1, 2*j+1, 0.5)
			continue
		}
		var (
			Ublk, Tblk [2][2]float64
		)
		sys.integrate(src, ej, func(fld [2]float64, w float64) {
			U := sys.Ker.Displacement(src, fld)
			T := sys.Ker.Traction(src, fld, ej.Normal)
			for a := 0; a < 2; a++ {
				for b := 0; b < 2; b++ {
					Ublk[a][b] += w * U[a][b]
					Tblk[a][b] += w * T[a][b]
				}
			}
		})
		// Equation direction a collocates the state generated by a unit
		// force in a at the source, so the kernels enter transposed:
		// row (i,a), column (j,b) carries the component-b value of the
		// force-a fundamental state. U is symmetric, T is not.
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				G.Set(2*i+a, 2*j+b, Ublk[b][a])
				H.Set(2*i+a, 2*j+b, Tblk[b][a])
			}
		}
	}
}

// integrate walks the quadrature points of element ej as seen from src,
// calling f with each field point and arc-length weight. The element is
// subdivided when src is close enough for the kernel to be near-singular.
func (sys *System) integrate(src [2]float64, ej geometry2D.Element, f func(fld [2]float64, w float64)) {
	var (
		t    = ej.Tangent()
		h    = ej.Length / 2
		dist = math.Hypot(src[0]-ej.Center[0], src[1]-ej.Center[1])
		nSub = 1
	)
	if dist < NearFactor*ej.Length {
		nSub = int(math.Ceil(NearFactor * ej.Length / math.Max(dist, 1.e-12)))
		if nSub < NearSubdiv {
			nSub = NearSubdiv
		}
		if nSub > MaxSubdiv {
			nSub = MaxSubdiv
		}
	}
	for sub := 0; sub < nSub; sub++ {
		var (
			s0 = -h + 2*h*float64(sub)/float64(nSub)
			s1 = -h + 2*h*float64(sub+1)/float64(nSub)
			c  = 0.5 * (s0 + s1)
			hs = 0.5 * (s1 - s0)
		)
		for g := 0; g < GaussOrder; g++ {
			s := c + hs*sys.gaussX[g]
			fld := [2]float64{ej.Center[0] + s*t[0], ej.Center[1] + s*t[1]}
			f(fld, hs*sys.gaussW[g])
		}
	}
}

// RigidBodyCheck applies the two unit rigid translations to H and returns
// the largest residual equation value. Over a closed boundary the traction
// kernel integrates to exactly minus the free term, so the residual measures
// the quadrature and self-term consistency of the assembly; it should sit at
// the quadrature tolerance, a few orders above machine epsilon.
func (sys *System) RigidBodyCheck() (residual float64, err error) {
	if !sys.assembled {
		err = fmt.Errorf("system not assembled")
		return
	}
	n := sys.NDOF()
	for b := 0; b < 2; b++ {
		x := make([]float64, n)
		for j := 0; j < len(sys.Elements); j++ {
			x[2*j+b] = 1
		}
		r := sys.H.MulVec(x)
		for _, v := range r {
			residual = math.Max(residual, math.Abs(v))
		}
	}
	return
}
