// Package kernels evaluates the plane anisotropic elasticity fundamental
// solution in the Lekhnitskii complex-potential form (Cruse-Swedlow point
// force constants), producing the 2x2 displacement and traction kernel
// blocks used for boundary integral assembly and the stress kernels used for
// interior recovery.
package kernels

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/panelyze/panelyze/material"
	"github.com/panelyze/panelyze/utils"
)

// ErrNumericalDegeneracy reports characteristic roots that are real or
// repeated, for which the closed-form kernels are indeterminate.
var ErrNumericalDegeneracy = errors.New("numerical degeneracy")

// RootSeparationTol is the minimum admissible distance of the root pair from
// the real axis and from each other. The documented pseudo-isotropic
// perturbation E2 = E1*(1+1e-3) yields a separation near 3e-2, four orders
// above this floor.
const RootSeparationTol = 1.e-06

// BEM holds the material-dependent kernel constants: roots mu_k, the
// Lekhnitskii displacement coefficients p_k, q_k, and the point-force
// constants A[j][k] for a unit load in direction j. All fields are fixed at
// construction; evaluation methods are pure functions.
type BEM struct {
	Mat *material.Orthotropic

	mu   [2]complex128
	p, q [2]complex128
	// A[j][k]: constant of potential k for a unit point force in direction j
	A [2][2]complex128
	// d[k] = A[0][k]/p[k], the Stroh normalization shared by both force
	// directions (A[j][k] = d[k]*{p,q}[k]); needed by the u-side stress kernel
	d [2]complex128
}

// New derives the kernel constants for mat, failing with
// ErrNumericalDegeneracy when the characteristic roots are real or repeated.
func New(mat *material.Orthotropic) (k *BEM, err error) {
	var (
		mu  = mat.Roots()
		sep = mat.RootSeparation()
	)
	if sep < RootSeparationTol {
		err = fmt.Errorf("%w: characteristic roots %v, %v are real or repeated "+
			"(separation %.3g); perturb the moduli for isotropic behavior, e.g. E2 = E1*(1+1e-3)",
			ErrNumericalDegeneracy, mu[0], mu[1], sep)
		return
	}
	k = &BEM{Mat: mat, mu: mu}
	a11, a22, a12, _ := mat.Compliances()
	for i := 0; i < 2; i++ {
		k.p[i] = complex(a11, 0)*mu[i]*mu[i] + complex(a12, 0)
		k.q[i] = complex(a12, 0)*mu[i] + complex(a22, 0)/mu[i]
	}
	if err = k.solveForceConstants(); err != nil {
		k = nil
		return
	}
	k.d[0] = k.A[0][0] / k.p[0]
	k.d[1] = k.A[0][1] / k.p[1]
	return
}

// solveForceConstants solves the 4x4 complex system expressing force
// equilibrium and displacement single-valuedness around the point load, once
// per unit load direction. Unknown ordering: A_1, conj(A_1), A_2, conj(A_2).
func (k *BEM) solveForceConstants() (err error) {
	var (
		mu1, mu2 = k.mu[0], k.mu[1]
		p1, p2   = k.p[0], k.p[1]
		q1, q2   = k.q[0], k.q[1]
		// 1/(2*pi*i)
		c = complex(0, -1/(2*math.Pi))
	)
	for j := 0; j < 2; j++ {
		a := [][]complex128{
			{1, -1, 1, -1},
			{mu1, -cmplx.Conj(mu1), mu2, -cmplx.Conj(mu2)},
			{p1, -cmplx.Conj(p1), p2, -cmplx.Conj(p2)},
			{q1, -cmplx.Conj(q1), q2, -cmplx.Conj(q2)},
		}
		b := make([]complex128, 4)
		if j == 0 { // unit force in x: P1 = 1
			b[1] = -c
		} else { // unit force in y: P2 = 1
			b[0] = c
		}
		var x []complex128
		if x, err = utils.CSolve(a, b); err != nil {
			err = fmt.Errorf("%w: force constant system: %v", ErrNumericalDegeneracy, err)
			return
		}
		k.A[j][0] = x[0]
		k.A[j][1] = x[2]
	}
	return
}

// Roots returns mu1, mu2.
func (k *BEM) Roots() [2]complex128 { return k.mu }

// zmap maps the source->field offset into the two characteristic planes:
// z_k = dx + mu_k*dy.
func (k *BEM) zmap(src, fld [2]float64) (z [2]complex128) {
	var (
		dx = complex(fld[0]-src[0], 0)
		dy = complex(fld[1]-src[1], 0)
	)
	z[0] = dx + k.mu[0]*dy
	z[1] = dx + k.mu[1]*dy
	return
}

// Displacement returns the 2x2 displacement kernel block U, where U[i][j] is
// the displacement component i at fld due to a unit point force in direction
// j at src. Singular (log) at coincidence; the assembler never calls it with
// src == fld.
//
// The principal Log branch is globally consistent here: for every root the
// branch cut pulls back to the single ray dy==0, dx<0, and the
// single-valuedness conditions built into A cancel the jump across it.
func (k *BEM) Displacement(src, fld [2]float64) (U [2][2]float64) {
	var (
		z  = k.zmap(src, fld)
		lg = [2]complex128{cmplx.Log(z[0]), cmplx.Log(z[1])}
	)
	for j := 0; j < 2; j++ {
		U[0][j] = 2 * real(k.p[0]*k.A[j][0]*lg[0]+k.p[1]*k.A[j][1]*lg[1])
		U[1][j] = 2 * real(k.q[0]*k.A[j][0]*lg[0]+k.q[1]*k.A[j][1]*lg[1])
	}
	return
}

// Traction returns the 2x2 traction kernel block T at field point fld with
// unit outward normal n, T[i][j] being traction component i due to a unit
// point force in direction j at src. Singular (1/r) at coincidence.
func (k *BEM) Traction(src, fld, n [2]float64) (T [2][2]float64) {
	var (
		z  = k.zmap(src, fld)
		n1 = complex(n[0], 0)
		n2 = complex(n[1], 0)
		g  = [2]complex128{k.mu[0]*n1 - n2, k.mu[1]*n1 - n2}
	)
	for j := 0; j < 2; j++ {
		w0 := g[0] * k.A[j][0] / z[0]
		w1 := g[1] * k.A[j][1] / z[1]
		T[0][j] = 2 * real(k.mu[0]*w0+k.mu[1]*w1)
		T[1][j] = -2 * real(w0+w1)
	}
	return
}

// SelfDisplacementIntegral is the closed-form integral of the displacement
// kernel over a straight element of half-length h with the source at the
// element midpoint and unit tangent d. The integrand splits as
// Log(s*c_k) with c_k = d1 + mu_k*d2, giving per root
//
//	int_-h^h Log(s*c_k) ds = 2h(ln h - 1) + h(Log c_k + Log -c_k)
//
// which matches the principal branch used pointwise by Displacement.
func (k *BEM) SelfDisplacementIntegral(d [2]float64, h float64) (U [2][2]float64) {
	var (
		I [2]complex128
	)
	for kk := 0; kk < 2; kk++ {
		c := complex(d[0], 0) + k.mu[kk]*complex(d[1], 0)
		I[kk] = complex(2*h*(math.Log(h)-1), 0) + complex(h, 0)*(cmplx.Log(c)+cmplx.Log(-c))
	}
	for j := 0; j < 2; j++ {
		U[0][j] = 2 * real(k.p[0]*k.A[j][0]*I[0]+k.p[1]*k.A[j][1]*I[1])
		U[1][j] = 2 * real(k.q[0]*k.A[j][0]*I[0]+k.q[1]*k.A[j][1]*I[1])
	}
	return
}

// Stress returns the interior stress kernels at the evaluation point X for a
// boundary field point fld with outward normal n. D[a][j] multiplies the
// boundary traction component j and S[a][j] the boundary displacement
// component j; a indexes (xx, yy, xy). The Somigliana sign convention is
// folded in, so sigma_a(X) = sum over the boundary of (D*t + S*u) dGamma.
// Hypersingular (1/r^2) as X approaches the boundary; callers are expected
// to keep evaluation points away from boundary elements.
func (k *BEM) Stress(X, fld, n [2]float64) (D, S [3][2]float64) {
	var (
		z  = k.zmap(X, fld)
		n1 = complex(n[0], 0)
		n2 = complex(n[1], 0)
	)
	for kk := 0; kk < 2; kk++ {
		var (
			mu  = k.mu[kk]
			zi  = 1 / z[kk]
			zi2 = zi * zi
			g   = mu*n1 - n2
			gd  = g * k.d[kk] * zi2
		)
		for j := 0; j < 2; j++ {
			w := k.A[j][kk] * zi
			D[0][j] += -2 * real(mu*mu*w)
			D[1][j] += -2 * real(w)
			D[2][j] += 2 * real(mu*w)
		}
		// u-side: potential F_k' = -g_k d_k (mu_k u1 - u2)/z_k^2
		S[0][0] += -2 * real(mu*mu*mu*gd)
		S[0][1] += 2 * real(mu*mu*gd)
		S[1][0] += -2 * real(mu*gd)
		S[1][1] += 2 * real(gd)
		S[2][0] += 2 * real(mu*mu*gd)
		S[2][1] += -2 * real(mu*gd)
	}
	return
}
