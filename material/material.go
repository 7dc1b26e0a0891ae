package material

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrInvalidMaterial reports non-physical elastic constants.
var ErrInvalidMaterial = errors.New("invalid material")

// Orthotropic is an in-plane orthotropic elastic material for thin panels,
// immutable once constructed. The characteristic roots mu1, mu2 of the plane
// anisotropic elasticity quartic are derived at construction time and drive
// the fundamental-solution kernels.
//
// The kernel formalism requires strictly complex, distinct roots. An exactly
// isotropic input (E1 == E2 with the matching shear modulus) degenerates to
// the repeated root i, which the kernels reject. Callers wanting isotropic
// behavior must perturb one modulus themselves, e.g. E2 = E1*(1+1e-3); no
// automatic perturbation is applied here.
type Orthotropic struct {
	E1, E2    float64 // in-plane Young's moduli
	Nu12      float64 // major Poisson ratio
	G12       float64 // in-plane shear modulus
	Thickness float64

	a11, a22, a12, a66 float64 // plane-stress compliances
	mu                 [2]complex128
}

// NewOrthotropic validates the constants and derives the characteristic
// roots. The optional trailing argument is the panel thickness (default 1),
// used by front-ends to convert running loads to stresses.
func NewOrthotropic(e1, e2, nu12, g12 float64, thicknessO ...float64) (m *Orthotropic, err error) {
	if e1 <= 0 || e2 <= 0 || g12 <= 0 {
		err = fmt.Errorf("%w: moduli must be positive, have E1=%g, E2=%g, G12=%g",
			ErrInvalidMaterial, e1, e2, g12)
		return
	}
	// Thermodynamic admissibility for orthotropic plane stress: nu12^2 < E1/E2
	if nu12*nu12 >= e1/e2 {
		err = fmt.Errorf("%w: nu12=%g violates nu12^2 < E1/E2 = %g",
			ErrInvalidMaterial, nu12, e1/e2)
		return
	}
	thickness := 1.0
	if len(thicknessO) != 0 {
		thickness = thicknessO[0]
		if thickness <= 0 {
			err = fmt.Errorf("%w: thickness must be positive, have %g",
				ErrInvalidMaterial, thickness)
			return
		}
	}
	m = &Orthotropic{
		E1:        e1,
		E2:        e2,
		Nu12:      nu12,
		G12:       g12,
		Thickness: thickness,
		a11:       1 / e1,
		a22:       1 / e2,
		a12:       -nu12 / e1,
		a66:       1 / g12,
	}
	m.mu = m.characteristicRoots()
	return
}

// Compliances returns the plane-stress compliances (a11, a22, a12, a66).
func (m *Orthotropic) Compliances() (a11, a22, a12, a66 float64) {
	return m.a11, m.a22, m.a12, m.a66
}

// Roots returns the characteristic roots mu1, mu2, each taken with
// non-negative imaginary part. Degenerate (real or repeated) roots are not an
// error here; the kernel evaluator rejects them.
func (m *Orthotropic) Roots() [2]complex128 {
	return m.mu
}

// characteristicRoots solves a11*mu^4 + (2*a12+a66)*mu^2 + a22 = 0, the
// orthotropic-axis reduction of the Lekhnitskii characteristic quartic
// (a16 = a26 = 0), as a quadratic in mu^2.
func (m *Orthotropic) characteristicRoots() (mu [2]complex128) {
	var (
		b    = complex(2*m.a12+m.a66, 0)
		disc = cmplx.Sqrt(b*b - complex(4*m.a11*m.a22, 0))
	)
	mu2 := [2]complex128{
		(-b + disc) / complex(2*m.a11, 0),
		(-b - disc) / complex(2*m.a11, 0),
	}
	for k := 0; k < 2; k++ {
		r := cmplx.Sqrt(mu2[k])
		if imag(r) < 0 {
			r = -r
		}
		mu[k] = r
	}
	return
}

func (m *Orthotropic) String() string {
	return fmt.Sprintf("E1=%g E2=%g Nu12=%g G12=%g thk=%g mu1=%v mu2=%v",
		m.E1, m.E2, m.Nu12, m.G12, m.Thickness, m.mu[0], m.mu[1])
}

// IsotropicShear is the shear modulus consistent with an isotropic pair
// (E, nu). Passing it together with equal moduli produces the degenerate
// repeated root i; it exists for callers building perturbed pseudo-isotropic
// inputs and for tests of the degeneracy guard.
func IsotropicShear(e, nu float64) float64 {
	return e / (2 * (1 + nu))
}

// RootSeparation measures how far the root pair is from degeneracy: the
// smaller of the two imaginary parts and the pair separation.
func (m *Orthotropic) RootSeparation() float64 {
	return math.Min(math.Min(imag(m.mu[0]), imag(m.mu[1])),
		cmplx.Abs(m.mu[0]-m.mu[1]))
}
