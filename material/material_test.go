package material

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidMaterial(t *testing.T) {
	{
		_, err := NewOrthotropic(-10.e6, 10.e6, 0.33, 3.76e6)
		assert.True(t, errors.Is(err, ErrInvalidMaterial))
	}
	{
		_, err := NewOrthotropic(10.e6, 0, 0.33, 3.76e6)
		assert.True(t, errors.Is(err, ErrInvalidMaterial))
	}
	{
		_, err := NewOrthotropic(10.e6, 10.e6, 0.33, -1)
		assert.True(t, errors.Is(err, ErrInvalidMaterial))
	}
	{
		// nu12^2 must stay below E1/E2
		_, err := NewOrthotropic(10.e6, 40.e6, 0.6, 3.76e6)
		assert.True(t, errors.Is(err, ErrInvalidMaterial))
	}
	{
		_, err := NewOrthotropic(10.e6, 10.01e6, 0.33, 3.76e6, -0.08)
		assert.True(t, errors.Is(err, ErrInvalidMaterial))
	}
}

func TestPseudoIsotropicRoots(t *testing.T) {
	var (
		E  = 10.e6
		nu = 0.33
		G  = IsotropicShear(E, nu)
	)
	m, err := NewOrthotropic(E, E*1.001, nu, G)
	assert.NoError(t, err)
	mu := m.Roots()
	for k := 0; k < 2; k++ {
		assert.True(t, imag(mu[k]) > 0)
		// Both roots sit within ~2% of the isotropic repeated root i
		assert.True(t, cmplx.Abs(mu[k]-complex(0, 1)) < 0.02)
	}
	// The 1e-3 perturbation separates the pair by about 3e-2
	sep := m.RootSeparation()
	assert.True(t, sep > 1.e-02 && sep < 1.e-01)
}

func TestExactIsotropicRootsDegenerate(t *testing.T) {
	var (
		E  = 10.e6
		nu = 0.33
	)
	m, err := NewOrthotropic(E, E, nu, IsotropicShear(E, nu))
	assert.NoError(t, err) // construction succeeds; the kernels reject it
	mu := m.Roots()
	assert.True(t, near(imag(mu[0]), 1))
	assert.True(t, near(imag(mu[1]), 1))
	assert.True(t, m.RootSeparation() < 1.e-06)
}

func TestOrthotropicRoots(t *testing.T) {
	// Strongly orthotropic: distinct purely imaginary roots whose product
	// satisfies mu1*mu2 = -sqrt(a22/a11) = -sqrt(E1/E2)
	m, err := NewOrthotropic(20.e6, 5.e6, 0.25, 3.e6)
	assert.NoError(t, err)
	mu := m.Roots()
	assert.True(t, imag(mu[0]) > 0 && imag(mu[1]) > 0)
	prod := mu[0] * mu[1]
	assert.True(t, near(real(prod), -math.Sqrt(20./5.)))
	assert.True(t, math.Abs(imag(prod)) < 1.e-12)
	// Roots satisfy the characteristic quartic
	a11, a22, a12, a66 := m.Compliances()
	for k := 0; k < 2; k++ {
		res := complex(a11, 0)*mu[k]*mu[k]*mu[k]*mu[k] +
			complex(2*a12+a66, 0)*mu[k]*mu[k] + complex(a22, 0)
		assert.True(t, cmplx.Abs(res) < 1.e-12*a22+1.e-20)
	}
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Abs(a)+1.e-12 {
		l = true
	}
	return
}
