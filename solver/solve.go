package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/panelyze/panelyze/utils"
)

// ErrRigidBodyMode reports a solve system left singular or near-singular by
// the boundary condition set, almost always because fewer than three
// independent displacement constraints were applied.
var ErrRigidBodyMode = errors.New("rigid body mode unconstrained")

// RigidBodyCondLimit is the condition number above which the reassembled
// system is treated as singular rather than solved for a garbage answer.
const RigidBodyCondLimit = 1.e12

// checkRigidBodyConstraints verifies the displacement-known DOF set pins all
// three rigid modes (two translations and the rotation): the modes
// restricted to the constrained DOFs must have rank 3. This catches the
// failure geometrically, before the numerics can only report it as a huge
// condition number.
func (sys *System) checkRigidBodyConstraints(bc *BC) error {
	var cdofs []int
	for d, ty := range bc.Type {
		if ty == BCDisplacement {
			cdofs = append(cdofs, d)
		}
	}
	if len(cdofs) < 3 {
		return fmt.Errorf("%w: only %d displacement constraints; need at least 3 "+
			"(2 translations + 1 rotation)", ErrRigidBodyMode, len(cdofs))
	}
	// Geometry scale for the rotation mode
	var rMax float64
	var cx, cy float64
	for _, el := range sys.Elements {
		cx += el.Center[0]
		cy += el.Center[1]
	}
	cx /= float64(len(sys.Elements))
	cy /= float64(len(sys.Elements))
	for _, el := range sys.Elements {
		dx, dy := el.Center[0]-cx, el.Center[1]-cy
		if r := dx*dx + dy*dy; r > rMax {
			rMax = r
		}
	}
	if rMax == 0 {
		rMax = 1
	}
	modes := mat.NewDense(3, len(cdofs), nil)
	for c, d := range cdofs {
		var (
			el   = sys.Elements[d/2]
			comp = d % 2
			dx   = el.Center[0] - cx
			dy   = el.Center[1] - cy
		)
		if comp == 0 {
			modes.Set(0, c, 1)
			modes.Set(2, c, -dy/rMax)
		} else {
			modes.Set(1, c, 1)
			modes.Set(2, c, dx/rMax)
		}
	}
	var svd mat.SVD
	if !svd.Factorize(modes, mat.SVDNone) {
		return fmt.Errorf("%w: constraint mode factorization failed", ErrRigidBodyMode)
	}
	values := svd.Values(nil)
	if values[len(values)-1] < 1.e-09*values[0] {
		return fmt.Errorf("%w: the %d displacement constraints are aligned and leave "+
			"a rigid mode free", ErrRigidBodyMode, len(cdofs))
	}
	return nil
}

// Solve partitions the assembled system by boundary condition type and
// solves for the complementary unknowns. For each DOF column the known
// quantity's contribution moves to the right-hand side and the unknown's
// column stays in the system matrix, whether it came from H or G. Traction
// unknowns are nondimensionalized by the modulus scale so H- and G-derived
// columns are comparably sized. The returned vectors are the full boundary
// displacement and traction fields, solved unknowns merged with the
// prescribed values.
//
// Solve never mutates H or G: re-solving the same System with a different
// BC record reuses the assembled matrices as-is. Identical inputs produce
// identical outputs; everything here is deterministic.
func (sys *System) Solve(bc *BC) (u, t []float64, err error) {
	if !sys.assembled {
		err = fmt.Errorf("system not assembled")
		return
	}
	var n = sys.NDOF()
	if err = bc.Validate(n); err != nil {
		return
	}
	if err = sys.checkRigidBodyConstraints(bc); err != nil {
		return
	}

	var (
		A      = make([]float64, n*n)
		b      = make([]float64, n)
		h      = sys.H.RawMatrix()
		g      = sys.G.RawMatrix()
		m      = sys.Ker.Mat
		scaleT = 0.5 * (m.E1 + m.E2) // traction unknowns solved as t/scaleT
	)
	for jd := 0; jd < n; jd++ {
		val := bc.Value[jd]
		if bc.Type[jd] == BCTraction {
			// t known: G column scales onto the rhs, H column stays unknown
			for i := 0; i < n; i++ {
				A[i*n+jd] = h.Data[i*h.Stride+jd]
				b[i] += g.Data[i*g.Stride+jd] * val
			}
		} else {
			// u known: H column scales onto the rhs, -G column stays unknown
			for i := 0; i < n; i++ {
				A[i*n+jd] = -g.Data[i*g.Stride+jd] * scaleT
				b[i] -= h.Data[i*h.Stride+jd] * val
			}
		}
	}
	sysM := utils.NewMatrix(n, n, A)
	if cond := sysM.ConditionNumber(); cond > RigidBodyCondLimit {
		err = fmt.Errorf("%w: condition number %.3g exceeds %.1g", ErrRigidBodyMode,
			cond, RigidBodyCondLimit)
		return
	}
	x, err := sysM.LUSolve(b)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRigidBodyMode, err)
		return
	}

	u = make([]float64, n)
	t = make([]float64, n)
	for jd := 0; jd < n; jd++ {
		if bc.Type[jd] == BCTraction {
			t[jd] = bc.Value[jd]
			u[jd] = x[jd]
		} else {
			u[jd] = bc.Value[jd]
			t[jd] = x[jd] * scaleT
		}
	}
	return
}
