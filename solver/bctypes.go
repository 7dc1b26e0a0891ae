package solver

import (
	"errors"
	"fmt"
)

// ErrBCMismatch reports an incomplete or mis-sized boundary condition record.
var ErrBCMismatch = errors.New("boundary condition mismatch")

// BCType says which of the two conjugate quantities is prescribed at a DOF.
// Exactly one of {traction, displacement} must be known per DOF.
type BCType uint8

const (
	// BCUnset indicates no condition has been recorded for the DOF yet;
	// solving with one of these is an error, not a default.
	BCUnset BCType = iota

	BCTraction     // traction component known, displacement solved for
	BCDisplacement // displacement component known, traction solved for
)

// String returns the string representation of a BCType
func (bc BCType) String() string {
	switch bc {
	case BCUnset:
		return "Unset"
	case BCTraction:
		return "Traction"
	case BCDisplacement:
		return "Displacement"
	}
	return "Unknown"
}

// BC is a per-DOF boundary condition record for a discretization with
// nElem elements: 2*nElem DOFs ordered by element index then component
// (x, y). A fresh record is all-unset; every DOF must be assigned before
// Solve accepts it.
type BC struct {
	Type  []BCType
	Value []float64
}

// NewBC allocates an all-unset record for nElem elements.
func NewBC(nElem int) *BC {
	return &BC{
		Type:  make([]BCType, 2*nElem),
		Value: make([]float64, 2*nElem),
	}
}

// NewTractionBC allocates a record with every DOF traction-known and zero,
// the traction-free state the usual load cases start from.
func NewTractionBC(nElem int) *BC {
	bc := NewBC(nElem)
	for i := range bc.Type {
		bc.Type[i] = BCTraction
	}
	return bc
}

// SetTraction prescribes the traction component at dof.
func (bc *BC) SetTraction(dof int, val float64) *BC {
	bc.Type[dof] = BCTraction
	bc.Value[dof] = val
	return bc
}

// SetDisplacement prescribes the displacement component at dof.
func (bc *BC) SetDisplacement(dof int, val float64) *BC {
	bc.Type[dof] = BCDisplacement
	bc.Value[dof] = val
	return bc
}

// Validate checks the record covers exactly nDOF DOFs with one condition
// each, identifying the first offending DOF.
func (bc *BC) Validate(nDOF int) error {
	if len(bc.Type) != nDOF || len(bc.Value) != nDOF {
		return fmt.Errorf("%w: record covers %d/%d DOFs, system has %d",
			ErrBCMismatch, len(bc.Type), len(bc.Value), nDOF)
	}
	for dof, ty := range bc.Type {
		if ty != BCTraction && ty != BCDisplacement {
			return fmt.Errorf("%w: DOF %d (element %d, component %d) has no condition",
				ErrBCMismatch, dof, dof/2, dof%2)
		}
	}
	return nil
}
