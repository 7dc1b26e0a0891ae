// Package geometry2D builds and validates the boundary discretization of a
// rectangular panel with cutouts: ordered closed loops of straight elements
// with midpoint collocation, outward normals via the convention outer loop
// CCW / hole loops CW, normal = (t_y, -t_x).
package geometry2D

import (
	"errors"
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
)

// ErrSingularGeometry reports a degenerate discretization: zero-length or
// coincident elements, or loops that are not closed.
var ErrSingularGeometry = errors.New("singular geometry")

// Element is one straight boundary element, immutable after discretization.
type Element struct {
	ID     int // position in the global ordering
	Loop   int // 0 = outer loop, 1.. = cutout loops
	A, B   [2]float64
	Center [2]float64
	Normal [2]float64 // unit outward normal
	Length float64
}

// NewElement derives center, length, and outward normal from the directed
// endpoints a->b. The traversal direction encodes the orientation: outer
// loops are walked CCW and hole loops CW, so (t_y, -t_x) points out of the
// material in both cases.
func NewElement(id, loop int, a, b [2]float64) Element {
	var (
		dx = b[0] - a[0]
		dy = b[1] - a[1]
		l  = math.Hypot(dx, dy)
	)
	e := Element{
		ID:     id,
		Loop:   loop,
		A:      a,
		B:      b,
		Center: [2]float64{0.5 * (a[0] + b[0]), 0.5 * (a[1] + b[1])},
		Length: l,
	}
	if l > 0 {
		e.Normal = [2]float64{dy / l, -dx / l}
	}
	return e
}

// Tangent is the unit direction a->b. Zero-length elements return a zero
// tangent; Validate rejects them before any kernel sees one.
func (e Element) Tangent() [2]float64 {
	if e.Length == 0 {
		return [2]float64{}
	}
	return [2]float64{(e.B[0] - e.A[0]) / e.Length, (e.B[1] - e.A[1]) / e.Length}
}

// Validate checks the element sequence an external mesher supplied: no
// zero-length elements, no coincident collocation points, and every loop
// closed. Closure is established from the element-to-vertex incidence
// matrix: in C = M^T*M the diagonal counts the elements sharing each vertex,
// which must be exactly 2 on a closed loop.
func Validate(elements []Element) (err error) {
	if len(elements) == 0 {
		return fmt.Errorf("%w: empty discretization", ErrSingularGeometry)
	}
	var scale float64
	for _, e := range elements {
		scale = math.Max(scale, math.Max(math.Abs(e.Center[0]), math.Abs(e.Center[1])))
	}
	tol := 1.e-09 * math.Max(scale, 1)
	for _, e := range elements {
		if e.Length <= tol {
			return fmt.Errorf("%w: element %d has zero length", ErrSingularGeometry, e.ID)
		}
	}
	for i := range elements {
		for j := i + 1; j < len(elements); j++ {
			if math.Hypot(elements[i].Center[0]-elements[j].Center[0],
				elements[i].Center[1]-elements[j].Center[1]) <= tol {
				return fmt.Errorf("%w: elements %d and %d coincide",
					ErrSingularGeometry, elements[i].ID, elements[j].ID)
			}
		}
	}

	// Element-to-vertex incidence, endpoints merged on a tol-grid
	var (
		nElem  = len(elements)
		verts  = make(map[[2]int64]int)
		vertOf = func(p [2]float64) int {
			key := [2]int64{int64(math.Round(p[0] / tol)), int64(math.Round(p[1] / tol))}
			if id, ok := verts[key]; ok {
				return id
			}
			id := len(verts)
			verts[key] = id
			return id
		}
		ev = make([][2]int, nElem)
	)
	for i, e := range elements {
		ev[i] = [2]int{vertOf(e.A), vertOf(e.B)}
	}
	nVert := len(verts)
	SpEToV_Tmp := sparse.NewDOK(nElem, nVert)
	for i := range ev {
		SpEToV_Tmp.Set(i, ev[i][0], 1)
		SpEToV_Tmp.Set(i, ev[i][1], 1)
	}
	SpVToV := sparse.NewCSR(nVert, nVert, nil, nil, nil)
	SpEToV := SpEToV_Tmp.ToCSR()
	SpVToV.Mul(SpEToV.T(), SpEToV)
	for v := 0; v < nVert; v++ {
		if n := int(SpVToV.At(v, v)); n != 2 {
			// Report via one of the elements touching the open vertex
			for i := range ev {
				if ev[i][0] == v || ev[i][1] == v {
					return fmt.Errorf("%w: loop not closed at element %d (vertex shared by %d elements)",
						ErrSingularGeometry, elements[i].ID, n)
				}
			}
			return fmt.Errorf("%w: loop not closed (vertex %d shared by %d elements)",
				ErrSingularGeometry, v, n)
		}
	}
	return
}
