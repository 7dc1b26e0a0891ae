package geometry2D

import (
	"fmt"
	"math"
)

// Cutout is a closed hole boundary a panel can carry. DiscretizeLoop walks
// the boundary clockwise so the (t_y, -t_x) normal points into the hole,
// away from the material.
type Cutout interface {
	DiscretizeLoop(n, loop, startID int) []Element
}

// CircularCutout is a circular hole centered at (CX, CY).
type CircularCutout struct {
	CX, CY, R float64
}

// DiscretizeLoop produces n chords of the circle, traversed clockwise
// starting from the rightmost point.
func (c CircularCutout) DiscretizeLoop(n, loop, startID int) (elements []Element) {
	elements = make([]Element, 0, n)
	pt := func(i int) [2]float64 {
		// Clockwise: angle decreases with i
		theta := -2 * math.Pi * float64(i) / float64(n)
		return [2]float64{c.CX + c.R*math.Cos(theta), c.CY + c.R*math.Sin(theta)}
	}
	for i := 0; i < n; i++ {
		elements = append(elements, NewElement(startID+i, loop, pt(i), pt(i+1)))
	}
	return
}

// PanelGeometry is a W x H rectangular panel with corner at the origin plus
// zero or more cutouts.
type PanelGeometry struct {
	W, H    float64
	Cutouts []Cutout
}

func NewPanel(w, h float64) *PanelGeometry {
	return &PanelGeometry{W: w, H: h}
}

func (p *PanelGeometry) AddCutout(c Cutout) {
	p.Cutouts = append(p.Cutouts, c)
}

// Discretize produces the global ordered element sequence: the outer
// rectangle walked CCW with nPerSide elements on each side, starting along
// the bottom edge from (0,0), followed by each cutout loop with nCutout
// elements. Element 0 therefore sits next to the (0,0) corner and element
// nPerSide-1 next to (W,0), the two elements the usual corner constraints
// pin. The result is validated before it is returned.
func (p *PanelGeometry) Discretize(nPerSide, nCutout int) (elements []Element, err error) {
	if p.W <= 0 || p.H <= 0 {
		err = fmt.Errorf("%w: panel dimensions %g x %g", ErrSingularGeometry, p.W, p.H)
		return
	}
	if nPerSide < 1 || (len(p.Cutouts) > 0 && nCutout < 3) {
		err = fmt.Errorf("%w: element counts nPerSide=%d, nCutout=%d",
			ErrSingularGeometry, nPerSide, nCutout)
		return
	}
	var (
		corners = [4][2]float64{{0, 0}, {p.W, 0}, {p.W, p.H}, {0, p.H}}
		id      int
	)
	elements = make([]Element, 0, 4*nPerSide+len(p.Cutouts)*nCutout)
	for side := 0; side < 4; side++ {
		var (
			a = corners[side]
			b = corners[(side+1)%4]
		)
		for i := 0; i < nPerSide; i++ {
			f0 := float64(i) / float64(nPerSide)
			f1 := float64(i+1) / float64(nPerSide)
			pa := [2]float64{a[0] + f0*(b[0]-a[0]), a[1] + f0*(b[1]-a[1])}
			pb := [2]float64{a[0] + f1*(b[0]-a[0]), a[1] + f1*(b[1]-a[1])}
			elements = append(elements, NewElement(id, 0, pa, pb))
			id++
		}
	}
	for ci, c := range p.Cutouts {
		loop := c.DiscretizeLoop(nCutout, ci+1, id)
		elements = append(elements, loop...)
		id += len(loop)
	}
	if err = Validate(elements); err != nil {
		elements = nil
	}
	return
}
