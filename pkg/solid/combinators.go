package solid

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface checks.
var (
	_ Composite = (*Union)(nil)
	_ Composite = (*Intersection)(nil)
	_ Composite = (*Subtraction)(nil)
)

// Composite is a solid built from child solids.
type Composite interface {
	Solid
	// Children returns the child solids in document order. For a
	// Subtraction the base comes first.
	Children() []Solid
}

func checkChildren(op string, children []Solid) error {
	if len(children) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoChildren)
	}
	for i, c := range children {
		if c == nil {
			return fmt.Errorf("%s: child %d: %w", op, i, ErrNilSolid)
		}
	}
	return nil
}

func cloneSolids(s []Solid) []Solid {
	return append([]Solid(nil), s...)
}

// ---------------------------------------------------------------------------
// Union
// ---------------------------------------------------------------------------

// Union contains every point contained by at least one child.
type Union struct {
	children []Solid
}

// NewUnion joins one or more solids.
func NewUnion(children ...Solid) (*Union, error) {
	if err := checkChildren("union", children); err != nil {
		return nil, err
	}
	return &Union{children: cloneSolids(children)}, nil
}

func (u *Union) Children() []Solid { return cloneSolids(u.children) }
func (u *Union) Kind() Kind        { return KindUnion }
func (*Union) solid()              {}

// IsInside stops at the first child containing p.
func (u *Union) IsInside(p r3.Vec) bool {
	for _, c := range u.children {
		if c.IsInside(p) {
			return true
		}
	}
	return false
}

// Bounds returns the hull of the children's bounds.
func (u *Union) Bounds() r3.Box {
	bb := u.children[0].Bounds()
	for _, c := range u.children[1:] {
		bb = hull(bb, c.Bounds())
	}
	return bb
}

// ---------------------------------------------------------------------------
// Intersection
// ---------------------------------------------------------------------------

// Intersection contains the points contained by every child.
type Intersection struct {
	children []Solid
}

// NewIntersection intersects one or more solids.
func NewIntersection(children ...Solid) (*Intersection, error) {
	if err := checkChildren("intersection", children); err != nil {
		return nil, err
	}
	return &Intersection{children: cloneSolids(children)}, nil
}

func (n *Intersection) Children() []Solid { return cloneSolids(n.children) }
func (n *Intersection) Kind() Kind        { return KindIntersection }
func (*Intersection) solid()              {}

// IsInside stops at the first child not containing p.
func (n *Intersection) IsInside(p r3.Vec) bool {
	for _, c := range n.children {
		if !c.IsInside(p) {
			return false
		}
	}
	return true
}

// Bounds returns the overlap of the children's bounds. The result is
// empty (Min > Max on some axis) when the children cannot overlap.
func (n *Intersection) Bounds() r3.Box {
	bb := n.children[0].Bounds()
	for _, c := range n.children[1:] {
		bb = overlap(bb, c.Bounds())
	}
	return bb
}

// ---------------------------------------------------------------------------
// Subtraction
// ---------------------------------------------------------------------------

// Subtraction contains the points of base not contained by any subtracted
// solid. With nothing subtracted it is equivalent to base.
type Subtraction struct {
	base       Solid
	subtracted []Solid
}

// NewSubtraction removes the subtracted solids from base.
func NewSubtraction(base Solid, subtracted ...Solid) (*Subtraction, error) {
	if base == nil {
		return nil, fmt.Errorf("subtraction: base: %w", ErrNilSolid)
	}
	for i, c := range subtracted {
		if c == nil {
			return nil, fmt.Errorf("subtraction: subtrahend %d: %w", i, ErrNilSolid)
		}
	}
	return &Subtraction{base: base, subtracted: cloneSolids(subtracted)}, nil
}

func (s *Subtraction) Base() Solid         { return s.base }
func (s *Subtraction) Subtracted() []Solid { return cloneSolids(s.subtracted) }
func (s *Subtraction) Kind() Kind          { return KindSubtraction }
func (*Subtraction) solid()                {}

func (s *Subtraction) Children() []Solid {
	return append([]Solid{s.base}, s.subtracted...)
}

// IsInside evaluates the subtracted solids only when base contains p.
func (s *Subtraction) IsInside(p r3.Vec) bool {
	if !s.base.IsInside(p) {
		return false
	}
	for _, c := range s.subtracted {
		if c.IsInside(p) {
			return false
		}
	}
	return true
}

// Bounds returns the bounds of base.
func (s *Subtraction) Bounds() r3.Box {
	return s.base.Bounds()
}

// ---------------------------------------------------------------------------
// Fluent helpers
// ---------------------------------------------------------------------------

// Join returns the union of s and others.
func Join(s Solid, others ...Solid) (*Union, error) {
	return NewUnion(append([]Solid{s}, others...)...)
}

// Intersect returns the intersection of s and others.
func Intersect(s Solid, others ...Solid) (*Intersection, error) {
	return NewIntersection(append([]Solid{s}, others...)...)
}

// Subtract returns s with others removed.
func Subtract(s Solid, others ...Solid) (*Subtraction, error) {
	return NewSubtraction(s, others...)
}
