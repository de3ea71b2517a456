package solid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface checks.
var (
	_ Solid = (*Sphere)(nil)
	_ Solid = (*Box)(nil)
)

// ---------------------------------------------------------------------------
// Sphere
// ---------------------------------------------------------------------------

// Sphere is a closed ball: points on the surface are inside.
type Sphere struct {
	center r3.Vec
	radius float64
}

// NewSphere returns a sphere of the given radius centered at center.
func NewSphere(center r3.Vec, radius float64) (*Sphere, error) {
	if !finite(center) {
		return nil, fmt.Errorf("sphere center %v: %w", center, ErrNonFinite)
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrNonFinite)
	}
	if radius < 0 {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrNegativeRadius)
	}
	return &Sphere{center: center, radius: radius}, nil
}

func (s *Sphere) Center() r3.Vec  { return s.center }
func (s *Sphere) Radius() float64 { return s.radius }
func (s *Sphere) Kind() Kind      { return KindSphere }
func (*Sphere) solid()            {}

// IsInside reports whether p is no farther than the radius from the center.
func (s *Sphere) IsInside(p r3.Vec) bool {
	return r3.Norm(r3.Sub(p, s.center))-s.radius <= 0
}

// Bounds returns the cube enclosing the sphere.
func (s *Sphere) Bounds() r3.Box {
	r := r3.Vec{X: s.radius, Y: s.radius, Z: s.radius}
	return r3.Box{Min: r3.Sub(s.center, r), Max: r3.Add(s.center, r)}
}

// ---------------------------------------------------------------------------
// Box
// ---------------------------------------------------------------------------

// Box is an open axis-aligned box: points on a face are outside.
// An axis whose extent is Unbounded places no constraint on that axis.
type Box struct {
	extent r3.Vec
	center r3.Vec
}

// NewBox returns a box with the given full edge lengths centered at center.
// Negative extent components are normalized to Unbounded.
func NewBox(extent, center r3.Vec) (*Box, error) {
	if !finite(center) {
		return nil, fmt.Errorf("box center %v: %w", center, ErrNonFinite)
	}
	if math.IsNaN(extent.X) || math.IsNaN(extent.Y) || math.IsNaN(extent.Z) {
		return nil, fmt.Errorf("box extent %v: %w", extent, ErrNonFinite)
	}
	extent.X = normalizeAxis(extent.X)
	extent.Y = normalizeAxis(extent.Y)
	extent.Z = normalizeAxis(extent.Z)
	return &Box{extent: extent, center: center}, nil
}

func normalizeAxis(a float64) float64 {
	if a < 0 || math.IsInf(a, 1) {
		return Unbounded
	}
	return a
}

// IsUnbounded reports whether the axis extent carries no limit.
func IsUnbounded(a float64) bool { return math.IsInf(a, 1) }

func (b *Box) Extent() r3.Vec { return b.extent }
func (b *Box) Center() r3.Vec { return b.center }
func (b *Box) Kind() Kind     { return KindBox }
func (*Box) solid()           {}

// IsInside reports whether p lies strictly within every bounded axis.
func (b *Box) IsInside(p r3.Vec) bool {
	d := r3.Sub(p, b.center)
	return withinAxis(d.X, b.extent.X) &&
		withinAxis(d.Y, b.extent.Y) &&
		withinAxis(d.Z, b.extent.Z)
}

func withinAxis(d, extent float64) bool {
	if IsUnbounded(extent) {
		return true
	}
	return math.Abs(d)-extent/2 < 0
}

// Bounds returns the box itself. Unbounded axes span the whole real line.
func (b *Box) Bounds() r3.Box {
	h := r3.Scale(0.5, b.extent)
	return r3.Box{Min: r3.Sub(b.center, h), Max: r3.Add(b.center, h)}
}
