package solid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func hull(a, b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y), Z: math.Min(a.Min.Z, b.Min.Z)},
		Max: r3.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y), Z: math.Max(a.Max.Z, b.Max.Z)},
	}
}

func overlap(a, b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: math.Max(a.Min.X, b.Min.X), Y: math.Max(a.Min.Y, b.Min.Y), Z: math.Max(a.Min.Z, b.Min.Z)},
		Max: r3.Vec{X: math.Min(a.Max.X, b.Max.X), Y: math.Min(a.Max.Y, b.Max.Y), Z: math.Min(a.Max.Z, b.Max.Z)},
	}
}

// EmptyBounds reports whether bb encloses no volume.
func EmptyBounds(bb r3.Box) bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y || bb.Min.Z > bb.Max.Z
}

// FiniteBounds reports whether every component of bb is finite.
func FiniteBounds(bb r3.Box) bool {
	return finite(bb.Min) && finite(bb.Max)
}

// Disjoint reports whether a and b have no overlapping volume.
func Disjoint(a, b r3.Box) bool {
	return EmptyBounds(overlap(a, b))
}
