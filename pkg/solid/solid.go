package solid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Unbounded is the extent of a box axis that has no limit.
var Unbounded = math.Inf(1)

var (
	ErrNilSolid       = errors.New("solid: nil solid")
	ErrNoChildren     = errors.New("solid: combinator requires at least one child")
	ErrNegativeRadius = errors.New("solid: negative radius")
	ErrNonFinite      = errors.New("solid: non-finite value")
)

// Solid is a region of 3D space. Implementations are restricted to this
// package so that encoders can switch over every variant.
type Solid interface {
	// IsInside reports whether p lies within the solid.
	IsInside(p r3.Vec) bool
	// Kind returns the variant discriminant.
	Kind() Kind
	// Bounds returns an axis-aligned box containing the solid. Components
	// may be infinite for unbounded boxes.
	Bounds() r3.Box

	solid() // marker method restricting implementations to this package
}

// Kind enumerates the solid variants.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindUnion
	KindIntersection
	KindSubtraction
)

// Kinds lists every variant in declaration order.
var Kinds = []Kind{KindSphere, KindBox, KindUnion, KindIntersection, KindSubtraction}

// String returns the discriminant name used in serialized documents.
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "Sphere"
	case KindBox:
		return "Box"
	case KindUnion:
		return "Union"
	case KindIntersection:
		return "Intersection"
	case KindSubtraction:
		return "Subtraction"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsCombinator reports whether the variant holds child solids.
func (k Kind) IsCombinator() bool {
	return k == KindUnion || k == KindIntersection || k == KindSubtraction
}

// ParseKind maps a discriminant name to its Kind. Matching is exact.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Must panics if err is non-nil and returns s otherwise.
func Must[T Solid](s T, err error) T {
	if err != nil {
		panic(err)
	}
	return s
}

func finite(v r3.Vec) bool {
	return !math.IsInf(v.X, 0) && !math.IsNaN(v.X) &&
		!math.IsInf(v.Y, 0) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.Z, 0) && !math.IsNaN(v.Z)
}
