package codec

import (
	"fmt"

	"github.com/chazu/vrep/pkg/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Document is the generic structured form of an encoded solid. It has the
// same shape as a JSON or YAML object decoded into a map.
type Document map[string]any

// Document field names.
const (
	FieldType     = "type"
	FieldCenter   = "center"
	FieldRadius   = "radius"
	FieldAxis     = "axis"
	FieldChildren = "children"
)

// UnboundedAxis is written for every unbounded box axis.
const UnboundedAxis = -1.0

// Type returns the discriminant of d and whether it is a string.
func (d Document) Type() (string, bool) {
	v, ok := d[FieldType]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Encode converts s to a document. It never fails for trees built with the
// constructors of package solid.
func Encode(s solid.Solid) Document {
	switch v := s.(type) {
	case *solid.Sphere:
		return Document{
			FieldType:   v.Kind().String(),
			FieldCenter: encodeVec(v.Center()),
			FieldRadius: v.Radius(),
		}
	case *solid.Box:
		axis := v.Extent()
		return Document{
			FieldType:   v.Kind().String(),
			FieldAxis:   []any{encodeAxis(axis.X), encodeAxis(axis.Y), encodeAxis(axis.Z)},
			FieldCenter: encodeVec(v.Center()),
		}
	case solid.Composite:
		children := v.Children()
		docs := make([]any, len(children))
		for i, c := range children {
			docs[i] = Encode(c)
		}
		return Document{
			FieldType:     v.Kind().String(),
			FieldChildren: docs,
		}
	default:
		// Unreachable: package solid seals the Solid interface.
		panic(fmt.Sprintf("codec: cannot encode %T", s))
	}
}

func encodeVec(v r3.Vec) []any {
	return []any{v.X, v.Y, v.Z}
}

func encodeAxis(a float64) float64 {
	if solid.IsUnbounded(a) {
		return UnboundedAxis
	}
	return a
}
