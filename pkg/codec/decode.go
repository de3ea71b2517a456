package codec

import (
	"encoding/json"
	"fmt"

	"github.com/chazu/vrep/pkg/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Decode reconstructs a solid from d. It dispatches on the "type" field and
// fails fast: the first failing subtree aborts the whole decode and no
// partial tree is returned. Failures are always *DecodeError values.
func Decode(d Document) (solid.Solid, error) {
	return decodeAt("", d)
}

func decodeAt(path string, d Document) (solid.Solid, error) {
	raw, ok := d[FieldType]
	if !ok {
		return nil, &DecodeError{Kind: MissingDiscriminant, Path: path}
	}
	name, ok := raw.(string)
	if !ok {
		return nil, &DecodeError{
			Kind:  InvalidField,
			Field: FieldType,
			Path:  path,
			Err:   fmt.Errorf("expected string, got %T", raw),
		}
	}
	kind, ok := solid.ParseKind(name)
	if !ok {
		return nil, &DecodeError{Kind: UnknownVariant, Variant: name, Path: path}
	}

	dec := decoder{path: path, variant: name, doc: d}
	switch kind {
	case solid.KindSphere:
		return dec.sphere()
	case solid.KindBox:
		return dec.box()
	case solid.KindUnion:
		return dec.union()
	case solid.KindIntersection:
		return dec.intersection()
	case solid.KindSubtraction:
		return dec.subtraction()
	default:
		return nil, &DecodeError{Kind: UnknownVariant, Variant: name, Path: path}
	}
}

// decoder holds the context of one document being decoded.
type decoder struct {
	path    string
	variant string
	doc     Document
}

func (dec decoder) fail(kind ErrorKind, field string, err error) error {
	return &DecodeError{Kind: kind, Variant: dec.variant, Field: field, Path: dec.path, Err: err}
}

func (dec decoder) field(name string) (any, error) {
	v, ok := dec.doc[name]
	if !ok {
		return nil, dec.fail(MissingField, name, nil)
	}
	return v, nil
}

func (dec decoder) number(name string) (float64, error) {
	v, err := dec.field(name)
	if err != nil {
		return 0, err
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, dec.fail(InvalidField, name, err)
	}
	return f, nil
}

func (dec decoder) vec(name string) (r3.Vec, error) {
	v, err := dec.field(name)
	if err != nil {
		return r3.Vec{}, err
	}
	items, err := toSlice(v)
	if err != nil {
		return r3.Vec{}, dec.fail(InvalidField, name, err)
	}
	if len(items) != 3 {
		return r3.Vec{}, dec.fail(InvalidField, name, fmt.Errorf("expected 3 components, got %d", len(items)))
	}
	var c [3]float64
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return r3.Vec{}, dec.fail(InvalidField, name, fmt.Errorf("component %d: %w", i, err))
		}
		c[i] = f
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

// children decodes every nested document, requiring at least one.
func (dec decoder) children() ([]solid.Solid, error) {
	v, err := dec.field(FieldChildren)
	if err != nil {
		return nil, err
	}
	items, err := toSlice(v)
	if err != nil {
		return nil, dec.fail(InvalidField, FieldChildren, err)
	}
	if len(items) == 0 {
		return nil, dec.fail(InvalidSolid, FieldChildren, solid.ErrNoChildren)
	}
	out := make([]solid.Solid, len(items))
	for i, item := range items {
		childPath := solid.ChildPath(dec.path, i)
		doc, err := toDocument(item)
		if err != nil {
			return nil, &DecodeError{Kind: InvalidField, Variant: dec.variant, Field: FieldChildren, Path: childPath, Err: err}
		}
		c, err := decodeAt(childPath, doc)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (dec decoder) built(s solid.Solid, err error) (solid.Solid, error) {
	if err != nil {
		return nil, dec.fail(InvalidSolid, "", err)
	}
	return s, nil
}

func (dec decoder) sphere() (solid.Solid, error) {
	center, err := dec.vec(FieldCenter)
	if err != nil {
		return nil, err
	}
	radius, err := dec.number(FieldRadius)
	if err != nil {
		return nil, err
	}
	return dec.built(solid.NewSphere(center, radius))
}

// box normalizes negative axis components to unbounded through the
// constructor.
func (dec decoder) box() (solid.Solid, error) {
	axis, err := dec.vec(FieldAxis)
	if err != nil {
		return nil, err
	}
	center, err := dec.vec(FieldCenter)
	if err != nil {
		return nil, err
	}
	return dec.built(solid.NewBox(axis, center))
}

func (dec decoder) union() (solid.Solid, error) {
	children, err := dec.children()
	if err != nil {
		return nil, err
	}
	return dec.built(solid.NewUnion(children...))
}

func (dec decoder) intersection() (solid.Solid, error) {
	children, err := dec.children()
	if err != nil {
		return nil, err
	}
	return dec.built(solid.NewIntersection(children...))
}

func (dec decoder) subtraction() (solid.Solid, error) {
	children, err := dec.children()
	if err != nil {
		return nil, err
	}
	return dec.built(solid.NewSubtraction(children[0], children[1:]...))
}

// ---------------------------------------------------------------------------
// Generic value helpers
// ---------------------------------------------------------------------------

// toFloat64 accepts the numeric forms produced by encoding/json, yaml.v3
// and Encode.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}

func toSlice(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case []float64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, nil
	case []Document:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected sequence, got %T", v)
}

func toDocument(v any) (Document, error) {
	switch d := v.(type) {
	case Document:
		return d, nil
	case map[string]any:
		return Document(d), nil
	}
	return nil, fmt.Errorf("expected document, got %T", v)
}
