// Package tessellate walks a solid tree and produces a triangle mesh
// using a geometry kernel. Membership is decided by package solid; the
// mesh is an approximation for viewing and export.
package tessellate

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/vrep/pkg/kernel"
	"github.com/chazu/vrep/pkg/solid"
)

// DefaultClipExtent is the edge length used in place of an unbounded box
// axis when no other value is configured.
const DefaultClipExtent = 100.0

// ErrEmpty is returned when a tree has no volume to mesh, for example a
// lone zero-radius sphere.
var ErrEmpty = errors.New("tessellate: solid has no volume")

// Options controls tessellation.
type Options struct {
	// ClipExtent pads the finite hull of the tree on every axis a box
	// leaves unbounded. Zero means DefaultClipExtent.
	ClipExtent float64
	// Name is copied into the resulting mesh.
	Name string
}

func (o Options) clipExtent() float64 {
	if o.ClipExtent <= 0 {
		return DefaultClipExtent
	}
	return o.ClipExtent
}

// Build converts a solid tree into a kernel solid. The tree is read-only
// and never mutated. Primitives without volume are dropped; if nothing is
// left Build returns ErrEmpty.
func Build(s solid.Solid, k kernel.Kernel, opts Options) (kernel.Solid, error) {
	if s == nil {
		return nil, ErrEmpty
	}
	b := &builder{k: k, slab: clipSlabs(s, opts.clipExtent())}
	ks, err := b.build("", s)
	if err != nil {
		return nil, err
	}
	if ks == nil {
		return nil, ErrEmpty
	}
	return ks, nil
}

// Tessellate builds the tree and meshes it.
func Tessellate(s solid.Solid, k kernel.Kernel, opts Options) (*kernel.Mesh, error) {
	ks, err := Build(s, k, opts)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(ks)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed: %w", err)
	}
	mesh.Name = opts.Name
	return mesh, nil
}

// WriteSTL builds the tree and writes it to path as an STL file.
func WriteSTL(s solid.Solid, k kernel.Kernel, path string, opts Options) error {
	ks, err := Build(s, k, opts)
	if err != nil {
		return err
	}
	if err := k.WriteSTL(ks, path); err != nil {
		return fmt.Errorf("tessellate: %w", err)
	}
	return nil
}

// slab is the stretch of one axis that stands in for the whole line.
type slab struct {
	center, extent float64
}

// clipSlabs spans, per axis, the finite bounds of every primitive in s
// padded by clip/2 on each side. An axis with no finite bound anywhere
// in the tree gets a slab of width clip centered on the origin.
func clipSlabs(s solid.Solid, clip float64) [3]slab {
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	_ = solid.Walk(s, func(_ string, n solid.Solid) error {
		switch n.(type) {
		case *solid.Sphere, *solid.Box:
		default:
			return nil
		}
		bb := n.Bounds()
		mins := [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
		maxs := [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
		for i := range lo {
			if !math.IsInf(mins[i], 0) {
				lo[i] = math.Min(lo[i], mins[i])
			}
			if !math.IsInf(maxs[i], 0) {
				hi[i] = math.Max(hi[i], maxs[i])
			}
		}
		return nil
	})
	var out [3]slab
	for i := range out {
		if lo[i] > hi[i] {
			out[i] = slab{extent: clip}
			continue
		}
		out[i] = slab{center: (lo[i] + hi[i]) / 2, extent: hi[i] - lo[i] + clip}
	}
	return out
}

// builder carries the kernel and clip slabs through the recursive walk.
// A nil kernel solid with a nil error means "no volume".
type builder struct {
	k    kernel.Kernel
	slab [3]slab
}

func (b *builder) build(path string, s solid.Solid) (kernel.Solid, error) {
	switch n := s.(type) {
	case *solid.Sphere:
		return b.sphere(path, n)
	case *solid.Box:
		return b.box(path, n)
	case *solid.Union:
		return b.union(path, n.Children())
	case *solid.Intersection:
		return b.intersection(path, n.Children())
	case *solid.Subtraction:
		return b.subtraction(path, n)
	default:
		return nil, fmt.Errorf("tessellate: %s: unsupported solid %T", pathOrRoot(path), s)
	}
}

func (b *builder) sphere(path string, s *solid.Sphere) (kernel.Solid, error) {
	if s.Radius() == 0 {
		return nil, nil
	}
	ks, err := b.k.Sphere(s.Radius())
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", pathOrRoot(path), err)
	}
	c := s.Center()
	return b.k.Translate(ks, c.X, c.Y, c.Z), nil
}

func (b *builder) box(path string, s *solid.Box) (kernel.Solid, error) {
	e, c := s.Extent(), s.Center()
	// The center coordinate of an unbounded axis has no effect on
	// membership, so the slab replaces both.
	if solid.IsUnbounded(e.X) {
		e.X, c.X = b.slab[0].extent, b.slab[0].center
	}
	if solid.IsUnbounded(e.Y) {
		e.Y, c.Y = b.slab[1].extent, b.slab[1].center
	}
	if solid.IsUnbounded(e.Z) {
		e.Z, c.Z = b.slab[2].extent, b.slab[2].center
	}
	if e.X == 0 || e.Y == 0 || e.Z == 0 {
		return nil, nil
	}
	ks, err := b.k.Box(e.X, e.Y, e.Z)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", pathOrRoot(path), err)
	}
	return b.k.Translate(ks, c.X, c.Y, c.Z), nil
}

// children builds every child, dropping the ones without volume.
func (b *builder) children(path string, children []solid.Solid) ([]kernel.Solid, error) {
	var out []kernel.Solid
	for i, c := range children {
		ks, err := b.build(solid.ChildPath(path, i), c)
		if err != nil {
			return nil, err
		}
		if ks != nil {
			out = append(out, ks)
		}
	}
	return out, nil
}

func (b *builder) union(path string, children []solid.Solid) (kernel.Solid, error) {
	parts, err := b.children(path, children)
	if err != nil || len(parts) == 0 {
		return nil, err
	}
	return b.k.Union(parts...), nil
}

func (b *builder) intersection(path string, children []solid.Solid) (kernel.Solid, error) {
	parts, err := b.children(path, children)
	if err != nil {
		return nil, err
	}
	// Any empty operand empties the whole intersection.
	if len(parts) != len(children) {
		return nil, nil
	}
	acc := parts[0]
	for _, p := range parts[1:] {
		acc = b.k.Intersection(acc, p)
	}
	return acc, nil
}

func (b *builder) subtraction(path string, s *solid.Subtraction) (kernel.Solid, error) {
	base, err := b.build(solid.ChildPath(path, 0), s.Base())
	if err != nil || base == nil {
		return nil, err
	}
	var subs []kernel.Solid
	for i, c := range s.Subtracted() {
		ks, err := b.build(solid.ChildPath(path, i+1), c)
		if err != nil {
			return nil, err
		}
		if ks != nil {
			subs = append(subs, ks)
		}
	}
	if len(subs) == 0 {
		return base, nil
	}
	return b.k.Difference(base, b.k.Union(subs...)), nil
}

func pathOrRoot(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
