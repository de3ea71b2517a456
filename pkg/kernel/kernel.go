// Package kernel defines the abstract meshing kernel interface.
// Implementations turn a solid tree into a surface mesh; the membership
// predicate of package solid stays the source of truth, the kernel only
// produces geometry for viewing and export.
package kernel

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract meshing kernel interface.
// Primitives are centered on the origin.
type Kernel interface {
	// Primitives
	Sphere(radius float64) (Solid, error)
	Box(x, y, z float64) (Solid, error)

	// Boolean operations
	Union(solids ...Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Output
	ToMesh(s Solid) (*Mesh, error)
	WriteSTL(s Solid, path string) error
}
