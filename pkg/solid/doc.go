// Package solid defines the constructive solid geometry tree used to build
// material functions. A tree of primitives (spheres, boxes) and boolean
// combinators (union, intersection, subtraction) is immutable once built
// and answers membership queries for points in 3D space.
package solid
