package solid

import "fmt"

// Finding is an advisory note about a solid tree. Findings never prevent a
// tree from being used; they point at parts that are probably unintended.
type Finding struct {
	Path    string // location of the solid, empty for the root
	Kind    Kind
	Message string
}

func (f Finding) String() string {
	where := f.Path
	if where == "" {
		where = "root"
	}
	return fmt.Sprintf("%s (%s): %s", where, f.Kind, f.Message)
}

// Lint inspects s and returns findings in document order.
func Lint(s Solid) []Finding {
	var out []Finding
	add := func(path string, n Solid, format string, args ...any) {
		out = append(out, Finding{Path: path, Kind: n.Kind(), Message: fmt.Sprintf(format, args...)})
	}

	_ = Walk(s, func(path string, n Solid) error {
		switch v := n.(type) {
		case *Sphere:
			if v.radius == 0 {
				add(path, n, "radius is zero, the sphere contains only its center")
			}
		case *Box:
			e := v.extent
			for _, ax := range []struct {
				name string
				val  float64
			}{{"x", e.X}, {"y", e.Y}, {"z", e.Z}} {
				if ax.val == 0 {
					add(path, n, "extent along %s is zero, the box contains no points", ax.name)
				}
			}
		case *Union:
			if len(v.children) == 1 {
				add(path, n, "single child, the union is equivalent to it")
			}
		case *Intersection:
			if len(v.children) == 1 {
				add(path, n, "single child, the intersection is equivalent to it")
			}
			if EmptyBounds(v.Bounds()) {
				add(path, n, "children do not overlap, the intersection is empty")
			}
		case *Subtraction:
			if len(v.subtracted) == 0 {
				add(path, n, "nothing subtracted, the subtraction is equivalent to its base")
			}
			base := v.base.Bounds()
			for i, c := range v.subtracted {
				if Disjoint(base, c.Bounds()) {
					add(ChildPath(path, i+1), c, "does not overlap the base, subtracting it has no effect")
				}
			}
		}
		return nil
	})
	return out
}
