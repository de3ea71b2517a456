package solid

import (
	"errors"
	"fmt"
)

// SkipChildren may be returned by a WalkFunc to skip the children of the
// solid it was called with.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every solid visited by Walk. path locates s
// relative to the root using the same notation as document decoding
// errors, e.g. "children[1].children[0]". The root has an empty path.
type WalkFunc func(path string, s Solid) error

// Walk visits s and its descendants depth-first in document order. It is
// read-only and never mutates the tree.
func Walk(s Solid, fn WalkFunc) error {
	return walk("", s, fn)
}

func walk(path string, s Solid, fn WalkFunc) error {
	err := fn(path, s)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}
	c, ok := s.(Composite)
	if !ok {
		return nil
	}
	for i, child := range c.Children() {
		if err := walk(ChildPath(path, i), child, fn); err != nil {
			return err
		}
	}
	return nil
}

// ChildPath returns the path of the i-th child below parent.
func ChildPath(parent string, i int) string {
	if parent == "" {
		return fmt.Sprintf("children[%d]", i)
	}
	return fmt.Sprintf("%s.children[%d]", parent, i)
}

// TreeStats summarizes the shape of a solid tree.
type TreeStats struct {
	Nodes  int
	Depth  int
	ByKind map[Kind]int
}

// Stats counts the nodes of s. A lone primitive has depth 1.
func Stats(s Solid) TreeStats {
	st := TreeStats{ByKind: make(map[Kind]int)}
	st.Depth = depth(s)
	_ = Walk(s, func(_ string, n Solid) error {
		st.Nodes++
		st.ByKind[n.Kind()]++
		return nil
	})
	return st
}

func depth(s Solid) int {
	c, ok := s.(Composite)
	if !ok {
		return 1
	}
	d := 0
	for _, child := range c.Children() {
		if cd := depth(child); cd > d {
			d = cd
		}
	}
	return d + 1
}
