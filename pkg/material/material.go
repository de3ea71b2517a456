// Package material turns a solid into the material function consumed by a
// field solver: a callback mapping a point to the medium found there.
package material

import (
	"fmt"

	"github.com/chazu/vrep/pkg/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Medium describes a material by its relative permittivity.
type Medium struct {
	Name    string  `json:"name" yaml:"name"`
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
}

// Air is the default background medium.
var Air = Medium{Name: "air", Epsilon: 1}

// FromIndex returns a medium with the given refractive index.
func FromIndex(name string, index float64) Medium {
	return Medium{Name: name, Epsilon: index * index}
}

func (m Medium) String() string {
	if m.Name == "" {
		return fmt.Sprintf("medium(ε=%g)", m.Epsilon)
	}
	return fmt.Sprintf("%s(ε=%g)", m.Name, m.Epsilon)
}

// Func maps a point to the medium at that point.
type Func func(p r3.Vec) Medium

// Function returns a material function that yields fg inside s and bg
// everywhere else. The returned function is safe for concurrent use.
func Function(s solid.Solid, fg, bg Medium) Func {
	return func(p r3.Vec) Medium {
		if s.IsInside(p) {
			return fg
		}
		return bg
	}
}
