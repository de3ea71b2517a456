package material

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxGridCells bounds the number of cells a single Sample may allocate.
const MaxGridCells = 1 << 24

var (
	// ErrEmptyGrid is returned when a grid contains no cells.
	ErrEmptyGrid = errors.New("material: empty grid")
	// ErrGridTooLarge is returned when a grid holds more than MaxGridCells.
	ErrGridTooLarge = errors.New("material: grid too large")
)

// Grid is a uniform sampling lattice over an axis-aligned region.
// Resolution is the number of cells per unit length.
type Grid struct {
	Min, Max   r3.Vec
	Resolution float64
}

// Dims returns the number of cells along each axis. Each count is capped
// at MaxGridCells.
func (g Grid) Dims() (nx, ny, nz int) {
	fx, fy, fz := g.cells()
	return int(fx), int(fy), int(fz)
}

func (g Grid) cells() (nx, ny, nz float64) {
	axis := func(lo, hi float64) float64 {
		n := math.Ceil((hi - lo) * g.Resolution)
		if n < 0 || math.IsNaN(n) {
			return 0
		}
		return math.Min(n, MaxGridCells)
	}
	return axis(g.Min.X, g.Max.X), axis(g.Min.Y, g.Max.Y), axis(g.Min.Z, g.Max.Z)
}

// Point returns the center of cell (i, j, k).
func (g Grid) Point(i, j, k int) r3.Vec {
	h := 1 / g.Resolution
	return r3.Vec{
		X: g.Min.X + (float64(i)+0.5)*h,
		Y: g.Min.Y + (float64(j)+0.5)*h,
		Z: g.Min.Z + (float64(k)+0.5)*h,
	}
}

// Validate reports whether g can be sampled.
func (g Grid) Validate() error {
	if g.Resolution <= 0 || math.IsInf(g.Resolution, 0) || math.IsNaN(g.Resolution) {
		return fmt.Errorf("material: resolution %v must be positive and finite", g.Resolution)
	}
	for _, v := range []r3.Vec{g.Min, g.Max} {
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if math.IsInf(c, 0) || math.IsNaN(c) {
				return fmt.Errorf("material: grid bounds must be finite, got %v..%v", g.Min, g.Max)
			}
		}
	}
	nx, ny, nz := g.cells()
	if nx == 0 || ny == 0 || nz == 0 {
		return ErrEmptyGrid
	}
	if nx*ny*nz > MaxGridCells {
		return fmt.Errorf("%w: %gx%gx%g cells, limit %d", ErrGridTooLarge, nx, ny, nz, MaxGridCells)
	}
	return nil
}

// Map holds the permittivity sampled at every grid cell, x fastest.
type Map struct {
	Grid       Grid
	Nx, Ny, Nz int
	Epsilon    []float64
}

// At returns the permittivity of cell (i, j, k).
func (m *Map) At(i, j, k int) float64 {
	return m.Epsilon[(k*m.Ny+j)*m.Nx+i]
}

// Fraction returns the share of cells whose permittivity matches med.
func (m *Map) Fraction(med Medium) float64 {
	if len(m.Epsilon) == 0 {
		return 0
	}
	n := 0
	for _, e := range m.Epsilon {
		if e == med.Epsilon {
			n++
		}
	}
	return float64(n) / float64(len(m.Epsilon))
}

// Sample evaluates fn at the center of every cell of g. Z slabs are
// evaluated concurrently by at most workers goroutines; workers <= 0 uses
// GOMAXPROCS. fn must be safe for concurrent use, which holds for every
// function built by Function.
func Sample(ctx context.Context, fn Func, g Grid, workers int) (*Map, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	nx, ny, nz := g.Dims()
	m := &Map{Grid: g, Nx: nx, Ny: ny, Nz: nz, Epsilon: make([]float64, nx*ny*nz)}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for k := 0; k < nz; k++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slab := m.Epsilon[k*nx*ny : (k+1)*nx*ny]
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					slab[j*nx+i] = fn(g.Point(i, j, k)).Epsilon
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("material: sample: %w", err)
	}
	return m, nil
}
