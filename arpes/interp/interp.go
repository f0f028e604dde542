package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrGrid is returned when sample coordinates and values are inconsistent.
var ErrGrid = errors.New("interp: invalid grid")

// Linspace returns n evenly spaced values from lo to hi inclusive.
// n == 1 yields [lo]; n <= 0 yields an empty slice.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Monotonic reports whether xs is strictly increasing or strictly decreasing.
// A single point counts as monotonic.
func Monotonic(xs []float64) bool {
	if len(xs) == 0 {
		return false
	}
	if len(xs) == 1 {
		return !math.IsNaN(xs[0])
	}
	asc := xs[1] > xs[0]
	for i := 1; i < len(xs); i++ {
		if asc && !(xs[i] > xs[i-1]) {
			return false
		}
		if !asc && !(xs[i] < xs[i-1]) {
			return false
		}
	}
	return true
}

// locate finds the cell of q on a strictly monotonic axis. It returns the
// left index j and the fraction t so that q = xs[j] + t*(xs[j+1]-xs[j]).
// ok is false when q lies outside [min(xs), max(xs)].
func locate(xs []float64, q float64) (j int, t float64, ok bool) {
	n := len(xs)
	if math.IsNaN(q) || n == 0 {
		return 0, 0, false
	}
	if n == 1 {
		return 0, 0, q == xs[0]
	}

	first, last := xs[0], xs[n-1]
	if first < last {
		if q < first || q > last {
			return 0, 0, false
		}
		// smallest k with xs[k] >= q
		k := sort.SearchFloat64s(xs, q)
		if k == 0 {
			return 0, 0, true
		}
		j = k - 1
	} else {
		if q > first || q < last {
			return 0, 0, false
		}
		k := sort.Search(n, func(i int) bool { return xs[i] <= q })
		if k == 0 {
			return 0, 0, true
		}
		j = k - 1
	}
	if j >= n-1 {
		j = n - 2
	}
	return j, (q - xs[j]) / (xs[j+1] - xs[j]), true
}

// Linear evaluates the piecewise-linear interpolant through (x, y) at every
// query point. x must be strictly monotonic. Queries outside the range of x
// yield fill.
func Linear(x, y, query []float64, fill float64) ([]float64, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, fmt.Errorf("%w: interpolate requires non-empty x and y", ErrGrid)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: x/y length mismatch: %d != %d", ErrGrid, len(x), len(y))
	}
	if !Monotonic(x) {
		return nil, fmt.Errorf("%w: x must be strictly monotonic", ErrGrid)
	}

	out := make([]float64, len(query))
	for i, q := range query {
		j, t, ok := locate(x, q)
		switch {
		case !ok:
			out[i] = fill
		case t == 0:
			out[i] = y[j]
		default:
			out[i] = y[j] + t*(y[j+1]-y[j])
		}
	}
	return out, nil
}

// Grid2D is a bilinear interpolant over a regular grid. Values are stored
// row-major: the sample at (xs[i], ys[j]) is values[i*len(ys)+j].
// A Grid2D is immutable and safe for concurrent use.
type Grid2D struct {
	xs, ys []float64
	values []float64
}

// NewGrid2D builds a grid interpolant. xs and ys must be strictly monotonic
// (either direction). The slices are retained, not copied.
func NewGrid2D(xs, ys, values []float64) (*Grid2D, error) {
	if !Monotonic(xs) || !Monotonic(ys) {
		return nil, fmt.Errorf("%w: axes must be strictly monotonic", ErrGrid)
	}
	if len(values) != len(xs)*len(ys) {
		return nil, fmt.Errorf("%w: %d values for %dx%d grid", ErrGrid, len(values), len(xs), len(ys))
	}
	return &Grid2D{xs: xs, ys: ys, values: values}, nil
}

// At returns the interpolated value at (x, y), or NaN outside the grid.
// NaN samples propagate into every cell they touch.
func (g *Grid2D) At(x, y float64) float64 {
	i, tx, ok := locate(g.xs, x)
	if !ok {
		return math.NaN()
	}
	j, ty, ok := locate(g.ys, y)
	if !ok {
		return math.NaN()
	}

	ny := len(g.ys)
	v00 := g.values[i*ny+j]
	if tx == 0 && ty == 0 {
		return v00
	}
	if tx == 0 {
		return v00 + ty*(g.values[i*ny+j+1]-v00)
	}
	v10 := g.values[(i+1)*ny+j]
	if ty == 0 {
		return v00 + tx*(v10-v00)
	}
	v01 := g.values[i*ny+j+1]
	v11 := g.values[(i+1)*ny+j+1]
	a := v00 + ty*(v01-v00)
	b := v10 + ty*(v11-v10)
	return a + tx*(b-a)
}

// Eval evaluates the grid at paired coordinates, writing into dst.
// dst, x and y must have the same length.
func (g *Grid2D) Eval(dst, x, y []float64) {
	for k := range dst {
		dst[k] = g.At(x[k], y[k])
	}
}
