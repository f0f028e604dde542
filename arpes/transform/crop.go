package transform

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/ndarray"
)

// Range is an inclusive interval in scale units.
type Range struct {
	Lo, Hi float64
}

// Crop keeps the samples inside ranges[i] along axis i. The bounds are
// snapped to the nearest scale samples; a bound lying strictly outside its
// nearest sample widens the cut by one more sample so that the requested
// interval is always covered.
func Crop(s *spectrum.Spectrum, ranges ...Range) error {
	if len(ranges) == 0 || len(ranges) > s.Dims() {
		return fmt.Errorf("%w: %d ranges for rank %d", ErrAxis, len(ranges), s.Dims())
	}
	for i, r := range ranges {
		if math.IsNaN(r.Lo) || math.IsNaN(r.Hi) {
			return fmt.Errorf("%w: NaN bound for %s", ErrParam, spectrum.Axis(i))
		}
	}

	data, dims := s.Data, s.Dimension
	scales := make([][]float64, len(ranges))
	for i, r := range ranges {
		scale := s.Axes[i].Scale
		lo, hi := cropIndices(scale, r.Lo, r.Hi)
		data, dims = ndarray.SliceAxis(data, dims, i, lo, hi)
		scales[i] = append([]float64(nil), scale[lo:hi+1]...)
	}

	s.Data = data
	s.Dimension = dims
	for i, scale := range scales {
		s.SetScale(spectrum.Axis(i), scale)
	}
	s.MarkModified()
	return nil
}

// cropIndices returns the inclusive index range covering [v0, v1] on a
// monotonic scale of either direction.
func cropIndices(scale []float64, v0, v1 float64) (lo, hi int) {
	n := len(scale)
	dir := 1.0
	if n > 1 && scale[n-1] < scale[0] {
		dir = -1
	}

	lo, hi = nearest(scale, v0), nearest(scale, v1)
	if lo > hi {
		lo, hi = hi, lo
		v0, v1 = v1, v0
	}
	if (v0-scale[lo])*dir < 0 {
		lo = max(lo-1, 0)
	}
	if (v1-scale[hi])*dir > 0 {
		hi = min(hi+1, n-1)
	}
	return lo, hi
}

// nearest returns the first index minimizing |scale[i]-v|.
func nearest(scale []float64, v float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, x := range scale {
		if d := math.Abs(x - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
