package transform

import (
	"fmt"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/ndarray"
	"github.com/cwbudde/algo-vecmath"
)

// Merge rebins the Spectrum by factors[i] along axis i. Each output bin is
// the mean of factor consecutive input samples; a trailing partial bin is the
// mean of the remaining samples. Factors outside [2, extent) leave their
// axis untouched. The new scale starts at the centre of the first bin and
// advances by factor·step.
func Merge(s *spectrum.Spectrum, factors ...int) error {
	if len(factors) == 0 || len(factors) > s.Dims() {
		return fmt.Errorf("%w: %d factors for rank %d", ErrAxis, len(factors), s.Dims())
	}

	data, dims := s.Data, s.Dimension
	scales := make([][]float64, len(factors))
	changed := false
	for axis, f := range factors {
		if f < 2 || f >= dims[axis] {
			continue
		}
		data, dims = mergeAxis(data, dims, axis, f)

		info := s.Axes[axis]
		offset := info.Min + info.Step*float64(f-1)/2
		step := info.Step * float64(f)
		scale := make([]float64, dims[axis])
		for i := range scale {
			scale[i] = offset + float64(i)*step
		}
		scales[axis] = scale
		changed = true
	}
	if !changed {
		return nil
	}

	s.Data = data
	s.Dimension = dims
	for axis, scale := range scales {
		if scale != nil {
			s.SetScale(spectrum.Axis(axis), scale)
		}
	}
	s.MarkModified()
	return nil
}

func mergeAxis(data []float64, dims []int, axis, factor int) ([]float64, []int) {
	outer, n, inner := ndarray.Split(dims, axis)
	bins := (n + factor - 1) / factor

	out := make([]float64, outer*bins*inner)
	acc := make([]float64, inner)
	for o := range outer {
		for b := range bins {
			clear(acc)
			first := b * factor
			last := min(first+factor, n)
			for i := first; i < last; i++ {
				src := (o*n + i) * inner
				vecmath.AddBlockInPlace(acc, data[src:src+inner])
			}
			dst := (o*bins + b) * inner
			vecmath.ScaleBlock(out[dst:dst+inner], acc, 1/float64(last-first))
		}
	}

	outDims := append([]int(nil), dims...)
	outDims[axis] = bins
	return out, outDims
}
