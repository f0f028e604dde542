package transform

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/dsp/conv"
	"github.com/cwbudde/algo-arpes/dsp/window"
	"github.com/cwbudde/algo-arpes/internal/ndarray"
)

// kernelRadius is the half-width of the smoothing kernel in units of sigma.
const kernelRadius = 4

// Smooth convolves every line along axis with a Gaussian of standard
// deviation sigma, measured in samples. The convolution is normalized by the
// convolved mask of finite samples, so NaN holes do not bleed into their
// neighbours and edges are not darkened. NaN samples stay NaN.
func Smooth(s *spectrum.Spectrum, axis spectrum.Axis, sigma float64) error {
	if err := checkAxis(s, axis); err != nil {
		return err
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: sigma %v", ErrParam, sigma)
	}
	kernel, err := window.GaussianSigma(sigma, kernelRadius)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParam, err)
	}

	n := s.Dimension[axis]
	out := make([]float64, len(s.Data))
	line := make([]float64, n)
	values := make([]float64, n)
	mask := make([]float64, n)
	for k := range ndarray.Lines(s.Dimension, int(axis)) {
		start, stride := ndarray.Line(s.Dimension, int(axis), k)
		ndarray.Gather(line, s.Data, start, stride)
		if err := smoothLine(line, values, mask, kernel); err != nil {
			return err
		}
		ndarray.Scatter(out, line, start, stride)
	}

	s.Data = out
	s.MarkModified()
	return nil
}

// smoothLine replaces line by its NaN-aware Gaussian average. values and
// mask are scratch buffers of the line's length.
func smoothLine(line, values, mask, kernel []float64) error {
	for i, v := range line {
		if math.IsNaN(v) {
			values[i], mask[i] = 0, 0
			continue
		}
		values[i], mask[i] = v, 1
	}

	sum, err := conv.ConvolveMode(values, kernel, conv.ModeSame)
	if err != nil {
		return fmt.Errorf("transform: smooth: %w", err)
	}
	weight, err := conv.ConvolveMode(mask, kernel, conv.ModeSame)
	if err != nil {
		return fmt.Errorf("transform: smooth: %w", err)
	}

	for i, v := range line {
		if math.IsNaN(v) || weight[i] < 1e-9 {
			line[i] = math.NaN()
			continue
		}
		line[i] = sum[i] / weight[i]
	}
	return nil
}
