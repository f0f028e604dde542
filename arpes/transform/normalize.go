package transform

import (
	"math"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/ndarray"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Normalize min-max scales every line running along axis to [0, 1].
// Lines with fewer than two finite samples, or with a flat profile, become
// all NaN. Non-finite samples (NaN and ±Inf) become NaN.
func Normalize(s *spectrum.Spectrum, axis spectrum.Axis) error {
	if err := checkAxis(s, axis); err != nil {
		return err
	}

	out := append([]float64(nil), s.Data...)
	n := s.Dimension[axis]
	line := make([]float64, n)
	for k := range ndarray.Lines(s.Dimension, int(axis)) {
		start, stride := ndarray.Line(s.Dimension, int(axis), k)
		ndarray.Gather(line, out, start, stride)
		normalizeLine(line)
		ndarray.Scatter(out, line, start, stride)
	}

	s.Data = out
	s.MarkModified()
	return nil
}

func normalizeLine(line []float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	finite := 0
	for _, v := range line {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite++
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if finite < 2 || hi == lo {
		for i := range line {
			line[i] = math.NaN()
		}
		return
	}
	floats.AddConst(-lo, line)
	vecmath.ScaleBlock(line, line, 1/(hi-lo))
	for i, v := range line {
		if math.IsInf(v, 0) {
			line[i] = math.NaN()
		}
	}
}

// Offset shifts the scale of axis by delta.
func Offset(s *spectrum.Spectrum, axis spectrum.Axis, delta float64) error {
	if err := checkAxis(s, axis); err != nil {
		return err
	}
	scale := append([]float64(nil), s.Axes[axis].Scale...)
	floats.AddConst(delta, scale)
	s.SetScale(axis, scale)
	s.MarkModified()
	return nil
}

// ReplaceNaN substitutes value for every NaN sample and reports how many
// were replaced. The Spectrum is only marked modified when something
// changed.
func ReplaceNaN(s *spectrum.Spectrum, value float64) int {
	n := 0
	for i, v := range s.Data {
		if math.IsNaN(v) {
			s.Data[i] = value
			n++
		}
	}
	if n > 0 {
		s.MarkModified()
	}
	return n
}
