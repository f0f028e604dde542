package transform

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/ndarray"
)

var (
	// ErrRank is returned when an operation does not support the rank of
	// the Spectrum.
	ErrRank = errors.New("transform: unsupported rank")
	// ErrAxis is returned for an axis that is absent from the Spectrum.
	ErrAxis = errors.New("transform: invalid axis")
	// ErrParam is returned for out-of-range numeric arguments.
	ErrParam = errors.New("transform: invalid parameter")
)

func checkAxis(s *spectrum.Spectrum, axis spectrum.Axis) error {
	if !axis.Valid() || int(axis) >= s.Dims() {
		return fmt.Errorf("%w: %q for rank %d", ErrAxis, axis, s.Dims())
	}
	return nil
}

// Transpose swaps the X and Y axes of a 2D or 3D Spectrum. Z is kept in
// place. The energy tag follows its axis.
func Transpose(s *spectrum.Spectrum) error {
	switch s.Dims() {
	case 2:
		permute(s, []int{1, 0})
	case 3:
		permute(s, []int{1, 0, 2})
	default:
		return fmt.Errorf("%w: transpose needs 2D or 3D data, got %dD", ErrRank, s.Dims())
	}
	return nil
}

// ChangeZAxis rotates the axes of a 3D Spectrum so that axis becomes Z.
// X→Z maps (x, y, z) to (y, z, x); Y→Z maps it to (z, x, y). Z is a no-op.
func ChangeZAxis(s *spectrum.Spectrum, axis spectrum.Axis) error {
	if s.Dims() != 3 {
		return fmt.Errorf("%w: change of Z axis needs 3D data, got %dD", ErrRank, s.Dims())
	}
	switch axis {
	case spectrum.X:
		permute(s, []int{1, 2, 0})
	case spectrum.Y:
		permute(s, []int{2, 0, 1})
	case spectrum.Z:
	default:
		return fmt.Errorf("%w: %q", ErrAxis, axis)
	}
	return nil
}

// permute reorders the axes so that new axis a is old axis perm[a].
func permute(s *spectrum.Spectrum, perm []int) {
	data, dims := ndarray.Permute(s.Data, s.Dimension, perm)

	scales := make([][]float64, len(perm))
	energy := s.EnergyAxis
	for a, p := range perm {
		scales[a] = s.Axes[p].Scale
		if s.EnergyAxis == spectrum.Axis(p) {
			energy = spectrum.Axis(a)
		}
	}

	s.Data = data
	s.Dimension = dims
	for a := range perm {
		s.SetScale(spectrum.Axis(a), scales[a])
	}
	s.EnergyAxis = energy
	s.MarkModified()
}

// Mirror reverses the data along axis and replaces its scale by the negated,
// reversed scale, so Min and Max become -Max and -Min.
func Mirror(s *spectrum.Spectrum, axis spectrum.Axis) error {
	if err := checkAxis(s, axis); err != nil {
		return err
	}

	old := s.Axes[axis].Scale
	scale := make([]float64, len(old))
	for i, v := range old {
		scale[len(old)-1-i] = -v
	}

	s.Data = ndarray.Reverse(s.Data, s.Dimension, int(axis))
	s.SetScale(axis, scale)
	s.MarkModified()
	return nil
}
