package kspace

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-arpes/arpes/interp"
	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrDomain is returned when no sample of the result lies inside the
	// physical domain (E ≤ 0, arcsine argument out of range, solver
	// failure everywhere).
	ErrDomain = errors.New("kspace: result outside physical domain")
	// ErrRank is returned for spectra of unsupported rank.
	ErrRank = errors.New("kspace: unsupported rank")
	// ErrAlreadyMomentum is returned when the Spectrum is already in
	// momentum space.
	ErrAlreadyMomentum = errors.New("kspace: spectrum already in momentum space")
	// ErrNoEnergyAxis is returned when no usable energy axis is tagged.
	ErrNoEnergyAxis = errors.New("kspace: no usable energy axis")
)

// Convert2D resamples a 2D energy × angle Spectrum onto a uniform momentum
// grid. energyAxis selects the energy axis; NoAxis falls back to the
// Spectrum's tag. The momentum range is the image of the angular range at the
// positive energy that maximizes its extent. Cells whose angle falls outside the
// measured range are NaN; if every cell is outside, ErrDomain is returned and
// the Spectrum is unchanged.
func Convert2D(s *spectrum.Spectrum, energyAxis spectrum.Axis) error {
	if s.Dims() != 2 {
		return fmt.Errorf("%w: 2D conversion needs 2D data, got %dD", ErrRank, s.Dims())
	}
	if s.SpaceMode == spectrum.Momentum {
		return ErrAlreadyMomentum
	}
	if energyAxis == spectrum.NoAxis {
		energyAxis = s.EnergyAxis
	}
	if energyAxis != spectrum.X && energyAxis != spectrum.Y {
		return fmt.Errorf("%w: %q", ErrNoEnergyAxis, energyAxis)
	}
	angleAxis := spectrum.Y
	if energyAxis == spectrum.Y {
		angleAxis = spectrum.X
	}

	energies := s.Scale(energyAxis)
	angles := s.Scale(angleAxis)
	emin, emax := positiveRange(energies)
	kmin, kmax := bounds2D(emin, emax, angles[0], angles[len(angles)-1])
	if math.IsNaN(kmin) || math.IsNaN(kmax) || kmin == kmax {
		return fmt.Errorf("%w: momentum bounds (%v, %v)", ErrDomain, kmin, kmax)
	}
	kscale := interp.Linspace(kmin, kmax, len(angles))

	grid, err := interp.NewGrid2D(s.Scale(spectrum.X), s.Scale(spectrum.Y), s.Data)
	if err != nil {
		return fmt.Errorf("kspace: %w", err)
	}

	out := make([]float64, len(s.Data))
	valid := 0
	ny := s.Dimension[spectrum.Y]
	for i := range s.Dimension[spectrum.X] {
		for j := range ny {
			var v float64
			if energyAxis == spectrum.X {
				e := energies[i]
				v = grid.At(e, KToAngle(e, kscale[j]))
			} else {
				e := energies[j]
				v = grid.At(KToAngle(e, kscale[i]), e)
			}
			if !math.IsNaN(v) {
				valid++
			}
			out[i*ny+j] = v
		}
	}
	if valid == 0 {
		return fmt.Errorf("%w: no angle inside the measured range", ErrDomain)
	}

	s.Data = out
	s.SetScale(angleAxis, kscale)
	s.EnergyAxis = energyAxis
	s.SpaceMode = spectrum.Momentum
	s.MarkModified()
	return nil
}

// bounds2D returns the momentum range spanned by angles a0..a1 over the
// energy interval [emin, emax]. The sign of each angle decides which energy
// maximizes |k|. The range follows the orientation of a0..a1.
func bounds2D(emin, emax, a0, a1 float64) (kmin, kmax float64) {
	lo, hi := math.Min(a0, a1), math.Max(a0, a1)
	switch {
	case lo*hi < 0:
		kmin, kmax = AngleToK(emax, lo), AngleToK(emax, hi)
	case lo >= 0:
		kmin, kmax = AngleToK(emin, lo), AngleToK(emax, hi)
	default:
		kmin, kmax = AngleToK(emax, lo), AngleToK(emin, hi)
	}
	if a0 > a1 {
		kmin, kmax = kmax, kmin
	}
	return kmin, kmax
}

// positiveRange returns the smallest and largest positive values of
// energies, or NaN when there are none.
func positiveRange(energies []float64) (lo, hi float64) {
	pos := make([]float64, 0, len(energies))
	for _, e := range energies {
		if e > 0 {
			pos = append(pos, e)
		}
	}
	if len(pos) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(pos), floats.Max(pos)
}
