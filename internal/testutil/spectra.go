package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates uniform noise in [-amplitude, amplitude) with
// a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Ramp returns 1, 2, ..., n.
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

// Band2D returns a row-major angle×energy map of a parabolic band
// E(θ) = 29 - 0.004·θ² broadened by a 0.15 eV Gaussian on a unit background.
func Band2D(angles, energies []float64) []float64 {
	out := make([]float64, 0, len(angles)*len(energies))
	for _, a := range angles {
		for _, e := range energies {
			out = append(out, bandIntensity(e, 29-0.004*a*a))
		}
	}
	return out
}

// Band3D returns a row-major x×y×energy map of a paraboloid band
// E(θx, θy) = 29 - 0.004·(θx²+θy²).
func Band3D(xs, ys, energies []float64) []float64 {
	out := make([]float64, 0, len(xs)*len(ys)*len(energies))
	for _, x := range xs {
		for _, y := range ys {
			for _, e := range energies {
				out = append(out, bandIntensity(e, 29-0.004*(x*x+y*y)))
			}
		}
	}
	return out
}

func bandIntensity(e, center float64) float64 {
	const width = 0.15
	d := (e - center) / width
	return 1 + 100*math.Exp(-0.5*d*d)
}
