// Package window generates tapering windows for line filters.
package window

import (
	"fmt"
	"math"
)

// Gaussian returns size coefficients of a symmetric Gaussian window. The
// window is 0.5 at both ends when alpha is 1; larger alpha narrows it.
func Gaussian(size int, alpha float64) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", size)
	}
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return nil, fmt.Errorf("gauss alpha must be finite and > 0: %f", alpha)
	}

	out := make([]float64, size)
	for i := range out {
		v := (2*samplePosition(i, size) - 1) * alpha
		out[i] = math.Exp(-math.Ln2 * v * v)
	}
	return out, nil
}

// GaussianSigma returns a window of 2*ceil(radius*sigma)+1 coefficients
// following exp(-k²/2σ²) for the offset k in samples from the centre. It
// is the Gaussian window whose alpha matches the standard deviation sigma.
func GaussianSigma(sigma, radius float64) ([]float64, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("gauss sigma must be finite and > 0: %f", sigma)
	}
	half := int(math.Ceil(radius * sigma))
	if half < 1 {
		return []float64{1}, nil
	}
	alpha := float64(half) / (sigma * math.Sqrt(2*math.Ln2))
	return Gaussian(2*half+1, alpha)
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0.5
	}
	return float64(n) / float64(size-1)
}
