package kspace

import "math"

// Solve inverts the vertical-slit relations
//
//	sin(α+φ) − sin(φ)·cos(α)·(1−cos(θ)) = px
//	cos(α)·sin(θ)                       = py
//
// for (α, θ) by damped Newton iteration with the analytic Jacobian. px and
// py are momenta normalized by C·√E, phi and the seed are in radians, and so
// is the result. ok is false when the iteration does not reach tol within
// maxIter steps or the Jacobian becomes singular.
func Solve(px, py, phi, seedAlpha, seedTheta float64, maxIter int, tol float64) (alpha, theta float64, ok bool) {
	if math.IsNaN(px) || math.IsNaN(py) {
		return math.NaN(), math.NaN(), false
	}

	sinP := math.Sin(phi)
	residual := func(a, t float64) (f1, f2 float64) {
		_, cosA := math.Sincos(a)
		sinT, cosT := math.Sincos(t)
		f1 = math.Sin(a+phi) - sinP*cosA*(1-cosT) - px
		f2 = cosA*sinT - py
		return f1, f2
	}

	alpha, theta = seedAlpha, seedTheta
	f1, f2 := residual(alpha, theta)
	norm := math.Hypot(f1, f2)

	for range maxIter {
		if math.Abs(f1) < tol && math.Abs(f2) < tol {
			return wrap(alpha), wrap(theta), true
		}

		sinA, cosA := math.Sincos(alpha)
		sinT, cosT := math.Sincos(theta)
		j11 := math.Cos(alpha+phi) + sinP*sinA*(1-cosT)
		j12 := -sinP * cosA * sinT
		j21 := -sinA * sinT
		j22 := cosA * cosT

		det := j11*j22 - j12*j21
		if math.Abs(det) < 1e-14 {
			return math.NaN(), math.NaN(), false
		}
		da := (j22*f1 - j12*f2) / det
		dt := (j11*f2 - j21*f1) / det

		// Halve the step until the residual decreases.
		step := 1.0
		for {
			a, t := alpha-step*da, theta-step*dt
			g1, g2 := residual(a, t)
			if n := math.Hypot(g1, g2); n < norm || step < 1.0/1024 {
				alpha, theta, f1, f2, norm = a, t, g1, g2, n
				break
			}
			step /= 2
		}
	}

	if math.Abs(f1) < tol && math.Abs(f2) < tol {
		return wrap(alpha), wrap(theta), true
	}
	return math.NaN(), math.NaN(), false
}

// wrap maps an angle to (−π, π].
func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	switch {
	case a > math.Pi:
		a -= 2 * math.Pi
	case a <= -math.Pi:
		a += 2 * math.Pi
	}
	return a
}
