package kspace

import "math"

// C converts √eV to Å⁻¹ for free-electron final states.
const C = 0.512

const (
	deg = math.Pi / 180
	rad = 180 / math.Pi
)

// kNorm returns C·√E, or NaN for E ≤ 0.
func kNorm(e float64) float64 {
	if !(e > 0) {
		return math.NaN()
	}
	return C * math.Sqrt(e)
}

// asinDeg returns asin(x) in degrees, or NaN outside [-1, 1].
func asinDeg(x float64) float64 {
	if !(x >= -1 && x <= 1) {
		return math.NaN()
	}
	return math.Asin(x) * rad
}

// AngleToK returns the momentum along the slit for emission angle theta.
func AngleToK(e, theta float64) float64 {
	return kNorm(e) * math.Sin(theta*deg)
}

// AngleToKy returns the momentum perpendicular to the slit for a horizontal
// slit, where thetaX is the angle along the slit and thetaY the tilt.
func AngleToKy(e, thetaX, thetaY float64) float64 {
	return kNorm(e) * math.Sin(thetaY*deg) * math.Cos(thetaX*deg)
}

// AngleToKxVertical returns kx for a vertical slit with azimuthal bias phi,
// polar sweep angle alpha and slit angle theta.
func AngleToKxVertical(e, phi, alpha, theta float64) float64 {
	p, a, t := phi*deg, alpha*deg, theta*deg
	return kNorm(e) * (math.Sin(p)*math.Cos(a)*math.Cos(t) + math.Sin(a)*math.Cos(p))
}

// AngleToKyVertical returns ky for a vertical slit.
func AngleToKyVertical(e, alpha, theta float64) float64 {
	return kNorm(e) * math.Cos(alpha*deg) * math.Sin(theta*deg)
}

// KToAngle inverts AngleToK.
func KToAngle(e, k float64) float64 {
	return asinDeg(k / kNorm(e))
}

// KxKyToAngles inverts the horizontal-slit pair (AngleToK, AngleToKy).
func KxKyToAngles(e, kx, ky float64) (thetaX, thetaY float64) {
	n := kNorm(e)
	thetaX = asinDeg(kx / n)
	if math.IsNaN(thetaX) {
		return math.NaN(), math.NaN()
	}
	thetaY = asinDeg(ky / (n * math.Cos(thetaX*deg)))
	if math.IsNaN(thetaY) {
		return math.NaN(), math.NaN()
	}
	return thetaX, thetaY
}
