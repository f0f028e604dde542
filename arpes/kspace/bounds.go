package kspace

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type kbounds struct {
	kxmin, kxmax float64
	kymin, kymax float64
}

func (b kbounds) valid() bool {
	for _, v := range [4]float64{b.kxmin, b.kxmax, b.kymin, b.kymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.kxmax > b.kxmin && b.kymax > b.kymin
}

// bounds3D returns the momentum bounding box of a slit map with slit angles
// xs, sweep angles ys and energies zs. The box is the image of the angular
// extent at whichever end of the positive energy range makes it largest.
// Without a positive energy every bound is NaN.
func bounds3D(slit Slit, bias float64, xs, ys, zs []float64) kbounds {
	xmin, xmax := floats.Min(xs), floats.Max(xs)
	ymin, ymax := floats.Min(ys), floats.Max(ys)
	zmin, zmax := positiveRange(zs)

	var b kbounds
	if slit == Horizontal {
		xmin += bias
		xmax += bias
		b.kxmin = pick(xmin < 0, AngleToK, zmax, zmin, xmin)
		b.kxmax = pick(xmax > 0, AngleToK, zmax, zmin, xmax)

		absX := math.Max(math.Abs(xmin), math.Abs(xmax))
		if ymin < 0 {
			b.kymin = AngleToKy(zmax, 0, ymin)
		} else {
			b.kymin = AngleToKy(zmin, absX, ymin)
		}
		if ymax > 0 {
			b.kymax = AngleToKy(zmax, 0, ymax)
		} else {
			b.kymax = AngleToKy(zmin, absX, ymax)
		}
		return b
	}

	absY := math.Max(math.Abs(ymin), math.Abs(ymax))
	kxv := func(e, alpha float64) float64 { return AngleToKxVertical(e, bias, alpha, absY) }
	if bias >= 0 {
		b.kxmax = pick(xmax+bias >= 0, AngleToK, zmax, zmin, xmax+bias)
		if kxv(1, xmin) >= 0 {
			b.kxmin = kxv(zmin, xmin)
		} else {
			b.kxmin = kxv(zmax, xmin)
		}
	} else {
		if kxv(1, xmax) >= 0 {
			b.kxmax = kxv(zmax, xmax)
		} else {
			b.kxmax = kxv(zmin, xmax)
		}
		b.kxmin = pick(xmin+bias >= 0, AngleToK, zmin, zmax, xmin+bias)
	}
	b.kymax = pick(ymax >= 0, AngleToK, zmax, zmin, ymax)
	b.kymin = pick(ymin < 0, AngleToK, zmax, zmin, ymin)
	return b
}

// pick evaluates f at energy a when cond holds and at energy b otherwise.
func pick(cond bool, f func(e, theta float64) float64, a, b, theta float64) float64 {
	if cond {
		return f(a, theta)
	}
	return f(b, theta)
}
