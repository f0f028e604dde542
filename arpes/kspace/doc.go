// Package kspace converts angle-resolved spectra from emission angles to
// crystal momentum.
//
// The forward relations, with energies in eV and angles in degrees, are
//
//	kx = C·√E·sin(θx)
//	ky = C·√E·sin(θy)·cos(θx)
//
// where C = 0.512 Å⁻¹/√eV. Every formula returns NaN for E ≤ 0 or when an
// arcsine argument leaves [-1, 1].
//
// [Convert2D] resamples an energy × angle cut onto a uniform momentum grid
// synchronously. [Start3D] converts an angle × angle × energy map slice by
// slice on a bounded worker pool and reports progress on a channel;
// [Convert3D] is its blocking form. Both leave the Spectrum untouched unless
// the whole conversion succeeds.
package kspace
