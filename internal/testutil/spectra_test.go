package testutil

import (
	"math"
	"testing"
)

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] >= 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestRamp(t *testing.T) {
	RequireSliceNearlyEqual(t, Ramp(4), []float64{1, 2, 3, 4}, 0)
}

func TestBand2DPeakFollowsDispersion(t *testing.T) {
	angles := []float64{-10, 0, 10}
	energies := []float64{28, 28.6, 29, 29.4}
	data := Band2D(angles, energies)
	if len(data) != 12 {
		t.Fatalf("len = %d, want 12", len(data))
	}
	RequireFinite(t, data)
	// At θ=0 the band sits at 29 eV, at ±10° at 28.6 eV.
	if peak := argmax(data[4:8]); peak != 2 {
		t.Fatalf("θ=0 peak index = %d, want 2", peak)
	}
	if peak := argmax(data[0:4]); peak != 1 {
		t.Fatalf("θ=-10 peak index = %d, want 1", peak)
	}
}

func TestBand3DShape(t *testing.T) {
	data := Band3D([]float64{-1, 1}, []float64{0, 1, 2}, []float64{28, 29})
	if len(data) != 12 {
		t.Fatalf("len = %d, want 12", len(data))
	}
	for _, v := range data {
		if v < 1 || math.IsNaN(v) {
			t.Fatalf("value %v below background", v)
		}
	}
}

func argmax(s []float64) int {
	best := 0
	for i, v := range s {
		if v > s[best] {
			best = i
		}
	}
	return best
}
