package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, math.NaN()}, []float64{1.5, 2, 7})
	if err != nil {
		t.Fatal(err)
	}
	if d != 0.5 {
		t.Fatalf("MaxAbsDiff = %v, want 0.5", d)
	}
	if _, err := MaxAbsDiff([]float64{1}, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestRequireSliceNearlyEqualNaN(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{math.NaN(), 1}, []float64{math.NaN(), 1 + 1e-12}, 1e-9)
}

func TestAxisAndDecay(t *testing.T) {
	x := Axis(210, 0.5, 5)
	RequireSliceNearlyEqual(t, x, []float64{210, 210.5, 211, 211.5, 212}, 0)

	d := Decay(2, 210, 1, x)
	if d[0] != 2 {
		t.Fatalf("Decay at origin = %v, want 2", d[0])
	}
	for i := 1; i < len(d); i++ {
		if d[i] >= d[i-1] {
			t.Fatalf("Decay not decreasing at %d", i)
		}
	}
}

func TestIntensityRoundTrip(t *testing.T) {
	ref := DC(40000, 3)
	abs := []float64{0, 1, 0.5}
	got := Intensity(ref, abs)
	RequireSliceNearlyEqual(t, got, []float64{40000, 4000, 40000 / math.Sqrt(10)}, 1e-9)
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("noise[%d] = %v out of range", i, a[i])
		}
	}
}
