package solve

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-nitrate/internal/testutil"
)

func synthesize(wl, eno3 []float64, conc, intercept, slope float64) []float64 {
	out := make([]float64, len(wl))
	for i := range wl {
		out[i] = conc*eno3[i] + intercept + slope*wl[i]
	}
	return out
}

func TestExactRecoveryThreePixels(t *testing.T) {
	wl := []float64{230, 235, 240}
	eno3 := []float64{0.5, 0.2, 0.1}
	abs := synthesize(wl, eno3, 5.0, 0.1, 0.001)

	s, err := New(wl, eno3)
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Solve(abs)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireNearlyEqual(t, "concentration", res.Concentration, 5.0, 1e-9)
	testutil.RequireNearlyEqual(t, "intercept", res.BaselineIntercept, 0.1, 1e-9)
	testutil.RequireNearlyEqual(t, "slope", res.BaselineSlope, 0.001, 1e-12)
	testutil.RequireNearlyEqual(t, "rms", res.RMSError, 0, 1e-12)
	if res.ValidPixels != 3 || !res.Reliable() {
		t.Fatalf("ValidPixels = %d, Reliable = %v", res.ValidPixels, res.Reliable())
	}
	if res.ReferenceWavelength != 240 {
		t.Fatalf("ReferenceWavelength = %v, want 240", res.ReferenceWavelength)
	}
	testutil.RequireNearlyEqual(t, "reference absorbance", res.ReferenceAbsorbance, abs[2], 0)
}

func TestExactRecoveryWithMissingPixels(t *testing.T) {
	wl := testutil.Axis(217, 0.8, 30)
	eno3 := testutil.Decay(0.6, 210, 9, wl)
	abs := synthesize(wl, eno3, 18.5, -0.02, 0.0003)
	abs[4] = math.NaN()
	abs[11] = math.NaN()
	abs[25] = math.NaN()

	s, err := New(wl, eno3)
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Solve(abs)
	if err != nil {
		t.Fatal(err)
	}
	if res.ValidPixels != 27 {
		t.Fatalf("ValidPixels = %d, want 27", res.ValidPixels)
	}
	testutil.RequireNearlyEqual(t, "concentration", res.Concentration, 18.5, 1e-8)
	testutil.RequireNearlyEqual(t, "intercept", res.BaselineIntercept, -0.02, 1e-9)
	testutil.RequireNearlyEqual(t, "slope", res.BaselineSlope, 0.0003, 1e-11)
	testutil.RequireNearlyEqual(t, "rms", res.RMSError, 0, 1e-12)
}

func TestNoisyFitHasPositiveRMS(t *testing.T) {
	wl := testutil.Axis(217, 0.8, 30)
	eno3 := testutil.Decay(0.6, 210, 9, wl)
	abs := synthesize(wl, eno3, 10, 0.01, 0.0001)
	noise := testutil.DeterministicNoise(7, 1e-4, len(abs))
	for i := range abs {
		abs[i] += noise[i]
	}

	s, _ := New(wl, eno3)
	res, err := s.Solve(abs)
	if err != nil {
		t.Fatal(err)
	}
	if !(res.RMSError > 0 && res.RMSError < 1e-4) {
		t.Fatalf("rms = %v, want in (0, 1e-4)", res.RMSError)
	}
	testutil.RequireNearlyEqual(t, "concentration", res.Concentration, 10, 0.05)
}

func TestAllMissing(t *testing.T) {
	wl := []float64{230, 235, 240}
	s, _ := New(wl, []float64{0.5, 0.2, 0.1})
	nan := math.NaN()
	res, err := s.Solve([]float64{nan, nan, nan})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireAllNaN(t, []float64{
		res.Concentration, res.BaselineIntercept, res.BaselineSlope,
		res.RMSError, res.ReferenceAbsorbance,
	})
	if res.ValidPixels != 0 || res.Reliable() {
		t.Fatalf("ValidPixels = %d, Reliable = %v", res.ValidPixels, res.Reliable())
	}
	if res.ReferenceWavelength != 240 {
		t.Fatalf("ReferenceWavelength = %v, want 240", res.ReferenceWavelength)
	}
}

func TestSinglePixelIsAttempted(t *testing.T) {
	wl := []float64{230, 235, 240}
	s, _ := New(wl, []float64{0.5, 0.2, 0.1})
	nan := math.NaN()
	res, err := s.Solve([]float64{0.3, nan, nan})
	if err != nil {
		t.Fatal(err)
	}
	if res.ValidPixels != 1 || res.Reliable() {
		t.Fatalf("ValidPixels = %d, Reliable = %v", res.ValidPixels, res.Reliable())
	}
	testutil.RequireFinite(t, []float64{res.Concentration, res.BaselineIntercept, res.BaselineSlope})
	testutil.RequireNearlyEqual(t, "rms", res.RMSError, 0, 1e-12)
	testutil.RequireAllNaN(t, []float64{res.ReferenceAbsorbance})
}

func TestNonFiniteExtinctionIsSkipped(t *testing.T) {
	wl := []float64{225, 230, 235, 240}
	eno3 := []float64{0.9, math.NaN(), 0.2, 0.1}
	abs := synthesize(wl, []float64{0.9, 0, 0.2, 0.1}, 3, 0.05, 0.0002)

	s, _ := New(wl, eno3)
	res, err := s.Solve(abs)
	if err != nil {
		t.Fatal(err)
	}
	if res.ValidPixels != 3 {
		t.Fatalf("ValidPixels = %d, want 3", res.ValidPixels)
	}
	testutil.RequireNearlyEqual(t, "concentration", res.Concentration, 3, 1e-9)
}

func TestReferenceIndex(t *testing.T) {
	tests := []struct {
		name string
		wl   []float64
		opts []Option
		want int
	}{
		{"exact", []float64{230, 235, 240}, nil, 2},
		{"below", []float64{217, 220, 223}, nil, 2},
		{"tie goes low", []float64{239, 241}, nil, 0},
		{"custom", []float64{220, 230, 240}, []Option{WithReferenceWavelength(229)}, 1},
		{"ignores NaN option", []float64{220, 230, 240}, []Option{WithReferenceWavelength(math.NaN())}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.wl, make([]float64, len(tt.wl)), tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if got := s.ReferenceIndex(); got != tt.want {
				t.Fatalf("ReferenceIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatal("expected error for empty axis")
	}
	if _, err := New([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched coefficients")
	}
	s, _ := New([]float64{1, 2}, []float64{1, 2})
	if _, err := s.Solve([]float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}
