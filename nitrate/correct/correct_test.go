package correct

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-nitrate/internal/testutil"
	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
)

func newCal(t *testing.T, opts ...calibration.Option) *calibration.Calibration {
	t.Helper()
	wl := []float64{217, 220, 225, 230, 235, 240}
	esw := []float64{0.0031, 0.0024, 0.0015, 0.0009, 0.0005, 0.0003}
	other := []float64{1, 1, 1, 1, 1, 1}
	c, err := calibration.New(wl, other, esw, other, 19.5, opts...)
	if err != nil {
		t.Fatalf("calibration.New error: %v", err)
	}
	return c
}

func TestPolyval(t *testing.T) {
	// 2x^2 - 3x + 1 at x = 4
	if got := Polyval([]float64{2, -3, 1}, 4); got != 21 {
		t.Fatalf("Polyval = %v, want 21", got)
	}
	if got := Polyval(nil, 4); got != 0 {
		t.Fatalf("Polyval(nil) = %v, want 0", got)
	}
}

func TestIdentityAtCalibrationTemperature(t *testing.T) {
	cal := newCal(t)
	c := New(cal)
	testutil.RequireSliceNearlyEqual(t, c.Temperature(19.5), cal.ExtinctionSeawater(), 0)
	testutil.RequireSliceNearlyEqual(t, c.InSitu(19.5, 0), cal.ExtinctionSeawater(), 0)
}

func TestIdentityAtZeroPressure(t *testing.T) {
	if f := PressureFactor(0, calibration.DefaultPressureCoefficient); f != 1 {
		t.Fatalf("PressureFactor(0) = %v, want 1", f)
	}
	c := New(newCal(t))
	testutil.RequireSliceNearlyEqual(t, c.InSitu(4, 0), c.Temperature(4), 0)
}

func TestTemperatureCorrection(t *testing.T) {
	cal := newCal(t)
	c := New(cal)
	got := c.Temperature(4.5)

	for i, wl := range cal.Wavelengths() {
		x := wl - calibration.DefaultWavelengthOffset
		f := 1.27353e-07*math.Pow(x, 4) - 7.56395e-06*math.Pow(x, 3) + 2.91898e-05*x*x + 1.67660e-03*x + 1.46380e-02
		want := cal.ExtinctionSeawater()[i] * math.Exp(f*(4.5-19.5))
		if math.Abs(got[i]-want) > 1e-15 {
			t.Fatalf("λ=%v: got %v, want %v", wl, got[i], want)
		}
	}
}

func TestPressureCorrection(t *testing.T) {
	cal := newCal(t, calibration.WithPressureCoefficient(0.02))
	c := New(cal)
	got := c.InSitu(19.5, 500)
	want := make([]float64, cal.Len())
	for i, v := range cal.ExtinctionSeawater() {
		want[i] = v * (1 - 0.5*0.02)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-18)
}

func TestWavelengthOffsetShiftsSlope(t *testing.T) {
	a := New(newCal(t))
	b := New(newCal(t, calibration.WithWavelengthOffset(205)))
	if a.Slope()[0] == b.Slope()[0] {
		t.Fatal("wavelength offset had no effect on the temperature slope")
	}
	if got, want := b.Slope()[0], Polyval(TemperatureCoefficients[:], 217-205); got != want {
		t.Fatalf("slope = %v, want %v", got, want)
	}
}
