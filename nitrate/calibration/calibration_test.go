package calibration

import (
	"errors"
	"math"
	"testing"
)

func newTestCalibration(t *testing.T) *Calibration {
	t.Helper()
	wl := []float64{210, 215, 217, 220, 230, 240, 245}
	eno3 := []float64{1.1, 1.0, 0.9, 0.8, 0.5, 0.2, 0.1}
	esw := []float64{0.03, 0.02, 0.015, 0.01, 0.004, 0.001, 0.0005}
	ref := []float64{30000, 32000, 33000, 34000, 36000, 38000, 39000}
	c, err := New(wl, eno3, esw, ref, 20.5)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return c
}

func TestNewDefaults(t *testing.T) {
	c := newTestCalibration(t)
	if c.Len() != 7 {
		t.Fatalf("Len = %d, want 7", c.Len())
	}
	if c.WavelengthOffset() != DefaultWavelengthOffset {
		t.Fatalf("WavelengthOffset = %v, want %v", c.WavelengthOffset(), DefaultWavelengthOffset)
	}
	if c.PressureCoefficient() != DefaultPressureCoefficient {
		t.Fatalf("PressureCoefficient = %v, want %v", c.PressureCoefficient(), DefaultPressureCoefficient)
	}
	if c.Temperature() != 20.5 {
		t.Fatalf("Temperature = %v, want 20.5", c.Temperature())
	}
}

func TestNewCopiesInput(t *testing.T) {
	wl := []float64{220, 230}
	c, err := New(wl, []float64{1, 2}, []float64{1, 2}, []float64{1, 2}, 20)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	wl[0] = 999
	if c.Wavelengths()[0] != 220 {
		t.Fatal("calibration shares caller's wavelength slice")
	}
}

func TestNewOptions(t *testing.T) {
	c, err := New([]float64{220}, []float64{1}, []float64{1}, []float64{1}, 20,
		WithWavelengthOffset(205), WithPressureCoefficient(0.02), WithPressureCoefficient(math.NaN()))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.WavelengthOffset() != 205 || c.PressureCoefficient() != 0.02 {
		t.Fatalf("offset=%v coef=%v, want 205 and 0.02", c.WavelengthOffset(), c.PressureCoefficient())
	}

	d := c.With(WithWavelengthOffset(210))
	if d.WavelengthOffset() != 210 || c.WavelengthOffset() != 205 {
		t.Fatal("With must not modify the receiver")
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		wl   []float64
		n    []float64
		temp float64
	}{
		{"empty", nil, nil, 20},
		{"mismatch", []float64{220, 230}, []float64{1}, 20},
		{"decreasing", []float64{230, 220}, []float64{1, 1}, 20},
		{"duplicate", []float64{220, 220}, []float64{1, 1}, 20},
		{"nan wavelength", []float64{220, math.NaN()}, []float64{1, 1}, 20},
		{"nan temperature", []float64{220, 230}, []float64{1, 1}, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := make([]float64, len(tt.wl))
			_, err := New(tt.wl, tt.n, other, other, tt.temp)
			if !errors.Is(err, ErrCalibration) {
				t.Fatalf("err = %v, want ErrCalibration", err)
			}
		})
	}
}

func TestRestrictToWindow(t *testing.T) {
	c := newTestCalibration(t)
	w, err := c.RestrictToWindow(217, 240)
	if err != nil {
		t.Fatalf("RestrictToWindow error: %v", err)
	}

	wantWL := []float64{217, 220, 230, 240}
	wantRef := []float64{33000, 34000, 36000, 38000}
	if w.Len() != len(wantWL) {
		t.Fatalf("Len = %d, want %d", w.Len(), len(wantWL))
	}
	for i := range wantWL {
		if w.Wavelengths()[i] != wantWL[i] {
			t.Fatalf("wavelength[%d] = %v, want %v", i, w.Wavelengths()[i], wantWL[i])
		}
		if w.Reference()[i] != wantRef[i] {
			t.Fatalf("reference[%d] = %v, want %v", i, w.Reference()[i], wantRef[i])
		}
	}
	if c.Len() != 7 {
		t.Fatal("RestrictToWindow modified the receiver")
	}
	if w.Temperature() != c.Temperature() {
		t.Fatal("RestrictToWindow dropped calibration temperature")
	}
}

func TestRestrictToWindowEmpty(t *testing.T) {
	c := newTestCalibration(t)
	if _, err := c.RestrictToWindow(300, 400); !errors.Is(err, ErrCalibration) {
		t.Fatalf("err = %v, want ErrCalibration", err)
	}
	if _, err := c.RestrictToWindow(240, 217); !errors.Is(err, ErrCalibration) {
		t.Fatalf("inverted window: err = %v, want ErrCalibration", err)
	}
}
