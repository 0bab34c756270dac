package spectrum

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
)

func TestConditionDarkSubtraction(t *testing.T) {
	c := NewConditioner(DefaultSaturation)
	got, saturated := c.Condition([]float64{15, 80, 20}, 20)

	if saturated != 0 {
		t.Fatalf("saturated = %d, want 0", saturated)
	}
	if !math.IsNaN(got[0]) {
		t.Fatalf("intensity 15 with dark 20 = %v, want masked", got[0])
	}
	if got[1] != 60 {
		t.Fatalf("intensity 80 with dark 20 = %v, want 60", got[1])
	}
	if !math.IsNaN(got[2]) {
		t.Fatalf("zero light after dark = %v, want masked", got[2])
	}
}

func TestConditionSaturation(t *testing.T) {
	c := NewConditioner(64500)
	// A huge negative dark value would otherwise leave the pixel positive.
	got, saturated := c.Condition([]float64{70000, 64500, 1000}, -1e6)

	if saturated != 1 {
		t.Fatalf("saturated = %d, want 1", saturated)
	}
	if !math.IsNaN(got[0]) {
		t.Fatalf("saturated pixel = %v, want masked", got[0])
	}
	if got[1] != 64500+1e6 {
		t.Fatalf("pixel at threshold = %v, want kept", got[1])
	}
}

func TestConditionDoesNotModifyInput(t *testing.T) {
	in := []float64{100, 70000}
	NewConditioner(0).Condition(in, 10)
	if in[0] != 100 || in[1] != 70000 {
		t.Fatalf("input modified: %v", in)
	}
}

func TestConditionNaNInput(t *testing.T) {
	got, saturated := NewConditioner(DefaultSaturation).Condition([]float64{math.NaN()}, 0)
	if saturated != 0 || !math.IsNaN(got[0]) {
		t.Fatalf("got %v saturated=%d, want NaN and 0", got, saturated)
	}
}

func TestNewConditionerDefault(t *testing.T) {
	if c := NewConditioner(math.NaN()); c.Saturation != DefaultSaturation {
		t.Fatalf("Saturation = %v, want default", c.Saturation)
	}
}

func TestSampleWindow(t *testing.T) {
	mask := calibration.Mask{false, true, true, false}
	s := Sample{Time: time.Unix(0, 0).UTC(), Intensity: []float64{1, 2, 3, 4}}

	got, err := s.Window(mask)
	if err != nil {
		t.Fatalf("Window error: %v", err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("Window = %v, want [2 3]", got)
	}

	s.Intensity = s.Intensity[:3]
	if _, err := s.Window(mask); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestSampleCheckPixels(t *testing.T) {
	s := Sample{Time: time.Unix(0, 0).UTC(), Intensity: []float64{1, 2, 3}}
	if err := s.CheckPixels(3); err != nil {
		t.Fatalf("CheckPixels(3) = %v", err)
	}
	if err := s.CheckPixels(4); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}
