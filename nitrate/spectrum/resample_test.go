package spectrum

import (
	"errors"
	"math"
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2021, 5, 1, h, m, 0, 0, time.UTC)
}

func TestDropHourlyDark(t *testing.T) {
	samples := []Sample{
		{Time: at(1, 0)}, {Time: at(1, 5)}, {Time: at(1, 10)},
		{Time: at(2, 0)},
		{Time: at(3, 1)}, {Time: at(3, 2)},
	}
	kept, dropped := DropHourlyDark(samples)

	if len(dropped) != 3 {
		t.Fatalf("dropped = %d, want 3", len(dropped))
	}
	if len(kept) != 3 {
		t.Fatalf("kept = %d, want 3", len(kept))
	}
	if !kept[0].Time.Equal(at(1, 5)) || !kept[2].Time.Equal(at(3, 2)) {
		t.Fatalf("kept wrong samples: %v, %v", kept[0].Time, kept[2].Time)
	}
}

func TestResampleMedian(t *testing.T) {
	samples := []Sample{
		{Time: at(1, 0), Intensity: []float64{1, 10}, Dark: 5, NativeRMSE: 0.1, NativeConcentration: 1},
		{Time: at(1, 20), Intensity: []float64{3, math.NaN()}, Dark: 7, NativeRMSE: 0.3, NativeConcentration: 3},
		{Time: at(1, 40), Intensity: []float64{2, 30}, Dark: 6, NativeRMSE: math.NaN(), NativeConcentration: 2},
		{Time: at(3, 0), Intensity: []float64{4, 4}, Dark: 1, NativeRMSE: 0.2, NativeConcentration: 9},
	}

	out, err := ResampleMedian(samples, time.Hour)
	if err != nil {
		t.Fatalf("ResampleMedian error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2 (empty 02:00 bin skipped)", len(out))
	}

	first := out[0]
	if !first.Time.Equal(at(1, 0)) {
		t.Fatalf("bin time = %v, want 01:00", first.Time)
	}
	if first.Intensity[0] != 2 || first.Intensity[1] != 20 {
		t.Fatalf("intensity = %v, want [2 20]", first.Intensity)
	}
	if first.Dark != 6 || first.NativeConcentration != 2 {
		t.Fatalf("dark=%v conc=%v, want 6 and 2", first.Dark, first.NativeConcentration)
	}
	if math.Abs(first.NativeRMSE-0.2) > 1e-15 {
		t.Fatalf("rmse = %v, want 0.2", first.NativeRMSE)
	}
	if samples[1].Intensity[0] != 3 {
		t.Fatal("ResampleMedian modified its input")
	}
}

func TestResampleMedianDisabled(t *testing.T) {
	in := []Sample{{Time: at(1, 0)}, {Time: at(1, 1)}}
	out, err := ResampleMedian(in, 0)
	if err != nil || len(out) != 2 {
		t.Fatalf("ResampleMedian(0) = %d samples, %v", len(out), err)
	}
}

func TestResampleMedianMixedPixels(t *testing.T) {
	in := []Sample{
		{Time: at(1, 0), Intensity: []float64{1, 2}},
		{Time: at(1, 1), Intensity: []float64{1}},
	}
	if _, err := ResampleMedian(in, time.Hour); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}
