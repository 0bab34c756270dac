package spectrum

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
)

// ErrDimensionMismatch is returned when a sample's pixel count differs from
// the calibration wavelength count. It excludes that sample only.
var ErrDimensionMismatch = errors.New("spectrum: pixel count does not match calibration")

// Sample is one raw spectrometer observation.
type Sample struct {
	Time time.Time
	// Intensity holds raw pixel counts over the full calibrated axis.
	Intensity []float64
	// Dark is the instrument-reported dark value used for subtraction.
	Dark float64
	// NativeRMSE and NativeConcentration are the instrument's own fit
	// diagnostics.
	NativeRMSE          float64
	NativeConcentration float64
}

// CheckPixels returns ErrDimensionMismatch unless the sample has exactly
// pixels intensity values.
func (s Sample) CheckPixels(pixels int) error {
	if len(s.Intensity) != pixels {
		return fmt.Errorf("%w: sample at %s has %d pixels, calibration has %d",
			ErrDimensionMismatch, s.Time.Format(time.RFC3339), len(s.Intensity), pixels)
	}
	return nil
}

// Window slices the sample's intensity with a calibration mask.
func (s Sample) Window(mask calibration.Mask) ([]float64, error) {
	if err := s.CheckPixels(len(mask)); err != nil {
		return nil, err
	}
	return mask.Apply(s.Intensity), nil
}
