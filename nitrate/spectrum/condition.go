package spectrum

import (
	"math"
	"time"
)

// DefaultSaturation is the pixel count above which a pixel is saturated.
const DefaultSaturation = 64500.0

// SaturationNotice reports saturated pixels in one sample. It is not an
// error: the pixels are masked and processing continues.
type SaturationNotice struct {
	Time   time.Time
	Pixels int
}

// Conditioner masks and dark-corrects windowed intensity vectors.
type Conditioner struct {
	Saturation float64
}

// NewConditioner returns a Conditioner with the given saturation threshold.
// Non-positive or NaN thresholds fall back to DefaultSaturation.
func NewConditioner(saturation float64) Conditioner {
	if !(saturation > 0) {
		saturation = DefaultSaturation
	}
	return Conditioner{Saturation: saturation}
}

// Condition returns a cleaned copy of intensity and the number of pixels
// masked for saturation. Pixels above the saturation threshold are masked
// before dark subtraction; pixels at or below zero after subtraction are
// masked as well.
func (c Conditioner) Condition(intensity []float64, dark float64) ([]float64, int) {
	sat := c.Saturation
	if !(sat > 0) {
		sat = DefaultSaturation
	}

	out := make([]float64, len(intensity))
	saturated := 0
	for i, v := range intensity {
		if v > sat {
			out[i] = math.NaN()
			saturated++
			continue
		}
		d := v - dark
		if d > 0 {
			out[i] = d
		} else {
			// Also catches NaN.
			out[i] = math.NaN()
		}
	}
	return out, saturated
}
