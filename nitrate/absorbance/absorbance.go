// Package absorbance converts conditioned intensity into the nitrate plus
// baseline absorbance that remains after removing bromide absorbance.
//
// Missing (NaN) pixels propagate through every step.
package absorbance

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Spectra holds the absorbance stages of one sample on the windowed axis.
type Spectra struct {
	Total     []float64
	Bromide   []float64
	Corrected []float64
}

// Total returns −log10(intensity/reference) per pixel. Non-positive
// reference values yield NaN.
func Total(intensity, reference []float64) []float64 {
	out := make([]float64, len(intensity))
	for i, v := range intensity {
		r := reference[i]
		if !(r > 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = -math.Log10(v / r)
	}
	return out
}

// Bromide returns in-situ seawater extinction scaled by salinity.
func Bromide(seawater []float64, salinity float64) []float64 {
	out := make([]float64, len(seawater))
	vecmath.ScaleBlock(out, seawater, salinity)
	return out
}

// Corrected returns total − bromide.
func Corrected(total, bromide []float64) []float64 {
	out := make([]float64, len(total))
	vecmath.ScaleBlock(out, bromide, -1)
	vecmath.AddBlockInPlace(out, total)
	return out
}

// Compute runs Total, Bromide and Corrected for one sample. All slices must
// share one length.
func Compute(intensity, reference, seawater []float64, salinity float64) Spectra {
	total := Total(intensity, reference)
	bromide := Bromide(seawater, salinity)
	return Spectra{
		Total:     total,
		Bromide:   bromide,
		Corrected: Corrected(total, bromide),
	}
}

// DarkCorrectedReference subtracts dark from a reference spectrum that was
// recorded without dark correction. Non-positive results are NaN.
func DarkCorrectedReference(reference []float64, dark float64) []float64 {
	out := make([]float64, len(reference))
	for i, r := range reference {
		d := r - dark
		if d > 0 {
			out[i] = d
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
