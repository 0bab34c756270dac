package testutil

import (
	"math"
	"math/rand"
)

// Axis returns n evenly spaced values starting at start.
func Axis(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Decay returns amp·exp(−(x−origin)/scale) for every x.
func Decay(amp, origin, scale float64, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = amp * math.Exp(-(v-origin)/scale)
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued slice.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Intensity synthesises the dark-corrected counts that produce the given
// absorbance against reference: reference·10^(−absorbance).
func Intensity(reference, absorbance []float64) []float64 {
	out := make([]float64, len(reference))
	for i := range out {
		out[i] = reference[i] * math.Pow(10, -absorbance[i])
	}
	return out
}
