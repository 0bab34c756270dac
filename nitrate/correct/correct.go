// Package correct adjusts the seawater (bromide) extinction spectrum of a
// calibration to in-situ temperature and pressure.
//
// The temperature term follows Plant et al. (2023):
//
//	ESW_insitu(λ) = ESW(λ) · exp(f(λ − offset) · (T − T_cal))
//
// with f a fixed quartic, and the pressure term scales by
// (1 − p/1000 · coefficient).
package correct

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
)

// TemperatureCoefficients are the coefficients of f in descending power.
var TemperatureCoefficients = [...]float64{1.27353e-07, -7.56395e-06, 2.91898e-05, 1.67660e-03, 1.46380e-02}

// Polyval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func Polyval(coeff []float64, x float64) float64 {
	if len(coeff) == 0 {
		return 0
	}
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}
	return v
}

// PressureFactor returns 1 − pressure/1000 · coefficient.
func PressureFactor(pressure, coefficient float64) float64 {
	return 1 - pressure/1000*coefficient
}

// Corrector evaluates the in-situ seawater extinction for one calibration.
// It is read-only after construction and safe for concurrent use.
type Corrector struct {
	seawater    []float64
	slope       []float64 // f(λ − offset)
	calTemp     float64
	pressureCoe float64
}

// New precomputes the temperature slope for every wavelength of cal, using
// cal's wavelength offset and pressure coefficient.
func New(cal *calibration.Calibration) *Corrector {
	wl := cal.Wavelengths()
	offset := cal.WavelengthOffset()
	slope := make([]float64, len(wl))
	for i, w := range wl {
		slope[i] = Polyval(TemperatureCoefficients[:], w-offset)
	}
	return &Corrector{
		seawater:    cal.ExtinctionSeawater(),
		slope:       slope,
		calTemp:     cal.Temperature(),
		pressureCoe: cal.PressureCoefficient(),
	}
}

// Slope returns f(λ − offset) per wavelength. The slice must not be modified.
func (c *Corrector) Slope() []float64 { return c.slope }

// Temperature returns the temperature-corrected seawater extinction.
func (c *Corrector) Temperature(temperature float64) []float64 {
	out := make([]float64, len(c.seawater))
	dT := temperature - c.calTemp
	if dT == 0 {
		copy(out, c.seawater)
		return out
	}
	factor := make([]float64, len(c.slope))
	vecmath.ScaleBlock(factor, c.slope, dT)
	for i, v := range factor {
		factor[i] = math.Exp(v)
	}
	vecmath.MulBlock(out, c.seawater, factor)
	return out
}

// InSitu returns the temperature- and pressure-corrected seawater extinction.
func (c *Corrector) InSitu(temperature, pressure float64) []float64 {
	esw := c.Temperature(temperature)
	p := PressureFactor(pressure, c.pressureCoe)
	if p == 1 {
		return esw
	}
	out := make([]float64, len(esw))
	vecmath.ScaleBlock(out, esw, p)
	return out
}
