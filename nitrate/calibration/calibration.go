package calibration

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultWavelengthOffset is the bromide reference wavelength offset in nm.
	DefaultWavelengthOffset = 210.0
	// DefaultPressureCoefficient is the fractional change in seawater
	// extinction per 1000 dbar.
	DefaultPressureCoefficient = 0.026
)

// ErrCalibration marks malformed or length-mismatched calibration data.
// It is fatal for the instrument being processed.
var ErrCalibration = errors.New("calibration: invalid calibration")

// Calibration holds the extinction coefficients and reference spectrum of
// one instrument deployment. All per-wavelength slices share one length and
// the wavelength ordering of Wavelengths.
//
// Slices returned by accessors are shared and must not be modified.
type Calibration struct {
	wavelengths []float64
	nitrate     []float64
	seawater    []float64
	reference   []float64

	temperature         float64
	wavelengthOffset    float64
	pressureCoefficient float64
}

// Option mutates optional calibration constants.
type Option func(*Calibration)

// WithWavelengthOffset overrides the bromide wavelength offset.
func WithWavelengthOffset(nm float64) Option {
	return func(c *Calibration) {
		if !math.IsNaN(nm) && !math.IsInf(nm, 0) {
			c.wavelengthOffset = nm
		}
	}
}

// WithPressureCoefficient overrides the pressure correction coefficient.
func WithPressureCoefficient(coef float64) Option {
	return func(c *Calibration) {
		if !math.IsNaN(coef) && !math.IsInf(coef, 0) {
			c.pressureCoefficient = coef
		}
	}
}

// New validates and copies the given arrays into a Calibration.
// temperature is the lab calibration temperature in °C.
func New(wavelengths, nitrate, seawater, reference []float64, temperature float64, opts ...Option) (*Calibration, error) {
	n := len(wavelengths)
	if n == 0 {
		return nil, fmt.Errorf("%w: no wavelengths", ErrCalibration)
	}
	if len(nitrate) != n || len(seawater) != n || len(reference) != n {
		return nil, fmt.Errorf("%w: length mismatch (wavelengths=%d nitrate=%d seawater=%d reference=%d)",
			ErrCalibration, n, len(nitrate), len(seawater), len(reference))
	}
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return nil, fmt.Errorf("%w: calibration temperature is not finite", ErrCalibration)
	}
	for i, wl := range wavelengths {
		if math.IsNaN(wl) || math.IsInf(wl, 0) {
			return nil, fmt.Errorf("%w: wavelength %d is not finite", ErrCalibration, i)
		}
		if i > 0 && wl <= wavelengths[i-1] {
			return nil, fmt.Errorf("%w: wavelengths not strictly increasing at index %d (%g after %g)",
				ErrCalibration, i, wl, wavelengths[i-1])
		}
	}

	c := &Calibration{
		wavelengths:         append([]float64(nil), wavelengths...),
		nitrate:             append([]float64(nil), nitrate...),
		seawater:            append([]float64(nil), seawater...),
		reference:           append([]float64(nil), reference...),
		temperature:         temperature,
		wavelengthOffset:    DefaultWavelengthOffset,
		pressureCoefficient: DefaultPressureCoefficient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Len returns the number of calibrated wavelengths.
func (c *Calibration) Len() int { return len(c.wavelengths) }

// Wavelengths returns the wavelength axis in nm.
func (c *Calibration) Wavelengths() []float64 { return c.wavelengths }

// ExtinctionNitrate returns the nitrate extinction coefficients.
func (c *Calibration) ExtinctionNitrate() []float64 { return c.nitrate }

// ExtinctionSeawater returns the seawater (bromide) extinction coefficients.
func (c *Calibration) ExtinctionSeawater() []float64 { return c.seawater }

// Reference returns the dark-corrected intensity through pure water.
func (c *Calibration) Reference() []float64 { return c.reference }

// Temperature returns the lab calibration temperature in °C.
func (c *Calibration) Temperature() float64 { return c.temperature }

// WavelengthOffset returns the bromide wavelength offset in nm.
func (c *Calibration) WavelengthOffset() float64 { return c.wavelengthOffset }

// PressureCoefficient returns the pressure correction coefficient.
func (c *Calibration) PressureCoefficient() float64 { return c.pressureCoefficient }

// With returns a copy of c with opts applied. The per-wavelength arrays are
// shared with c.
func (c *Calibration) With(opts ...Option) *Calibration {
	out := *c
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return &out
}

// RestrictToWindow returns a new Calibration holding only the wavelengths in
// [low, high], in their original order.
func (c *Calibration) RestrictToWindow(low, high float64) (*Calibration, error) {
	windowed, _, err := Select(c, Window{Low: low, High: high})
	return windowed, err
}
