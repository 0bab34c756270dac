package calibration

import "fmt"

// Window is an inclusive wavelength band in nm.
type Window struct {
	Low  float64
	High float64
}

var (
	// OperationalWindow is the fitting band used for routine processing.
	OperationalWindow = Window{Low: 217, High: 240}
	// LiteratureWindow is the band where per-wavelength temperature
	// regressions correlate best (Plant et al., 2023).
	LiteratureWindow = Window{Low: 210, High: 230}
)

// Contains reports whether wl lies in [w.Low, w.High].
func (w Window) Contains(wl float64) bool {
	return wl >= w.Low && wl <= w.High
}

func (w Window) String() string {
	return fmt.Sprintf("%g-%g nm", w.Low, w.High)
}

// Mask marks which positions of a calibration wavelength axis fall inside a
// window. It is derived from calibration wavelengths only and is applied
// unchanged to every observed spectrum.
type Mask []bool

// Count returns the number of selected positions.
func (m Mask) Count() int {
	n := 0
	for _, keep := range m {
		if keep {
			n++
		}
	}
	return n
}

// Apply returns the elements of values at selected positions.
// Panics if len(values) != len(m).
func (m Mask) Apply(values []float64) []float64 {
	if len(values) != len(m) {
		panic(fmt.Sprintf("calibration: mask length %d, values length %d", len(m), len(values)))
	}
	out := make([]float64, 0, m.Count())
	for i, keep := range m {
		if keep {
			out = append(out, values[i])
		}
	}
	return out
}

// NewMask builds the window mask over wavelengths.
func NewMask(wavelengths []float64, w Window) Mask {
	m := make(Mask, len(wavelengths))
	for i, wl := range wavelengths {
		m[i] = w.Contains(wl)
	}
	return m
}

// Select restricts c to w and returns the windowed calibration together with
// the mask over c's original wavelength axis.
func Select(c *Calibration, w Window) (*Calibration, Mask, error) {
	if w.Low > w.High {
		return nil, nil, fmt.Errorf("%w: window %s is inverted", ErrCalibration, w)
	}
	mask := NewMask(c.wavelengths, w)
	if mask.Count() == 0 {
		return nil, nil, fmt.Errorf("%w: window %s selects no wavelengths in %g-%g nm",
			ErrCalibration, w, c.wavelengths[0], c.wavelengths[len(c.wavelengths)-1])
	}

	out := &Calibration{
		wavelengths:         mask.Apply(c.wavelengths),
		nitrate:             mask.Apply(c.nitrate),
		seawater:            mask.Apply(c.seawater),
		reference:           mask.Apply(c.reference),
		temperature:         c.temperature,
		wavelengthOffset:    c.wavelengthOffset,
		pressureCoefficient: c.pressureCoefficient,
	}
	return out, mask, nil
}
