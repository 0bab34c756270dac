// Package solve inverts corrected absorbance spectra for nitrate
// concentration and a linear baseline.
//
// Each sample is fitted against the design matrix
//
//	M = [E_NO3(λ), 1/100, λ/1000]
//
// restricted to the pixels where the absorbance is present, using the
// Moore–Penrose pseudo-inverse. The column scaling keeps the three unknowns
// at comparable magnitudes; the reported intercept and slope are rescaled
// back to absorbance units.
package solve

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultReferenceWavelength is the wavelength whose absorbance is
	// reported alongside each fit.
	DefaultReferenceWavelength = 240.0

	// MinReliablePixels is the fewest valid pixels for which a fit is
	// considered statistically meaningful.
	MinReliablePixels = 3

	interceptScale = 100.0
	slopeScale     = 1000.0
)

// ErrLengthMismatch is returned when an absorbance vector does not match
// the solver's wavelength axis.
var ErrLengthMismatch = errors.New("solve: absorbance length does not match wavelength axis")

// Result is the outcome of one fit. Numeric fields are NaN when no fit
// could be made.
type Result struct {
	Concentration       float64 // µM
	BaselineIntercept   float64
	BaselineSlope       float64 // per nm
	RMSError            float64
	ReferenceWavelength float64
	ReferenceAbsorbance float64
	ValidPixels         int
}

// Reliable reports whether the fit used at least MinReliablePixels pixels.
func (r Result) Reliable() bool { return r.ValidPixels >= MinReliablePixels }

// Option configures a Solver.
type Option func(*Solver)

// WithReferenceWavelength sets the wavelength used for the reference
// absorbance report. Non-finite values are ignored.
func WithReferenceWavelength(nm float64) Option {
	return func(s *Solver) {
		if !math.IsNaN(nm) && !math.IsInf(nm, 0) {
			s.referenceWavelength = nm
		}
	}
}

// Solver fits windowed absorbance spectra. It is read-only after
// construction and safe for concurrent use.
type Solver struct {
	wavelengths         []float64
	nitrate             []float64
	referenceWavelength float64
	refIndex            int
}

// New returns a Solver for the given windowed wavelength axis and nitrate
// extinction coefficients.
func New(wavelengths, nitrate []float64, opts ...Option) (*Solver, error) {
	if len(wavelengths) == 0 {
		return nil, fmt.Errorf("solve: empty wavelength axis")
	}
	if len(nitrate) != len(wavelengths) {
		return nil, fmt.Errorf("solve: %d nitrate coefficients for %d wavelengths", len(nitrate), len(wavelengths))
	}
	s := &Solver{
		wavelengths:         append([]float64(nil), wavelengths...),
		nitrate:             append([]float64(nil), nitrate...),
		referenceWavelength: DefaultReferenceWavelength,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refIndex = nearest(s.wavelengths, s.referenceWavelength)
	return s, nil
}

// ReferenceIndex returns the index on the wavelength axis closest to the
// reference wavelength. Ties go to the lower index.
func (s *Solver) ReferenceIndex() int { return s.refIndex }

// Len returns the number of pixels the solver expects.
func (s *Solver) Len() int { return len(s.wavelengths) }

// Solve fits one corrected absorbance spectrum. Missing pixels are NaN.
// Pixels whose design row is not finite are treated as missing as well.
// Numerical failure yields NaN outputs, never an error.
func (s *Solver) Solve(absorbance []float64) (Result, error) {
	if len(absorbance) != len(s.wavelengths) {
		return Result{}, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(absorbance), len(s.wavelengths))
	}
	nan := math.NaN()
	res := Result{
		Concentration:       nan,
		BaselineIntercept:   nan,
		BaselineSlope:       nan,
		RMSError:            nan,
		ReferenceWavelength: s.wavelengths[s.refIndex],
		ReferenceAbsorbance: absorbance[s.refIndex],
	}

	valid := make([]int, 0, len(absorbance))
	for i, a := range absorbance {
		if finite(a) && finite(s.nitrate[i]) && finite(s.wavelengths[i]) {
			valid = append(valid, i)
		}
	}
	res.ValidPixels = len(valid)
	if len(valid) == 0 {
		return res, nil
	}

	m := mat.NewDense(len(valid), 3, nil)
	b := mat.NewVecDense(len(valid), nil)
	for r, i := range valid {
		m.Set(r, 0, s.nitrate[i])
		m.Set(r, 1, 1/interceptScale)
		m.Set(r, 2, s.wavelengths[i]/slopeScale)
		b.SetVec(r, absorbance[i])
	}

	pinv, ok := pseudoInverse(m)
	if !ok {
		return res, nil
	}
	var x mat.VecDense
	x.MulVec(pinv, b)

	res.Concentration = x.AtVec(0)
	res.BaselineIntercept = x.AtVec(1) / interceptScale
	res.BaselineSlope = x.AtVec(2) / slopeScale

	var sum float64
	for _, i := range valid {
		r := absorbance[i] - (s.wavelengths[i]*res.BaselineSlope + res.BaselineIntercept) - s.nitrate[i]*res.Concentration
		sum += r * r
	}
	res.RMSError = math.Sqrt(sum / float64(len(valid)))
	return res, nil
}

// pseudoInverse returns the Moore–Penrose inverse of a via a thin SVD.
// Singular values below 1e-15 times the largest are treated as zero.
func pseudoInverse(a *mat.Dense) (*mat.Dense, bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false
	}
	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	cutoff := 0.0
	if len(values) > 0 {
		cutoff = 1e-15 * values[0]
	}
	inv := make([]float64, len(values))
	for i, sv := range values {
		if sv > cutoff {
			inv[i] = 1 / sv
		}
	}

	// pinv = V · diag(1/σ) · Uᵀ
	var vs mat.Dense
	vs.Apply(func(_, j int, x float64) float64 { return x * inv[j] }, &v)
	var out mat.Dense
	out.Mul(&vs, u.T())
	return &out, true
}

func nearest(values []float64, target float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range values {
		d := math.Abs(v - target)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
