package qc

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfig is returned for an unusable QC configuration.
var ErrConfig = errors.New("qc: invalid configuration")

// Config holds the screening parameters.
type Config struct {
	// RMSECutoff is the stage-1 upper bound. It is deployment specific and
	// has no default.
	RMSECutoff float64
	// BandWindow is the rolling-mean window size, in samples.
	BandWindow int
	// ErrorBar is the half width of the stage-2 band.
	ErrorBar float64
	// MinFraction is the fraction of the window that must be present for
	// the smoothed value to be defined.
	MinFraction float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the band defaults with no RMSE cutoff set.
func DefaultConfig() Config {
	return Config{
		BandWindow:  50,
		ErrorBar:    0.0002,
		MinFraction: 0.6,
	}
}

// WithBandWindow sets the rolling-mean window size.
func WithBandWindow(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.BandWindow = n
		}
	}
}

// WithErrorBar sets the half width of the stage-2 band.
func WithErrorBar(bar float64) Option {
	return func(cfg *Config) {
		if bar >= 0 && !math.IsInf(bar, 0) {
			cfg.ErrorBar = bar
		}
	}
}

// WithMinFraction sets the required non-missing fraction per window.
func WithMinFraction(f float64) Option {
	return func(cfg *Config) {
		if f >= 0 && f <= 1 {
			cfg.MinFraction = f
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(cutoff float64, opts ...Option) Config {
	cfg := DefaultConfig()
	cfg.RMSECutoff = cutoff
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Result is the screening outcome for one sample.
type Result struct {
	PassedRMSECutoff bool
	PassedBandFilter bool

	// Smoothed, Lower and Upper describe the stage-2 band at this sample.
	// They are NaN when the sample failed stage 1 or the window held too
	// few values.
	Smoothed float64
	Lower    float64
	Upper    float64
}

// Accepted reports whether the sample passed both stages.
func (r Result) Accepted() bool { return r.PassedRMSECutoff && r.PassedBandFilter }

// Controller applies a fixed Config. It holds no per-series state.
type Controller struct {
	cfg Config
}

// New returns a Controller for the given stage-1 cutoff.
func New(cutoff float64, opts ...Option) (*Controller, error) {
	cfg := ApplyOptions(cutoff, opts...)
	if !(cfg.RMSECutoff > 0) || math.IsInf(cfg.RMSECutoff, 0) {
		return nil, fmt.Errorf("%w: rmse cutoff must be positive and finite, got %v", ErrConfig, cutoff)
	}
	return &Controller{cfg: cfg}, nil
}

// Config returns the configuration in use.
func (c *Controller) Config() Config { return c.cfg }

// PassesCutoff reports the stage-1 decision for one RMS error.
func (c *Controller) PassesCutoff(rms float64) bool {
	return math.IsNaN(rms) || (rms > 0 && rms <= c.cfg.RMSECutoff)
}

// MinPeriods returns the number of present values a window needs.
func (c *Controller) MinPeriods() int {
	return int(float64(c.cfg.BandWindow) * c.cfg.MinFraction)
}

// Screen evaluates a time-ordered RMS error series. The returned slice is
// aligned with rms.
func (c *Controller) Screen(rms []float64) []Result {
	out := make([]Result, len(rms))
	survivors := make([]float64, 0, len(rms))
	index := make([]int, 0, len(rms))
	nan := math.NaN()
	for i, v := range rms {
		out[i] = Result{Smoothed: nan, Lower: nan, Upper: nan}
		if c.PassesCutoff(v) {
			out[i].PassedRMSECutoff = true
			survivors = append(survivors, v)
			index = append(index, i)
		}
	}

	smoothed := RollingMean(survivors, c.cfg.BandWindow, c.MinPeriods())
	for k, i := range index {
		s := smoothed[k]
		lower, upper := s-c.cfg.ErrorBar, s+c.cfg.ErrorBar
		v := survivors[k]
		out[i].Smoothed = s
		out[i].Lower = lower
		out[i].Upper = upper
		out[i].PassedBandFilter = math.IsNaN(v) || (v >= lower && v <= upper)
	}
	return out
}

// RollingMean returns the centred rolling mean of values, ignoring NaN.
// For window w, position i averages indices [i-w/2, i+(w-1)/2] clipped to
// the series. Positions with fewer than max(minPeriods, 1) present values
// are NaN.
func RollingMean(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}
	if minPeriods < 1 {
		minPeriods = 1
	}
	offset := (window - 1) / 2
	for i := range values {
		end := i + 1 + offset
		start := max(end-window, 0)
		end = min(end, len(values))

		var sum float64
		n := 0
		for _, v := range values[start:end] {
			if !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		if n < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}

// NativeScreen reports, per value, whether an instrument-computed RMS error
// satisfies 0 < v <= cutoff. Missing values fail.
func NativeScreen(values []float64, cutoff float64) []bool {
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = v > 0 && v <= cutoff
	}
	return out
}
