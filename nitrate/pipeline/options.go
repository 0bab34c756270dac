package pipeline

import (
	"math"
	"time"

	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
	"github.com/cwbudde/algo-nitrate/nitrate/solve"
	"github.com/cwbudde/algo-nitrate/nitrate/spectrum"
)

// Config holds processing settings.
type Config struct {
	Window                    calibration.Window
	Saturation                float64
	SubtractDarkFromReference bool
	// Workers bounds the per-sample pool. Zero means GOMAXPROCS.
	Workers             int
	ReferenceWavelength float64

	// NativeRMSECutoff drops samples whose instrument RMSE is outside
	// (0, cutoff] before processing. Zero disables the screen.
	NativeRMSECutoff float64
	// ResampleInterval median-bins samples before processing. Zero
	// disables resampling.
	ResampleInterval time.Duration
	// DropHourlyDark drops the first sample of every hour.
	DropHourlyDark bool
	// KeepSpectra retains the absorbance stages on each record.
	KeepSpectra bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the operational defaults.
func DefaultConfig() Config {
	return Config{
		Window:              calibration.OperationalWindow,
		Saturation:          spectrum.DefaultSaturation,
		ReferenceWavelength: solve.DefaultReferenceWavelength,
	}
}

// WithWindow sets the fit window. Windows with non-finite bounds are ignored.
func WithWindow(w calibration.Window) Option {
	return func(cfg *Config) {
		if finite(w.Low) && finite(w.High) {
			cfg.Window = w
		}
	}
}

// WithSaturation sets the pixel saturation threshold.
func WithSaturation(v float64) Option {
	return func(cfg *Config) {
		if v > 0 && finite(v) {
			cfg.Saturation = v
		}
	}
}

// WithDarkCorrectedReference subtracts each sample's dark value from the
// calibration reference when enabled.
func WithDarkCorrectedReference(enabled bool) Option {
	return func(cfg *Config) {
		cfg.SubtractDarkFromReference = enabled
	}
}

// WithWorkers bounds the per-sample worker pool.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.Workers = n
		}
	}
}

// WithReferenceWavelength sets the wavelength reported with each fit.
func WithReferenceWavelength(nm float64) Option {
	return func(cfg *Config) {
		if nm > 0 && finite(nm) {
			cfg.ReferenceWavelength = nm
		}
	}
}

// WithNativeRMSECutoff enables the instrument RMSE pre-screen.
func WithNativeRMSECutoff(cutoff float64) Option {
	return func(cfg *Config) {
		if cutoff >= 0 && finite(cutoff) {
			cfg.NativeRMSECutoff = cutoff
		}
	}
}

// WithResampleInterval enables median resampling.
func WithResampleInterval(d time.Duration) Option {
	return func(cfg *Config) {
		if d >= 0 {
			cfg.ResampleInterval = d
		}
	}
}

// WithDropHourlyDark enables the hourly dark-frame drop.
func WithDropHourlyDark(enabled bool) Option {
	return func(cfg *Config) {
		cfg.DropHourlyDark = enabled
	}
}

// WithKeepSpectra retains per-sample absorbance vectors.
func WithKeepSpectra(enabled bool) Option {
	return func(cfg *Config) {
		cfg.KeepSpectra = enabled
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
