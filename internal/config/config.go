package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"
)

//go:embed sample_config.toml
var sampleConfig string

// Processing holds correction and fit settings.
type Processing struct {
	FitWindowLowNM            float64 `toml:"fit_window_low_nm"`
	FitWindowHighNM           float64 `toml:"fit_window_high_nm"`
	WavelengthOffset          float64 `toml:"wavelength_offset"`
	PressureCoefficient       float64 `toml:"pressure_coefficient"`
	SaturationValue           float64 `toml:"saturation_value"`
	SubtractDarkFromReference bool    `toml:"subtract_dark_from_reference"`
	Workers                   int     `toml:"workers"`
	ReferenceWavelengthNM     float64 `toml:"reference_wavelength_nm"`
}

// QC holds the screening settings.
type QC struct {
	RMSECutoff      float64 `toml:"rmse_cutoff"`
	BandWindowSize  int     `toml:"band_window_size"`
	BandErrorBar    float64 `toml:"band_error_bar"`
	BandMinFraction float64 `toml:"band_min_fraction"`
	// ReferenceMaxGap bounds the distance between a reference sample and
	// the processed point it is compared with. Empty means unbounded.
	ReferenceMaxGap string `toml:"reference_max_gap"`
}

// Prescreen holds filters applied before correction.
type Prescreen struct {
	NativeRMSECutoff float64 `toml:"native_rmse_cutoff"`
	ResampleInterval string  `toml:"resample_interval"`
	DropHourlyDark   bool    `toml:"drop_hourly_dark"`
}

// Ancillary holds CTD alignment settings.
type Ancillary struct {
	MaxGap string `toml:"max_gap"`
}

// Calibration is one calibration file of an instrument.
type Calibration struct {
	Year     int    `toml:"year"`
	Location string `toml:"location"`
}

// Instrument maps a sensor identifier to its kind and calibration files.
type Instrument struct {
	Kind         string        `toml:"kind"`
	Calibrations []Calibration `toml:"calibrations"`
}

// Logging holds log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Reference is an independent nitrate measurement, typically a bottle
// sample, used for the mean offset report.
type Reference struct {
	Time  time.Time `toml:"time"`
	Value float64   `toml:"value"`
}

// Config is the complete no3proc configuration.
type Config struct {
	Processing  Processing            `toml:"processing"`
	QC          QC                    `toml:"qc"`
	Prescreen   Prescreen             `toml:"prescreen"`
	Ancillary   Ancillary             `toml:"ancillary"`
	Instruments map[string]Instrument `toml:"instruments"`
	Logging     Logging               `toml:"logging"`
	References  []Reference           `toml:"references"`
}

// Load parses and validates the configuration at path. An empty path yields
// the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open config file %s", path)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid config file %s", path)
	}
	return &cfg, nil
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Sample returns the annotated sample configuration.
func Sample() string { return sampleConfig }
