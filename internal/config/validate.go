package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-nitrate/nitrate/instrument"
)

// Validate ensures the configuration is usable. A missing RMSE cutoff is
// not an error here; QCController reports it.
func (c *Config) Validate() error {
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateQC(); err != nil {
		return err
	}
	if err := c.validatePrescreen(); err != nil {
		return err
	}
	if _, err := parseDuration("ancillary.max_gap", c.Ancillary.MaxGap); err != nil {
		return err
	}
	if err := c.validateInstruments(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProcessing() error {
	p := c.Processing
	if !finite(p.FitWindowLowNM) || !finite(p.FitWindowHighNM) {
		return errors.New("processing fit window bounds must be finite")
	}
	if p.FitWindowLowNM >= p.FitWindowHighNM {
		return fmt.Errorf("processing.fit_window_low_nm (%g) must be below fit_window_high_nm (%g)",
			p.FitWindowLowNM, p.FitWindowHighNM)
	}
	if !finite(p.WavelengthOffset) {
		return errors.New("processing.wavelength_offset must be finite")
	}
	if !finite(p.PressureCoefficient) {
		return errors.New("processing.pressure_coefficient must be finite")
	}
	if !(p.SaturationValue > 0) || !finite(p.SaturationValue) {
		return errors.New("processing.saturation_value must be positive")
	}
	if p.Workers < 0 {
		return errors.New("processing.workers must be zero or positive")
	}
	if !(p.ReferenceWavelengthNM > 0) || !finite(p.ReferenceWavelengthNM) {
		return errors.New("processing.reference_wavelength_nm must be positive")
	}
	return nil
}

func (c *Config) validateQC() error {
	q := c.QC
	if q.RMSECutoff < 0 || !finite(q.RMSECutoff) {
		return errors.New("qc.rmse_cutoff must be positive")
	}
	if q.BandWindowSize <= 0 {
		return errors.New("qc.band_window_size must be positive")
	}
	if q.BandErrorBar < 0 || !finite(q.BandErrorBar) {
		return errors.New("qc.band_error_bar must be zero or positive")
	}
	if q.BandMinFraction < 0 || q.BandMinFraction > 1 {
		return errors.New("qc.band_min_fraction must be within [0, 1]")
	}
	_, err := parseDuration("qc.reference_max_gap", q.ReferenceMaxGap)
	return err
}

func (c *Config) validatePrescreen() error {
	p := c.Prescreen
	if p.NativeRMSECutoff < 0 || !finite(p.NativeRMSECutoff) {
		return errors.New("prescreen.native_rmse_cutoff must be zero or positive")
	}
	_, err := parseDuration("prescreen.resample_interval", p.ResampleInterval)
	return err
}

func (c *Config) validateInstruments() error {
	for id, inst := range c.Instruments {
		if _, err := instrument.ParseKind(inst.Kind); err != nil {
			return fmt.Errorf("instruments.%q: %w", id, err)
		}
		if len(inst.Calibrations) == 0 {
			return fmt.Errorf("instruments.%q: no calibrations listed", id)
		}
		for i, cal := range inst.Calibrations {
			if strings.TrimSpace(cal.Location) == "" {
				return fmt.Errorf("instruments.%q calibration %d: location is required", id, i)
			}
			if cal.Year < 0 {
				return fmt.Errorf("instruments.%q calibration %d: year must not be negative", id, i)
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

func parseDuration(key, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
