package config

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
	"github.com/cwbudde/algo-nitrate/nitrate/instrument"
	"github.com/cwbudde/algo-nitrate/nitrate/pipeline"
	"github.com/cwbudde/algo-nitrate/nitrate/qc"
)

// Window returns the configured fit window.
func (c *Config) Window() calibration.Window {
	return calibration.Window{Low: c.Processing.FitWindowLowNM, High: c.Processing.FitWindowHighNM}
}

// CalibrationOptions returns the calibration overrides.
func (c *Config) CalibrationOptions() []calibration.Option {
	return []calibration.Option{
		calibration.WithWavelengthOffset(c.Processing.WavelengthOffset),
		calibration.WithPressureCoefficient(c.Processing.PressureCoefficient),
	}
}

// QCController builds the QC controller. It fails when no RMSE cutoff is
// configured.
func (c *Config) QCController() (*qc.Controller, error) {
	if c.QC.RMSECutoff == 0 {
		return nil, errors.New("qc.rmse_cutoff is required for processing")
	}
	return qc.New(c.QC.RMSECutoff,
		qc.WithBandWindow(c.QC.BandWindowSize),
		qc.WithErrorBar(c.QC.BandErrorBar),
		qc.WithMinFraction(c.QC.BandMinFraction))
}

// PipelineOptions returns the processor options.
func (c *Config) PipelineOptions() []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithWindow(c.Window()),
		pipeline.WithSaturation(c.Processing.SaturationValue),
		pipeline.WithDarkCorrectedReference(c.Processing.SubtractDarkFromReference),
		pipeline.WithWorkers(c.Processing.Workers),
		pipeline.WithReferenceWavelength(c.Processing.ReferenceWavelengthNM),
		pipeline.WithNativeRMSECutoff(c.Prescreen.NativeRMSECutoff),
		pipeline.WithResampleInterval(c.ResampleInterval()),
		pipeline.WithDropHourlyDark(c.Prescreen.DropHourlyDark),
	}
}

// ResampleInterval returns the median resampling interval, zero when
// disabled.
func (c *Config) ResampleInterval() time.Duration {
	d, _ := parseDuration("prescreen.resample_interval", c.Prescreen.ResampleInterval)
	return d
}

// AncillaryMaxGap returns the CTD interpolation gap limit, zero when
// unbounded.
func (c *Config) AncillaryMaxGap() time.Duration {
	d, _ := parseDuration("ancillary.max_gap", c.Ancillary.MaxGap)
	return d
}

// ReferenceMaxGap returns the reference matching gap limit, zero when
// unbounded.
func (c *Config) ReferenceMaxGap() time.Duration {
	d, _ := parseDuration("qc.reference_max_gap", c.QC.ReferenceMaxGap)
	return d
}

// ReferencePoints returns the configured references in time order.
func (c *Config) ReferencePoints() []qc.Point {
	out := make([]qc.Point, len(c.References))
	for i, r := range c.References {
		out[i] = qc.Point{Time: r.Time, Value: r.Value}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// Registry builds the instrument calibration registry. client is used for
// http(s) locations; nil means http.DefaultClient.
func (c *Config) Registry(client *http.Client) (*calibration.Registry, error) {
	instruments := make(map[string]calibration.Instrument, len(c.Instruments))
	for id, inst := range c.Instruments {
		kind, err := instrument.ParseKind(inst.Kind)
		if err != nil {
			return nil, err
		}
		entries := make([]calibration.Entry, len(inst.Calibrations))
		for i, cal := range inst.Calibrations {
			entries[i] = calibration.Entry{Year: cal.Year, Location: cal.Location}
		}
		instruments[id] = calibration.Instrument{Kind: kind, Calibrations: entries}
	}
	source := calibration.AutoSource{HTTP: calibration.HTTPSource{Client: client}}
	return calibration.NewRegistry(instruments, source), nil
}
