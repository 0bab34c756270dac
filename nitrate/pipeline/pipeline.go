package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-nitrate/nitrate/absorbance"
	"github.com/cwbudde/algo-nitrate/nitrate/ancillary"
	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
	"github.com/cwbudde/algo-nitrate/nitrate/correct"
	"github.com/cwbudde/algo-nitrate/nitrate/qc"
	"github.com/cwbudde/algo-nitrate/nitrate/solve"
	"github.com/cwbudde/algo-nitrate/nitrate/spectrum"
)

var (
	// ErrNativeScreen marks a sample dropped by the instrument RMSE screen.
	ErrNativeScreen = errors.New("pipeline: instrument rmse outside cutoff")
	// ErrDarkFrame marks a sample dropped as an hourly dark frame.
	ErrDarkFrame = errors.New("pipeline: hourly dark frame")
)

// SampleResult is the fit for one sample before QC.
type SampleResult struct {
	Time            time.Time
	Ancillary       ancillary.Measurement
	Fit             solve.Result
	SaturatedPixels int
	// Spectra is set only when the processor keeps spectra.
	Spectra *absorbance.Spectra
}

// Record is a fitted sample with its QC outcome.
type Record struct {
	SampleResult
	QC qc.Result
}

// Accepted reports whether the record passed both QC stages.
func (r Record) Accepted() bool { return r.QC.Accepted() }

// Exclusion is a sample that produced no record.
type Exclusion struct {
	Time time.Time
	Err  error
}

// Processor corrects and fits samples against one calibration. It is safe
// for concurrent use.
type Processor struct {
	cfg       Config
	cal       *calibration.Calibration
	mask      calibration.Mask
	corrector *correct.Corrector
	solver    *solve.Solver
	cond      spectrum.Conditioner
	qc        *qc.Controller
}

// New returns a Processor for cal, screening with ctl.
func New(cal *calibration.Calibration, ctl *qc.Controller, opts ...Option) (*Processor, error) {
	if cal == nil {
		return nil, fmt.Errorf("%w: nil calibration", calibration.ErrCalibration)
	}
	if ctl == nil {
		return nil, fmt.Errorf("%w: nil controller", qc.ErrConfig)
	}
	cfg := ApplyOptions(opts...)

	windowed, mask, err := calibration.Select(cal, cfg.Window)
	if err != nil {
		return nil, err
	}
	solver, err := solve.New(windowed.Wavelengths(), windowed.ExtinctionNitrate(),
		solve.WithReferenceWavelength(cfg.ReferenceWavelength))
	if err != nil {
		return nil, err
	}
	return &Processor{
		cfg:       cfg,
		cal:       windowed,
		mask:      mask,
		corrector: correct.New(windowed),
		solver:    solver,
		cond:      spectrum.NewConditioner(cfg.Saturation),
		qc:        ctl,
	}, nil
}

// Config returns the processing configuration.
func (p *Processor) Config() Config { return p.cfg }

// Calibration returns the windowed calibration.
func (p *Processor) Calibration() *calibration.Calibration { return p.cal }

// Mask returns the window mask over the full calibration axis.
func (p *Processor) Mask() calibration.Mask { return p.mask }

// Correct processes one sample with its ancillary measurement.
func (p *Processor) Correct(s spectrum.Sample, anc ancillary.Measurement) (SampleResult, error) {
	intensity, err := s.Window(p.mask)
	if err != nil {
		return SampleResult{}, err
	}
	cleaned, saturated := p.cond.Condition(intensity, s.Dark)

	reference := p.cal.Reference()
	if p.cfg.SubtractDarkFromReference {
		reference = absorbance.DarkCorrectedReference(reference, s.Dark)
	}
	seawater := p.corrector.InSitu(anc.Temperature, anc.Pressure)
	spectra := absorbance.Compute(cleaned, reference, seawater, anc.Salinity)

	fit, err := p.solver.Solve(spectra.Corrected)
	if err != nil {
		return SampleResult{}, err
	}
	res := SampleResult{
		Time:            s.Time,
		Ancillary:       anc,
		Fit:             fit,
		SaturatedPixels: saturated,
	}
	if p.cfg.KeepSpectra {
		res.Spectra = &spectra
	}
	return res, nil
}

// Run processes a batch. Samples are sorted by time, pre-screened,
// processed in parallel, and screened by QC in time order. Samples whose
// pixel count does not match the calibration are excluded during the
// pre-screen. Per-sample failures become exclusions; only cancellation
// aborts the batch.
func (p *Processor) Run(ctx context.Context, samples []spectrum.Sample, src ancillary.Source) (*Batch, error) {
	batch := &Batch{}
	batch.Summary.Input = len(samples)

	ordered := append([]spectrum.Sample(nil), samples...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Time.Before(ordered[j].Time) })

	ordered = p.prescreen(ordered, batch)
	ordered, err := spectrum.ResampleMedian(ordered, p.cfg.ResampleInterval)
	if err != nil {
		return nil, err
	}
	batch.Summary.Processed = len(ordered)

	type slot struct {
		res SampleResult
		err error
	}
	slots := make([]slot, len(ordered))

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range ordered {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := ordered[i]
			anc, err := src.At(s.Time)
			if err != nil {
				slots[i].err = err
				return nil
			}
			slots[i].res, slots[i].err = p.Correct(s, anc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, sl := range slots {
		if sl.err != nil {
			batch.Exclusions = append(batch.Exclusions, Exclusion{Time: ordered[i].Time, Err: sl.err})
			continue
		}
		if sl.res.SaturatedPixels > 0 {
			batch.Notices = append(batch.Notices, spectrum.SaturationNotice{Time: sl.res.Time, Pixels: sl.res.SaturatedPixels})
		}
		batch.Records = append(batch.Records, Record{SampleResult: sl.res})
	}
	sort.SliceStable(batch.Exclusions, func(i, j int) bool {
		return batch.Exclusions[i].Time.Before(batch.Exclusions[j].Time)
	})

	rms := make([]float64, len(batch.Records))
	for i, r := range batch.Records {
		rms[i] = r.Fit.RMSError
	}
	for i, res := range p.qc.Screen(rms) {
		batch.Records[i].QC = res
	}
	batch.summarize()
	return batch, nil
}

func (p *Processor) prescreen(samples []spectrum.Sample, batch *Batch) []spectrum.Sample {
	if p.cfg.DropHourlyDark {
		kept, dropped := spectrum.DropHourlyDark(samples)
		for _, s := range dropped {
			batch.Exclusions = append(batch.Exclusions, Exclusion{Time: s.Time, Err: ErrDarkFrame})
		}
		samples = kept
	}
	if p.cfg.NativeRMSECutoff > 0 {
		native := make([]float64, len(samples))
		for i, s := range samples {
			native[i] = s.NativeRMSE
		}
		pass := qc.NativeScreen(native, p.cfg.NativeRMSECutoff)
		kept := samples[:0:0]
		for i, s := range samples {
			if pass[i] {
				kept = append(kept, s)
				continue
			}
			batch.Exclusions = append(batch.Exclusions, Exclusion{
				Time: s.Time,
				Err:  fmt.Errorf("%w: rmse %v not in (0, %v]", ErrNativeScreen, s.NativeRMSE, p.cfg.NativeRMSECutoff),
			})
		}
		samples = kept
	}

	// Resampling requires a uniform pixel count within each bin.
	kept := samples[:0:0]
	for _, s := range samples {
		if err := s.CheckPixels(len(p.mask)); err != nil {
			batch.Exclusions = append(batch.Exclusions, Exclusion{Time: s.Time, Err: err})
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
