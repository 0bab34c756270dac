package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nitrate/nitrate/ancillary"
	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
	"github.com/cwbudde/algo-nitrate/nitrate/instrument"
	"github.com/cwbudde/algo-nitrate/nitrate/pipeline"
	"github.com/cwbudde/algo-nitrate/nitrate/qc"
	"github.com/cwbudde/algo-nitrate/nitrate/spectrum"
)

type processOptions struct {
	instrument  string
	kind        string
	calibration string
	year        int
	ctd         string
	exactCTD    bool
	out         string
}

func newProcessCommand(a *app) *cobra.Command {
	opts := &processOptions{}
	cmd := &cobra.Command{
		Use:   "process [flags] raw-file...",
		Short: "Correct and refit raw spectra, then screen the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProcess(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.instrument, "instrument", "i", "", "instrument identifier in the configuration, e.g. \"SUNA 1471\"")
	flags.StringVar(&opts.kind, "kind", "", "instrument kind (suna, isus) when --calibration is used without --instrument")
	flags.StringVar(&opts.calibration, "calibration", "", "calibration file, bypassing the instrument registry")
	flags.IntVar(&opts.year, "year", 0, "data year for calibration selection; defaults to the year of the first sample")
	flags.StringVar(&opts.ctd, "ctd", "", "CTD CSV with time, temperature, salinity and pressure")
	flags.BoolVar(&opts.exactCTD, "exact-ctd", false, "require CTD rows at every sample timestamp instead of interpolating")
	flags.StringVarP(&opts.out, "out", "o", "-", "output CSV path, - for stdout")
	_ = cmd.MarkFlagRequired("ctd")
	return cmd
}

func (a *app) runProcess(ctx context.Context, opts *processOptions, rawFiles []string, stdout, stderr io.Writer) error {
	kind, err := a.resolveKind(opts.instrument, opts.kind)
	if err != nil {
		return err
	}
	layout, err := spectrum.LayoutFor(kind)
	if err != nil {
		return err
	}

	samples, err := decodeRawFiles(rawFiles, layout)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.New("no samples in raw files")
	}
	a.log.WithFields(logrus.Fields{"files": len(rawFiles), "samples": len(samples), "kind": kind}).Info("decoded raw spectra")

	year := opts.year
	if year == 0 {
		year = earliest(samples).Year()
	}
	cal, err := a.loadCalibration(ctx, opts.instrument, opts.calibration, kind, year)
	if err != nil {
		return err
	}

	src, err := a.loadCTD(opts.ctd, opts.exactCTD)
	if err != nil {
		return err
	}

	ctl, err := a.cfg.QCController()
	if err != nil {
		return err
	}
	proc, err := pipeline.New(cal, ctl, a.cfg.PipelineOptions()...)
	if err != nil {
		return err
	}
	a.logWindow(proc)

	batch, err := proc.Run(ctx, samples, src)
	if err != nil {
		return err
	}
	a.logBatch(batch)

	if err := writeResults(opts.out, stdout, batch.Records); err != nil {
		return err
	}
	fmt.Fprintln(stderr, renderSummary(batch.Summary))

	if refs := a.cfg.ReferencePoints(); len(refs) > 0 {
		mean, matches := qc.MeanOffset(batch.AcceptedCurve(), refs, a.cfg.ReferenceMaxGap())
		if len(matches) > 0 {
			fmt.Fprintln(stderr, renderOffsets(matches))
		}
		a.log.WithFields(logrus.Fields{
			"references": len(refs),
			"matched":    len(matches),
			"mean":       mean,
		}).Info("mean offset against references")
	}
	return nil
}

func (a *app) resolveKind(id, kind string) (instrument.Kind, error) {
	if id != "" {
		inst, ok := a.cfg.Instruments[id]
		if !ok {
			return instrument.KindUnknown, fmt.Errorf("%w: %q", calibration.ErrUnknownInstrument, id)
		}
		return instrument.ParseKind(inst.Kind)
	}
	if kind == "" {
		return instrument.KindUnknown, errors.New("either --instrument or --kind is required")
	}
	return instrument.ParseKind(kind)
}

func (a *app) loadCalibration(ctx context.Context, id, path string, kind instrument.Kind, year int) (*calibration.Calibration, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		cal, err := calibration.Parse(f, kind, a.cfg.CalibrationOptions()...)
		if err != nil {
			return nil, fmt.Errorf("parse calibration %s: %w", path, err)
		}
		a.log.WithFields(logrus.Fields{"path": path, "wavelengths": cal.Len()}).Info("loaded calibration")
		return cal, nil
	}

	reg, err := a.cfg.Registry(nil)
	if err != nil {
		return nil, err
	}
	cal, entry, err := reg.Load(ctx, id, year, a.cfg.CalibrationOptions()...)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"instrument":  id,
		"data_year":   year,
		"cal_year":    entry.Year,
		"location":    entry.Location,
		"wavelengths": cal.Len(),
	}).Info("loaded calibration")
	return cal, nil
}

func (a *app) loadCTD(path string, exact bool) (ancillary.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	series, err := ancillary.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if exact {
		return ancillary.NewExact(series), nil
	}
	interp := ancillary.NewInterpolator(series, a.cfg.AncillaryMaxGap())
	a.log.WithFields(logrus.Fields{"rows": len(series), "usable": interp.Len()}).Info("loaded CTD series")
	return interp, nil
}

func (a *app) logWindow(proc *pipeline.Processor) {
	w := proc.Config().Window
	entry := a.log.WithFields(logrus.Fields{"window": w.String(), "pixels": proc.Calibration().Len()})
	switch w {
	case calibration.OperationalWindow:
		entry.Info("fitting over the operational window")
	case calibration.LiteratureWindow:
		entry.Info("fitting over the literature window")
	default:
		entry.WithFields(logrus.Fields{
			"operational": calibration.OperationalWindow.String(),
			"literature":  calibration.LiteratureWindow.String(),
		}).Warn("fit window differs from both the operational and literature windows")
	}
}

func (a *app) logBatch(batch *pipeline.Batch) {
	if len(batch.Notices) > 0 {
		pixels := 0
		for _, n := range batch.Notices {
			pixels += n.Pixels
			a.log.WithFields(logrus.Fields{"time": n.Time.Format(time.RFC3339), "pixels": n.Pixels}).Debug("saturated sample")
		}
		a.log.WithFields(logrus.Fields{"samples": len(batch.Notices), "pixels": pixels}).
			Warn("saturated pixel intensities detected; saturated values excluded")
	}
	for _, e := range batch.Exclusions {
		a.log.WithField("time", e.Time.Format(time.RFC3339)).Debugf("excluded: %v", e.Err)
	}
	if n := len(batch.Exclusions); n > 0 {
		a.log.WithField("samples", n).Warn("samples excluded from processing")
	}
	if n := batch.Summary.Unreliable; n > 0 {
		a.log.WithField("samples", n).Warn("fits use fewer than three valid pixels")
	}
}

func decodeRawFiles(paths []string, layout spectrum.Layout) ([]spectrum.Sample, error) {
	var out []spectrum.Sample
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		samples, err := spectrum.Decode(f, layout)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		out = append(out, samples...)
	}
	return out, nil
}

func earliest(samples []spectrum.Sample) time.Time {
	t := samples[0].Time
	for _, s := range samples[1:] {
		if s.Time.Before(t) {
			t = s.Time
		}
	}
	return t
}

func writeResults(path string, stdout io.Writer, records []pipeline.Record) error {
	if path == "" || path == "-" {
		return pipeline.WriteCSV(stdout, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pipeline.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderSummary(s pipeline.Summary) string {
	rows := [][]string{
		{"input samples", strconv.Itoa(s.Input)},
		{"hourly dark frames", strconv.Itoa(s.DarkFrames)},
		{"failed native screen", strconv.Itoa(s.NativeScreen)},
		{"pixel mismatch", strconv.Itoa(s.Mismatched)},
		{"processed", strconv.Itoa(s.Processed)},
		{"missing CTD", strconv.Itoa(s.Missing)},
		{"other failures", strconv.Itoa(s.Other)},
		{"fitted", strconv.Itoa(s.Records)},
		{"saturated", strconv.Itoa(s.Saturated)},
		{"unreliable fits", strconv.Itoa(s.Unreliable)},
		{"passed rmse cutoff", strconv.Itoa(s.PassedCutoff)},
		{"passed band filter", strconv.Itoa(s.PassedBand)},
		{"accepted", strconv.Itoa(s.Accepted)},
	}
	return renderTable([]string{"Stage", "Samples"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderOffsets(matches []qc.Match) string {
	sorted := append([]qc.Match(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Reference.Time.Before(sorted[j].Reference.Time) })
	rows := make([][]string, 0, len(sorted))
	for _, m := range sorted {
		rows = append(rows, []string{
			m.Reference.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(m.Reference.Value, 'f', 3, 64),
			m.Curve.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(m.Curve.Value, 'f', 3, 64),
			strconv.FormatFloat(m.Offset, 'f', 3, 64),
		})
	}
	return renderTable(
		[]string{"Reference", "Value", "Closest", "Curve", "Offset"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight},
	)
}
