package pipeline

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/cwbudde/algo-nitrate/nitrate/ancillary"
	"github.com/cwbudde/algo-nitrate/nitrate/qc"
	"github.com/cwbudde/algo-nitrate/nitrate/spectrum"
)

// Summary counts the outcome of a batch.
type Summary struct {
	Input        int // samples handed to Run
	DarkFrames   int
	NativeScreen int
	Mismatched   int // pixel count mismatch
	Processed    int // after pre-screen and resampling; Records + Missing + Other
	Missing      int // no ancillary data
	Other        int // any other per-sample failure
	Records      int
	Saturated    int // records with at least one saturated pixel
	Unreliable   int // records fitted on fewer than three pixels
	PassedCutoff int
	PassedBand   int
	Accepted     int
}

// Batch is the result of Run. Records and Exclusions are in time order.
type Batch struct {
	Records    []Record
	Exclusions []Exclusion
	Notices    []spectrum.SaturationNotice
	Summary    Summary
}

func (b *Batch) summarize() {
	s := &b.Summary
	for _, e := range b.Exclusions {
		switch {
		case errors.Is(e.Err, ErrDarkFrame):
			s.DarkFrames++
		case errors.Is(e.Err, ErrNativeScreen):
			s.NativeScreen++
		case errors.Is(e.Err, ancillary.ErrMissingAncillary):
			s.Missing++
		case errors.Is(e.Err, spectrum.ErrDimensionMismatch):
			s.Mismatched++
		default:
			s.Other++
		}
	}
	s.Records = len(b.Records)
	s.Saturated = len(b.Notices)
	for _, r := range b.Records {
		if !r.Fit.Reliable() {
			s.Unreliable++
		}
		if r.QC.PassedRMSECutoff {
			s.PassedCutoff++
		}
		if r.QC.PassedRMSECutoff && r.QC.PassedBandFilter {
			s.PassedBand++
		}
		if r.Accepted() {
			s.Accepted++
		}
	}
}

// AcceptedCurve returns the concentration series with rejected records set
// to NaN, suitable for qc.MeanOffset.
func (b *Batch) AcceptedCurve() []qc.Point {
	out := make([]qc.Point, len(b.Records))
	for i, r := range b.Records {
		v := r.Fit.Concentration
		if !r.Accepted() {
			v = math.NaN()
		}
		out[i] = qc.Point{Time: r.Time, Value: v}
	}
	return out
}

var csvHeader = []string{
	"time",
	"concentration",
	"baseline_intercept",
	"baseline_slope",
	"rms_error",
	"wavelength_at_reference",
	"absorbance_at_reference",
	"passed_rmse_cutoff",
	"passed_band_filter",
	"accepted",
}

// WriteCSV writes one row per record. Missing values are written as empty
// fields; rejected records are written with their computed values.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Time.UTC().Format(time.RFC3339Nano),
			formatFloat(r.Fit.Concentration),
			formatFloat(r.Fit.BaselineIntercept),
			formatFloat(r.Fit.BaselineSlope),
			formatFloat(r.Fit.RMSError),
			formatFloat(r.Fit.ReferenceWavelength),
			formatFloat(r.Fit.ReferenceAbsorbance),
			strconv.FormatBool(r.QC.PassedRMSECutoff),
			strconv.FormatBool(r.QC.PassedBandFilter),
			strconv.FormatBool(r.Accepted()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
