package calibration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-nitrate/nitrate/instrument"
)

var (
	// ErrUnknownInstrument is returned when the registry has no mapping for
	// an instrument identifier.
	ErrUnknownInstrument = errors.New("calibration: unknown instrument")
	// ErrNoCalibration is returned when an instrument maps to no usable file.
	ErrNoCalibration = errors.New("calibration: no calibration available")
)

const minCalibrationYear = 1900

// Entry is one calibration file for an instrument. A zero Year is inferred
// from the location path when possible.
type Entry struct {
	Year     int
	Location string
}

// Instrument describes a deployed sensor and its calibration history.
type Instrument struct {
	Kind         instrument.Kind
	Calibrations []Entry
}

// Registry maps instrument identifiers (for example "SUNA 1471") to
// calibration files and loads them through a Source.
type Registry struct {
	instruments map[string]Instrument
	source      Source
	now         func() time.Time
}

// NewRegistry creates a registry over a copy of instruments.
func NewRegistry(instruments map[string]Instrument, source Source) *Registry {
	m := make(map[string]Instrument, len(instruments))
	for id, inst := range instruments {
		inst.Calibrations = append([]Entry(nil), inst.Calibrations...)
		m[id] = inst
	}
	return &Registry{instruments: m, source: source, now: time.Now}
}

// Instrument returns the mapping for id.
func (r *Registry) Instrument(id string) (Instrument, bool) {
	inst, ok := r.instruments[id]
	return inst, ok
}

// Resolve picks the calibration entry for data collected in dataYear.
//
// Dated entries are searched newest first and the first with a year not
// after dataYear wins; when dataYear precedes every entry the newest is
// used. An undated entry is used only when no entry has a year.
func (r *Registry) Resolve(id string, dataYear int) (Entry, error) {
	inst, ok := r.instruments[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, id)
	}

	maxYear := r.now().Year()
	var (
		dated    []Entry
		fallback *Entry
	)
	for _, e := range inst.Calibrations {
		year := e.Year
		if year == 0 {
			year = yearFromLocation(e.Location, maxYear)
		}
		if year == 0 {
			entry := e
			fallback = &entry
			continue
		}
		dated = append(dated, Entry{Year: year, Location: e.Location})
	}

	if len(dated) == 0 {
		if fallback == nil {
			return Entry{}, fmt.Errorf("%w: instrument %q, data year %d", ErrNoCalibration, id, dataYear)
		}
		return *fallback, nil
	}

	sort.SliceStable(dated, func(i, j int) bool { return dated[i].Year > dated[j].Year })
	for _, e := range dated {
		if dataYear >= e.Year {
			return e, nil
		}
	}
	return dated[0], nil
}

// Load resolves, fetches and parses the calibration for id and dataYear.
func (r *Registry) Load(ctx context.Context, id string, dataYear int, opts ...Option) (*Calibration, Entry, error) {
	entry, err := r.Resolve(id, dataYear)
	if err != nil {
		return nil, Entry{}, err
	}
	if r.source == nil {
		return nil, entry, fmt.Errorf("calibration: registry has no source")
	}

	rc, err := r.source.Open(ctx, entry.Location)
	if err != nil {
		return nil, entry, fmt.Errorf("open calibration %s: %w", entry.Location, err)
	}
	defer rc.Close()

	cal, err := Parse(rc, r.instruments[id].Kind, opts...)
	if err != nil {
		return nil, entry, fmt.Errorf("parse calibration %s: %w", entry.Location, err)
	}
	return cal, entry, nil
}

// yearFromLocation looks for a plausible year among the last four path
// segments of location. It returns 0 when none is found.
func yearFromLocation(location string, maxYear int) int {
	segments := strings.Split(location, "/")
	if len(segments) > 4 {
		segments = segments[len(segments)-4:]
	}
	for _, seg := range segments {
		y, err := strconv.Atoi(seg)
		if err != nil {
			continue
		}
		if y >= minCalibrationYear && y <= maxYear {
			return y
		}
	}
	return 0
}
