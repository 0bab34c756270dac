package spectrum

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// schema resolves one raw column naming into value-row positions.
type schema struct {
	timeIdx  []int
	valueIdx []int
	field    map[string]int
	shift    int
}

func newSchema(names []string, l Layout) (*schema, error) {
	s := &schema{field: make(map[string]int, len(names))}
	timePos := make(map[string]int, len(l.timeFields))
	for raw, name := range names {
		isTime := false
		for _, tf := range l.timeFields {
			if name == tf {
				timePos[tf] = raw
				isTime = true
			}
		}
		if isTime {
			continue
		}
		if name != "" {
			if _, dup := s.field[name]; !dup {
				s.field[name] = len(s.valueIdx)
			}
		}
		s.valueIdx = append(s.valueIdx, raw)
	}
	for _, tf := range l.timeFields {
		raw, ok := timePos[tf]
		if !ok {
			return nil, fmt.Errorf("%v record: timestamp column %q not found", l.Kind, tf)
		}
		s.timeIdx = append(s.timeIdx, raw)
	}
	if _, ok := s.field[l.DarkField]; !ok {
		return nil, fmt.Errorf("%v record: dark column %q not found", l.Kind, l.DarkField)
	}
	if l.ShiftField != "" {
		if _, ok := s.field[l.ShiftField]; ok {
			s.shift = 1
		}
	}
	return s, nil
}

func (s *schema) number(values []string, name string) (float64, error) {
	pos, ok := s.field[name]
	if !ok || pos >= len(values) {
		return math.NaN(), nil
	}
	return parseNumber(values[pos])
}

func parseNumber(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(v, 64)
}

// Decode reads raw CSV records in the given layout. A record whose pixel
// block is shorter than the layout's is returned with the pixels it has, so
// that processing can exclude it on dimension grounds.
func Decode(r io.Reader, l Layout) ([]Sample, error) {
	if l.parseTime == nil {
		return nil, fmt.Errorf("spectrum: layout for %v has no timestamp parser", l.Kind)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		fixed   *schema
		byWidth = map[int]*schema{}
		samples []Sample
		row     int
	)

	if l.header {
		names, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("read %v header: %w", l.Kind, err)
		}
		for i := range names {
			names[i] = strings.TrimSpace(strings.TrimPrefix(names[i], "\ufeff"))
		}
		fixed, err = newSchema(names, l)
		if err != nil {
			return nil, err
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("read %v record %d: %w", l.Kind, row, err)
		}

		sc := fixed
		if sc == nil {
			sc = byWidth[len(rec)]
			if sc == nil {
				names := make([]string, len(rec))
				for i := range names {
					names[i] = l.columns[i]
				}
				sc, err = newSchema(names, l)
				if err != nil {
					return nil, fmt.Errorf("record %d: %w", row, err)
				}
				byWidth[len(rec)] = sc
			}
		}

		s, err := decodeRecord(rec, sc, l)
		if err != nil {
			return nil, fmt.Errorf("%v record %d: %w", l.Kind, row, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func decodeRecord(rec []string, sc *schema, l Layout) (Sample, error) {
	timeValues := make([]string, len(sc.timeIdx))
	for i, raw := range sc.timeIdx {
		if raw >= len(rec) {
			return Sample{}, fmt.Errorf("missing timestamp column %q", l.timeFields[i])
		}
		timeValues[i] = rec[raw]
	}
	ts, err := l.parseTime(timeValues)
	if err != nil {
		return Sample{}, err
	}

	values := make([]string, 0, len(sc.valueIdx))
	for _, raw := range sc.valueIdx {
		if raw < len(rec) {
			values = append(values, rec[raw])
		}
	}

	dark, err := sc.number(values, l.DarkField)
	if err != nil {
		return Sample{}, fmt.Errorf("dark value: %w", err)
	}
	conc, err := sc.number(values, l.ConcentrationField)
	if err != nil {
		return Sample{}, fmt.Errorf("native concentration: %w", err)
	}
	rmse, err := sc.number(values, l.RMSEField)
	if err != nil {
		return Sample{}, fmt.Errorf("native RMSE: %w", err)
	}

	start := l.PixelStart + sc.shift
	end := l.PixelEnd + sc.shift
	if end > len(values) {
		end = len(values)
	}
	var pixels []float64
	if start < end {
		pixels = make([]float64, 0, end-start)
		for i := start; i < end; i++ {
			v, err := parseNumber(values[i])
			if err != nil {
				return Sample{}, fmt.Errorf("pixel %d: %w", i-start, err)
			}
			pixels = append(pixels, v)
		}
	}

	return Sample{
		Time:                ts,
		Intensity:           pixels,
		Dark:                dark,
		NativeRMSE:          rmse,
		NativeConcentration: conc,
	}, nil
}
