package ancillary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
}

// Decode reads a headered CSV of CTD readings. Columns are matched by
// case-insensitive prefix: "time" (or "date_time"), "temperature",
// "salinity", and "pressure" (or "water_depth"), so headers such as
// "temperature (degree_C)" are accepted.
func Decode(r io.Reader) ([]Measurement, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ancillary header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		for _, c := range []struct{ field, prefix string }{
			{"time", "time"}, {"time", "date_time"},
			{"temperature", "temperature"},
			{"salinity", "salinity"},
			{"pressure", "pressure"}, {"pressure", "water_depth"},
		} {
			if _, seen := cols[c.field]; !seen && strings.HasPrefix(key, c.prefix) {
				cols[c.field] = i
			}
		}
	}
	for _, f := range []string{"time", "temperature", "salinity", "pressure"} {
		if _, ok := cols[f]; !ok {
			return nil, fmt.Errorf("ancillary header: no %s column", f)
		}
	}

	var out []Measurement
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ancillary record %d: %w", row, err)
		}
		m, err := decodeMeasurement(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("ancillary record %d: %w", row, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeMeasurement(rec []string, cols map[string]int) (Measurement, error) {
	field := func(name string) string {
		if i := cols[name]; i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	ts, err := parseTime(field("time"))
	if err != nil {
		return Measurement{}, err
	}
	m := Measurement{Time: ts}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"temperature", &m.Temperature},
		{"salinity", &m.Salinity},
		{"pressure", &m.Pressure},
	} {
		v := field(f.name)
		if v == "" {
			*f.dst = math.NaN()
			continue
		}
		*f.dst, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return Measurement{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return m, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
