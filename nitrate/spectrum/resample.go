package spectrum

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DropHourlyDark removes the first sample of every clock hour. ISUS sensors
// record a dark-fiber frame at the start of each hour. samples must be in
// time order.
func DropHourlyDark(samples []Sample) (kept, dropped []Sample) {
	var current time.Time
	for i, s := range samples {
		hour := s.Time.Truncate(time.Hour)
		if i == 0 || !hour.Equal(current) {
			current = hour
			dropped = append(dropped, s)
			continue
		}
		kept = append(kept, s)
	}
	return kept, dropped
}

// ResampleMedian bins samples by interval (bins start at multiples of
// interval since the zero time) and replaces each bin with its per-field
// median, ignoring NaN. Each output sample is stamped with its bin start.
// Empty bins produce no sample. samples must be in time order and every
// sample in a bin must have the same pixel count.
func ResampleMedian(samples []Sample, interval time.Duration) ([]Sample, error) {
	if interval <= 0 || len(samples) == 0 {
		return samples, nil
	}

	var out []Sample
	start := 0
	for start < len(samples) {
		bin := samples[start].Time.Truncate(interval)
		end := start + 1
		for end < len(samples) && samples[end].Time.Truncate(interval).Equal(bin) {
			end++
		}
		s, err := medianSample(samples[start:end], bin)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		start = end
	}
	return out, nil
}

func medianSample(group []Sample, bin time.Time) (Sample, error) {
	pixels := len(group[0].Intensity)
	for _, s := range group[1:] {
		if len(s.Intensity) != pixels {
			return Sample{}, fmt.Errorf("%w: bin %s mixes %d and %d pixels",
				ErrDimensionMismatch, bin.Format(time.RFC3339), pixels, len(s.Intensity))
		}
	}

	column := make([]float64, 0, len(group))
	pick := func(get func(Sample) float64) float64 {
		column = column[:0]
		for _, s := range group {
			column = append(column, get(s))
		}
		return nanMedian(column)
	}

	intensity := make([]float64, pixels)
	for p := range intensity {
		intensity[p] = pick(func(s Sample) float64 { return s.Intensity[p] })
	}

	return Sample{
		Time:                bin,
		Intensity:           intensity,
		Dark:                pick(func(s Sample) float64 { return s.Dark }),
		NativeRMSE:          pick(func(s Sample) float64 { return s.NativeRMSE }),
		NativeConcentration: pick(func(s Sample) float64 { return s.NativeConcentration }),
	}, nil
}

// nanMedian sorts values in place after dropping NaN.
func nanMedian(values []float64) float64 {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			values[n] = v
			n++
		}
	}
	values = values[:n]
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return 0.5 * (values[n/2-1] + values[n/2])
}
