// Package ancillary supplies the in-situ temperature, salinity and pressure
// that accompany each nitrate spectrum.
package ancillary

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrMissingAncillary is returned when no usable measurement exists for a
// sample's timestamp. It excludes that sample only.
var ErrMissingAncillary = errors.New("ancillary: no ancillary data for sample")

// Measurement is one co-located CTD reading.
type Measurement struct {
	Time        time.Time
	Temperature float64 // °C
	Salinity    float64 // PSU
	Pressure    float64 // dbar
}

func (m Measurement) finite() bool {
	for _, v := range [...]float64{m.Temperature, m.Salinity, m.Pressure} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Source returns the measurement aligned with a sample timestamp.
type Source interface {
	At(t time.Time) (Measurement, error)
}

func missing(t time.Time, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMissingAncillary, t.Format(time.RFC3339), reason)
}

// Exact is a Source over measurements already aligned 1:1 with samples.
type Exact struct {
	byTime map[int64]Measurement
}

// NewExact indexes measurements by timestamp. Later duplicates win.
func NewExact(measurements []Measurement) *Exact {
	e := &Exact{byTime: make(map[int64]Measurement, len(measurements))}
	for _, m := range measurements {
		e.byTime[m.Time.UnixNano()] = m
	}
	return e
}

// At implements Source.
func (e *Exact) At(t time.Time) (Measurement, error) {
	m, ok := e.byTime[t.UnixNano()]
	if !ok {
		return Measurement{}, missing(t, "no measurement at timestamp")
	}
	if !m.finite() {
		return Measurement{}, missing(t, "non-finite measurement")
	}
	return m, nil
}

// Interpolator is a Source that linearly interpolates a CTD time series onto
// sample timestamps.
type Interpolator struct {
	series []Measurement
	maxGap time.Duration
}

// NewInterpolator sorts a copy of series by time. Measurements with
// non-finite values are dropped. maxGap bounds the spacing of the two
// readings bracketing a timestamp; zero disables the bound.
func NewInterpolator(series []Measurement, maxGap time.Duration) *Interpolator {
	s := make([]Measurement, 0, len(series))
	for _, m := range series {
		if m.finite() {
			s = append(s, m)
		}
	}
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return &Interpolator{series: s, maxGap: maxGap}
}

// Len returns the number of usable readings.
func (p *Interpolator) Len() int { return len(p.series) }

// At implements Source.
func (p *Interpolator) At(t time.Time) (Measurement, error) {
	n := len(p.series)
	if n == 0 {
		return Measurement{}, missing(t, "empty ancillary series")
	}

	i := sort.Search(n, func(i int) bool { return !p.series[i].Time.Before(t) })
	if i < n && p.series[i].Time.Equal(t) {
		m := p.series[i]
		m.Time = t
		return m, nil
	}
	if i == 0 || i == n {
		return Measurement{}, missing(t, fmt.Sprintf("outside ancillary span %s to %s",
			p.series[0].Time.Format(time.RFC3339), p.series[n-1].Time.Format(time.RFC3339)))
	}

	a, b := p.series[i-1], p.series[i]
	span := b.Time.Sub(a.Time)
	if p.maxGap > 0 && span > p.maxGap {
		return Measurement{}, missing(t, fmt.Sprintf("bracketing readings %s apart exceed %s", span, p.maxGap))
	}

	frac := float64(t.Sub(a.Time)) / float64(span)
	return Measurement{
		Time:        t,
		Temperature: lerp(a.Temperature, b.Temperature, frac),
		Salinity:    lerp(a.Salinity, b.Salinity, frac),
		Pressure:    lerp(a.Pressure, b.Pressure, frac),
	}, nil
}

func lerp(x0, x1, frac float64) float64 {
	return x0 + frac*(x1-x0)
}
