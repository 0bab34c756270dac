package calibration

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-nitrate/nitrate/instrument"
)

const (
	headerPrefix = "H,"
	dataPrefix   = "E,"

	sunaTempKey = "T_CAL"
	isusTempKey = "T_CAL_SWA"

	minDataColumns = 6
)

var firstNumber = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// Parse reads a vendor calibration file.
//
// Header lines start with "H,"; the calibration temperature is taken from
// the T_CAL header for SUNA (last whitespace-separated field) and from the
// T_CAL_SWA header for ISUS (first number on the line). Data lines start with
// "E," and hold wavelength, nitrate extinction, seawater extinction, an
// unused column and the reference intensity. Coefficients written as "?" are
// read as NaN.
func Parse(r io.Reader, kind instrument.Kind, opts ...Option) (*Calibration, error) {
	if kind != instrument.KindSUNA && kind != instrument.KindISUS {
		return nil, fmt.Errorf("%w: cannot parse calibration for %v", ErrCalibration, kind)
	}

	var (
		wl, eno3, esw, ref []float64
		temperature        = math.NaN()
		lineNo             int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")

		switch {
		case strings.HasPrefix(line, headerPrefix):
			v, ok, err := headerTemperature(line, kind)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrCalibration, lineNo, err)
			}
			if ok {
				temperature = v
			}

		case strings.HasPrefix(line, dataPrefix):
			cols := strings.Split(line, ",")
			if len(cols) < minDataColumns {
				continue
			}
			w, err := strconv.ParseFloat(strings.TrimSpace(cols[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: wavelength %q: %v", ErrCalibration, lineNo, cols[1], err)
			}
			wl = append(wl, w)
			eno3 = append(eno3, parseCoefficient(cols[2]))
			esw = append(esw, parseCoefficient(cols[3]))
			ref = append(ref, parseCoefficient(cols[5]))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read calibration: %w", err)
	}

	if math.IsNaN(temperature) {
		return nil, fmt.Errorf("%w: no calibration temperature header", ErrCalibration)
	}

	return New(wl, eno3, esw, ref, temperature, opts...)
}

// headerTemperature extracts the calibration temperature from a header line
// when the line carries the temperature key for kind.
func headerTemperature(line string, kind instrument.Kind) (float64, bool, error) {
	switch kind {
	case instrument.KindSUNA:
		if !strings.Contains(line, sunaTempKey) {
			return 0, false, nil
		}
		fields := strings.Fields(strings.TrimRight(line, ", \t"))
		last := strings.Trim(fields[len(fields)-1], ",")
		v, err := strconv.ParseFloat(last, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s value %q: %w", sunaTempKey, last, err)
		}
		return v, true, nil

	case instrument.KindISUS:
		if !strings.Contains(line, isusTempKey) {
			return 0, false, nil
		}
		rest := line[strings.Index(line, isusTempKey)+len(isusTempKey):]
		match := firstNumber.FindString(rest)
		if match == "" {
			return 0, false, fmt.Errorf("%s has no numeric value", isusTempKey)
		}
		v, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0, false, err
		}
		return v, true, nil
	}
	return 0, false, nil
}

func parseCoefficient(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
