package spectrum

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-nitrate/nitrate/instrument"
)

// Layout locates the spectral block and scalar fields of one sensor
// family's raw CSV records. Positions count columns of the value row, which
// is the raw row with its timestamp columns removed.
type Layout struct {
	Kind instrument.Kind
	// PixelStart and PixelEnd delimit the half-open pixel range.
	PixelStart int
	PixelEnd   int
	// DarkField names the column holding the dark value.
	DarkField          string
	ConcentrationField string
	RMSEField          string
	// ShiftField, when present in the header, shifts the pixel block one
	// column to the right.
	ShiftField string

	header     bool
	columns    map[int]string
	timeFields []string
	parseTime  func(values []string) (time.Time, error)
}

// Pixels returns the number of pixels in the spectral block.
func (l Layout) Pixels() int { return l.PixelEnd - l.PixelStart }

// sunaColumns names the fixed columns of headerless SUNA CSV output.
var sunaColumns = map[int]string{
	0:   "Model/Serial",
	1:   "date_time",
	2:   "Nitrate concentration, μM",
	3:   "Nitrogen in nitrate, mgN/L",
	4:   "Absorbance, 254 nm",
	5:   "Absorbance, 350 nm",
	6:   "Bromide trace, mg/L",
	7:   "Spectrum average",
	8:   "Dark value used for fit",
	9:   "Integration time factor",
	266: "Internal temperature, °C",
	267: "Spectrometer temperature, °C",
	268: "Lamp temperature, °C",
	269: "Cumulative lamp on-time, secs",
	270: "Relative humidity, %",
	271: "Main voltage, V",
	272: "Lamp voltage, V",
	273: "Internal voltage, V",
	274: "Main current, mA",
	275: "Fit aux 1",
	276: "Fit aux 2",
	277: "Fit base 1",
	278: "Fit base 2",
	279: "Fit RMSE",
}

// SUNA is the headerless Satlantic SUNA CSV layout. Pixels occupy raw
// columns 10 through 265.
var SUNA = Layout{
	Kind:               instrument.KindSUNA,
	PixelStart:         9,
	PixelEnd:           265,
	DarkField:          "Dark value used for fit",
	ConcentrationField: "Nitrate concentration, μM",
	RMSEField:          "Fit RMSE",
	columns:            sunaColumns,
	timeFields:         []string{"date_time"},
	parseTime:          parseSUNATime,
}

// ISUS is the headered Satlantic ISUS merged CSV layout. Time is built from
// a year/day-of-year column and a fractional hour column.
var ISUS = Layout{
	Kind:               instrument.KindISUS,
	PixelStart:         17,
	PixelEnd:           273,
	DarkField:          "Sea-Water Dark Calculation",
	ConcentrationField: "NO3_conc",
	RMSEField:          "RMS Error",
	ShiftField:         "S/N",
	header:             true,
	timeFields:         []string{"YYYYDDD", "HH.HHHHH"},
	parseTime:          parseISUSTime,
}

// LayoutFor returns the built-in layout for kind.
func LayoutFor(kind instrument.Kind) (Layout, error) {
	switch kind {
	case instrument.KindSUNA:
		return SUNA, nil
	case instrument.KindISUS:
		return ISUS, nil
	default:
		return Layout{}, fmt.Errorf("%w: no raw layout for %v", instrument.ErrUnknownKind, kind)
	}
}

var sunaTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
}

func parseSUNATime(values []string) (time.Time, error) {
	s := strings.TrimSpace(values[0])
	for _, layout := range sunaTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseISUSTime(values []string) (time.Time, error) {
	day, err := time.Parse("2006002", strings.TrimSpace(values[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("YYYYDDD %q: %w", values[0], err)
	}
	hours, err := strconv.ParseFloat(strings.TrimSpace(values[1]), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("HH.HHHHH %q: %w", values[1], err)
	}
	return day.Add(time.Duration(math.Round(hours * float64(time.Hour)))), nil
}
