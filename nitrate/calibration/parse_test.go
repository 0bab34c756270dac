package calibration

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-nitrate/nitrate/instrument"
)

const sunaCal = `H,File creation time : 14-Feb-2020 09:12:33
H,T_CAL 19.86
H,T_CAL_SWA 19.86
H,Pixel base 1
E,216.69,0.34,0.0035,0,28112
E,217.40,0.31,0.0031,0,28874
E,218.11,?,0.0028,0,29580
E,218.82,0.25,0.0025,0,30210
E,short,row
`

const isusCal = "H,ISUS calibration\r\nH,T_CAL_SWA 20,,,\r\nE,217.4,0.31,0.0031,0,28874,extra\r\nE,218.1,0.28,?,0,29580\r\n"

func TestParseSUNA(t *testing.T) {
	c, err := Parse(strings.NewReader(sunaCal), instrument.KindSUNA)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if c.Len() != 4 {
		t.Fatalf("Len = %d, want 4", c.Len())
	}
	if c.Temperature() != 19.86 {
		t.Fatalf("Temperature = %v, want 19.86", c.Temperature())
	}
	if !math.IsNaN(c.ExtinctionNitrate()[2]) {
		t.Fatalf("'?' nitrate coefficient = %v, want NaN", c.ExtinctionNitrate()[2])
	}
	if c.Reference()[3] != 30210 {
		t.Fatalf("reference[3] = %v, want 30210", c.Reference()[3])
	}
	if c.ExtinctionSeawater()[0] != 0.0035 {
		t.Fatalf("seawater[0] = %v, want 0.0035", c.ExtinctionSeawater()[0])
	}
}

func TestParseISUS(t *testing.T) {
	c, err := Parse(strings.NewReader(isusCal), instrument.KindISUS, WithPressureCoefficient(0.02))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if c.Temperature() != 20 {
		t.Fatalf("Temperature = %v, want 20", c.Temperature())
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if !math.IsNaN(c.ExtinctionSeawater()[1]) {
		t.Fatalf("'?' seawater coefficient = %v, want NaN", c.ExtinctionSeawater()[1])
	}
	if c.PressureCoefficient() != 0.02 {
		t.Fatalf("PressureCoefficient = %v, want 0.02", c.PressureCoefficient())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    instrument.Kind
	}{
		{"no temperature", "E,217.4,0.31,0.0031,0,28874\n", instrument.KindSUNA},
		{"isus key missing", "H,T_CAL 20\nE,217.4,0.31,0.0031,0,28874\n", instrument.KindISUS},
		{"bad wavelength", "H,T_CAL 20\nE,abc,0.31,0.0031,0,28874\n", instrument.KindSUNA},
		{"no data", "H,T_CAL 20\n", instrument.KindSUNA},
		{"unknown kind", sunaCal, instrument.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content), tt.kind)
			if !errors.Is(err, ErrCalibration) {
				t.Fatalf("err = %v, want ErrCalibration", err)
			}
		})
	}
}
