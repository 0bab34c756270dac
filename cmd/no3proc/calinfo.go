package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nitrate/nitrate/calibration"
	"github.com/cwbudde/algo-nitrate/nitrate/correct"
)

type calinfoOptions struct {
	instrument  string
	kind        string
	file        string
	year        int
	wavelengths bool
}

func newCalinfoCommand(a *app) *cobra.Command {
	opts := &calinfoOptions{}
	cmd := &cobra.Command{
		Use:   "calinfo",
		Short: "Summarize a calibration and the configured fit window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalinfo(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.instrument, "instrument", "i", "", "instrument identifier in the configuration")
	flags.StringVar(&opts.kind, "kind", "", "instrument kind (suna, isus) for --file")
	flags.StringVar(&opts.file, "file", "", "calibration file, bypassing the instrument registry")
	flags.IntVar(&opts.year, "year", 0, "data year for calibration selection; defaults to the current year")
	flags.BoolVarP(&opts.wavelengths, "wavelengths", "w", false, "list the coefficients inside the fit window")
	return cmd
}

func (a *app) runCalinfo(ctx context.Context, opts *calinfoOptions, out io.Writer) error {
	kind, err := a.resolveKind(opts.instrument, opts.kind)
	if err != nil {
		return err
	}
	year := opts.year
	if year == 0 {
		year = time.Now().Year()
	}
	cal, err := a.loadCalibration(ctx, opts.instrument, opts.file, kind, year)
	if err != nil {
		return err
	}

	window := a.cfg.Window()
	windowed, _, err := calibration.Select(cal, window)
	if err != nil {
		return err
	}
	wl := cal.Wavelengths()

	rows := [][]string{
		{"kind", kind.String()},
		{"wavelengths", strconv.Itoa(cal.Len())},
		{"range", fmt.Sprintf("%g-%g nm", wl[0], wl[len(wl)-1])},
		{"calibration temperature", fmt.Sprintf("%g °C", cal.Temperature())},
		{"wavelength offset", fmt.Sprintf("%g nm", cal.WavelengthOffset())},
		{"pressure coefficient", fmt.Sprintf("%g", cal.PressureCoefficient())},
		{"fit window", window.String()},
		{"pixels in window", strconv.Itoa(windowed.Len())},
	}
	fmt.Fprintln(out, renderTable([]string{"Property", "Value"}, rows, nil))

	if !opts.wavelengths {
		return nil
	}
	slope := correct.New(windowed).Slope()
	wwl := windowed.Wavelengths()
	eno3 := windowed.ExtinctionNitrate()
	esw := windowed.ExtinctionSeawater()
	ref := windowed.Reference()
	coeffRows := make([][]string, len(wwl))
	for i := range wwl {
		coeffRows[i] = []string{
			strconv.FormatFloat(wwl[i], 'f', 2, 64),
			strconv.FormatFloat(eno3[i], 'g', 6, 64),
			strconv.FormatFloat(esw[i], 'g', 6, 64),
			strconv.FormatFloat(ref[i], 'f', 0, 64),
			strconv.FormatFloat(slope[i], 'g', 6, 64),
		}
	}
	right := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(out, renderTable([]string{"λ (nm)", "E_NO3", "E_SW", "Reference", "dlnE_SW/dT"}, coeffRows, right))
	return nil
}
