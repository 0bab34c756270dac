// Command no3proc recomputes nitrate concentration from SUNA and ISUS raw
// spectra using temperature- and pressure-corrected bromide absorbance.
//
// Usage:
//
//	no3proc [--config file] <command> [flags]
//
// Examples:
//
//	no3proc process --instrument "SUNA 1471" --ctd ctd.csv --out no3.csv raw/*.CSV
//	no3proc process --calibration SNA1471A.CAL --kind suna --ctd ctd.csv raw.csv
//	no3proc calinfo --instrument "SUNA 1471" --year 2024 --wavelengths
//	no3proc config sample no3proc.toml
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
