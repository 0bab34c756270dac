// Package config loads the TOML configuration for no3proc and turns it into
// options for the calibration, qc and pipeline packages.
package config
