// Package pipeline runs batches of raw spectra through conditioning,
// bromide correction, absorbance, the concentration fit and QC.
//
// Per-sample work is a pure function of the calibration, the sample and its
// ancillary measurement, and runs on a bounded worker pool. QC runs once
// over the completed, time-ordered series.
package pipeline
