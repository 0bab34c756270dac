// Package calibration models the per-wavelength coefficients of a UV nitrate
// sensor and restricts them to a spectral fitting window.
//
// A [Calibration] is immutable once built: every method that changes the
// wavelength axis returns a new value. Calibrations come from vendor files
// via [Parse] or from an instrument mapping via [Registry].
package calibration
