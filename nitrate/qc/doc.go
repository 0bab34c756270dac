// Package qc screens fitted nitrate samples by their residual RMS error.
//
// Stage 1 keeps samples with 0 < rms <= cutoff. Stage 2 smooths the RMS
// error of the stage-1 survivors with a centred rolling mean and keeps
// samples whose error lies within ±error bar of the smoothed curve. A
// missing (NaN) error passes both stages. The controller only flags; it
// never alters the fitted values.
package qc
