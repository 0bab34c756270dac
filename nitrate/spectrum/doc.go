// Package spectrum holds raw spectrometer samples from SUNA and ISUS
// sensors and conditions their pixel intensities for absorbance computation.
//
// Conditioning masks saturated pixels, subtracts the dark value and masks
// non-positive light. Masked pixels are NaN; nothing here fails on masking.
package spectrum
