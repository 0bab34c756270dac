package config

const (
	defaultFitWindowLow        = 217.0
	defaultFitWindowHigh       = 240.0
	defaultWavelengthOffset    = 210.0
	defaultPressureCoefficient = 0.026
	defaultSaturation          = 64500.0
	defaultReferenceWavelength = 240.0
	defaultBandWindowSize      = 50
	defaultBandErrorBar        = 0.0002
	defaultBandMinFraction     = 0.6
	defaultLogLevel            = "info"
	defaultLogFormat           = "text"
)

// Default returns a Config populated with processing defaults. The RMSE
// cutoff is deployment specific and left unset.
func Default() Config {
	return Config{
		Processing: Processing{
			FitWindowLowNM:        defaultFitWindowLow,
			FitWindowHighNM:       defaultFitWindowHigh,
			WavelengthOffset:      defaultWavelengthOffset,
			PressureCoefficient:   defaultPressureCoefficient,
			SaturationValue:       defaultSaturation,
			ReferenceWavelengthNM: defaultReferenceWavelength,
		},
		QC: QC{
			BandWindowSize:  defaultBandWindowSize,
			BandErrorBar:    defaultBandErrorBar,
			BandMinFraction: defaultBandMinFraction,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
