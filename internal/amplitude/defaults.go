// internal/amplitude/defaults.go
package amplitude

import (
	"slices"
	"sync"
)

// DefaultNominalCalibrationPeriod is the reference period (seconds) used when
// the caller supplies none.
const DefaultNominalCalibrationPeriod = 1.0

// Standard short-period displacement response, normalized to 1 at 1 Hz.
var (
	defaultFrequencies = []float64{
		0.1, 0.2, 0.3, 0.5, 0.7, 1.0, 1.5, 2.0, 3.0, 5.0, 7.0, 10.0,
	}
	defaultAmplitudeResponses = []float64{
		0.0022, 0.017, 0.055, 0.22, 0.52, 1.0, 1.52, 1.68, 1.45, 0.88, 0.55, 0.30,
	}
)

// DefaultResponseCurve returns a copy of the built-in short-period curve.
func DefaultResponseCurve() ResponseCurve {
	return ResponseCurve{
		Frequencies:        slices.Clone(defaultFrequencies),
		AmplitudeResponses: slices.Clone(defaultAmplitudeResponses),
	}
}

var defaultCalibration = sync.OnceValue(func() *Calibration {
	c, err := NewCalibration(DefaultNominalCalibrationPeriod, DefaultResponseCurve())
	if err != nil {
		panic("amplitude: built-in response curve is invalid: " + err.Error())
	}
	return c
})

// DefaultCalibration returns the calibration built from the default curve
// and nominal period.
func DefaultCalibration() *Calibration {
	return defaultCalibration()
}
