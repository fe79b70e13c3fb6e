// internal/amplitude/measurement.go
package amplitude

import "math"

// Units tags the physical units of an amplitude.
type Units string

// UnitsUnitless marks an amplitude as dimensionless.
const UnitsUnitless Units = "UNITLESS"

// Amplitude is a value with its uncertainty and units.
type Amplitude struct {
	Value             float64 `json:"value" yaml:"value"`
	StandardDeviation float64 `json:"standard_deviation" yaml:"standard_deviation"`
	Units             Units   `json:"units" yaml:"units"`
}

// MeasurementValue is the canonical amplitude measurement attached to a
// signal detection once an analyst accepts it. Times are epoch seconds.
type MeasurementValue struct {
	Amplitude                 Amplitude `json:"amplitude" yaml:"amplitude"`
	Period                    float64   `json:"period" yaml:"period"`
	Clipped                   bool      `json:"clipped" yaml:"clipped"`
	MeasurementTime           float64   `json:"measurement_time" yaml:"measurement_time"`
	MeasurementWindowDuration float64   `json:"measurement_window_duration" yaml:"measurement_window_duration"`
	MeasurementWindowStart    float64   `json:"measurement_window_start" yaml:"measurement_window_start"`
}

// Build combines a peak and a trough into a measurement value.
//
// The amplitude is half the peak-to-trough swing and the period doubles the
// half-cycle separation between the two picks. The measurement is anchored at
// the earlier pick. Build never fails; NaN inputs propagate to NaN fields.
func Build(peakAmplitude, troughAmplitude, peakTime, troughTime float64) MeasurementValue {
	return MeasurementValue{
		Amplitude: Amplitude{
			Value: (peakAmplitude - troughAmplitude) / 2,
			// No uncertainty model exists for peak-trough picks yet.
			StandardDeviation: 0,
			Units:             UnitsUnitless,
		},
		Period: math.Abs(peakTime-troughTime) * 2,
		// Saturation detection is not wired in.
		Clipped:         false,
		MeasurementTime: min(peakTime, troughTime),
		// TODO: fill the window fields from the selection window once the
		// signal-detection store accepts them.
		MeasurementWindowDuration: 0,
		MeasurementWindowStart:    0,
	}
}
