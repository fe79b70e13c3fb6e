// internal/amplitude/calibration.go
package amplitude

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidResponseCurve is the configuration error every response curve
	// validation failure wraps
	ErrInvalidResponseCurve = errors.New("invalid response curve")
	// ErrEmptyResponseCurve indicates a frequency or amplitude response table is empty
	ErrEmptyResponseCurve = fmt.Errorf("%w: frequency and amplitude response tables must be non-empty", ErrInvalidResponseCurve)
	// ErrResponseCurveLength indicates the frequency and amplitude response tables differ in length
	ErrResponseCurveLength = fmt.Errorf("%w: frequency and amplitude response tables must have equal length", ErrInvalidResponseCurve)
	// ErrNilMeasurement indicates a measurement value to scale was not provided
	ErrNilMeasurement = errors.New("amplitude measurement value must be defined")
)

// ResponseCurve is an instrument frequency response: Frequencies (Hz) paired
// by index with unitless AmplitudeResponses. Values need not be sorted.
type ResponseCurve struct {
	Frequencies        []float64 `json:"frequencies" yaml:"frequencies"`
	AmplitudeResponses []float64 `json:"amplitude_responses" yaml:"amplitude_responses"`
}

// Validate checks that both tables are non-empty and of equal length.
func (r ResponseCurve) Validate() error {
	if len(r.Frequencies) == 0 || len(r.AmplitudeResponses) == 0 {
		return ErrEmptyResponseCurve
	}
	if len(r.Frequencies) != len(r.AmplitudeResponses) {
		return fmt.Errorf("%w (frequencies=%d, amplitude_responses=%d)",
			ErrResponseCurveLength, len(r.Frequencies), len(r.AmplitudeResponses))
	}
	return nil
}

// Match is the table entry chosen by FindClosestMatch.
type Match struct {
	Index int
	Value float64
}

// FindClosestMatch returns the entry of table nearest to target. The first
// entry wins on an exact tie. An empty table yields Index -1.
func FindClosestMatch(target float64, table []float64) Match {
	best := Match{Index: -1, Value: math.NaN()}
	bestDiff := math.Inf(1)
	for i, v := range table {
		diff := math.Abs(v - target)
		if best.Index < 0 || diff < bestDiff {
			best = Match{Index: i, Value: v}
			bestDiff = diff
		}
	}
	return best
}

// Calibration is a validated calibration context: a nominal calibration
// period and the response curve it is defined against. It is immutable once
// built and may be shared by pointer.
type Calibration struct {
	nominalPeriod    float64
	curve            ResponseCurve
	periods          []float64 // 1 / Frequencies[i]
	calibrationIndex int       // period table entry closest to nominalPeriod
}

// NewCalibration validates curve and precomputes its period table. The
// tables are copied, so later changes to the caller's slices have no effect.
func NewCalibration(nominalPeriod float64, curve ResponseCurve) (*Calibration, error) {
	if err := curve.Validate(); err != nil {
		return nil, err
	}

	c := &Calibration{
		nominalPeriod: nominalPeriod,
		curve: ResponseCurve{
			Frequencies:        slices.Clone(curve.Frequencies),
			AmplitudeResponses: slices.Clone(curve.AmplitudeResponses),
		},
		periods: make([]float64, len(curve.Frequencies)),
	}
	for i, f := range c.curve.Frequencies {
		c.periods[i] = 1 / f
	}
	c.calibrationIndex = FindClosestMatch(nominalPeriod, c.periods).Index

	return c, nil
}

// NominalPeriod returns the reference period at which the factor is 1.
func (c *Calibration) NominalPeriod() float64 {
	return c.nominalPeriod
}

// Curve returns a copy of the response curve.
func (c *Calibration) Curve() ResponseCurve {
	return ResponseCurve{
		Frequencies:        slices.Clone(c.curve.Frequencies),
		AmplitudeResponses: slices.Clone(c.curve.AmplitudeResponses),
	}
}

// PeriodTable returns a copy of the derived period table (seconds).
func (c *Calibration) PeriodTable() []float64 {
	return slices.Clone(c.periods)
}

// NormalizationFactor is the response at the table period closest to period
// divided by the response at the table period closest to the nominal
// calibration period.
func (c *Calibration) NormalizationFactor(period float64) float64 {
	matched := FindClosestMatch(period, c.periods)
	return c.curve.AmplitudeResponses[matched.Index] / c.curve.AmplitudeResponses[c.calibrationIndex]
}

// ScaleAmplitude normalizes a raw amplitude measured at period.
func (c *Calibration) ScaleAmplitude(amplitude, period float64) float64 {
	return amplitude / c.NormalizationFactor(period)
}

// ScaleMeasurementValue returns a copy of v with Amplitude.Value normalized
// for v.Period. All other fields pass through unchanged.
func (c *Calibration) ScaleMeasurementValue(v *MeasurementValue) (MeasurementValue, error) {
	if v == nil {
		return MeasurementValue{}, ErrNilMeasurement
	}
	scaled := *v
	scaled.Amplitude.Value = c.ScaleAmplitude(v.Amplitude.Value, v.Period)
	return scaled, nil
}

// ScaleAmplitude normalizes amplitude against an ad-hoc calibration table.
// It returns an ErrInvalidResponseCurve error for an empty or mismatched curve.
func ScaleAmplitude(amplitude, period, nominalPeriod float64, curve ResponseCurve) (float64, error) {
	c, err := NewCalibration(nominalPeriod, curve)
	if err != nil {
		return 0, err
	}
	return c.ScaleAmplitude(amplitude, period), nil
}

// ScaleMeasurementValue scales v with the default calibration.
func ScaleMeasurementValue(v *MeasurementValue) (MeasurementValue, error) {
	return DefaultCalibration().ScaleMeasurementValue(v)
}
