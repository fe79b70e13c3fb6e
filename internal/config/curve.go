// internal/config/curve.go
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ColonelBlimp/ptamp/internal/amplitude"
)

// LoadResponseCurve loads an instrument response curve from a YAML file:
//
//	frequencies:         [0.5, 1.0, 2.0]
//	amplitude_responses: [0.22, 1.0, 1.68]
//
// Besides the table shape checks, every frequency and response must be a
// positive finite number; a zero would turn the period table or the
// normalization factor into an infinity.
func LoadResponseCurve(filename string) (*amplitude.ResponseCurve, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read response curve file: %w", err)
	}

	var curve amplitude.ResponseCurve
	if err := yaml.Unmarshal(data, &curve); err != nil {
		return nil, fmt.Errorf("parse response curve file: %w", err)
	}
	if err := validateCurveValues(curve); err != nil {
		return nil, fmt.Errorf("response curve %s: %w", filename, err)
	}
	return &curve, nil
}

func validateCurveValues(curve amplitude.ResponseCurve) error {
	if err := curve.Validate(); err != nil {
		return err
	}

	var errs []error
	for i, f := range curve.Frequencies {
		if !(f > 0) || math.IsInf(f, 0) {
			errs = append(errs, fmt.Errorf("frequencies[%d] must be positive, got %v", i, f))
		}
	}
	for i, r := range curve.AmplitudeResponses {
		if !(r > 0) || math.IsInf(r, 0) {
			errs = append(errs, fmt.Errorf("amplitude_responses[%d] must be positive, got %v", i, r))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", amplitude.ErrInvalidResponseCurve, errors.Join(errs...))
	}
	return nil
}
