// internal/analysis/analyzer.go
// Package analysis drives the amplitude engine end to end: from a waveform
// and an analyst pick to a scaled, validated feature measurement.
package analysis

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/ColonelBlimp/ptamp/internal/amplitude"
	"github.com/ColonelBlimp/ptamp/internal/waveform"
)

// FeatureMeasurementType identifies peak-trough amplitude measurements.
const FeatureMeasurementType = "AMPLITUDE_A5_OVER_2"

var (
	// ErrCalibrationRequired indicates the analyzer was built without a calibration
	ErrCalibrationRequired = errors.New("calibration is required")
	// ErrInvalidWarningBand indicates the warning band minimum exceeds its maximum
	ErrInvalidWarningBand = errors.New("warning band min must not exceed max")
	// ErrWaveformRequired indicates a request carried no waveform
	ErrWaveformRequired = errors.New("waveform is required")
	// ErrSeedOutOfRange indicates the pick does not fall on a sample of the waveform
	ErrSeedOutOfRange = errors.New("pick is outside the waveform")
)

// Config holds the injected calibration context and acceptance bounds.
type Config struct {
	Calibration      *amplitude.Calibration
	WarningBand      amplitude.WarningBand
	SelectionOffsets amplitude.SelectionOffsets
}

// Request is one measurement: the seed sample an analyst picked and the
// detection arrival time the selection window hangs off.
type Request struct {
	Waveform    *waveform.Waveform
	SeedIndex   int
	ArrivalTime float64
}

// Pick is a located extremum with its absolute time.
type Pick struct {
	Index int     `json:"index" yaml:"index"`
	Value float64 `json:"value" yaml:"value"`
	Time  float64 `json:"time" yaml:"time"`
}

// FeatureMeasurement is the result handed to the signal-detection store.
type FeatureMeasurement struct {
	ID                  string                     `json:"id" yaml:"id"`
	Type                string                     `json:"type" yaml:"type"`
	Channel             string                     `json:"channel" yaml:"channel"`
	SeedIndex           int                        `json:"seed_index" yaml:"seed_index"`
	ArrivalTime         float64                    `json:"arrival_time" yaml:"arrival_time"`
	Peak                Pick                       `json:"peak" yaml:"peak"`
	Trough              Pick                       `json:"trough" yaml:"trough"`
	Raw                 amplitude.MeasurementValue `json:"raw" yaml:"raw"`
	Scaled              amplitude.MeasurementValue `json:"scaled" yaml:"scaled"`
	NormalizationFactor float64                    `json:"normalization_factor" yaml:"normalization_factor"`
	SelectionStart      float64                    `json:"selection_start" yaml:"selection_start"`
	SelectionEnd        float64                    `json:"selection_end" yaml:"selection_end"`
	InWarning           bool                       `json:"in_warning" yaml:"in_warning"`
}

// Analyzer turns picks into feature measurements. It holds no mutable state
// and may be used from multiple goroutines.
type Analyzer struct {
	config Config
	logger *zap.Logger
	newID  func() string
}

// New creates an analyzer. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) (*Analyzer, error) {
	if cfg.Calibration == nil {
		return nil, ErrCalibrationRequired
	}
	if cfg.WarningBand.Min > cfg.WarningBand.Max {
		return nil, fmt.Errorf("%w (min=%v, max=%v)", ErrInvalidWarningBand, cfg.WarningBand.Min, cfg.WarningBand.Max)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if ce := logger.Check(zap.DebugLevel, "analyzer ready"); ce != nil {
		periods := cfg.Calibration.PeriodTable()
		ce.Write(
			zap.Float64("nominal_period", cfg.Calibration.NominalPeriod()),
			zap.Int("curve_points", len(cfg.Calibration.Curve().Frequencies)),
			zap.Float64("shortest_period", floats.Min(periods)),
			zap.Float64("longest_period", floats.Max(periods)),
			zap.Float64("warning_min_period", cfg.WarningBand.Min),
			zap.Float64("warning_max_period", cfg.WarningBand.Max),
		)
	}

	return &Analyzer{
		config: cfg,
		logger: logger,
		newID:  uuid.NewString,
	}, nil
}

// Analyze locates the peak and trough around the seed, builds and scales the
// measurement, and evaluates the warning flag.
func (a *Analyzer) Analyze(req Request) (FeatureMeasurement, error) {
	w := req.Waveform
	if w == nil {
		return FeatureMeasurement{}, ErrWaveformRequired
	}
	if err := w.Validate(); err != nil {
		return FeatureMeasurement{}, err
	}
	if req.SeedIndex < 0 || req.SeedIndex >= len(w.Samples) {
		return FeatureMeasurement{}, fmt.Errorf("%w: seed index %d, have %d samples",
			ErrSeedOutOfRange, req.SeedIndex, len(w.Samples))
	}

	log := a.logger.With(zap.String("channel", w.Channel), zap.Int("seed_index", req.SeedIndex))
	if ce := log.Check(zap.DebugLevel, "waveform window"); ce != nil {
		stats := w.Stats()
		ce.Write(
			zap.Int("samples", len(w.Samples)),
			zap.Float64("sample_rate", w.SampleRate),
			zap.Float64("start_time", w.StartTime),
			zap.Float64("end_time", w.EndTime()),
			zap.Float64("min", stats.Min),
			zap.Float64("max", stats.Max),
			zap.Float64("mean", stats.Mean),
		)
	}

	extrema := amplitude.Locate(req.SeedIndex, w.Samples)
	peak := Pick{Index: extrema.Max.Index, Value: extrema.Max.Value, Time: w.TimeAt(extrema.Max.Index)}
	trough := Pick{Index: extrema.Min.Index, Value: extrema.Min.Value, Time: w.TimeAt(extrema.Min.Index)}
	log.Debug("located extrema",
		zap.Int("peak_index", peak.Index),
		zap.Float64("peak_value", peak.Value),
		zap.Int("trough_index", trough.Index),
		zap.Float64("trough_value", trough.Value),
	)

	raw := amplitude.Build(peak.Value, trough.Value, peak.Time, trough.Time)
	scaled, err := a.config.Calibration.ScaleMeasurementValue(&raw)
	if err != nil {
		return FeatureMeasurement{}, fmt.Errorf("scale measurement: %w", err)
	}

	start, end := amplitude.SelectionWindow(req.ArrivalTime, a.config.SelectionOffsets)
	inWarning := amplitude.IsInWarning(req.ArrivalTime, raw.Period, trough.Time, peak.Time,
		a.config.WarningBand, a.config.SelectionOffsets)

	fm := FeatureMeasurement{
		ID:                  a.newID(),
		Type:                FeatureMeasurementType,
		Channel:             w.Channel,
		SeedIndex:           req.SeedIndex,
		ArrivalTime:         req.ArrivalTime,
		Peak:                peak,
		Trough:              trough,
		Raw:                 raw,
		Scaled:              scaled,
		NormalizationFactor: a.config.Calibration.NormalizationFactor(raw.Period),
		SelectionStart:      start,
		SelectionEnd:        end,
		InWarning:           inWarning,
	}

	if inWarning {
		log.Warn("peak-trough pick outside acceptable window",
			zap.Float64("period", raw.Period),
			zap.Float64("trough_time", trough.Time),
			zap.Float64("peak_time", peak.Time),
			zap.Float64("selection_start", start),
			zap.Float64("selection_end", end),
		)
	}
	log.Debug("measurement built",
		zap.String("id", fm.ID),
		zap.Float64("raw_amplitude", raw.Amplitude.Value),
		zap.Float64("scaled_amplitude", scaled.Amplitude.Value),
		zap.Float64("period", raw.Period),
	)

	return fm, nil
}

// AnalyzeAt is Analyze with the seed taken from an absolute pick time, rounded
// to the nearest sample. Pass pickTime as arrivalTime when the detection has
// no separate arrival.
func (a *Analyzer) AnalyzeAt(w *waveform.Waveform, pickTime, arrivalTime float64) (FeatureMeasurement, error) {
	if w == nil {
		return FeatureMeasurement{}, ErrWaveformRequired
	}
	if err := w.Validate(); err != nil {
		return FeatureMeasurement{}, err
	}
	return a.Analyze(Request{
		Waveform:    w,
		SeedIndex:   w.IndexAt(pickTime),
		ArrivalTime: arrivalTime,
	})
}
