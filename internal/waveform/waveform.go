// internal/waveform/waveform.go
// Package waveform holds the sample windows the amplitude engine measures.
package waveform

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyWaveform indicates a waveform has no samples
	ErrEmptyWaveform = errors.New("waveform has no samples")
	// ErrInvalidSampleRate indicates sample rate must be positive and finite
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrNonFiniteSample indicates a sample is NaN or infinite
	ErrNonFiniteSample = errors.New("samples must be finite")
)

// Waveform is a contiguous slice of one channel's samples. StartTime is the
// epoch time (seconds) of Samples[0].
type Waveform struct {
	Channel    string    `json:"channel" yaml:"channel"`
	StartTime  float64   `json:"start_time" yaml:"start_time"`
	SampleRate float64   `json:"sample_rate" yaml:"sample_rate"`
	Samples    []float64 `json:"samples" yaml:"samples"`
}

// Stats summarizes the sample values of a waveform.
type Stats struct {
	Min  float64
	Max  float64
	Mean float64
}

// Validate checks that the waveform can be measured.
func (w *Waveform) Validate() error {
	if w.SampleRate <= 0 || math.IsNaN(w.SampleRate) || math.IsInf(w.SampleRate, 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidSampleRate, w.SampleRate)
	}
	if len(w.Samples) == 0 {
		return ErrEmptyWaveform
	}
	for i, v := range w.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sample %d is %v", ErrNonFiniteSample, i, v)
		}
	}
	return nil
}

// Duration returns the time spanned by the samples.
func (w *Waveform) Duration() float64 {
	if w.SampleRate <= 0 || len(w.Samples) == 0 {
		return 0
	}
	return float64(len(w.Samples)-1) / w.SampleRate
}

// EndTime returns the time of the last sample.
func (w *Waveform) EndTime() float64 {
	return w.StartTime + w.Duration()
}

// TimeAt converts a sample index into an absolute time.
func (w *Waveform) TimeAt(index int) float64 {
	return w.StartTime + float64(index)/w.SampleRate
}

// IndexAt converts an absolute time into the nearest sample index. The
// result is not clamped; the extrema locator treats out-of-range seeds as
// having no selection.
func (w *Waveform) IndexAt(t float64) int {
	return int(math.Round((t - w.StartTime) * w.SampleRate))
}

// Stats returns the min, max and mean of the samples. An empty waveform
// yields the zero Stats.
func (w *Waveform) Stats() Stats {
	if len(w.Samples) == 0 {
		return Stats{}
	}
	return Stats{
		Min:  floats.Min(w.Samples),
		Max:  floats.Max(w.Samples),
		Mean: stat.Mean(w.Samples, nil),
	}
}

// RemoveMean subtracts the sample mean in place, removing a digitizer DC
// offset before peak-trough picking.
func (w *Waveform) RemoveMean() {
	if len(w.Samples) == 0 {
		return
	}
	floats.AddConst(-stat.Mean(w.Samples, nil), w.Samples)
}

// Load reads a waveform from a YAML or JSON file.
func Load(filename string) (*Waveform, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read waveform file: %w", err)
	}

	var w Waveform
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse waveform file: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid waveform %s: %w", filename, err)
	}
	return &w, nil
}

// FromFloat32 builds a waveform from a fixed-precision buffer.
func FromFloat32(channel string, startTime, sampleRate float64, samples []float32) *Waveform {
	widened := make([]float64, len(samples))
	for i, s := range samples {
		widened[i] = float64(s)
	}
	return &Waveform{
		Channel:    channel,
		StartTime:  startTime,
		SampleRate: sampleRate,
		Samples:    widened,
	}
}
