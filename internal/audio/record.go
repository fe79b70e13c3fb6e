// internal/audio/record.go
package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ColonelBlimp/ptamp/internal/waveform"
)

// ErrInvalidDuration indicates a recording must span at least one sample
var ErrInvalidDuration = errors.New("recording duration must cover at least one sample")

// Record captures a window of the given duration from channel 0 and returns
// it as a waveform with the digitizer DC offset removed. The capture must be
// initialized and not running; it is stopped again before Record returns.
func (c *Capture) Record(ctx context.Context, duration time.Duration) (*waveform.Waveform, error) {
	n := int(duration.Seconds() * float64(c.config.SampleRate))
	if n < 1 {
		return nil, fmt.Errorf("%w (duration %v at %d Hz)", ErrInvalidDuration, duration, c.config.SampleRate)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.Start(runCtx); err != nil {
		return nil, err
	}
	defer func() {
		if err := c.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
			c.logger.Warn("stop capture", zap.Error(err))
		}
	}()

	samples, firstAt, err := collect(runCtx, c.Samples, n, int(c.config.Channels), float64(c.config.SampleRate))
	if err != nil {
		return nil, err
	}

	start := float64(firstAt.UnixNano()) / float64(time.Second)
	w := waveform.FromFloat32(c.channelName(), start, float64(c.config.SampleRate), samples)
	w.RemoveMean()

	c.logger.Info("recorded window",
		zap.String("channel", w.Channel),
		zap.Int("samples", len(w.Samples)),
		zap.Float64("start_time", w.StartTime),
	)
	return w, nil
}

func (c *Capture) channelName() string {
	if c.config.DeviceIndex < 0 {
		return "audio.default"
	}
	return fmt.Sprintf("audio.%d", c.config.DeviceIndex)
}

// collect reads interleaved buffers until n frames of channel 0 have been
// gathered. firstAt estimates the wall-clock time of the first frame: the
// arrival of the first buffer minus the time that buffer spans.
func collect(ctx context.Context, in <-chan []float32, n, channels int, sampleRate float64) (samples []float32, firstAt time.Time, err error) {
	if channels < 1 {
		channels = 1
	}
	samples = make([]float32, 0, n)

	for len(samples) < n {
		select {
		case <-ctx.Done():
			return nil, time.Time{}, ctx.Err()
		case buf, ok := <-in:
			if !ok {
				return nil, time.Time{}, ErrClosed
			}
			frames := firstChannel(buf, channels)
			if firstAt.IsZero() && len(frames) > 0 {
				span := time.Duration(float64(len(frames)) / sampleRate * float64(time.Second))
				firstAt = time.Now().Add(-span)
			}
			samples = append(samples, frames...)
		}
	}
	return samples[:n], firstAt, nil
}

// firstChannel extracts channel 0 from interleaved samples.
func firstChannel(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}
	out := make([]float32, 0, len(interleaved)/channels)
	for i := 0; i+channels <= len(interleaved); i += channels {
		out = append(out, interleaved[i])
	}
	return out
}
