// internal/audio/capture.go
// Package audio records sample windows from sound-card digitizers (a
// geophone or short-period seismometer wired to an audio input) via malgo.
package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/ColonelBlimp/ptamp/internal/recovery"
)

var (
	ErrNotInitialized = errors.New("audio capture not initialized")
	ErrAlreadyRunning = errors.New("audio capture already running")
	ErrNotRunning     = errors.New("audio capture not running")
	ErrClosed         = errors.New("audio capture closed")
)

// Config holds audio capture configuration
type Config struct {
	DeviceIndex int    // -1 for default device
	SampleRate  uint32 // e.g., 8000
	Channels    uint32 // interleaved channels delivered by the device; channel 0 is recorded
	BufferSize  uint32 // frames per callback
}

// DefaultConfig returns defaults suited to a mono sound-card digitizer
func DefaultConfig() Config {
	return Config{
		DeviceIndex: -1,
		SampleRate:  8000,
		Channels:    1,
		BufferSize:  512,
	}
}

// Capture streams samples from a capture device
type Capture struct {
	config Config
	logger *zap.Logger

	mu      sync.RWMutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	running bool

	closed    atomic.Bool
	closeOnce sync.Once

	// Output channel for audio samples (float32 normalized -1.0 to 1.0)
	Samples chan []float32
}

// New creates a new audio capture instance. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Capture {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capture{
		config:  cfg,
		logger:  logger.Named("audio"),
		Samples: make(chan []float32, 64),
	}
}

// Config returns the capture configuration
func (c *Capture) Config() Config {
	return c.config
}

// Init initializes the audio backend
func (c *Capture) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return ErrClosed
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		c.logger.Debug("malgo", zap.String("message", message))
	})
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	c.ctx = ctx

	return nil
}

// ListDevices returns available capture devices
func (c *Capture) ListDevices() ([]malgo.DeviceInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ctx == nil {
		return nil, ErrNotInitialized
	}

	infos, err := c.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	return infos, nil
}

// Start begins audio capture. Capture stops when ctx is cancelled.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	if c.ctx == nil {
		c.mu.Unlock()
		return ErrNotInitialized
	}
	c.mu.Unlock()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.SampleRate = c.config.SampleRate
	deviceConfig.PeriodSizeInFrames = c.config.BufferSize
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = c.config.Channels

	if c.config.DeviceIndex >= 0 {
		devices, err := c.ListDevices()
		if err != nil {
			return err
		}
		if c.config.DeviceIndex >= len(devices) {
			return fmt.Errorf("device index %d out of range (have %d devices)",
				c.config.DeviceIndex, len(devices))
		}
		deviceConfig.Capture.DeviceID = devices[c.config.DeviceIndex].ID.Pointer()
	}

	onRecvFrames := func(_, inputSamples []byte, _ uint32) {
		c.handleFrames(inputSamples)
	}

	c.mu.RLock()
	device, err := malgo.InitDevice(c.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecvFrames})
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start device: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.running = true
	c.mu.Unlock()

	c.logger.Info("capture started",
		zap.Int("device_index", c.config.DeviceIndex),
		zap.Uint32("sample_rate", c.config.SampleRate),
		zap.Uint32("channels", c.config.Channels),
	)

	go func() {
		defer recovery.HandlePanicFunc(func() { _ = c.Close() })
		<-ctx.Done()
		_ = c.Stop()
	}()

	return nil
}

// handleFrames runs on the audio thread: decode and hand off, nothing else.
func (c *Capture) handleFrames(raw []byte) {
	if len(raw) < 4 {
		return
	}
	c.safeSend(bytesToFloat32(raw))
}

// safeSend delivers a buffer without blocking the audio thread. Buffers are
// dropped when the consumer is behind or the capture has been closed.
func (c *Capture) safeSend(samples []float32) {
	if c.closed.Load() {
		return
	}
	defer func() {
		// Close may win the race between the flag check and the send
		_ = recover()
	}()
	select {
	case c.Samples <- samples:
	default:
		c.logger.Debug("dropped sample buffer", zap.Int("samples", len(samples)))
	}
}

// Stop stops audio capture
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return ErrNotRunning
	}

	if c.device != nil {
		_ = c.device.Stop()
		c.device.Uninit()
		c.device = nil
	}

	c.running = false
	c.logger.Debug("capture stopped")
	return nil
}

// Close releases all audio resources. It is safe to call more than once.
func (c *Capture) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.closed.Store(true)

		if c.running && c.device != nil {
			_ = c.device.Stop()
			c.device.Uninit()
			c.device = nil
			c.running = false
		}

		if c.ctx != nil {
			if uerr := c.ctx.Uninit(); uerr != nil {
				err = fmt.Errorf("uninit context: %w", uerr)
			}
			c.ctx.Free()
			c.ctx = nil
		}

		close(c.Samples)
	})
	return err
}

// IsRunning returns true if capture is active
func (c *Capture) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// bytesToFloat32 decodes little-endian IEEE 754 samples. Trailing bytes that
// do not form a full sample are ignored.
func bytesToFloat32(data []byte) []float32 {
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples
}
