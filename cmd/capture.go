// cmd/capture.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/ptamp/internal/analysis"
	"github.com/ColonelBlimp/ptamp/internal/audio"
	"github.com/ColonelBlimp/ptamp/internal/config"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record a window from the audio digitizer and measure it",
	Long: `Records capture_seconds of audio from the configured device, removes the DC
offset and measures the peak-trough amplitude around the pick. The pick
defaults to the middle of the recorded window.`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().Float64P("seconds", "s", 10, "length of the recorded window in seconds")
	captureCmd.Flags().IntP("seed-index", "i", -1, "sample index of the pick (-1 for the middle of the window)")
}

func captureConfig(settings *config.Settings) audio.Config {
	return audio.Config{
		DeviceIndex: settings.DeviceIndex,
		SampleRate:  uint32(settings.SampleRate),
		Channels:    1,
		BufferSize:  uint32(settings.BufferSize),
	}
}

func runCapture(cmd *cobra.Command, _ []string) error {
	settings, logger, cleanup, err := loadRuntime()
	if err != nil {
		return err
	}
	defer cleanup()

	analyzer, err := newAnalyzer(settings, logger)
	if err != nil {
		return err
	}

	capture := audio.New(captureConfig(settings), logger)
	defer capture.Close()

	if err := capture.Init(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	duration := time.Duration(settings.CaptureSeconds * float64(time.Second))
	fmt.Fprintf(cmd.ErrOrStderr(), "Recording %v from audio device... (Ctrl+C to abort)\n", duration)

	w, err := capture.Record(ctx, duration)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("audio capture aborted: %w", err)
		}
		return fmt.Errorf("audio capture: %w", err)
	}

	seed, _ := cmd.Flags().GetInt("seed-index")
	if seed < 0 {
		seed = len(w.Samples) / 2
	}

	fm, err := analyzer.Analyze(analysis.Request{
		Waveform:    w,
		SeedIndex:   seed,
		ArrivalTime: w.TimeAt(seed),
	})
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), settings.Output, fm)
}
