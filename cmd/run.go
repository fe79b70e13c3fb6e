// cmd/run.go
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ColonelBlimp/ptamp/internal/analysis"
	"github.com/ColonelBlimp/ptamp/internal/config"
	"github.com/ColonelBlimp/ptamp/internal/logging"
)

// loadRuntime reads validated settings and installs the process logger.
// The returned cleanup flushes the logger and restores the previous one.
func loadRuntime() (*config.Settings, *zap.Logger, func(), error) {
	settings, err := config.Get()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, restore, err := logging.Install(settings.Debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logging: %w", err)
	}
	cleanup := func() {
		_ = logger.Sync()
		restore()
	}
	return settings, logger, cleanup, nil
}

func newAnalyzer(settings *config.Settings, logger *zap.Logger) (*analysis.Analyzer, error) {
	calibration, err := settings.Calibration()
	if err != nil {
		return nil, err
	}
	return analysis.New(analysis.Config{
		Calibration:      calibration,
		WarningBand:      settings.WarningBand(),
		SelectionOffsets: settings.SelectionOffsets(),
	}, logger)
}

// writeReport encodes v in the configured output format
func writeReport(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
