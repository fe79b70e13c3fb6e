// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ColonelBlimp/ptamp/internal/amplitude"
)

const (
	AppName       = "ptamp"
	ConfigType    = "yaml"
	DefaultConfig = `# Peak-trough amplitude measurement configuration

# Calibration
nominal_calibration_period: 1.0   # Reference period in seconds (normalization factor = 1)
response_curve_file: ""           # YAML response curve (frequencies / amplitude_responses)
                                  # Empty = built-in short-period response

# Acceptance window
warning_min_period: 0.1           # Shortest acceptable period in seconds
warning_max_period: 2.0           # Longest acceptable period in seconds
selection_start_offset: -1.0      # Pick window start relative to arrival time (seconds)
selection_end_offset: 5.0         # Pick window end relative to arrival time (seconds)

# Live capture (sound-card digitizer)
device_index: -1                  # -1 for default device
sample_rate: 8000                 # Capture sample rate in Hz
buffer_size: 512                  # Frames per capture callback
capture_seconds: 10               # Length of the recorded window

# Output
output: "json"                    # Report format: json or yaml
debug: false                      # Enable debug logging
`
)

// Settings holds all application configuration
type Settings struct {
	// Calibration
	NominalCalibrationPeriod float64 `mapstructure:"nominal_calibration_period"`
	ResponseCurveFile        string  `mapstructure:"response_curve_file"`

	// Acceptance window
	WarningMinPeriod     float64 `mapstructure:"warning_min_period"`
	WarningMaxPeriod     float64 `mapstructure:"warning_max_period"`
	SelectionStartOffset float64 `mapstructure:"selection_start_offset"`
	SelectionEndOffset   float64 `mapstructure:"selection_end_offset"`

	// Live capture
	DeviceIndex    int     `mapstructure:"device_index"`
	SampleRate     float64 `mapstructure:"sample_rate"`
	BufferSize     int     `mapstructure:"buffer_size"`
	CaptureSeconds float64 `mapstructure:"capture_seconds"`

	// Output
	Output string `mapstructure:"output"`
	Debug  bool   `mapstructure:"debug"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/ptamp/
func Init() error {
	// Set defaults
	viper.SetDefault("nominal_calibration_period", amplitude.DefaultNominalCalibrationPeriod)
	viper.SetDefault("response_curve_file", "")
	viper.SetDefault("warning_min_period", 0.1)
	viper.SetDefault("warning_max_period", 2.0)
	viper.SetDefault("selection_start_offset", -1.0)
	viper.SetDefault("selection_end_offset", 5.0)
	viper.SetDefault("device_index", -1)
	viper.SetDefault("sample_rate", 8000)
	viper.SetDefault("buffer_size", 512)
	viper.SetDefault("capture_seconds", 10)
	viper.SetDefault("output", "json")
	viper.SetDefault("debug", false)

	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("read config: %w", err)
		}
		// No config found - create default in ~/.config/ptamp/
		if err = ensureConfigExists(filepath.Join(configDir, AppName)); err != nil {
			return err
		}
		if err = viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	// Calibration
	if !(s.NominalCalibrationPeriod > 0) || math.IsInf(s.NominalCalibrationPeriod, 0) {
		errs = append(errs, fmt.Errorf("nominal_calibration_period must be a positive number of seconds, got %v", s.NominalCalibrationPeriod))
	}

	// Acceptance window
	if s.WarningMinPeriod < 0 {
		errs = append(errs, fmt.Errorf("warning_min_period must not be negative, got %v", s.WarningMinPeriod))
	}
	if s.WarningMinPeriod > s.WarningMaxPeriod {
		errs = append(errs, fmt.Errorf("warning_max_period (%v) must not be less than warning_min_period (%v)", s.WarningMaxPeriod, s.WarningMinPeriod))
	}
	if s.SelectionStartOffset > s.SelectionEndOffset {
		errs = append(errs, fmt.Errorf("selection_end_offset (%v) must not be less than selection_start_offset (%v)", s.SelectionEndOffset, s.SelectionStartOffset))
	}

	// Live capture
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %v", s.SampleRate))
	} else if s.SampleRate != math.Trunc(s.SampleRate) {
		errs = append(errs, fmt.Errorf("sample_rate must be a whole number of Hz, got %v", s.SampleRate))
	}
	if s.BufferSize < 64 || s.BufferSize > 8192 {
		errs = append(errs, fmt.Errorf("buffer_size must be between 64 and 8192, got %d", s.BufferSize))
	}
	if s.BufferSize&(s.BufferSize-1) != 0 {
		errs = append(errs, fmt.Errorf("buffer_size should be a power of 2, got %d", s.BufferSize))
	}
	if s.CaptureSeconds < 1 || s.CaptureSeconds > 600 {
		errs = append(errs, fmt.Errorf("capture_seconds must be between 1 and 600, got %v", s.CaptureSeconds))
	}

	// Output
	if s.Output != "json" && s.Output != "yaml" {
		errs = append(errs, fmt.Errorf("output must be one of json, yaml, got %q", s.Output))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// WarningBand returns the configured acceptable period range.
func (s *Settings) WarningBand() amplitude.WarningBand {
	return amplitude.WarningBand{Min: s.WarningMinPeriod, Max: s.WarningMaxPeriod}
}

// SelectionOffsets returns the configured pick window offsets.
func (s *Settings) SelectionOffsets() amplitude.SelectionOffsets {
	return amplitude.SelectionOffsets{
		StartOffsetSecs: s.SelectionStartOffset,
		EndOffsetSecs:   s.SelectionEndOffset,
	}
}

// Calibration builds the calibration context: the response curve file when
// one is configured, the built-in short-period curve otherwise.
func (s *Settings) Calibration() (*amplitude.Calibration, error) {
	curve := amplitude.DefaultResponseCurve()
	if s.ResponseCurveFile != "" {
		loaded, err := LoadResponseCurve(s.ResponseCurveFile)
		if err != nil {
			return nil, err
		}
		curve = *loaded
	}

	c, err := amplitude.NewCalibration(s.NominalCalibrationPeriod, curve)
	if err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}
	return c, nil
}
