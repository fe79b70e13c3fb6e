// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ColonelBlimp/ptamp/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ptamp",
	Short: "Peak-trough amplitude measurement for seismic picks",
	Long: `Measures peak-trough amplitude around an analyst pick: locates the flanking
peak and trough, normalizes the amplitude through the instrument response curve
and flags picks outside the acceptable period band or selection window.

Waveforms come from YAML/JSON files or a sound-card digitizer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().IntP("device", "d", -1, "audio device index (-1 for default)")
	rootCmd.PersistentFlags().Float64P("nominal-period", "p", 1.0, "nominal calibration period in seconds")
	rootCmd.PersistentFlags().StringP("curve", "c", "", "response curve file (YAML: frequencies, amplitude_responses)")
	rootCmd.PersistentFlags().StringP("output", "o", "json", "report format: json or yaml")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")

	rootCmd.AddCommand(measureCmd, captureCmd, devicesCmd)
}

// bindFlags runs on every invocation so flags survive a viper.Reset
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	viper.BindPFlag("device_index", flags.Lookup("device"))
	viper.BindPFlag("nominal_calibration_period", flags.Lookup("nominal-period"))
	viper.BindPFlag("response_curve_file", flags.Lookup("curve"))
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("debug", flags.Lookup("debug"))
	viper.BindPFlag("capture_seconds", captureCmd.Flags().Lookup("seconds"))
}

func initConfig() {
	bindFlags()
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}
