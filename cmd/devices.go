// cmd/devices.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/ptamp/internal/audio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio capture devices",
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

func runDevices(cmd *cobra.Command, _ []string) error {
	settings, logger, cleanup, err := loadRuntime()
	if err != nil {
		return err
	}
	defer cleanup()

	capture := audio.New(captureConfig(settings), logger)
	defer capture.Close()

	if err := capture.Init(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	devices, err := capture.ListDevices()
	if err != nil {
		return fmt.Errorf("audio devices: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(devices) == 0 {
		fmt.Fprintln(out, "No capture devices found")
		return nil
	}
	for i, d := range devices {
		marker := ""
		if d.IsDefault != 0 {
			marker = " (default)"
		}
		fmt.Fprintf(out, "[%d] %s%s\n", i, d.Name(), marker)
	}
	return nil
}
