// ABOUTME: Device enumeration subcommand
// ABOUTME: Prints the driver device table as JSON or YAML
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FlowAudio/flowaudio-go/pkg/audio/driver"
	"github.com/FlowAudio/flowaudio-go/pkg/devinfo"
)

func createDevicesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List audio devices",
		Long: `Enumerates every audio device the selected backend exposes, with
channel capabilities, default sample rate and latency defaults, plus the
backend library's version string.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, err := driver.NewHost(viper.GetString("backend"), slog.Default())
			if err != nil {
				return err
			}
			defer host.Close()

			report, err := devinfo.Collect(host)
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "json":
				out, err = report.JSON()
			case "yaml":
				out, err = report.YAML()
			default:
				return fmt.Errorf("unknown output format %q (want json or yaml)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	return cmd
}
