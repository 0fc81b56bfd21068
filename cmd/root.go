// ABOUTME: Root cobra command and shared configuration
// ABOUTME: Persistent flags, viper defaults and logger setup
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FlowAudio/flowaudio-go/internal/logutil"
	"github.com/FlowAudio/flowaudio-go/internal/version"
)

var logFile *os.File

var rootCmd = &cobra.Command{
	Use:     "flowaudio",
	Short:   "Audio source/sink blocks for dataflow pipelines",
	Version: version.Version,
	Long: version.Product + ` wraps cross-platform audio I/O as dataflow blocks.
It can enumerate audio devices and run simple capture/playback pipelines
from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cfg, _ := cmd.Flags().GetString("config"); cfg != "" {
			viper.SetConfigFile(cfg)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		}
		f, err := logutil.Configure(viper.GetString("loglevel"), viper.GetString("logfile"))
		if err != nil {
			return err
		}
		logFile = f
		return nil
	},
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func setViperDefaults() {
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("logfile", "")
	viper.SetDefault("backend", "")
	viper.SetDefault("rate", 44100.0)
	viper.SetDefault("format", "float32")
	viper.SetDefault("channels", 1)
	viper.SetDefault("chanmode", "INTERLEAVED")
	viper.SetDefault("report", "STDERROR")
	viper.SetDefault("backoff", 0)
}

func init() {
	setViperDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to a config file")
	pf.String("loglevel", "info", "log level (none, error, warn, info, debug)")
	pf.String("logfile", "", "write JSON logs to this file instead of stdout")
	pf.String("backend", "", "audio backend (malgo, oto, portaudio); empty for the default")

	viper.BindPFlag("loglevel", pf.Lookup("loglevel"))
	viper.BindPFlag("logfile", pf.Lookup("logfile"))
	viper.BindPFlag("backend", pf.Lookup("backend"))

	rootCmd.AddCommand(createDevicesCmd())
	rootCmd.AddCommand(createPassthroughCmd())
}
