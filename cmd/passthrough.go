// ABOUTME: Capture-to-playback pipeline subcommand
// ABOUTME: Wires a source block to a sink block and runs both
package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FlowAudio/flowaudio-go/pkg/audio"
	"github.com/FlowAudio/flowaudio-go/pkg/blocks"
	"github.com/FlowAudio/flowaudio-go/pkg/flow"
)

func createPassthroughCmd() *cobra.Command {
	var (
		deviceIn  string
		deviceOut string
		duration  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "passthrough",
		Short: "Pipe capture audio straight to playback",
		Long: `Opens a capture stream and a playback stream and moves frames between
them through dataflow ports. Runs until interrupted or until --duration
elapses. Overflow/underflow conditions are reported per --report.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := audio.ParseSampleFormat(viper.GetString("format"))
			if err != nil {
				return err
			}
			chanMode, err := audio.ParseChannelMode(viper.GetString("chanmode"))
			if err != nil {
				return err
			}
			reportMode, err := blocks.ParseReportMode(viper.GetString("report"))
			if err != nil {
				return err
			}

			base := blocks.Config{
				SampleRate:  viper.GetFloat64("rate"),
				Format:      format,
				Channels:    viper.GetInt("channels"),
				ChannelMode: chanMode,
				Backend:     viper.GetString("backend"),
				Logger:      slog.Default(),
				ReportMode:  reportMode,
				Backoff:     time.Duration(viper.GetInt("backoff")) * time.Millisecond,
			}

			srcCfg := base
			srcCfg.DeviceName = deviceIn
			source, err := blocks.NewSource(srcCfg)
			if err != nil {
				return err
			}
			defer source.Close()

			snkCfg := base
			snkCfg.DeviceName = deviceOut
			sink, err := blocks.NewSink(snkCfg)
			if err != nil {
				return err
			}
			defer sink.Close()

			for i, out := range source.Outputs() {
				if err := flow.Connect(out, sink.Inputs()[i]); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			slog.Info("passthrough running",
				"rate", base.SampleRate, "channels", base.Channels, "format", format.String())

			var wg sync.WaitGroup
			var srcErr, snkErr error
			wg.Add(2)
			go func() {
				defer wg.Done()
				srcErr = flow.NewRunner(source, slog.Default()).Run(ctx)
			}()
			go func() {
				defer wg.Done()
				snkErr = flow.NewRunner(sink, slog.Default()).Run(ctx)
			}()
			wg.Wait()

			if srcErr != nil {
				return srcErr
			}
			return snkErr
		},
	}

	f := cmd.Flags()
	f.StringVar(&deviceIn, "device-in", "", "capture device name or index (empty for default)")
	f.StringVar(&deviceOut, "device-out", "", "playback device name or index (empty for default)")
	f.DurationVar(&duration, "duration", 0, "stop after this long (0 = run until interrupted)")
	f.Float64("rate", 44100, "sample rate in Hz")
	f.String("format", "float32", "sample format (float32, int32, int16, int8, uint8)")
	f.Int("channels", 1, "channel count")
	f.String("chanmode", "INTERLEAVED", "channel mode (INTERLEAVED, PORTPERCHAN)")
	f.String("report", "STDERROR", "overflow/underflow reporting (LOGGER, STDERROR, DISABLED)")
	f.Int("backoff", 0, "backoff per overflow/underflow in milliseconds")

	viper.BindPFlag("rate", f.Lookup("rate"))
	viper.BindPFlag("format", f.Lookup("format"))
	viper.BindPFlag("channels", f.Lookup("channels"))
	viper.BindPFlag("chanmode", f.Lookup("chanmode"))
	viper.BindPFlag("report", f.Lookup("report"))
	viper.BindPFlag("backoff", f.Lookup("backoff"))

	return cmd
}
