// ABOUTME: Shared construction and backoff core of the audio blocks
// ABOUTME: Device resolution, latency suggestion, stream open, sample size check
package blocks

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/FlowAudio/flowaudio-go/pkg/audio"
	"github.com/FlowAudio/flowaudio-go/pkg/audio/driver"
)

const (
	// minBlockingFrames is forced when the device reports zero frames
	// of availability, so the work loop blocks briefly in the native
	// call instead of spinning.
	minBlockingFrames = 64

	// portCapacityFrames sizes each block port.
	portCapacityFrames = 8192
)

// Config carries the construction parameters shared by Source and Sink.
type Config struct {
	// DeviceName selects the device: empty for the direction default,
	// all digits for a device index, anything else for an exact name
	// match against the device table.
	DeviceName string

	SampleRate  float64
	Format      audio.SampleFormat
	Channels    int
	ChannelMode audio.ChannelMode

	// Backend names the driver backend ("malgo", "oto", "portaudio").
	// Ignored when Host is set.
	Backend string

	// Host injects an already-open driver host. The block does not
	// close an injected host.
	Host driver.Host

	Logger *slog.Logger

	// ReportMode defaults to ReportStdErr.
	ReportMode ReportMode

	// Backoff is how far the ready time advances per overflow or
	// underflow. Zero disables backoff suspension.
	Backoff time.Duration
}

// block is the state shared by Source and Sink.
type block struct {
	host     driver.Host
	ownsHost bool
	stream   driver.Stream
	format   audio.Format
	logger   *slog.Logger

	reportMode ReportMode
	backoff    time.Duration
	readyTime  time.Time

	stderr io.Writer
}

// openBlock runs the common construction pipeline for the given stream
// direction. Every failure is fatal: the caller gets no block.
func openBlock(cfg Config, dir driver.Direction, name string) (*block, error) {
	format := audio.Format{
		SampleFormat: cfg.Format,
		SampleRate:   cfg.SampleRate,
		Channels:     cfg.Channels,
		ChannelMode:  cfg.ChannelMode,
	}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if cfg.Backoff < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNegativeBackoff)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("block", name, "id", uuid.NewString()[:8])

	host := cfg.Host
	ownsHost := false
	if host == nil {
		var err error
		host, err = driver.NewHost(cfg.Backend, logger)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ownsHost = true
	}
	fail := func(err error) (*block, error) {
		if ownsHost {
			host.Close()
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	index, err := driver.Resolve(host, dir, cfg.DeviceName)
	if err != nil {
		return fail(err)
	}
	devices, err := host.Devices()
	if err != nil {
		return fail(fmt.Errorf("enumerate devices: %w", err))
	}
	dev := devices[index]
	logger.Info("using audio device", "index", index, "name", dev.Name, "hostApi", dev.HostAPIName)

	streamCfg := driver.StreamConfig{
		Device:           index,
		Direction:        dir,
		Format:           format,
		SuggestedLatency: suggestLatency(dev, dir),
	}
	if err := host.SupportsFormat(streamCfg); err != nil {
		return fail(fmt.Errorf("format not supported: %w", err))
	}
	stream, err := host.OpenStream(streamCfg)
	if err != nil {
		return fail(fmt.Errorf("open stream: %w", err))
	}
	if got, want := stream.SampleSize(), format.SampleFormat.Size(); got != want {
		stream.Close()
		return fail(fmt.Errorf("%w: got %d bytes, requested %s (%d bytes)",
			ErrSampleSizeMismatch, got, format.SampleFormat, want))
	}

	return &block{
		host:       host,
		ownsHost:   ownsHost,
		stream:     stream,
		format:     format,
		logger:     logger,
		reportMode: cfg.ReportMode,
		backoff:    cfg.Backoff,
		stderr:     os.Stderr,
	}, nil
}

// suggestLatency averages the device's low and high latency defaults
// for the stream direction.
func suggestLatency(dev driver.DeviceInfo, dir driver.Direction) time.Duration {
	if dir == driver.Playback {
		return (dev.DefaultLowOutputLatency + dev.DefaultHighOutputLatency) / 2
	}
	return (dev.DefaultLowInputLatency + dev.DefaultHighInputLatency) / 2
}

// SetReportMode changes the overflow/underflow reporting policy. The
// new mode applies from the next condition on; the stream stays open.
func (b *block) SetReportMode(m ReportMode) {
	b.reportMode = m
}

// SetBackoff changes the backoff duration applied per overflow or
// underflow condition.
func (b *block) SetBackoff(d time.Duration) error {
	if d < 0 {
		return ErrNegativeBackoff
	}
	b.backoff = d
	return nil
}

// Format returns the format the stream was opened with.
func (b *block) Format() audio.Format { return b.format }

// SampleRate returns the negotiated stream sample rate.
func (b *block) SampleRate() float64 { return b.stream.SampleRate() }

// activate resets the backoff window and starts the stream.
func (b *block) activate() error {
	b.readyTime = time.Now()
	if err := b.stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	return nil
}

// Deactivate stops the stream. Backoff state is preserved across
// deactivation.
func (b *block) Deactivate() error {
	if err := b.stream.Stop(); err != nil {
		return fmt.Errorf("stop stream: %w", err)
	}
	return nil
}

// Close releases the stream and, when the block created it, the host.
func (b *block) Close() error {
	err := b.stream.Close()
	if b.ownsHost {
		if cerr := b.host.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// xrun records one overflow or underflow condition: the ready time
// advances by the backoff duration and the condition is reported per
// the current mode. marker is the two-character stderr tag.
func (b *block) xrun(marker, msg string) {
	b.readyTime = b.readyTime.Add(b.backoff)
	switch b.reportMode {
	case ReportStdErr:
		fmt.Fprint(b.stderr, marker)
	case ReportLogger:
		b.logger.Warn(msg)
	}
}

// suspended reports whether the work loop is still inside the backoff
// window and must yield without moving elements.
func (b *block) suspended() bool {
	return !time.Now().After(b.readyTime)
}
