// ABOUTME: Host and Stream interface definitions
// ABOUTME: Common facade implemented by every audio backend
package driver

import (
	"time"

	"github.com/FlowAudio/flowaudio-go/pkg/audio"
)

// Direction distinguishes capture (device to process) from playback
// (process to device) streams.
type Direction int

const (
	Capture Direction = iota
	Playback
)

func (d Direction) String() string {
	if d == Capture {
		return "capture"
	}
	return "playback"
}

// DeviceInfo describes one entry of the host's device table.
type DeviceInfo struct {
	Name              string
	HostAPIName       string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64

	DefaultLowInputLatency   time.Duration
	DefaultHighInputLatency  time.Duration
	DefaultLowOutputLatency  time.Duration
	DefaultHighOutputLatency time.Duration
}

// StreamConfig carries everything needed to open a stream. It is
// immutable once the stream is open.
type StreamConfig struct {
	// Device is an index into the table returned by Host.Devices.
	Device    int
	Direction Direction
	Format    audio.Format

	// SuggestedLatency is a hint; backends may quantize or ignore it.
	SuggestedLatency time.Duration
}

// Stream is one open connection to a device. Streams are owned by a
// single block instance and must not be used concurrently.
type Stream interface {
	Start() error
	Stop() error
	Close() error

	// AvailableFrames returns the number of frames that can be read
	// (capture) or written (playback) without blocking.
	AvailableFrames() (int, error)

	// ReadFrames fills buf with up to frames captured frames and returns
	// the count placed in buf. ErrOverflowed reports dropped frames since
	// the previous call; the returned data is still valid.
	ReadFrames(buf FrameBuffer, frames int) (int, error)

	// WriteFrames queues frames playback frames from buf and returns the
	// count accepted. ErrUnderflowed reports a device starvation since
	// the previous call; the frames were still accepted.
	WriteFrames(buf FrameBuffer, frames int) (int, error)

	// SampleSize returns the negotiated byte width of one sample.
	SampleSize() int

	// SampleRate returns the negotiated sample rate.
	SampleRate() float64
}

// Host owns the native library lifetime and the device table. Creating a
// Host acquires the library; Close releases it.
type Host interface {
	Devices() ([]DeviceInfo, error)
	DefaultInputDevice() (int, error)
	DefaultOutputDevice() (int, error)

	// SupportsFormat checks a configuration without opening a stream.
	SupportsFormat(cfg StreamConfig) error

	OpenStream(cfg StreamConfig) (Stream, error)

	// VersionText identifies the wrapped native library.
	VersionText() string

	Close() error
}
