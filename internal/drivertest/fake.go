// ABOUTME: Scriptable fake Host and Stream for tests
// ABOUTME: Injects device tables, availability scripts and overflow/underflow conditions
package drivertest

import (
	"github.com/FlowAudio/flowaudio-go/pkg/audio/driver"
)

// Host is a fake driver.Host with a fixed device table and injectable
// failures. The zero value presents an empty device table.
type Host struct {
	Table      []driver.DeviceInfo
	DefaultIn  int
	DefaultOut int
	Version    string

	DevicesErr    error
	DefaultInErr  error
	DefaultOutErr error
	SupportsErr   error
	OpenErr       error

	// Stream is handed out by OpenStream. When nil a fresh unscripted
	// stream is created per call.
	Stream *Stream

	Opened []driver.StreamConfig
	Closed bool
}

// NewDuplexHost builds a host with a small realistic device table: one
// duplex device (the default for both directions), one capture-only and
// one playback-only device.
func NewDuplexHost() *Host {
	return &Host{
		Table: []driver.DeviceInfo{
			{Name: "Fake Duplex", HostAPIName: "fake", MaxInputChannels: 2, MaxOutputChannels: 2, DefaultSampleRate: 48000},
			{Name: "Fake Microphone", HostAPIName: "fake", MaxInputChannels: 1, DefaultSampleRate: 44100},
			{Name: "Fake Speakers", HostAPIName: "fake", MaxOutputChannels: 2, DefaultSampleRate: 48000},
		},
		Version: "fake audio library 1.0",
	}
}

func (h *Host) Devices() ([]driver.DeviceInfo, error) {
	if h.DevicesErr != nil {
		return nil, h.DevicesErr
	}
	return h.Table, nil
}

func (h *Host) DefaultInputDevice() (int, error) {
	if h.DefaultInErr != nil {
		return 0, h.DefaultInErr
	}
	return h.DefaultIn, nil
}

func (h *Host) DefaultOutputDevice() (int, error) {
	if h.DefaultOutErr != nil {
		return 0, h.DefaultOutErr
	}
	return h.DefaultOut, nil
}

func (h *Host) SupportsFormat(driver.StreamConfig) error {
	return h.SupportsErr
}

func (h *Host) OpenStream(cfg driver.StreamConfig) (driver.Stream, error) {
	if h.OpenErr != nil {
		return nil, h.OpenErr
	}
	h.Opened = append(h.Opened, cfg)
	s := h.Stream
	if s == nil {
		s = &Stream{}
	}
	s.Cfg = cfg
	return s, nil
}

func (h *Host) VersionText() string {
	return h.Version
}

func (h *Host) Close() error {
	h.Closed = true
	return nil
}

// Stream is a fake driver.Stream. Avail and IOErrs are scripts consumed
// one entry per call; when a script runs out, the last entry repeats
// (Avail) or nil is returned (IOErrs).
type Stream struct {
	Cfg driver.StreamConfig

	// SampleSizeOverride simulates a backend silently substituting the
	// sample format. Zero means "as requested".
	SampleSizeOverride int
	RateOverride       float64

	Avail    []int
	AvailErr error
	IOErrs   []error
	FillByte byte

	Reads  []int
	Writes []int
	Starts int
	Stops  int
	Closes int

	availCalls int
	ioCalls    int
}

func (s *Stream) Start() error {
	s.Starts++
	return nil
}

func (s *Stream) Stop() error {
	s.Stops++
	return nil
}

func (s *Stream) Close() error {
	s.Closes++
	return nil
}

func (s *Stream) AvailableFrames() (int, error) {
	if s.AvailErr != nil {
		return 0, s.AvailErr
	}
	if len(s.Avail) == 0 {
		return 1 << 20, nil
	}
	i := s.availCalls
	if i >= len(s.Avail) {
		i = len(s.Avail) - 1
	}
	s.availCalls++
	return s.Avail[i], nil
}

func (s *Stream) nextIOErr() error {
	if s.ioCalls >= len(s.IOErrs) {
		s.ioCalls++
		return nil
	}
	err := s.IOErrs[s.ioCalls]
	s.ioCalls++
	return err
}

func (s *Stream) ReadFrames(buf driver.FrameBuffer, frames int) (int, error) {
	s.Reads = append(s.Reads, frames)
	if buf.IsInterleaved() {
		for i := range buf.Interleaved {
			buf.Interleaved[i] = s.FillByte
		}
	} else {
		for _, plane := range buf.Planes {
			for i := range plane {
				plane[i] = s.FillByte
			}
		}
	}
	err := s.nextIOErr()
	switch err {
	case nil:
		return frames, nil
	case driver.ErrOverflowed, driver.ErrUnderflowed:
		return frames, err
	}
	return 0, err
}

func (s *Stream) WriteFrames(_ driver.FrameBuffer, frames int) (int, error) {
	s.Writes = append(s.Writes, frames)
	err := s.nextIOErr()
	switch err {
	case nil:
		return frames, nil
	case driver.ErrOverflowed, driver.ErrUnderflowed:
		return frames, err
	}
	return 0, err
}

func (s *Stream) SampleSize() int {
	if s.SampleSizeOverride != 0 {
		return s.SampleSizeOverride
	}
	return s.Cfg.Format.SampleFormat.Size()
}

func (s *Stream) SampleRate() float64 {
	if s.RateOverride != 0 {
		return s.RateOverride
	}
	return s.Cfg.Format.SampleRate
}
