// ABOUTME: oto-backed playback-only Host implementation
// ABOUTME: Single default output device fed from a ring buffer reader
package driver

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/FlowAudio/flowaudio-go/internal/ringbuf"
	"github.com/FlowAudio/flowaudio-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// OtoHost is a playback-only fallback backend. oto exposes no device
// table, so the host presents a single default output device, and it
// allows only one context per process, so the first stream pins the
// format for the process lifetime.
type OtoHost struct {
	logger *slog.Logger

	mu     sync.Mutex
	otoCtx *oto.Context
	rate   int
	chans  int
}

func NewOtoHost(logger *slog.Logger) (*OtoHost, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return &OtoHost{logger: logger}, nil
}

func (h *OtoHost) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{
		Name:                     "default",
		HostAPIName:              "oto",
		MaxOutputChannels:        2,
		DefaultSampleRate:        48000,
		DefaultLowOutputLatency:  10 * time.Millisecond,
		DefaultHighOutputLatency: 100 * time.Millisecond,
	}}, nil
}

func (h *OtoHost) DefaultInputDevice() (int, error) {
	return 0, ErrCaptureUnsupported
}

func (h *OtoHost) DefaultOutputDevice() (int, error) {
	return 0, nil
}

func (h *OtoHost) SupportsFormat(cfg StreamConfig) error {
	if cfg.Direction == Capture {
		return ErrCaptureUnsupported
	}
	if cfg.Device != 0 {
		return fmt.Errorf("device index %d with 1 device present: %w", cfg.Device, ErrDeviceOutOfRange)
	}
	_, err := otoFormat(cfg.Format.SampleFormat)
	return err
}

func otoFormat(f audio.SampleFormat) (oto.Format, error) {
	switch f {
	case audio.Float32:
		return oto.FormatFloat32LE, nil
	case audio.Int16:
		return oto.FormatSignedInt16LE, nil
	case audio.Uint8:
		return oto.FormatUnsignedInt8, nil
	}
	return 0, fmt.Errorf("sample format %v via oto: %w", f, ErrFormatUnsupported)
}

func (h *OtoHost) OpenStream(cfg StreamConfig) (Stream, error) {
	if err := h.SupportsFormat(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Format.Validate(); err != nil {
		return nil, err
	}
	format, _ := otoFormat(cfg.Format.SampleFormat)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   int(cfg.Format.SampleRate),
			ChannelCount: cfg.Format.Channels,
			Format:       format,
		}
		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("create oto context: %w", err)
		}
		<-readyChan
		h.otoCtx = ctx
		h.rate = int(cfg.Format.SampleRate)
		h.chans = cfg.Format.Channels
	} else if h.rate != int(cfg.Format.SampleRate) || h.chans != cfg.Format.Channels {
		// oto does not support reinitialization
		return nil, fmt.Errorf("oto context pinned at %dHz/%dch: %w",
			h.rate, h.chans, ErrFormatUnsupported)
	}

	s := &otoStream{
		cfg:        cfg,
		sampleSize: cfg.Format.SampleFormat.Size(),
		frameBytes: cfg.Format.FrameBytes(),
	}
	s.ring = ringbuf.New(malgoRingBytes(cfg, s.frameBytes))
	if cfg.Format.ChannelMode == audio.PortPerChannel {
		s.scratch = make([]byte, s.frameBytes*malgoScratchFrames)
	}
	s.player = h.otoCtx.NewPlayer(s)
	return s, nil
}

func (h *OtoHost) VersionText() string {
	return "oto/v3"
}

// Close releases nothing: oto contexts live for the process lifetime.
func (h *OtoHost) Close() error {
	return nil
}

type otoStream struct {
	cfg    StreamConfig
	player *oto.Player

	ring       *ringbuf.Ring
	scratch    []byte
	sampleSize int
	frameBytes int

	mu      sync.Mutex
	started bool
	closed  bool
	primed  bool
	xrun    bool
}

// Read feeds the oto player from the ring, zero-filling when the block
// has not written fast enough. It runs on oto's pull goroutine.
func (s *otoStream) Read(p []byte) (int, error) {
	n := s.ring.Read(p)
	if n < len(p) {
		for i := n; i < len(p); i++ {
			p[i] = 0
		}
		s.mu.Lock()
		if s.primed && s.started {
			s.xrun = true
		}
		s.mu.Unlock()
	}
	return len(p), nil
}

func (s *otoStream) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.started = true
	s.mu.Unlock()
	s.player.Play()
	return nil
}

func (s *otoStream) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.started = false
	s.mu.Unlock()
	s.player.Pause()
	return nil
}

func (s *otoStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.started = false
	s.mu.Unlock()
	return s.player.Close()
}

func (s *otoStream) AvailableFrames() (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, ErrStreamClosed
	}
	return s.ring.Free() / s.frameBytes, nil
}

func (s *otoStream) ReadFrames(FrameBuffer, int) (int, error) {
	return 0, ErrCaptureUnsupported
}

func (s *otoStream) WriteFrames(buf FrameBuffer, frames int) (int, error) {
	want := frames * s.frameBytes
	src := buf.Interleaved
	if !buf.IsInterleaved() {
		src = s.scratchBytes(want)
		interleaveInto(src, buf.Planes, frames, s.sampleSize)
	}

	put := 0
	deadline := time.Now().Add(malgoMaxWait)
	for put < want {
		put += s.ring.Write(src[put:want])
		if put >= want {
			break
		}
		s.mu.Lock()
		running := s.started && !s.closed
		s.mu.Unlock()
		if !running || time.Now().After(deadline) {
			break
		}
		time.Sleep(malgoPollInterval)
	}

	if put > 0 {
		s.mu.Lock()
		s.primed = true
		s.mu.Unlock()
	}

	s.mu.Lock()
	xrun := s.xrun
	s.xrun = false
	s.mu.Unlock()
	if xrun {
		return put / s.frameBytes, ErrUnderflowed
	}
	return put / s.frameBytes, nil
}

func (s *otoStream) scratchBytes(n int) []byte {
	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}
	return s.scratch[:n]
}

func (s *otoStream) SampleSize() int {
	return s.sampleSize
}

func (s *otoStream) SampleRate() float64 {
	return s.cfg.Format.SampleRate
}
