// ABOUTME: miniaudio-backed Host implementation via the malgo bindings
// ABOUTME: Ring-buffered adapters turn miniaudio callbacks into blocking frame I/O
package driver

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/FlowAudio/flowaudio-go/internal/ringbuf"
	"github.com/FlowAudio/flowaudio-go/pkg/audio"
	"github.com/gen2brain/malgo"
)

// miniaudio does not publish per-device latency defaults, so the table
// carries conventional shared-mode values.
const (
	malgoLowLatency  = 10 * time.Millisecond
	malgoHighLatency = 100 * time.Millisecond

	malgoFallbackRate     = 48000
	malgoFallbackChannels = 2
)

// MalgoHost is the default Host, backed by miniaudio. All capture and
// playback conversions happen inside miniaudio; the negotiated format
// always equals the requested one.
type MalgoHost struct {
	ctx    *malgo.AllocatedContext
	logger *slog.Logger

	mu      sync.Mutex
	table   []DeviceInfo
	capture []*malgo.DeviceID // per table entry, nil when capture-incapable
	playbk  []*malgo.DeviceID
	defIn   int
	defOut  int
}

// NewMalgoHost acquires a miniaudio context and builds the device table.
func NewMalgoHost(logger *slog.Logger) (*MalgoHost, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("miniaudio", "message", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("init miniaudio context: %w", err)
	}

	h := &MalgoHost{ctx: ctx, logger: logger, defIn: -1, defOut: -1}
	if err := h.refreshDevices(); err != nil {
		_ = h.Close()
		return nil, err
	}
	return h, nil
}

// refreshDevices merges the capture and playback tables by device name.
func (h *MalgoHost) refreshDevices() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	captureInfos, err := h.ctx.Devices(malgo.Capture)
	if err != nil {
		return fmt.Errorf("enumerate capture devices: %w", err)
	}
	playbackInfos, err := h.ctx.Devices(malgo.Playback)
	if err != nil {
		return fmt.Errorf("enumerate playback devices: %w", err)
	}

	h.table = h.table[:0]
	h.capture = h.capture[:0]
	h.playbk = h.playbk[:0]
	h.defIn, h.defOut = -1, -1
	byName := make(map[string]int)

	for i := range captureInfos {
		info := captureInfos[i]
		idx := len(h.table)
		byName[info.Name()] = idx
		channels, rate := malgoNativeFormat(info)
		h.table = append(h.table, DeviceInfo{
			Name:                    info.Name(),
			HostAPIName:             "miniaudio",
			MaxInputChannels:        channels,
			DefaultSampleRate:       rate,
			DefaultLowInputLatency:  malgoLowLatency,
			DefaultHighInputLatency: malgoHighLatency,
		})
		id := info.ID
		h.capture = append(h.capture, &id)
		h.playbk = append(h.playbk, nil)
		if info.IsDefault != 0 {
			h.defIn = idx
		}
	}

	for i := range playbackInfos {
		info := playbackInfos[i]
		channels, rate := malgoNativeFormat(info)
		idx, seen := byName[info.Name()]
		if !seen {
			idx = len(h.table)
			h.table = append(h.table, DeviceInfo{
				Name:              info.Name(),
				HostAPIName:       "miniaudio",
				DefaultSampleRate: rate,
			})
			h.capture = append(h.capture, nil)
			h.playbk = append(h.playbk, nil)
		}
		id := info.ID
		h.playbk[idx] = &id
		h.table[idx].MaxOutputChannels = channels
		h.table[idx].DefaultLowOutputLatency = malgoLowLatency
		h.table[idx].DefaultHighOutputLatency = malgoHighLatency
		if info.IsDefault != 0 {
			h.defOut = idx
		}
	}

	if h.defIn < 0 && len(h.capture) > 0 {
		h.defIn = 0
	}
	if h.defOut < 0 {
		for i, id := range h.playbk {
			if id != nil {
				h.defOut = i
				break
			}
		}
	}
	return nil
}

// malgoNativeFormat picks channel count and sample rate from a device's
// native format list. Zero entries mean "anything goes" in miniaudio.
func malgoNativeFormat(info malgo.DeviceInfo) (channels int, rate float64) {
	channels, rate = malgoFallbackChannels, malgoFallbackRate
	for i := uint32(0); i < info.FormatCount && int(i) < len(info.Formats); i++ {
		f := info.Formats[i]
		if int(f.Channels) > channels {
			channels = int(f.Channels)
		}
		if rate == malgoFallbackRate && f.SampleRate != 0 {
			rate = float64(f.SampleRate)
		}
	}
	return channels, rate
}

func (h *MalgoHost) Devices() ([]DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]DeviceInfo, len(h.table))
	copy(out, h.table)
	return out, nil
}

func (h *MalgoHost) DefaultInputDevice() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.defIn < 0 {
		return 0, fmt.Errorf("no capture device present: %w", ErrDeviceNotFound)
	}
	return h.defIn, nil
}

func (h *MalgoHost) DefaultOutputDevice() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.defOut < 0 {
		return 0, fmt.Errorf("no playback device present: %w", ErrDeviceNotFound)
	}
	return h.defOut, nil
}

// SupportsFormat validates the device index, the direction capability and
// the sample format mapping. miniaudio converts rates and channel counts
// internally, so those never fail here.
func (h *MalgoHost) SupportsFormat(cfg StreamConfig) error {
	if _, err := h.deviceID(cfg); err != nil {
		return err
	}
	_, err := malgoFormat(cfg.Format.SampleFormat)
	return err
}

func (h *MalgoHost) deviceID(cfg StreamConfig) (*malgo.DeviceID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cfg.Device < 0 || cfg.Device >= len(h.table) {
		return nil, fmt.Errorf("device index %d with %d devices present: %w",
			cfg.Device, len(h.table), ErrDeviceOutOfRange)
	}
	if cfg.Direction == Capture {
		if h.capture[cfg.Device] == nil {
			return nil, fmt.Errorf("device %q has no inputs: %w", h.table[cfg.Device].Name, ErrFormatUnsupported)
		}
		return h.capture[cfg.Device], nil
	}
	if h.playbk[cfg.Device] == nil {
		return nil, fmt.Errorf("device %q has no outputs: %w", h.table[cfg.Device].Name, ErrFormatUnsupported)
	}
	return h.playbk[cfg.Device], nil
}

func malgoFormat(f audio.SampleFormat) (malgo.FormatType, error) {
	switch f {
	case audio.Float32:
		return malgo.FormatF32, nil
	case audio.Int32:
		return malgo.FormatS32, nil
	case audio.Int16:
		return malgo.FormatS16, nil
	case audio.Uint8:
		return malgo.FormatU8, nil
	case audio.Int8:
		// miniaudio has no signed 8-bit format
		return 0, fmt.Errorf("int8 via miniaudio: %w", ErrFormatUnsupported)
	}
	return 0, fmt.Errorf("sample format %v: %w", f, ErrFormatUnsupported)
}

func (h *MalgoHost) OpenStream(cfg StreamConfig) (Stream, error) {
	if err := cfg.Format.Validate(); err != nil {
		return nil, err
	}
	id, err := h.deviceID(cfg)
	if err != nil {
		return nil, err
	}
	format, err := malgoFormat(cfg.Format.SampleFormat)
	if err != nil {
		return nil, err
	}

	s := &malgoStream{
		host:       h,
		cfg:        cfg,
		sampleSize: malgo.SampleSizeInBytes(format),
		frameBytes: malgo.SampleSizeInBytes(format) * cfg.Format.Channels,
	}
	s.ring = ringbuf.New(malgoRingBytes(cfg, s.frameBytes))
	if cfg.Format.ChannelMode == audio.PortPerChannel {
		s.scratch = make([]byte, s.frameBytes*malgoScratchFrames)
	}

	var kind malgo.DeviceType
	if cfg.Direction == Capture {
		kind = malgo.Capture
	} else {
		kind = malgo.Playback
	}
	deviceConfig := malgo.DefaultDeviceConfig(kind)
	deviceConfig.SampleRate = uint32(cfg.Format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1
	if cfg.SuggestedLatency > 0 {
		deviceConfig.PeriodSizeInMilliseconds = uint32(cfg.SuggestedLatency.Milliseconds())
	}
	if cfg.Direction == Capture {
		deviceConfig.Capture.Format = format
		deviceConfig.Capture.Channels = uint32(cfg.Format.Channels)
		deviceConfig.Capture.DeviceID = id.Pointer()
	} else {
		deviceConfig.Playback.Format = format
		deviceConfig.Playback.Channels = uint32(cfg.Format.Channels)
		deviceConfig.Playback.DeviceID = id.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{Data: s.onData}
	device, err := malgo.InitDevice(h.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("init %s device: %w", cfg.Direction, err)
	}
	s.dev = device
	return s, nil
}

func (h *MalgoHost) VersionText() string {
	return "miniaudio (malgo)"
}

func (h *MalgoHost) Close() error {
	if h.ctx == nil {
		return nil
	}
	if err := h.ctx.Uninit(); err != nil {
		h.ctx.Free()
		h.ctx = nil
		return fmt.Errorf("uninit miniaudio context: %w", err)
	}
	h.ctx.Free()
	h.ctx = nil
	return nil
}

// Ring capacity holds four suggested-latency periods, with a floor so
// the forced minimum frame count always fits.
func malgoRingBytes(cfg StreamConfig, frameBytes int) int {
	frames := int(cfg.SuggestedLatency.Seconds()*cfg.Format.SampleRate) * 4
	if frames < 4096 {
		frames = 4096
	}
	return frames * frameBytes
}

const (
	malgoScratchFrames = 8192
	malgoPollInterval  = time.Millisecond
	malgoMaxWait       = time.Second
)

type malgoStream struct {
	host *MalgoHost
	cfg  StreamConfig
	dev  *malgo.Device

	ring       *ringbuf.Ring
	scratch    []byte // interleave staging for PortPerChannel mode
	sampleSize int
	frameBytes int

	mu      sync.Mutex
	started bool
	closed  bool
	primed  bool // playback: first frames written, underflows count from here
	xrun    bool // overflow (capture) or underflow (playback) since last I/O call
}

// onData runs on miniaudio's audio thread.
func (s *malgoStream) onData(pOutput, pInput []byte, frameCount uint32) {
	if s.cfg.Direction == Capture {
		if n := s.ring.Write(pInput); n < len(pInput) {
			s.noteXrun()
		}
		return
	}

	n := s.ring.Read(pOutput)
	if n < len(pOutput) {
		for i := n; i < len(pOutput); i++ {
			pOutput[i] = 0
		}
		s.mu.Lock()
		if s.primed {
			s.xrun = true
		}
		s.mu.Unlock()
	}
}

func (s *malgoStream) noteXrun() {
	s.mu.Lock()
	s.xrun = true
	s.mu.Unlock()
}

func (s *malgoStream) takeXrun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	x := s.xrun
	s.xrun = false
	return x
}

func (s *malgoStream) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.started = true
	s.mu.Unlock()
	if err := s.dev.Start(); err != nil {
		return fmt.Errorf("start device: %w", err)
	}
	return nil
}

func (s *malgoStream) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.started = false
	s.mu.Unlock()
	if err := s.dev.Stop(); err != nil {
		return fmt.Errorf("stop device: %w", err)
	}
	return nil
}

func (s *malgoStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.started = false
	s.mu.Unlock()
	s.dev.Uninit()
	return nil
}

func (s *malgoStream) AvailableFrames() (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, ErrStreamClosed
	}
	if s.cfg.Direction == Capture {
		return s.ring.Buffered() / s.frameBytes, nil
	}
	return s.ring.Free() / s.frameBytes, nil
}

func (s *malgoStream) ReadFrames(buf FrameBuffer, frames int) (int, error) {
	if s.cfg.Direction != Capture {
		return 0, fmt.Errorf("read on playback stream: %w", ErrStreamClosed)
	}
	want := frames * s.frameBytes
	dst := buf.Interleaved
	if !buf.IsInterleaved() {
		dst = s.scratchBytes(want)
	}

	got := 0
	deadline := time.Now().Add(malgoMaxWait)
	for got < want {
		got += s.ring.Read(dst[got:want])
		if got >= want {
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

	gotFrames := got / s.frameBytes
	if !buf.IsInterleaved() {
		deinterleaveInto(buf.Planes, dst, gotFrames, s.sampleSize)
	}
	if s.takeXrun() {
		return gotFrames, ErrOverflowed
	}
	return gotFrames, nil
}

func (s *malgoStream) WriteFrames(buf FrameBuffer, frames int) (int, error) {
	if s.cfg.Direction != Playback {
		return 0, fmt.Errorf("write on capture stream: %w", ErrStreamClosed)
	}
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
	if s.takeXrun() {
		return put / s.frameBytes, ErrUnderflowed
	}
	return put / s.frameBytes, nil
}

func (s *malgoStream) scratchBytes(n int) []byte {
	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}
	return s.scratch[:n]
}

// SampleSize reports the negotiated sample width. miniaudio converts to
// the requested format, so this always matches the request.
func (s *malgoStream) SampleSize() int {
	return s.sampleSize
}

func (s *malgoStream) SampleRate() float64 {
	return s.cfg.Format.SampleRate
}
