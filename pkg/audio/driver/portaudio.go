//go:build portaudio

// ABOUTME: PortAudio-backed Host implementation
// ABOUTME: Blocking Read/Write streams with typed buffer adapters per sample format
package driver

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/FlowAudio/flowaudio-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudioHost wraps the system PortAudio library. Unlike miniaudio,
// PortAudio negotiates formats with the device and exposes real latency
// defaults per device, so this backend is preferred where the system
// library is installed.
type PortAudioHost struct {
	logger  *slog.Logger
	devices []*portaudio.DeviceInfo
}

func newPortAudioHost(logger *slog.Logger) (Host, error) {
	return NewPortAudioHost(logger)
}

// NewPortAudioHost initializes PortAudio and snapshots the device table.
// PortAudio reference-counts initialization internally, so hosts may be
// created and closed independently.
func NewPortAudioHost(logger *slog.Logger) (*PortAudioHost, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	devices, err := portaudio.Devices()
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	return &PortAudioHost{logger: logger, devices: devices}, nil
}

func (h *PortAudioHost) Devices() ([]DeviceInfo, error) {
	out := make([]DeviceInfo, len(h.devices))
	for i, d := range h.devices {
		hostAPI := ""
		if d.HostApi != nil {
			hostAPI = d.HostApi.Name
		}
		out[i] = DeviceInfo{
			Name:                     d.Name,
			HostAPIName:              hostAPI,
			MaxInputChannels:         d.MaxInputChannels,
			MaxOutputChannels:        d.MaxOutputChannels,
			DefaultSampleRate:        d.DefaultSampleRate,
			DefaultLowInputLatency:   d.DefaultLowInputLatency,
			DefaultHighInputLatency:  d.DefaultHighInputLatency,
			DefaultLowOutputLatency:  d.DefaultLowOutputLatency,
			DefaultHighOutputLatency: d.DefaultHighOutputLatency,
		}
	}
	return out, nil
}

func (h *PortAudioHost) DefaultInputDevice() (int, error) {
	d, err := portaudio.DefaultInputDevice()
	if err != nil {
		return 0, fmt.Errorf("default input device: %w", err)
	}
	return h.indexOf(d)
}

func (h *PortAudioHost) DefaultOutputDevice() (int, error) {
	d, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return 0, fmt.Errorf("default output device: %w", err)
	}
	return h.indexOf(d)
}

func (h *PortAudioHost) indexOf(d *portaudio.DeviceInfo) (int, error) {
	for i, dev := range h.devices {
		if dev == d || dev.Name == d.Name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("device %q: %w", d.Name, ErrDeviceNotFound)
}

func (h *PortAudioHost) streamParameters(cfg StreamConfig) (portaudio.StreamParameters, error) {
	if cfg.Device < 0 || cfg.Device >= len(h.devices) {
		return portaudio.StreamParameters{}, fmt.Errorf("device index %d with %d devices present: %w",
			cfg.Device, len(h.devices), ErrDeviceOutOfRange)
	}
	dp := portaudio.StreamDeviceParameters{
		Device:   h.devices[cfg.Device],
		Channels: cfg.Format.Channels,
		Latency:  cfg.SuggestedLatency,
	}
	p := portaudio.StreamParameters{
		SampleRate:      cfg.Format.SampleRate,
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}
	if cfg.Direction == Capture {
		p.Input = dp
	} else {
		p.Output = dp
	}
	return p, nil
}

func (h *PortAudioHost) SupportsFormat(cfg StreamConfig) error {
	p, err := h.streamParameters(cfg)
	if err != nil {
		return err
	}
	adapter := newPaAdapter(cfg.Format)
	adapter.resize(64)
	if err := portaudio.IsFormatSupported(p, adapter.openArg()); err != nil {
		return fmt.Errorf("format %v@%v on device %d: %w (%v)",
			cfg.Format.SampleFormat, cfg.Format.SampleRate, cfg.Device, ErrFormatUnsupported, err)
	}
	return nil
}

func (h *PortAudioHost) OpenStream(cfg StreamConfig) (Stream, error) {
	if err := cfg.Format.Validate(); err != nil {
		return nil, err
	}
	p, err := h.streamParameters(cfg)
	if err != nil {
		return nil, err
	}
	adapter := newPaAdapter(cfg.Format)
	stream, err := portaudio.OpenStream(p, adapter.openArg())
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	return &paStream{
		s:          stream,
		cfg:        cfg,
		adapter:    adapter,
		sampleSize: cfg.Format.SampleFormat.Size(),
	}, nil
}

func (h *PortAudioHost) VersionText() string {
	return portaudio.VersionText()
}

func (h *PortAudioHost) Close() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminate portaudio: %w", err)
	}
	return nil
}

type paStream struct {
	s          *portaudio.Stream
	cfg        StreamConfig
	adapter    paAdapter
	sampleSize int
}

func (s *paStream) Start() error { return s.s.Start() }
func (s *paStream) Stop() error  { return s.s.Stop() }
func (s *paStream) Close() error { return s.s.Close() }

func (s *paStream) AvailableFrames() (int, error) {
	if s.cfg.Direction == Capture {
		return s.s.AvailableToRead()
	}
	return s.s.AvailableToWrite()
}

func (s *paStream) ReadFrames(buf FrameBuffer, frames int) (int, error) {
	s.adapter.resize(frames)
	err := s.s.Read()
	if err != nil && err != portaudio.InputOverflowed {
		return 0, fmt.Errorf("read stream: %w", err)
	}
	s.adapter.store(buf, frames)
	if err == portaudio.InputOverflowed {
		return frames, ErrOverflowed
	}
	return frames, nil
}

func (s *paStream) WriteFrames(buf FrameBuffer, frames int) (int, error) {
	s.adapter.resize(frames)
	s.adapter.load(buf, frames)
	err := s.s.Write()
	if err != nil && err != portaudio.OutputUnderflowed {
		return 0, fmt.Errorf("write stream: %w", err)
	}
	if err == portaudio.OutputUnderflowed {
		return frames, ErrUnderflowed
	}
	return frames, nil
}

func (s *paStream) SampleSize() int {
	return s.sampleSize
}

func (s *paStream) SampleRate() float64 {
	info := s.s.Info()
	if info == nil {
		return s.cfg.Format.SampleRate
	}
	return info.SampleRate
}

// paAdapter moves samples between raw FrameBuffer bytes and the typed
// slices the portaudio binding derives its sample format from.
type paAdapter interface {
	openArg() any
	resize(frames int)
	load(src FrameBuffer, frames int)
	store(dst FrameBuffer, frames int)
}

func newPaAdapter(f audio.Format) paAdapter {
	switch f.SampleFormat {
	case audio.Float32:
		return newPaBuffer[float32](f,
			func(dst []byte, v float32) { binary.LittleEndian.PutUint32(dst, math.Float32bits(v)) },
			func(src []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(src)) })
	case audio.Int32:
		return newPaBuffer[int32](f,
			func(dst []byte, v int32) { binary.LittleEndian.PutUint32(dst, uint32(v)) },
			func(src []byte) int32 { return int32(binary.LittleEndian.Uint32(src)) })
	case audio.Int16:
		return newPaBuffer[int16](f,
			func(dst []byte, v int16) { binary.LittleEndian.PutUint16(dst, uint16(v)) },
			func(src []byte) int16 { return int16(binary.LittleEndian.Uint16(src)) })
	case audio.Int8:
		return newPaBuffer[int8](f,
			func(dst []byte, v int8) { dst[0] = byte(v) },
			func(src []byte) int8 { return int8(src[0]) })
	case audio.Uint8:
		return newPaBuffer[uint8](f,
			func(dst []byte, v uint8) { dst[0] = v },
			func(src []byte) uint8 { return src[0] })
	}
	panic(fmt.Sprintf("driver: unknown sample format %v", f.SampleFormat))
}

type paBuffer[T any] struct {
	channels    int
	interleaved bool
	size        int
	enc         func(dst []byte, v T)
	dec         func(src []byte) T
	flat        []T
	planes      [][]T
}

func newPaBuffer[T any](f audio.Format, enc func([]byte, T), dec func([]byte) T) *paBuffer[T] {
	b := &paBuffer[T]{
		channels:    f.Channels,
		interleaved: f.ChannelMode == audio.Interleaved,
		size:        f.SampleFormat.Size(),
		enc:         enc,
		dec:         dec,
	}
	if !b.interleaved {
		b.planes = make([][]T, f.Channels)
	}
	return b
}

func (b *paBuffer[T]) openArg() any {
	if b.interleaved {
		return &b.flat
	}
	return &b.planes
}

func (b *paBuffer[T]) resize(frames int) {
	if b.interleaved {
		need := frames * b.channels
		if cap(b.flat) < need {
			b.flat = make([]T, need)
		}
		b.flat = b.flat[:need]
		return
	}
	for c := range b.planes {
		if cap(b.planes[c]) < frames {
			b.planes[c] = make([]T, frames)
		}
		b.planes[c] = b.planes[c][:frames]
	}
}

func (b *paBuffer[T]) load(src FrameBuffer, frames int) {
	if b.interleaved {
		for i := 0; i < frames*b.channels; i++ {
			b.flat[i] = b.dec(src.Interleaved[i*b.size:])
		}
		return
	}
	for c := range b.planes {
		for f := 0; f < frames; f++ {
			b.planes[c][f] = b.dec(src.Planes[c][f*b.size:])
		}
	}
}

func (b *paBuffer[T]) store(dst FrameBuffer, frames int) {
	if b.interleaved {
		for i := 0; i < frames*b.channels; i++ {
			b.enc(dst.Interleaved[i*b.size:], b.flat[i])
		}
		return
	}
	for c := range b.planes {
		for f := 0; f < frames; f++ {
			b.enc(dst.Planes[c][f*b.size:], b.planes[c][f])
		}
	}
}
