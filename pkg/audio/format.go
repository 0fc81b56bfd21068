// ABOUTME: Stream format definitions
// ABOUTME: Closed enums for sample formats and channel modes plus the Format value
package audio

import (
	"fmt"
	"strings"
)

// SampleFormat identifies one of the five fixed-width sample kinds a
// stream can carry. The set is closed: code switching over it must
// handle every constant and treat anything else as a programming error.
type SampleFormat int

const (
	Float32 SampleFormat = iota
	Int32
	Int16
	Int8
	Uint8
)

// Size returns the byte width of one sample.
func (f SampleFormat) Size() int {
	switch f {
	case Float32, Int32:
		return 4
	case Int16:
		return 2
	case Int8, Uint8:
		return 1
	}
	panic(fmt.Sprintf("audio: unknown sample format %d", int(f)))
}

func (f SampleFormat) String() string {
	switch f {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Int16:
		return "int16"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// ParseSampleFormat maps a format name ("float32", "int16", ...) to its
// SampleFormat. Matching is case-insensitive.
func ParseSampleFormat(name string) (SampleFormat, error) {
	switch strings.ToLower(name) {
	case "float32":
		return Float32, nil
	case "int32":
		return Int32, nil
	case "int16":
		return Int16, nil
	case "int8":
		return Int8, nil
	case "uint8":
		return Uint8, nil
	}
	return 0, fmt.Errorf("unknown sample format %q", name)
}

// ChannelMode controls both the port topology of a block and the buffer
// gathering strategy of its work loop. It is resolved once at
// construction and never re-checked per call.
type ChannelMode int

const (
	// Interleaved packs the samples of all channels sequentially in one buffer.
	Interleaved ChannelMode = iota
	// PortPerChannel delivers each channel through its own dataflow port.
	PortPerChannel
)

func (m ChannelMode) String() string {
	switch m {
	case Interleaved:
		return "INTERLEAVED"
	case PortPerChannel:
		return "PORTPERCHAN"
	}
	return fmt.Sprintf("ChannelMode(%d)", int(m))
}

// ParseChannelMode maps a mode name ("INTERLEAVED" or "PORTPERCHAN") to
// its ChannelMode. Matching is case-insensitive.
func ParseChannelMode(name string) (ChannelMode, error) {
	switch strings.ToUpper(name) {
	case "INTERLEAVED":
		return Interleaved, nil
	case "PORTPERCHAN":
		return PortPerChannel, nil
	}
	return 0, fmt.Errorf("unknown channel mode %q", name)
}

// Format describes a complete stream format. It is immutable once a
// stream has been opened with it.
type Format struct {
	SampleFormat SampleFormat
	SampleRate   float64
	Channels     int
	ChannelMode  ChannelMode
}

// FrameBytes returns the number of bytes one frame occupies across all
// channels.
func (f Format) FrameBytes() int {
	return f.SampleFormat.Size() * f.Channels
}

// Validate reports whether the format is usable for opening a stream.
func (f Format) Validate() error {
	if f.Channels < 1 {
		return fmt.Errorf("channel count %d: must be positive", f.Channels)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate %v: must be positive", f.SampleRate)
	}
	return nil
}
