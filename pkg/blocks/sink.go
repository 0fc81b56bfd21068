// ABOUTME: Audio sink block
// ABOUTME: Plays input port frames to a device with underflow backoff
package blocks

import (
	"errors"
	"fmt"

	"github.com/FlowAudio/flowaudio-go/pkg/audio"
	"github.com/FlowAudio/flowaudio-go/pkg/audio/driver"
	"github.com/FlowAudio/flowaudio-go/pkg/flow"
)

// Sink consumes audio frames from its input ports and plays them on a
// device. Port topology mirrors Source: one frame-element port when
// interleaved, one sample-element port per channel otherwise.
type Sink struct {
	*block
	ins []*flow.Input
}

// NewSink opens a playback stream per cfg and builds the port
// topology. Construction failures are fatal.
func NewSink(cfg Config) (*Sink, error) {
	b, err := openBlock(cfg, driver.Playback, "audio_sink")
	if err != nil {
		return nil, err
	}

	s := &Sink{block: b}
	if b.format.ChannelMode == audio.Interleaved {
		s.ins = []*flow.Input{flow.NewInput("0", b.format.FrameBytes(), portCapacityFrames)}
	} else {
		size := b.format.SampleFormat.Size()
		for i := 0; i < b.format.Channels; i++ {
			s.ins = append(s.ins, flow.NewInput(fmt.Sprintf("%d", i), size, portCapacityFrames))
		}
	}
	return s, nil
}

// Activate starts the stream and resets the backoff window.
func (s *Sink) Activate() error {
	return s.activate()
}

// Inputs returns the sink's input ports in channel order.
func (s *Sink) Inputs() []*flow.Input { return s.ins }

// InputPorts implements flow.Worker.
func (s *Sink) InputPorts() []*flow.Input { return s.ins }

// OutputPorts implements flow.Worker; a sink has none.
func (s *Sink) OutputPorts() []*flow.Output { return nil }

// Work writes one batch of frames to the device. With no input it does
// nothing. Zero reported capacity forces a minimum frame count so the
// write blocks in the device instead of spinning. Underflow advances
// the backoff window; while inside it the call yields without
// consuming, so the same frames are retried next invocation.
func (s *Sink) Work(info *flow.WorkInfo) {
	if info.MinInElements == 0 {
		return
	}

	frames, err := s.stream.AvailableFrames()
	if err != nil {
		s.logger.Error("query write availability failed", "error", err)
		return
	}
	if frames == 0 {
		frames = minBlockingFrames
	}
	if frames > info.MinInElements {
		frames = info.MinInElements
	}

	n, err := s.stream.WriteFrames(s.gather(frames), frames)
	switch {
	case errors.Is(err, driver.ErrUnderflowed):
		s.xrun("aU", "audio sink underflow")
	case err != nil:
		s.logger.Error("write stream failed", "error", err)
	}

	if s.suspended() {
		return
	}
	for _, p := range s.ins {
		p.Consume(n)
	}
}

// gather builds the frame buffer over the input ports' buffered bytes
// for exactly frames frames.
func (s *Sink) gather(frames int) driver.FrameBuffer {
	if s.format.ChannelMode == audio.Interleaved {
		return driver.FrameBuffer{Interleaved: s.ins[0].Bytes()[:frames*s.format.FrameBytes()]}
	}
	size := s.format.SampleFormat.Size()
	planes := make([][]byte, len(s.ins))
	for i, p := range s.ins {
		planes[i] = p.Bytes()[:frames*size]
	}
	return driver.FrameBuffer{Planes: planes}
}
