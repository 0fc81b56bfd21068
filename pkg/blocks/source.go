// ABOUTME: Audio source block
// ABOUTME: Captures device frames onto output ports with overflow backoff
package blocks

import (
	"errors"
	"fmt"

	"github.com/FlowAudio/flowaudio-go/pkg/audio"
	"github.com/FlowAudio/flowaudio-go/pkg/audio/driver"
	"github.com/FlowAudio/flowaudio-go/pkg/flow"
)

// RateLabelID is the label posted once per activation on every source
// output, carrying the negotiated sample rate as a float64.
const RateLabelID = "rxRate"

// Source captures audio frames from a device and produces them on its
// output ports. Interleaved mode exposes one port whose elements are
// whole frames; port-per-channel mode exposes one port per channel
// whose elements are single samples.
type Source struct {
	*block
	outs      []*flow.Output
	sendLabel bool
}

// NewSource opens a capture stream per cfg and builds the port
// topology. Construction failures are fatal; there is no partially
// usable source.
func NewSource(cfg Config) (*Source, error) {
	b, err := openBlock(cfg, driver.Capture, "audio_source")
	if err != nil {
		return nil, err
	}

	s := &Source{block: b}
	if b.format.ChannelMode == audio.Interleaved {
		s.outs = []*flow.Output{flow.NewOutput("0", b.format.FrameBytes(), portCapacityFrames)}
	} else {
		size := b.format.SampleFormat.Size()
		for i := 0; i < b.format.Channels; i++ {
			s.outs = append(s.outs, flow.NewOutput(fmt.Sprintf("%d", i), size, portCapacityFrames))
		}
	}
	return s, nil
}

// Activate starts the stream, resets the backoff window and arms the
// one-shot rate label.
func (s *Source) Activate() error {
	if err := s.activate(); err != nil {
		return err
	}
	s.sendLabel = true
	return nil
}

// Outputs returns the source's output ports in channel order.
func (s *Source) Outputs() []*flow.Output { return s.outs }

// InputPorts implements flow.Worker; a source has none.
func (s *Source) InputPorts() []*flow.Input { return nil }

// OutputPorts implements flow.Worker.
func (s *Source) OutputPorts() []*flow.Output { return s.outs }

// Work reads one batch of frames from the device. With no output space
// it does nothing. Zero reported availability forces a minimum frame
// count so the read blocks in the device instead of spinning. Overflow
// advances the backoff window; while inside it the call yields without
// producing.
func (s *Source) Work(info *flow.WorkInfo) {
	if info.MinOutElements == 0 {
		return
	}

	frames, err := s.stream.AvailableFrames()
	if err != nil {
		s.logger.Error("query read availability failed", "error", err)
		return
	}
	if frames == 0 {
		frames = minBlockingFrames
	}
	if frames > info.MinOutElements {
		frames = info.MinOutElements
	}

	n, err := s.stream.ReadFrames(s.gather(frames), frames)
	switch {
	case errors.Is(err, driver.ErrOverflowed):
		s.xrun("aO", "audio source overflow")
	case err != nil:
		s.logger.Error("read stream failed", "error", err)
	}

	if s.sendLabel {
		s.sendLabel = false
		rate := s.stream.SampleRate()
		for _, p := range s.outs {
			p.PostLabel(flow.Label{ID: RateLabelID, Data: rate, Index: 0})
		}
	}

	if s.suspended() {
		return
	}
	for _, p := range s.outs {
		p.Produce(n)
	}
}

// gather builds the frame buffer over the output ports' writable
// regions for up to frames frames.
func (s *Source) gather(frames int) driver.FrameBuffer {
	if s.format.ChannelMode == audio.Interleaved {
		return driver.FrameBuffer{Interleaved: s.outs[0].Bytes()[:frames*s.format.FrameBytes()]}
	}
	size := s.format.SampleFormat.Size()
	planes := make([][]byte, len(s.outs))
	for i, p := range s.outs {
		planes[i] = p.Bytes()[:frames*size]
	}
	return driver.FrameBuffer{Planes: planes}
}
