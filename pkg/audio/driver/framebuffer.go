// ABOUTME: Raw frame buffer shared between blocks and backends
// ABOUTME: One interleaved slab or one plane per channel, plus gather helpers
package driver

// FrameBuffer is the raw storage a stream reads into or writes from.
// Exactly one representation is populated, fixed by the stream's channel
// mode: Interleaved holds all channels packed frame by frame, Planes
// holds one byte slice per channel.
type FrameBuffer struct {
	Interleaved []byte
	Planes      [][]byte
}

// IsInterleaved reports which representation is populated.
func (b FrameBuffer) IsInterleaved() bool {
	return b.Planes == nil
}

// interleaveInto packs frames from per-channel planes into dst.
func interleaveInto(dst []byte, planes [][]byte, frames, sampleSize int) {
	channels := len(planes)
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			copy(dst[(f*channels+c)*sampleSize:], planes[c][f*sampleSize:(f+1)*sampleSize])
		}
	}
}

// deinterleaveInto spreads frames from a packed src into per-channel planes.
func deinterleaveInto(planes [][]byte, src []byte, frames, sampleSize int) {
	channels := len(planes)
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			copy(planes[c][f*sampleSize:], src[(f*channels+c)*sampleSize:(f*channels+c+1)*sampleSize])
		}
	}
}
