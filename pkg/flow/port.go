// ABOUTME: Input and Output ports over byte rings
// ABOUTME: Fixed element size, peek/consume and produce semantics
package flow

import (
	"fmt"

	"github.com/FlowAudio/flowaudio-go/internal/ringbuf"
)

// Input is a port a block reads elements from. Each port carries
// fixed-size elements; partial elements never become visible.
type Input struct {
	name     string
	elemSize int
	ring     *ringbuf.Ring
	slab     []byte
	consumed uint64
}

// NewInput creates an input port holding up to capacity elements of
// elemSize bytes each. The port owns its ring until Connect replaces
// it with an upstream output's ring.
func NewInput(name string, elemSize, capacity int) *Input {
	if elemSize <= 0 || capacity <= 0 {
		panic(fmt.Sprintf("flow: invalid input port %q: elemSize=%d capacity=%d", name, elemSize, capacity))
	}
	return &Input{
		name:     name,
		elemSize: elemSize,
		ring:     ringbuf.New(elemSize * capacity),
		slab:     make([]byte, elemSize*capacity),
	}
}

// Name returns the port name.
func (p *Input) Name() string { return p.name }

// ElemSize returns the element size in bytes.
func (p *Input) ElemSize() int { return p.elemSize }

// Elements reports how many whole elements are ready to read.
func (p *Input) Elements() int {
	return p.ring.Buffered() / p.elemSize
}

// Bytes returns a view of the buffered elements without consuming
// them. The view is valid until the next Consume or Push on this port.
func (p *Input) Bytes() []byte {
	n := p.ring.Peek(p.slab)
	n -= n % p.elemSize
	return p.slab[:n]
}

// Consume removes n elements from the port.
func (p *Input) Consume(n int) {
	if n <= 0 {
		return
	}
	p.ring.Discard(n * p.elemSize)
	p.consumed += uint64(n)
}

// TotalConsumed reports the lifetime element count consumed.
func (p *Input) TotalConsumed() uint64 { return p.consumed }

// Push feeds bytes into the port from outside a graph. It is the
// hook tests and adapters use when no upstream output is connected.
// It returns the number of bytes accepted.
func (p *Input) Push(b []byte) int {
	return p.ring.Write(b)
}

// Output is a port a block writes elements to.
type Output struct {
	name     string
	elemSize int
	ring     *ringbuf.Ring
	slab     []byte
	produced uint64
	labels   []Label
}

// NewOutput creates an output port holding up to capacity elements of
// elemSize bytes each.
func NewOutput(name string, elemSize, capacity int) *Output {
	if elemSize <= 0 || capacity <= 0 {
		panic(fmt.Sprintf("flow: invalid output port %q: elemSize=%d capacity=%d", name, elemSize, capacity))
	}
	return &Output{
		name:     name,
		elemSize: elemSize,
		ring:     ringbuf.New(elemSize * capacity),
		slab:     make([]byte, elemSize*capacity),
	}
}

// Name returns the port name.
func (p *Output) Name() string { return p.name }

// ElemSize returns the element size in bytes.
func (p *Output) ElemSize() int { return p.elemSize }

// Free reports how many whole elements fit before the port is full.
func (p *Output) Free() int {
	return p.ring.Free() / p.elemSize
}

// Bytes returns the writable scratch region for up to Free() elements.
// Fill it, then call Produce to publish.
func (p *Output) Bytes() []byte {
	n := p.Free() * p.elemSize
	return p.slab[:n]
}

// Produce publishes the first n elements previously written into
// Bytes. Elements beyond the free space are dropped.
func (p *Output) Produce(n int) {
	if n <= 0 {
		return
	}
	p.ring.Write(p.slab[:n*p.elemSize])
	p.produced += uint64(n)
}

// TotalProduced reports the lifetime element count produced.
func (p *Output) TotalProduced() uint64 { return p.produced }

// PostLabel attaches a label to the stream at the given element offset
// within the next produced batch.
func (p *Output) PostLabel(l Label) {
	p.labels = append(p.labels, l)
}

// TakeLabels returns all pending labels and clears them.
func (p *Output) TakeLabels() []Label {
	out := p.labels
	p.labels = nil
	return out
}

// Pull drains up to len(b) buffered bytes from the port into b. It is
// the hook tests and adapters use when no downstream input is
// connected. It returns the number of bytes copied.
func (p *Output) Pull(b []byte) int {
	return p.ring.Read(b)
}

// Connect wires an output port to an input port. Both must carry the
// same element size. After connecting, elements produced on out become
// readable on in.
func Connect(out *Output, in *Input) error {
	if out.elemSize != in.elemSize {
		return fmt.Errorf("flow: cannot connect %q (%d byte elements) to %q (%d byte elements)",
			out.name, out.elemSize, in.name, in.elemSize)
	}
	in.ring = out.ring
	if len(in.slab) < len(out.slab) {
		in.slab = make([]byte, len(out.slab))
	}
	return nil
}
