// ABOUTME: Block and WorkInfo definitions
// ABOUTME: The contract a runner drives and a block implements
package flow

import "time"

// WorkInfo carries per-invocation hints from the runner to a block.
type WorkInfo struct {
	// MinInElements is the smallest element count held across all
	// input ports. Zero when any input port is empty.
	MinInElements int

	// MinOutElements is the smallest free element count across all
	// output ports. Zero when any output port is full.
	MinOutElements int

	// MaxTimeout is how long the block may spend waiting inside a
	// single Work call before yielding back to the runner.
	MaxTimeout time.Duration
}

// Block is the unit of processing a Runner drives. Activate is called
// once before the first Work, Deactivate once after the last.
type Block interface {
	Activate() error
	Deactivate() error
	Work(info *WorkInfo)
}

// Worker is a Block that exposes its ports so a runner can compute
// WorkInfo and track progress.
type Worker interface {
	Block
	InputPorts() []*Input
	OutputPorts() []*Output
}

// Label is an out-of-band annotation attached to a stream position.
type Label struct {
	// ID names the label, e.g. "rxRate".
	ID string

	// Data is the label payload.
	Data any

	// Index is the element offset the label is associated with,
	// relative to the elements produced in the same Work call.
	Index int
}
