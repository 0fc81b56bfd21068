// ABOUTME: Minimal dataflow host contract
// ABOUTME: Blocks, byte-ring ports, labels and a cooperative runner
// Package flow provides the dataflow contract that blocks are written
// against: ports that move fixed-size elements, stream labels, and a
// cooperative single-threaded runner that drives a block's work loop.
//
// A block never blocks indefinitely inside Work. It reads what its input
// ports hold, writes what its output ports can take, and returns; the
// runner paces re-invocation when a block makes no progress.
package flow
