// ABOUTME: Audio source and sink dataflow blocks
// ABOUTME: Device resolution, stream setup and the per-invocation work loops
// Package blocks provides the audio endpoint blocks of a flow graph: a
// Source that captures frames from an audio device onto its output
// ports, and a Sink that plays frames from its input ports.
//
// Both blocks share the same construction pipeline: resolve the device
// name, suggest a latency from the device's defaults, verify the format
// is supported, open the stream and confirm the negotiated sample size.
// Any failure there aborts construction. At steady state overflow and
// underflow are conditions, not errors: they advance a backoff window
// during which the work loop yields without moving elements.
package blocks
