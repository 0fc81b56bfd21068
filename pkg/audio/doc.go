// ABOUTME: Audio fundamentals package providing core format types
// ABOUTME: Defines SampleFormat, ChannelMode and Format used across the library
// Package audio provides the fundamental format types for the flowaudio library.
//
// This package defines core types used throughout flowaudio:
//   - SampleFormat: One of the five fixed-width sample kinds a stream can carry
//   - ChannelMode: Interleaved channels in one buffer, or one buffer per channel
//   - Format: A complete stream format (sample format, rate, channels, mode)
//
// Example:
//
//	format := audio.Format{
//	    SampleFormat: audio.Float32,
//	    SampleRate:   48000,
//	    Channels:     2,
//	    ChannelMode:  audio.Interleaved,
//	}
//
//	frameBytes := format.FrameBytes() // 8
package audio
