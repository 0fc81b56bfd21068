// ABOUTME: Native audio library facade
// ABOUTME: Host/Stream interfaces with malgo, oto and PortAudio backends
// Package driver wraps native cross-platform audio I/O libraries behind a
// small Host/Stream facade.
//
// A Host owns the native library lifetime (acquired on construction,
// released by Close), enumerates devices and opens streams. A Stream moves
// raw frames between the process and one device in one direction.
//
// Three backends are provided:
//   - malgo (miniaudio): the default, full capture and playback
//   - oto: playback only, used where miniaudio is unavailable
//   - PortAudio: behind the "portaudio" build tag, requires the system library
package driver
