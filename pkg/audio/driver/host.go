// ABOUTME: Backend selection
// ABOUTME: Maps a backend name to a Host constructor
package driver

import (
	"fmt"
	"log/slog"
	"strings"
)

// NewHost creates a Host by backend name. An empty name selects the
// default backend (miniaudio).
func NewHost(backend string, logger *slog.Logger) (Host, error) {
	switch strings.ToLower(backend) {
	case "", "malgo", "miniaudio":
		return NewMalgoHost(logger)
	case "oto":
		return NewOtoHost(logger)
	case "portaudio":
		return newPortAudioHost(logger)
	}
	return nil, fmt.Errorf("unknown audio backend %q", backend)
}
