//go:build !portaudio

// ABOUTME: PortAudio stub when the system library is not available
// ABOUTME: Keeps the backend selectable without the portaudio build tag
package driver

import (
	"fmt"
	"log/slog"
)

func newPortAudioHost(_ *slog.Logger) (Host, error) {
	return nil, fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}
