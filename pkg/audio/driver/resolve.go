// ABOUTME: Device name resolution
// ABOUTME: Maps empty, numeric or textual device names to device table indices
package driver

import (
	"fmt"
	"strconv"
)

// Resolve maps a user-supplied device name to an index into the host's
// device table. An empty name selects the default device for the stream
// direction. An all-digit name is taken as a device index and must be
// below the device count. Any other name must match a device name
// exactly.
func Resolve(h Host, dir Direction, name string) (int, error) {
	if name == "" {
		if dir == Playback {
			return h.DefaultOutputDevice()
		}
		return h.DefaultInputDevice()
	}

	devices, err := h.Devices()
	if err != nil {
		return 0, fmt.Errorf("enumerate devices: %w", err)
	}

	if allDigits(name) {
		index, err := strconv.Atoi(name)
		if err != nil {
			return 0, fmt.Errorf("parse device index %q: %w", name, err)
		}
		if index >= len(devices) {
			return 0, fmt.Errorf("device index %d with %d devices present: %w",
				index, len(devices), ErrDeviceOutOfRange)
		}
		return index, nil
	}

	for i, d := range devices {
		if d.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("device %q: %w", name, ErrDeviceNotFound)
}

// allDigits accepts ASCII digits only; anything else is a device name.
func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
