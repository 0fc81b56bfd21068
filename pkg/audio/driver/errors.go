// ABOUTME: Sentinel errors for the driver facade
// ABOUTME: Distinguishes fatal configuration failures from transient stream conditions
package driver

import "errors"

var (
	// ErrDeviceOutOfRange reports a numeric device name past the device table.
	ErrDeviceOutOfRange = errors.New("device index out of range")

	// ErrDeviceNotFound reports a textual device name with no exact match.
	ErrDeviceNotFound = errors.New("no matching device")

	// ErrFormatUnsupported reports a sample format the backend cannot open.
	ErrFormatUnsupported = errors.New("sample format not supported")

	// ErrCaptureUnsupported reports a capture request on a playback-only backend.
	ErrCaptureUnsupported = errors.New("backend does not support capture")

	// ErrOverflowed reports that the device dropped captured frames because
	// the process did not read fast enough. The stream stays usable.
	ErrOverflowed = errors.New("input overflowed")

	// ErrUnderflowed reports that the device ran out of playback frames
	// because the process did not write fast enough. The stream stays usable.
	ErrUnderflowed = errors.New("output underflowed")

	// ErrStreamClosed reports I/O on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)
