// ABOUTME: Sentinel errors for block construction failures
// ABOUTME: All are fatal at construction time
package blocks

import "errors"

var (
	// ErrSampleSizeMismatch means the backend silently substituted a
	// different sample format: the negotiated sample size does not
	// match the requested format's byte width.
	ErrSampleSizeMismatch = errors.New("negotiated sample size does not match requested format")

	// ErrNegativeBackoff rejects a negative backoff duration.
	ErrNegativeBackoff = errors.New("backoff time must be non-negative")
)
