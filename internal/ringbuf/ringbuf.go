// ABOUTME: Thread-safe circular byte buffer
// ABOUTME: Shared by the driver backends and the dataflow ports
package ringbuf

import "sync"

// Ring is a thread-safe circular buffer of bytes. A zero Ring is not
// usable; create one with New.
type Ring struct {
	mu      sync.Mutex
	buf     []byte
	readPos int
	wrtPos  int
	count   int
}

// New creates a ring with the given capacity in bytes.
func New(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// Write copies as much of p as fits and returns the number of bytes written.
func (r *Ring) Write(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for written < len(p) && r.count < len(r.buf) {
		// contiguous free region: wrtPos up to readPos, or to the end of buf
		end := len(r.buf)
		if r.readPos > r.wrtPos {
			end = r.readPos
		}
		n := copy(r.buf[r.wrtPos:end], p[written:])
		if n == 0 {
			break
		}
		written += n
		r.wrtPos = (r.wrtPos + n) % len(r.buf)
		r.count += n
	}
	return written
}

// Read copies up to len(p) buffered bytes into p and returns the count.
// It does not zero-fill the remainder.
func (r *Ring) Read(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	read := 0
	for read < len(p) && r.count > 0 {
		end := r.wrtPos
		if end <= r.readPos {
			end = len(r.buf)
		}
		n := copy(p[read:], r.buf[r.readPos:end])
		if n == 0 {
			break
		}
		read += n
		r.readPos = (r.readPos + n) % len(r.buf)
		r.count -= n
	}
	return read
}

// Peek copies up to len(p) buffered bytes into p without consuming them.
func (r *Ring) Peek(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	read := 0
	pos := r.readPos
	remaining := r.count
	for read < len(p) && remaining > 0 {
		end := r.wrtPos
		if end <= pos {
			end = len(r.buf)
		}
		limit := end
		if limit-pos > remaining {
			limit = pos + remaining
		}
		n := copy(p[read:], r.buf[pos:limit])
		read += n
		pos = (pos + n) % len(r.buf)
		remaining -= n
	}
	return read
}

// Discard drops up to n buffered bytes and returns the number dropped.
func (r *Ring) Discard(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > r.count {
		n = r.count
	}
	r.readPos = (r.readPos + n) % len(r.buf)
	r.count -= n
	return n
}

// Buffered returns the number of bytes available to read.
func (r *Ring) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Free returns the total number of bytes that can still be written.
func (r *Ring) Free() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf) - r.count
}

// Cap returns the total capacity in bytes.
func (r *Ring) Cap() int {
	return len(r.buf)
}
