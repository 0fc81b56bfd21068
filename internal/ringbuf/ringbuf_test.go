// ABOUTME: Tests for the circular byte buffer
// ABOUTME: Covers wraparound, partial writes, peek and discard
package ringbuf

import (
	"bytes"
	"testing"
)

func TestWriteRead(t *testing.T) {
	r := New(8)

	n := r.Write([]byte{1, 2, 3, 4})
	if n != 4 {
		t.Fatalf("expected 4 written, got %d", n)
	}
	if r.Buffered() != 4 {
		t.Errorf("expected 4 buffered, got %d", r.Buffered())
	}
	if r.Free() != 4 {
		t.Errorf("expected 4 free, got %d", r.Free())
	}

	out := make([]byte, 4)
	n = r.Read(out)
	if n != 4 {
		t.Fatalf("expected 4 read, got %d", n)
	}
	if !bytes.Equal(out, []byte{1, 2, 3, 4}) {
		t.Errorf("expected 1 2 3 4, got %v", out)
	}
	if r.Buffered() != 0 {
		t.Errorf("expected empty ring, got %d buffered", r.Buffered())
	}
}

func TestWriteFullRing(t *testing.T) {
	r := New(4)

	n := r.Write([]byte{1, 2, 3, 4, 5, 6})
	if n != 4 {
		t.Fatalf("expected 4 written into full ring, got %d", n)
	}
	if r.Free() != 0 {
		t.Errorf("expected 0 free, got %d", r.Free())
	}

	// Further writes must not clobber buffered data
	if n := r.Write([]byte{9}); n != 0 {
		t.Errorf("expected 0 written to full ring, got %d", n)
	}

	out := make([]byte, 4)
	r.Read(out)
	if !bytes.Equal(out, []byte{1, 2, 3, 4}) {
		t.Errorf("expected 1 2 3 4, got %v", out)
	}
}

func TestWraparound(t *testing.T) {
	r := New(4)

	r.Write([]byte{1, 2, 3})
	out := make([]byte, 2)
	r.Read(out)

	// Write wraps past the end of the backing slice
	n := r.Write([]byte{4, 5, 6})
	if n != 3 {
		t.Fatalf("expected 3 written, got %d", n)
	}

	got := make([]byte, 4)
	n = r.Read(got)
	if n != 4 {
		t.Fatalf("expected 4 read, got %d", n)
	}
	if !bytes.Equal(got, []byte{3, 4, 5, 6}) {
		t.Errorf("expected 3 4 5 6, got %v", got)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	r := New(8)
	r.Write([]byte{1, 2, 3})

	p := make([]byte, 3)
	if n := r.Peek(p); n != 3 {
		t.Fatalf("expected 3 peeked, got %d", n)
	}
	if !bytes.Equal(p, []byte{1, 2, 3}) {
		t.Errorf("expected 1 2 3, got %v", p)
	}
	if r.Buffered() != 3 {
		t.Errorf("peek consumed data: %d buffered", r.Buffered())
	}
}

func TestPeekAfterWraparound(t *testing.T) {
	r := New(4)
	r.Write([]byte{1, 2, 3, 4})
	r.Discard(3)
	r.Write([]byte{5, 6})

	p := make([]byte, 3)
	if n := r.Peek(p); n != 3 {
		t.Fatalf("expected 3 peeked, got %d", n)
	}
	if !bytes.Equal(p, []byte{4, 5, 6}) {
		t.Errorf("expected 4 5 6, got %v", p)
	}
}

func TestDiscard(t *testing.T) {
	r := New(8)
	r.Write([]byte{1, 2, 3, 4})

	if n := r.Discard(2); n != 2 {
		t.Fatalf("expected 2 discarded, got %d", n)
	}

	out := make([]byte, 2)
	r.Read(out)
	if !bytes.Equal(out, []byte{3, 4}) {
		t.Errorf("expected 3 4, got %v", out)
	}

	// Discard beyond buffered clamps
	r.Write([]byte{1})
	if n := r.Discard(10); n != 1 {
		t.Errorf("expected 1 discarded, got %d", n)
	}
}
