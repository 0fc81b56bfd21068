// ABOUTME: Sink work loop tests
// ABOUTME: Clamping, underflow backoff, retry-without-consume semantics
package blocks

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/FlowAudio/flowaudio-go/internal/drivertest"
	"github.com/FlowAudio/flowaudio-go/pkg/audio"
	"github.com/FlowAudio/flowaudio-go/pkg/audio/driver"
	"github.com/FlowAudio/flowaudio-go/pkg/flow"
)

func newTestSink(t *testing.T, h *drivertest.Host, mutate func(*Config)) *Sink {
	t.Helper()
	cfg := sourceConfig(h)
	if mutate != nil {
		mutate(&cfg)
	}
	snk, err := NewSink(cfg)
	if err != nil {
		t.Fatalf("NewSink() error: %v", err)
	}
	t.Cleanup(func() { snk.Close() })
	return snk
}

func (s *Sink) workOnce() {
	info := flow.WorkInfo{MaxTimeout: time.Millisecond}
	for i, p := range s.ins {
		if n := p.Elements(); i == 0 || n < info.MinInElements {
			info.MinInElements = n
		}
	}
	s.Work(&info)
}

// feedFrames pushes n silent frames into every sink input.
func feedFrames(s *Sink, n int) {
	for _, p := range s.ins {
		p.Push(make([]byte, n*p.ElemSize()))
	}
}

func TestSinkNoInputDoesNothing(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{}
	snk := newTestSink(t, h, nil)

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	snk.workOnce()
	if len(h.Stream.Writes) != 0 {
		t.Fatal("sink must not touch the stream with no input")
	}
}

func TestSinkWritesAndConsumes(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{Avail: []int{1 << 20}}
	snk := newTestSink(t, h, nil)

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	feedFrames(snk, 40)
	snk.workOnce()

	if len(h.Stream.Writes) != 1 || h.Stream.Writes[0] != 40 {
		t.Fatalf("writes = %v, want one write of 40 frames", h.Stream.Writes)
	}
	if got := snk.Inputs()[0].TotalConsumed(); got != 40 {
		t.Fatalf("consumed %d frames, want 40", got)
	}
}

func TestSinkClampsToWriteCapacity(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{Avail: []int{25}}
	snk := newTestSink(t, h, nil)

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	feedFrames(snk, 200)
	snk.workOnce()

	if len(h.Stream.Writes) != 1 || h.Stream.Writes[0] != 25 {
		t.Fatalf("writes = %v, want one write of 25 frames", h.Stream.Writes)
	}
	if got := snk.Inputs()[0].Elements(); got != 175 {
		t.Fatalf("input holds %d frames after clamped write, want 175", got)
	}
}

func TestSinkZeroCapacityForcesMinimum(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{Avail: []int{0}}
	snk := newTestSink(t, h, nil)

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	feedFrames(snk, 200)
	snk.workOnce()

	if len(h.Stream.Writes) != 1 || h.Stream.Writes[0] != minBlockingFrames {
		t.Fatalf("writes = %v, want one write of %d frames", h.Stream.Writes, minBlockingFrames)
	}
}

func TestSinkUnderflowBackoffRetainsInput(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{
		Avail:  []int{50},
		IOErrs: []error{driver.ErrUnderflowed},
	}
	snk := newTestSink(t, h, func(c *Config) {
		c.Backoff = 60 * time.Millisecond
		c.ReportMode = ReportDisabled
	})

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	before := snk.readyTime
	feedFrames(snk, 50)
	snk.workOnce()

	if got := snk.readyTime.Sub(before); got != 60*time.Millisecond {
		t.Fatalf("ready time advanced by %v, want exactly 60ms", got)
	}
	if got := snk.Inputs()[0].TotalConsumed(); got != 0 {
		t.Fatalf("consumed %d frames during backoff, want 0", got)
	}
	// The unconsumed frames stay queued for retry.
	if got := snk.Inputs()[0].Elements(); got != 50 {
		t.Fatalf("input holds %d frames, want all 50 retained", got)
	}

	snk.readyTime = time.Now().Add(-time.Millisecond)
	snk.workOnce()
	if got := snk.Inputs()[0].TotalConsumed(); got != 50 {
		t.Fatalf("consumed %d frames after backoff, want 50", got)
	}
}

func TestSinkUnderflowStderrMarker(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{
		Avail:  []int{50},
		IOErrs: []error{driver.ErrUnderflowed, driver.ErrUnderflowed},
	}
	snk := newTestSink(t, h, nil)
	var errBuf bytes.Buffer
	snk.stderr = &errBuf

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	feedFrames(snk, 100)
	snk.workOnce()
	snk.workOnce()

	if got := errBuf.String(); got != "aUaU" {
		t.Fatalf("stderr markers = %q, want \"aUaU\"", got)
	}
}

func TestSinkPortPerChannelGathersAllPlanes(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{Avail: []int{16}}
	snk := newTestSink(t, h, func(c *Config) { c.ChannelMode = audio.PortPerChannel })

	if got := len(snk.Inputs()); got != 2 {
		t.Fatalf("got %d input ports, want 2", got)
	}

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	feedFrames(snk, 16)
	snk.workOnce()

	for i, p := range snk.Inputs() {
		if got := p.TotalConsumed(); got != 16 {
			t.Fatalf("port %d consumed %d samples, want 16", i, got)
		}
	}
}

func TestSinkHardWriteErrorAlwaysLogged(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{
		Avail:  []int{10},
		IOErrs: []error{driver.ErrStreamClosed},
	}
	var logBuf bytes.Buffer
	snk := newTestSink(t, h, func(c *Config) {
		c.ReportMode = ReportDisabled
		c.Logger = slog.New(slog.NewTextHandler(&logBuf, nil))
	})

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	feedFrames(snk, 10)
	snk.workOnce()

	if !strings.Contains(logBuf.String(), "write stream failed") {
		t.Fatalf("hard error not logged, log = %q", logBuf.String())
	}
	if got := snk.Inputs()[0].TotalConsumed(); got != 0 {
		t.Fatalf("consumed %d frames from a failed write, want 0", got)
	}
}

func TestSinkDeactivateStopsStreamKeepsBackoff(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Stream = &drivertest.Stream{
		Avail:  []int{10},
		IOErrs: []error{driver.ErrUnderflowed},
	}
	snk := newTestSink(t, h, func(c *Config) {
		c.Backoff = time.Hour
		c.ReportMode = ReportDisabled
	})

	if err := snk.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	feedFrames(snk, 10)
	snk.workOnce()
	ready := snk.readyTime

	if err := snk.Deactivate(); err != nil {
		t.Fatalf("Deactivate() error: %v", err)
	}
	if h.Stream.Stops != 1 {
		t.Fatalf("stream stopped %d times, want 1", h.Stream.Stops)
	}
	if !snk.readyTime.Equal(ready) {
		t.Fatal("deactivation must not reset the backoff window")
	}
}
