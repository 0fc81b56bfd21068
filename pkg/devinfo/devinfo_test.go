// ABOUTME: Tests for device report collection and rendering
// ABOUTME: Uses the scriptable fake driver host
package devinfo_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/FlowAudio/flowaudio-go/internal/drivertest"
	"github.com/FlowAudio/flowaudio-go/pkg/devinfo"
)

func TestCollect(t *testing.T) {
	h := drivertest.NewDuplexHost()
	report, err := devinfo.Collect(h)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	if report.Version != "fake audio library 1.0" {
		t.Fatalf("Version = %q", report.Version)
	}
	if len(report.Devices) != 3 {
		t.Fatalf("got %d devices, want 3", len(report.Devices))
	}

	duplex := report.Devices[0]
	if duplex.Name != "Fake Duplex" || duplex.MaxInputChannels != 2 || duplex.MaxOutputChannels != 2 {
		t.Fatalf("unexpected duplex device: %+v", duplex)
	}
	if !duplex.DefaultInput || !duplex.DefaultOutput {
		t.Fatalf("device 0 should be both defaults: %+v", duplex)
	}
	if report.Devices[1].DefaultInput || report.Devices[2].DefaultOutput {
		t.Fatal("non-default devices flagged as defaults")
	}
}

func TestCollectEnumerationError(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.DevicesErr = errors.New("backend gone")
	if _, err := devinfo.Collect(h); err == nil {
		t.Fatal("Collect() should propagate enumeration failure")
	}
}

func TestReportJSON(t *testing.T) {
	h := drivertest.NewDuplexHost()
	report, err := devinfo.Collect(h)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	data, err := report.JSON()
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var decoded devinfo.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round-trip decode: %v", err)
	}
	if len(decoded.Devices) != 3 {
		t.Fatalf("decoded %d devices, want 3", len(decoded.Devices))
	}
}

func TestReportYAML(t *testing.T) {
	h := drivertest.NewDuplexHost()
	report, err := devinfo.Collect(h)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	data, err := report.YAML()
	if err != nil {
		t.Fatalf("YAML() error: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Fake Microphone") {
		t.Fatalf("YAML output missing device name:\n%s", text)
	}
	if !strings.Contains(text, "defaultSampleRate: 48000") {
		t.Fatalf("YAML output missing sample rate:\n%s", text)
	}
}
