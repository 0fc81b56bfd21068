// ABOUTME: Tests for device name resolution
// ABOUTME: Covers default, numeric and textual names against a fake device table
package driver_test

import (
	"errors"
	"testing"

	"github.com/FlowAudio/flowaudio-go/internal/drivertest"
	"github.com/FlowAudio/flowaudio-go/pkg/audio/driver"
)

func TestResolveEmptyNameUsesDirectionDefault(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.DefaultIn = 1
	h.DefaultOut = 2

	got, err := driver.Resolve(h, driver.Capture, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("expected capture default 1, got %d", got)
	}

	got, err = driver.Resolve(h, driver.Playback, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("expected playback default 2, got %d", got)
	}
}

func TestResolveNumericName(t *testing.T) {
	h := drivertest.NewDuplexHost() // 3 devices

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{"first", "0", 0, nil},
		{"last", "2", 2, nil},
		{"at count", "3", 0, driver.ErrDeviceOutOfRange},
		{"past count", "17", 0, driver.ErrDeviceOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := driver.Resolve(h, driver.Playback, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestResolveTextualName(t *testing.T) {
	h := drivertest.NewDuplexHost()

	got, err := driver.Resolve(h, driver.Capture, "Fake Microphone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("expected 1, got %d", got)
	}

	// exact match only
	if _, err := driver.Resolve(h, driver.Capture, "fake microphone"); !errors.Is(err, driver.ErrDeviceNotFound) {
		t.Errorf("expected ErrDeviceNotFound for case mismatch, got %v", err)
	}

	if _, err := driver.Resolve(h, driver.Capture, "USB Headset"); !errors.Is(err, driver.ErrDeviceNotFound) {
		t.Errorf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestResolveMixedDigitsTreatedAsName(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Table = append(h.Table, driver.DeviceInfo{Name: "7.1 Surround", MaxOutputChannels: 8})

	got, err := driver.Resolve(h, driver.Playback, "7.1 Surround")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestResolveNonASCIIDigitsTreatedAsName(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.Table = append(h.Table, driver.DeviceInfo{Name: "٣", MaxOutputChannels: 2})

	// Only ASCII digits select by index; other digit runes go through
	// the name scan.
	got, err := driver.Resolve(h, driver.Playback, "٣")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Errorf("expected 3, got %d", got)
	}

	if _, err := driver.Resolve(h, driver.Playback, "١٢"); !errors.Is(err, driver.ErrDeviceNotFound) {
		t.Errorf("expected ErrDeviceNotFound for unknown non-ASCII digits, got %v", err)
	}
}

func TestResolvePropagatesEnumerationFailure(t *testing.T) {
	h := drivertest.NewDuplexHost()
	h.DevicesErr = errors.New("backend gone")

	if _, err := driver.Resolve(h, driver.Capture, "0"); err == nil {
		t.Fatal("expected error")
	}
}
