// ABOUTME: Tests for stream format types
// ABOUTME: Covers sample format parsing, sizes and channel mode parsing
package audio

import "testing"

func TestSampleFormatSize(t *testing.T) {
	tests := []struct {
		name     string
		format   SampleFormat
		expected int
	}{
		{"float32", Float32, 4},
		{"int32", Int32, 4},
		{"int16", Int16, 2},
		{"int8", Int8, 1},
		{"uint8", Uint8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.Size(); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseSampleFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SampleFormat
		wantErr  bool
	}{
		{"float32", "float32", Float32, false},
		{"int32", "int32", Int32, false},
		{"int16", "int16", Int16, false},
		{"int8", "int8", Int8, false},
		{"uint8", "uint8", Uint8, false},
		{"mixed case", "Float32", Float32, false},
		{"unknown", "int24", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSampleFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseChannelMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ChannelMode
		wantErr  bool
	}{
		{"interleaved", "INTERLEAVED", Interleaved, false},
		{"port per channel", "PORTPERCHAN", PortPerChannel, false},
		{"lower case", "interleaved", Interleaved, false},
		{"unknown", "PLANAR", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChannelMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFormatFrameBytes(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		expected int
	}{
		{"stereo float32", Format{SampleFormat: Float32, Channels: 2}, 8},
		{"mono int16", Format{SampleFormat: Int16, Channels: 1}, 2},
		{"quad uint8", Format{SampleFormat: Uint8, Channels: 4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.FrameBytes(); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestFormatValidate(t *testing.T) {
	good := Format{SampleFormat: Int16, SampleRate: 44100, Channels: 2}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noChannels := Format{SampleFormat: Int16, SampleRate: 44100, Channels: 0}
	if err := noChannels.Validate(); err == nil {
		t.Error("expected error for zero channels")
	}

	badRate := Format{SampleFormat: Int16, SampleRate: 0, Channels: 2}
	if err := badRate.Validate(); err == nil {
		t.Error("expected error for zero sample rate")
	}
}
