// ABOUTME: Device enumeration reports for CLI and diagnostics
// ABOUTME: Collects driver device tables into JSON or YAML documents
// Package devinfo builds serializable reports of the audio devices a
// driver host exposes, including channel capabilities, default sample
// rates and latency defaults.
package devinfo

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/FlowAudio/flowaudio-go/pkg/audio/driver"
)

// Device describes one audio device in a report. Latencies are in
// seconds.
type Device struct {
	Index             int     `json:"index" yaml:"index"`
	Name              string  `json:"name" yaml:"name"`
	HostAPI           string  `json:"hostApi,omitempty" yaml:"hostApi,omitempty"`
	MaxInputChannels  int     `json:"maxInputChannels" yaml:"maxInputChannels"`
	MaxOutputChannels int     `json:"maxOutputChannels" yaml:"maxOutputChannels"`
	DefaultSampleRate float64 `json:"defaultSampleRate" yaml:"defaultSampleRate"`
	LowInputLatency   float64 `json:"defaultLowInputLatency" yaml:"defaultLowInputLatency"`
	LowOutputLatency  float64 `json:"defaultLowOutputLatency" yaml:"defaultLowOutputLatency"`
	HighInputLatency  float64 `json:"defaultHighInputLatency" yaml:"defaultHighInputLatency"`
	HighOutputLatency float64 `json:"defaultHighOutputLatency" yaml:"defaultHighOutputLatency"`
	DefaultInput      bool    `json:"defaultInput" yaml:"defaultInput"`
	DefaultOutput     bool    `json:"defaultOutput" yaml:"defaultOutput"`
}

// Report is the full device table plus the driver's version string.
type Report struct {
	Version string   `json:"version" yaml:"version"`
	Devices []Device `json:"devices" yaml:"devices"`
}

// Collect enumerates the host's devices into a Report.
func Collect(h driver.Host) (*Report, error) {
	devices, err := h.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	defIn, errIn := h.DefaultInputDevice()
	if errIn != nil {
		defIn = -1
	}
	defOut, errOut := h.DefaultOutputDevice()
	if errOut != nil {
		defOut = -1
	}

	report := &Report{
		Version: h.VersionText(),
		Devices: make([]Device, 0, len(devices)),
	}
	for i, d := range devices {
		report.Devices = append(report.Devices, Device{
			Index:             i,
			Name:              d.Name,
			HostAPI:           d.HostAPIName,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			LowInputLatency:   d.DefaultLowInputLatency.Seconds(),
			LowOutputLatency:  d.DefaultLowOutputLatency.Seconds(),
			HighInputLatency:  d.DefaultHighInputLatency.Seconds(),
			HighOutputLatency: d.DefaultHighOutputLatency.Seconds(),
			DefaultInput:      i == defIn,
			DefaultOutput:     i == defOut,
		})
	}
	return report, nil
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// YAML renders the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
