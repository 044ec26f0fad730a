package awg

import (
	"errors"
	"fmt"
)

// Info describes capabilities reported by a waveform generator backend.
type Info struct {
	Name         string
	Vendor       string
	Model        string
	SerialNumber string
	Firmware     string
	Channels     []int
	Markers      []int
	Notes        string
}

// Backend abstracts a physical or simulated arbitrary waveform generator.
type Backend interface {
	Info() (Info, error)
	Run() error
	Stop() error
	Reset() error
	EnableOutputs(channels ...int) error
	DisableOutputs(channels ...int) error
	SetSamplingRate(hz float64) error
	SamplingRate() (float64, error)
	SetGain(channel int, gain float64) error
	Gain(channel int) (float64, error)
	UploadWaveforms(names []string, waveforms [][]float64) error
	DeleteWaveforms() error
	SetSequence(channel int, names []string) error
	Sequence(channel int) ([]string, error)
}

// ErrNotImplemented lets backends signal that a requested capability is not
// available without relying on fmt.Errorf each time.
var ErrNotImplemented = errors.New("awg: not implemented")

// ValidateWaveforms checks an upload request for shape problems and returns
// the total number of samples across all waveforms.
func ValidateWaveforms(names []string, waveforms [][]float64) (int, error) {
	if len(names) == 0 {
		return 0, errors.New("awg: no waveforms to upload")
	}
	if len(names) != len(waveforms) {
		return 0, fmt.Errorf("awg: %d names for %d waveforms", len(names), len(waveforms))
	}
	seen := make(map[string]bool, len(names))
	total := 0
	for i, name := range names {
		if name == "" {
			return 0, fmt.Errorf("awg: waveform %d has an empty name", i)
		}
		if seen[name] {
			return 0, fmt.Errorf("awg: duplicate waveform name %q", name)
		}
		seen[name] = true
		if len(waveforms[i]) == 0 {
			return 0, fmt.Errorf("awg: waveform %q has no samples", name)
		}
		total += len(waveforms[i])
	}
	return total, nil
}
