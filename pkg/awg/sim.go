package awg

import "fmt"

// UploadHook allows the simulator to emulate device-specific upload
// behavior such as injected failures.
type UploadHook func(names []string, waveforms [][]float64) error

// UploadOp captures the last upload invocation for inspection within tests.
type UploadOp struct {
	Names     []string
	Waveforms [][]float64
}

// SimBackend is an in-memory backend useful for unit tests and offline
// runs. Its setting table mirrors a Keysight M3202A module. It records the
// last upload request and can optionally reject uploads via OnUpload.
type SimBackend struct {
	InfoData Info
	Settings map[string]Setting

	OnUpload UploadHook

	running    bool
	outputs    map[int]bool
	gains      map[int]float64
	waveforms  map[string][]float64
	sequences  map[int][]string
	lastUpload UploadOp
	resets     int
}

// NewSimBackend constructs a simulator with the M3202A capability table:
// four channels, one marker, 1 GS/s sampling.
func NewSimBackend() *SimBackend {
	return &SimBackend{
		InfoData: Info{
			Name:     "Simulated AWG",
			Vendor:   "Keysight",
			Model:    "M3202A",
			Channels: []int{1, 2, 3, 4},
			Markers:  []int{1},
			Notes:    "in-memory simulator",
		},
		Settings: map[string]Setting{
			"sampling_rate": mustSetting("GS/s", 1.0e9, 1.0e7, 1.2e9),
			"marker_delay":  mustSetting("ns", 0.0, 0.0, 1.0),
			"marker_low":    mustSetting("V", 0.0, -1.0, 2.6),
			"marker_high":   mustSetting("V", 1.0, -0.9, 2.7),
			"amplitudes":    mustSetting("V", 1.0, 0.02, 4.5),
			"offset":        mustSetting("V", 0, -2.25, 2.25),
		},
		outputs:   make(map[int]bool),
		gains:     make(map[int]float64),
		waveforms: make(map[string][]float64),
		sequences: make(map[int][]string),
	}
}

// LastUpload returns a copy of the most recent upload request.
func (s *SimBackend) LastUpload() UploadOp {
	op := UploadOp{Names: append([]string(nil), s.lastUpload.Names...)}
	for _, w := range s.lastUpload.Waveforms {
		op.Waveforms = append(op.Waveforms, append([]float64(nil), w...))
	}
	return op
}

// Running reports whether the generator has been started.
func (s *SimBackend) Running() bool { return s.running }

// OutputEnabled reports whether the channel output is on.
func (s *SimBackend) OutputEnabled(channel int) bool { return s.outputs[channel] }

// Waveform returns an uploaded waveform by name.
func (s *SimBackend) Waveform(name string) ([]float64, bool) {
	w, ok := s.waveforms[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), w...), true
}

// ResetCount reports how many resets have been requested.
func (s *SimBackend) ResetCount() int { return s.resets }

func (s *SimBackend) Info() (Info, error) {
	return s.InfoData, nil
}

func (s *SimBackend) Run() error {
	s.running = true
	return nil
}

func (s *SimBackend) Stop() error {
	s.running = false
	return nil
}

// Reset stops the generator and clears waveforms, sequences and outputs.
func (s *SimBackend) Reset() error {
	s.resets++
	s.running = false
	s.outputs = make(map[int]bool)
	s.gains = make(map[int]float64)
	s.waveforms = make(map[string][]float64)
	s.sequences = make(map[int][]string)
	return nil
}

// EnableOutputs turns the given channel outputs on. With no arguments it
// enables every channel.
func (s *SimBackend) EnableOutputs(channels ...int) error {
	return s.setOutputs(true, channels)
}

// DisableOutputs turns the given channel outputs off. With no arguments it
// disables every channel.
func (s *SimBackend) DisableOutputs(channels ...int) error {
	return s.setOutputs(false, channels)
}

func (s *SimBackend) setOutputs(on bool, channels []int) error {
	if len(channels) == 0 {
		channels = s.InfoData.Channels
	}
	for _, ch := range channels {
		if err := s.validChannel(ch); err != nil {
			return err
		}
	}
	for _, ch := range channels {
		s.outputs[ch] = on
	}
	return nil
}

func (s *SimBackend) SetSamplingRate(hz float64) error {
	setting := s.Settings["sampling_rate"]
	if err := setting.Set(hz); err != nil {
		return err
	}
	s.Settings["sampling_rate"] = setting
	return nil
}

func (s *SimBackend) SamplingRate() (float64, error) {
	return s.Settings["sampling_rate"].Value(), nil
}

func (s *SimBackend) SetGain(channel int, gain float64) error {
	if err := s.validChannel(channel); err != nil {
		return err
	}
	bounds := s.Settings["amplitudes"]
	if err := bounds.Set(gain); err != nil {
		return err
	}
	s.gains[channel] = gain
	return nil
}

func (s *SimBackend) Gain(channel int) (float64, error) {
	if err := s.validChannel(channel); err != nil {
		return 0, err
	}
	if g, ok := s.gains[channel]; ok {
		return g, nil
	}
	return s.Settings["amplitudes"].Value(), nil
}

func (s *SimBackend) UploadWaveforms(names []string, waveforms [][]float64) error {
	if _, err := ValidateWaveforms(names, waveforms); err != nil {
		return err
	}

	s.lastUpload = UploadOp{Names: append([]string(nil), names...)}
	for _, w := range waveforms {
		s.lastUpload.Waveforms = append(s.lastUpload.Waveforms, append([]float64(nil), w...))
	}

	if s.OnUpload != nil {
		if err := s.OnUpload(names, waveforms); err != nil {
			return err
		}
	}

	for i, name := range names {
		s.waveforms[name] = append([]float64(nil), waveforms[i]...)
	}
	return nil
}

func (s *SimBackend) DeleteWaveforms() error {
	s.waveforms = make(map[string][]float64)
	s.sequences = make(map[int][]string)
	return nil
}

func (s *SimBackend) SetSequence(channel int, names []string) error {
	if err := s.validChannel(channel); err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("awg: empty sequence for channel %d", channel)
	}
	for _, name := range names {
		if _, ok := s.waveforms[name]; !ok {
			return fmt.Errorf("awg: waveform %q not uploaded", name)
		}
	}
	s.sequences[channel] = append([]string(nil), names...)
	return nil
}

func (s *SimBackend) Sequence(channel int) ([]string, error) {
	if err := s.validChannel(channel); err != nil {
		return nil, err
	}
	return append([]string(nil), s.sequences[channel]...), nil
}

func (s *SimBackend) validChannel(channel int) error {
	for _, ch := range s.InfoData.Channels {
		if ch == channel {
			return nil
		}
	}
	return fmt.Errorf("awg: channel %d not in %v", channel, s.InfoData.Channels)
}
