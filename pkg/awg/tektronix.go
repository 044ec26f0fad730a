package awg

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Transport is the byte-level connection a SCPI backend drives. USBTMC
// implements it for instruments on the USB Test & Measurement Class.
type Transport interface {
	Write(data []byte) (int, error)
	Query(cmd string) (string, error)
	Close() error
}

// AWG5014 hardware limits
const (
	minSamplingRate = 10e6  // 10 MS/s
	maxSamplingRate = 1.2e9 // 1.2 GS/s
	minAmplitude    = 0.02  // Vpp
	maxAmplitude    = 4.5   // Vpp
)

// Tek5014Backend drives a Tektronix AWG5014 series generator over SCPI.
type Tek5014Backend struct {
	transport Transport

	info      Info
	sequences map[int][]string
	uploaded  map[string]bool

	mu sync.Mutex // Protect concurrent access
}

// NewTek5014Backend connects to a generator over the given transport and
// queries its identity.
func NewTek5014Backend(transport Transport) (*Tek5014Backend, error) {
	b := &Tek5014Backend{
		transport: transport,
		sequences: make(map[int][]string),
		uploaded:  make(map[string]bool),
	}

	if err := b.queryInfo(); err != nil {
		transport.Close()
		return nil, fmt.Errorf("failed to query instrument identity: %w", err)
	}

	return b, nil
}

// queryInfo retrieves the instrument identity string.
func (b *Tek5014Backend) queryInfo() error {
	idn, err := b.transport.Query("*IDN?")
	if err != nil {
		return err
	}

	// *IDN? answers "vendor,model,serial,firmware"
	parts := strings.Split(idn, ",")
	info := Info{
		Name:     "Tektronix AWG5014",
		Channels: []int{1, 2, 3, 4},
		Markers:  []int{1, 2},
	}
	if len(parts) > 0 {
		info.Vendor = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		info.Model = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		info.SerialNumber = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		info.Firmware = strings.TrimSpace(parts[3])
	}
	b.info = info
	return nil
}

func (b *Tek5014Backend) write(cmd string) error {
	_, err := b.transport.Write([]byte(cmd + "\n"))
	return err
}

func (b *Tek5014Backend) queryFloat(cmd string) (float64, error) {
	resp, err := b.transport.Query(cmd)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, fmt.Errorf("awg: bad numeric response %q to %s: %w", resp, cmd, err)
	}
	return v, nil
}

func (b *Tek5014Backend) validChannel(channel int) error {
	for _, ch := range b.info.Channels {
		if ch == channel {
			return nil
		}
	}
	return fmt.Errorf("awg: channel %d not in %v", channel, b.info.Channels)
}

// Info returns instrument capabilities.
func (b *Tek5014Backend) Info() (Info, error) {
	return b.info, nil
}

// Run starts waveform output.
func (b *Tek5014Backend) Run() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.write("AWGCONTROL:RUN:IMMEDIATE"); err != nil {
		return fmt.Errorf("awg: run failed: %w", err)
	}
	return nil
}

// Stop halts waveform output.
func (b *Tek5014Backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.write("AWGCONTROL:STOP:IMMEDIATE"); err != nil {
		return fmt.Errorf("awg: stop failed: %w", err)
	}
	return nil
}

// Reset restores the instrument to its default state and forgets uploaded
// waveforms.
func (b *Tek5014Backend) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.write("*RST"); err != nil {
		return fmt.Errorf("awg: reset failed: %w", err)
	}
	b.sequences = make(map[int][]string)
	b.uploaded = make(map[string]bool)
	return nil
}

// EnableOutputs turns the given channel outputs on. With no arguments it
// enables every channel.
func (b *Tek5014Backend) EnableOutputs(channels ...int) error {
	return b.setOutputs("ON", channels)
}

// DisableOutputs turns the given channel outputs off. With no arguments it
// disables every channel.
func (b *Tek5014Backend) DisableOutputs(channels ...int) error {
	return b.setOutputs("OFF", channels)
}

func (b *Tek5014Backend) setOutputs(state string, channels []int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(channels) == 0 {
		channels = b.info.Channels
	}
	for _, ch := range channels {
		if err := b.validChannel(ch); err != nil {
			return err
		}
	}
	for _, ch := range channels {
		if err := b.write(fmt.Sprintf("OUTPUT%d:STATE %s", ch, state)); err != nil {
			return fmt.Errorf("awg: output %d %s failed: %w", ch, state, err)
		}
	}
	return nil
}

// SetSamplingRate programs the shared sampling clock.
func (b *Tek5014Backend) SetSamplingRate(hz float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if hz < minSamplingRate || hz > maxSamplingRate {
		return fmt.Errorf("awg: sampling rate %g Hz out of range [%g, %g]",
			hz, float64(minSamplingRate), float64(maxSamplingRate))
	}
	if err := b.write(fmt.Sprintf("SOURCE1:FREQUENCY %.6E", hz)); err != nil {
		return fmt.Errorf("awg: set sampling rate failed: %w", err)
	}
	return nil
}

// SamplingRate reads the sampling clock back from the instrument.
func (b *Tek5014Backend) SamplingRate() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.queryFloat("SOURCE1:FREQUENCY?")
}

// SetGain programs the channel amplitude in Vpp.
func (b *Tek5014Backend) SetGain(channel int, gain float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validChannel(channel); err != nil {
		return err
	}
	if gain < minAmplitude || gain > maxAmplitude {
		return fmt.Errorf("awg: amplitude %g V out of range [%g, %g]",
			gain, float64(minAmplitude), float64(maxAmplitude))
	}
	if err := b.write(fmt.Sprintf("SOURCE%d:VOLTAGE:AMPLITUDE %.6f", channel, gain)); err != nil {
		return fmt.Errorf("awg: set gain failed: %w", err)
	}
	return nil
}

// Gain reads the channel amplitude back from the instrument.
func (b *Tek5014Backend) Gain(channel int) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validChannel(channel); err != nil {
		return 0, err
	}
	return b.queryFloat(fmt.Sprintf("SOURCE%d:VOLTAGE:AMPLITUDE?", channel))
}

// UploadWaveforms creates each waveform in the instrument's list and
// transfers its samples.
func (b *Tek5014Backend) UploadWaveforms(names []string, waveforms [][]float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := ValidateWaveforms(names, waveforms); err != nil {
		return err
	}

	for i, name := range names {
		samples := waveforms[i]
		if err := b.write(fmt.Sprintf("WLIST:WAVEFORM:NEW %q,%d,REAL", name, len(samples))); err != nil {
			return fmt.Errorf("awg: create waveform %q failed: %w", name, err)
		}

		cmd := []byte(fmt.Sprintf("WLIST:WAVEFORM:DATA %q,", name))
		cmd = append(cmd, EncodeWaveformBlock(samples)...)
		cmd = append(cmd, '\n')
		if _, err := b.transport.Write(cmd); err != nil {
			return fmt.Errorf("awg: transfer waveform %q failed: %w", name, err)
		}
		b.uploaded[name] = true
	}
	return nil
}

// DeleteWaveforms removes all user waveforms from the instrument list.
func (b *Tek5014Backend) DeleteWaveforms() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.write("WLIST:WAVEFORM:DELETE ALL"); err != nil {
		return fmt.Errorf("awg: delete waveforms failed: %w", err)
	}
	b.uploaded = make(map[string]bool)
	b.sequences = make(map[int][]string)
	return nil
}

// SetSequence assigns waveforms to a channel. A single name is loaded
// directly; multiple names are programmed as sequencer elements.
func (b *Tek5014Backend) SetSequence(channel int, names []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validChannel(channel); err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("awg: empty sequence for channel %d", channel)
	}
	for _, name := range names {
		if !b.uploaded[name] {
			return fmt.Errorf("awg: waveform %q not uploaded", name)
		}
	}

	if len(names) == 1 {
		if err := b.write(fmt.Sprintf("SOURCE%d:WAVEFORM %q", channel, names[0])); err != nil {
			return fmt.Errorf("awg: assign waveform failed: %w", err)
		}
	} else {
		if err := b.write(fmt.Sprintf("SEQUENCE:LENGTH %d", len(names))); err != nil {
			return fmt.Errorf("awg: sequence length failed: %w", err)
		}
		for i, name := range names {
			cmd := fmt.Sprintf("SEQUENCE:ELEMENT%d:WAVEFORM%d %q", i+1, channel, name)
			if err := b.write(cmd); err != nil {
				return fmt.Errorf("awg: sequence element %d failed: %w", i+1, err)
			}
		}
	}

	b.sequences[channel] = append([]string(nil), names...)
	return nil
}

// Sequence returns the waveforms assigned to a channel. The assignment is
// cached host-side, not read back from the instrument.
func (b *Tek5014Backend) Sequence(channel int) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validChannel(channel); err != nil {
		return nil, err
	}
	return append([]string(nil), b.sequences[channel]...), nil
}

// Close releases the transport.
func (b *Tek5014Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.transport.Close()
}

// EncodeWaveformBlock packs samples into the AWG5014 REAL waveform format
// wrapped in an IEEE 488.2 definite-length block: per sample a little
// endian float32 followed by one marker byte.
func EncodeWaveformBlock(samples []float64) []byte {
	payload := make([]byte, 0, len(samples)*5)
	var quad [4]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint32(quad[:], math.Float32bits(float32(s)))
		payload = append(payload, quad[:]...)
		payload = append(payload, 0)
	}

	length := strconv.Itoa(len(payload))
	block := make([]byte, 0, 2+len(length)+len(payload))
	block = append(block, '#')
	block = append(block, byte('0'+len(length)))
	block = append(block, length...)
	block = append(block, payload...)
	return block
}
