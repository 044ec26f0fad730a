package awg

import (
	"github.com/OpenDotLab/dottune/pkg/pulse"
)

// UploadTemplate renders a pulse template at the given rate and loads it on
// the channel as a single-waveform sequence.
func UploadTemplate(b Backend, channel int, tpl *pulse.Template, vars map[string]float64, rateHz float64) error {
	samples, err := tpl.Sample(vars, rateHz)
	if err != nil {
		return err
	}
	if err := b.UploadWaveforms([]string{tpl.Name}, [][]float64{samples}); err != nil {
		return err
	}
	return b.SetSequence(channel, []string{tpl.Name})
}
