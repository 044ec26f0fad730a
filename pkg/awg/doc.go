// Package awg drives arbitrary waveform generators.
//
// # Overview
//
// Backend abstracts a generator: waveform upload, per-channel sequence
// assignment, sampling rate, gain and output control. Two implementations
// are provided. SimBackend is an in-memory generator modelled on a Keysight
// M3202A module, used by tests and for offline work. Tek5014Backend speaks
// SCPI to a Tektronix AWG5014 series generator over any Transport; USBTMC
// implements Transport for instruments attached through the USB Test &
// Measurement Class.
//
// # Usage
//
//	backend := awg.NewSimBackend()
//	tpl := pulse.Sawtooth("sweep")
//	vars := map[string]float64{"period": 1e-6, "amplitude": 0.5, "width": 0.95}
//	if err := awg.UploadTemplate(backend, 1, tpl, vars, 1e9); err != nil {
//		log.Fatal(err)
//	}
//	if err := backend.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Limitations
//
// Backends that do not support a capability return ErrNotImplemented.
// Sequence state is cached host-side; it is not read back from hardware.
package awg
