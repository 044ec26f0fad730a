// Package pulse builds waveform templates for sequencing on an arbitrary
// waveform generator.
//
// # Overview
//
// A Template is a named table of (time, value) entries whose coordinates
// are arithmetic expressions over variables such as period and amplitude.
// Between entries the waveform either holds the previous value or ramps
// linearly. Square, Sawtooth, Hold and Marker construct the standard
// templates; ParseTemplate reads user-defined tables from a small text
// format:
//
//	pulse ramp {
//	    0 -> 0
//	    period/2 -> amplitude linear
//	    period -> 0
//	}
//
// Sample renders a template to raw samples for upload through pkg/awg.
package pulse
