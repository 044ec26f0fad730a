// Package rts analyses random telegraph signals, the two-level traces a
// charge sensor produces when a single electron tunnels on and off a
// quantum dot.
//
// # Overview
//
// Analyze runs the full pipeline on a raw trace: it histograms the data,
// fits a double gaussian to locate the two levels and the split between
// them, measures how long the signal dwells in each level, and fits an
// exponential decay to the dwell-time histograms to extract the tunnel
// rates in kHz. The individual stages (TransitionDurations,
// FitDoubleGaussian, FitExpDecay) are exported for callers that need only a
// part of the pipeline, and Generate produces synthetic traces with known
// rates for testing.
//
// Quality gates guard the analysis: a gaussian separation outside the
// configured bounds or dwell segments that are all shorter than the minimal
// duration abort with an error wrapping ErrFitQuality. Thin dwell-time
// histograms do not abort; they only mark the fitted rates invalid.
package rts
