package rts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrFitQuality reports that the trace failed one of the analysis quality
// gates. Use errors.Is to distinguish it from numerical fit failures.
var ErrFitQuality = errors.New("rts: fit quality check failed")

// AnalyzeOptions configures Analyze. Start from DefaultAnalyzeOptions and
// set SampleRate to the acquisition rate of the trace.
type AnalyzeOptions struct {
	// SampleRate is the acquisition rate in Hz. Required.
	SampleRate float64

	// MinSep and MaxSep bound the accepted gaussian separation, measured
	// in units of the summed sigmas. A separation below MinSep means the
	// levels cannot be told apart; one above MaxSep means the double
	// gaussian latched onto something that is not a two-level signal.
	MinSep float64
	MaxSep float64

	// MinDuration drops dwell segments shorter than this many samples
	// before the rate fits.
	MinDuration int

	// NumBins overrides the number of bins for the signal histogram.
	// Zero selects sqrt(len(data)).
	NumBins int

	Verbose int
	Trace   io.Writer // defaults to os.Stdout
}

// DefaultAnalyzeOptions returns the analysis defaults: separation accepted
// between 2 and 7 summed sigmas, dwell segments kept from 5 samples up.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{MinSep: 2, MaxSep: 7, MinDuration: 5}
}

// SegmentStats summarizes the completed dwell segments of one level,
// before the MinDuration filter is applied.
type SegmentStats struct {
	Count         int
	MeanSamples   float64
	MeanSeconds   float64
	MedianSeconds float64
}

// ExpDecayFit holds the parameters of a fitted dwell-time decay.
type ExpDecayFit struct {
	Offset    float64
	Amplitude float64
	Rate      float64 // 1/s
}

// Result carries the outcome of Analyze.
type Result struct {
	DoubleGauss DoubleGaussParams
	Separation  float64
	Split       float64

	Down SegmentStats
	Up   SegmentStats

	// RatesValid reports whether the dwell-time histograms carried enough
	// counts to fit the tunnel rates. When false the rate fields are zero.
	RatesValid  bool
	RateDownKHz float64 // escape rate from the down level (down to up)
	RateUpKHz   float64 // escape rate from the up level (up to down)
	ExpDown     ExpDecayFit
	ExpUp       ExpDecayFit
}

// Analyze runs the full random telegraph signal pipeline on a raw trace:
// double gaussian level detection, dwell segmentation and exponential rate
// fits. It returns an error wrapping ErrFitQuality when the trace does not
// look like a two-level signal.
func Analyze(data []float64, opts AnalyzeOptions) (*Result, error) {
	if len(data) == 0 {
		return nil, errors.New("rts: empty trace")
	}
	if !(opts.SampleRate > 0) {
		return nil, fmt.Errorf("rts: sample rate must be positive, got %v", opts.SampleRate)
	}

	numBins := opts.NumBins
	if numBins == 0 {
		numBins = int(math.Sqrt(float64(len(data))))
	}
	counts, centres := histogram(data, numBins)
	par, gs, err := FitDoubleGaussian(centres, counts)
	if err != nil {
		return nil, err
	}
	tracef(opts, 1, "rts analysis: gaussian separation %.2f, split %.4g\n", gs.Separation, gs.Split)

	if gs.Separation < opts.MinSep {
		return nil, fmt.Errorf("%w: gaussian separation %.1f below minimum %.1f", ErrFitQuality, gs.Separation, opts.MinSep)
	}
	if gs.Separation > opts.MaxSep {
		return nil, fmt.Errorf("%w: gaussian separation %.1f above maximum %.1f", ErrFitQuality, gs.Separation, opts.MaxSep)
	}

	downDur, upDur := TransitionDurations(data, gs.Split)
	if len(downDur) == 0 || len(upDur) == 0 {
		return nil, fmt.Errorf("%w: trace has no complete dwell segments in both levels", ErrFitQuality)
	}

	res := &Result{
		DoubleGauss: par,
		Separation:  gs.Separation,
		Split:       gs.Split,
		Down:        segmentStats(downDur, opts.SampleRate),
		Up:          segmentStats(upDur, opts.SampleRate),
	}
	tracef(opts, 2, "rts analysis: %d down segments (mean %.3g s), %d up segments (mean %.3g s)\n",
		res.Down.Count, res.Down.MeanSeconds, res.Up.Count, res.Up.MeanSeconds)

	downKept := keepLonger(downDur, opts.MinDuration)
	upKept := keepLonger(upDur, opts.MinDuration)
	if len(downKept) == 0 {
		return nil, fmt.Errorf("%w: all down segments shorter than %d samples", ErrFitQuality, opts.MinDuration)
	}
	if len(upKept) == 0 {
		return nil, fmt.Errorf("%w: all up segments shorter than %d samples", ErrFitQuality, opts.MinDuration)
	}

	countsDown, binsDown := durationHistogram(downKept)
	countsUp, binsUp := durationHistogram(upKept)
	if countsDown[0] < 50 {
		tracef(opts, 1, "rts analysis: down dwell histogram too thin (first bin %.0f), skipping rate fits\n", countsDown[0])
	}
	if countsUp[0] < 50 {
		tracef(opts, 1, "rts analysis: up dwell histogram too thin (first bin %.0f), skipping rate fits\n", countsUp[0])
	}
	if countsDown[0] > 50 && countsUp[0] > 50 {
		res.ExpDown, err = fitDwellDecay(binsDown, countsDown, opts.SampleRate)
		if err != nil {
			return nil, err
		}
		res.ExpUp, err = fitDwellDecay(binsUp, countsUp, opts.SampleRate)
		if err != nil {
			return nil, err
		}
		res.RatesValid = true
		res.RateDownKHz = res.ExpDown.Rate / 1000
		res.RateUpKHz = res.ExpUp.Rate / 1000
		tracef(opts, 1, "rts analysis: tunnel rates %.2f kHz down, %.2f kHz up\n", res.RateDownKHz, res.RateUpKHz)
	}
	return res, nil
}

// fitDwellDecay converts bin centres from samples to seconds and fits the
// exponential decay, so the fitted rate comes out in 1/s.
func fitDwellDecay(binCentres, counts []float64, sampleRate float64) (ExpDecayFit, error) {
	seconds := make([]float64, len(binCentres))
	for i, c := range binCentres {
		seconds[i] = c / sampleRate
	}
	offset, amplitude, rate, err := FitExpDecay(seconds, counts)
	if err != nil {
		return ExpDecayFit{}, err
	}
	return ExpDecayFit{Offset: offset, Amplitude: amplitude, Rate: rate}, nil
}

func segmentStats(durations []int, sampleRate float64) SegmentStats {
	seconds := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		seconds[i] = float64(d) / sampleRate
		sum += float64(d)
	}
	return SegmentStats{
		Count:         len(durations),
		MeanSamples:   sum / float64(len(durations)),
		MeanSeconds:   mean(seconds),
		MedianSeconds: percentile(seconds, 50),
	}
}

func keepLonger(durations []int, minDuration int) []int {
	kept := durations[:0:0]
	for _, d := range durations {
		if d >= minDuration {
			kept = append(kept, d)
		}
	}
	return kept
}

func tracef(o AnalyzeOptions, level int, format string, args ...any) {
	if o.Verbose < level {
		return
	}
	w := o.Trace
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, format, args...)
}
