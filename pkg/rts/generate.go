package rts

import (
	"fmt"
	"math"
	"math/rand"
)

// GenerateOptions configures Generate.
type GenerateOptions struct {
	Samples int

	// GaussianStd is the standard deviation of gaussian noise added to
	// every sample. UniformNoise adds uniform noise in the range plus or
	// minus half its value. Either may be zero.
	GaussianStd  float64
	UniformNoise float64

	// RateUp is the down-to-up transition rate in Hz, RateDown the
	// up-to-down rate. SampleRate is the acquisition rate in Hz.
	RateUp     float64
	RateDown   float64
	SampleRate float64

	// Seed seeds the noise and transition draws. Rand, when set,
	// overrides Seed.
	Seed int64
	Rand *rand.Rand
}

// DefaultGenerateOptions mirrors a typical acquisition: 100k samples at
// 1 MHz with 10 and 15 kHz tunnel rates and mild noise on both levels.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Samples:      100000,
		GaussianStd:  0.1,
		UniformNoise: 0.05,
		RateUp:       10e3,
		RateDown:     15e3,
		SampleRate:   1e6,
		Seed:         1,
	}
}

// Generate produces a two-level random telegraph signal, 0 for the down
// level and 1 for the up level, with exponentially distributed dwell times.
// The initial level is drawn from the stationary distribution.
func Generate(opts GenerateOptions) ([]float64, error) {
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("rts: sample count must be positive, got %d", opts.Samples)
	}
	if !(opts.SampleRate > 0) {
		return nil, fmt.Errorf("rts: sample rate must be positive, got %v", opts.SampleRate)
	}
	if !(opts.RateUp > 0) || !(opts.RateDown > 0) {
		return nil, fmt.Errorf("rts: transition rates must be positive, got %v and %v", opts.RateUp, opts.RateDown)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	// Per-sample transition probabilities of the discretized two-state
	// Markov chain.
	pUp := 1 - math.Exp(-opts.RateUp/opts.SampleRate)
	pDown := 1 - math.Exp(-opts.RateDown/opts.SampleRate)

	up := rng.Float64() < opts.RateUp/(opts.RateUp+opts.RateDown)
	data := make([]float64, opts.Samples)
	for i := range data {
		v := 0.0
		if up {
			v = 1.0
		}
		if opts.UniformNoise != 0 {
			v += opts.UniformNoise * (rng.Float64() - 0.5)
		}
		if opts.GaussianStd != 0 {
			v += rng.NormFloat64() * opts.GaussianStd
		}
		data[i] = v

		if up {
			if rng.Float64() < pDown {
				up = false
			}
		} else {
			if rng.Float64() < pUp {
				up = true
			}
		}
	}
	return data, nil
}
