package pat

import (
	"errors"
	"math/rand"
)

// SynthOptions configures Synthesize.
type SynthOptions struct {
	XMin, XMax float64 // scan range, both endpoints included
	Samples    int     // number of evenly spaced samples
	NoiseStd   float64 // Gaussian noise on the response, in response units
	Seed       int64   // noise source seed, used when Rand is nil
	Rand       *rand.Rand
}

// DefaultSynthOptions returns a clean 100-sample scan over [-3, 3].
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{XMin: -3, XMax: 3, Samples: 100, Seed: 1}
}

// Synthesize generates (x, y) samples of the barrier model at p, optionally
// with Gaussian noise on the response.
func Synthesize(p Params, opts SynthOptions) (x, y []float64, err error) {
	if opts.Samples < 2 {
		return nil, nil, errors.New("pat: synthesize needs at least 2 samples")
	}
	if !(opts.XMin < opts.XMax) {
		return nil, nil, errors.New("pat: synthesize needs XMin < XMax")
	}

	var rng *rand.Rand
	if opts.NoiseStd > 0 {
		rng = opts.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(opts.Seed))
		}
	}

	x = make([]float64, opts.Samples)
	y = make([]float64, opts.Samples)
	span := opts.XMax - opts.XMin
	for i := range x {
		x[i] = opts.XMin + span*float64(i)/float64(opts.Samples-1)
		y[i] = ModelAt(x[i], p)
		if rng != nil {
			y[i] += opts.NoiseStd * rng.NormFloat64()
		}
	}
	return x, y, nil
}
