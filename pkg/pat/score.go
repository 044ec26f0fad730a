package pat

import (
	"math"

	"github.com/OpenDotLab/dottune/pkg/robust"
)

// DefaultThreshold is the robustness threshold applied when options leave it
// unset. It is sized for responses in Hz.
const DefaultThreshold = 3e9

// ScoreOptions tunes Score. A nil *ScoreOptions selects the defaults:
// threshold 3e9, Blake-Zisserman cost, no weights.
type ScoreOptions struct {
	Weights   []float64   // optional per-sample weights
	Threshold float64     // robustness threshold in response units, <= 0 selects DefaultThreshold
	Cost      robust.Cost // robust transform, zero value is robust.BlakeZisserman
}

// Score measures the misfit between the observed responses y and the model
// at p. Absolute residuals are divided by the threshold, passed through the
// robust cost transform with a unit threshold, square-rooted and scaled back
// to response units, so the transform is invariant under a common rescaling
// of residuals and threshold. Weighted samples are multiplied elementwise,
// and the result is reduced with an L4 norm divided by the sample count.
//
// The score is non-negative and zero exactly when the model reproduces y.
// Lower is better. Non-finite residuals propagate into the result.
//
// x and y must have the same length, as must Weights when supplied; Score
// panics otherwise. FitBarrier validates shapes up front and reports
// mismatches as errors instead.
func Score(x, y []float64, p Params, opts *ScoreOptions) float64 {
	var weights []float64
	thr := float64(DefaultThreshold)
	cost := robust.BlakeZisserman
	if opts != nil {
		weights = opts.Weights
		if opts.Threshold > 0 {
			thr = opts.Threshold
		}
		cost = opts.Cost
	}
	if len(y) != len(x) {
		panic("pat: x and y lengths differ")
	}
	if weights != nil && len(weights) != len(x) {
		panic("pat: weights length differs from sample count")
	}

	var acc float64
	for i, xi := range x {
		r := math.Abs(ModelAt(xi, p) - y[i])
		s := math.Sqrt(cost.Eval(r/thr, 1)) * thr
		if weights != nil {
			s *= weights[i]
		}
		s2 := s * s
		acc += s2 * s2
	}
	return math.Sqrt(math.Sqrt(acc)) / float64(len(x))
}
