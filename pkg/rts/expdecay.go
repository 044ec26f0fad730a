package rts

import (
	"fmt"
	"math"

	"github.com/OpenDotLab/dottune/pkg/optim"
)

// ExpDecay evaluates offset + amplitude * exp(-rate*x).
func ExpDecay(x, offset, amplitude, rate float64) float64 {
	return offset + amplitude*math.Exp(-rate*x)
}

// FitExpDecay fits ExpDecay to the points (x, y) by least squares and
// returns the offset, amplitude and decay rate. Initial estimates take the
// offset and amplitude from the low and high percentiles of y and the rate
// from the middle of the x range.
func FitExpDecay(x, y []float64) (offset, amplitude, rate float64, err error) {
	if len(x) != len(y) {
		return 0, 0, 0, fmt.Errorf("rts: x and y length mismatch (%d vs %d)", len(x), len(y))
	}
	if len(x) < 3 {
		return 0, 0, 0, fmt.Errorf("rts: need at least 3 points for an exponential fit, got %d", len(x))
	}

	p0 := []float64{percentile(y, 2), percentile(y, 98), 1 / x[len(x)/2]}
	model := func(xi float64, p []float64) float64 {
		return ExpDecay(xi, p[0], p[1], p[2])
	}
	fitted, err := optim.CurveFit(model, x, y, p0, nil)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("rts: exponential decay fit: %w", err)
	}
	return fitted[0], fitted[1], fitted[2], nil
}
