// Package robust provides the robust cost transforms (M-estimator family)
// used to score residuals in the fitting pipelines. Each transform maps a
// residual x and a threshold thr to a non-negative cost; the redescending
// variants saturate for residuals far beyond thr so that outliers stop
// influencing a fit.
package robust

import (
	"fmt"
	"math"
)

// Cost selects a robust cost transform.
type Cost uint8

const (
	// BlakeZisserman is a redescending estimator. With epsilon = exp(-thr*thr)
	// the cost is
	//
	//	-log(exp(-x*x) + epsilon) + log(1 + epsilon)
	//
	// which is zero at x = 0, tracks x*x for small residuals and saturates at
	// thr*thr + log(1+epsilon) for large ones.
	BlakeZisserman Cost = iota
	// L1 is the absolute residual scaled by the threshold.
	L1
	// L2 is the squared residual scaled by the squared threshold.
	L2
	// Huber is quadratic inside the threshold and linear beyond it.
	Huber
	// Cauchy is the Lorentzian cost (thr*thr/2) * log(1 + x*x/thr*thr).
	Cauchy
)

var costNames = map[Cost]string{
	BlakeZisserman: "bz",
	L1:             "l1",
	L2:             "l2",
	Huber:          "huber",
	Cauchy:         "cauchy",
}

func (c Cost) String() string {
	if name, ok := costNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Cost(%d)", uint8(c))
}

// ParseCost maps a variant name (as used on the command line) to a Cost.
func ParseCost(name string) (Cost, error) {
	for c, n := range costNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("robust: unknown cost %q (valid: bz, l1, l2, huber, cauchy)", name)
}

// Eval applies the transform to residual x with threshold thr. Panics if c is
// not one of the defined variants.
func (c Cost) Eval(x, thr float64) float64 {
	switch c {
	case L1:
		return math.Abs(x) / thr
	case L2:
		return x * x / (thr * thr)
	case Huber:
		x2 := x * x
		if x2 <= thr*thr {
			return x2
		}
		return 2*thr*math.Abs(x) - thr*thr
	case Cauchy:
		b2 := thr * thr
		return (b2 / 2) * math.Log(1+x*x/b2)
	case BlakeZisserman:
		// Both logarithms are computed from the same expression shape so the
		// cost is exactly zero at x = 0.
		epsilon := math.Exp(-thr * thr)
		return -math.Log(math.Exp(-x*x)+epsilon) + math.Log(1+epsilon)
	}
	panic(fmt.Sprintf("robust: unknown cost variant %d", uint8(c)))
}
