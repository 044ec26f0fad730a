package optim

import (
	"errors"
	"fmt"
	"math"
)

// Range bounds one coordinate of a grid search.
type Range struct {
	Min, Max float64
}

// Brute evaluates f on an evenly spaced grid of ns points per range, both
// endpoints included, and returns the grid point with the smallest value
// together with that value. The first point scanned wins ties, and a
// non-finite value at the first point is kept the way an argmin over the raw
// grid would keep it.
func Brute(f func([]float64) float64, ranges []Range, ns int) ([]float64, float64, error) {
	if len(ranges) == 0 {
		return nil, 0, errors.New("optim: brute needs at least one range")
	}
	if ns < 2 {
		return nil, 0, fmt.Errorf("optim: brute needs at least 2 grid samples per axis, got %d", ns)
	}
	for _, r := range ranges {
		if !(r.Min <= r.Max) {
			return nil, 0, fmt.Errorf("optim: invalid brute range [%g, %g]", r.Min, r.Max)
		}
	}

	dims := len(ranges)
	idx := make([]int, dims)
	x := make([]float64, dims)
	best := make([]float64, dims)
	bestF := math.NaN()
	first := true
	for {
		for d, i := range idx {
			r := ranges[d]
			x[d] = r.Min + (r.Max-r.Min)*float64(i)/float64(ns-1)
		}
		fx := f(x)
		if first || fx < bestF {
			first = false
			bestF = fx
			copy(best, x)
		}

		d := 0
		for ; d < dims; d++ {
			idx[d]++
			if idx[d] < ns {
				break
			}
			idx[d] = 0
		}
		if d == dims {
			return best, bestF, nil
		}
	}
}
