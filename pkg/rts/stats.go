package rts

import (
	"math"
	"sort"
)

// percentile returns the p-th percentile (0..100) of values, interpolating
// linearly between the two nearest order statistics.
func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func weightedMean(values, weights []float64) float64 {
	var sum, wsum float64
	for i, v := range values {
		sum += v * weights[i]
		wsum += weights[i]
	}
	return sum / wsum
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// histogram counts values into equal-width bins spanning the data range.
// Values equal to the maximum land in the last bin. It returns the counts
// and the bin centres.
func histogram(values []float64, bins int) (counts []float64, centres []float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	counts = make([]float64, bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	centres = make([]float64, bins)
	for i := range centres {
		centres[i] = lo + width*(float64(i)+0.5)
	}
	return counts, centres
}

// durationHistogram counts integer dwell durations into bins of integral
// width placed on half-integral edges, so no duration ever sits on a bin
// boundary. It returns the counts and the bin centres in samples.
func durationHistogram(durations []int) (counts []float64, centres []float64) {
	lo, hi := durations[0], durations[0]
	for _, d := range durations[1:] {
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	numBins := int(math.Sqrt(float64(len(durations))))
	if numBins < 1 {
		numBins = 1
	}
	binSize := int(math.Ceil(float64(hi-lo) / float64(numBins)))
	if binSize < 1 {
		binSize = 1
	}

	start := float64(lo) - 0.5
	stop := float64(hi) + float64(binSize)
	n := int(math.Ceil((stop - start) / float64(binSize)))
	counts = make([]float64, n-1)
	centres = make([]float64, n-1)
	for i := range centres {
		centres[i] = start + float64(binSize)*(float64(i)+0.5)
	}
	for _, d := range durations {
		idx := int((float64(d) - start) / float64(binSize))
		if idx >= len(counts) {
			idx = len(counts) - 1
		}
		counts[idx]++
	}
	return counts, centres
}
