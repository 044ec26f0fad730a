package rts

// TransitionDurations splits a two-level trace at the given level and
// returns, in samples, how long each completed visit to the down and the up
// level lasted. The partial visits at the start and the end of the trace
// are dropped, so a trace that never crosses the split yields two empty
// slices.
func TransitionDurations(data []float64, split float64) (down, up []int) {
	if len(data) < 2 {
		return nil, nil
	}

	// Sample indices right before the signal goes below or above the split.
	var downs, ups []int
	prev := data[0] > split
	for i := 1; i < len(data); i++ {
		cur := data[i] > split
		if cur != prev {
			if cur {
				ups = append(ups, i-1)
			} else {
				downs = append(downs, i-1)
			}
			prev = cur
		}
	}

	// The boundary cases reuse the same level test as the transition scan,
	// so a first sample exactly on the split stays classified as down.
	startUp := data[0] > split
	endUp := data[len(data)-1] > split
	switch {
	case !startUp && !endUp:
		up = subtract(downs, ups)
		down = subtract(tail(ups), trim(downs))
	case !startUp && endUp:
		up = subtract(downs, trim(ups))
		down = subtract(tail(ups), downs)
	case startUp && !endUp:
		up = subtract(tail(downs), ups)
		down = subtract(ups, trim(downs))
	default:
		up = subtract(tail(downs), trim(ups))
		down = subtract(ups, downs)
	}
	return down, up
}

func subtract(a, b []int) []int {
	out := make([]int, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func tail(a []int) []int {
	if len(a) == 0 {
		return a
	}
	return a[1:]
}

func trim(a []int) []int {
	if len(a) == 0 {
		return a
	}
	return a[:len(a)-1]
}
