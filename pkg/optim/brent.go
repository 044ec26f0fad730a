package optim

import (
	"errors"
	"math"
)

const (
	bracketGold  = 1.618034
	bracketGrow  = 110.0
	bracketTiny  = 1e-21
	brentCG      = 0.3819660 // golden-section fraction
	brentMinTol  = 1.0e-11
	brentDefTol  = 1.48e-8
	brentDefIter = 500
)

// BracketResult holds a triplet with XB between XA and XC and
// FB <= FA, FB <= FC, so a local minimum lies inside the interval.
type BracketResult struct {
	XA, XB, XC float64
	FA, FB, FC float64
	FuncEvals  int
}

// BracketMinimum walks downhill from the seed interval (xa, xb) until it
// brackets a local minimum, growing the interval by the golden ratio with a
// parabolic-extrapolation shortcut.
func BracketMinimum(f func(float64) float64, xa, xb float64) (BracketResult, error) {
	const maxIter = 1000
	evals := 0
	ff := func(x float64) float64 {
		evals++
		return f(x)
	}

	fa := ff(xa)
	fb := ff(xb)
	if fa < fb {
		xa, xb = xb, xa
		fa, fb = fb, fa
	}
	xc := xb + bracketGold*(xb-xa)
	fc := ff(xc)

	for iter := 0; fc < fb; iter++ {
		if iter >= maxIter {
			return BracketResult{}, errors.New("optim: bracket: too many iterations")
		}
		tmp1 := (xb - xa) * (fb - fc)
		tmp2 := (xb - xc) * (fb - fa)
		val := tmp2 - tmp1
		denom := 2 * val
		if math.Abs(val) < bracketTiny {
			denom = 2 * bracketTiny
		}
		w := xb - ((xb-xc)*tmp2-(xb-xa)*tmp1)/denom
		wlim := xb + bracketGrow*(xc-xb)

		var fw float64
		switch {
		case (w-xc)*(xb-w) > 0:
			// Parabolic candidate between xb and xc.
			fw = ff(w)
			if fw < fc {
				return BracketResult{xb, w, xc, fb, fw, fc, evals}, nil
			} else if fw > fb {
				return BracketResult{xa, xb, w, fa, fb, fw, evals}, nil
			}
			w = xc + bracketGold*(xc-xb)
			fw = ff(w)
		case (w-wlim)*(wlim-xc) >= 0:
			// Candidate beyond the growth limit, clip to it.
			w = wlim
			fw = ff(w)
		case (w-wlim)*(xc-w) > 0:
			fw = ff(w)
			if fw < fc {
				xb, xc = xc, w
				fb, fc = fc, fw
				w = xc + bracketGold*(xc-xb)
				fw = ff(w)
			}
		default:
			w = xc + bracketGold*(xc-xb)
			fw = ff(w)
		}
		xa, xb, xc = xb, xc, w
		fa, fb, fc = fb, fc, fw
	}
	return BracketResult{xa, xb, xc, fa, fb, fc, evals}, nil
}

// BrentResult reports the minimizer found by Brent.
type BrentResult struct {
	X, F       float64
	Iterations int
	FuncEvals  int
}

// Brent minimizes f in one dimension. The search interval is obtained by
// expanding (xa, xb) with BracketMinimum, then refined with golden-section
// steps and successive parabolic interpolation. tol is the relative precision
// of the result (<= 0 selects 1.48e-8); maxIter caps the refinement loop
// (<= 0 selects 500).
func Brent(f func(float64) float64, xa, xb, tol float64, maxIter int) (BrentResult, error) {
	if tol <= 0 {
		tol = brentDefTol
	}
	if maxIter <= 0 {
		maxIter = brentDefIter
	}

	br, err := BracketMinimum(f, xa, xb)
	if err != nil {
		return BrentResult{}, err
	}
	evals := br.FuncEvals

	x, w, v := br.XB, br.XB, br.XB
	fx, fw, fv := br.FB, br.FB, br.FB
	a, b := br.XA, br.XC
	if a > b {
		a, b = b, a
	}

	deltax := 0.0
	rat := 0.0
	iter := 0
	for iter < maxIter {
		tol1 := tol*math.Abs(x) + brentMinTol
		tol2 := 2 * tol1
		xmid := 0.5 * (a + b)
		if math.Abs(x-xmid) < tol2-0.5*(b-a) {
			break
		}
		if math.Abs(deltax) <= tol1 {
			// Golden-section step.
			if x >= xmid {
				deltax = a - x
			} else {
				deltax = b - x
			}
			rat = brentCG * deltax
		} else {
			// Try a parabolic step through (v, w, x).
			tmp1 := (x - w) * (fx - fv)
			tmp2 := (x - v) * (fx - fw)
			p := (x-v)*tmp2 - (x-w)*tmp1
			tmp2 = 2 * (tmp2 - tmp1)
			if tmp2 > 0 {
				p = -p
			}
			tmp2 = math.Abs(tmp2)
			dxTemp := deltax
			deltax = rat
			if p > tmp2*(a-x) && p < tmp2*(b-x) && math.Abs(p) < math.Abs(0.5*tmp2*dxTemp) {
				rat = p / tmp2
				u := x + rat
				if (u-a) < tol2 || (b-u) < tol2 {
					if xmid-x >= 0 {
						rat = tol1
					} else {
						rat = -tol1
					}
				}
			} else {
				if x >= xmid {
					deltax = a - x
				} else {
					deltax = b - x
				}
				rat = brentCG * deltax
			}
		}

		var u float64
		if math.Abs(rat) < tol1 {
			// Never move by less than tol1.
			if rat >= 0 {
				u = x + tol1
			} else {
				u = x - tol1
			}
		} else {
			u = x + rat
		}
		fu := f(u)
		evals++

		if fu > fx {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, w = w, u
				fv, fw = fw, fu
			} else if fu <= fv || v == x || v == w {
				v = u
				fv = fu
			}
		} else {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		}
		iter++
	}

	return BrentResult{X: x, F: fx, Iterations: iter, FuncEvals: evals}, nil
}
