package optim

import (
	"errors"
	"fmt"
	"math"
)

// PowellOptions configures Powell. The zero value of any field selects its
// default.
type PowellOptions struct {
	XTol          float64 // line-search precision per parameter, default 1e-4
	FTol          float64 // relative objective decrease for termination, default 1e-4
	MaxIterations int     // default 1000 * len(x0)
	MaxFuncEvals  int     // default 1000 * len(x0)
}

// PowellResult reports the outcome of a Powell minimization. Converged is
// false when an evaluation or iteration budget stopped the search before the
// objective decrease fell under FTol.
type PowellResult struct {
	X          []float64
	F          float64
	Iterations int
	FuncEvals  int
	Converged  bool
}

// Powell minimizes f without derivatives using a direction-set method.
// Starting from the coordinate directions, each iteration line-minimizes
// along every direction in turn, then replaces the direction of largest
// decrease with the overall displacement when the standard acceptance test
// allows it.
func Powell(f func([]float64) float64, x0 []float64, opts *PowellOptions) (PowellResult, error) {
	n := len(x0)
	if n == 0 {
		return PowellResult{}, errors.New("optim: powell needs a non-empty starting point")
	}

	xtol, ftol := 1e-4, 1e-4
	maxIter, maxFev := 1000*n, 1000*n
	if opts != nil {
		if opts.XTol > 0 {
			xtol = opts.XTol
		}
		if opts.FTol > 0 {
			ftol = opts.FTol
		}
		if opts.MaxIterations > 0 {
			maxIter = opts.MaxIterations
		}
		if opts.MaxFuncEvals > 0 {
			maxFev = opts.MaxFuncEvals
		}
	}

	evals := 0
	ff := func(x []float64) float64 {
		evals++
		return f(x)
	}

	// Initial direction set: the coordinate axes.
	direc := make([][]float64, n)
	for i := range direc {
		direc[i] = make([]float64, n)
		direc[i][i] = 1
	}

	x := append([]float64(nil), x0...)
	fval := ff(x)
	x1 := append([]float64(nil), x...)

	iter := 0
	converged := false
	for {
		fx := fval
		bigind := 0
		delta := 0.0
		for i := 0; i < n; i++ {
			fx2 := fval
			var err error
			fval, x, _, err = linesearchPowell(ff, x, direc[i], xtol*100)
			if err != nil {
				return PowellResult{}, fmt.Errorf("optim: powell line search: %w", err)
			}
			if fx2-fval > delta {
				delta = fx2 - fval
				bigind = i
			}
		}
		iter++

		if 2*(fx-fval) <= ftol*(math.Abs(fx)+math.Abs(fval))+1e-20 {
			converged = true
			break
		}
		if evals >= maxFev || iter >= maxIter {
			break
		}

		// Extrapolate along the net displacement of this iteration and decide
		// whether it should replace the direction of largest decrease.
		direc1 := make([]float64, n)
		x2 := make([]float64, n)
		for j := range x {
			direc1[j] = x[j] - x1[j]
			x2[j] = 2*x[j] - x1[j]
		}
		x1 = append(x1[:0], x...)
		fx2 := ff(x2)

		if fx > fx2 {
			t := 2 * (fx + fx2 - 2*fval)
			temp := fx - fval - delta
			t *= temp * temp
			temp = fx - fx2
			t -= delta * temp * temp
			if t < 0 {
				var err error
				fval, x, direc1, err = linesearchPowell(ff, x, direc1, xtol*100)
				if err != nil {
					return PowellResult{}, fmt.Errorf("optim: powell line search: %w", err)
				}
				direc[bigind] = direc[n-1]
				direc[n-1] = direc1
			}
		}
	}

	return PowellResult{X: x, F: fval, Iterations: iter, FuncEvals: evals, Converged: converged}, nil
}

// linesearchPowell minimizes f along direction xi from point p. It returns
// the minimum value, the new point and the displacement actually taken.
func linesearchPowell(f func([]float64) float64, p, xi []float64, tol float64) (float64, []float64, []float64, error) {
	q := make([]float64, len(p))
	g := func(alpha float64) float64 {
		for j := range p {
			q[j] = p[j] + alpha*xi[j]
		}
		return f(q)
	}
	res, err := Brent(g, 0, 1, tol, 0)
	if err != nil {
		return 0, nil, nil, err
	}
	step := make([]float64, len(p))
	pnew := make([]float64, len(p))
	for j := range p {
		step[j] = res.X * xi[j]
		pnew[j] = p[j] + step[j]
	}
	return res.F, pnew, step, nil
}
