package optim

import (
	"errors"
	"fmt"
	"math"
)

// CurveModel evaluates a parametric model at a single coordinate.
type CurveModel func(x float64, p []float64) float64

// ErrNoConvergence is returned when an iterative routine exhausts its
// evaluation budget before meeting its tolerances.
var ErrNoConvergence = errors.New("optim: no convergence")

// CurveFitOptions configures CurveFit. The zero value of any field selects
// its default.
type CurveFitOptions struct {
	MaxFuncEvals int     // residual-vector evaluations, default 200*(len(p0)+1)
	Tol          float64 // relative step/decrease tolerance, default 1.49012e-8
}

const sqrtEps = 1.4901161193847656e-08

// CurveFit fits the model parameters to (xs, ys) by unweighted least squares
// using Levenberg-Marquardt with forward-difference derivatives. It returns
// the refined parameter vector; the starting vector p0 is not modified.
func CurveFit(model CurveModel, xs, ys, p0 []float64, opts *CurveFitOptions) ([]float64, error) {
	m, n := len(xs), len(p0)
	if m != len(ys) {
		return nil, fmt.Errorf("optim: curve fit: x and y lengths differ (%d vs %d)", m, len(ys))
	}
	if n == 0 {
		return nil, errors.New("optim: curve fit needs at least one parameter")
	}
	if m < n {
		return nil, fmt.Errorf("optim: curve fit needs at least %d samples, got %d", n, m)
	}

	maxFev := 200 * (n + 1)
	tol := 1.49012e-8
	if opts != nil {
		if opts.MaxFuncEvals > 0 {
			maxFev = opts.MaxFuncEvals
		}
		if opts.Tol > 0 {
			tol = opts.Tol
		}
	}

	evals := 0
	residuals := func(p, dst []float64) float64 {
		evals++
		var sse float64
		for i := range xs {
			dst[i] = model(xs[i], p) - ys[i]
			sse += dst[i] * dst[i]
		}
		return sse
	}

	p := append([]float64(nil), p0...)
	r := make([]float64, m)
	sse := residuals(p, r)
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return nil, errors.New("optim: curve fit: residuals not finite at starting point")
	}
	if sse == 0 {
		return p, nil
	}

	jac := make([][]float64, m)
	for i := range jac {
		jac[i] = make([]float64, n)
	}
	rh := make([]float64, m)
	rTrial := make([]float64, m)
	pTrial := make([]float64, n)
	lambda := 1e-3

	for evals < maxFev {
		// Forward-difference Jacobian of the residual vector.
		for j := 0; j < n; j++ {
			h := sqrtEps * math.Abs(p[j])
			if h == 0 {
				h = sqrtEps
			}
			saved := p[j]
			p[j] = saved + h
			residuals(p, rh)
			p[j] = saved
			for i := 0; i < m; i++ {
				jac[i][j] = (rh[i] - r[i]) / h
			}
		}

		// Normal equations JtJ delta = -Jt r with Marquardt diagonal damping.
		a := make([][]float64, n)
		g := make([]float64, n)
		for j := 0; j < n; j++ {
			a[j] = make([]float64, n)
			for k := j; k < n; k++ {
				var s float64
				for i := 0; i < m; i++ {
					s += jac[i][j] * jac[i][k]
				}
				a[j][k] = s
				a[k][j] = s
			}
			var s float64
			for i := 0; i < m; i++ {
				s += jac[i][j] * r[i]
			}
			g[j] = -s
		}

		for {
			damped := make([][]float64, n)
			for j := 0; j < n; j++ {
				damped[j] = append([]float64(nil), a[j]...)
				if a[j][j] != 0 {
					damped[j][j] += lambda * a[j][j]
				} else {
					damped[j][j] = lambda
				}
			}
			delta, err := solveLinear(damped, g)
			if err == nil {
				var stepNorm, pNorm float64
				for j := 0; j < n; j++ {
					stepNorm += delta[j] * delta[j]
					pNorm += p[j] * p[j]
				}
				if math.Sqrt(stepNorm) <= tol*(math.Sqrt(pNorm)+tol) {
					return p, nil
				}
				for j := 0; j < n; j++ {
					pTrial[j] = p[j] + delta[j]
				}
				sseTrial := residuals(pTrial, rTrial)
				if sseTrial < sse {
					decrease := sse - sseTrial
					copy(p, pTrial)
					copy(r, rTrial)
					sse = sseTrial
					lambda = math.Max(lambda/10, 1e-12)
					if decrease <= tol*sse || sse == 0 {
						return p, nil
					}
					break
				}
			}
			lambda *= 10
			if lambda > 1e12 {
				// Damped to a halt: the gradient no longer yields a
				// productive step.
				return p, nil
			}
			if evals >= maxFev {
				return p, ErrNoConvergence
			}
		}
	}
	return p, ErrNoConvergence
}

// solveLinear solves a dense square system by Gaussian elimination with
// partial pivoting. The inputs are overwritten.
func solveLinear(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	rhs := append([]float64(nil), b...)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-300 {
			return nil, errors.New("optim: singular system")
		}
		a[col], a[pivot] = a[pivot], a[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]

		inv := 1 / a[col][col]
		for row := col + 1; row < n; row++ {
			factor := a[row][col] * inv
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			rhs[row] -= factor * rhs[col]
		}
	}
	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		s := rhs[row]
		for k := row + 1; k < n; k++ {
			s -= a[row][k] * x[k]
		}
		x[row] = s / a[row][row]
	}
	return x, nil
}
