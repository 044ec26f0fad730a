// Package optim provides the derivative-free minimizers and the nonlinear
// least-squares routine used by the fitting pipelines.
//
// # Overview
//
// The package offers four building blocks:
//   - Brute: exhaustive evaluation on an evenly spaced inclusive grid
//   - BracketMinimum / Brent: one-dimensional bracketing and minimization
//   - Powell: multidimensional direction-set minimization without derivatives
//   - CurveFit: Levenberg-Marquardt least squares with numerical derivatives
//
// All routines are synchronous and allocation-light; objective functions are
// plain closures and may capture whatever state the caller needs. None of the
// routines inspect or trap non-finite objective values: NaN and Inf propagate
// through the comparisons, which keeps degenerate landscapes from looping
// forever but can stall progress. Callers that need convergence guarantees
// should check the Converged flag on the returned result.
//
// # Usage
//
//	best, _, err := optim.Brute(f, []optim.Range{{Min: 0, Max: 100}}, 20)
//	res, err := optim.Powell(f, best, nil)
//	if err == nil && res.Converged {
//		// res.X holds the refined minimizer
//	}
package optim
