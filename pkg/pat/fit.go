package pat

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenDotLab/dottune/pkg/optim"
	"github.com/OpenDotLab/dottune/pkg/robust"
)

// Fixed search geometry of the coarse stages.
const (
	couplingGridMin     = 0.0
	couplingGridMax     = 100.0
	offsetGridHalfWidth = 2.0
	gridSamples         = 20
)

// FitOptions configures FitBarrier. A nil *FitOptions selects the defaults:
// unweighted, DefaultThreshold, Blake-Zisserman cost, no curve-fit seeding,
// silent.
type FitOptions struct {
	Weights   []float64   // optional per-sample weights
	Threshold float64     // robustness threshold, <= 0 selects DefaultThreshold
	Cost      robust.Cost // robust transform, zero value is robust.BlakeZisserman
	CurveFit  bool        // seed with an unconstrained least-squares fit
	Verbose   int         // 0 silent, 1 summary line, 2 per-stage reports
	Trace     io.Writer   // verbose output destination, default os.Stdout
}

// FitResult carries the refined parameters and fit diagnostics.
type FitResult struct {
	Params       Params
	Score        float64 // score at the refined parameters
	InitialScore float64 // score at the starting vector, after optional curve fit
	Iterations   int     // Powell iterations over both refinement passes
	FuncEvals    int     // objective evaluations over both refinement passes
	Converged    bool    // both Powell passes met their tolerances
}

// FitBarrier estimates the barrier-model parameters for the samples (x, y)
// starting from the guess p0.
//
// The stages run in a fixed order, each starting from the best vector so
// far: an optional least-squares curve fit of the model, a coarse grid
// search of the coupling over [0, 100] ueV with 20 samples, a coarse grid
// search of the offset over a +-2 window around the current offset with 20
// samples, then two successive Powell refinements of all three parameters.
// The second Powell pass restarts from the first to escape shallow optima.
//
// A true coupling outside the grid interval makes the coarse stage settle on
// a grid value it cannot improve; that is accepted behavior, not an error.
// Optimizer non-convergence is reported through FitResult.Converged, never
// as an error. Errors are limited to invalid input shapes and a failed
// optional curve fit.
func FitBarrier(x, y []float64, p0 Params, opts *FitOptions) (FitResult, error) {
	n := len(x)
	if n == 0 {
		return FitResult{}, errors.New("pat: invalid input: no samples")
	}
	if len(y) != n {
		return FitResult{}, fmt.Errorf("pat: invalid input: x has %d samples, y has %d", n, len(y))
	}
	var o FitOptions
	if opts != nil {
		o = *opts
	}
	if o.Weights != nil && len(o.Weights) != n {
		return FitResult{}, fmt.Errorf("pat: invalid input: %d weights for %d samples", len(o.Weights), n)
	}
	if o.Trace == nil {
		o.Trace = os.Stdout
	}
	so := &ScoreOptions{Weights: o.Weights, Threshold: o.Threshold, Cost: o.Cost}

	p := p0
	if o.CurveFit {
		seed := []float64{p0.XOffset, p0.LeverArm, p0.Coupling}
		fitted, err := optim.CurveFit(func(xi float64, pv []float64) float64 {
			return ModelAt(xi, Params{XOffset: pv[0], LeverArm: pv[1], Coupling: pv[2]})
		}, x, y, seed, nil)
		if err != nil {
			return FitResult{}, fmt.Errorf("pat: curve fit: %w", err)
		}
		p = Params{XOffset: fitted[0], LeverArm: fitted[1], Coupling: fitted[2]}
	}

	initial := Score(x, y, p, so)
	refined := p

	// Coarse grid over the coupling, offset and lever arm held fixed.
	grid, _, err := optim.Brute(func(v []float64) float64 {
		return Score(x, y, Params{XOffset: p.XOffset, LeverArm: p.LeverArm, Coupling: v[0]}, so)
	}, []optim.Range{{Min: couplingGridMin, Max: couplingGridMax}}, gridSamples)
	if err != nil {
		return FitResult{}, fmt.Errorf("pat: coupling grid: %w", err)
	}
	refined.Coupling = grid[0]
	tracef(o, 2, "fit barrier: %s: %.4f -> %.4f\n", formatParams(refined), initial/1e6, Score(x, y, refined, so)/1e6)

	// Coarse grid over the offset in a window around the current offset,
	// lever arm and the refined coupling held fixed.
	grid, _, err = optim.Brute(func(v []float64) float64 {
		return Score(x, y, Params{XOffset: v[0], LeverArm: p.LeverArm, Coupling: refined.Coupling}, so)
	}, []optim.Range{{Min: p.XOffset - offsetGridHalfWidth, Max: p.XOffset + offsetGridHalfWidth}}, gridSamples)
	if err != nil {
		return FitResult{}, fmt.Errorf("pat: offset grid: %w", err)
	}
	refined.XOffset = grid[0]
	tracef(o, 2, "fit barrier: %s: %.4f -> %.4f\n", formatParams(refined), initial/1e6, Score(x, y, refined, so)/1e6)

	// Two Powell refinements of all three parameters.
	objective := func(v []float64) float64 {
		return Score(x, y, Params{XOffset: v[0], LeverArm: v[1], Coupling: v[2]}, so)
	}
	vec := []float64{refined.XOffset, refined.LeverArm, refined.Coupling}
	converged := true
	var iterations, funcEvals int
	for pass := 1; pass <= 2; pass++ {
		res, err := optim.Powell(objective, vec, nil)
		if err != nil {
			return FitResult{}, fmt.Errorf("pat: refinement pass %d: %w", pass, err)
		}
		vec = res.X
		iterations += res.Iterations
		funcEvals += res.FuncEvals
		converged = converged && res.Converged
		tracef(o, 2, "fit barrier: pass %d: score %.4f, %d iterations\n", pass, res.F/1e6, res.Iterations)
	}
	refined = Params{XOffset: vec[0], LeverArm: vec[1], Coupling: vec[2]}

	final := Score(x, y, refined, so)
	tracef(o, 1, "fit barrier: %.4f -> %.4f\n", initial/1e6, final/1e6)

	return FitResult{
		Params:       refined,
		Score:        final,
		InitialScore: initial,
		Iterations:   iterations,
		FuncEvals:    funcEvals,
		Converged:    converged,
	}, nil
}

func tracef(o FitOptions, level int, format string, args ...any) {
	if o.Verbose >= level {
		fmt.Fprintf(o.Trace, format, args...)
	}
}

func formatParams(p Params) string {
	return fmt.Sprintf("[%.2f %.2f %.2f]", p.XOffset, p.LeverArm, p.Coupling)
}
