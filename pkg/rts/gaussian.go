package rts

import (
	"fmt"
	"math"

	"github.com/OpenDotLab/dottune/pkg/optim"
)

// Gaussian evaluates amplitude * exp(-(x-mean)^2 / (2*sigma^2)).
func Gaussian(x, mean, sigma, amplitude float64) float64 {
	d := (x - mean) / sigma
	return amplitude * math.Exp(-d*d/2)
}

// DoubleGaussParams describes a bimodal histogram as the sum of a down and
// an up gaussian, ordered so MeanDown <= MeanUp.
type DoubleGaussParams struct {
	AmpDown   float64
	AmpUp     float64
	SigmaDown float64
	SigmaUp   float64
	MeanDown  float64
	MeanUp    float64
}

// DoubleGaussian evaluates the sum of the two component gaussians at x.
func DoubleGaussian(x float64, p DoubleGaussParams) float64 {
	return Gaussian(x, p.MeanDown, p.SigmaDown, p.AmpDown) +
		Gaussian(x, p.MeanUp, p.SigmaUp, p.AmpUp)
}

// GaussSplit locates the boundary between the two levels of a fitted double
// gaussian. Separation measures how far apart the means are in units of the
// summed sigmas; Split is the signal value that separates the levels.
type GaussSplit struct {
	Separation float64
	Split      float64
}

// FitDoubleGaussian fits the sum of two gaussians to histogram counts by
// least squares. Initial estimates place one component in each half of the
// histogram. The returned parameters are ordered so MeanDown <= MeanUp.
func FitDoubleGaussian(centres, counts []float64) (DoubleGaussParams, GaussSplit, error) {
	if len(centres) != len(counts) {
		return DoubleGaussParams{}, GaussSplit{}, fmt.Errorf("rts: centres and counts length mismatch (%d vs %d)", len(centres), len(counts))
	}
	if len(centres) < 6 {
		return DoubleGaussParams{}, GaussSplit{}, fmt.Errorf("rts: need at least 6 histogram bins, got %d", len(centres))
	}

	model := func(x float64, p []float64) float64 {
		return Gaussian(x, p[4], p[2], p[0]) + Gaussian(x, p[5], p[3], p[1])
	}
	fitted, err := optim.CurveFit(model, centres, counts, estimateDoubleGaussian(centres, counts), nil)
	if err != nil {
		return DoubleGaussParams{}, GaussSplit{}, fmt.Errorf("rts: double gaussian fit: %w", err)
	}

	par := DoubleGaussParams{
		AmpDown: fitted[0], AmpUp: fitted[1],
		SigmaDown: fitted[2], SigmaUp: fitted[3],
		MeanDown: fitted[4], MeanUp: fitted[5],
	}
	if par.MeanDown > par.MeanUp {
		par = DoubleGaussParams{
			AmpDown: par.AmpUp, AmpUp: par.AmpDown,
			SigmaDown: par.SigmaUp, SigmaUp: par.SigmaDown,
			MeanDown: par.MeanUp, MeanUp: par.MeanDown,
		}
	}

	sep := (par.MeanUp - par.MeanDown) / (math.Abs(par.SigmaDown) + math.Abs(par.SigmaUp))
	split := par.MeanDown + sep*math.Abs(par.SigmaDown)
	return par, GaussSplit{Separation: sep, Split: split}, nil
}

// estimateDoubleGaussian derives starting values from the histogram halves:
// the amplitude and mean of each component from its own half, a shared
// sigma from a twentieth of the spanned range.
func estimateDoubleGaussian(centres, counts []float64) []float64 {
	half := len(counts) / 2
	sigma := (percentile(centres, 98) - percentile(centres, 2)) / 20
	return []float64{
		maxOf(counts[:half]),
		maxOf(counts[half:]),
		sigma,
		sigma,
		weightedMean(centres[:half], counts[:half]),
		weightedMean(centres[half:], counts[half:]),
	}
}
