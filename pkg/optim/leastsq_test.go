package optim

import (
	"math"
	"testing"
)

func TestCurveFitExponential(t *testing.T) {
	model := func(x float64, p []float64) float64 {
		return p[0] * math.Exp(p[1]*x)
	}
	xs := make([]float64, 10)
	ys := make([]float64, 10)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = 2 * math.Exp(-0.5*xs[i])
	}
	p, err := CurveFit(model, xs, ys, []float64{1, -1}, nil)
	if err != nil {
		t.Fatalf("CurveFit returned error: %v", err)
	}
	if math.Abs(p[0]-2) > 1e-6 || math.Abs(p[1]+0.5) > 1e-6 {
		t.Fatalf("p = %v, want [2 -0.5]", p)
	}
}

func TestCurveFitPolynomial(t *testing.T) {
	model := func(x float64, p []float64) float64 {
		return p[0] + p[1]*x + p[2]*x*x
	}
	xs := []float64{-2, -1, 0, 1, 2, 3}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 1 - 2*x + 0.5*x*x
	}
	p, err := CurveFit(model, xs, ys, []float64{0, 0, 0}, nil)
	if err != nil {
		t.Fatalf("CurveFit returned error: %v", err)
	}
	want := []float64{1, -2, 0.5}
	for i, w := range want {
		if math.Abs(p[i]-w) > 1e-6 {
			t.Fatalf("p[%d] = %v, want %v", i, p[i], w)
		}
	}
}

func TestCurveFitExactStart(t *testing.T) {
	model := func(x float64, p []float64) float64 { return p[0] * x }
	xs := []float64{1, 2, 3}
	ys := []float64{3, 6, 9}
	p, err := CurveFit(model, xs, ys, []float64{3}, nil)
	if err != nil {
		t.Fatalf("CurveFit returned error: %v", err)
	}
	if p[0] != 3 {
		t.Fatalf("p = %v, want [3]", p)
	}
}

func TestCurveFitArgumentErrors(t *testing.T) {
	model := func(x float64, p []float64) float64 { return p[0] }
	if _, err := CurveFit(model, []float64{1, 2}, []float64{1}, []float64{0}, nil); err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
	if _, err := CurveFit(model, []float64{1}, []float64{1}, nil, nil); err == nil {
		t.Fatalf("expected error for empty parameter vector")
	}
	if _, err := CurveFit(model, []float64{1}, []float64{1}, []float64{0, 0}, nil); err == nil {
		t.Fatalf("expected error for underdetermined system")
	}
	bad := func(x float64, p []float64) float64 { return math.NaN() }
	if _, err := CurveFit(bad, []float64{1, 2}, []float64{1, 2}, []float64{0}, nil); err == nil {
		t.Fatalf("expected error for non-finite residuals at start")
	}
}

func TestSolveLinear(t *testing.T) {
	a := [][]float64{
		{2, 1, -1},
		{-3, -1, 2},
		{-2, 1, 2},
	}
	b := []float64{8, -11, -3}
	x, err := solveLinear(a, b)
	if err != nil {
		t.Fatalf("solveLinear returned error: %v", err)
	}
	want := []float64{2, 3, -1}
	for i, w := range want {
		if math.Abs(x[i]-w) > 1e-12 {
			t.Fatalf("x[%d] = %v, want %v", i, x[i], w)
		}
	}
}

func TestSolveLinearSingular(t *testing.T) {
	a := [][]float64{
		{1, 2},
		{2, 4},
	}
	if _, err := solveLinear(a, []float64{1, 2}); err == nil {
		t.Fatalf("expected error for singular system")
	}
}
