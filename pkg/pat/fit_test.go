package pat

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func synthClean(t *testing.T, truth Params) (x, y []float64) {
	t.Helper()
	opts := DefaultSynthOptions()
	opts.Samples = 120
	x, y, err := Synthesize(truth, opts)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	return x, y
}

func TestFitBarrierRecoversSyntheticParams(t *testing.T) {
	truth := Params{XOffset: 0.5, LeverArm: 40, Coupling: 20}
	x, y := synthClean(t, truth)

	guess := Params{XOffset: 1.0, LeverArm: 38, Coupling: 30}
	res, err := FitBarrier(x, y, guess, nil)
	if err != nil {
		t.Fatalf("FitBarrier returned error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, got %+v", res)
	}
	checkRel(t, "XOffset", res.Params.XOffset, truth.XOffset, 1e-3)
	checkRel(t, "LeverArm", res.Params.LeverArm, truth.LeverArm, 1e-3)
	checkRel(t, "Coupling", res.Params.Coupling, truth.Coupling, 1e-3)
	if res.Score > res.InitialScore {
		t.Fatalf("pipeline worsened the score: %v -> %v", res.InitialScore, res.Score)
	}
}

func TestFitBarrierWithCurveFitSeed(t *testing.T) {
	truth := Params{XOffset: -0.3, LeverArm: 45, Coupling: 12}
	x, y := synthClean(t, truth)

	guess := Params{XOffset: 0, LeverArm: 40, Coupling: 20}
	res, err := FitBarrier(x, y, guess, &FitOptions{CurveFit: true})
	if err != nil {
		t.Fatalf("FitBarrier returned error: %v", err)
	}
	checkRel(t, "XOffset", res.Params.XOffset, truth.XOffset, 1e-3)
	checkRel(t, "LeverArm", res.Params.LeverArm, truth.LeverArm, 1e-3)
	checkRel(t, "Coupling", res.Params.Coupling, truth.Coupling, 1e-3)
}

func TestFitBarrierCouplingBeyondGridCollapses(t *testing.T) {
	// With the true coupling far outside [0, 100] every residual saturates
	// the robust loss, the landscape is flat, and the result stays inside
	// the grid instead of reaching the true value.
	truth := Params{XOffset: 0, LeverArm: 40, Coupling: 400}
	x, y := synthClean(t, truth)

	guess := Params{XOffset: 0, LeverArm: 40, Coupling: 30}
	res, err := FitBarrier(x, y, guess, nil)
	if err != nil {
		t.Fatalf("FitBarrier returned error: %v", err)
	}
	if res.Params.Coupling < -10 || res.Params.Coupling > 110 {
		t.Fatalf("Coupling = %v, want a value collapsed into the grid range [0, 100]", res.Params.Coupling)
	}
	if math.Abs(res.Params.Coupling-truth.Coupling) < 100 {
		t.Fatalf("Coupling = %v unexpectedly close to the out-of-range truth %v", res.Params.Coupling, truth.Coupling)
	}
}

func TestFitBarrierWeightScaleInvariance(t *testing.T) {
	truth := Params{XOffset: 0.5, LeverArm: 40, Coupling: 20}
	x, y := synthClean(t, truth)
	guess := Params{XOffset: 1.0, LeverArm: 38, Coupling: 30}

	w1 := make([]float64, len(x))
	w2 := make([]float64, len(x))
	for i := range w1 {
		w1[i] = 1
		w2[i] = 3
	}
	r1, err := FitBarrier(x, y, guess, &FitOptions{Weights: w1})
	if err != nil {
		t.Fatalf("FitBarrier returned error: %v", err)
	}
	r2, err := FitBarrier(x, y, guess, &FitOptions{Weights: w2})
	if err != nil {
		t.Fatalf("FitBarrier returned error: %v", err)
	}
	if math.Abs(r1.Params.XOffset-r2.Params.XOffset) > 1e-6 ||
		math.Abs(r1.Params.LeverArm-r2.Params.LeverArm) > 1e-6 ||
		math.Abs(r1.Params.Coupling-r2.Params.Coupling) > 1e-6 {
		t.Fatalf("weight scaling changed the optimum: %+v vs %+v", r1.Params, r2.Params)
	}
}

func TestFitBarrierInputValidation(t *testing.T) {
	p := Params{XOffset: 0, LeverArm: 40, Coupling: 10}
	if _, err := FitBarrier(nil, nil, p, nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := FitBarrier([]float64{1, 2}, []float64{1}, p, nil); err == nil {
		t.Fatalf("expected error for mismatched x/y lengths")
	}
	opts := &FitOptions{Weights: []float64{1}}
	if _, err := FitBarrier([]float64{1, 2}, []float64{1, 2}, p, opts); err == nil {
		t.Fatalf("expected error for mismatched weights length")
	}
}

func TestFitBarrierVerboseTrace(t *testing.T) {
	truth := Params{XOffset: 0.5, LeverArm: 40, Coupling: 20}
	x, y := synthClean(t, truth)

	var buf bytes.Buffer
	_, err := FitBarrier(x, y, Params{XOffset: 1, LeverArm: 38, Coupling: 30}, &FitOptions{Verbose: 2, Trace: &buf})
	if err != nil {
		t.Fatalf("FitBarrier returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "fit barrier:") {
		t.Fatalf("trace output missing stage reports: %q", out)
	}
	if strings.Count(out, "\n") < 3 {
		t.Fatalf("expected per-stage and summary lines, got %q", out)
	}
}

func checkRel(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if rel := math.Abs(got-want) / math.Abs(want); rel > tol {
		t.Fatalf("%s = %v, want %v (rel err %g > %g)", name, got, want, rel, tol)
	}
}
