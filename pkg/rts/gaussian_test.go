package rts

import (
	"math"
	"testing"
)

func TestGaussianValues(t *testing.T) {
	if got := Gaussian(0, 0, 1, 2); got != 2 {
		t.Fatalf("Gaussian(0,0,1,2) = %v, want 2", got)
	}
	want := 2 * math.Exp(-0.5)
	if got := Gaussian(1, 0, 1, 2); math.Abs(got-want) > 1e-15 {
		t.Fatalf("Gaussian(1,0,1,2) = %v, want %v", got, want)
	}
	if got := Gaussian(3, 3, 0.5, 7); got != 7 {
		t.Fatalf("Gaussian at its mean = %v, want the amplitude 7", got)
	}
}

func TestDoubleGaussianSum(t *testing.T) {
	p := DoubleGaussParams{AmpDown: 3, AmpUp: 5, SigmaDown: 1, SigmaUp: 2, MeanDown: -1, MeanUp: 4}
	want := Gaussian(0.5, -1, 1, 3) + Gaussian(0.5, 4, 2, 5)
	if got := DoubleGaussian(0.5, p); got != want {
		t.Fatalf("DoubleGaussian(0.5) = %v, want %v", got, want)
	}
}

func TestFitDoubleGaussianRecovery(t *testing.T) {
	truth := DoubleGaussParams{
		AmpDown: 100, AmpUp: 80,
		SigmaDown: 0.8, SigmaUp: 0.8,
		MeanDown: 0, MeanUp: 5,
	}
	n := 45
	centres := make([]float64, n)
	counts := make([]float64, n)
	for i := range centres {
		centres[i] = -3 + 11*float64(i)/float64(n-1)
		counts[i] = DoubleGaussian(centres[i], truth)
	}

	par, gs, err := FitDoubleGaussian(centres, counts)
	if err != nil {
		t.Fatalf("FitDoubleGaussian: %v", err)
	}
	if par.MeanDown > par.MeanUp {
		t.Errorf("means not ordered: down %v, up %v", par.MeanDown, par.MeanUp)
	}
	if math.Abs(par.MeanDown-truth.MeanDown) > 1e-4 {
		t.Errorf("MeanDown = %v, want %v", par.MeanDown, truth.MeanDown)
	}
	if math.Abs(par.MeanUp-truth.MeanUp) > 1e-4 {
		t.Errorf("MeanUp = %v, want %v", par.MeanUp, truth.MeanUp)
	}
	if math.Abs(math.Abs(par.SigmaDown)-truth.SigmaDown) > 1e-3 {
		t.Errorf("SigmaDown = %v, want %v", par.SigmaDown, truth.SigmaDown)
	}
	if math.Abs(math.Abs(par.SigmaUp)-truth.SigmaUp) > 1e-3 {
		t.Errorf("SigmaUp = %v, want %v", par.SigmaUp, truth.SigmaUp)
	}
	if math.Abs(par.AmpDown-truth.AmpDown) > 0.1 {
		t.Errorf("AmpDown = %v, want %v", par.AmpDown, truth.AmpDown)
	}
	if math.Abs(par.AmpUp-truth.AmpUp) > 0.1 {
		t.Errorf("AmpUp = %v, want %v", par.AmpUp, truth.AmpUp)
	}

	wantSep := 5.0 / 1.6
	if math.Abs(gs.Separation-wantSep) > 1e-3 {
		t.Errorf("Separation = %v, want %v", gs.Separation, wantSep)
	}
	wantSplit := par.MeanDown + gs.Separation*math.Abs(par.SigmaDown)
	if math.Abs(gs.Split-wantSplit) > 1e-12 {
		t.Errorf("Split = %v, want %v", gs.Split, wantSplit)
	}
}

func TestFitDoubleGaussianArguments(t *testing.T) {
	if _, _, err := FitDoubleGaussian([]float64{1, 2, 3}, []float64{1, 2}); err == nil {
		t.Error("length mismatch should fail")
	}
	if _, _, err := FitDoubleGaussian([]float64{1, 2, 3}, []float64{1, 2, 3}); err == nil {
		t.Error("too few bins should fail")
	}
}
