package pat

import (
	"testing"
)

func TestSynthesizeGrid(t *testing.T) {
	p := Params{XOffset: 0, LeverArm: 40, Coupling: 10}
	opts := SynthOptions{XMin: -1, XMax: 1, Samples: 5}
	x, y, err := Synthesize(p, opts)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	wantX := []float64{-1, -0.5, 0, 0.5, 1}
	for i, w := range wantX {
		if x[i] != w {
			t.Fatalf("x[%d] = %v, want %v", i, x[i], w)
		}
		if y[i] != ModelAt(w, p) {
			t.Fatalf("y[%d] = %v, want the model value %v", i, y[i], ModelAt(w, p))
		}
	}
}

func TestSynthesizeNoiseDeterministic(t *testing.T) {
	p := Params{XOffset: 0, LeverArm: 40, Coupling: 10}
	opts := DefaultSynthOptions()
	opts.NoiseStd = 1e8

	_, y1, err := Synthesize(p, opts)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	_, y2, err := Synthesize(p, opts)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	var differs bool
	for i := range y1 {
		if y1[i] != y2[i] {
			t.Fatalf("same seed produced different noise at %d: %v vs %v", i, y1[i], y2[i])
		}
		if y1[i] != ModelAt(-3+6*float64(i)/99, p) {
			differs = true
		}
	}
	if !differs {
		t.Fatalf("noise requested but output matches the clean model")
	}

	opts.Seed = 2
	_, y3, err := Synthesize(p, opts)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	same := true
	for i := range y1 {
		if y1[i] != y3[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical noise")
	}
}

func TestSynthesizeArgumentErrors(t *testing.T) {
	p := Params{}
	if _, _, err := Synthesize(p, SynthOptions{XMin: 0, XMax: 1, Samples: 1}); err == nil {
		t.Fatalf("expected error for too few samples")
	}
	if _, _, err := Synthesize(p, SynthOptions{XMin: 1, XMax: 0, Samples: 10}); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}
