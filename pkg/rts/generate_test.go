package rts

import (
	"math"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.Samples = 1000

	a, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at sample %d: %v vs %v", i, a[i], b[i])
		}
	}

	opts.Seed = 2
	c, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical traces")
	}
}

func TestGenerateLevelsWithoutNoise(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.Samples = 5000
	opts.GaussianStd = 0
	opts.UniformNoise = 0

	data, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, v := range data {
		if v != 0 && v != 1 {
			t.Fatalf("sample %d = %v, want 0 or 1 without noise", i, v)
		}
	}
}

func TestGenerateStationaryFraction(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.Samples = 200000
	opts.GaussianStd = 0
	opts.UniformNoise = 0
	opts.Seed = 3

	data, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	frac := sum / float64(len(data))

	// Stationary up fraction is rateUp/(rateUp+rateDown) = 0.4.
	if math.Abs(frac-0.4) > 0.05 {
		t.Fatalf("up fraction = %v, want close to 0.4", frac)
	}
}

func TestGenerateValidation(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.Samples = 0
	if _, err := Generate(opts); err == nil {
		t.Error("zero samples should fail")
	}

	opts = DefaultGenerateOptions()
	opts.SampleRate = 0
	if _, err := Generate(opts); err == nil {
		t.Error("zero sample rate should fail")
	}

	opts = DefaultGenerateOptions()
	opts.RateUp = -1
	if _, err := Generate(opts); err == nil {
		t.Error("negative rate should fail")
	}
}
