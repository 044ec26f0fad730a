package robust

import (
	"math"
	"testing"
)

func TestBlakeZissermanShape(t *testing.T) {
	if got := BlakeZisserman.Eval(0, 1); got != 0 {
		t.Fatalf("BZ(0) = %v, want 0", got)
	}

	// At x = thr = 1 the cost is 1 - log(2) + log(1+1/e).
	want := 1 - math.Log(2) + math.Log(1+math.Exp(-1))
	if got := BlakeZisserman.Eval(1, 1); math.Abs(got-want) > 1e-12 {
		t.Fatalf("BZ(1) = %v, want %v", got, want)
	}

	// Far beyond the threshold the cost saturates at thr^2 + log(1+e^-thr^2).
	sat := 1 + math.Log(1+math.Exp(-1))
	if got := BlakeZisserman.Eval(100, 1); math.Abs(got-sat) > 1e-12 {
		t.Fatalf("BZ(100) = %v, want saturation %v", got, sat)
	}

	if a, b, c := BlakeZisserman.Eval(0.5, 1), BlakeZisserman.Eval(1, 1), BlakeZisserman.Eval(2, 1); !(a < b && b < c) {
		t.Fatalf("BZ not increasing: %v %v %v", a, b, c)
	}
}

func TestHuberContinuity(t *testing.T) {
	if got := Huber.Eval(0.5, 1); got != 0.25 {
		t.Fatalf("Huber(0.5) = %v, want 0.25", got)
	}
	if got := Huber.Eval(2, 1); got != 3 {
		t.Fatalf("Huber(2) = %v, want 3", got)
	}
	// Quadratic and linear branches agree at the threshold.
	inside := Huber.Eval(math.Nextafter(1, 0), 1)
	outside := Huber.Eval(math.Nextafter(1, 2), 1)
	if math.Abs(inside-outside) > 1e-12 {
		t.Fatalf("Huber discontinuous at threshold: %v vs %v", inside, outside)
	}
}

func TestScaledNorms(t *testing.T) {
	if got := L1.Eval(-3, 2); got != 1.5 {
		t.Fatalf("L1(-3, 2) = %v, want 1.5", got)
	}
	if got := L2.Eval(3, 2); got != 2.25 {
		t.Fatalf("L2(3, 2) = %v, want 2.25", got)
	}
	want := 0.5 * math.Log(2)
	if got := Cauchy.Eval(1, 1); math.Abs(got-want) > 1e-12 {
		t.Fatalf("Cauchy(1, 1) = %v, want %v", got, want)
	}
}

func TestParseCost(t *testing.T) {
	for _, name := range []string{"bz", "l1", "l2", "huber", "cauchy"} {
		c, err := ParseCost(name)
		if err != nil {
			t.Fatalf("ParseCost(%q) returned error: %v", name, err)
		}
		if c.String() != name {
			t.Fatalf("round trip %q -> %q", name, c.String())
		}
	}
	if _, err := ParseCost("tukey"); err == nil {
		t.Fatalf("expected error for unknown cost name")
	}
}
