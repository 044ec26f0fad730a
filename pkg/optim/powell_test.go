package optim

import (
	"math"
	"testing"
)

func rosenbrock(v []float64) float64 {
	a := 1 - v[0]
	b := v[1] - v[0]*v[0]
	return a*a + 100*b*b
}

func TestPowellSeparableQuadratic(t *testing.T) {
	f := func(v []float64) float64 {
		return (v[0]-1)*(v[0]-1) + (v[1]+0.5)*(v[1]+0.5) + (v[2]-2)*(v[2]-2)
	}
	res, err := Powell(f, []float64{0, 0, 0}, nil)
	if err != nil {
		t.Fatalf("Powell returned error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, got %+v", res)
	}
	want := []float64{1, -0.5, 2}
	for i, w := range want {
		if math.Abs(res.X[i]-w) > 1e-6 {
			t.Fatalf("X[%d] = %v, want %v", i, res.X[i], w)
		}
	}
}

func TestPowellRosenbrock(t *testing.T) {
	res, err := Powell(rosenbrock, []float64{-1.2, 1}, nil)
	if err != nil {
		t.Fatalf("Powell returned error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, got %+v", res)
	}
	if math.Abs(res.X[0]-1) > 1e-3 || math.Abs(res.X[1]-1) > 1e-3 {
		t.Fatalf("X = %v, want [1 1]", res.X)
	}
}

func TestPowellIterationBudget(t *testing.T) {
	res, err := Powell(rosenbrock, []float64{-1.2, 1}, &PowellOptions{MaxIterations: 1})
	if err != nil {
		t.Fatalf("Powell returned error: %v", err)
	}
	if res.Converged {
		t.Fatalf("expected truncated run to report Converged=false")
	}
	if res.Iterations != 1 {
		t.Fatalf("Iterations = %d, want 1", res.Iterations)
	}
}

func TestPowellEmptyStart(t *testing.T) {
	if _, err := Powell(rosenbrock, nil, nil); err == nil {
		t.Fatalf("expected error for empty starting point")
	}
}

func TestPowellDoesNotMutateStart(t *testing.T) {
	x0 := []float64{-1.2, 1}
	if _, err := Powell(rosenbrock, x0, nil); err != nil {
		t.Fatalf("Powell returned error: %v", err)
	}
	if x0[0] != -1.2 || x0[1] != 1 {
		t.Fatalf("starting point mutated: %v", x0)
	}
}
