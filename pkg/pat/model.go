package pat

import (
	"math"

	"github.com/OpenDotLab/dottune/pkg/physics"
)

// Params is the parameter vector of the barrier model.
type Params struct {
	XOffset  float64 // scan-coordinate offset, typically mV
	LeverArm float64 // scan coordinate to detuning conversion, ueV per scan unit
	Coupling float64 // tunnel coupling t, ueV
}

// Model evaluates the barrier model
//
//	y = sqrt(((x - x0) * leverarm)^2 + 4*t^2) * UeVToHz
//
// elementwise over x, returning predicted resonance frequencies in Hz. The
// model depends on the coupling only through its square, so the sign of
// Coupling never affects the output. Non-finite inputs propagate to the
// output; nothing is trapped.
func Model(x []float64, p Params) []float64 {
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = ModelAt(xi, p)
	}
	return y
}

// ModelAt evaluates the barrier model at a single scan coordinate.
func ModelAt(x float64, p Params) float64 {
	d := (x - p.XOffset) * p.LeverArm
	return math.Sqrt(d*d+4*p.Coupling*p.Coupling) * physics.UeVToHz
}
