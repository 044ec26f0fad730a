// Package pat estimates tunnel-barrier parameters from photon-assisted
// tunneling (PAT) measurements on quantum-dot devices.
//
// A PAT measurement scans a gate voltage across an inter-dot transition while
// driving the device with microwaves; the resonance frequency traces out a
// hyperbola whose minimum gap is set by the tunnel coupling. This package
// fits that hyperbola.
//
// # Overview
//
// The pipeline has three layers:
//   - Model: the closed-form resonance frequency for a parameter vector
//     (offset, lever arm, tunnel coupling)
//   - Score: a robust misfit metric between measured and modeled response,
//     resistant to the outliers that background charge switches produce
//   - FitBarrier: a fixed multi-stage driver (optional least-squares seed,
//     coarse grids over coupling and offset, two Powell refinements)
//
// # Usage
//
//	p0 := pat.Params{XOffset: 0, LeverArm: 40, Coupling: 10}
//	res, err := pat.FitBarrier(x, y, p0, nil)
//	if err != nil {
//		// invalid input shapes or a failed optional curve fit
//	}
//	fmt.Printf("coupling %.2f ueV (score %.4g)\n", res.Params.Coupling, res.Score)
//
// The x array carries the scan coordinate (typically mV on a gate), y the
// measured resonance frequency in Hz. Synthesize produces artificial
// measurements for testing and demos.
//
// # Limitations
//
//   - The coarse stage searches the coupling only inside [0, 100] ueV. A true
//     coupling far outside that interval saturates the robust loss, leaving
//     the landscape flat, and the result collapses into the grid rather than
//     reporting an error.
//   - The pipeline is single-shot and stateless; callers that fit many curves
//     can run fits concurrently, but one call never parallelizes internally.
package pat
