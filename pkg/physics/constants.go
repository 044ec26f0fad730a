// Package physics provides the physical constants used to convert between
// energy and frequency units in quantum-dot transport measurements.
//
// The values are the exact SI defining constants from the 2019 redefinition,
// so derived conversion factors are reproducible bit for bit.
package physics

const (
	// ElementaryCharge is the elementary charge e in coulomb.
	ElementaryCharge = 1.602176634e-19

	// PlanckConstant is the Planck constant h in joule-second.
	PlanckConstant = 6.62607015e-34
)

// UeVToHz converts an energy in micro-electronvolt to the equivalent photon
// frequency in hertz (e/h scaled by 1e-6, roughly 241.8 MHz per ueV).
const UeVToHz = ElementaryCharge / PlanckConstant * 1e-6
