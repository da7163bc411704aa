// Package metrics implements sim.Metric reductions over the floe list
// using a Name/Observe/Value/Reset contract.
package metrics

import (
	"math"

	"github.com/san-kum/subzero/internal/floe"
)

// EnergyDrift tracks the largest relative change in total kinetic energy
// (translational + rotational) from the first observed step, a proxy for
// integrator error accumulating over a run.
type EnergyDrift struct {
	initialEnergy float64
	samples       int
	maxDrift      float64
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(floes []*floe.Floe, t float64) {
	energy := totalKineticEnergy(floes)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++
	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		if drift > e.maxDrift {
			e.maxDrift = drift
		}
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.samples = 0
	e.maxDrift = 0
}

func totalKineticEnergy(floes []*floe.Floe) float64 {
	var total float64
	for _, f := range floes {
		if f.IsGhost() {
			continue
		}
		total += 0.5*f.Mass*(f.U*f.U+f.V*f.V) + 0.5*f.Moment*f.Xi*f.Xi
	}
	return total
}
