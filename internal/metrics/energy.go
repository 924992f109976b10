package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/physics"
)

// Energy is the mean total (kinetic + softened potential) energy over all
// observed states.
type Energy struct {
	name        string
	g           float64
	softening   float64
	samples     int
	totalEnergy float64
}

func NewEnergy(g, softening float64) *Energy {
	return &Energy{
		name:      "energy",
		g:         g,
		softening: softening,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(_ int, bodies *physics.Bodies) {
	e.totalEnergy += physics.Energy(bodies.Particles(), bodies.Velocities(), e.g, e.softening)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation |E - E0| / |E0| seen since
// the first observation.
type EnergyDrift struct {
	name          string
	g             float64
	softening     float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g, softening float64) *EnergyDrift {
	return &EnergyDrift{
		name:      "energy_drift",
		g:         g,
		softening: softening,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(_ int, bodies *physics.Bodies) {
	energy := physics.Energy(bodies.Particles(), bodies.Velocities(), e.g, e.softening)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
