package metrics

import (
	"github.com/san-kum/gravsim/internal/physics"
)

// Snapshot evaluates the conserved quantities of the current state. The
// keys are the column names written to a run's metrics.csv.
func Snapshot(bodies *physics.Bodies, g, softening float64) map[string]float64 {
	ps := bodies.Particles()
	vs := bodies.Velocities()

	ke := physics.KineticEnergy(ps, vs)
	pe := physics.PotentialEnergy(ps, g, softening)
	px, py := physics.Momentum(ps, vs)
	com, _ := physics.CenterOfMass(ps)

	return map[string]float64{
		"kinetic":          ke,
		"potential":        pe,
		"energy":           ke + pe,
		"px":               px,
		"py":               py,
		"angular_momentum": physics.AngularMomentum(ps, vs),
		"com_x":            com.X,
		"com_y":            com.Y,
	}
}

type Metric interface {
	Name() string
	Observe(step int, bodies *physics.Bodies)
	Value() float64
	Reset()
}

// Standard returns the drift metrics attached to every run.
func Standard(g, softening float64) []Metric {
	return []Metric{
		NewEnergyDrift(g, softening),
		NewMomentumDrift(),
		NewAngularMomentumDrift(),
	}
}
