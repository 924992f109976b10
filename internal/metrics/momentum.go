package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/physics"
)

// MomentumDrift tracks the largest absolute change in total linear
// momentum. Absolute rather than relative since the initial momentum is
// often zero.
type MomentumDrift struct {
	px0, py0 float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(_ int, bodies *physics.Bodies) {
	px, py := physics.Momentum(bodies.Particles(), bodies.Velocities())
	if m.samples == 0 {
		m.px0, m.py0 = px, py
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Hypot(px-m.px0, py-m.py0))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.px0, m.py0 = 0, 0
	m.maxDrift = 0
	m.samples = 0
}

// AngularMomentumDrift tracks the largest absolute change in angular
// momentum about the origin.
type AngularMomentumDrift struct {
	l0       float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift { return &AngularMomentumDrift{} }

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(_ int, bodies *physics.Bodies) {
	l := physics.AngularMomentum(bodies.Particles(), bodies.Velocities())
	if a.samples == 0 {
		a.l0 = l
	}
	a.samples++
	a.maxDrift = math.Max(a.maxDrift, math.Abs(l-a.l0))
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.l0 = 0
	a.maxDrift = 0
	a.samples = 0
}
