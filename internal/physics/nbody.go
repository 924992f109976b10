package physics

import (
	"math"

	"github.com/san-kum/gravsim/internal/geom"
)

// Momentum returns the total linear momentum. velocities is index-aligned
// with ps.
func Momentum(ps []Particle, velocities []geom.Vector) (px, py float64) {
	for i, p := range ps {
		m := p.Mass().Value()
		px += m * velocities[i].DX
		py += m * velocities[i].DY
	}
	return
}

// AngularMomentum about the origin (z component).
func AngularMomentum(ps []Particle, velocities []geom.Vector) float64 {
	L := 0.0
	for i, p := range ps {
		pos := p.Position()
		r := geom.NewVector(pos.X, pos.Y)
		L += p.Mass().Value() * r.Cross(velocities[i])
	}
	return L
}

func CenterOfMass(ps []Particle) (geom.Point, float64) {
	var sx, sy, total float64
	for _, p := range ps {
		m := p.Mass().Value()
		pos := p.Position()
		sx += m * pos.X
		sy += m * pos.Y
		total += m
	}
	if total == 0 {
		return geom.Origin(), 0
	}
	return geom.NewPoint(sx/total, sy/total), total
}

// KineticEnergy of the body set.
func KineticEnergy(ps []Particle, velocities []geom.Vector) float64 {
	ke := 0.0
	for i, p := range ps {
		ke += 0.5 * p.Mass().Value() * velocities[i].Norm2()
	}
	return ke
}

// PotentialEnergy is the potential whose gradient is the softened pair
// force G*m1*m2/(d^2+eps^2): -(G*m1*m2/eps) * (pi/2 - atan(d/eps)).
// With eps == 0 it reduces to -G*m1*m2/d and coincident pairs are skipped.
func PotentialEnergy(ps []Particle, g, softening float64) float64 {
	pe := 0.0
	for i := 0; i < len(ps); i++ {
		mi := ps[i].Mass().Value()
		pi := ps[i].Position()
		for j := i + 1; j < len(ps); j++ {
			d := pi.Distance(ps[j].Position())
			gmm := g * mi * ps[j].Mass().Value()
			if softening == 0 {
				if d > 0 {
					pe -= gmm / d
				}
				continue
			}
			pe -= gmm / softening * (math.Pi/2 - math.Atan(d/softening))
		}
	}
	return pe
}

func Energy(ps []Particle, velocities []geom.Vector, g, softening float64) float64 {
	return KineticEnergy(ps, velocities) + PotentialEnergy(ps, g, softening)
}
