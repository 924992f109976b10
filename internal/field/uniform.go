package field

import (
	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

// Uniform applies the same acceleration to every body, so the force on a
// body is proportional to its mass.
type Uniform struct {
	Acceleration geom.Vector
}

func NewUniform(ax, ay float64) *Uniform {
	return &Uniform{Acceleration: geom.NewVector(ax, ay)}
}

func (u *Uniform) Name() string { return "uniform" }

func (u *Uniform) Forces(bodies []physics.Particle) []geom.Vector {
	out := make([]geom.Vector, len(bodies))
	for i, b := range bodies {
		out[i] = u.Acceleration.Scale(b.Mass().Value())
	}
	return out
}
