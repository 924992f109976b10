package physics

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/geom"
)

// ID is a stable handle into the Bodies collection that created a body.
type ID int

// Particle is the read-only view of a body that force fields consume.
type Particle interface {
	Mass() Mass
	Position() geom.Point
}

// Body represents a movable point mass.
type Body struct {
	id       ID
	mass     Mass
	position geom.Point
	velocity geom.Vector
}

func (b *Body) ID() ID                { return b.id }
func (b *Body) Mass() Mass            { return b.mass }
func (b *Body) Position() geom.Point  { return b.position }
func (b *Body) Velocity() geom.Vector { return b.velocity }

// Equal compares identity, not state. Only meaningful for bodies owned by
// the same collection.
func (b *Body) Equal(other *Body) bool {
	return other != nil && b.id == other.id
}

// ApplyForce converts a force into a velocity change over one time step.
func (b *Body) ApplyForce(f geom.Vector) {
	b.velocity = b.velocity.Add(f.Scale(1 / b.mass.Value()))
}

// ApplyVelocity advances the position by one time step.
func (b *Body) ApplyVelocity() {
	b.position = b.position.Add(b.velocity)
}

func (b *Body) Momentum() geom.Vector {
	return b.velocity.Scale(b.mass.Value())
}

func (b *Body) String() string {
	return fmt.Sprintf("#%d M(%s) P(%g, %g) V(%g, %g)",
		b.id, b.mass, b.position.X, b.position.Y, b.velocity.DX, b.velocity.DY)
}
