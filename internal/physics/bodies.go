package physics

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/geom"
)

// Bodies owns an ordered set of bodies. Order is stable: the i-th body keeps
// index i, and its ID, for the lifetime of the collection.
type Bodies struct {
	items []*Body
	view  []Particle
}

func NewBodies() *Bodies {
	return &Bodies{items: make([]*Body, 0)}
}

// Add validates and appends a new body.
func (bs *Bodies) Add(mass float64, position geom.Point, velocity geom.Vector) (*Body, error) {
	m, err := NewMass(mass)
	if err != nil {
		return nil, err
	}
	if !position.IsFinite() || !velocity.IsFinite() {
		return nil, fmt.Errorf("%w: body %d", ErrNonFinite, len(bs.items))
	}

	b := &Body{
		id:       ID(len(bs.items)),
		mass:     m,
		position: position,
		velocity: velocity,
	}
	bs.items = append(bs.items, b)
	bs.view = append(bs.view, b)
	return b, nil
}

// Clone appends a copy of b. The copy has the same state and a new identity.
func (bs *Bodies) Clone(b *Body) *Body {
	c, _ := bs.Add(b.mass.Value(), b.position, b.velocity)
	return c
}

func (bs *Bodies) Len() int { return len(bs.items) }

func (bs *Bodies) At(i int) *Body { return bs.items[i] }

func (bs *Bodies) Get(id ID) (*Body, bool) {
	if id < 0 || int(id) >= len(bs.items) {
		return nil, false
	}
	return bs.items[id], true
}

// All returns the bodies in order. The slice is shared; do not append to it.
func (bs *Bodies) All() []*Body { return bs.items }

// Particles returns the read-only view handed to force fields.
func (bs *Bodies) Particles() []Particle { return bs.view }

func (bs *Bodies) Positions() []geom.Point {
	out := make([]geom.Point, len(bs.items))
	for i, b := range bs.items {
		out[i] = b.position
	}
	return out
}

func (bs *Bodies) Velocities() []geom.Vector {
	out := make([]geom.Vector, len(bs.items))
	for i, b := range bs.items {
		out[i] = b.velocity
	}
	return out
}
