// Package scenario builds deterministic initial body sets.
//
// Every generator is a pure function of its [Params]: the same seed always
// produces the same bodies in the same order. Velocities are expressed per
// unit time step, so orbital speeds are kept small relative to separations.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

var (
	ErrUnknown  = errors.New("scenario: unknown scenario")
	ErrRadius   = errors.New("scenario: radius must be positive")
	ErrNoBodies = errors.New("scenario: explicit scenario lists no bodies")
)

type Params struct {
	Count       int
	Seed        int64
	Radius      float64
	Mass        float64
	CentralMass float64
	// G is used to derive orbital velocities.
	G      float64
	Bodies []BodySpec
}

type BodySpec struct {
	Mass   float64
	X, Y   float64
	VX, VY float64
}

type Generator func(p Params) (*physics.Bodies, error)

var generators = map[string]Generator{
	"pair":     Pair,
	"binary":   Binary,
	"disk":     Disk,
	"cluster":  Cluster,
	"grid":     Grid,
	"explicit": Explicit,
}

func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Lookup(name string) (Generator, error) {
	gen, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return gen, nil
}

func Generate(name string, p Params) (*physics.Bodies, error) {
	gen, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return gen(p)
}

func checkRadius(p Params) error {
	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		return fmt.Errorf("%w, got %v", ErrRadius, p.Radius)
	}
	return nil
}

type builder struct {
	bodies *physics.Bodies
	err    error
}

func (b *builder) add(mass float64, pos geom.Point, vel geom.Vector) {
	if b.err != nil {
		return
	}
	_, b.err = b.bodies.Add(mass, pos, vel)
}

func (b *builder) done() (*physics.Bodies, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.bodies, nil
}

func newBuilder() *builder { return &builder{bodies: physics.NewBodies()} }

// Pair places two bodies at rest, Radius apart on the x axis.
func Pair(p Params) (*physics.Bodies, error) {
	if err := checkRadius(p); err != nil {
		return nil, err
	}
	b := newBuilder()
	b.add(p.Mass, geom.Origin(), geom.Zero())
	b.add(p.Mass, geom.NewPoint(p.Radius, 0), geom.Zero())
	return b.done()
}

// Binary places two equal masses on a circular mutual orbit of separation
// Radius around the origin.
func Binary(p Params) (*physics.Bodies, error) {
	if err := checkRadius(p); err != nil {
		return nil, err
	}
	half := p.Radius / 2
	v := 0.5 * math.Sqrt(p.G*2*p.Mass/p.Radius)

	b := newBuilder()
	b.add(p.Mass, geom.NewPoint(-half, 0), geom.NewVector(0, -v))
	b.add(p.Mass, geom.NewPoint(half, 0), geom.NewVector(0, v))
	return b.done()
}

// Disk places Count bodies on circular orbits around an optional central
// mass. Orbital speed uses the central mass plus the disk mass enclosed
// within the body's radius.
func Disk(p Params) (*physics.Bodies, error) {
	if err := checkRadius(p); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(p.Seed))
	b := newBuilder()

	if p.CentralMass > 0 {
		b.add(p.CentralMass, geom.Origin(), geom.Zero())
	}

	diskMass := float64(p.Count) * p.Mass
	inner := 0.2 * p.Radius
	for i := 0; i < p.Count; i++ {
		r := inner + (p.Radius-inner)*math.Sqrt(rng.Float64())
		angle := rng.Float64() * 2 * math.Pi

		frac := r / p.Radius
		enclosed := p.CentralMass + diskMass*frac*frac
		v := math.Sqrt(p.G * enclosed / r)

		pos := geom.NewPoint(r*math.Cos(angle), r*math.Sin(angle))
		vel := geom.NewVector(-v*math.Sin(angle), v*math.Cos(angle))
		b.add(p.Mass, pos, vel)
	}
	return b.done()
}

// Cluster places Count bodies at rest in a Gaussian blob with standard
// deviation Radius/2.
func Cluster(p Params) (*physics.Bodies, error) {
	if err := checkRadius(p); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(p.Seed))
	sigma := p.Radius / 2

	b := newBuilder()
	for i := 0; i < p.Count; i++ {
		pos := geom.NewPoint(rng.NormFloat64()*sigma, rng.NormFloat64()*sigma)
		b.add(p.Mass, pos, geom.Zero())
	}
	return b.done()
}

// Grid places Count bodies at rest on a square lattice spanning
// [-Radius, Radius], filled row by row from the bottom left.
func Grid(p Params) (*physics.Bodies, error) {
	if err := checkRadius(p); err != nil {
		return nil, err
	}
	b := newBuilder()
	if p.Count == 0 {
		return b.done()
	}

	side := int(math.Ceil(math.Sqrt(float64(p.Count))))
	spacing := 0.0
	if side > 1 {
		spacing = 2 * p.Radius / float64(side-1)
	}

	for i := 0; i < p.Count; i++ {
		col, row := i%side, i/side
		pos := geom.NewPoint(-p.Radius+float64(col)*spacing, -p.Radius+float64(row)*spacing)
		b.add(p.Mass, pos, geom.Zero())
	}
	return b.done()
}

// Explicit builds exactly the listed bodies.
func Explicit(p Params) (*physics.Bodies, error) {
	if len(p.Bodies) == 0 {
		return nil, ErrNoBodies
	}
	b := newBuilder()
	for _, s := range p.Bodies {
		b.add(s.Mass, geom.NewPoint(s.X, s.Y), geom.NewVector(s.VX, s.VY))
	}
	return b.done()
}
