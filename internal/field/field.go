package field

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

const (
	DefaultG         = 1.0
	DefaultSoftening = 1e-2
	DefaultTheta     = 0.5
	DefaultMaxDepth  = 48
	DefaultWorkers   = 1
)

var (
	ErrInvalidTheta     = physics.NewPreconditionError("field: theta must be greater than 0")
	ErrInvalidSoftening = physics.NewPreconditionError("field: softening must be finite and >= 0")
	ErrInvalidDepth     = physics.NewPreconditionError("field: max depth must be between 1 and 2^31-1")
	ErrInvalidG         = physics.NewPreconditionError("field: gravitational constant must be finite")
)

// Field produces one net force per particle, in input order. Implementations
// must not mutate the particles and must exclude self-interaction.
type Field interface {
	Name() string
	Forces(bodies []physics.Particle) []geom.Vector
}

type Config struct {
	G         float64
	Softening float64
	// Theta is the Barnes-Hut opening threshold. Ignored by BruteForce.
	Theta    float64
	MaxDepth int
	Workers  int
}

func DefaultConfig() Config {
	return Config{
		G:         DefaultG,
		Softening: DefaultSoftening,
		Theta:     DefaultTheta,
		MaxDepth:  DefaultMaxDepth,
		Workers:   DefaultWorkers,
	}
}

func (c Config) validatePair() error {
	if math.IsNaN(c.G) || math.IsInf(c.G, 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidG, c.G)
	}
	if !(c.Softening >= 0) || math.IsInf(c.Softening, 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidSoftening, c.Softening)
	}
	return nil
}

// Validate checks the full configuration, including the tree parameters.
func (c Config) Validate() error {
	if err := c.validatePair(); err != nil {
		return err
	}
	if !(c.Theta > 0) || math.IsInf(c.Theta, 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidTheta, c.Theta)
	}
	if c.MaxDepth < 1 || int64(c.MaxDepth) > math.MaxInt32 {
		return fmt.Errorf("%w, got %d", ErrInvalidDepth, c.MaxDepth)
	}
	return nil
}

// pairForce is the softened force on a body of mass mi at pi exerted by a
// mass mj at pj.
func pairForce(g, eps2, mi float64, pi geom.Point, mj float64, pj geom.Point) geom.Vector {
	dx := pj.X - pi.X
	dy := pj.Y - pi.Y
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		return geom.Vector{}
	}
	s := g * mi * mj / ((d2 + eps2) * math.Sqrt(d2))
	return geom.Vector{DX: dx * s, DY: dy * s}
}

type sum struct {
	fields []Field
}

// Sum composes fields by adding their outputs per body.
func Sum(fields ...Field) Field {
	if len(fields) == 1 {
		return fields[0]
	}
	return &sum{fields: fields}
}

func (s *sum) Name() string {
	name := ""
	for i, f := range s.fields {
		if i > 0 {
			name += "+"
		}
		name += f.Name()
	}
	return name
}

func (s *sum) Forces(bodies []physics.Particle) []geom.Vector {
	out := make([]geom.Vector, len(bodies))
	for _, f := range s.fields {
		for i, v := range f.Forces(bodies) {
			out[i] = out[i].Add(v)
		}
	}
	return out
}
