package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

// Plane evaluates forces with gonum's Barnes-Hut plane. It shares the pair
// force and softening of the other variants, so it serves as a reference for
// BarnesHut.
type Plane struct {
	cfg Config
}

func NewPlane(cfg Config) (*Plane, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Plane{cfg: cfg}, nil
}

func (p *Plane) Name() string   { return "gonum" }
func (p *Plane) Config() Config { return p.cfg }

type planeParticle struct {
	coord r2.Vec
	mass  float64
}

func (pp *planeParticle) Coord2() r2.Vec { return pp.coord }
func (pp *planeParticle) Mass() float64  { return pp.mass }

func (p *Plane) Forces(bodies []physics.Particle) []geom.Vector {
	n := len(bodies)
	out := make([]geom.Vector, n)
	if n <= 1 {
		return out
	}

	particles := make([]barneshut.Particle2, n)
	for i, b := range bodies {
		particles[i] = &planeParticle{coord: b.Position().Vec(), mass: b.Mass().Value()}
	}

	plane := barneshut.Plane{Particles: particles}
	if err := plane.Reset(); err != nil {
		// gonum refuses coincident particles; an unbuilt plane falls back to
		// direct summation.
		plane = barneshut.Plane{Particles: particles}
	}

	force := p.pairForce()
	forEach(n, p.cfg.Workers, func(i int) {
		out[i] = geom.VectorOf(plane.ForceOn(particles[i], p.cfg.Theta, force))
	})
	return out
}

func (p *Plane) pairForce() barneshut.Force2 {
	g := p.cfg.G
	eps2 := p.cfg.Softening * p.cfg.Softening
	return func(_, _ barneshut.Particle2, m1, m2 float64, v r2.Vec) r2.Vec {
		d2 := r2.Norm2(v)
		if d2 == 0 {
			return r2.Vec{}
		}
		return r2.Scale(g*m1*m2/((d2+eps2)*math.Sqrt(d2)), v)
	}
}
