package field

import (
	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

// BruteForce sums every pair exactly.
type BruteForce struct {
	cfg Config
}

func NewBruteForce(cfg Config) (*BruteForce, error) {
	if err := cfg.validatePair(); err != nil {
		return nil, err
	}
	return &BruteForce{cfg: cfg}, nil
}

func (b *BruteForce) Name() string   { return "bruteforce" }
func (b *BruteForce) Config() Config { return b.cfg }

func (b *BruteForce) Forces(bodies []physics.Particle) []geom.Vector {
	n := len(bodies)
	out := make([]geom.Vector, n)
	if n <= 1 {
		return out
	}

	pos := make([]geom.Point, n)
	mass := make([]float64, n)
	for i, p := range bodies {
		pos[i] = p.Position()
		mass[i] = p.Mass().Value()
	}

	g := b.cfg.G
	eps2 := b.cfg.Softening * b.cfg.Softening

	if b.cfg.Workers > 1 {
		forEach(n, b.cfg.Workers, func(i int) {
			var f geom.Vector
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				f = f.Add(pairForce(g, eps2, mass[i], pos[i], mass[j], pos[j]))
			}
			out[i] = f
		})
		return out
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f := pairForce(g, eps2, mass[i], pos[i], mass[j], pos[j])
			out[i] = out[i].Add(f)
			out[j] = out[j].Sub(f)
		}
	}
	return out
}
