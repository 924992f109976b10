package metrics

import (
	"github.com/san-kum/gravsim/internal/physics"
)

// Stability is the fraction of observed states in which every body is
// finite and inside a square of half-width threshold around the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(_ int, bodies *physics.Bodies) {
	s.samples++
	for _, p := range bodies.Positions() {
		if !p.IsFinite() || p.X > s.threshold || p.X < -s.threshold || p.Y > s.threshold || p.Y < -s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
