package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/physics"
)

type SweepPoint struct {
	Theta float64
	Nodes int
	Accuracy
}

// Thetas returns n evenly spaced opening thresholds in [min, max].
func Thetas(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}
	return floats.Span(make([]float64, n), min, max)
}

// ThetaSweep compares Barnes-Hut at each theta against brute force on the
// same bodies. base supplies G, softening, depth and workers. The brute
// force forces are computed once.
func ThetaSweep(bodies []physics.Particle, base field.Config, thetas []float64) ([]SweepPoint, error) {
	bf, err := field.NewBruteForce(base)
	if err != nil {
		return nil, err
	}
	ref, refTime := timed(bf, bodies)

	points := make([]SweepPoint, 0, len(thetas))
	for _, theta := range thetas {
		cfg := base
		cfg.Theta = theta
		bh, err := field.NewBarnesHut(cfg)
		if err != nil {
			return nil, err
		}

		got, gotTime := timed(bh, bodies)
		acc := Summarize(ref, got)
		acc.Reference = bf.Name()
		acc.Candidate = bh.Name()
		acc.Bodies = len(bodies)
		acc.ReferenceTime = refTime
		acc.CandidateTime = gotTime

		points = append(points, SweepPoint{Theta: theta, Nodes: bh.NodeCount(), Accuracy: acc})
	}
	return points, nil
}
