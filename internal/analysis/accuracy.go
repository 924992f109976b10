package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

// Accuracy summarises how far a candidate field's forces are from a
// reference field's on the same body set.
type Accuracy struct {
	Reference string
	Candidate string
	Bodies    int

	// Per-body relative error |Fc - Fr| / |Fr|. Bodies with a zero
	// reference force are left out.
	Mean   float64
	StdDev float64
	Median float64
	Max    float64

	// Aggregate is sqrt(sum |Fc - Fr|^2 / sum |Fr|^2).
	Aggregate float64

	ReferenceTime time.Duration
	CandidateTime time.Duration
}

// Speedup is how many times faster the candidate ran.
func (a Accuracy) Speedup() float64 {
	if a.CandidateTime <= 0 {
		return 0
	}
	return float64(a.ReferenceTime) / float64(a.CandidateTime)
}

func timed(f field.Field, bodies []physics.Particle) ([]geom.Vector, time.Duration) {
	start := time.Now()
	out := f.Forces(bodies)
	return out, time.Since(start)
}

// Compare evaluates both fields once on bodies.
func Compare(reference, candidate field.Field, bodies []physics.Particle) Accuracy {
	ref, refTime := timed(reference, bodies)
	got, gotTime := timed(candidate, bodies)

	acc := Summarize(ref, got)
	acc.Reference = reference.Name()
	acc.Candidate = candidate.Name()
	acc.Bodies = len(bodies)
	acc.ReferenceTime = refTime
	acc.CandidateTime = gotTime
	return acc
}

// RelativeErrors returns |got[i] - ref[i]| / |ref[i]| for every body whose
// reference force is non-zero.
func RelativeErrors(ref, got []geom.Vector) []float64 {
	errs := make([]float64, 0, len(ref))
	for i, r := range ref {
		n := r.Norm()
		if n == 0 {
			continue
		}
		errs = append(errs, got[i].Sub(r).Norm()/n)
	}
	return errs
}

// Summarize computes the error statistics of got against ref.
func Summarize(ref, got []geom.Vector) Accuracy {
	var acc Accuracy

	errs := RelativeErrors(ref, got)
	if len(errs) > 0 {
		if len(errs) > 1 {
			acc.Mean, acc.StdDev = stat.MeanStdDev(errs, nil)
		} else {
			acc.Mean = errs[0]
		}
		acc.Max = floats.Max(errs)

		sorted := append([]float64(nil), errs...)
		sort.Float64s(sorted)
		acc.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}

	num := make([]float64, len(ref))
	den := make([]float64, len(ref))
	for i := range ref {
		num[i] = got[i].Sub(ref[i]).Norm2()
		den[i] = ref[i].Norm2()
	}
	if d := floats.Sum(den); d > 0 {
		acc.Aggregate = math.Sqrt(floats.Sum(num) / d)
	}
	return acc
}
