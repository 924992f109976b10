package field

import (
	"math"
	"math/rand"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

// fataler is satisfied by *testing.T and GinkgoT().
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

func randomBodies(rng *rand.Rand, n int) *physics.Bodies {
	bs := physics.NewBodies()
	for i := 0; i < n; i++ {
		_, err := bs.Add(
			0.1+rng.Float64()*10,
			geom.NewPoint(rng.NormFloat64()*50, rng.NormFloat64()*50),
			geom.Zero(),
		)
		if err != nil {
			panic(err)
		}
	}
	return bs
}

func bodiesAt(t fataler, masses []float64, pts ...geom.Point) *physics.Bodies {
	t.Helper()
	bs := physics.NewBodies()
	for i, p := range pts {
		if _, err := bs.Add(masses[i], p, geom.Zero()); err != nil {
			t.Fatalf("add body %d: %v", i, err)
		}
	}
	return bs
}

func mustBarnesHut(t fataler, theta float64) *BarnesHut {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Theta = theta
	bh, err := NewBarnesHut(cfg)
	if err != nil {
		t.Fatalf("new barnes-hut: %v", err)
	}
	return bh
}

func mustBruteForce(t fataler) *BruteForce {
	t.Helper()
	bf, err := NewBruteForce(DefaultConfig())
	if err != nil {
		t.Fatalf("new brute force: %v", err)
	}
	return bf
}

// maxRelativeError compares got against the reference force per body.
func maxRelativeError(got, want []geom.Vector) float64 {
	worst := 0.0
	for i := range want {
		diff := got[i].Sub(want[i]).Norm()
		ref := want[i].Norm()
		if ref == 0 {
			if diff > worst {
				worst = diff
			}
			continue
		}
		worst = math.Max(worst, diff/ref)
	}
	return worst
}

// aggregateRelativeError is sum|got-want| / sum|want|.
func aggregateRelativeError(got, want []geom.Vector) float64 {
	var num, den float64
	for i := range want {
		num += got[i].Sub(want[i]).Norm()
		den += want[i].Norm()
	}
	if den == 0 {
		return num
	}
	return num / den
}
