package field

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

func netForce(forces []geom.Vector) geom.Vector {
	var sum geom.Vector
	for _, f := range forces {
		sum = sum.Add(f)
	}
	return sum
}

var _ = Describe("Gravitational fields", func() {
	var (
		bodies *physics.Bodies
		bf     *BruteForce
	)

	BeforeEach(func() {
		bodies = randomBodies(rand.New(rand.NewSource(2024)), 400)

		var err error
		bf, err = NewBruteForce(DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("BruteForce", func() {
		It("has no net internal force", func() {
			forces := bf.Forces(bodies.Particles())
			scale := 0.0
			for _, f := range forces {
				scale += f.Norm()
			}
			Expect(netForce(forces).Norm()).To(BeNumerically("<", 1e-12*scale))
		})

		It("is independent of body order for each body", func() {
			forward := bf.Forces(bodies.Particles())

			reversed := physics.NewBodies()
			for i := bodies.Len() - 1; i >= 0; i-- {
				reversed.Clone(bodies.At(i))
			}
			backward := bf.Forces(reversed.Particles())

			n := bodies.Len()
			for i := range forward {
				Expect(forward[i].Sub(backward[n-1-i]).Norm()).To(BeNumerically("<", 1e-9*(1+forward[i].Norm())))
			}
		})
	})

	Describe("BarnesHut", func() {
		DescribeTable("converges to BruteForce as theta shrinks",
			func(theta, tolerance float64) {
				bh, err := NewBarnesHut(Config{
					G:         DefaultG,
					Softening: DefaultSoftening,
					Theta:     theta,
					MaxDepth:  DefaultMaxDepth,
				})
				Expect(err).NotTo(HaveOccurred())

				got := bh.Forces(bodies.Particles())
				want := bf.Forces(bodies.Particles())
				Expect(aggregateRelativeError(got, want)).To(BeNumerically("<", tolerance))
			},
			Entry("theta 0.8", 0.8, 0.1),
			Entry("theta 0.5", 0.5, 0.05),
			Entry("theta 0.1", 0.1, 1e-3),
			Entry("theta 0.01", 0.01, 1e-5),
		)

		It("builds a fresh tree on every call", func() {
			bh := mustBarnesHut(GinkgoT(), 0.5)
			first := bh.Forces(bodies.Particles())
			firstNodes := bh.NodeCount()

			small := randomBodies(rand.New(rand.NewSource(1)), 3)
			Expect(bh.Forces(small.Particles())).To(HaveLen(3))
			Expect(bh.NodeCount()).To(BeNumerically("<", firstNodes))

			Expect(bh.Forces(bodies.Particles())).To(Equal(first))
		})

		It("treats translated systems identically", func() {
			bh := mustBarnesHut(GinkgoT(), 0.01)

			shifted := physics.NewBodies()
			offset := geom.NewVector(1000, -250)
			for _, b := range bodies.All() {
				_, err := shifted.Add(b.Mass().Value(), b.Position().Add(offset), geom.Zero())
				Expect(err).NotTo(HaveOccurred())
			}

			a := bh.Forces(bodies.Particles())
			b := bh.Forces(shifted.Particles())
			Expect(aggregateRelativeError(b, a)).To(BeNumerically("<", 1e-4))
		})
	})

	Describe("Sum", func() {
		It("adds a uniform field without disturbing gravity", func() {
			u := NewUniform(0.25, 0)
			total := Sum(bf, u).Forces(bodies.Particles())
			gravity := bf.Forces(bodies.Particles())

			for i, b := range bodies.All() {
				extra := total[i].Sub(gravity[i])
				Expect(extra.DX).To(BeNumerically("~", 0.25*b.Mass().Value(), 1e-9))
			}
		})
	})
})
