package field

import (
	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

// BarnesHut approximates the gravitational field with a quadtree rebuilt on
// every call. Distant groups whose width/distance ratio is below Theta are
// replaced by their total mass at their center of mass.
type BarnesHut struct {
	cfg  Config
	tree *quadtree
}

func NewBarnesHut(cfg Config) (*BarnesHut, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BarnesHut{cfg: cfg, tree: newQuadtree(cfg.MaxDepth)}, nil
}

func (b *BarnesHut) Name() string   { return "barneshut" }
func (b *BarnesHut) Config() Config { return b.cfg }

func (b *BarnesHut) Forces(bodies []physics.Particle) []geom.Vector {
	n := len(bodies)
	out := make([]geom.Vector, n)
	if n <= 1 {
		return out
	}

	b.tree.build(bodies)

	g := b.cfg.G
	eps2 := b.cfg.Softening * b.cfg.Softening
	theta := b.cfg.Theta

	if b.cfg.Workers > 1 {
		forEachChunk(n, b.cfg.Workers, func(lo, hi int) {
			stack := make([]int32, 0, 64)
			for i := lo; i < hi; i++ {
				out[i], stack = b.tree.forceOn(int32(i), theta, g, eps2, stack)
			}
		})
		return out
	}

	stack := make([]int32, 0, 64)
	for i := 0; i < n; i++ {
		out[i], stack = b.tree.forceOn(int32(i), theta, g, eps2, stack)
	}
	return out
}

// NodeCount reports the size of the tree built by the last Forces call.
func (b *BarnesHut) NodeCount() int { return len(b.tree.nodes) }
