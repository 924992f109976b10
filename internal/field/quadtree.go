package field

import (
	"math"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

const (
	// boundsPad widens the root square so no body sits on its outer edge.
	boundsPad    = 1e-3
	boundsPadAbs = 1e-9
)

// Quadrant bits: east when x >= center.X, north when y >= center.Y.
const (
	southWest = 0b00
	southEast = 0b01
	northWest = 0b10
	northEast = 0b11
)

// node is a square region of the quadtree. A node with count == 0 is empty,
// one with body >= 0 is a leaf, anything else is internal. A leaf at the
// depth cap may hold several bodies chained through quadtree.next.
type node struct {
	center   geom.Point
	half     float64
	mass     float64
	com      geom.Point
	body     int32
	count    int32
	depth    int32
	children [4]int32 // 0 means absent; the root is never a child
}

func (n *node) leaf() bool { return n.body >= 0 }

// contains reports whether p lies in the node's square, edges included.
func (n *node) contains(p geom.Point) bool {
	return math.Abs(p.X-n.center.X) <= n.half && math.Abs(p.Y-n.center.Y) <= n.half
}

func (n *node) absorb(p geom.Point, m float64) {
	total := n.mass + m
	n.com = geom.Point{
		X: (n.com.X*n.mass + p.X*m) / total,
		Y: (n.com.Y*n.mass + p.Y*m) / total,
	}
	n.mass = total
	n.count++
}

// quadtree is an arena of nodes addressed by index. build discards the
// previous contents and keeps the backing arrays.
type quadtree struct {
	nodes    []node
	next     []int32
	pos      []geom.Point
	mass     []float64
	maxDepth int32
}

func newQuadtree(maxDepth int) *quadtree {
	return &quadtree{maxDepth: int32(maxDepth)}
}

func (t *quadtree) build(bodies []physics.Particle) {
	n := len(bodies)
	t.nodes = t.nodes[:0]
	t.pos = grow(t.pos, n)
	t.mass = grow(t.mass, n)
	t.next = grow(t.next, n)
	if n == 0 {
		return
	}

	for i, b := range bodies {
		t.pos[i] = b.Position()
		t.mass[i] = b.Mass().Value()
	}

	center, half := bounds(t.pos)
	t.nodes = append(t.nodes, node{center: center, half: half, body: -1})

	for i := 0; i < n; i++ {
		t.insert(int32(i))
	}
}

func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// bounds returns the smallest padded square enclosing every point.
func bounds(pos []geom.Point) (geom.Point, float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	center := geom.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
	half := math.Max(maxX-minX, maxY-minY) / 2
	if !(half > 0) {
		return center, 1
	}
	return center, half*(1+boundsPad) + boundsPadAbs
}

func quadrant(center, p geom.Point) int {
	q := southWest
	if p.X >= center.X {
		q |= southEast
	}
	if p.Y >= center.Y {
		q |= northWest
	}
	return q
}

// child returns the index of quadrant q of node n, creating it if needed.
// Appending may move the arena, so callers must re-take node pointers.
func (t *quadtree) child(n int32, q int) int32 {
	if c := t.nodes[n].children[q]; c != 0 {
		return c
	}
	parent := t.nodes[n]
	h := parent.half / 2
	c := geom.Point{X: parent.center.X - h, Y: parent.center.Y - h}
	if q&southEast != 0 {
		c.X = parent.center.X + h
	}
	if q&northWest != 0 {
		c.Y = parent.center.Y + h
	}
	t.nodes = append(t.nodes, node{center: c, half: h, body: -1, depth: parent.depth + 1})
	idx := int32(len(t.nodes) - 1)
	t.nodes[n].children[q] = idx
	return idx
}

func (t *quadtree) place(n, b int32) {
	nd := &t.nodes[n]
	nd.body = b
	nd.mass = t.mass[b]
	nd.com = t.pos[b]
	nd.count = 1
	t.next[b] = -1
}

func (t *quadtree) insert(b int32) {
	p, m := t.pos[b], t.mass[b]
	n := int32(0)

	for {
		nd := &t.nodes[n]
		if nd.count == 0 {
			t.place(n, b)
			return
		}

		if nd.leaf() {
			if nd.depth >= t.maxDepth {
				// Coincident (or nearly so) bodies: merge into this leaf.
				t.next[b] = t.next[nd.body]
				t.next[nd.body] = b
				nd.absorb(p, m)
				return
			}
			old := nd.body
			nd.body = -1
			c := t.child(n, quadrant(t.nodes[n].center, t.pos[old]))
			t.place(c, old)
			nd = &t.nodes[n]
		}

		nd.absorb(p, m)
		n = t.child(n, quadrant(nd.center, p))
	}
}

// forceOn walks the tree for body i. stack is scratch space and is returned
// for reuse.
func (t *quadtree) forceOn(i int32, theta, g, eps2 float64, stack []int32) (geom.Vector, []int32) {
	var f geom.Vector
	if len(t.nodes) == 0 {
		return f, stack
	}
	p, m := t.pos[i], t.mass[i]

	stack = append(stack[:0], 0)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := &t.nodes[n]

		switch {
		case nd.count == 0:
		case nd.leaf() && nd.count == 1:
			if nd.body != i {
				f = f.Add(pairForce(g, eps2, m, p, nd.mass, nd.com))
			}
		case nd.leaf():
			f = f.Add(t.mergedForce(n, i, g, eps2))
		default:
			dx, dy := nd.com.X-p.X, nd.com.Y-p.Y
			d := math.Sqrt(dx*dx + dy*dy)
			// the aggregate of a node around body i includes i itself
			if d > 0 && 2*nd.half/d < theta && !nd.contains(p) {
				f = f.Add(pairForce(g, eps2, m, p, nd.mass, nd.com))
				continue
			}
			for _, c := range nd.children {
				if c != 0 && t.nodes[c].count > 0 {
					stack = append(stack, c)
				}
			}
		}
	}
	return f, stack
}

// mergedForce handles a leaf at the depth cap: outsiders see the aggregate,
// members interact pairwise with the other members.
func (t *quadtree) mergedForce(n, i int32, g, eps2 float64) geom.Vector {
	p, m := t.pos[i], t.mass[i]
	nd := &t.nodes[n]
	inside := false
	for b := nd.body; b >= 0; b = t.next[b] {
		if b == i {
			inside = true
			break
		}
	}

	if !inside {
		return pairForce(g, eps2, m, p, nd.mass, nd.com)
	}

	var f geom.Vector
	for b := nd.body; b >= 0; b = t.next[b] {
		if b != i {
			f = f.Add(pairForce(g, eps2, m, p, t.mass[b], t.pos[b]))
		}
	}
	return f
}
