// Package field computes the net force on every body of a body set.
//
// A [Field] maps an ordered, read-only slice of particles to an index-aligned
// slice of force vectors. Implementations:
//
//   - [BruteForce]: exact pairwise summation, O(N^2)
//   - [BarnesHut]: quadtree approximation with an s/d < theta cutoff
//   - [Plane]: gonum's Barnes-Hut plane, kept as an independent reference
//   - [Uniform]: constant acceleration, for composing with gravity
//
// Several fields combine with [Sum].
//
// # Softening
//
// Every gravitational variant uses the pair force
//
//	|F| = G * m_i * m_j / (d^2 + eps^2)
//
// directed from i towards j. Coincident pairs (d == 0) contribute nothing.
// Because the same eps is used everywhere, BarnesHut converges to BruteForce
// as theta goes to 0. A node whose square contains the body being evaluated
// is always opened, whatever theta, so no body feels its own mass.
//
// # Thread Safety
//
// BarnesHut reuses its node arena between calls and is NOT safe for
// concurrent use. Setting Config.Workers > 1 parallelises the per-body
// evaluation inside a single call.
package field
