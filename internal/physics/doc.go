// Package physics provides the entities being simulated.
//
//   - [Mass]: a strictly positive scalar, validated at construction
//   - [Body]: a point mass with a mutable position and velocity
//   - [Bodies]: the ordered collection that owns bodies and mints their IDs
//   - [Particle]: the read-only view of a body consumed by force fields
//
// Body identity is referential: two bodies with identical state are still
// distinct. Identity is carried by the [ID] handle assigned by the owning
// [Bodies] collection, never by comparing values.
//
// # Conserved Quantities
//
// [Momentum], [AngularMomentum] and [Energy] summarise a body set and are
// used to check integrator behaviour over long runs:
//
//	px, py := physics.Momentum(bodies.Particles(), bodies.Velocities())
package physics
