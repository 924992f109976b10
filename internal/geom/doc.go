// Package geom provides the 2-D value types used throughout the simulator.
//
//   - [Point]: a position in the plane
//   - [Vector]: a displacement, used for velocities and forces
//
// Both are immutable values backed by gonum's r2.Vec arithmetic.
package geom
