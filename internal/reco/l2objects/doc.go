// Package l2objects owns Layer 2 (Objects) of the event reconstruction model.
//
// Responsibilities: the immutable PhysicsObject kinematic record, the
// generic ordered Collection of shared object handles, and the four-vector
// arithmetic (ΔR, invariant and transverse mass) the higher layers build on.
// Key types: PhysicsObject, Collection, Kinematic.
//
// Dependency rule: L2 may depend on era and L1, but never on L3+.
package l2objects
