// Package base defines the building blocks of a sampling-based motion
// planning problem: states and state spaces, goal regions, validity
// checkers, motion validation, problem definitions, and solution paths.
//
// A state space bundles the metric, interpolation, sampling, and bounds
// logic for one kind of configuration manifold. Planners in the geometric
// package operate generically over the StateSpace interface and never
// inspect concrete state types.
package base
