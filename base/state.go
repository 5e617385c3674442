package base

import "math/rand"

// State is a single configuration in a state space. States are immutable by
// convention; operations that produce new configurations return fresh values
// rather than mutating their inputs.
type State interface {
	// Copy returns a State equal to and independent of the receiver.
	Copy() State
}

// StateSpace is the capability set a planner needs from a configuration
// manifold. Implementations must make Distance symmetric and non-negative,
// Interpolate a continuous parameterization with Interpolate(a,b,0)=a and
// Interpolate(a,b,1)=b, and SampleUniform uniform under the space's natural
// measure.
//
// Methods take the interface type and panic if handed a state of the wrong
// concrete type; mixing states across spaces is a programmer error, not a
// runtime condition.
type StateSpace interface {
	// Distance returns the metric distance between two states.
	Distance(a, b State) float64

	// Interpolate returns the state a fraction by along the geodesic from
	// one state to the other. by is clamped to [0, 1].
	Interpolate(from, to State, by float64) State

	// SampleUniform draws a state uniformly from the space using the
	// caller's RNG. Planners own their RNGs, so sampling stays
	// deterministic under a fixed seed.
	SampleUniform(rnd *rand.Rand) State

	// EnforceBounds maps a state onto the legal manifold: clamping for
	// bounded vector spaces, angle wrapping for SO(2), renormalization for
	// SO(3).
	EnforceBounds(s State) State

	// SatisfiesBounds reports whether the state already lies on the
	// manifold within tolerance.
	SatisfiesBounds(s State) bool

	// EqualStates reports metric equality within tol, honoring the space's
	// equivalence (antipodal quaternions compare equal).
	EqualStates(a, b State, tol float64) bool
}
