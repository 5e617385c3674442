package base

import "math"

// defaultMotionResolutionFloor keeps discretization from degenerating when a
// planner's step size is tiny.
const defaultMotionResolutionFloor = 1e-3

// DiscreteMotionValidator checks candidate motions by interpolating at a
// fixed resolution and testing each intermediate state for validity. The
// endpoints are assumed already validated by the caller.
type DiscreteMotionValidator struct {
	space      StateSpace
	checker    StateValidityChecker
	resolution float64
}

// NewDiscreteMotionValidator creates a motion validator that samples the
// segment every resolution units of metric distance. Resolutions below a
// small floor, including zero and negative values, are raised to it.
func NewDiscreteMotionValidator(space StateSpace, checker StateValidityChecker, resolution float64) *DiscreteMotionValidator {
	if resolution < defaultMotionResolutionFloor {
		resolution = defaultMotionResolutionFloor
	}
	return &DiscreteMotionValidator{space: space, checker: checker, resolution: resolution}
}

// Resolution returns the discretization step in metric distance.
func (v *DiscreteMotionValidator) Resolution() float64 {
	return v.resolution
}

// CheckMotion reports whether every intermediate state along the segment
// from a to b is valid.
func (v *DiscreteMotionValidator) CheckMotion(a, b State) bool {
	ok, _, _ := v.CheckMotionLastValid(a, b)
	return ok
}

// CheckMotionLastValid walks the segment from a to b and returns whether the
// whole motion is valid, together with the furthest state along it known to
// be reachable and its interpolation parameter. On failure the returned
// state is the last valid intermediate (a itself when the first step
// fails), which lets bidirectional planners advance partway.
func (v *DiscreteMotionValidator) CheckMotionLastValid(a, b State) (bool, State, float64) {
	n := int(math.Ceil(v.space.Distance(a, b) / v.resolution))
	if n < 1 {
		n = 1
	}
	last := a
	lastT := 0.0
	for k := 1; k < n; k++ {
		t := float64(k) / float64(n)
		s := v.space.Interpolate(a, b, t)
		if !v.checker.IsValid(s) {
			return false, last, lastT
		}
		last = s
		lastT = t
	}
	return true, b, 1
}
