package base

import (
	"fmt"
	"math"
	"math/rand"
)

// SO2State is a planar rotation, stored as an angle in radians. The
// canonical representative lives in (-pi, pi]; arithmetic performed by the
// space re-wraps into that range.
type SO2State struct {
	Value float64
}

// NewSO2State creates an SO(2) state from an angle in radians. The angle is
// stored as given; use SO2StateSpace.EnforceBounds to canonicalize.
func NewSO2State(angle float64) *SO2State {
	return &SO2State{Value: angle}
}

// Copy returns an independent copy of the state.
func (s *SO2State) Copy() State {
	return &SO2State{Value: s.Value}
}

// SO2StateSpace is the circle of planar rotations under the arc-length
// metric.
type SO2StateSpace struct{}

// NewSO2StateSpace creates an SO(2) space.
func NewSO2StateSpace() *SO2StateSpace {
	return &SO2StateSpace{}
}

// wrapAngle maps an angle into the canonical range (-pi, pi].
func wrapAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	} else if theta > math.Pi {
		theta -= 2 * math.Pi
	}
	return theta
}

func (ss *SO2StateSpace) so2(s State) *SO2State {
	a, ok := s.(*SO2State)
	if !ok {
		panic(fmt.Sprintf("state of type %T is not an SO2State", s))
	}
	return a
}

// Distance returns the shortest arc length between two rotations, in
// [0, pi].
func (ss *SO2StateSpace) Distance(a, b State) float64 {
	return math.Abs(wrapAngle(ss.so2(a).Value - ss.so2(b).Value))
}

// Interpolate walks the shorter arc from one rotation toward the other, so
// by=1 lands on the target angle modulo wrapping.
func (ss *SO2StateSpace) Interpolate(from, to State, by float64) State {
	if by < 0 {
		by = 0
	} else if by > 1 {
		by = 1
	}
	f := ss.so2(from).Value
	diff := wrapAngle(ss.so2(to).Value - f)
	return &SO2State{Value: wrapAngle(f + by*diff)}
}

// SampleUniform draws a uniformly random rotation.
func (ss *SO2StateSpace) SampleUniform(rnd *rand.Rand) State {
	return &SO2State{Value: wrapAngle(-math.Pi + rnd.Float64()*2*math.Pi)}
}

// EnforceBounds wraps the angle into (-pi, pi].
func (ss *SO2StateSpace) EnforceBounds(s State) State {
	return &SO2State{Value: wrapAngle(ss.so2(s).Value)}
}

// SatisfiesBounds reports whether the angle is finite and already canonical.
func (ss *SO2StateSpace) SatisfiesBounds(s State) bool {
	a, ok := s.(*SO2State)
	if !ok {
		return false
	}
	return !math.IsNaN(a.Value) && !math.IsInf(a.Value, 0) && a.Value > -math.Pi && a.Value <= math.Pi
}

// EqualStates reports whether two rotations are within tol of each other.
func (ss *SO2StateSpace) EqualStates(a, b State, tol float64) bool {
	return ss.Distance(a, b) < tol
}
