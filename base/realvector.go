package base

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/rossng/oxmpl/utils"
)

// Bound is a closed interval limiting one axis of a real-vector space.
type Bound struct {
	Lo float64
	Hi float64
}

// RealVectorState is a point in R^n.
type RealVectorState struct {
	Values []float64
}

// NewRealVectorState creates a real-vector state from an ordered sequence of
// components. The slice is copied.
func NewRealVectorState(values []float64) *RealVectorState {
	v := make([]float64, len(values))
	copy(v, values)
	return &RealVectorState{Values: v}
}

// Copy returns an independent copy of the state.
func (s *RealVectorState) Copy() State {
	return NewRealVectorState(s.Values)
}

// RealVectorStateSpace is an axis-aligned box in R^n under the Euclidean
// metric. Distance ignores the bounds; sampling and EnforceBounds honor them.
type RealVectorStateSpace struct {
	bounds []Bound
}

// NewRealVectorStateSpace creates a bounded R^n space. One bound is required
// per dimension and each must satisfy Lo <= Hi.
func NewRealVectorStateSpace(dimension int, bounds []Bound) (*RealVectorStateSpace, error) {
	if dimension <= 0 {
		return nil, errors.Errorf("real-vector space dimension must be positive, got %d", dimension)
	}
	if len(bounds) != dimension {
		return nil, errors.Errorf("expected %d bounds, got %d", dimension, len(bounds))
	}
	b := make([]Bound, dimension)
	copy(b, bounds)
	for i, bound := range b {
		if bound.Lo > bound.Hi {
			return nil, errors.Errorf("bound %d has lower limit %f above upper limit %f", i, bound.Lo, bound.Hi)
		}
	}
	return &RealVectorStateSpace{bounds: b}, nil
}

// Dimension returns the number of components of states in this space.
func (ss *RealVectorStateSpace) Dimension() int {
	return len(ss.bounds)
}

// Bounds returns a copy of the per-axis limits.
func (ss *RealVectorStateSpace) Bounds() []Bound {
	b := make([]Bound, len(ss.bounds))
	copy(b, ss.bounds)
	return b
}

func (ss *RealVectorStateSpace) rv(s State) *RealVectorState {
	rv, ok := s.(*RealVectorState)
	if !ok {
		panic(fmt.Sprintf("state of type %T is not a RealVectorState", s))
	}
	if len(rv.Values) != len(ss.bounds) {
		panic(fmt.Sprintf("state has %d components but space has dimension %d", len(rv.Values), len(ss.bounds)))
	}
	return rv
}

// Distance returns the Euclidean L2 distance between two states.
func (ss *RealVectorStateSpace) Distance(a, b State) float64 {
	return floats.Distance(ss.rv(a).Values, ss.rv(b).Values, 2)
}

// Interpolate returns the componentwise linear interpolation between two
// states.
func (ss *RealVectorStateSpace) Interpolate(from, to State, by float64) State {
	by = utils.Clamp(by, 0, 1)
	f, t := ss.rv(from), ss.rv(to)
	out := make([]float64, len(f.Values))
	for i, v := range f.Values {
		out[i] = v + by*(t.Values[i]-v)
	}
	return &RealVectorState{Values: out}
}

// SampleUniform draws each component independently uniformly within its
// bounds.
func (ss *RealVectorStateSpace) SampleUniform(rnd *rand.Rand) State {
	out := make([]float64, len(ss.bounds))
	for i, b := range ss.bounds {
		out[i] = b.Lo + rnd.Float64()*(b.Hi-b.Lo)
	}
	return &RealVectorState{Values: out}
}

// EnforceBounds clamps each component into its bound.
func (ss *RealVectorStateSpace) EnforceBounds(s State) State {
	in := ss.rv(s)
	out := make([]float64, len(in.Values))
	for i, v := range in.Values {
		out[i] = utils.Clamp(v, ss.bounds[i].Lo, ss.bounds[i].Hi)
	}
	return &RealVectorState{Values: out}
}

// SatisfiesBounds reports whether every component lies within its bound.
func (ss *RealVectorStateSpace) SatisfiesBounds(s State) bool {
	rv, ok := s.(*RealVectorState)
	if !ok || len(rv.Values) != len(ss.bounds) {
		return false
	}
	for i, v := range rv.Values {
		if v < ss.bounds[i].Lo || v > ss.bounds[i].Hi {
			return false
		}
	}
	return true
}

// EqualStates reports whether two states are within tol of each other.
func (ss *RealVectorStateSpace) EqualStates(a, b State, tol float64) bool {
	return ss.Distance(a, b) < tol
}
