package base

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// quatNormTolerance is how far a quaternion's norm may stray from 1 while
// still counting as a unit quaternion, and the dot-product margin below
// which slerp degrades to a linear blend.
const quatNormTolerance = 1e-9

// SO3State is a 3D rotation represented by a unit quaternion (x, y, z, w).
// A quaternion and its negation denote the same rotation.
type SO3State struct {
	X float64
	Y float64
	Z float64
	W float64
}

// NewSO3State creates an SO(3) state from quaternion components. The
// components are stored as given; use SO3StateSpace.EnforceBounds to
// renormalize.
func NewSO3State(x, y, z, w float64) *SO3State {
	return &SO3State{X: x, Y: y, Z: z, W: w}
}

// SO3Identity returns the identity rotation.
func SO3Identity() *SO3State {
	return &SO3State{W: 1}
}

// NewSO3StateFromAxisAngle creates the rotation of angle radians about the
// given axis. The axis need not be normalized; a zero axis yields the
// identity.
func NewSO3StateFromAxisAngle(axis r3.Vector, angle float64) *SO3State {
	if axis.Norm2() == 0 {
		return SO3Identity()
	}
	axis = axis.Normalize()
	s := math.Sin(angle / 2)
	return newSO3StateFromQuat(quat.Number{
		Real: math.Cos(angle / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	})
}

func newSO3StateFromQuat(q quat.Number) *SO3State {
	return &SO3State{X: q.Imag, Y: q.Jmag, Z: q.Kmag, W: q.Real}
}

// Quat returns the state as a gonum quaternion.
func (s *SO3State) Quat() quat.Number {
	return quat.Number{Real: s.W, Imag: s.X, Jmag: s.Y, Kmag: s.Z}
}

// Copy returns an independent copy of the state.
func (s *SO3State) Copy() State {
	c := *s
	return &c
}

func (s *SO3State) norm() float64 {
	return math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z + s.W*s.W)
}

func (s *SO3State) normalized() *SO3State {
	n := s.norm()
	if n == 0 {
		return SO3Identity()
	}
	return &SO3State{X: s.X / n, Y: s.Y / n, Z: s.Z / n, W: s.W / n}
}

// SO3StateSpace is the space of 3D rotations under the angular metric
// 2*acos(|<a,b>|), which identifies antipodal quaternions.
type SO3StateSpace struct{}

// NewSO3StateSpace creates an SO(3) space.
func NewSO3StateSpace() *SO3StateSpace {
	return &SO3StateSpace{}
}

func (ss *SO3StateSpace) so3(s State) *SO3State {
	q, ok := s.(*SO3State)
	if !ok {
		panic(fmt.Sprintf("state of type %T is not an SO3State", s))
	}
	return q
}

func quatDot(a, b *SO3State) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Distance returns the rotation angle between two states, in [0, pi].
func (ss *SO3StateSpace) Distance(a, b State) float64 {
	d := math.Abs(quatDot(ss.so3(a), ss.so3(b)))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// Interpolate performs spherical linear interpolation along the shorter arc.
// Near-parallel quaternions fall back to a renormalized linear blend.
func (ss *SO3StateSpace) Interpolate(from, to State, by float64) State {
	if by < 0 {
		by = 0
	} else if by > 1 {
		by = 1
	}
	a := ss.so3(from)
	b := ss.so3(to)
	dot := quatDot(a, b)
	// Take the shorter arc; q and -q are the same rotation.
	if dot < 0 {
		b = &SO3State{X: -b.X, Y: -b.Y, Z: -b.Z, W: -b.W}
		dot = -dot
	}
	if dot > 1-quatNormTolerance {
		blended := &SO3State{
			X: a.X + by*(b.X-a.X),
			Y: a.Y + by*(b.Y-a.Y),
			Z: a.Z + by*(b.Z-a.Z),
			W: a.W + by*(b.W-a.W),
		}
		return blended.normalized()
	}
	if dot > 1 {
		dot = 1
	}
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-by)*theta) / sinTheta
	wb := math.Sin(by*theta) / sinTheta
	out := &SO3State{
		X: wa*a.X + wb*b.X,
		Y: wa*a.Y + wb*b.Y,
		Z: wa*a.Z + wb*b.Z,
		W: wa*a.W + wb*b.W,
	}
	return out.normalized()
}

// SampleUniform draws a rotation uniformly over SO(3) by rejection sampling
// from the unit 4-ball and projecting onto the 3-sphere.
func (ss *SO3StateSpace) SampleUniform(rnd *rand.Rand) State {
	for {
		q := &SO3State{
			X: -1 + 2*rnd.Float64(),
			Y: -1 + 2*rnd.Float64(),
			Z: -1 + 2*rnd.Float64(),
			W: -1 + 2*rnd.Float64(),
		}
		normSq := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
		if normSq >= 1 || normSq < quatNormTolerance {
			continue
		}
		return q.normalized()
	}
}

// EnforceBounds renormalizes the quaternion; SO(3) has no other bounds.
func (ss *SO3StateSpace) EnforceBounds(s State) State {
	return ss.so3(s).normalized()
}

// SatisfiesBounds reports whether the quaternion is unit-norm within
// tolerance.
func (ss *SO3StateSpace) SatisfiesBounds(s State) bool {
	q, ok := s.(*SO3State)
	if !ok {
		return false
	}
	return math.Abs(q.norm()-1) <= quatNormTolerance
}

// EqualStates reports whether two rotations are within tol of each other,
// treating antipodal quaternions as equal.
func (ss *SO3StateSpace) EqualStates(a, b State, tol float64) bool {
	return ss.Distance(a, b) < tol
}
