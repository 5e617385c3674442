package base

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestSO3Construction(t *testing.T) {
	id := SO3Identity()
	test.That(t, id.W, test.ShouldAlmostEqual, 1)
	test.That(t, id.X, test.ShouldAlmostEqual, 0)

	q := NewSO3StateFromAxisAngle(r3.Vector{Y: 1}, math.Pi/2)
	test.That(t, q.X, test.ShouldAlmostEqual, 0)
	test.That(t, q.Y, test.ShouldAlmostEqual, math.Sin(math.Pi/4))
	test.That(t, q.Z, test.ShouldAlmostEqual, 0)
	test.That(t, q.W, test.ShouldAlmostEqual, math.Cos(math.Pi/4))

	// A zero axis degenerates to the identity.
	test.That(t, NewSO3StateFromAxisAngle(r3.Vector{}, 1.5).W, test.ShouldAlmostEqual, 1)

	back := q.Quat()
	test.That(t, back.Jmag, test.ShouldAlmostEqual, q.Y)
	test.That(t, back.Real, test.ShouldAlmostEqual, q.W)
}

func TestSO3Distance(t *testing.T) {
	ss := NewSO3StateSpace()

	a := NewSO3StateFromAxisAngle(r3.Vector{Y: 1}, math.Pi/2)
	b := NewSO3StateFromAxisAngle(r3.Vector{Y: 1}, -math.Pi/2)
	test.That(t, ss.Distance(a, b), test.ShouldAlmostEqual, math.Pi)
	test.That(t, ss.Distance(a, a), test.ShouldBeLessThan, 1e-9)

	// Antipodal quaternions are the same rotation.
	neg := NewSO3State(-a.X, -a.Y, -a.Z, -a.W)
	test.That(t, ss.Distance(a, neg), test.ShouldBeLessThan, 1e-9)
	test.That(t, ss.EqualStates(a, neg, 1e-9), test.ShouldBeTrue)

	c := NewSO3StateFromAxisAngle(r3.Vector{X: 1}, 0.3)
	test.That(t, ss.Distance(SO3Identity(), c), test.ShouldAlmostEqual, 0.3, 1e-9)
}

func TestSO3Interpolate(t *testing.T) {
	ss := NewSO3StateSpace()

	a := NewSO3StateFromAxisAngle(r3.Vector{Y: 1}, math.Pi/2)
	b := NewSO3StateFromAxisAngle(r3.Vector{Y: 1}, -math.Pi/2)
	test.That(t, ss.EqualStates(ss.Interpolate(a, b, 0), a, 1e-9), test.ShouldBeTrue)
	test.That(t, ss.EqualStates(ss.Interpolate(a, b, 1), b, 1e-9), test.ShouldBeTrue)

	// Slerp between opposing y rotations passes through the identity.
	mid := ss.Interpolate(a, b, 0.5)
	test.That(t, ss.Distance(mid, SO3Identity()), test.ShouldBeLessThan, 1e-6)
	test.That(t, ss.Distance(a, mid), test.ShouldAlmostEqual, math.Pi/2, 1e-6)

	// The shorter arc is taken even when the representatives straddle
	// hemispheres.
	bNeg := NewSO3State(-b.X, -b.Y, -b.Z, -b.W)
	mid2 := ss.Interpolate(a, bNeg, 0.5)
	test.That(t, ss.Distance(mid, mid2), test.ShouldBeLessThan, 1e-6)

	// Near-parallel quaternions blend without degenerating.
	almostA := NewSO3StateFromAxisAngle(r3.Vector{Y: 1}, math.Pi/2+1e-12)
	blend := ss.Interpolate(a, almostA, 0.5).(*SO3State)
	test.That(t, blend.norm(), test.ShouldAlmostEqual, 1)
}

func TestSO3Sampling(t *testing.T) {
	ss := NewSO3StateSpace()
	//nolint:gosec
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		s := ss.SampleUniform(rnd).(*SO3State)
		test.That(t, math.Abs(s.norm()-1), test.ShouldBeLessThan, 1e-9)
		test.That(t, ss.SatisfiesBounds(s), test.ShouldBeTrue)
	}
}

func TestSO3EnforceBounds(t *testing.T) {
	ss := NewSO3StateSpace()

	skewed := NewSO3State(2, 0, 0, 0)
	test.That(t, ss.SatisfiesBounds(skewed), test.ShouldBeFalse)
	fixed := ss.EnforceBounds(skewed).(*SO3State)
	test.That(t, fixed.X, test.ShouldAlmostEqual, 1)
	test.That(t, ss.SatisfiesBounds(fixed), test.ShouldBeTrue)
}
