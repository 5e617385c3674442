package base

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestSO2Wrap(t *testing.T) {
	ss := NewSO2StateSpace()

	wrapped := ss.EnforceBounds(NewSO2State(3 * math.Pi)).(*SO2State)
	test.That(t, wrapped.Value, test.ShouldAlmostEqual, math.Pi)

	wrapped = ss.EnforceBounds(NewSO2State(-math.Pi)).(*SO2State)
	test.That(t, wrapped.Value, test.ShouldAlmostEqual, math.Pi)

	wrapped = ss.EnforceBounds(NewSO2State(-0.25)).(*SO2State)
	test.That(t, wrapped.Value, test.ShouldAlmostEqual, -0.25)

	test.That(t, ss.SatisfiesBounds(NewSO2State(3*math.Pi)), test.ShouldBeFalse)
	test.That(t, ss.SatisfiesBounds(NewSO2State(math.Pi)), test.ShouldBeTrue)
	test.That(t, ss.SatisfiesBounds(NewSO2State(math.NaN())), test.ShouldBeFalse)
}

func TestSO2Distance(t *testing.T) {
	ss := NewSO2StateSpace()

	// The short way between 3 and -3 crosses the pi boundary.
	test.That(t, ss.Distance(NewSO2State(3), NewSO2State(-3)), test.ShouldAlmostEqual, 2*math.Pi-6)
	test.That(t, ss.Distance(NewSO2State(-3), NewSO2State(3)), test.ShouldAlmostEqual, 2*math.Pi-6)
	test.That(t, ss.Distance(NewSO2State(-math.Pi/2), NewSO2State(math.Pi/2)), test.ShouldAlmostEqual, math.Pi)
	test.That(t, ss.Distance(NewSO2State(1.2), NewSO2State(1.2)), test.ShouldBeLessThan, 1e-9)
}

func TestSO2Interpolate(t *testing.T) {
	ss := NewSO2StateSpace()

	a := NewSO2State(2.8)
	b := NewSO2State(-2.8)
	test.That(t, ss.EqualStates(ss.Interpolate(a, b, 0), a, 1e-9), test.ShouldBeTrue)
	test.That(t, ss.EqualStates(ss.Interpolate(a, b, 1), b, 1e-9), test.ShouldBeTrue)

	// The geodesic between a symmetric pair passes through pi, not zero.
	mid := ss.Interpolate(a, b, 0.5)
	test.That(t, ss.Distance(mid, NewSO2State(math.Pi)), test.ShouldBeLessThan, 1e-6)
}

func TestSO2Sampling(t *testing.T) {
	ss := NewSO2StateSpace()
	//nolint:gosec
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		s := ss.SampleUniform(rnd)
		test.That(t, ss.SatisfiesBounds(s), test.ShouldBeTrue)
	}
}
