package geometric

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/rossng/oxmpl/base"
	"github.com/rossng/oxmpl/logging"
)

func TestRRT2DWall(t *testing.T) {
	ss, pd, goal := wall2DProblem(t, 123)

	rrt, err := NewRRT(pd, 0.5, 0.05, WithLogger(logging.NewTestLogger(t)))
	test.That(t, err, test.ShouldBeNil)
	err = rrt.Setup(base.StateValidityCheckerFunc(wallChecker))
	test.That(t, err, test.ShouldBeNil)

	path, err := rrt.Solve(context.Background(), 5*time.Second)
	test.That(t, err, test.ShouldBeNil)
	validatePath(t, path, ss, pd.StartState(), goal, wallChecker, 0.05)
}

func TestRRTDeterminism(t *testing.T) {
	solveOnce := func() *base.Path {
		_, pd, _ := wall2DProblem(t, 123)
		rrt, err := NewRRT(pd, 0.5, 0.05, WithSeed(7))
		test.That(t, err, test.ShouldBeNil)
		err = rrt.Setup(base.StateValidityCheckerFunc(wallChecker))
		test.That(t, err, test.ShouldBeNil)
		path, err := rrt.Solve(context.Background(), 5*time.Second)
		test.That(t, err, test.ShouldBeNil)
		return path
	}

	first := solveOnce()
	second := solveOnce()

	ss, err := base.NewRealVectorStateSpace(2, []base.Bound{{Lo: 0, Hi: 10}, {Lo: 0, Hi: 10}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(second.States()), test.ShouldEqual, len(first.States()))
	for i, s := range first.States() {
		test.That(t, ss.Distance(s, second.States()[i]), test.ShouldBeLessThan, 1e-9)
	}
}

func TestRRTSO2ForbiddenArc(t *testing.T) {
	ss := base.NewSO2StateSpace()
	goal := newArcGoal(ss, math.Pi/2, 0.1, 456)
	pd, err := base.NewProblemDefinition(ss, base.NewSO2State(-math.Pi/2), goal)
	test.That(t, err, test.ShouldBeNil)

	rrt, err := NewRRT(pd, 0.5, 0.05, WithLogger(logging.NewTestLogger(t)))
	test.That(t, err, test.ShouldBeNil)
	err = rrt.Setup(base.StateValidityCheckerFunc(so2ArcChecker))
	test.That(t, err, test.ShouldBeNil)

	path, err := rrt.Solve(context.Background(), 5*time.Second)
	test.That(t, err, test.ShouldBeNil)
	validatePath(t, path, ss, pd.StartState(), goal, so2ArcChecker, 0.05)

	// The forbidden arc around zero forces the path the long way, through
	// the wrap at +-pi.
	crossedWrap := false
	for _, s := range path.States() {
		if math.Abs(s.(*base.SO2State).Value) > 2.5 {
			crossedWrap = true
			break
		}
	}
	test.That(t, crossedWrap, test.ShouldBeTrue)
}

func TestRRTInfeasibleTimesOut(t *testing.T) {
	ss, err := base.NewRealVectorStateSpace(2, []base.Bound{{Lo: 0, Hi: 10}, {Lo: 0, Hi: 10}})
	test.That(t, err, test.ShouldBeNil)
	goal := newDiskGoal(ss, 9, 5, 0.5, 123)
	pd, err := base.NewProblemDefinition(ss, base.NewRealVectorState([]float64{1, 5}), goal)
	test.That(t, err, test.ShouldBeNil)

	// The whole strip containing the goal is blocked except near the
	// start, so no solution exists.
	blockedStrip := func(s base.State) bool {
		v := s.(*base.RealVectorState).Values
		if v[1] >= 4.5 && v[1] <= 5.5 {
			return v[0] < 2
		}
		return true
	}

	rrt, err := NewRRT(pd, 0.5, 0.05, WithMaxIterations(3000))
	test.That(t, err, test.ShouldBeNil)
	err = rrt.Setup(base.StateValidityCheckerFunc(blockedStrip))
	test.That(t, err, test.ShouldBeNil)

	path, err := rrt.Solve(context.Background(), 5*time.Second)
	test.That(t, path, test.ShouldBeNil)
	test.That(t, errors.Is(err, base.ErrTimeout), test.ShouldBeTrue)
}
