package geometric

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/rossng/oxmpl/base"
)

func TestNewPlannerFromConfig(t *testing.T) {
	ss, pd, goal := wall2DProblem(t, 123)

	planner, err := NewPlannerFromConfig(AlgorithmRRT, pd, map[string]interface{}{
		"max_distance":   1.0,
		"goal_bias":      0.1,
		"rseed":          7,
		"max_iterations": 20000,
		"unused_key":     "ignored",
	})
	test.That(t, err, test.ShouldBeNil)
	rrt, ok := planner.(*RRT)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, rrt.maxDistance, test.ShouldAlmostEqual, 1.0)
	test.That(t, rrt.goalBias, test.ShouldAlmostEqual, 0.1)
	test.That(t, rrt.maxIterations, test.ShouldEqual, 20000)

	err = planner.Setup(base.StateValidityCheckerFunc(wallChecker))
	test.That(t, err, test.ShouldBeNil)
	path, err := planner.Solve(context.Background(), 5*time.Second)
	test.That(t, err, test.ShouldBeNil)
	validatePath(t, path, ss, pd.StartState(), goal, wallChecker, 0.1)

	planner, err = NewPlannerFromConfig(AlgorithmRRTStar, pd, map[string]interface{}{
		"search_radius": 0.75,
	})
	test.That(t, err, test.ShouldBeNil)
	star, ok := planner.(*RRTStar)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, star.searchRadius, test.ShouldAlmostEqual, 0.75)
	// Unset parameters fall back to defaults.
	test.That(t, star.maxDistance, test.ShouldAlmostEqual, 0.5)

	planner, err = NewPlannerFromConfig(AlgorithmPRM, pd, map[string]interface{}{
		"build_timeout":     2.0,
		"connection_radius": 1.25,
	})
	test.That(t, err, test.ShouldBeNil)
	prm, ok := planner.(*PRM)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, prm.buildTimeout, test.ShouldEqual, 2*time.Second)
	test.That(t, prm.connectionRadius, test.ShouldAlmostEqual, 1.25)

	_, err = NewPlannerFromConfig(AlgorithmRRTConnect, pd, nil)
	test.That(t, err, test.ShouldBeNil)

	_, err = NewPlannerFromConfig("simulated_annealing", pd, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewPlannerFromConfig(AlgorithmRRT, pd, map[string]interface{}{
		"max_distance": "fast",
	})
	test.That(t, err, test.ShouldNotBeNil)
}
