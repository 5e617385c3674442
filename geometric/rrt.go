package geometric

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/rossng/oxmpl/base"
)

// RRT grows a single tree from the start state, biased toward the goal
// region, until a newly added node satisfies the goal. LaValle 1998.
type RRT struct {
	*planner
	maxDistance float64
	goalBias    float64
}

// NewRRT creates an RRT planner. maxDistance bounds how far a single
// extension steers, and goalBias is the probability an iteration samples
// from the goal region instead of uniformly.
func NewRRT(pd *base.ProblemDefinition, maxDistance, goalBias float64, opts ...Option) (*RRT, error) {
	if maxDistance <= 0 {
		return nil, errors.Errorf("max distance must be positive, got %f", maxDistance)
	}
	if goalBias < 0 || goalBias > 1 {
		return nil, errors.Errorf("goal bias must be in [0, 1], got %f", goalBias)
	}
	mp, err := newPlanner(pd, "rrt", maxDistance, opts)
	if err != nil {
		return nil, err
	}
	return &RRT{planner: mp, maxDistance: maxDistance, goalBias: goalBias}, nil
}

// Setup binds the host's validity checker.
func (mp *RRT) Setup(checker base.StateValidityChecker) error {
	return mp.setup(checker)
}

// Solve grows the tree until a node lands in the goal region or the budget
// runs out.
func (mp *RRT) Solve(ctx context.Context, timeout time.Duration) (*base.Path, error) {
	if !mp.configured {
		return nil, base.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	mp.beginSolve()
	return mp.solveAsync(ctx, mp.rrtRunner)
}

func (mp *RRT) rrtRunner(ctx context.Context, solutionChan chan<- *rrtSolution) {
	start, err := mp.validStart()
	if err != nil {
		solutionChan <- &rrtSolution{err: err}
		return
	}
	t := &tree{}
	t.add(start, nil, 0)

	for i := 0; mp.maxIterations == 0 || i < mp.maxIterations; i++ {
		select {
		case <-ctx.Done():
			solutionChan <- &rrtSolution{err: errors.Wrapf(base.ErrTimeout, "rrt gave up after %d iterations", i)}
			return
		default:
		}
		if i > 0 && i%loggingInterval == 0 {
			mp.logger.Debugf("rrt iteration %d, tree size %d", i, len(t.nodes))
		}

		var target base.State
		if mp.randseed.Float64() < mp.goalBias {
			goal, err := mp.sampleValidGoal()
			if err != nil {
				solutionChan <- &rrtSolution{err: err}
				return
			}
			target = goal
		}
		if target == nil {
			target = mp.space.SampleUniform(mp.randseed)
		}

		near := mp.nm.nearestNeighbor(ctx, mp.space, target, t.nodes)
		if near == nil {
			continue
		}
		sNew := mp.steer(near.state, target, mp.maxDistance)
		if !mp.checker.IsValid(sNew) {
			continue
		}
		if !mp.motion.CheckMotion(near.state, sNew) {
			continue
		}
		n := t.add(sNew, near, near.cost+mp.space.Distance(near.state, sNew))

		if mp.pd.Goal().IsSatisfied(sNew) {
			mp.logger.Debugf("rrt found a solution after %d iterations with %d nodes in %s", i+1, len(t.nodes), time.Since(mp.start))
			solutionChan <- &rrtSolution{path: base.NewPath(n.pathFromRoot())}
			return
		}
	}
	solutionChan <- &rrtSolution{err: errors.Wrap(base.ErrTimeout, "rrt exhausted its iteration budget")}
}
