package geometric

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/rossng/oxmpl/base"
)

// RRTConnect grows one tree from the start and one from a sampled goal
// state, greedily connecting them each iteration. Kuffner & LaValle 2000.
type RRTConnect struct {
	*planner
	maxDistance float64
}

// NewRRTConnect creates an RRT-Connect planner. The goal tree is rooted at
// a single goal sample taken when Solve begins.
func NewRRTConnect(pd *base.ProblemDefinition, maxDistance float64, opts ...Option) (*RRTConnect, error) {
	if maxDistance <= 0 {
		return nil, errors.Errorf("max distance must be positive, got %f", maxDistance)
	}
	mp, err := newPlanner(pd, "rrt_connect", maxDistance, opts)
	if err != nil {
		return nil, err
	}
	return &RRTConnect{planner: mp, maxDistance: maxDistance}, nil
}

// Setup binds the host's validity checker.
func (mp *RRTConnect) Setup(checker base.StateValidityChecker) error {
	return mp.setup(checker)
}

// Solve alternates extending the two trees until they meet or the budget
// runs out.
func (mp *RRTConnect) Solve(ctx context.Context, timeout time.Duration) (*base.Path, error) {
	if !mp.configured {
		return nil, base.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	mp.beginSolve()
	return mp.solveAsync(ctx, mp.rrtConnectRunner)
}

type extendStatus int

const (
	extendTrapped extendStatus = iota
	extendAdvanced
	extendReached
)

// extend steers the tree's nearest node one step toward target, adding the
// new node on success. Reached means the target itself was added.
func (mp *RRTConnect) extend(ctx context.Context, t *tree, target base.State) (extendStatus, *node) {
	near := mp.nm.nearestNeighbor(ctx, mp.space, target, t.nodes)
	if near == nil {
		return extendTrapped, nil
	}
	sNew := mp.steer(near.state, target, mp.maxDistance)
	if !mp.checker.IsValid(sNew) {
		return extendTrapped, nil
	}
	if !mp.motion.CheckMotion(near.state, sNew) {
		return extendTrapped, nil
	}
	n := t.add(sNew, near, near.cost+mp.space.Distance(near.state, sNew))
	if mp.space.EqualStates(sNew, target, equalStateTolerance) {
		return extendReached, n
	}
	return extendAdvanced, n
}

// connect repeatedly extends the tree toward target until it reaches it or
// gets trapped.
func (mp *RRTConnect) connect(ctx context.Context, t *tree, target base.State) (extendStatus, *node) {
	for {
		select {
		case <-ctx.Done():
			return extendTrapped, nil
		default:
		}
		status, n := mp.extend(ctx, t, target)
		if status != extendAdvanced {
			return status, n
		}
	}
}

func (mp *RRTConnect) rrtConnectRunner(ctx context.Context, solutionChan chan<- *rrtSolution) {
	start, err := mp.validStart()
	if err != nil {
		solutionChan <- &rrtSolution{err: err}
		return
	}
	goal, err := mp.requireGoalSample()
	if err != nil {
		solutionChan <- &rrtSolution{err: err}
		return
	}

	startTree := &tree{}
	startTree.add(start, nil, 0)
	goalTree := &tree{}
	goalTree.add(goal, nil, 0)

	ta, tb := startTree, goalTree
	for i := 0; mp.maxIterations == 0 || i < mp.maxIterations; i++ {
		select {
		case <-ctx.Done():
			solutionChan <- &rrtSolution{err: errors.Wrapf(base.ErrTimeout, "rrt-connect gave up after %d iterations", i)}
			return
		default:
		}
		if i > 0 && i%loggingInterval == 0 {
			mp.logger.Debugf("rrt-connect iteration %d, tree sizes %d/%d", i, len(ta.nodes), len(tb.nodes))
		}

		target := mp.space.SampleUniform(mp.randseed)
		status, na := mp.extend(ctx, ta, target)
		if status != extendTrapped {
			if connected, nb := mp.connect(ctx, tb, na.state); connected == extendReached {
				mp.logger.Debugf("rrt-connect trees met after %d iterations", i+1)
				meetA, meetB := na, nb
				if ta != startTree {
					meetA, meetB = nb, na
				}
				states := meetA.pathFromRoot()
				states = append(states, meetB.pathToRoot()[1:]...)
				solutionChan <- &rrtSolution{path: base.NewPath(states)}
				return
			}
		}
		ta, tb = tb, ta
	}
	solutionChan <- &rrtSolution{err: errors.Wrap(base.ErrTimeout, "rrt-connect exhausted its iteration budget")}
}
