package geometric

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/rossng/oxmpl/base"
)

// RRTStar grows a tree like RRT but reconsiders parentage within a search
// radius on every insertion and rewires neighbors through cheaper routes,
// which makes it asymptotically optimal under path length. Karaman &
// Frazzoli 2011.
type RRTStar struct {
	*planner
	maxDistance  float64
	goalBias     float64
	searchRadius float64
}

// NewRRTStar creates an RRT* planner. searchRadius bounds the neighborhood
// examined by the choose-parent and rewire steps.
func NewRRTStar(pd *base.ProblemDefinition, maxDistance, goalBias, searchRadius float64, opts ...Option) (*RRTStar, error) {
	if maxDistance <= 0 {
		return nil, errors.Errorf("max distance must be positive, got %f", maxDistance)
	}
	if goalBias < 0 || goalBias > 1 {
		return nil, errors.Errorf("goal bias must be in [0, 1], got %f", goalBias)
	}
	if searchRadius <= 0 {
		return nil, errors.Errorf("search radius must be positive, got %f", searchRadius)
	}
	mp, err := newPlanner(pd, "rrt_star", maxDistance, opts)
	if err != nil {
		return nil, err
	}
	return &RRTStar{planner: mp, maxDistance: maxDistance, goalBias: goalBias, searchRadius: searchRadius}, nil
}

// Setup binds the host's validity checker.
func (mp *RRTStar) Setup(checker base.StateValidityChecker) error {
	return mp.setup(checker)
}

// Solve refines the tree until the budget runs out, then returns the
// cheapest goal-satisfying path found. ErrTimeout is only returned when no
// feasible path exists at budget exhaustion.
func (mp *RRTStar) Solve(ctx context.Context, timeout time.Duration) (*base.Path, error) {
	if !mp.configured {
		return nil, base.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	mp.beginSolve()
	return mp.solveAsync(ctx, mp.rrtStarRunner)
}

func (mp *RRTStar) rrtStarRunner(ctx context.Context, solutionChan chan<- *rrtSolution) {
	start, err := mp.validStart()
	if err != nil {
		solutionChan <- &rrtSolution{err: err}
		return
	}
	t := &tree{}
	t.add(start, nil, 0)
	goalNodes := []*node{}

	finish := func(iterations int) {
		best := bestGoalNode(goalNodes)
		if best == nil {
			solutionChan <- &rrtSolution{err: errors.Wrapf(base.ErrTimeout, "rrt* found no feasible path in %d iterations", iterations)}
			return
		}
		mp.logger.Debugf("rrt* finished after %d iterations with %d nodes, best cost %f", iterations, len(t.nodes), best.cost)
		solutionChan <- &rrtSolution{path: base.NewPath(best.pathFromRoot())}
	}

	for i := 0; mp.maxIterations == 0 || i < mp.maxIterations; i++ {
		select {
		case <-ctx.Done():
			finish(i)
			return
		default:
		}
		if i > 0 && i%loggingInterval == 0 {
			mp.logger.Debugf("rrt* iteration %d, tree size %d, solutions %d", i, len(t.nodes), len(goalNodes))
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

		neighbors := mp.nm.neighborsWithinRadius(mp.space, sNew, t.nodes, mp.searchRadius)

		// Choose parent: cheapest valid connection in the neighborhood,
		// falling back to the nearest node. Strict comparison keeps the
		// nearest node on cost ties.
		parent := near
		parentCost := near.cost + mp.space.Distance(near.state, sNew)
		for _, nb := range neighbors {
			if nb == near {
				continue
			}
			c := nb.cost + mp.space.Distance(nb.state, sNew)
			if c < parentCost && mp.motion.CheckMotion(nb.state, sNew) {
				parent = nb
				parentCost = c
			}
		}
		newNode := t.add(sNew, parent, parentCost)

		// Rewire: route neighbors through the new node when that is
		// strictly cheaper, then push the cost change down their subtrees.
		for _, nb := range neighbors {
			if nb == parent {
				continue
			}
			c := newNode.cost + mp.space.Distance(sNew, nb.state)
			if c < nb.cost && mp.motion.CheckMotion(sNew, nb.state) {
				rewire(nb, newNode, c)
			}
		}

		if mp.pd.Goal().IsSatisfied(sNew) {
			goalNodes = append(goalNodes, newNode)
			mp.logger.Debugf("rrt* solution %d found at iteration %d, cost %f", len(goalNodes), i+1, newNode.cost)
		}
	}
	finish(mp.maxIterations)
}

// rewire re-parents n through newParent at newCost and propagates the cost
// delta to n's descendants. Costs only decrease, so the walk cannot cycle.
func rewire(n, newParent *node, newCost float64) {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	n.parent = newParent
	newParent.children = append(newParent.children, n)
	delta := newCost - n.cost
	n.cost = newCost
	propagateCostDelta(n, delta)
}

func propagateCostDelta(n *node, delta float64) {
	for _, child := range n.children {
		child.cost += delta
		propagateCostDelta(child, delta)
	}
}

func bestGoalNode(goalNodes []*node) *node {
	var best *node
	bestCost := math.Inf(1)
	for _, n := range goalNodes {
		if n.cost < bestCost {
			best = n
			bestCost = n.cost
		}
	}
	return best
}
