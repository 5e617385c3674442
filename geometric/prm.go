package geometric

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	graphpath "gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/rossng/oxmpl/base"
)

// defaultGoalQuerySamples is how many goal states a query inserts as
// temporary roadmap vertices.
const defaultGoalQuerySamples = 5

// PRM builds a roadmap of valid, locally connected samples and answers
// queries by shortest-path search. The roadmap is retained across Solve
// calls; ConstructRoadmap may be called again to densify it. Query
// vertices are removed after each query. Kavraki et al 1996.
type PRM struct {
	*planner
	connectionRadius float64
	buildTimeout     time.Duration

	roadmap  *simple.WeightedUndirectedGraph
	vertices []*node
}

// NewPRM creates a PRM planner. buildTimeout bounds roadmap construction;
// connectionRadius bounds which neighbors each new vertex tries to connect
// to. WithMaxIterations caps the roadmap's vertex count.
func NewPRM(pd *base.ProblemDefinition, buildTimeout time.Duration, connectionRadius float64, opts ...Option) (*PRM, error) {
	if buildTimeout <= 0 {
		return nil, errors.Errorf("build timeout must be positive, got %v", buildTimeout)
	}
	if connectionRadius <= 0 {
		return nil, errors.Errorf("connection radius must be positive, got %f", connectionRadius)
	}
	mp, err := newPlanner(pd, "prm", connectionRadius, opts)
	if err != nil {
		return nil, err
	}
	return &PRM{
		planner:          mp,
		connectionRadius: connectionRadius,
		buildTimeout:     buildTimeout,
		roadmap:          simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}, nil
}

// Setup binds the host's validity checker.
func (mp *PRM) Setup(checker base.StateValidityChecker) error {
	return mp.setup(checker)
}

// ConstructRoadmap samples valid states and connects each to its neighbors
// within the connection radius through valid motions, until the build
// timeout elapses or the vertex cap is reached. Callbacks run on the
// calling goroutine.
func (mp *PRM) ConstructRoadmap(ctx context.Context) (err error) {
	if !mp.configured {
		return base.ErrNotConfigured
	}
	defer func() {
		if r := recover(); r != nil {
			err = base.NewCallbackError(r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, mp.buildTimeout)
	defer cancel()
	mp.start = time.Now()

	before := len(mp.vertices)
	for {
		select {
		case <-ctx.Done():
			mp.logger.Debugf("roadmap construction stopped at %d vertices (%d new)", len(mp.vertices), len(mp.vertices)-before)
			return nil
		default:
		}
		if mp.maxIterations > 0 && len(mp.vertices) >= mp.maxIterations {
			mp.logger.Debugf("roadmap construction reached the %d-vertex cap", mp.maxIterations)
			return nil
		}
		s := mp.space.SampleUniform(mp.randseed)
		if !mp.checker.IsValid(s) {
			continue
		}
		mp.addVertex(s)
	}
}

// addVertex inserts a roadmap vertex and connects it to every neighbor
// within the connection radius reachable by a valid motion.
func (mp *PRM) addVertex(s base.State) *node {
	v := &node{id: int64(len(mp.vertices)), state: s}
	neighbors := mp.nm.neighborsWithinRadius(mp.space, s, mp.vertices, mp.connectionRadius)
	mp.roadmap.AddNode(v)
	mp.vertices = append(mp.vertices, v)
	for _, nb := range neighbors {
		if mp.motion.CheckMotion(nb.state, s) {
			mp.roadmap.SetWeightedEdge(mp.roadmap.NewWeightedEdge(nb, v, mp.space.Distance(nb.state, s)))
		}
	}
	return v
}

// removeQueryVertices drops the temporary vertices a query appended past
// the retained roadmap size.
func (mp *PRM) removeQueryVertices(retained int) {
	for _, v := range mp.vertices[retained:] {
		mp.roadmap.RemoveNode(v.ID())
	}
	mp.vertices = mp.vertices[:retained]
}

// RoadmapSize returns the current vertex and edge counts.
func (mp *PRM) RoadmapSize() (int, int) {
	return len(mp.vertices), mp.roadmap.Edges().Len()
}

// Solve connects the start and a batch of goal samples to the roadmap and
// runs Dijkstra from the start to the cheapest reachable goal vertex. An
// empty roadmap is constructed first.
func (mp *PRM) Solve(ctx context.Context, timeout time.Duration) (_ *base.Path, err error) {
	if !mp.configured {
		return nil, base.ErrNotConfigured
	}
	defer func() {
		if r := recover(); r != nil {
			err = base.NewCallbackError(r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	mp.beginSolve()

	start, err := mp.validStart()
	if err != nil {
		return nil, err
	}
	if len(mp.vertices) == 0 {
		mp.logger.Debug("roadmap is empty, constructing before query")
		if err := mp.ConstructRoadmap(ctx); err != nil {
			return nil, err
		}
	}

	retained := len(mp.vertices)
	defer mp.removeQueryVertices(retained)

	startVertex := mp.addVertex(start)
	goalVertices := make([]*node, 0, defaultGoalQuerySamples)
	for g := 0; g < defaultGoalQuerySamples; g++ {
		s, err := mp.sampleValidGoal()
		if err != nil {
			return nil, err
		}
		if s != nil {
			goalVertices = append(goalVertices, mp.addVertex(s))
		}
	}
	if len(goalVertices) == 0 {
		return nil, base.ErrInvalidGoalSample
	}

	shortest := graphpath.DijkstraFrom(startVertex, mp.roadmap)
	var bestStates []base.State
	bestWeight := math.Inf(1)
	for _, gv := range goalVertices {
		route, weight := shortest.To(gv.ID())
		if math.IsInf(weight, 1) || weight >= bestWeight {
			continue
		}
		states := make([]base.State, 0, len(route))
		for _, rn := range route {
			states = append(states, rn.(*node).state)
		}
		bestStates = states
		bestWeight = weight
	}
	if bestStates == nil {
		return nil, base.ErrNoSolution
	}
	mp.logger.Debugf("prm query found a path of %d states, length %f", len(bestStates), bestWeight)
	return base.NewPath(bestStates), nil
}
