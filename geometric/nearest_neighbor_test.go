package geometric

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/rossng/oxmpl/base"
)

func TestNearestNeighbor(t *testing.T) {
	nm := &neighborManager{nCPU: 2, parallelNeighbors: 1000}
	ss, err := base.NewRealVectorStateSpace(1, []base.Bound{{Lo: 0, Hi: 2000}})
	test.That(t, err, test.ShouldBeNil)
	ctx := context.Background()

	tr := &tree{}
	// ~110 nodes stays under parallelNeighbors, so the query runs in
	// series.
	for i := 0.0; i < 110.0; i++ {
		tr.add(base.NewRealVectorState([]float64{i}), nil, 0)
	}
	nn := nm.nearestNeighbor(ctx, ss, base.NewRealVectorState([]float64{23.1}), tr.nodes)
	test.That(t, nn.state.(*base.RealVectorState).Values[0], test.ShouldAlmostEqual, 23.0)

	// Adding more nodes trips the threshold and the query fans out across
	// nCPU goroutines.
	for i := 120.0; i < 1100.0; i++ {
		tr.add(base.NewRealVectorState([]float64{i}), nil, 0)
	}
	nn = nm.nearestNeighbor(ctx, ss, base.NewRealVectorState([]float64{723.6}), tr.nodes)
	test.That(t, nn.state.(*base.RealVectorState).Values[0], test.ShouldAlmostEqual, 724.0)
}

func TestNearestNeighborSO2Wrap(t *testing.T) {
	nm := &neighborManager{nCPU: 2}
	ss := base.NewSO2StateSpace()

	tr := &tree{}
	tr.add(base.NewSO2State(3.0), nil, 0)
	tr.add(base.NewSO2State(0.0), nil, 0)

	// -3.1 is closer to 3.0 across the wrap than to 0 the direct way.
	nn := nm.nearestNeighbor(context.Background(), ss, base.NewSO2State(-3.1), tr.nodes)
	test.That(t, nn.state.(*base.SO2State).Value, test.ShouldAlmostEqual, 3.0)

	within := nm.neighborsWithinRadius(ss, base.NewSO2State(-3.1), tr.nodes, 0.5)
	test.That(t, within, test.ShouldHaveLength, 1)
	test.That(t, within[0].state.(*base.SO2State).Value, test.ShouldAlmostEqual, 3.0)
}

func TestKNearestNeighbors(t *testing.T) {
	nm := &neighborManager{nCPU: 2}
	ss, err := base.NewRealVectorStateSpace(1, []base.Bound{{Lo: 0, Hi: 100}})
	test.That(t, err, test.ShouldBeNil)

	tr := &tree{}
	for i := 0.0; i < 100.0; i++ {
		tr.add(base.NewRealVectorState([]float64{i}), nil, 0)
	}

	query := base.NewRealVectorState([]float64{50.4})
	nearest := nm.kNearestNeighbors(ss, query, tr.nodes, 3)
	test.That(t, nearest, test.ShouldHaveLength, 3)
	test.That(t, nearest[0].state.(*base.RealVectorState).Values[0], test.ShouldAlmostEqual, 50)
	test.That(t, nearest[1].state.(*base.RealVectorState).Values[0], test.ShouldAlmostEqual, 51)
	test.That(t, nearest[2].state.(*base.RealVectorState).Values[0], test.ShouldAlmostEqual, 49)

	test.That(t, nm.kNearestNeighbors(ss, query, tr.nodes, 0), test.ShouldBeNil)
	test.That(t, nm.kNearestNeighbors(ss, query, tr.nodes, 1000), test.ShouldHaveLength, 100)

	within := nm.neighborsWithinRadius(ss, base.NewRealVectorState([]float64{50}), tr.nodes, 2.05)
	test.That(t, within, test.ShouldHaveLength, 5)
}
