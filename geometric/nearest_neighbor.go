package geometric

import (
	"context"
	"math"
	"runtime"
	"sort"

	"go.viam.com/utils"

	"github.com/rossng/oxmpl/base"
)

var nCPU = int(math.Max(1.0, float64(runtime.NumCPU()/4)))

// defaultParallelNeighbors is the candidate count above which nearest
// queries fan out across goroutines.
const defaultParallelNeighbors = 1000

// neighborManager answers nearest, k-nearest, and within-radius queries
// under a space's metric with a linear scan, which stays correct for the
// non-Euclidean spaces. Small candidate sets are scanned in series; large
// ones are chunked across nCPU goroutines.
type neighborManager struct {
	nCPU              int
	parallelNeighbors int
}

type neighbor struct {
	dist float64
	node *node
}

func (nm *neighborManager) nearestNeighbor(ctx context.Context, space base.StateSpace, target base.State, candidates []*node) *node {
	threshold := nm.parallelNeighbors
	if threshold == 0 {
		threshold = defaultParallelNeighbors
	}
	if nm.nCPU > 1 && len(candidates) > threshold {
		return nm.parallelNearestNeighbor(ctx, space, target, candidates)
	}
	best := neighbor{dist: math.Inf(1)}
	for _, c := range candidates {
		d := space.Distance(c.state, target)
		if d < best.dist {
			best = neighbor{dist: d, node: c}
		}
	}
	return best.node
}

func (nm *neighborManager) parallelNearestNeighbor(ctx context.Context, space base.StateSpace, target base.State, candidates []*node) *node {
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	chunk := (len(candidates) + nm.nCPU - 1) / nm.nCPU
	results := make(chan neighbor, nm.nCPU)
	workers := 0
	for lo := 0; lo < len(candidates); lo += chunk {
		hi := lo + chunk
		if hi > len(candidates) {
			hi = len(candidates)
		}
		workers++
		span := candidates[lo:hi]
		utils.PanicCapturingGo(func() {
			best := neighbor{dist: math.Inf(1)}
			for _, c := range span {
				d := space.Distance(c.state, target)
				if d < best.dist {
					best = neighbor{dist: d, node: c}
				}
			}
			results <- best
		})
	}

	best := neighbor{dist: math.Inf(1)}
	for i := 0; i < workers; i++ {
		if candidate := <-results; candidate.dist < best.dist {
			best = candidate
		}
	}
	return best.node
}

// kNearestNeighbors returns up to k candidates closest to target, nearest
// first.
func (nm *neighborManager) kNearestNeighbors(space base.StateSpace, target base.State, candidates []*node, k int) []*node {
	if k <= 0 {
		return nil
	}
	neighbors := make([]neighbor, 0, len(candidates))
	for _, c := range candidates {
		neighbors = append(neighbors, neighbor{dist: space.Distance(c.state, target), node: c})
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].dist < neighbors[j].dist })
	if k > len(neighbors) {
		k = len(neighbors)
	}
	out := make([]*node, 0, k)
	for _, nb := range neighbors[:k] {
		out = append(out, nb.node)
	}
	return out
}

// neighborsWithinRadius returns every candidate within radius of target, in
// scan order.
func (nm *neighborManager) neighborsWithinRadius(space base.StateSpace, target base.State, candidates []*node, radius float64) []*node {
	out := []*node{}
	for _, c := range candidates {
		if space.Distance(c.state, target) <= radius {
			out = append(out, c)
		}
	}
	return out
}
