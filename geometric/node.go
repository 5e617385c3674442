package geometric

import "github.com/rossng/oxmpl/base"

// node is one vertex of a planner's tree or roadmap. The id is stable from
// insertion for the lifetime of a solve and doubles as the gonum graph.Node
// identity for roadmap planners. parent and cost are tree-only; children
// links are maintained so rewiring can push cost updates down a subtree.
type node struct {
	id       int64
	state    base.State
	parent   *node
	cost     float64
	children []*node
}

// ID implements gonum's graph.Node.
func (n *node) ID() int64 {
	return n.id
}

func (n *node) removeChild(child *node) {
	for i, c := range n.children {
		if c == child {
			n.children[i] = n.children[len(n.children)-1]
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// pathToRoot returns the states from n back to its tree's root, inclusive.
func (n *node) pathToRoot() []base.State {
	states := []base.State{}
	for cur := n; cur != nil; cur = cur.parent {
		states = append(states, cur.state)
	}
	return states
}

// pathFromRoot returns the states from the root down to n, inclusive.
func (n *node) pathFromRoot() []base.State {
	states := n.pathToRoot()
	for i, j := 0, len(states)-1; i < j; i, j = i+1, j-1 {
		states[i], states[j] = states[j], states[i]
	}
	return states
}

// tree owns the nodes grown during one solve. Nodes are never removed while
// a solve is running.
type tree struct {
	nodes []*node
}

func (t *tree) add(state base.State, parent *node, cost float64) *node {
	n := &node{id: int64(len(t.nodes)), state: state, parent: parent, cost: cost}
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	t.nodes = append(t.nodes, n)
	return n
}
