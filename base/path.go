package base

// Path is an ordered sequence of states. A successful solve returns a path
// whose first state equals the start, whose last state satisfies the goal
// region, and whose consecutive motions validated at the planner's
// resolution.
type Path struct {
	states []State
}

// NewPath creates a path over the given states. The slice is retained.
func NewPath(states []State) *Path {
	return &Path{states: states}
}

// States returns the ordered sequence of states along the path.
func (p *Path) States() []State {
	return p.states
}

// Length returns the summed metric length of the path under the given
// space.
func (p *Path) Length(space StateSpace) float64 {
	total := 0.0
	for i := 1; i < len(p.states); i++ {
		total += space.Distance(p.states[i-1], p.states[i])
	}
	return total
}
