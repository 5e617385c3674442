package base

// GoalRegion is a subset of a state space, supplied by the host as a pair of
// opaque callbacks. Planners call IsSatisfied to test membership and
// SampleGoal on goal-biased iterations or query setup; neither result is
// cached across calls, and SampleGoal is not assumed idempotent or fast.
type GoalRegion interface {
	// IsSatisfied reports whether the state lies inside the goal region.
	IsSatisfied(s State) bool

	// SampleGoal produces a state inside the region. It may be stochastic;
	// the host owns any RNG it uses. An error aborts the solve and is
	// surfaced to the caller verbatim.
	SampleGoal() (State, error)
}

type goalRegionFuncs struct {
	satisfied func(State) bool
	sample    func() (State, error)
}

func (g *goalRegionFuncs) IsSatisfied(s State) bool {
	return g.satisfied(s)
}

func (g *goalRegionFuncs) SampleGoal() (State, error) {
	return g.sample()
}

// NewGoalRegionFromFuncs adapts a pair of closures into a GoalRegion, for
// hosts that do not want to define a type.
func NewGoalRegionFromFuncs(satisfied func(State) bool, sample func() (State, error)) GoalRegion {
	return &goalRegionFuncs{satisfied: satisfied, sample: sample}
}
