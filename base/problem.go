package base

import "github.com/pkg/errors"

// ProblemDefinition bundles a state space, a start configuration, and a goal
// region into the object a planner consumes. It holds no planner state and
// is safe to share between planner instances.
type ProblemDefinition struct {
	space StateSpace
	start State
	goal  GoalRegion
}

// NewProblemDefinition creates a problem definition. The start state must
// already lie on the space's manifold; validity against obstacles is only
// checked once a planner solves.
func NewProblemDefinition(space StateSpace, start State, goal GoalRegion) (*ProblemDefinition, error) {
	if space == nil {
		return nil, errors.New("problem definition requires a state space")
	}
	if start == nil {
		return nil, errors.New("problem definition requires a start state")
	}
	if goal == nil {
		return nil, errors.New("problem definition requires a goal region")
	}
	if !space.SatisfiesBounds(start) {
		return nil, errors.Wrap(ErrInvalidStart, "start state is off the space manifold")
	}
	return &ProblemDefinition{space: space, start: start.Copy(), goal: goal}, nil
}

// Space returns the state space.
func (pd *ProblemDefinition) Space() StateSpace {
	return pd.space
}

// StartState returns a copy of the start configuration.
func (pd *ProblemDefinition) StartState() State {
	return pd.start.Copy()
}

// Goal returns the goal region.
func (pd *ProblemDefinition) Goal() GoalRegion {
	return pd.goal
}

// StartIsValid reports whether the start state passes the given checker.
func (pd *ProblemDefinition) StartIsValid(checker StateValidityChecker) bool {
	return checker.IsValid(pd.start)
}
