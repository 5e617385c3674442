package base

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotConfigured is returned when Solve is called before Setup.
	ErrNotConfigured = errors.New("planner has not been set up, call Setup before Solve")

	// ErrInvalidStart is returned when the start state is off the space's
	// manifold or fails the validity checker at solve time.
	ErrInvalidStart = errors.New("start state is invalid")

	// ErrInvalidGoalSample is returned when the goal region cannot produce
	// a single valid, on-manifold sample within the retry budget.
	ErrInvalidGoalSample = errors.New("goal region produced no valid sample")

	// ErrTimeout is returned when the time budget is exhausted without a
	// solution.
	ErrTimeout = errors.New("planner timed out before finding a solution")

	// ErrNoSolution is returned by roadmap queries that exhaust the graph
	// without reaching a goal vertex.
	ErrNoSolution = errors.New("no solution path exists in the roadmap")
)

// CallbackError wraps a failure raised inside a host-supplied callback. The
// original message is preserved verbatim.
type CallbackError struct {
	value interface{}
}

// NewCallbackError creates a CallbackError from a recovered panic value or
// an error returned by a callback.
func NewCallbackError(value interface{}) *CallbackError {
	return &CallbackError{value: value}
}

func (e *CallbackError) Error() string {
	if err, ok := e.value.(error); ok {
		return "callback failed: " + err.Error()
	}
	return fmt.Sprintf("callback failed: %v", e.value)
}

// Unwrap exposes an underlying error, if the callback failed with one.
func (e *CallbackError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
