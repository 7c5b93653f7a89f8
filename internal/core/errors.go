package core

import "errors"

var (
	// ErrConfig indicates a problem could not be constructed from its inputs.
	ErrConfig = errors.New("invalid problem configuration")

	// ErrRoster indicates a malformed entity roster.
	ErrRoster = errors.New("invalid roster")

	// ErrDuplicateFluent indicates a fluent listed more than once in an initial state.
	ErrDuplicateFluent = errors.New("duplicate fluent")

	// ErrUnknownFluent indicates a fluent that is absent from the fluent ordering.
	ErrUnknownFluent = errors.New("fluent not in ordering")

	// ErrFluentSyntax indicates text that does not parse as Pred(arg, ...).
	ErrFluentSyntax = errors.New("malformed fluent")

	// ErrStateLength indicates a state whose width differs from the fluent ordering.
	ErrStateLength = errors.New("state length does not match fluent ordering")

	// ErrStateSymbol indicates a state byte other than 'T' or 'F'.
	ErrStateSymbol = errors.New("invalid state symbol")

	// ErrNotApplicable indicates an action whose preconditions do not hold.
	ErrNotApplicable = errors.New("action not applicable")

	// ErrGoalNotReached indicates a plan that ends outside the goal.
	ErrGoalNotReached = errors.New("goal not reached")
)
