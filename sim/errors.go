package sim

import "errors"

// Caller errors. None of them is transient; callers should match with errors.Is.
var (
	// ErrInvalidArgument reports bad generation, engine or configuration parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyPopulation reports an allocation attempted with zero registered consumers.
	ErrEmptyPopulation = errors.New("empty population")
	// ErrEmptyResult reports a score requested for an empty allocation result.
	ErrEmptyResult = errors.New("empty allocation result")
	// ErrUnknownPolicy reports a policy key missing from the policy table.
	ErrUnknownPolicy = errors.New("unknown policy")
)
