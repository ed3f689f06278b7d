package fuzzy

import "errors"

// Sentinel errors. Callers match them with errors.Is; the engine wraps them
// with the offending variable, set or rule.
var (
	// ErrInvalidConfiguration reports a bad variable, set or rule definition.
	// It is returned while building a System, never during evaluation.
	ErrInvalidConfiguration = errors.New("fuzzy: invalid configuration")

	// ErrMissingInput reports an antecedent without a value at Compute time.
	ErrMissingInput = errors.New("fuzzy: missing input")

	// ErrNoRuleFired reports a consequent whose aggregated curve is all zero.
	ErrNoRuleFired = errors.New("fuzzy: no rule fired")

	// ErrUnknownVariable reports an input or output name the System does not use.
	ErrUnknownVariable = errors.New("fuzzy: unknown variable")

	// ErrInvalidInput reports a NaN or infinite input value.
	ErrInvalidInput = errors.New("fuzzy: invalid input")

	// ErrAlreadyComputed reports SetInput or Compute on a finished Simulation.
	ErrAlreadyComputed = errors.New("fuzzy: simulation already computed")

	// ErrNotComputed reports reading an output before a successful Compute.
	ErrNotComputed = errors.New("fuzzy: simulation not computed")
)
