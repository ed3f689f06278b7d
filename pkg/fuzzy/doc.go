// Package fuzzy implements a small Mamdani fuzzy inference engine.
//
// The pieces, leaf first:
//
//   - Gaussian / Set: membership functions, defined for every real x.
//   - Variable: a linguistic variable with a discretised universe and named
//     sets. Built with NewAntecedent (read by rules) or NewConsequent (written
//     by rules); sets are added with AddSet.
//   - Rule: an AND (min) conjunction of antecedent Terms implying one
//     consequent Term. Terms are created with Variable.Is("set").
//   - System: the validated, immutable rule base. NewSystem resolves every
//     Term to a set index and fails with ErrInvalidConfiguration for unknown
//     sets or role mismatches, so evaluation never looks sets up by name.
//   - Simulation: a single-use evaluation context. SetInput for every
//     antecedent, Compute exactly once, then read Output / Result.
//
// Inference runs five steps in order: fuzzification at the crisp input,
// rule strength (min), implication (clip the consequent curve at the
// strength), aggregation (pointwise max per consequent variable) and centroid
// defuzzification over the consequent universe. An all-zero aggregate has no
// centroid and is reported as ErrNoRuleFired.
//
// A System is safe for concurrent use; a Simulation is not and must not be
// shared between goroutines.
package fuzzy
