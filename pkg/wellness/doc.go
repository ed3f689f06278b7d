// Package wellness holds the fixed wellness model built on pkg/fuzzy and the
// logic that turns an engine result into something a person can read.
//
// BuildDefaultSystem assembles the four input variables (calories, exercise,
// sleep, wintensity), the wellness output and the five rules. The constants
// live in system.go and are not configurable.
//
// Around the engine:
//
//   - categories.go: named input levels ("low", "high", ...) and a Sampler
//     that draws a crisp value for a level from an injected RandSource.
//   - resolve.go: turns a types.EvaluateRequest into crisp engine inputs.
//   - advice.go: ordered "field op value" recommendation rules.
//   - band.go: names the wellness set a score belongs to most.
//   - evaluator.go: Evaluator ties the above together for the server and the
//     CLI, applying the no-rule-fired policy.
//
// An Evaluator is safe for concurrent use. Its advice rules and policy can be
// swapped at runtime; the System cannot.
package wellness
