// Package metrics keeps in-process evaluation counters and serves them in the
// Prometheus text exposition format.
//
// Families:
//
//	fuzzwell_evaluations_total{outcome}     counter
//	fuzzwell_rule_activation_sum{rule}      counter, summed firing strength
//	fuzzwell_score                          histogram of crisp scores
//
// Families are built directly as client_model protobufs and written with
// expfmt; there is no client_golang registry. A Registry is safe for
// concurrent use.
package metrics
