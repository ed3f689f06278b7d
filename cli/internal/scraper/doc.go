// Package scraper reads the Prometheus text exposition served by
// fuzzwell-server at /metrics and summarises it for `fuzzwell stats`.
//
// Scraper.Scrape fetches the page with expfmt content negotiation, parses it
// into metric families and extracts:
//
//	fuzzwell_evaluations_total{outcome}  → Stats.Outcomes
//	fuzzwell_rule_activation_sum{rule}   → Stats.Rules
//	fuzzwell_score (histogram)           → Stats.Count / Sum / Buckets
//
// In apikey mode the key header is added to every request; mtls loads a
// client certificate for the transport.
package scraper
