package api

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

// Hint is one human-readable remark about how a score came about.
type Hint struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "info" | "warning" | "critical".
	Level string `json:"level"`
	// Title is a short label (a few words).
	Title string `json:"title"`
	// Detail is the full explanation.
	Detail string `json:"detail"`
	// Value is an optional number the hint is about (a strength, an input).
	Value *float64 `json:"value,omitempty"`
}

// Rules weaker than this are left out of the explanation.
const minExplainedStrength = 0.01

// weakEvidence flags scores whose strongest rule barely matched.
const weakEvidence = 0.1

var levelRank = map[string]int{"critical": 0, "warning": 1, "info": 2}

// explain derives hints from an evaluation. Hints are ordered critical
// first, then warnings, then info; rule hints run strongest first.
func explain(sys *fuzzy.System, ev *types.Evaluation) []Hint {
	var hints []Hint

	if ev.Fallback {
		mid := ev.Score
		hints = append(hints, Hint{
			Key:   "no_rule_fired",
			Level: "critical",
			Title: "No rule matched",
			Detail: fmt.Sprintf(
				"None of the rules matched these inputs at all, so the score was set to "+
					"the middle of the range (%.0f). Treat it as unknown rather than average.",
				mid),
			Value: &mid,
		})
	}

	// Inputs outside their universe are still fuzzified, but the result is an
	// extrapolation.
	for _, name := range wellness.InputNames {
		x, ok := ev.Inputs[name]
		if !ok {
			continue
		}
		v, ok := sys.Variable(name)
		if !ok || (x >= v.Min() && x <= v.Max()) {
			continue
		}
		val := x
		hints = append(hints, Hint{
			Key:   "out_of_range_" + name,
			Level: "warning",
			Title: fmt.Sprintf("%s out of range", name),
			Detail: fmt.Sprintf(
				"%s = %g is outside the modelled range %g to %g. The membership "+
					"curves still give it a degree, but the score is extrapolated.",
				name, x, v.Min(), v.Max()),
			Value: &val,
		})
	}

	rules := slices.Clone(ev.Rules)
	slices.SortStableFunc(rules, func(a, b types.RuleActivation) int {
		return cmp.Compare(b.Strength, a.Strength)
	})

	if !ev.Fallback && len(rules) > 0 && rules[0].Strength < weakEvidence {
		s := rules[0].Strength
		hints = append(hints, Hint{
			Key:   "weak_evidence",
			Level: "warning",
			Title: "Weak match",
			Detail: fmt.Sprintf(
				"The best-matching rule applies only %.0f%%. These inputs sit between "+
					"the patterns the rules describe, so small changes can move the score a lot.",
				s*100),
			Value: &s,
		})
	}

	for _, r := range rules {
		if r.Strength < minExplainedStrength {
			continue
		}
		s := r.Strength
		name := r.Label
		if name == "" {
			name = r.Consequent
		}
		hints = append(hints, Hint{
			Key:    "rule_" + name,
			Level:  "info",
			Title:  fmt.Sprintf("%s %.0f%%", name, s*100),
			Detail: fmt.Sprintf("%s matched with strength %.2f and pulls the score towards %q.", r.Rule, s, r.Consequent),
			Value:  &s,
		})
	}

	slices.SortStableFunc(hints, func(a, b Hint) int {
		return cmp.Compare(levelRank[a.Level], levelRank[b.Level])
	})
	return hints
}
