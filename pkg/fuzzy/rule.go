package fuzzy

import "strings"

// Rule is IF a1 AND a2 AND ... THEN consequent.
//
// AND is the only combinator: the rule fires with the minimum of its
// antecedent degrees.
type Rule struct {
	Antecedents []Term
	Consequent  Term
	// Label is an optional stable name used in traces and metrics.
	Label string
}

// NewRule builds a rule. The antecedent slice is copied.
func NewRule(antecedents []Term, consequent Term) Rule {
	ants := make([]Term, len(antecedents))
	copy(ants, antecedents)
	return Rule{Antecedents: ants, Consequent: consequent}
}

// WithLabel returns a copy of r carrying label.
func (r Rule) WithLabel(label string) Rule {
	r.Antecedents = append([]Term(nil), r.Antecedents...)
	r.Label = label
	return r
}

func (r Rule) String() string {
	var b strings.Builder
	b.WriteString("IF ")
	for i, t := range r.Antecedents {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(t.String())
	}
	b.WriteString(" THEN ")
	b.WriteString(r.Consequent.String())
	return b.String()
}

// Strength returns the firing strength of a conjunction: the minimum of
// degrees, or 0 when there are none.
//
// Raising any single degree never lowers the result.
func Strength(degrees ...float64) float64 {
	if len(degrees) == 0 {
		return 0
	}
	w := degrees[0]
	for _, d := range degrees[1:] {
		if d < w {
			w = d
		}
	}
	return w
}
