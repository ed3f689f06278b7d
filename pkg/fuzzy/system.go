package fuzzy

import "fmt"

// ref is a Term resolved against a System: variable index and set index.
type ref struct {
	v int
	s int
}

type compiledRule struct {
	ants []ref
	cons ref
	src  Rule
}

// System is an immutable, validated rule base together with every variable
// its rules reference.
type System struct {
	rules       []compiledRule
	variables   []*Variable
	byName      map[string]int
	antecedents []int // indexes into variables, first-reference order
	consequents []int
}

// NewSystem validates rules and compiles them into a System.
//
// Every Term must name an existing set, antecedent Terms must use antecedent
// variables and the consequent a consequent variable, and each rule needs at
// least one antecedent. Two distinct variables may not share a name.
// Violations fail with ErrInvalidConfiguration.
//
// On success the referenced variables are frozen.
func NewSystem(rules ...Rule) (*System, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: a system needs at least one rule", ErrInvalidConfiguration)
	}

	s := &System{byName: make(map[string]int)}
	for i, r := range rules {
		if len(r.Antecedents) == 0 {
			return nil, fmt.Errorf("rule %d: %w: no antecedents", i+1, ErrInvalidConfiguration)
		}
		cr := compiledRule{src: r.WithLabel(r.Label)}
		for _, t := range r.Antecedents {
			rf, err := s.resolve(t, Antecedent)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i+1, err)
			}
			cr.ants = append(cr.ants, rf)
		}
		rf, err := s.resolve(r.Consequent, Consequent)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		cr.cons = rf
		s.rules = append(s.rules, cr)
	}

	for _, v := range s.variables {
		v.frozen = true
	}
	return s, nil
}

func (s *System) resolve(t Term, want Role) (ref, error) {
	v := t.Variable
	if v == nil {
		return ref{}, fmt.Errorf("%w: term %q has no variable", ErrInvalidConfiguration, t.Set)
	}
	if v.role != want {
		return ref{}, fmt.Errorf("%w: %s is a %s, used as %s", ErrInvalidConfiguration, t, v.role, want)
	}

	vi, ok := s.byName[v.name]
	switch {
	case ok && s.variables[vi] != v:
		return ref{}, fmt.Errorf("%w: two different variables are named %q", ErrInvalidConfiguration, v.name)
	case !ok:
		vi = len(s.variables)
		s.variables = append(s.variables, v)
		s.byName[v.name] = vi
		if want == Antecedent {
			s.antecedents = append(s.antecedents, vi)
		} else {
			s.consequents = append(s.consequents, vi)
		}
	}

	si, ok := v.index[t.Set]
	if !ok {
		return ref{}, fmt.Errorf("%w: variable %q has no set %q", ErrInvalidConfiguration, v.name, t.Set)
	}
	return ref{v: vi, s: si}, nil
}

// Rules returns copies of the rules in evaluation order.
func (s *System) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.src.WithLabel(r.src.Label)
	}
	return out
}

// Variable returns the variable registered under name.
func (s *System) Variable(name string) (*Variable, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.variables[i], true
}

// Variables returns every referenced variable, antecedents and consequents
// interleaved in first-reference order.
func (s *System) Variables() []*Variable {
	out := make([]*Variable, len(s.variables))
	copy(out, s.variables)
	return out
}

// Antecedents returns the input variables in first-reference order.
func (s *System) Antecedents() []*Variable {
	return s.pick(s.antecedents)
}

// Consequents returns the output variables in first-reference order.
func (s *System) Consequents() []*Variable {
	return s.pick(s.consequents)
}

func (s *System) pick(idx []int) []*Variable {
	out := make([]*Variable, len(idx))
	for i, vi := range idx {
		out[i] = s.variables[vi]
	}
	return out
}
