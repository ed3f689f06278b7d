package fuzzy

import (
	"fmt"
	"math"
)

// Role tells whether rules read a variable (antecedent) or write it (consequent).
type Role int

const (
	Antecedent Role = iota + 1
	Consequent
)

func (r Role) String() string {
	switch r {
	case Antecedent:
		return "antecedent"
	case Consequent:
		return "consequent"
	default:
		return "unknown"
	}
}

// universeEpsilon absorbs float error when deciding whether max is reachable
// from min in whole steps (e.g. 0..12 in steps of 0.5).
const universeEpsilon = 1e-9

// Variable is a linguistic variable: a name, a role, a discretised universe
// and an ordered list of named Gaussian sets.
//
// Sets are added while the rule base is being assembled. Once a Variable is
// part of a System it is frozen and AddSet fails.
type Variable struct {
	name     string
	role     Role
	min      float64
	max      float64
	step     float64
	universe []float64
	sets     []Set
	index    map[string]int
	frozen   bool
}

// NewAntecedent defines an input variable over [min, max] sampled every step.
func NewAntecedent(name string, min, max, step float64) (*Variable, error) {
	return newVariable(name, Antecedent, min, max, step)
}

// NewConsequent defines an output variable over [min, max] sampled every step.
// Aggregation and defuzzification run over this universe.
func NewConsequent(name string, min, max, step float64) (*Variable, error) {
	return newVariable(name, Consequent, min, max, step)
}

func newVariable(name string, role Role, min, max, step float64) (*Variable, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: variable name is required", ErrInvalidConfiguration)
	}
	for _, f := range []float64{min, max, step} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: variable %q: bounds and step must be finite", ErrInvalidConfiguration, name)
		}
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: variable %q: step %v must be positive", ErrInvalidConfiguration, name, step)
	}
	if max < min {
		return nil, fmt.Errorf("%w: variable %q: max %v is below min %v", ErrInvalidConfiguration, name, max, min)
	}

	n := int(math.Floor((max-min)/step+universeEpsilon)) + 1
	universe := make([]float64, n)
	for i := range universe {
		universe[i] = min + float64(i)*step
	}

	return &Variable{
		name:     name,
		role:     role,
		min:      min,
		max:      max,
		step:     step,
		universe: universe,
		index:    make(map[string]int),
	}, nil
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Role reports whether rules read or write the variable.
func (v *Variable) Role() Role { return v.role }

// Min returns the lower universe bound.
func (v *Variable) Min() float64 { return v.min }

// Max returns the upper universe bound.
func (v *Variable) Max() float64 { return v.max }

// Step returns the universe sampling step.
func (v *Variable) Step() float64 { return v.step }

// Universe returns a copy of the sample points.
func (v *Variable) Universe() []float64 {
	out := make([]float64, len(v.universe))
	copy(out, v.universe)
	return out
}

// AddSet registers a Gaussian set under name.
//
// Re-adding a name with identical parameters is a no-op. Re-adding it with
// different parameters, a non-positive sigma, or adding to a frozen variable
// fails with ErrInvalidConfiguration.
func (v *Variable) AddSet(name string, center, sigma float64) error {
	if v.frozen {
		return fmt.Errorf("%w: variable %q is part of a system and cannot change", ErrInvalidConfiguration, v.name)
	}
	if name == "" {
		return fmt.Errorf("%w: variable %q: set name is required", ErrInvalidConfiguration, v.name)
	}
	if math.IsNaN(center) || math.IsInf(center, 0) {
		return fmt.Errorf("%w: %s.%s: center must be finite", ErrInvalidConfiguration, v.name, name)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: %s.%s: sigma %v must be positive and finite", ErrInvalidConfiguration, v.name, name, sigma)
	}

	s := Set{Name: name, Center: center, Sigma: sigma}
	if i, ok := v.index[name]; ok {
		if v.sets[i] == s {
			return nil
		}
		return fmt.Errorf("%w: %s.%s is already defined with different parameters", ErrInvalidConfiguration, v.name, name)
	}
	v.index[name] = len(v.sets)
	v.sets = append(v.sets, s)
	return nil
}

// Set returns the named set.
func (v *Variable) Set(name string) (Set, bool) {
	i, ok := v.index[name]
	if !ok {
		return Set{}, false
	}
	return v.sets[i], true
}

// Sets returns the sets in insertion order.
func (v *Variable) Sets() []Set {
	out := make([]Set, len(v.sets))
	copy(out, v.sets)
	return out
}

// Is returns a Term referring to the named set of v. The name is checked when
// the Term is compiled into a System.
func (v *Variable) Is(set string) Term {
	return Term{Variable: v, Set: set}
}

// Fuzzify returns the membership degree of x in every set, keyed by set name.
func (v *Variable) Fuzzify(x float64) map[string]float64 {
	out := make(map[string]float64, len(v.sets))
	for _, s := range v.sets {
		out[s.Name] = s.Membership(x)
	}
	return out
}

// Term names one set of one variable inside a rule.
type Term struct {
	Variable *Variable
	Set      string
}

func (t Term) String() string {
	if t.Variable == nil {
		return "<nil>." + t.Set
	}
	return t.Variable.name + "." + t.Set
}
