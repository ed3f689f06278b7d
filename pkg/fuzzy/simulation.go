package fuzzy

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Result is the trace of one Compute call.
type Result struct {
	// Outputs holds the crisp value of every consequent that had a centroid.
	Outputs map[string]float64

	// Degrees holds the fuzzified inputs: variable -> set -> degree.
	Degrees map[string]map[string]float64

	// Strengths holds each rule's firing strength, in System rule order.
	Strengths []float64

	// Aggregated holds each consequent's aggregated curve over its universe.
	Aggregated map[string][]float64
}

// Simulation is a single-use evaluation context for a System.
//
// Assign every antecedent with SetInput, call Compute once, then read Output
// or Result. A Simulation is discarded after use; build a new one for the
// next evaluation.
type Simulation struct {
	sys      *System
	inputs   map[string]float64
	computed bool
	result   *Result
}

// NewSimulation returns an empty evaluation context for s.
func (s *System) NewSimulation() *Simulation {
	return &Simulation{
		sys:    s,
		inputs: make(map[string]float64, len(s.antecedents)),
	}
}

// SetInput assigns the crisp value of an antecedent.
//
// Values outside the variable's universe are accepted: Gaussian membership is
// defined everywhere. NaN and infinities are rejected with ErrInvalidInput.
func (sim *Simulation) SetInput(name string, value float64) error {
	if sim.computed {
		return ErrAlreadyComputed
	}
	vi, ok := sim.sys.byName[name]
	if !ok || sim.sys.variables[vi].role != Antecedent {
		return fmt.Errorf("%w: %q is not an input of this system", ErrUnknownVariable, name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %q = %v", ErrInvalidInput, name, value)
	}
	sim.inputs[name] = value
	return nil
}

// Compute runs inference. It may be called once; later calls return
// ErrAlreadyComputed.
//
// A missing antecedent fails with ErrMissingInput and no Result. A consequent
// whose aggregated curve is all zero fails with ErrNoRuleFired; the Result is
// still recorded and holds the outputs of the other consequents.
func (sim *Simulation) Compute() error {
	if sim.computed {
		return ErrAlreadyComputed
	}
	sim.computed = true

	res, err := sim.sys.infer(sim.inputs)
	sim.result = res
	return err
}

// Output returns the crisp value computed for a consequent.
func (sim *Simulation) Output(name string) (float64, error) {
	if sim.result == nil {
		return 0, ErrNotComputed
	}
	vi, ok := sim.sys.byName[name]
	if !ok || sim.sys.variables[vi].role != Consequent {
		return 0, fmt.Errorf("%w: %q is not an output of this system", ErrUnknownVariable, name)
	}
	v, ok := sim.result.Outputs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoRuleFired, name)
	}
	return v, nil
}

// Outputs returns a copy of all computed consequent values.
func (sim *Simulation) Outputs() map[string]float64 {
	if sim.result == nil {
		return nil
	}
	return maps.Clone(sim.result.Outputs)
}

// Result returns the inference trace, or nil before a successful fuzzification.
func (sim *Simulation) Result() *Result {
	return sim.result
}

// Evaluate runs a fresh Simulation over inputs and returns the crisp outputs
// keyed by consequent name.
func (s *System) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	sim := s.NewSimulation()
	for _, name := range slices.Sorted(maps.Keys(inputs)) {
		if err := sim.SetInput(name, inputs[name]); err != nil {
			return nil, err
		}
	}
	if err := sim.Compute(); err != nil {
		return nil, err
	}
	return sim.Outputs(), nil
}

// infer executes the five inference steps in order. It reads s and inputs
// only; all intermediate state is local.
func (s *System) infer(inputs map[string]float64) (*Result, error) {
	// 1. Fuzzification.
	degrees := make([][]float64, len(s.variables))
	for _, vi := range s.antecedents {
		v := s.variables[vi]
		x, ok := inputs[v.name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingInput, v.name)
		}
		d := make([]float64, len(v.sets))
		for j, set := range v.sets {
			d[j] = set.Membership(x)
		}
		degrees[vi] = d
	}

	// 2. Rule strength.
	strengths := make([]float64, len(s.rules))
	for i, r := range s.rules {
		ds := make([]float64, len(r.ants))
		for j, a := range r.ants {
			ds[j] = degrees[a.v][a.s]
		}
		strengths[i] = Strength(ds...)
	}

	// 3. Implication and 4. aggregation.
	agg := make(map[int][]float64, len(s.consequents))
	for _, vi := range s.consequents {
		agg[vi] = make([]float64, len(s.variables[vi].universe))
	}
	for i, r := range s.rules {
		w := strengths[i]
		if w == 0 {
			continue
		}
		v := s.variables[r.cons.v]
		set := v.sets[r.cons.s]
		curve := agg[r.cons.v]
		for k, u := range v.universe {
			if c := math.Min(set.Membership(u), w); c > curve[k] {
				curve[k] = c
			}
		}
	}

	// 5. Defuzzification.
	res := &Result{
		Outputs:    make(map[string]float64, len(s.consequents)),
		Degrees:    make(map[string]map[string]float64, len(s.antecedents)),
		Strengths:  strengths,
		Aggregated: make(map[string][]float64, len(s.consequents)),
	}
	for _, vi := range s.antecedents {
		v := s.variables[vi]
		m := make(map[string]float64, len(v.sets))
		for j, set := range v.sets {
			m[set.Name] = degrees[vi][j]
		}
		res.Degrees[v.name] = m
	}

	var errs []error
	for _, vi := range s.consequents {
		v := s.variables[vi]
		res.Aggregated[v.name] = agg[vi]
		out, err := Centroid(v.universe, agg[vi])
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", err, v.name))
			continue
		}
		res.Outputs[v.name] = out
	}
	return res, errors.Join(errs...)
}

// Centroid returns sum(u[i]*c[i]) / sum(c[i]).
//
// An all-zero curve has no centroid and yields ErrNoRuleFired. The result is
// kept inside [u[0], u[len-1]], which only matters when the curve is so small
// that rounding pushes the ratio past the ends.
func Centroid(universe, curve []float64) (float64, error) {
	if len(universe) != len(curve) || len(universe) == 0 {
		return 0, fmt.Errorf("%w: universe has %d points, curve has %d", ErrInvalidInput, len(universe), len(curve))
	}
	area := floats.Sum(curve)
	if area == 0 {
		return 0, ErrNoRuleFired
	}
	c := floats.Dot(universe, curve) / area
	lo, hi := universe[0], universe[len(universe)-1]
	return math.Max(lo, math.Min(hi, c)), nil
}
