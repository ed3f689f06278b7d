package wellness

import (
	"errors"
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
)

// Policy decides what happens when no rule fires for the wellness output.
type Policy int32

const (
	// PolicyError surfaces fuzzy.ErrNoRuleFired to the caller.
	PolicyError Policy = iota
	// PolicyMidpoint scores the midpoint of the wellness universe and flags
	// the result as a fallback.
	PolicyMidpoint
)

func (p Policy) String() string {
	switch p {
	case PolicyError:
		return "error"
	case PolicyMidpoint:
		return "midpoint"
	default:
		return fmt.Sprintf("policy(%d)", int32(p))
	}
}

// ParsePolicy maps a config value to a Policy. The empty string is "error".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "error":
		return PolicyError, nil
	case "midpoint":
		return PolicyMidpoint, nil
	default:
		return 0, fmt.Errorf("unknown no_rule_fired policy %q (want error or midpoint)", s)
	}
}

// Options configures an Evaluator. Zero values pick defaults.
type Options struct {
	Advisor *Advisor // default: DefaultAdvice
	Policy  Policy
	Sampler *Sampler // default: clock-seeded math/rand

	Now   func() time.Time // default: time.Now
	NewID func() string    // default: uuid.NewString
}

// Activation is one rule's contribution to an Assessment.
type Activation struct {
	Label      string
	Rule       string
	Consequent string // wellness set name
	Strength   float64
}

// Assessment is the full outcome of one evaluation.
type Assessment struct {
	ID          string
	EvaluatedAt time.Time

	Inputs          map[string]float64
	Score           float64
	Band            string
	Fallback        bool
	Recommendations []string
	Activations     []Activation // System rule order

	// Degrees and Curve come from the engine trace: fuzzified inputs and the
	// aggregated wellness curve over its universe.
	Degrees map[string]map[string]float64
	Curve   []float64
}

// Evaluation converts a to its wire form.
func (a *Assessment) Evaluation() *types.Evaluation {
	ev := &types.Evaluation{
		ID:              a.ID,
		Score:           a.Score,
		Band:            a.Band,
		Fallback:        a.Fallback,
		Inputs:          maps.Clone(a.Inputs),
		Recommendations: slices.Clone(a.Recommendations),
		Rules:           make([]types.RuleActivation, len(a.Activations)),
		EvaluatedAt:     a.EvaluatedAt.UTC().Format(time.RFC3339),
	}
	for i, act := range a.Activations {
		ev.Rules[i] = types.RuleActivation{
			Label:      act.Label,
			Rule:       act.Rule,
			Consequent: act.Consequent,
			Strength:   act.Strength,
		}
	}
	return ev
}

// Evaluator runs the wellness System and decorates its output.
type Evaluator struct {
	sys      *fuzzy.System
	wellness *fuzzy.Variable
	rules    []fuzzy.Rule
	sampler  *Sampler
	now      func() time.Time
	newID    func() string

	advisor atomic.Pointer[Advisor]
	policy  atomic.Int32
}

// NewEvaluator returns an Evaluator for sys, which must have a "wellness"
// consequent.
func NewEvaluator(sys *fuzzy.System, opts Options) (*Evaluator, error) {
	w, ok := sys.Variable(VarWellness)
	if !ok || w.Role() != fuzzy.Consequent {
		return nil, fmt.Errorf("wellness: system has no %q output", VarWellness)
	}

	e := &Evaluator{
		sys:      sys,
		wellness: w,
		rules:    sys.Rules(),
		sampler:  opts.Sampler,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if e.sampler == nil {
		e.sampler = NewSampler(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}

	adv := opts.Advisor
	if adv == nil {
		var err error
		if adv, err = NewAdvisor(DefaultAdvice()); err != nil {
			return nil, err
		}
	}
	e.advisor.Store(adv)
	e.policy.Store(int32(opts.Policy))
	return e, nil
}

// System returns the underlying rule base.
func (e *Evaluator) System() *fuzzy.System { return e.sys }

// Sampler returns the level sampler used by Run.
func (e *Evaluator) Sampler() *Sampler { return e.sampler }

// SetAdvisor swaps the recommendation rules.
func (e *Evaluator) SetAdvisor(a *Advisor) { e.advisor.Store(a) }

// SetPolicy swaps the no-rule-fired policy.
func (e *Evaluator) SetPolicy(p Policy) { e.policy.Store(int32(p)) }

// Policy returns the current no-rule-fired policy.
func (e *Evaluator) Policy() Policy { return Policy(e.policy.Load()) }

// Band names the wellness set score belongs to most.
func (e *Evaluator) Band(score float64) string { return Band(e.wellness, score) }

// Evaluate scores crisp inputs keyed by variable name.
//
// Engine errors are returned unchanged (match them with errors.Is) except
// fuzzy.ErrNoRuleFired under PolicyMidpoint, which yields a fallback
// Assessment instead.
func (e *Evaluator) Evaluate(inputs map[string]float64) (*Assessment, error) {
	sim := e.sys.NewSimulation()
	for _, name := range slices.Sorted(maps.Keys(inputs)) {
		if err := sim.SetInput(name, inputs[name]); err != nil {
			return nil, err
		}
	}

	a := &Assessment{Inputs: maps.Clone(inputs)}
	err := sim.Compute()
	switch {
	case err == nil:
		a.Score, _ = sim.Output(VarWellness)
	case errors.Is(err, fuzzy.ErrNoRuleFired) && e.Policy() == PolicyMidpoint:
		a.Score = (e.wellness.Min() + e.wellness.Max()) / 2
		a.Fallback = true
	default:
		return nil, err
	}

	res := sim.Result()
	a.Degrees = res.Degrees
	a.Curve = res.Aggregated[VarWellness]
	a.Activations = make([]Activation, len(e.rules))
	for i, r := range e.rules {
		a.Activations[i] = Activation{
			Label:      r.Label,
			Rule:       r.String(),
			Consequent: r.Consequent.Set,
			Strength:   res.Strengths[i],
		}
	}

	a.Band = e.Band(a.Score)
	a.Recommendations = e.advisor.Load().Advise(a.Inputs, a.Score)
	return a, nil
}

// Run resolves req, evaluates it and stamps the result with an ID and time.
func (e *Evaluator) Run(req types.EvaluateRequest) (*Assessment, error) {
	inputs, err := Resolve(req, e.sampler)
	if err != nil {
		return nil, err
	}
	a, err := e.Evaluate(inputs)
	if err != nil {
		return nil, err
	}
	a.ID = e.newID()
	a.EvaluatedAt = e.now()
	return a, nil
}

// IsInputError reports whether err was caused by the caller's inputs rather
// than by the engine: a missing, unknown or non-finite input, or an unknown
// level name.
func IsInputError(err error) bool {
	return errors.Is(err, fuzzy.ErrMissingInput) ||
		errors.Is(err, fuzzy.ErrInvalidInput) ||
		errors.Is(err, fuzzy.ErrUnknownVariable) ||
		errors.Is(err, ErrUnknownCategory)
}
