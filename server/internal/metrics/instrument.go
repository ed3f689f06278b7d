package metrics

import (
	"errors"
	"sync"

	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

// OutcomeError labels failures that are neither input errors nor no-rule-fired.
const OutcomeError = "error"

// Runner evaluates one request. *wellness.Evaluator satisfies it.
type Runner interface {
	Run(req types.EvaluateRequest) (*wellness.Assessment, error)
}

// Instrumented is a Runner that records every call in a Registry and hands
// each successful evaluation to its subscribers.
type Instrumented struct {
	next Runner
	reg  *Registry

	mu   sync.RWMutex
	subs []func(*types.Evaluation)
}

// Instrument wraps next so that each Run is counted in reg.
func Instrument(next Runner, reg *Registry) *Instrumented {
	return &Instrumented{next: next, reg: reg}
}

// Run evaluates req and records the outcome.
func (i *Instrumented) Run(req types.EvaluateRequest) (*wellness.Assessment, error) {
	a, err := i.next.Run(req)
	if err != nil {
		i.reg.ObserveFailure(Outcome(err))
		return nil, err
	}
	i.reg.Observe(a)

	i.mu.RLock()
	subs := i.subs
	i.mu.RUnlock()
	if len(subs) > 0 {
		ev := a.Evaluation()
		for _, fn := range subs {
			fn(ev)
		}
	}
	return a, nil
}

// Subscribe registers fn to receive every successful evaluation. fn runs on
// the caller's goroutine and must not block.
func (i *Instrumented) Subscribe(fn func(*types.Evaluation)) {
	i.mu.Lock()
	i.subs = append(i.subs, fn)
	i.mu.Unlock()
}

// Outcome maps an evaluation error to its outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case wellness.IsInputError(err):
		return OutcomeInvalidInput
	case errors.Is(err, fuzzy.ErrNoRuleFired):
		return OutcomeNoRuleFired
	default:
		return OutcomeError
	}
}
