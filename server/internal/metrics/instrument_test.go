package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

type stubRunner struct {
	a   *wellness.Assessment
	err error
}

func (s stubRunner) Run(types.EvaluateRequest) (*wellness.Assessment, error) { return s.a, s.err }

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{fmt.Errorf("x: %w", fuzzy.ErrMissingInput), OutcomeInvalidInput},
		{fuzzy.ErrInvalidInput, OutcomeInvalidInput},
		{wellness.ErrUnknownCategory, OutcomeInvalidInput},
		{fmt.Errorf("%w: \"wellness\"", fuzzy.ErrNoRuleFired), OutcomeNoRuleFired},
		{errors.New("boom"), OutcomeError},
	}
	for _, tc := range tests {
		if got := Outcome(tc.err); got != tc.want {
			t.Errorf("Outcome(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestInstrument(t *testing.T) {
	reg := New()

	ok := Instrument(stubRunner{a: &wellness.Assessment{Score: 42}}, reg)
	if _, err := ok.Run(types.EvaluateRequest{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	bad := Instrument(stubRunner{err: fuzzy.ErrMissingInput}, reg)
	if _, err := bad.Run(types.EvaluateRequest{}); !errors.Is(err, fuzzy.ErrMissingInput) {
		t.Fatalf("Run err = %v, want ErrMissingInput", err)
	}

	counts := map[string]float64{}
	for _, m := range reg.Gather()[0].GetMetric() {
		counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	if counts[OutcomeOK] != 1 || counts[OutcomeInvalidInput] != 1 {
		t.Errorf("outcome counts = %v", counts)
	}
}

func TestInstrument_Subscribe(t *testing.T) {
	reg := New()
	run := Instrument(stubRunner{a: &wellness.Assessment{ID: "a1", Score: 61}}, reg)

	var got []*types.Evaluation
	run.Subscribe(func(ev *types.Evaluation) { got = append(got, ev) })

	if _, err := run.Run(types.EvaluateRequest{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" || got[0].Score != 61 {
		t.Errorf("subscriber got %+v", got)
	}

	failing := Instrument(stubRunner{err: fuzzy.ErrNoRuleFired}, reg)
	failing.Subscribe(func(*types.Evaluation) { t.Error("subscriber called on failure") })
	_, _ = failing.Run(types.EvaluateRequest{})
}
