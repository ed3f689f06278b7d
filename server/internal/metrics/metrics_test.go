package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"

	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

func assessment(score float64, fallback bool, strengths ...float64) *wellness.Assessment {
	a := &wellness.Assessment{Score: score, Fallback: fallback}
	labels := []string{"all_high", "all_medium", "all_low"}
	for i, s := range strengths {
		a.Activations = append(a.Activations, wellness.Activation{Label: labels[i], Strength: s})
	}
	return a
}

func TestRegistry_Gather(t *testing.T) {
	r := New()
	r.Observe(assessment(93.5, false, 1, 0.25, 0))
	r.Observe(assessment(50, true, 0, 0, 0))
	r.Observe(assessment(15, false, 0, 0.5, 1))
	r.ObserveFailure(OutcomeInvalidInput)

	mfs := r.Gather()
	if len(mfs) != 3 {
		t.Fatalf("families: got %d, want 3", len(mfs))
	}
	byName := map[string]int{}
	for i, mf := range mfs {
		byName[mf.GetName()] = i
	}

	evals := mfs[byName[EvaluationsTotal]]
	got := map[string]float64{}
	for _, m := range evals.GetMetric() {
		got[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	want := map[string]float64{OutcomeOK: 2, OutcomeFallback: 1, OutcomeInvalidInput: 1}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("evaluations{outcome=%q}: got %v, want %v", k, got[k], v)
		}
	}

	rules := mfs[byName[RuleActivationSum]]
	for _, m := range rules.GetMetric() {
		if m.GetLabel()[0].GetValue() == "all_medium" && m.GetCounter().GetValue() != 0.75 {
			t.Errorf("all_medium sum: got %v, want 0.75", m.GetCounter().GetValue())
		}
	}

	h := mfs[byName[ScoreHistogram]].GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 3 || h.GetSampleSum() != 158.5 {
		t.Errorf("histogram count/sum: got %d/%v, want 3/158.5", h.GetSampleCount(), h.GetSampleSum())
	}
	// Buckets are cumulative: 15 -> le 20, 50 -> le 50, 93.5 -> le 100.
	cum := map[float64]uint64{}
	for _, b := range h.GetBucket() {
		cum[b.GetUpperBound()] = b.GetCumulativeCount()
	}
	for ub, want := range map[float64]uint64{10: 0, 20: 1, 40: 1, 50: 2, 90: 2, 100: 3} {
		if cum[ub] != want {
			t.Errorf("bucket le=%v: got %d, want %d", ub, cum[ub], want)
		}
	}
}

func TestRegistry_ServeHTTP(t *testing.T) {
	r := New()
	r.Observe(assessment(72, false, 0.1, 0.9, 0))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content-type: got %q", ct)
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(strings.NewReader(rec.Body.String()))
	if err != nil {
		t.Fatalf("parse exposition: %v\n%s", err, rec.Body.String())
	}
	if mf := mfs[EvaluationsTotal]; mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Errorf("%s missing or wrong:\n%s", EvaluationsTotal, rec.Body.String())
	}
	if mf := mfs[ScoreHistogram]; mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Errorf("%s missing or wrong:\n%s", ScoreHistogram, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `fuzzwell_rule_activation_sum{rule="all_medium"} 0.9`) {
		t.Errorf("rule activation line missing:\n%s", rec.Body.String())
	}
}

func TestRegistry_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	New().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}
