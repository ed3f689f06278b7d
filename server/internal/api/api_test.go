package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fuzzwell/fuzzwell/pkg/chart"
	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
	"github.com/fuzzwell/fuzzwell/server/internal/api"
)

// --- test helpers -----------------------------------------------------------

// halfSource always samples the middle of a range.
type halfSource struct{}

func (halfSource) Float64() float64 { return 0.5 }

func newEvaluator(t *testing.T, policy wellness.Policy) *wellness.Evaluator {
	t.Helper()
	sys, err := wellness.BuildDefaultSystem()
	if err != nil {
		t.Fatalf("BuildDefaultSystem: %v", err)
	}
	e, err := wellness.NewEvaluator(sys, wellness.Options{
		Policy:  policy,
		Sampler: wellness.NewSampler(halfSource{}),
		Now:     func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) },
		NewID:   func() string { return "eval-1" },
	})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return e
}

func newHandler(t *testing.T, policy wellness.Policy) *api.Handler {
	t.Helper()
	e := newEvaluator(t, policy)
	h, err := api.New(api.Options{
		System:        e.System(),
		Runner:        e,
		PlotCacheSize: 4,
		PlotSize:      chart.Size{WidthIn: 2, HeightIn: 1, DPI: 50},
	})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return h
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- constructor ------------------------------------------------------------

func TestNew_RequiresSystemAndRunner(t *testing.T) {
	if _, err := api.New(api.Options{}); err == nil {
		t.Error("expected error for empty Options")
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	rr := get(t, newHandler(t, wellness.PolicyError), "/api/v1/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "ok" || resp.Rules != 5 || resp.Variables != 5 {
		t.Errorf("health = %+v, want ok/5 rules/5 variables", resp)
	}
}

// --- /api/v1/evaluate -------------------------------------------------------

func TestEvaluate_OK(t *testing.T) {
	h := newHandler(t, wellness.PolicyError)
	rr := post(t, h, "/api/v1/evaluate",
		`{"calories":2800,"exercise":120,"sleep":9,"wintensity":10}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var resp api.EvaluateResponse
	decode(t, rr, &resp)

	if resp.Evaluation == nil {
		t.Fatal("evaluation fields missing from response")
	}
	if resp.ID != "eval-1" || resp.EvaluatedAt != "2026-03-14T09:30:00Z" {
		t.Errorf("id/time = %q/%q", resp.ID, resp.EvaluatedAt)
	}
	if resp.Band != wellness.BandExcellent || resp.Score < 85 {
		t.Errorf("score = %v band = %q, want >= 85 excellent", resp.Score, resp.Band)
	}
	if len(resp.Rules) != 5 {
		t.Errorf("rules: got %d, want 5", len(resp.Rules))
	}
	if len(resp.Hints) == 0 || resp.Hints[0].Key != "rule_all_high" {
		t.Errorf("hints = %+v, want rule_all_high first", resp.Hints)
	}
}

func TestEvaluate_SamplesLevels(t *testing.T) {
	h := newHandler(t, wellness.PolicyError)
	rr := post(t, h, "/api/v1/evaluate",
		`{"calories_level":"high","exercise":60,"sleep":7,"intensity_level":"medium"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var resp api.EvaluateResponse
	decode(t, rr, &resp)
	// halfSource picks the middle of each range.
	if got := resp.Inputs[wellness.VarCalories]; got != 2900 {
		t.Errorf("calories = %v, want 2900", got)
	}
	if got := resp.Inputs[wellness.VarIntensity]; got != 5 {
		t.Errorf("wintensity = %v, want 5", got)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		policy   wellness.Policy
		method   string
		body     string
		wantCode int
	}{
		{"wrong method", wellness.PolicyError, http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", wellness.PolicyError, http.MethodPost, `{"calories":`, http.StatusBadRequest},
		{"wrong type", wellness.PolicyError, http.MethodPost, `{"calories":"lots"}`, http.StatusBadRequest},
		{"missing input", wellness.PolicyError, http.MethodPost,
			`{"calories":2200,"sleep":7,"wintensity":5}`, http.StatusUnprocessableEntity},
		{"unknown level", wellness.PolicyError, http.MethodPost,
			`{"calories_level":"enormous","exercise":60,"sleep":7,"wintensity":5}`, http.StatusUnprocessableEntity},
		{"no rule fired", wellness.PolicyError, http.MethodPost,
			`{"calories":2200,"exercise":1e200,"sleep":1e200,"wintensity":5}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandler(t, tc.policy)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tc.method, "/api/v1/evaluate", strings.NewReader(tc.body)))
			if rr.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body %s)", rr.Code, tc.wantCode, rr.Body.String())
			}
			var resp map[string]string
			decode(t, rr, &resp)
			if resp["error"] == "" {
				t.Error("error body missing")
			}
		})
	}
}

func TestEvaluate_MidpointFallback(t *testing.T) {
	h := newHandler(t, wellness.PolicyMidpoint)
	rr := post(t, h, "/api/v1/evaluate",
		`{"calories":2200,"exercise":1e200,"sleep":1e200,"wintensity":5}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var resp api.EvaluateResponse
	decode(t, rr, &resp)
	if !resp.Fallback || resp.Score != 50 {
		t.Errorf("fallback = %v score = %v, want true/50", resp.Fallback, resp.Score)
	}
	if len(resp.Hints) == 0 || resp.Hints[0].Key != "no_rule_fired" {
		t.Errorf("first hint = %+v, want no_rule_fired", resp.Hints)
	}
}

type failingRunner struct{}

func (failingRunner) Run(types.EvaluateRequest) (*wellness.Assessment, error) {
	return nil, errors.New("disk on fire")
}

func TestEvaluate_EngineFailureIs500(t *testing.T) {
	sys, err := wellness.BuildDefaultSystem()
	if err != nil {
		t.Fatal(err)
	}
	h, err := api.New(api.Options{System: sys, Runner: failingRunner{}})
	if err != nil {
		t.Fatal(err)
	}
	rr := post(t, h, "/api/v1/evaluate", `{}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", fuzzy.ErrMissingInput), http.StatusUnprocessableEntity},
		{fuzzy.ErrInvalidInput, http.StatusUnprocessableEntity},
		{fuzzy.ErrUnknownVariable, http.StatusUnprocessableEntity},
		{wellness.ErrUnknownCategory, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %q", fuzzy.ErrNoRuleFired, "wellness"), http.StatusUnprocessableEntity},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := api.StatusFor(tc.err); got != tc.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

// --- /api/v1/system and /api/v1/categories ---------------------------------

func TestSystem(t *testing.T) {
	rr := get(t, newHandler(t, wellness.PolicyError), "/api/v1/system")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.SystemResponse
	decode(t, rr, &resp)

	if len(resp.Variables) != 5 || len(resp.Rules) != 5 {
		t.Fatalf("got %d variables, %d rules; want 5, 5", len(resp.Variables), len(resp.Rules))
	}
	byName := map[string]api.VariableResponse{}
	for _, v := range resp.Variables {
		byName[v.Name] = v
	}
	sleep, ok := byName[wellness.VarSleep]
	if !ok {
		t.Fatal("sleep variable missing")
	}
	if sleep.Role != "antecedent" || sleep.Step != 0.5 || len(sleep.Sets) != 5 {
		t.Errorf("sleep = %+v", sleep)
	}
	if sleep.Plot != "/api/v1/plots/sleep.png" {
		t.Errorf("plot url = %q", sleep.Plot)
	}
	if byName[wellness.VarWellness].Role != "consequent" {
		t.Errorf("wellness role = %q, want consequent", byName[wellness.VarWellness].Role)
	}
	if resp.Rules[0].Label != "all_high" || !strings.HasPrefix(resp.Rules[0].Text, "IF calories.high") {
		t.Errorf("first rule = %+v", resp.Rules[0])
	}
}

func TestCategories(t *testing.T) {
	rr := get(t, newHandler(t, wellness.PolicyError), "/api/v1/categories")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.CategoriesResponse
	decode(t, rr, &resp)
	if len(resp[wellness.VarCalories]) != 5 || len(resp[wellness.VarIntensity]) != 3 {
		t.Errorf("categories = %+v", resp)
	}
}

func TestReadOnlyEndpoints_MethodNotAllowed(t *testing.T) {
	h := newHandler(t, wellness.PolicyError)
	for _, path := range []string{"/api/v1/health", "/api/v1/system", "/api/v1/categories", "/api/v1/plots/sleep.png"} {
		rr := post(t, h, path, "{}")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", path, rr.Code)
		}
	}
}

// --- /api/v1/plots ----------------------------------------------------------

func TestPlot_RendersPNG(t *testing.T) {
	h := newHandler(t, wellness.PolicyError)
	rr := get(t, h, "/api/v1/plots/sleep.png")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type: got %q", ct)
	}
	first := rr.Body.Bytes()
	img, err := png.Decode(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("image size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}

	// Second request is served from the cache.
	again := get(t, h, "/api/v1/plots/sleep.png")
	if !bytes.Equal(first, again.Body.Bytes()) {
		t.Error("cached plot differs from the first render")
	}
}

func TestPlot_NotFound(t *testing.T) {
	h := newHandler(t, wellness.PolicyError)
	for _, path := range []string{"/api/v1/plots/mood.png", "/api/v1/plots/sleep", "/api/v1/plots/.png"} {
		if rr := get(t, h, path); rr.Code != http.StatusNotFound {
			t.Errorf("GET %s: got %d, want 404", path, rr.Code)
		}
	}
}
