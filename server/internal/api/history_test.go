package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fuzzwell/fuzzwell/pkg/chart"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
	"github.com/fuzzwell/fuzzwell/server/internal/api"
	"github.com/fuzzwell/fuzzwell/server/internal/store"
)

func newHistoryHandler(t *testing.T) (*api.Handler, *wellness.Evaluator, *store.Store) {
	t.Helper()
	e := newEvaluator(t, wellness.PolicyError)
	hist := store.New(time.Hour)
	h, err := api.New(api.Options{
		System:   e.System(),
		Runner:   e,
		PlotSize: chart.Size{WidthIn: 2, HeightIn: 1, DPI: 50},
		History:  hist,
	})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return h, e, hist
}

func TestEvaluations_ListAndGet(t *testing.T) {
	h, e, hist := newHistoryHandler(t)

	a, err := e.Run(types.EvaluateRequest{
		Calories:  types.Float(2800),
		Exercise:  types.Float(120),
		Sleep:     types.Float(9),
		Intensity: types.Float(10),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	hist.Put(a.Evaluation())

	rr := get(t, h, "/api/v1/evaluations")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status: got %d, want 200", rr.Code)
	}
	var list api.HistoryResponse
	decode(t, rr, &list)
	if list.Count != 1 || len(list.Evaluations) != 1 || list.Evaluations[0].ID != "eval-1" {
		t.Fatalf("list = %+v, want one eval-1", list)
	}

	rr = get(t, h, "/api/v1/evaluations/eval-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status: got %d, want 200", rr.Code)
	}
	var one api.EvaluateResponse
	decode(t, rr, &one)
	if diff := cmp.Diff(a.Evaluation(), one.Evaluation); diff != "" {
		t.Errorf("evaluation (-want +got):\n%s", diff)
	}
	if len(one.Hints) == 0 || one.Hints[0].Key != "rule_all_high" {
		t.Errorf("hints = %+v, want rule_all_high first", one.Hints)
	}
}

func TestEvaluations_Errors(t *testing.T) {
	h, _, _ := newHistoryHandler(t)
	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/v1/evaluations/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/evaluations/", http.StatusNotFound},
		{http.MethodGet, "/api/v1/evaluations?limit=0", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/evaluations?limit=x", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/evaluations", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/v1/evaluations/eval-1", http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != tc.want {
				t.Errorf("status: got %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestEvaluations_DisabledWithoutHistory(t *testing.T) {
	rr := get(t, newHandler(t, wellness.PolicyError), "/api/v1/evaluations")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}
