package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fuzzwell/fuzzwell/pkg/types"
)

const (
	evaluationPrefix = "/api/v1/evaluations/"

	defaultHistoryLimit = 50
)

// listEvaluations returns GET /api/v1/evaluations?limit=N, newest first.
func (h *Handler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonErr(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries := h.hist.List(limit)
	out := make([]*types.Evaluation, len(entries))
	for i, e := range entries {
		out[i] = e.Evaluation
	}
	jsonResp(w, http.StatusOK, HistoryResponse{Evaluations: out, Count: len(out)})
}

// getEvaluation returns GET /api/v1/evaluations/{id}.
func (h *Handler) getEvaluation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, evaluationPrefix)
	if id == "" || strings.Contains(id, "/") {
		jsonErr(w, http.StatusNotFound, "evaluation not found")
		return
	}
	e, ok := h.hist.Get(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "evaluation not found")
		return
	}
	jsonResp(w, http.StatusOK, EvaluateResponse{Evaluation: e.Evaluation, Hints: explain(h.sys, e.Evaluation)})
}
