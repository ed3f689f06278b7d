package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/fuzzwell/fuzzwell/pkg/chart"
	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
	"github.com/fuzzwell/fuzzwell/server/internal/store"
)

// maxBodyBytes caps POST /api/v1/evaluate request bodies.
const maxBodyBytes = 64 << 10

// Runner evaluates one request. *wellness.Evaluator and
// *metrics.Instrumented satisfy it.
type Runner interface {
	Run(req types.EvaluateRequest) (*wellness.Assessment, error)
}

// Options configures a Handler.
type Options struct {
	System *fuzzy.System
	Runner Runner

	// PlotCacheSize is the number of rendered charts kept; 0 disables caching.
	PlotCacheSize int
	PlotSize      chart.Size

	// History, when set, serves /api/v1/evaluations. Filling it is up to
	// the caller.
	History *store.Store
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	sys   *fuzzy.System
	run   Runner
	plots *plotCache
	hist  *store.Store
	mux   *http.ServeMux
}

// New creates a Handler and registers all routes.
func New(opts Options) (*Handler, error) {
	if opts.System == nil || opts.Runner == nil {
		return nil, errors.New("api: System and Runner are required")
	}
	pc, err := newPlotCache(opts.PlotCacheSize, opts.PlotSize)
	if err != nil {
		return nil, err
	}

	h := &Handler{sys: opts.System, run: opts.Runner, plots: pc, hist: opts.History, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/evaluate", h.evaluate)
	h.mux.HandleFunc("/api/v1/system", h.system)
	h.mux.HandleFunc("/api/v1/categories", h.categories)
	h.mux.HandleFunc(plotPrefix, h.plot) // subtree, extracts {variable}.png
	if h.hist != nil {
		h.mux.HandleFunc("/api/v1/evaluations", h.listEvaluations)
		h.mux.HandleFunc(evaluationPrefix, h.getEvaluation)
	}

	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Rules:     len(h.sys.Rules()),
		Variables: len(h.sys.Variables()),
	})
}

// evaluate handles POST /api/v1/evaluate.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req types.EvaluateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	a, err := h.run.Run(req)
	if err != nil {
		code := StatusFor(err)
		if code == http.StatusInternalServerError {
			slog.Error("api: evaluation failed", "err", err)
		}
		jsonErr(w, code, err.Error())
		return
	}

	ev := a.Evaluation()
	slog.Debug("api: evaluated", "id", ev.ID, "score", ev.Score, "band", ev.Band, "fallback", ev.Fallback)
	jsonResp(w, http.StatusOK, EvaluateResponse{Evaluation: ev, Hints: explain(h.sys, ev)})
}

// system returns GET /api/v1/system: variables, sets and rules.
func (h *Handler) system(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildSystem(h.sys))
}

// categories returns GET /api/v1/categories: sampling levels and ranges.
func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, CategoriesResponse(wellness.Categories()))
}

// --- helpers ----------------------------------------------------------------

// StatusFor maps an evaluation error to an HTTP status: input problems and
// no-rule-fired are 422, anything else 500.
func StatusFor(err error) int {
	switch {
	case wellness.IsInputError(err), errors.Is(err, fuzzy.ErrNoRuleFired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
