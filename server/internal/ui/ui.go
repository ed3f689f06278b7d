package ui

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
	"github.com/fuzzwell/fuzzwell/server/internal/api"
)

//go:embed templates/index.html
var templateFS embed.FS

var page = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// FormValues are the submitted (or default) form fields.
type FormValues struct {
	CaloriesLevel  string
	Exercise       string
	Sleep          string
	IntensityLevel string
}

// defaultForm matches the initial slider and select positions.
var defaultForm = FormValues{
	CaloriesLevel:  wellness.SetMedium,
	Exercise:       "60",
	Sleep:          "7",
	IntensityLevel: wellness.SetMedium,
}

type pageData struct {
	CalorieLevels   []wellness.Range
	IntensityLevels []wellness.Range
	Form            FormValues
	Result          *types.Evaluation
	Error           string
}

// Handler serves the evaluation form at "/".
type Handler struct {
	run api.Runner
}

// New creates a Handler that evaluates submissions with run.
func New(run api.Runner) *Handler {
	return &Handler{run: run}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		CalorieLevels:   wellness.Levels(wellness.VarCalories),
		IntensityLevels: wellness.Levels(wellness.VarIntensity),
		Form:            defaultForm,
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, data)
	case http.MethodPost:
		code := h.submit(r, &data)
		h.render(w, code, data)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// submit evaluates the posted form into data and returns the status code.
func (h *Handler) submit(r *http.Request, data *pageData) int {
	if err := r.ParseForm(); err != nil {
		data.Error = "invalid form: " + err.Error()
		return http.StatusBadRequest
	}
	data.Form = FormValues{
		CaloriesLevel:  r.PostFormValue("calories_level"),
		Exercise:       r.PostFormValue("exercise"),
		Sleep:          r.PostFormValue("sleep"),
		IntensityLevel: r.PostFormValue("intensity_level"),
	}

	req := types.EvaluateRequest{
		CaloriesLevel:  data.Form.CaloriesLevel,
		IntensityLevel: data.Form.IntensityLevel,
	}
	for _, f := range []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"exercise", data.Form.Exercise, &req.Exercise},
		{"sleep", data.Form.Sleep, &req.Sleep},
	} {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			data.Error = f.name + " must be a number"
			return http.StatusBadRequest
		}
		*f.dst = &v
	}

	a, err := h.run.Run(req)
	if err != nil {
		data.Error = err.Error()
		return api.StatusFor(err)
	}
	data.Result = a.Evaluation()
	return http.StatusOK
}

func (h *Handler) render(w http.ResponseWriter, code int, data pageData) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		slog.Error("ui: render failed", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write(buf.Bytes()) //nolint:errcheck
}
