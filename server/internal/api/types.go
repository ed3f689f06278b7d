package api

import (
	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Rules     int    `json:"rules"`
	Variables int    `json:"variables"`
}

// EvaluateResponse is the payload for POST /api/v1/evaluate: the evaluation
// plus explanation hints.
type EvaluateResponse struct {
	*types.Evaluation
	Hints []Hint `json:"hints"`
}

// VariableResponse describes one linguistic variable in GET /api/v1/system.
type VariableResponse struct {
	types.VariableInfo
	Plot string `json:"plot"` // relative URL of the membership chart
}

// SystemResponse is the payload for GET /api/v1/system.
type SystemResponse struct {
	Variables []VariableResponse `json:"variables"`
	Rules     []types.RuleInfo   `json:"rules"`
}

// HistoryResponse is the body of GET /api/v1/evaluations.
type HistoryResponse struct {
	Evaluations []*types.Evaluation `json:"evaluations"`
	Count       int                 `json:"count"`
}

// CategoriesResponse is the payload for GET /api/v1/categories.
type CategoriesResponse map[string][]wellness.Range

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// BuildSystem describes sys for clients and links each variable to its chart.
func BuildSystem(sys *fuzzy.System) SystemResponse {
	info := wellness.Describe(sys)
	out := SystemResponse{
		Variables: make([]VariableResponse, 0, len(info.Variables)),
		Rules:     info.Rules,
	}
	for _, v := range info.Variables {
		out.Variables = append(out.Variables, VariableResponse{
			VariableInfo: v,
			Plot:         plotPrefix + v.Name + ".png",
		})
	}
	return out
}
