package types

// EvaluateRequest asks for one wellness evaluation.
//
// Every crisp value is optional. Calories and intensity may instead be given
// as a level name ("low", "high", ...) that the server samples into a value.
// An explicit value always wins over a level.
type EvaluateRequest struct {
	Calories  *float64 `json:"calories,omitempty"`
	Exercise  *float64 `json:"exercise,omitempty"`
	Sleep     *float64 `json:"sleep,omitempty"`
	Intensity *float64 `json:"wintensity,omitempty"`

	CaloriesLevel  string `json:"calories_level,omitempty"`
	IntensityLevel string `json:"intensity_level,omitempty"`
}

// Evaluation is the result of one evaluation as returned by every surface.
type Evaluation struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Band  string  `json:"band"`

	// Fallback is true when no rule fired and the midpoint policy supplied
	// the score.
	Fallback bool `json:"fallback,omitempty"`

	// Inputs are the crisp values actually used, after level sampling.
	Inputs          map[string]float64 `json:"inputs"`
	Recommendations []string           `json:"recommendations"`
	Rules           []RuleActivation   `json:"rules"`
	EvaluatedAt     string             `json:"evaluated_at"` // RFC3339
}

// RuleActivation is one rule's firing strength in an Evaluation.
type RuleActivation struct {
	Label      string  `json:"label"`
	Rule       string  `json:"rule"`
	Consequent string  `json:"consequent"`
	Strength   float64 `json:"strength"`
}

// Float returns a pointer to v. Convenience for building requests.
func Float(v float64) *float64 { return &v }

// SystemInfo describes a rule base for clients.
type SystemInfo struct {
	Variables []VariableInfo `json:"variables"`
	Rules     []RuleInfo     `json:"rules"`
}

// VariableInfo describes one linguistic variable.
type VariableInfo struct {
	Name string    `json:"name"`
	Role string    `json:"role"` // antecedent | consequent
	Min  float64   `json:"min"`
	Max  float64   `json:"max"`
	Step float64   `json:"step"`
	Sets []SetInfo `json:"sets"`
}

// SetInfo is one Gaussian set of a variable.
type SetInfo struct {
	Name   string  `json:"name"`
	Center float64 `json:"center"`
	Sigma  float64 `json:"sigma"`
}

// RuleInfo is one rule in readable form.
type RuleInfo struct {
	Label      string `json:"label,omitempty"`
	Text       string `json:"text"`
	Consequent string `json:"consequent"`
}
