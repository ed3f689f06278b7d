package wellness

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldScore lets an advice condition test the computed score.
const FieldScore = "score"

// BalancedMessage is returned when no advice rule fires.
const BalancedMessage = "Great job! Your lifestyle is well-balanced."

// AdviceRule is one recommendation: when Condition holds, Message is shown.
//
// Condition has the form "field op value", for example "sleep < 6". Fields
// are the input variable names plus "score"; operators are < <= > >= ==.
type AdviceRule struct {
	Name      string `yaml:"name"      json:"name"`
	Condition string `yaml:"condition" json:"condition"`
	Message   string `yaml:"message"   json:"message"`
}

// DefaultAdvice returns the built-in recommendation rules.
func DefaultAdvice() []AdviceRule {
	return []AdviceRule{
		{"low_calories", "calories < 2000", "Eat more: your calorie intake is on the lower side."},
		{"high_calories", "calories > 3000", "Watch your calorie intake: it might be too high."},
		{"low_exercise", "exercise < 30", "Try to exercise more regularly."},
		{"high_exercise", "exercise > 120", "Don't forget to rest: exercise duration is very high."},
		{"low_sleep", "sleep < 6", "Sleep more: 7-9 hours is ideal."},
		{"low_intensity", "wintensity < 4", "Increase workout intensity gradually."},
		{"high_intensity", "wintensity > 8", "Avoid overtraining: your intensity is very high."},
	}
}

type condition struct {
	field     string
	op        string
	threshold float64
}

// ParseCondition splits and validates a "field op value" expression.
func ParseCondition(cond string) (field, op string, threshold float64, err error) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return "", "", 0, fmt.Errorf("condition %q: want \"field op value\"", cond)
	}
	field, op = parts[0], parts[1]

	switch field {
	case VarCalories, VarExercise, VarSleep, VarIntensity, FieldScore:
	default:
		return "", "", 0, fmt.Errorf("condition %q: unknown field %q", cond, field)
	}
	switch op {
	case "<", "<=", ">", ">=", "==":
	default:
		return "", "", 0, fmt.Errorf("condition %q: unknown operator %q", cond, op)
	}
	threshold, err = strconv.ParseFloat(parts[2], 64)
	if err != nil || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return "", "", 0, fmt.Errorf("condition %q: value %q is not a finite number", cond, parts[2])
	}
	return field, op, threshold, nil
}

// Advisor evaluates an ordered list of advice rules. It is immutable.
type Advisor struct {
	rules []AdviceRule
	conds []condition
}

// NewAdvisor validates rules and returns an Advisor for them.
func NewAdvisor(rules []AdviceRule) (*Advisor, error) {
	a := &Advisor{
		rules: make([]AdviceRule, len(rules)),
		conds: make([]condition, len(rules)),
	}
	copy(a.rules, rules)
	for i, r := range rules {
		if r.Message == "" {
			return nil, fmt.Errorf("advice rule %d (%s): message is required", i, r.Name)
		}
		f, op, th, err := ParseCondition(r.Condition)
		if err != nil {
			return nil, fmt.Errorf("advice rule %d (%s): %w", i, r.Name, err)
		}
		a.conds[i] = condition{field: f, op: op, threshold: th}
	}
	return a, nil
}

// Rules returns a copy of the advisor's rules.
func (a *Advisor) Rules() []AdviceRule {
	out := make([]AdviceRule, len(a.rules))
	copy(out, a.rules)
	return out
}

// Advise returns the messages of every rule whose condition holds, in rule
// order. A rule on an input absent from inputs is skipped. When nothing
// fires the result is BalancedMessage alone.
func (a *Advisor) Advise(inputs map[string]float64, score float64) []string {
	var out []string
	for i, c := range a.conds {
		v := score
		if c.field != FieldScore {
			x, ok := inputs[c.field]
			if !ok {
				continue
			}
			v = x
		}
		if compareFloat(v, c.op, c.threshold) {
			out = append(out, a.rules[i].Message)
		}
	}
	if len(out) == 0 {
		return []string{BalancedMessage}
	}
	return out
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
