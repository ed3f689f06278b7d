package wellness

import (
	"fmt"

	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
)

// Variable names.
const (
	VarCalories  = "calories"
	VarExercise  = "exercise"
	VarSleep     = "sleep"
	VarIntensity = "wintensity"
	VarWellness  = "wellness"
)

// Set names shared by the input variables.
const (
	SetVeryLow  = "very_low"
	SetLow      = "low"
	SetMedium   = "medium"
	SetHigh     = "high"
	SetVeryHigh = "very_high"
)

// Wellness output sets, lowest to highest.
const (
	BandPoor      = "poor"
	BandBelowAvg  = "below_avg"
	BandAverage   = "average"
	BandGood      = "good"
	BandExcellent = "excellent"
)

// InputNames lists the antecedents in display order.
var InputNames = []string{VarCalories, VarExercise, VarSleep, VarIntensity}

type varDef struct {
	name           string
	role           fuzzy.Role
	min, max, step float64
	sets           []fuzzy.Set
}

var definitions = []varDef{
	{VarCalories, fuzzy.Antecedent, 1000, 4000, 1, []fuzzy.Set{
		{Name: SetVeryLow, Center: 1000, Sigma: 200},
		{Name: SetLow, Center: 1600, Sigma: 250},
		{Name: SetMedium, Center: 2200, Sigma: 250},
		{Name: SetHigh, Center: 2800, Sigma: 250},
		{Name: SetVeryHigh, Center: 4000, Sigma: 200},
	}},
	{VarExercise, fuzzy.Antecedent, 0, 180, 1, []fuzzy.Set{
		{Name: SetVeryLow, Center: 0, Sigma: 15},
		{Name: SetLow, Center: 30, Sigma: 20},
		{Name: SetMedium, Center: 60, Sigma: 20},
		{Name: SetHigh, Center: 120, Sigma: 25},
		{Name: SetVeryHigh, Center: 180, Sigma: 25},
	}},
	{VarSleep, fuzzy.Antecedent, 0, 12, 0.5, []fuzzy.Set{
		{Name: SetVeryLow, Center: 0, Sigma: 1.5},
		{Name: SetLow, Center: 2.5, Sigma: 1.25},
		{Name: SetMedium, Center: 6.5, Sigma: 1},
		{Name: SetHigh, Center: 9, Sigma: 1.25},
		{Name: SetVeryHigh, Center: 12, Sigma: 1.5},
	}},
	{VarIntensity, fuzzy.Antecedent, 0, 10, 1, []fuzzy.Set{
		{Name: SetLow, Center: 0, Sigma: 1.5},
		{Name: SetMedium, Center: 5, Sigma: 1.25},
		{Name: SetHigh, Center: 10, Sigma: 1.5},
	}},
	{VarWellness, fuzzy.Consequent, 0, 100, 1, []fuzzy.Set{
		{Name: BandPoor, Center: 0, Sigma: 10},
		{Name: BandBelowAvg, Center: 35, Sigma: 7.5},
		{Name: BandAverage, Center: 55, Sigma: 5},
		{Name: BandGood, Center: 75, Sigma: 6.25},
		{Name: BandExcellent, Center: 100, Sigma: 7.5},
	}},
}

// Variables is the set of linguistic variables of the wellness model.
type Variables struct {
	Calories  *fuzzy.Variable
	Exercise  *fuzzy.Variable
	Sleep     *fuzzy.Variable
	Intensity *fuzzy.Variable
	Wellness  *fuzzy.Variable
}

// NewVariables builds fresh, unfrozen variables with every set defined.
func NewVariables() (*Variables, error) {
	built := make(map[string]*fuzzy.Variable, len(definitions))
	for _, d := range definitions {
		var (
			v   *fuzzy.Variable
			err error
		)
		if d.role == fuzzy.Antecedent {
			v, err = fuzzy.NewAntecedent(d.name, d.min, d.max, d.step)
		} else {
			v, err = fuzzy.NewConsequent(d.name, d.min, d.max, d.step)
		}
		if err != nil {
			return nil, fmt.Errorf("wellness: %w", err)
		}
		for _, s := range d.sets {
			if err := v.AddSet(s.Name, s.Center, s.Sigma); err != nil {
				return nil, fmt.Errorf("wellness: %w", err)
			}
		}
		built[d.name] = v
	}
	return &Variables{
		Calories:  built[VarCalories],
		Exercise:  built[VarExercise],
		Sleep:     built[VarSleep],
		Intensity: built[VarIntensity],
		Wellness:  built[VarWellness],
	}, nil
}

// Rules returns the five wellness rules over vs, labelled.
func (vs *Variables) Rules() []fuzzy.Rule {
	c, e, s, i, w := vs.Calories, vs.Exercise, vs.Sleep, vs.Intensity, vs.Wellness
	return []fuzzy.Rule{
		fuzzy.NewRule(
			[]fuzzy.Term{c.Is(SetHigh), e.Is(SetHigh), s.Is(SetHigh), i.Is(SetHigh)},
			w.Is(BandExcellent),
		).WithLabel("all_high"),
		fuzzy.NewRule(
			[]fuzzy.Term{c.Is(SetMedium), e.Is(SetMedium), s.Is(SetMedium), i.Is(SetMedium)},
			w.Is(BandGood),
		).WithLabel("all_medium"),
		fuzzy.NewRule(
			[]fuzzy.Term{c.Is(SetLow), e.Is(SetLow), s.Is(SetLow), i.Is(SetLow)},
			w.Is(BandPoor),
		).WithLabel("all_low"),
		fuzzy.NewRule(
			[]fuzzy.Term{s.Is(SetHigh), c.Is(SetLow)},
			w.Is(BandAverage),
		).WithLabel("rested_underfed"),
		fuzzy.NewRule(
			[]fuzzy.Term{e.Is(SetHigh), s.Is(SetLow)},
			w.Is(BandBelowAvg),
		).WithLabel("overtrained_underslept"),
	}
}

// BuildDefaultSystem returns the compiled wellness System. Call it once per
// process and share the result.
func BuildDefaultSystem() (*fuzzy.System, error) {
	vs, err := NewVariables()
	if err != nil {
		return nil, err
	}
	sys, err := fuzzy.NewSystem(vs.Rules()...)
	if err != nil {
		return nil, fmt.Errorf("wellness: %w", err)
	}
	return sys, nil
}
