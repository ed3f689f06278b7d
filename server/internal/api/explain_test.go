package api

import (
	"testing"

	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

func keys(hs []Hint) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Key
	}
	return out
}

func TestExplain(t *testing.T) {
	sys, err := wellness.BuildDefaultSystem()
	if err != nil {
		t.Fatalf("BuildDefaultSystem: %v", err)
	}

	tests := []struct {
		name string
		ev   *types.Evaluation
		want []string
	}{
		{
			name: "rules strongest first, negligible ones dropped",
			ev: &types.Evaluation{
				Inputs: map[string]float64{wellness.VarCalories: 2500},
				Rules: []types.RuleActivation{
					{Label: "all_high", Strength: 0.3},
					{Label: "all_medium", Strength: 0.6},
					{Label: "all_low", Strength: 0.001},
				},
			},
			want: []string{"rule_all_medium", "rule_all_high"},
		},
		{
			name: "fallback is critical and first",
			ev: &types.Evaluation{
				Fallback: true,
				Score:    50,
				Rules:    []types.RuleActivation{{Label: "all_high", Strength: 0}},
			},
			want: []string{"no_rule_fired"},
		},
		{
			name: "out of range and weak evidence",
			ev: &types.Evaluation{
				Inputs: map[string]float64{wellness.VarCalories: 10000, wellness.VarSleep: 7},
				Rules:  []types.RuleActivation{{Label: "rested_underfed", Strength: 0.05}},
			},
			want: []string{"out_of_range_calories", "weak_evidence", "rule_rested_underfed"},
		},
		{
			name: "unlabelled rule falls back to consequent",
			ev: &types.Evaluation{
				Rules: []types.RuleActivation{{Consequent: "good", Strength: 0.8}},
			},
			want: []string{"rule_good"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := keys(explain(sys, tc.ev))
			if len(got) != len(tc.want) {
				t.Fatalf("hints = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("hints = %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}

func TestExplain_Levels(t *testing.T) {
	sys, _ := wellness.BuildDefaultSystem()
	hs := explain(sys, &types.Evaluation{
		Fallback: true,
		Inputs:   map[string]float64{wellness.VarExercise: -10},
	})
	if len(hs) != 2 || hs[0].Level != "critical" || hs[1].Level != "warning" {
		t.Fatalf("hints = %+v", hs)
	}
	if hs[1].Value == nil || *hs[1].Value != -10 {
		t.Errorf("out-of-range value = %v, want -10", hs[1].Value)
	}
}
