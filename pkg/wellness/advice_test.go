package wellness

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		cond    string
		wantErr string
	}{
		{"calories < 2000", ""},
		{"score >= 75.5", ""},
		{"wintensity == 5", ""},
		{"sleep  <=   6", ""},
		{"sleep < 6 hours", "want"},
		{"mood < 3", "unknown field"},
		{"sleep ~ 6", "unknown operator"},
		{"sleep < six", "not a finite number"},
		{"sleep < NaN", "not a finite number"},
		{"", "want"},
	}
	for _, tc := range tests {
		t.Run(tc.cond, func(t *testing.T) {
			_, _, _, err := ParseCondition(tc.cond)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestAdvise_Defaults(t *testing.T) {
	a, err := NewAdvisor(DefaultAdvice())
	if err != nil {
		t.Fatalf("NewAdvisor: %v", err)
	}

	tests := []struct {
		name string
		in   map[string]float64
		want []string
	}{
		{
			name: "balanced",
			in:   inputs(2500, 60, 7.5, 5),
			want: []string{BalancedMessage},
		},
		{
			name: "everything low",
			in:   inputs(1500, 20, 5, 2),
			want: []string{
				"Eat more: your calorie intake is on the lower side.",
				"Try to exercise more regularly.",
				"Sleep more: 7-9 hours is ideal.",
				"Increase workout intensity gradually.",
			},
		},
		{
			name: "everything high",
			in:   inputs(3500, 150, 9, 9),
			want: []string{
				"Watch your calorie intake: it might be too high.",
				"Don't forget to rest: exercise duration is very high.",
				"Avoid overtraining: your intensity is very high.",
			},
		},
		{
			name: "boundaries do not fire",
			in:   inputs(2000, 30, 6, 4),
			want: []string{BalancedMessage},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := a.Advise(tc.in, 50)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Advise (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAdvise_ScoreFieldAndMissingInputs(t *testing.T) {
	a, err := NewAdvisor([]AdviceRule{
		{Name: "great", Condition: "score >= 80", Message: "Keep it up."},
		{Name: "sleepy", Condition: "sleep < 6", Message: "Sleep more."},
	})
	if err != nil {
		t.Fatalf("NewAdvisor: %v", err)
	}
	got := a.Advise(map[string]float64{}, 90)
	if diff := cmp.Diff([]string{"Keep it up."}, got); diff != "" {
		t.Errorf("Advise (-want +got):\n%s", diff)
	}
}

func TestNewAdvisor_Invalid(t *testing.T) {
	if _, err := NewAdvisor([]AdviceRule{{Name: "x", Condition: "sleep < 6"}}); err == nil {
		t.Error("missing message: want error")
	}
	if _, err := NewAdvisor([]AdviceRule{{Name: "x", Condition: "steps > 1000", Message: "m"}}); err == nil {
		t.Error("unknown field: want error")
	}
}

func TestNewAdvisor_EmptyIsAlwaysBalanced(t *testing.T) {
	a, err := NewAdvisor(nil)
	if err != nil {
		t.Fatalf("NewAdvisor: %v", err)
	}
	if diff := cmp.Diff([]string{BalancedMessage}, a.Advise(inputs(1000, 0, 0, 0), 0)); diff != "" {
		t.Errorf("Advise (-want +got):\n%s", diff)
	}
}
