package wellness

import (
	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
)

// Describe lists the variables and rules of sys in definition order.
func Describe(sys *fuzzy.System) types.SystemInfo {
	out := types.SystemInfo{
		Variables: make([]types.VariableInfo, 0, len(sys.Variables())),
		Rules:     make([]types.RuleInfo, 0, len(sys.Rules())),
	}
	for _, v := range sys.Variables() {
		vi := types.VariableInfo{
			Name: v.Name(),
			Role: v.Role().String(),
			Min:  v.Min(),
			Max:  v.Max(),
			Step: v.Step(),
		}
		for _, s := range v.Sets() {
			vi.Sets = append(vi.Sets, types.SetInfo{Name: s.Name, Center: s.Center, Sigma: s.Sigma})
		}
		out.Variables = append(out.Variables, vi)
	}
	for _, r := range sys.Rules() {
		out.Rules = append(out.Rules, types.RuleInfo{
			Label:      r.Label,
			Text:       r.String(),
			Consequent: r.Consequent.String(),
		})
	}
	return out
}
