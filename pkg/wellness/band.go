package wellness

import "github.com/fuzzwell/fuzzwell/pkg/fuzzy"

// Band returns the name of the set of v in which score has the highest
// membership. Ties go to the set defined first.
func Band(v *fuzzy.Variable, score float64) string {
	best, bestDeg := "", -1.0
	for _, s := range v.Sets() {
		if d := s.Membership(score); d > bestDeg {
			best, bestDeg = s.Name, d
		}
	}
	return best
}
