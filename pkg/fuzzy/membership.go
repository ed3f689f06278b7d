package fuzzy

import "math"

// Gaussian returns exp(-((x-center)^2) / (2*sigma^2)).
//
// The result is 1 at the center and decays towards 0 on both sides. It is
// defined for every real x, so crisp inputs outside a variable's universe are
// still fuzzified. sigma must be positive; Variable.AddSet enforces that.
func Gaussian(x, center, sigma float64) float64 {
	d := x - center
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}

// Set is a named Gaussian fuzzy set.
type Set struct {
	Name   string  `json:"name"`
	Center float64 `json:"center"`
	Sigma  float64 `json:"sigma"`
}

// Membership returns the degree of membership of x in s.
func (s Set) Membership(x float64) float64 {
	return Gaussian(x, s.Center, s.Sigma)
}

// Curve evaluates s at every point of universe.
func (s Set) Curve(universe []float64) []float64 {
	out := make([]float64, len(universe))
	for i, u := range universe {
		out[i] = s.Membership(u)
	}
	return out
}
