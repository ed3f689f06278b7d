package wellness

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownCategory is returned for a variable or level with no sampling range.
var ErrUnknownCategory = errors.New("wellness: unknown category")

// Range is the crisp interval a named level is sampled from.
type Range struct {
	Level string  `json:"level"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// categories maps a variable to its levels, lowest first.
var categories = map[string][]Range{
	VarCalories: {
		{SetVeryLow, 1000, 1300},
		{SetLow, 1400, 1800},
		{SetMedium, 2000, 2500},
		{SetHigh, 2600, 3200},
		{SetVeryHigh, 3300, 4000},
	},
	VarIntensity: {
		{SetLow, 0, 3.5},
		{SetMedium, 3.5, 6.5},
		{SetHigh, 6.5, 10},
	},
}

// Levels returns the sampling levels of variable in order, or nil if it has
// none.
func Levels(variable string) []Range {
	rs, ok := categories[variable]
	if !ok {
		return nil
	}
	out := make([]Range, len(rs))
	copy(out, rs)
	return out
}

// Categories returns every sampled variable with its levels.
func Categories() map[string][]Range {
	out := make(map[string][]Range, len(categories))
	for v := range categories {
		out[v] = Levels(v)
	}
	return out
}

// LookupRange returns the range of one level.
func LookupRange(variable, level string) (Range, error) {
	rs, ok := categories[variable]
	if !ok {
		return Range{}, fmt.Errorf("%w: %q has no levels", ErrUnknownCategory, variable)
	}
	for _, r := range rs {
		if r.Level == level {
			return r, nil
		}
	}
	return Range{}, fmt.Errorf("%w: %s level %q", ErrUnknownCategory, variable, level)
}

// RandSource yields uniform values in [0, 1). *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Sampler draws crisp values for named levels. Safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	src RandSource
}

// NewSampler returns a Sampler reading from src.
func NewSampler(src RandSource) *Sampler {
	return &Sampler{src: src}
}

// Sample returns lo + (hi-lo)*r for the level's range.
func (s *Sampler) Sample(variable, level string) (float64, error) {
	r, err := LookupRange(variable, level)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	u := s.src.Float64()
	s.mu.Unlock()
	return r.Min + (r.Max-r.Min)*u, nil
}
