package wellness

import (
	"fmt"

	"github.com/fuzzwell/fuzzwell/pkg/types"
)

// Resolve turns req into crisp engine inputs.
//
// An explicit value wins. Otherwise a level name is sampled with s. A value
// given neither way is left out, and the engine reports it as missing.
func Resolve(req types.EvaluateRequest, s *Sampler) (map[string]float64, error) {
	inputs := make(map[string]float64, len(InputNames))

	set := func(name string, v *float64, level string) error {
		switch {
		case v != nil:
			inputs[name] = *v
		case level != "":
			if s == nil {
				return fmt.Errorf("wellness: %s level %q given but no sampler is configured", name, level)
			}
			x, err := s.Sample(name, level)
			if err != nil {
				return err
			}
			inputs[name] = x
		}
		return nil
	}

	if err := set(VarCalories, req.Calories, req.CaloriesLevel); err != nil {
		return nil, err
	}
	if err := set(VarExercise, req.Exercise, ""); err != nil {
		return nil, err
	}
	if err := set(VarSleep, req.Sleep, ""); err != nil {
		return nil, err
	}
	if err := set(VarIntensity, req.Intensity, req.IntensityLevel); err != nil {
		return nil, err
	}
	return inputs, nil
}
