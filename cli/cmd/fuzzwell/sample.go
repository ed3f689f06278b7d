package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

func newSampleCmd() *cobra.Command {
	var (
		count int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "sample <variable> [level]",
		Short: "Draw crisp values for a named level",
		Long: `Draw values uniformly from a level's range, the way evaluate does for
--calories-level and --intensity-level. Without a level, list the levels.`,
		Example: `  fuzzwell sample calories
  fuzzwell sample calories high -n 3 --seed 7`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			variable := args[0]

			if len(args) == 1 {
				levels := wellness.Levels(variable)
				if levels == nil {
					return fmt.Errorf("%w: %q has no levels", wellness.ErrUnknownCategory, variable)
				}
				for _, r := range levels {
					fmt.Fprintf(out, "%-10s %g to %g\n", r.Level, r.Min, r.Max)
				}
				return nil
			}

			if count <= 0 {
				return fmt.Errorf("-n must be positive")
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			s := wellness.NewSampler(rand.New(rand.NewSource(seed)))
			for i := 0; i < count; i++ {
				v, err := s.Sample(variable, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%.2f\n", v)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of values to draw")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = clock)")
	return cmd
}
