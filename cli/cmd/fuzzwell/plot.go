package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fuzzwell/fuzzwell/pkg/chart"
	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

func newPlotCmd() *cobra.Command {
	var (
		output string
		size   = chart.DefaultSize
	)

	cmd := &cobra.Command{
		Use:     "plot <variable>",
		Short:   "Render a variable's membership functions to PNG",
		Example: "  fuzzwell plot sleep -o sleep.png --width 8 --height 4",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := wellness.BuildDefaultSystem()
			if err != nil {
				return err
			}
			v, ok := sys.Variable(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", fuzzy.ErrUnknownVariable, args[0])
			}
			if output == "" {
				output = v.Name() + ".png"
			}
			png, err := chart.MembershipPNG(v, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("write plot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PNG path (default <variable>.png)")
	cmd.Flags().Float64Var(&size.WidthIn, "width", size.WidthIn, "Width in inches")
	cmd.Flags().Float64Var(&size.HeightIn, "height", size.HeightIn, "Height in inches")
	cmd.Flags().IntVar(&size.DPI, "dpi", size.DPI, "Resolution")
	return cmd
}
