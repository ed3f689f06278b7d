package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

func newSystemCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "system",
		Short: "Show the model's variables, sets and rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := wellness.BuildDefaultSystem()
			if err != nil {
				return err
			}
			info := wellness.Describe(sys)
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "text", "":
			default:
				return fmt.Errorf("unknown output format %q (want text or json)", format)
			}

			for _, v := range info.Variables {
				fmt.Fprintf(out, "%s (%s) [%g, %g] step %g\n", v.Name, v.Role, v.Min, v.Max, v.Step)
				for _, s := range v.Sets {
					fmt.Fprintf(out, "  %-10s center=%-6g sigma=%g\n", s.Name, s.Center, s.Sigma)
				}
			}
			fmt.Fprintln(out, "Rules:")
			for _, r := range info.Rules {
				fmt.Fprintf(out, "  %-24s %s\n", r.Label, r.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format: text | json")
	return cmd
}
