package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fuzzwell/fuzzwell/cli/internal/scraper"
)

func newStatsCmd(g *globalOpts) *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise a server's /metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g.configPath)
			if err != nil {
				return err
			}
			if endpoint != "" {
				cfg.Client.MetricsEndpoint = endpoint
			}
			s, err := scraper.New(cfg.Client)
			if err != nil {
				return err
			}
			st, err := s.Scrape(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Evaluations: %.0f\n", st.Total())
			for _, k := range sortedKeys(st.Outcomes) {
				fmt.Fprintf(out, "  %-14s %.0f\n", k, st.Outcomes[k])
			}
			fmt.Fprintf(out, "Mean score: %.2f over %d scored\n", st.Mean(), st.Count)
			fmt.Fprintln(out, "Rule activation (sum of strengths):")
			for _, k := range sortedKeys(st.Rules) {
				fmt.Fprintf(out, "  %-24s %.3f\n", k, st.Rules[k])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "metrics", "", "Override the metrics URL")
	return cmd
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
