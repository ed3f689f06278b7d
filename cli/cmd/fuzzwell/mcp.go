package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fuzzwell/fuzzwell/cli/internal/mcp"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

func newMCPCmd() *cobra.Command {
	var (
		seed   int64
		policy string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start Model Context Protocol (MCP) server",
		Long: `Starts a JSON-RPC server implementing the Model Context Protocol (MCP).
AI agents can call evaluate_wellness, describe_system and list_categories.

Communication happens over standard input/output (stdio).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := wellness.ParsePolicy(policy)
			if err != nil {
				return err
			}
			eval, err := newLocalEvaluator(seed, p)
			if err != nil {
				return err
			}
			return mcp.NewServer(version, eval).Start(ctx)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for level sampling (0 = clock)")
	cmd.Flags().StringVar(&policy, "no-rule-fired", "error", "Policy when no rule fires: error | midpoint")
	return cmd
}
