// fuzzwell scores daily lifestyle data with a fuzzy Mamdani model.
//
// It evaluates locally or against a fuzzwell-server over gRPC, renders
// membership charts, reads server statistics and serves the model to AI
// agents over MCP.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fuzzwell/fuzzwell/cli/internal/config"
)

var version = "0.1.0"

// globalOpts are the persistent flags shared by every command.
type globalOpts struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{}

	rootCmd := &cobra.Command{
		Use:   "fuzzwell",
		Short: "Fuzzy-logic wellness scoring",
		Long: `fuzzwell scores a day's calories, exercise, sleep and workout intensity
on a 0-100 scale with a Mamdani fuzzy inference model (Gaussian sets,
min/max inference, centroid defuzzification).

Evaluations run locally by default; --remote sends them to fuzzwell-server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), g.verbose)
		},
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "client config file (server endpoint, auth)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newEvaluateCmd(g),
		newSampleCmd(),
		newSystemCmd(),
		newPlotCmd(),
		newStatsCmd(g),
		newMCPCmd(),
	)
	return rootCmd
}

// setupLogging installs a text slog handler on w.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig returns the client config at path, or defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
