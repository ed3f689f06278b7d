package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fuzzwell/fuzzwell/cli/internal/client"
	"github.com/fuzzwell/fuzzwell/pkg/chart"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

type evaluateOpts struct {
	calories, exercise, sleep, intensity float64
	caloriesLevel, intensityLevel        string

	remote   bool
	endpoint string
	seed     int64
	policy   string
	format   string
	plotPath string
}

func newEvaluateCmd(g *globalOpts) *cobra.Command {
	o := &evaluateOpts{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute a wellness score",
		Long: `Compute a wellness score from crisp values or named levels.

Calories and intensity may be given as a number (--calories, --wintensity)
or as a level (--calories-level, --intensity-level) that is sampled
uniformly from its range. A number always wins over a level.`,
		Example: `  fuzzwell evaluate --calories 2800 --exercise 120 --sleep 9 --wintensity 10
  fuzzwell evaluate --calories-level low --exercise 30 --sleep 5 --intensity-level medium -o json
  fuzzwell evaluate --remote --exercise 60 --sleep 7 --calories 2200 --wintensity 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := buildRequest(cmd, o)
			ev, err := o.run(cmd.Context(), g, req)
			if err != nil {
				return err
			}
			return writeEvaluation(cmd.OutOrStdout(), ev, o.format)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&o.calories, "calories", 0, "Daily calorie intake (kcal)")
	f.Float64Var(&o.exercise, "exercise", 0, "Exercise duration (minutes)")
	f.Float64Var(&o.sleep, "sleep", 0, "Sleep (hours)")
	f.Float64Var(&o.intensity, "wintensity", 0, "Workout intensity (0-10)")
	f.StringVar(&o.caloriesLevel, "calories-level", "", "Calorie level to sample: "+levelList(wellness.VarCalories))
	f.StringVar(&o.intensityLevel, "intensity-level", "", "Intensity level to sample: "+levelList(wellness.VarIntensity))
	f.BoolVar(&o.remote, "remote", false, "Evaluate on fuzzwell-server over gRPC")
	f.StringVar(&o.endpoint, "server", "", "Override the server endpoint (host:port)")
	f.Int64Var(&o.seed, "seed", 0, "Seed for level sampling (0 = clock)")
	f.StringVar(&o.policy, "no-rule-fired", "error", "Local policy when no rule fires: error | midpoint")
	f.StringVarP(&o.format, "output", "o", "text", "Output format: text | json")
	f.StringVar(&o.plotPath, "plot", "", "Write the aggregated wellness curve to this PNG (local only)")
	return cmd
}

// buildRequest maps the flags that were set onto an EvaluateRequest. Unset
// numeric flags stay nil so the engine reports them as missing.
func buildRequest(cmd *cobra.Command, o *evaluateOpts) types.EvaluateRequest {
	req := types.EvaluateRequest{
		CaloriesLevel:  o.caloriesLevel,
		IntensityLevel: o.intensityLevel,
	}
	flags := cmd.Flags()
	if flags.Changed("calories") {
		req.Calories = types.Float(o.calories)
	}
	if flags.Changed("exercise") {
		req.Exercise = types.Float(o.exercise)
	}
	if flags.Changed("sleep") {
		req.Sleep = types.Float(o.sleep)
	}
	if flags.Changed("wintensity") {
		req.Intensity = types.Float(o.intensity)
	}
	return req
}

func (o *evaluateOpts) run(ctx context.Context, g *globalOpts, req types.EvaluateRequest) (*types.Evaluation, error) {
	if o.remote {
		if o.plotPath != "" {
			return nil, fmt.Errorf("--plot is only available for local evaluation")
		}
		return o.runRemote(ctx, g, req)
	}
	return o.runLocal(req)
}

func (o *evaluateOpts) runLocal(req types.EvaluateRequest) (*types.Evaluation, error) {
	policy, err := wellness.ParsePolicy(o.policy)
	if err != nil {
		return nil, err
	}
	eval, err := newLocalEvaluator(o.seed, policy)
	if err != nil {
		return nil, err
	}
	a, err := eval.Run(req)
	if err != nil {
		return nil, err
	}

	if o.plotPath != "" {
		w, _ := eval.System().Variable(wellness.VarWellness)
		png, err := chart.AggregatePNG(w, a.Curve, a.Score, chart.DefaultSize)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(o.plotPath, png, 0o644); err != nil {
			return nil, fmt.Errorf("write plot: %w", err)
		}
	}
	return a.Evaluation(), nil
}

func (o *evaluateOpts) runRemote(ctx context.Context, g *globalOpts, req types.EvaluateRequest) (*types.Evaluation, error) {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return nil, err
	}
	if o.endpoint != "" {
		cfg.Client.ServerEndpoint = o.endpoint
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := client.Dial(ctx, cfg.Client)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Evaluate(ctx, &req)
}

// newLocalEvaluator builds the default system with a seeded sampler.
func newLocalEvaluator(seed int64, policy wellness.Policy) (*wellness.Evaluator, error) {
	sys, err := wellness.BuildDefaultSystem()
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return wellness.NewEvaluator(sys, wellness.Options{
		Policy:  policy,
		Sampler: wellness.NewSampler(rand.New(rand.NewSource(seed))),
	})
}

func writeEvaluation(w io.Writer, ev *types.Evaluation, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ev)
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", format)
	}

	fmt.Fprintf(w, "Wellness score: %.2f (%s)\n", ev.Score, ev.Band)
	if ev.Fallback {
		fmt.Fprintln(w, "  no rule matched these inputs; midpoint used")
	}
	fmt.Fprintf(w, "Inputs: calories=%.0f exercise=%.0f sleep=%.1f wintensity=%.1f\n",
		ev.Inputs[wellness.VarCalories], ev.Inputs[wellness.VarExercise],
		ev.Inputs[wellness.VarSleep], ev.Inputs[wellness.VarIntensity])
	fmt.Fprintln(w, "Rules:")
	for _, r := range ev.Rules {
		fmt.Fprintf(w, "  %-24s %.3f  %s\n", r.Label, r.Strength, r.Rule)
	}
	fmt.Fprintln(w, "Recommendations:")
	for _, rec := range ev.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
	return nil
}

func levelList(variable string) string {
	var names []string
	for _, r := range wellness.Levels(variable) {
		names = append(names, r.Level)
	}
	return strings.Join(names, ", ")
}
