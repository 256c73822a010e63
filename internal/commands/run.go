// internal/commands/run.go
package eikon

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/eikonbench/eikon/internal/appconfig"
	"github.com/eikonbench/eikon/internal/benchmark"
	"github.com/eikonbench/eikon/internal/hub"
	"github.com/eikonbench/eikon/internal/logging"
	"github.com/eikonbench/eikon/internal/metrics"
	"github.com/eikonbench/eikon/internal/pipeline"
	"github.com/eikonbench/eikon/internal/report"
)

// runCmd executes the whole benchmark: resolve the model, generate image sets
// for every configuration, score them, and print the comparison table.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every benchmark configuration, score the results, and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmark(cmd.Context(), GetConfig(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBenchmark(ctx context.Context, cfg *appconfig.Config, out io.Writer) error {
	if cfg == nil {
		return errNoConfig
	}
	if cfg.Debug {
		pp.Println(cfg)
	}

	client := hub.NewClient()
	modelPath, err := client.Resolve(ctx, cfg.Model)
	if err != nil {
		color.Red("Could not resolve model source: %v", err)
		return err
	}
	if len(cfg.Prompts) > 0 {
		if err := benchmark.MaterializePrompts(cfg.PromptPath, cfg.Prompts, cfg.CategoryNames()); err != nil {
			color.Red("Could not materialize prompts: %v", err)
			return err
		}
	}
	if err := hub.EnsureDirs(cfg.PromptPath); err != nil {
		color.Red("Prompt directory is not usable: %v", err)
		return err
	}

	runner := &pipeline.Runner{Argv: cfg.Generator, Timeout: cfg.InvocationTimeout()}
	summary, err := benchmark.Run(ctx, cfg, modelPath, runner)
	if err != nil {
		return err
	}

	aggregator := metrics.New(cfg)
	rep := &report.Report{
		Model:      cfg.Model,
		RunID:      summary.RunID,
		Categories: cfg.CategoryNames(),
	}
	for _, result := range summary.Results {
		row := report.Row{
			Name:    result.Spec.Name,
			Status:  result.Status,
			Elapsed: result.Elapsed,
			Reason:  result.FailureReason,
		}
		if result.Status == benchmark.StatusOK {
			row.Results = aggregator.ScoreImageSet(ctx, result.Spec.Name, result.OutputDir)
		}
		rep.Rows = append(rep.Rows, row)
	}
	rep.Reference = aggregator.ReferenceScores(ctx)

	rep.Render(out)

	if cfg.Export != "" {
		if err := rep.ExportJSON(cfg.Export); err != nil {
			return err
		}
		logging.LogEvent("[REPORT] Exported report to %s", cfg.Export)
	}
	return nil
}
