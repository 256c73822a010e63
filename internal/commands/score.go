// internal/commands/score.go
package eikon

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eikonbench/eikon/internal/benchmark"
	"github.com/eikonbench/eikon/internal/hub"
	"github.com/eikonbench/eikon/internal/metrics"
	"github.com/eikonbench/eikon/internal/report"
)

var (
	scoreImages   string
	scorePrompts  string
	scoreBaseline string
)

// scoreCmd computes the enabled metrics over an existing image directory,
// without running any generation.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute quality metrics over an existing image directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return errNoConfig
		}

		if err := hub.EnsureDirs(scoreImages); err != nil {
			color.Red("Image directory is not usable: %v", err)
			return err
		}

		scoring := *cfg
		if scorePrompts != "" {
			scoring.PromptPath = scorePrompts
		}
		// Directory wiring is explicit here; SSIM only runs when a baseline
		// directory is supplied.
		scoring.Scorers.SSIM.Enabled = false
		scoring.Scorers.HPS.Enabled = false

		aggregator := metrics.New(&scoring)
		name := filepath.Base(filepath.Clean(scoreImages))

		var results []metrics.Result
		if scoreBaseline != "" {
			if err := hub.EnsureDirs(scoreBaseline); err != nil {
				color.Red("Baseline directory is not usable: %v", err)
				return err
			}
			results = append(results, aggregator.PairwiseSSIM(scoreBaseline, scoreImages)...)
		}
		results = append(results, aggregator.ScoreImageSet(cmd.Context(), name, scoreImages)...)

		rep := &report.Report{
			Model:      cfg.Model,
			Categories: scoring.CategoryNames(),
			Rows: []report.Row{{
				Name:    name,
				Status:  benchmark.StatusOK,
				Results: results,
			}},
		}
		rep.Render(cmd.OutOrStdout())

		if cfg.Export != "" {
			return rep.ExportJSON(cfg.Export)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreImages, "images", "", "image directory to score (category subdirectories)")
	scoreCmd.Flags().StringVar(&scorePrompts, "prompts", "", "prompt directory (defaults to the configured promptPath)")
	scoreCmd.Flags().StringVar(&scoreBaseline, "baseline", "", "baseline image directory for structural similarity")
	_ = scoreCmd.MarkFlagRequired("images")
}
