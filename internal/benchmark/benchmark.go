// internal/benchmark/benchmark.go
package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/eikonbench/eikon/internal/appconfig"
	"github.com/eikonbench/eikon/internal/logging"
	"github.com/eikonbench/eikon/internal/pipeline"
	"github.com/eikonbench/eikon/internal/util"
)

// Generator runs the external generation pipeline for one configuration.
type Generator interface {
	Generate(ctx context.Context, name string, inv pipeline.Invocation) error
}

// writeResultsFn allows tests to substitute result persistence.
var writeResultsFn = writeResults

// Run executes every configured benchmark configuration in declaration order,
// strictly sequentially. Each configuration writes into its own subdirectory
// of the image root, and a failure in one configuration never aborts the
// remaining ones.
func Run(ctx context.Context, cfg *appconfig.Config, modelPath string, gen Generator) (*Summary, error) {
	height, width, steps, seed, warmup := cfg.Geometry()

	summary := &Summary{
		RunID:      uuid.NewString(),
		Model:      cfg.Model,
		StartedUTC: time.Now().UTC(),
	}

	for _, spec := range cfg.RunSpecs() {
		outputDir := filepath.Join(cfg.ImagePath, util.Slugify(spec.Name))
		result := RunResult{Spec: spec, OutputDir: outputDir}

		if err := makeCategoryDirs(outputDir, cfg.CategoryNames()); err != nil {
			result.Status = StatusFailed
			result.FailureReason = err.Error()
			summary.Results = append(summary.Results, result)
			logging.LogEvent("[BENCHMARK] Configuration %s failed: %v", spec.Name, err)
			continue
		}

		inv := pipeline.Invocation{
			Model:     modelPath,
			ImageDir:  outputDir,
			PromptDir: cfg.PromptPath,
			Compile:   spec.Compile,
			DeepCache: spec.DeepCache,
			Height:    height,
			Width:     width,
			Steps:     steps,
			Seed:      seed,
			Warmup:    warmup,
		}

		logging.LogEvent("[BENCHMARK] Running configuration %s (compile=%v deepCache=%v)...",
			spec.Name, spec.Compile, spec.DeepCache)

		start := time.Now()
		err := gen.Generate(ctx, spec.Name, inv)
		result.Elapsed = time.Since(start)

		if err != nil {
			result.Status = StatusFailed
			result.FailureReason = err.Error()
			logging.LogEvent("[BENCHMARK] Configuration %s failed after %s: %v", spec.Name, result.Elapsed, err)
		} else {
			result.Status = StatusOK
			logging.LogEvent("[BENCHMARK] Configuration %s completed in %s", spec.Name, result.Elapsed)
		}
		summary.Results = append(summary.Results, result)
	}

	return summary, writeResultsFn(summary)
}

// makeCategoryDirs creates the per-category output layout for one
// configuration so image sets stay isolated by directory.
func makeCategoryDirs(outputDir string, categories []string) error {
	for _, category := range categories {
		if err := os.MkdirAll(filepath.Join(outputDir, category), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return nil
}

// writeResults writes the run summary to a JSON file.
func writeResults(summary *Summary) error {
	dir := filepath.Join("eikonData", "benchmarkRuns")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating results directory: %w", err)
	}
	fileName := filepath.Join(dir, fmt.Sprintf("%s-%s.json", util.Slugify(summary.Model), summary.RunID))

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("error creating result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("error writing results to file: %w", err)
	}

	logging.LogEvent("[BENCHMARK] Run results written to %s", fileName)

	return nil
}
