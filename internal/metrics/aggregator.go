// internal/metrics/aggregator.go
package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/eikonbench/eikon/internal/appconfig"
	"github.com/eikonbench/eikon/internal/logging"
	"github.com/eikonbench/eikon/internal/util"
)

// Aggregator computes every enabled metric over generated image sets. Image
// directories always flow in from the benchmark output layout or from
// command-line flags; nothing is hard-coded.
type Aggregator struct {
	cfg *appconfig.Config
}

// New returns an Aggregator for the given configuration.
func New(cfg *appconfig.Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// ScoreImageSet computes all enabled metrics for one configuration's output
// directory. An empty or missing category directory yields an unavailable
// cell, never an error: scoring one image set always succeeds as a whole.
func (a *Aggregator) ScoreImageSet(ctx context.Context, specName, outputDir string) []Result {
	var results []Result
	categories := a.cfg.CategoryNames()

	if a.cfg.Scorers.SSIM.Enabled {
		baseline := a.cfg.SSIMBaseline()
		if specName == baseline {
			for _, category := range categories {
				results = append(results, Unavailable(MetricSSIM, category, "baseline reference set"))
			}
		} else {
			baselineDir := filepath.Join(a.cfg.ImagePath, util.Slugify(baseline))
			results = append(results, a.pairwiseSSIM(baselineDir, outputDir, categories)...)
		}
	}

	if a.cfg.Scorers.CLIP.Enabled {
		for _, category := range categories {
			results = append(results, a.clipScore(ctx, category, filepath.Join(outputDir, category)))
		}
	}

	if a.cfg.Scorers.Aesthetic.Enabled {
		for _, category := range categories {
			results = append(results, a.aestheticScore(ctx, category, filepath.Join(outputDir, category)))
		}
	}

	if a.cfg.Scorers.Inception.Enabled {
		results = append(results, a.inceptionScore(ctx, outputDir))
	}

	return results
}

// PairwiseSSIM compares two image roots category by category. Used by the
// score command when an explicit baseline directory is given.
func (a *Aggregator) PairwiseSSIM(dirA, dirB string) []Result {
	return a.pairwiseSSIM(dirA, dirB, a.cfg.CategoryNames())
}

// ReferenceScores computes the human-preference score over the external
// benchmark corpus. It backs the reference row of the report and is never
// computed per configuration. The corpus location is the scorer's own
// concern; EIKON_HPS_ROOT overrides its cache root through the environment.
func (a *Aggregator) ReferenceScores(ctx context.Context) []Result {
	if !a.cfg.Scorers.HPS.Enabled {
		return nil
	}

	command := Command{Argv: a.cfg.Scorers.HPS.Command, Timeout: a.cfg.InvocationTimeout()}
	scores, err := command.Scores(ctx, "hps-reference")
	if err != nil {
		logging.LogEvent("[METRICS] hps reference unavailable: %v", err)
		return []Result{Unavailable(MetricHPS, CategoryAll, err.Error())}
	}
	return []Result{FromSamples(MetricHPS, CategoryAll, scores)}
}

func (a *Aggregator) pairwiseSSIM(baseDir, otherDir string, categories []string) []Result {
	var results []Result
	for _, category := range categories {
		dirA := filepath.Join(baseDir, category)
		dirB := filepath.Join(otherDir, category)
		if reason, ok := imageSetReady(dirA); !ok {
			results = append(results, Unavailable(MetricSSIM, category, reason))
			continue
		}
		if reason, ok := imageSetReady(dirB); !ok {
			results = append(results, Unavailable(MetricSSIM, category, reason))
			continue
		}

		mean, pairs, err := DirectorySSIM(dirA, dirB)
		if err != nil {
			logging.LogEvent("[METRICS] ssim %s unavailable: %v", category, err)
			results = append(results, Unavailable(MetricSSIM, category, err.Error()))
			continue
		}
		results = append(results, Scalar(MetricSSIM, category, mean, pairs))
	}
	return results
}

func (a *Aggregator) clipScore(ctx context.Context, category, imageDir string) Result {
	if reason, ok := imageSetReady(imageDir); !ok {
		return Unavailable(MetricCLIP, category, reason)
	}

	promptDir := filepath.Join(a.cfg.PromptPath, category)
	if reason := promptPairingReason(imageDir, promptDir); reason != "" {
		logging.LogEvent("[METRICS] clip %s unavailable: %s", category, reason)
		return Unavailable(MetricCLIP, category, reason)
	}

	command := Command{Argv: a.cfg.Scorers.CLIP.Command, Timeout: a.cfg.InvocationTimeout()}
	scores, err := command.Scores(ctx, "clip-"+category, "--image_path", imageDir, "--prompt_path", promptDir)
	if err != nil {
		logging.LogEvent("[METRICS] clip %s unavailable: %v", category, err)
		return Unavailable(MetricCLIP, category, err.Error())
	}
	return Scalar(MetricCLIP, category, stat.Mean(scores, nil), len(scores))
}

func (a *Aggregator) aestheticScore(ctx context.Context, category, imageDir string) Result {
	if reason, ok := imageSetReady(imageDir); !ok {
		return Unavailable(MetricAesthetic, category, reason)
	}

	command := Command{Argv: a.cfg.Scorers.Aesthetic.Command, Timeout: a.cfg.InvocationTimeout()}
	scores, err := command.Scores(ctx, "aesthetic-"+category, "--image_path", imageDir)
	if err != nil {
		logging.LogEvent("[METRICS] aesthetic %s unavailable: %v", category, err)
		return Unavailable(MetricAesthetic, category, err.Error())
	}
	return FromSamples(MetricAesthetic, category, scores)
}

func (a *Aggregator) inceptionScore(ctx context.Context, outputDir string) Result {
	total := 0
	for _, category := range a.cfg.CategoryNames() {
		images, err := ListImages(filepath.Join(outputDir, category))
		if err == nil {
			total += len(images)
		}
	}
	if total == 0 {
		return Unavailable(MetricInception, CategoryAll, "image set is empty")
	}

	command := Command{Argv: a.cfg.Scorers.Inception.Command, Timeout: a.cfg.InvocationTimeout()}
	scores, err := command.Scores(ctx, "inception", "--path", outputDir)
	if err != nil {
		logging.LogEvent("[METRICS] inception unavailable: %v", err)
		return Unavailable(MetricInception, CategoryAll, err.Error())
	}
	return FromSamples(MetricInception, CategoryAll, scores)
}

// promptPairingReason verifies that every image in imageDir has a prompt file
// of the same basename in promptDir, the NNNNN.txt convention prompts are
// materialized under. A non-empty reason means the correlation is broken and
// image/prompt scoring cannot be trusted.
func promptPairingReason(imageDir, promptDir string) string {
	images, err := ListImages(imageDir)
	if err != nil {
		return "image set is missing"
	}
	for _, path := range images {
		name := filepath.Base(path)
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if _, err := os.Stat(filepath.Join(promptDir, base+".txt")); err != nil {
			return fmt.Sprintf("no prompt %s.txt for image %s", base, name)
		}
	}
	return ""
}

// imageSetReady reports whether dir exists and holds at least one image.
func imageSetReady(dir string) (string, bool) {
	images, err := ListImages(dir)
	if err != nil {
		return "image set is missing", false
	}
	if len(images) == 0 {
		return "image set is empty", false
	}
	return "", true
}
