// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultInvocationTimeout is the default timeout for one external process invocation.
	defaultInvocationTimeout = 3600 * time.Second

	defaultHeight = 512
	defaultWidth  = 512
	defaultSteps  = 30
	defaultSeed   = 1
	defaultWarmup = 1
)

// Config represents the top-level application configuration.
type Config struct {
	Model          string              `json:"model"`
	ImagePath      string              `json:"imagePath"`
	PromptPath     string              `json:"promptPath"`
	Generator      []string            `json:"generator"`
	TimeoutSeconds int                 `json:"timeout,omitempty"`
	Height         int                 `json:"height,omitempty"`
	Width          int                 `json:"width,omitempty"`
	Steps          int                 `json:"steps,omitempty"`
	Seed           int                 `json:"seed,omitempty"`
	Warmup         int                 `json:"warmup,omitempty"`
	Categories     []string            `json:"categories,omitempty"`
	Prompts        map[string][]string `json:"prompts,omitempty"`
	Configurations []RunSpec           `json:"configurations,omitempty"`
	Scorers        ScorerSet           `json:"scorers"`
	Export         string              `json:"export,omitempty"`
	Debug          bool                `json:"debug"`
	LogFile        string              `json:"logFile,omitempty"`
	ConfigPath     string              `json:"-"`
}

// RunSpec names one benchmark configuration and the acceleration flags it
// passes to the generation pipeline.
type RunSpec struct {
	Name      string `json:"name"`
	Compile   bool   `json:"compile"`
	DeepCache bool   `json:"deepCache"`
}

// ScorerSet holds the per-metric scorer definitions.
type ScorerSet struct {
	SSIM      SSIMScorer     `json:"ssim"`
	CLIP      ExternalScorer `json:"clip"`
	Aesthetic ExternalScorer `json:"aesthetic"`
	Inception ExternalScorer `json:"inception"`
	HPS       ExternalScorer `json:"hps"`
}

// ExternalScorer describes one external scoring process: the argv prefix it
// is launched with, and whether the metric is enabled at all.
type ExternalScorer struct {
	Enabled bool     `json:"enabled"`
	Command []string `json:"command,omitempty"`
}

// SSIMScorer configures the built-in structural similarity metric. Baseline
// names the configuration whose image set every other configuration is
// compared against.
type SSIMScorer struct {
	Enabled  bool   `json:"enabled"`
	Baseline string `json:"baseline,omitempty"`
}

// InvocationTimeout returns the timeout for one external invocation, falling
// back to the default if not specified.
func (c Config) InvocationTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultInvocationTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Geometry returns height, width, step count, seed and warmup iterations with
// defaults applied.
func (c Config) Geometry() (height, width, steps, seed, warmup int) {
	height, width, steps, seed, warmup = c.Height, c.Width, c.Steps, c.Seed, c.Warmup
	if height <= 0 {
		height = defaultHeight
	}
	if width <= 0 {
		width = defaultWidth
	}
	if steps <= 0 {
		steps = defaultSteps
	}
	if seed <= 0 {
		seed = defaultSeed
	}
	if warmup <= 0 {
		warmup = defaultWarmup
	}
	return height, width, steps, seed, warmup
}

// CategoryNames returns the prompt categories, defaulting to the HPSv2
// benchmark styles.
func (c Config) CategoryNames() []string {
	if len(c.Categories) > 0 {
		return c.Categories
	}
	return []string{"anime", "concept-art", "paintings", "photo"}
}

// RunSpecs returns the ordered benchmark configurations, defaulting to the
// standard three-way comparison.
func (c Config) RunSpecs() []RunSpec {
	if len(c.Configurations) > 0 {
		return c.Configurations
	}
	return []RunSpec{
		{Name: "baseline", Compile: false, DeepCache: false},
		{Name: "compiled", Compile: true, DeepCache: false},
		{Name: "compiled-deepcache", Compile: true, DeepCache: true},
	}
}

// SSIMBaseline returns the configuration name SSIM comparisons reference,
// defaulting to the first declared configuration.
func (c Config) SSIMBaseline() string {
	if c.Scorers.SSIM.Baseline != "" {
		return c.Scorers.SSIM.Baseline
	}
	return c.RunSpecs()[0].Name
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return "eikon.log"
}

// Load reads, validates, and parses the configuration file at path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := ValidateDocument(data); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}
