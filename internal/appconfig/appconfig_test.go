package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validConfig = `{
  "model": "stabilityai/sd-turbo",
  "imagePath": "output_images",
  "promptPath": "prompts",
  "generator": ["python3", "scripts/generate.py"],
  "timeout": 120,
  "configurations": [
    {"name": "baseline"},
    {"name": "compiled", "compile": true},
    {"name": "compiled-deepcache", "compile": true, "deepCache": true}
  ],
  "scorers": {
    "ssim": {"enabled": true},
    "clip": {"enabled": true, "command": ["python3", "metrics/clip_score.py"]}
  }
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "stabilityai/sd-turbo" {
		t.Fatalf("model: %q", cfg.Model)
	}
	if cfg.InvocationTimeout() != 120*time.Second {
		t.Fatalf("timeout: %v", cfg.InvocationTimeout())
	}
	specs := cfg.RunSpecs()
	if len(specs) != 3 || specs[1].Name != "compiled" || !specs[1].Compile || specs[1].DeepCache {
		t.Fatalf("unexpected run specs: %+v", specs)
	}
	if cfg.SSIMBaseline() != "baseline" {
		t.Fatalf("ssim baseline: %q", cfg.SSIMBaseline())
	}
	if !cfg.Scorers.CLIP.Enabled || cfg.Scorers.CLIP.Command[1] != "metrics/clip_score.py" {
		t.Fatalf("clip scorer: %+v", cfg.Scorers.CLIP)
	}
}

func TestLoadRejectsMissingFields(t *testing.T) {
	_, err := Load(writeConfig(t, `{"model": "m"}`))
	if err == nil {
		t.Fatal("expected schema error for missing fields")
	}
	if !strings.Contains(err.Error(), "imagePath") {
		t.Fatalf("expected imagePath in error, got: %v", err)
	}
}

func TestLoadRejectsWrongTypes(t *testing.T) {
	bad := `{
  "model": "m",
  "imagePath": "out",
  "promptPath": "prompts",
  "generator": "python3"
}`
	_, err := Load(writeConfig(t, bad))
	if err == nil {
		t.Fatal("expected schema error for generator type")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config

	height, width, steps, seed, warmup := cfg.Geometry()
	if height != 512 || width != 512 || steps != 30 || seed != 1 || warmup != 1 {
		t.Fatalf("geometry defaults: %d %d %d %d %d", height, width, steps, seed, warmup)
	}
	if got := cfg.CategoryNames(); len(got) != 4 || got[0] != "anime" || got[3] != "photo" {
		t.Fatalf("category defaults: %v", got)
	}
	specs := cfg.RunSpecs()
	if len(specs) != 3 || specs[0].Name != "baseline" || !specs[2].DeepCache {
		t.Fatalf("run spec defaults: %+v", specs)
	}
	if cfg.LogFilePath() != "eikon.log" {
		t.Fatalf("log file default: %q", cfg.LogFilePath())
	}
}
