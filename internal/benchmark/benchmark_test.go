package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eikonbench/eikon/internal/appconfig"
	"github.com/eikonbench/eikon/internal/pipeline"
)

type stubGenerator struct {
	failFor map[string]bool
	calls   []string
	invs    []pipeline.Invocation
}

func (g *stubGenerator) Generate(ctx context.Context, name string, inv pipeline.Invocation) error {
	g.calls = append(g.calls, name)
	g.invs = append(g.invs, inv)
	if g.failFor[name] {
		return &pipeline.GenerationError{Config: name, Err: fmt.Errorf("forced failure")}
	}
	return nil
}

func testConfig(t *testing.T) *appconfig.Config {
	t.Helper()
	return &appconfig.Config{
		Model:      "acme/tiny-sd",
		ImagePath:  filepath.Join(t.TempDir(), "output_images"),
		PromptPath: "prompts",
		Categories: []string{"anime", "photo"},
		Configurations: []appconfig.RunSpec{
			{Name: "baseline"},
			{Name: "compiled", Compile: true},
			{Name: "compiled-deepcache", Compile: true, DeepCache: true},
		},
	}
}

func stubWriteResults(t *testing.T) {
	t.Helper()
	prev := writeResultsFn
	writeResultsFn = func(*Summary) error { return nil }
	t.Cleanup(func() { writeResultsFn = prev })
}

func TestRunProducesOneResultPerConfigurationInOrder(t *testing.T) {
	stubWriteResults(t)
	cfg := testConfig(t)
	gen := &stubGenerator{}

	summary, err := Run(context.Background(), cfg, "/models/tiny-sd", gen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(summary.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(summary.Results))
	}
	for i, name := range []string{"baseline", "compiled", "compiled-deepcache"} {
		if summary.Results[i].Spec.Name != name {
			t.Fatalf("result %d out of order: %q", i, summary.Results[i].Spec.Name)
		}
		if summary.Results[i].Status != StatusOK {
			t.Fatalf("result %d status: %q", i, summary.Results[i].Status)
		}
		if summary.Results[i].Elapsed <= 0 {
			t.Fatalf("result %d elapsed: %v", i, summary.Results[i].Elapsed)
		}
	}
	if len(gen.calls) != 3 {
		t.Fatalf("generator calls: %v", gen.calls)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	stubWriteResults(t)
	cfg := testConfig(t)
	gen := &stubGenerator{failFor: map[string]bool{"compiled": true}}

	summary, err := Run(context.Background(), cfg, "/models/tiny-sd", gen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(summary.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(summary.Results))
	}
	if summary.Results[0].Status != StatusOK {
		t.Fatalf("baseline should succeed: %+v", summary.Results[0])
	}
	if summary.Results[1].Status != StatusFailed {
		t.Fatalf("compiled should fail: %+v", summary.Results[1])
	}
	if !strings.Contains(summary.Results[1].FailureReason, "forced failure") {
		t.Fatalf("failure reason: %q", summary.Results[1].FailureReason)
	}
	if summary.Results[2].Status != StatusOK {
		t.Fatalf("failure should not abort later configurations: %+v", summary.Results[2])
	}
}

func TestRunCreatesIsolatedCategoryDirs(t *testing.T) {
	stubWriteResults(t)
	cfg := testConfig(t)
	gen := &stubGenerator{}

	summary, err := Run(context.Background(), cfg, "/models/tiny-sd", gen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	seen := make(map[string]bool)
	for _, result := range summary.Results {
		if seen[result.OutputDir] {
			t.Fatalf("output dir %q reused across configurations", result.OutputDir)
		}
		seen[result.OutputDir] = true
		for _, category := range cfg.CategoryNames() {
			info, err := os.Stat(filepath.Join(result.OutputDir, category))
			if err != nil || !info.IsDir() {
				t.Fatalf("missing category dir %s/%s: %v", result.OutputDir, category, err)
			}
		}
	}

	for i, inv := range gen.invs {
		if inv.Model != "/models/tiny-sd" {
			t.Fatalf("invocation %d model: %q", i, inv.Model)
		}
		if inv.Height != 512 || inv.Steps != 30 {
			t.Fatalf("invocation %d geometry defaults: %+v", i, inv)
		}
	}
}

func TestWriteResults(t *testing.T) {
	tempDir := t.TempDir()
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	summary := &Summary{
		RunID:      "0c36e09e-aaaa-bbbb-cccc-ddddeeee0001",
		Model:      "acme/tiny-sd",
		StartedUTC: time.Now().UTC(),
		Results: []RunResult{
			{Spec: appconfig.RunSpec{Name: "baseline"}, Status: StatusOK, Elapsed: time.Second},
		},
	}
	if err := writeResults(summary); err != nil {
		t.Fatalf("writeResults: %v", err)
	}

	expectedName := filepath.Join("eikonData", "benchmarkRuns",
		"acme_tiny-sd-0c36e09e-aaaa-bbbb-cccc-ddddeeee0001.json")
	data, err := os.ReadFile(expectedName)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	var decoded Summary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if decoded.Model != "acme/tiny-sd" || len(decoded.Results) != 1 {
		t.Fatalf("decoded summary: %+v", decoded)
	}
}
