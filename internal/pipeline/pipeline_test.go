package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestInvocationArgs(t *testing.T) {
	inv := Invocation{
		Model:     "/models/sd1.5",
		ImageDir:  "out/compiled",
		PromptDir: "prompts",
		Compile:   true,
		DeepCache: false,
		Height:    512,
		Width:     512,
		Steps:     30,
		Seed:      1,
		Warmup:    1,
	}

	expected := []string{
		"--model", "/models/sd1.5",
		"--image_path", "out/compiled",
		"--prompt_path", "prompts",
		"--compile", "true",
		"--deep_cache", "false",
		"--height", "512",
		"--width", "512",
		"--steps", "30",
		"--seed", "1",
		"--warmup", "1",
	}
	if got := inv.Args(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("Args() = %v", got)
	}
}

func TestGenerateSuccess(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	runner := &Runner{Argv: []string{"sh", "-c", "touch " + marker + " # ignore flags: $0"}}

	if err := runner.Generate(context.Background(), "baseline", Invocation{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("generator did not run: %v", err)
	}
}

func TestGenerateFailure(t *testing.T) {
	runner := &Runner{Argv: []string{"sh", "-c", "echo boom >&2; exit 3"}}

	err := runner.Generate(context.Background(), "compiled", Invocation{})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Config != "compiled" {
		t.Fatalf("config name: %q", genErr.Config)
	}
	if !strings.Contains(genErr.Stderr, "boom") {
		t.Fatalf("expected stderr tail, got %q", genErr.Stderr)
	}
}

func TestGenerateMissingCommand(t *testing.T) {
	runner := &Runner{}

	err := runner.Generate(context.Background(), "baseline", Invocation{})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestTail(t *testing.T) {
	long := strings.Repeat("x", stderrTailBytes+100) + "END"
	got := tail([]byte(long))
	if len(got) != stderrTailBytes {
		t.Fatalf("tail length: %d", len(got))
	}
	if !strings.HasSuffix(got, "END") {
		t.Fatalf("tail should keep the end of stderr")
	}
}
