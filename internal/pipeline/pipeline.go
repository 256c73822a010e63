// Package pipeline invokes the external text-to-image generation process for
// one benchmark configuration at a time.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/eikonbench/eikon/internal/logging"
)

// stderrTailBytes bounds how much trailing stderr a GenerationError carries.
const stderrTailBytes = 2048

// GenerationError reports a failed generation invocation for one
// configuration. It never aborts the remaining configurations.
type GenerationError struct {
	Config string
	Stderr string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for configuration %q: %v", e.Config, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Invocation holds everything one generator run needs: the resolved model
// directory, the destination image directory, the prompt directory, and the
// acceleration flags under test.
type Invocation struct {
	Model     string
	ImageDir  string
	PromptDir string
	Compile   bool
	DeepCache bool
	Height    int
	Width     int
	Steps     int
	Seed      int
	Warmup    int
}

// Args renders the invocation as generator command-line flags. Flag names
// follow the generation scripts' argparse surface.
func (inv Invocation) Args() []string {
	return []string{
		"--model", inv.Model,
		"--image_path", inv.ImageDir,
		"--prompt_path", inv.PromptDir,
		"--compile", strconv.FormatBool(inv.Compile),
		"--deep_cache", strconv.FormatBool(inv.DeepCache),
		"--height", strconv.Itoa(inv.Height),
		"--width", strconv.Itoa(inv.Width),
		"--steps", strconv.Itoa(inv.Steps),
		"--seed", strconv.Itoa(inv.Seed),
		"--warmup", strconv.Itoa(inv.Warmup),
	}
}

// Runner launches the external generator.
type Runner struct {
	Argv    []string
	Timeout time.Duration
}

// Generate runs the generator for one named configuration, blocking until it
// exits. A nonzero exit or spawn failure is returned as a *GenerationError
// carrying the tail of stderr.
func (r *Runner) Generate(ctx context.Context, name string, inv Invocation) error {
	if len(r.Argv) == 0 {
		return &GenerationError{Config: name, Err: fmt.Errorf("no generator command configured")}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.Argv[1:]...), inv.Args()...)
	cmd := exec.CommandContext(ctx, r.Argv[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.LogCommand("generate", name, append([]string{r.Argv[0]}, args...))
	if err := cmd.Run(); err != nil {
		return &GenerationError{Config: name, Stderr: tail(stderr.Bytes()), Err: err}
	}
	return nil
}

func tail(b []byte) string {
	if len(b) > stderrTailBytes {
		b = b[len(b)-stderrTailBytes:]
	}
	return string(b)
}
