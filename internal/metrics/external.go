// internal/metrics/external.go
package metrics

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/eikonbench/eikon/internal/logging"
)

// Command is one external scoring process: a learned metric (CLIP, aesthetic,
// inception, human preference) evaluated by a separate program whose stdout
// carries one score per line.
type Command struct {
	Argv    []string
	Timeout time.Duration
}

// Scores runs the scorer with extra flags appended and parses per-sample
// scores from its stdout.
func (c Command) Scores(ctx context.Context, name string, extraArgs ...string) ([]float64, error) {
	if len(c.Argv) == 0 {
		return nil, fmt.Errorf("no scorer command configured")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, c.Argv[1:]...), extraArgs...)
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.LogCommand("score", name, append([]string{c.Argv[0]}, args...))
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%w: %s", err, detail)
		}
		return nil, err
	}

	scores := parseScores(&stdout)
	if len(scores) == 0 {
		return nil, fmt.Errorf("scorer produced no scores")
	}
	return scores, nil
}

// parseScores reads one float per line, ignoring blank lines and any
// surrounding progress or log text the scorer prints.
func parseScores(r io.Reader) []float64 {
	var scores []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		scores = append(scores, value)
	}
	return scores
}
