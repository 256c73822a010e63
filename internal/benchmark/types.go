// internal/benchmark/types.go
package benchmark

import (
	"time"

	"github.com/eikonbench/eikon/internal/appconfig"
)

// Status marks how one configuration's generation run ended.
type Status string

const (
	// StatusOK means the generation pipeline exited cleanly.
	StatusOK Status = "ok"
	// StatusFailed means the invocation failed; the configuration keeps its
	// report row but gets no metric cells.
	StatusFailed Status = "failed"
)

// RunResult records one configuration's generation outcome.
type RunResult struct {
	Spec          appconfig.RunSpec `json:"spec"`
	Status        Status            `json:"status"`
	Elapsed       time.Duration     `json:"elapsed"`
	OutputDir     string            `json:"outputDir"`
	FailureReason string            `json:"failureReason,omitempty"`
}

// Summary is the full outcome of one benchmark run across all configurations.
type Summary struct {
	RunID      string      `json:"runId"`
	Model      string      `json:"model"`
	StartedUTC time.Time   `json:"startedUtc"`
	Results    []RunResult `json:"results"`
}
