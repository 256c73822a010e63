// Package report renders the final comparison table: one row per benchmark
// configuration, one column per (metric, category) pair, plus elapsed time.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/eikonbench/eikon/internal/benchmark"
	"github.com/eikonbench/eikon/internal/metrics"
)

const (
	failedCell      = "—"
	unavailableCell = "n/a"
	referenceName   = "reference"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// Row is one configuration's line in the report.
type Row struct {
	Name    string           `json:"name"`
	Status  benchmark.Status `json:"status"`
	Elapsed time.Duration    `json:"elapsed"`
	Reason  string           `json:"reason,omitempty"`
	Results []metrics.Result `json:"results,omitempty"`
}

// Report combines every configuration row with the run metadata and the
// optional human-preference reference row.
type Report struct {
	Model      string           `json:"model"`
	RunID      string           `json:"runId"`
	Categories []string         `json:"categories"`
	Rows       []Row            `json:"rows"`
	Reference  []metrics.Result `json:"reference,omitempty"`
}

// column identifies one (metric, category) pair in declaration order.
type column struct {
	metric   string
	category string
}

// metricOrder fixes the column grouping; categories keep their declared order
// within each metric.
var metricOrder = []string{
	metrics.MetricSSIM,
	metrics.MetricCLIP,
	metrics.MetricAesthetic,
	metrics.MetricInception,
	metrics.MetricHPS,
}

// Render writes the report table to out. Rows appear in configuration
// declaration order; failed configurations keep their row with a failed
// status and no metric cells.
func (r *Report) Render(out io.Writer) {
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Benchmark report for %s", r.Model)))
	fmt.Fprintln(out)

	columns := r.columns()

	header := []string{"CONFIGURATION", "STATUS", "ELAPSED"}
	for _, col := range columns {
		if col.category == metrics.CategoryAll {
			header = append(header, col.metric)
		} else {
			header = append(header, fmt.Sprintf("%s(%s)", col.metric, col.category))
		}
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")

	for _, row := range r.Rows {
		line := []string{row.Name, string(row.Status), formatElapsed(row.Elapsed)}
		for _, col := range columns {
			if row.Status != benchmark.StatusOK {
				line = append(line, failedCell)
				continue
			}
			line = append(line, formatCell(row.Results, col))
		}
		table.Append(line)
	}

	if len(r.Reference) > 0 {
		line := []string{referenceName, "-", "-"}
		for _, col := range columns {
			line = append(line, formatCell(r.Reference, col))
		}
		table.Append(line)
	}

	table.Render()
}

// ExportJSON writes the full report to path as indented JSON.
func (r *Report) ExportJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// columns derives the column list from the results actually present, keeping
// metric grouping and declared category order stable.
func (r *Report) columns() []column {
	present := make(map[column]bool)
	mark := func(results []metrics.Result) {
		for _, result := range results {
			present[column{metric: result.Metric, category: result.Category}] = true
		}
	}
	for _, row := range r.Rows {
		mark(row.Results)
	}
	mark(r.Reference)

	var columns []column
	for _, metric := range metricOrder {
		for _, category := range r.Categories {
			if present[column{metric: metric, category: category}] {
				columns = append(columns, column{metric: metric, category: category})
			}
		}
		if present[column{metric: metric, category: metrics.CategoryAll}] {
			columns = append(columns, column{metric: metric, category: metrics.CategoryAll})
		}
	}
	return columns
}

func formatCell(results []metrics.Result, col column) string {
	for _, result := range results {
		if result.Metric != col.metric || result.Category != col.category {
			continue
		}
		if !result.Available {
			return unavailableCell
		}
		if result.Distribution {
			return fmt.Sprintf("%.2f±%.2f", result.Mean, result.StdDev)
		}
		return fmt.Sprintf("%.4f", result.Mean)
	}
	// A cell that was never computed for an otherwise successful row is
	// unavailable; the failed marker belongs to failed rows only.
	return unavailableCell
}

func formatElapsed(elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	return elapsed.Round(10 * time.Millisecond).String()
}
