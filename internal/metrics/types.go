// internal/metrics/types.go
package metrics

import "gonum.org/v1/gonum/stat"

// Metric names, used as report column labels and result tags.
const (
	MetricSSIM      = "ssim"
	MetricCLIP      = "clip"
	MetricAesthetic = "aesthetic"
	MetricInception = "inception"
	MetricHPS       = "hps"
)

// CategoryAll labels metrics computed over the full image set rather than one
// prompt category.
const CategoryAll = "all"

// Result is one metric value for one category of one configuration's image
// set. Unavailable results keep their cell in the report with a reason
// instead of a number.
type Result struct {
	Metric       string  `json:"metric"`
	Category     string  `json:"category"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"stdDev"`
	Samples      int     `json:"samples"`
	Distribution bool    `json:"distribution"`
	Available    bool    `json:"available"`
	Reason       string  `json:"reason,omitempty"`
}

// Scalar builds an available single-value result rendered as a bare number.
func Scalar(metric, category string, value float64, samples int) Result {
	return Result{
		Metric:    metric,
		Category:  category,
		Mean:      value,
		Samples:   samples,
		Available: true,
	}
}

// FromSamples aggregates per-sample scores into a mean and standard
// deviation, rendered as mean±std. A single sample has zero deviation.
func FromSamples(metric, category string, samples []float64) Result {
	if len(samples) == 0 {
		return Unavailable(metric, category, "no samples")
	}

	mean := stat.Mean(samples, nil)
	stdDev := 0.0
	if len(samples) > 1 {
		stdDev = stat.StdDev(samples, nil)
	}
	return Result{
		Metric:       metric,
		Category:     category,
		Mean:         mean,
		StdDev:       stdDev,
		Samples:      len(samples),
		Distribution: true,
		Available:    true,
	}
}

// Unavailable marks a metric cell that could not be computed.
func Unavailable(metric, category, reason string) Result {
	return Result{
		Metric:   metric,
		Category: category,
		Reason:   reason,
	}
}
