// Package report implements the minimal console reporter that makes
// cmd/bench usable without a separate rendering package.
package report

import (
	"fmt"
	"io"

	"github.com/feather-lang/benchharness/bench"
)

// Reporter prints benchmark results to an io.Writer.
type Reporter struct {
	output io.Writer
}

// New creates a Reporter writing to output.
func New(output io.Writer) *Reporter {
	return &Reporter{output: output}
}

// Result prints one line per MeasuredResults: name, p50/p99, and the
// outlier rate when it was computed (adaptive mode only).
func (r *Reporter) Result(res bench.MeasuredResults) {
	fmt.Fprintf(r.output, "%-30s  n=%-6d p50=%-10s p99=%-10s",
		res.Name, len(res.Samples), formatMS(res.Time.P50), formatMS(res.Time.P99))

	if res.Time.OutlierRate > 0 {
		fmt.Fprintf(r.output, "  outliers=%.1f%%", res.Time.OutlierRate*100)
	}
	if res.Convergence != nil {
		fmt.Fprintf(r.output, "  converged=%v confidence=%d%%", res.Convergence.Converged, res.Convergence.Confidence)
	}
	fmt.Fprintln(r.output)
}

// Comparison prints a DifferenceCI attached to a result, e.g. after a
// bootstrap comparison against a baseline.
func (r *Reporter) Comparison(name string, ci bench.DifferenceCI) {
	fmt.Fprintf(r.output, "%-30s  %+.2f%%  CI=[%+.2f%%, %+.2f%%]  %s\n",
		name, ci.Percent, ci.CILower, ci.CIUpper, ci.Direction)
}

// Matrix prints one line per cell of a matrix run, including the delta
// against a baseline when one was attached.
func (r *Reporter) Matrix(results []bench.MatrixCaseResult) {
	fmt.Fprintf(r.output, "\n=== Matrix ===\n\n")
	for _, cell := range results {
		name := fmt.Sprintf("%s/%s", cell.Variant, cell.Case)
		if cell.HasBaseline {
			fmt.Fprintf(r.output, "%-30s  p50=%-10s  delta=%+.2f%%\n",
				name, formatMS(cell.Results.Time.P50), cell.DeltaPercent)
			continue
		}
		fmt.Fprintf(r.output, "%-30s  p50=%-10s\n", name, formatMS(cell.Results.Time.P50))
	}
}

// formatMS picks a human-friendly unit for a float64-milliseconds
// sample value, same bucketing as a time.Duration formatter but over
// the collector's own unit.
func formatMS(ms float64) string {
	switch {
	case ms < 0.001:
		return fmt.Sprintf("%.0fns", ms*1_000_000)
	case ms < 1:
		return fmt.Sprintf("%.2fµs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.2fms", ms)
	default:
		return fmt.Sprintf("%.2fs", ms/1000)
	}
}
