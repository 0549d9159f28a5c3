package report

import (
	"strings"
	"testing"

	"github.com/feather-lang/benchharness/bench"
)

func TestResultPrintsNameAndPercentiles(t *testing.T) {
	var buf strings.Builder
	r := New(&buf)
	r.Result(bench.MeasuredResults{
		Name:    "fast",
		Samples: []float64{1, 2, 3},
		Time:    bench.TimeStats{P50: 1.5, P99: 2.9},
	})
	out := buf.String()
	if !strings.Contains(out, "fast") {
		t.Errorf("expected name in output, got %q", out)
	}
	if !strings.Contains(out, "n=3") {
		t.Errorf("expected sample count in output, got %q", out)
	}
}

func TestResultOmitsOutlierRateWhenZero(t *testing.T) {
	var buf strings.Builder
	r := New(&buf)
	r.Result(bench.MeasuredResults{Name: "x", Samples: []float64{1}})
	if strings.Contains(buf.String(), "outliers=") {
		t.Error("did not expect an outliers= field when OutlierRate is 0")
	}
}

func TestResultIncludesOutlierRateWhenSet(t *testing.T) {
	var buf strings.Builder
	r := New(&buf)
	r.Result(bench.MeasuredResults{
		Name:    "x",
		Samples: []float64{1},
		Time:    bench.TimeStats{OutlierRate: 0.12},
	})
	if !strings.Contains(buf.String(), "outliers=12.0%") {
		t.Errorf("expected outliers=12.0%%, got %q", buf.String())
	}
}

func TestComparisonFormatsDirection(t *testing.T) {
	var buf strings.Builder
	r := New(&buf)
	r.Comparison("candidate", bench.DifferenceCI{
		Percent: -12.5, CILower: -15, CIUpper: -10, Direction: bench.DirectionFaster,
	})
	out := buf.String()
	if !strings.Contains(out, "-12.50%") || !strings.Contains(out, "faster") {
		t.Errorf("unexpected comparison line: %q", out)
	}
}

func TestMatrixPrintsDeltaWhenBaselineAttached(t *testing.T) {
	var buf strings.Builder
	r := New(&buf)
	r.Matrix([]bench.MatrixCaseResult{
		{Variant: "v1", Case: "x", Results: bench.MeasuredResults{Time: bench.TimeStats{P50: 1}},
			HasBaseline: true, DeltaPercent: 5.5},
		{Variant: "v2", Case: "x", Results: bench.MeasuredResults{Time: bench.TimeStats{P50: 2}}},
	})
	out := buf.String()
	if !strings.Contains(out, "delta=+5.50%") {
		t.Errorf("expected delta in output, got %q", out)
	}
	if strings.Count(out, "delta=") != 1 {
		t.Error("v2 row should have no delta attached")
	}
}

func TestFormatMSUnits(t *testing.T) {
	cases := []struct {
		ms   float64
		want string
	}{
		{0.0001, "100ns"},
		{0.5, "500.00µs"},
		{12.34, "12.34ms"},
		{1500, "1.50s"},
	}
	for _, c := range cases {
		if got := formatMS(c.ms); got != c.want {
			t.Errorf("formatMS(%v) = %q, want %q", c.ms, got, c.want)
		}
	}
}
