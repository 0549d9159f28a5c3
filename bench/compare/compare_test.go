package compare

import (
	"math"
	"testing"

	"github.com/feather-lang/benchharness/bench"
)

func seq(start, end float64) []float64 {
	var out []float64
	for v := start; v <= end; v++ {
		out = append(out, v)
	}
	return out
}

func scale(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}

func offset(values []float64, add float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v + add
	}
	return out
}

func TestCompareSpeedupDetected(t *testing.T) {
	baseline := seq(50, 149)
	current := scale(baseline, 0.8)

	ci := Compare(baseline, current, Options{Resamples: 2000, Seed: 1})

	if ci.Percent > -15 || ci.Percent < -25 {
		t.Errorf("percent = %v, want ~ -20", ci.Percent)
	}
	if ci.CIUpper >= 0 {
		t.Errorf("CIUpper = %v, want strictly below 0", ci.CIUpper)
	}
	if ci.Direction != bench.DirectionFaster {
		t.Errorf("direction = %v, want faster", ci.Direction)
	}
}

func TestCompareRegressionDetected(t *testing.T) {
	baseline := seq(100, 199)
	current := scale(baseline, 1.3)

	ci := Compare(baseline, current, Options{Resamples: 2000, Seed: 1})

	if ci.Percent < 20 || ci.Percent > 40 {
		t.Errorf("percent = %v, want ~ +30", ci.Percent)
	}
	if ci.CILower <= 0 {
		t.Errorf("CILower = %v, want strictly above 0", ci.CILower)
	}
	if ci.Direction != bench.DirectionSlower {
		t.Errorf("direction = %v, want slower", ci.Direction)
	}
}

func TestCompareNoChangeUnderNoise(t *testing.T) {
	baseline := seq(200, 299)
	current := make([]float64, len(baseline))
	for i, v := range baseline {
		// deterministic "noise" within [-1, 1] without relying on math/rand timing
		jitter := float64(i%3) - 1
		current[i] = v + jitter
	}

	ci := Compare(baseline, current, Options{Resamples: 2000, Seed: 1})

	if math.Abs(ci.Percent) >= 5 {
		t.Errorf("percent = %v, want |percent| < 5", ci.Percent)
	}
	if ci.Direction != bench.DirectionUncertain {
		t.Errorf("direction = %v, want uncertain", ci.Direction)
	}
	if ci.CILower > 0 || ci.CIUpper < 0 {
		t.Errorf("CI [%v, %v] should span 0", ci.CILower, ci.CIUpper)
	}
}

func TestCompareStrongSignalExcludesZero(t *testing.T) {
	baseline := seq(1, 200)
	fast := scale(baseline, 0.5)
	slow := scale(baseline, 2)

	ci := Compare(slow, fast, Options{Resamples: 2000, Seed: 1})
	if ci.CIUpper >= 0 {
		t.Errorf("CIUpper = %v, want strictly below 0 for a 4x spread", ci.CIUpper)
	}
}

func TestCompareSingleValueVsIdenticalVector(t *testing.T) {
	baseline := []float64{50}
	current := []float64{50, 50, 50, 50, 50}

	ci := Compare(baseline, current, Options{Resamples: 500, Seed: 1})
	if ci.Percent != 0 {
		t.Errorf("percent = %v, want 0", ci.Percent)
	}
	if ci.Direction != bench.DirectionUncertain {
		t.Errorf("direction = %v, want uncertain", ci.Direction)
	}
}

func TestCompareZeroMedianBaseline(t *testing.T) {
	baseline := []float64{0, 0, 0}
	current := []float64{1, 2, 3}

	ci := Compare(baseline, current, Options{Resamples: 500, Seed: 1})
	if ci.Percent != 0 {
		t.Errorf("percent = %v, want 0", ci.Percent)
	}
	if ci.Direction != bench.DirectionUncertain {
		t.Errorf("direction = %v, want uncertain", ci.Direction)
	}
}

func TestCompareIdenticalDistributions(t *testing.T) {
	baseline := seq(10, 109)
	current := append([]float64{}, baseline...)

	ci := Compare(baseline, current, Options{Resamples: 2000, Seed: 1})
	if math.Abs(ci.Percent) > 1e-9 {
		t.Errorf("percent = %v, want ~0", ci.Percent)
	}
	if ci.Direction != bench.DirectionUncertain {
		t.Errorf("direction = %v, want uncertain", ci.Direction)
	}
}

func TestCompareHistogramBinCount(t *testing.T) {
	baseline := seq(1, 100)
	current := scale(baseline, 1.1)

	ci := Compare(baseline, current, Options{Resamples: 500, Seed: 1, Bins: 30})
	if len(ci.Histogram) != 30 {
		t.Fatalf("histogram bins = %d, want 30", len(ci.Histogram))
	}
	var total int
	for _, b := range ci.Histogram {
		total += b.Count
	}
	if total != 500 {
		t.Errorf("histogram total count = %d, want 500", total)
	}
}

func TestCompareCIOrdering(t *testing.T) {
	baseline := seq(1, 300)
	current := offset(baseline, 5)

	ci := Compare(baseline, current, Options{Resamples: 1000, Seed: 42})
	if ci.CILower > ci.CIUpper {
		t.Errorf("CILower %v > CIUpper %v", ci.CILower, ci.CIUpper)
	}
}
