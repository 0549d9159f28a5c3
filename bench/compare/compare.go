// Package compare implements the bootstrap comparator: a confidence
// interval on the percentage change of medians between a baseline and a
// candidate sample array, by repeated resampling with replacement.
//
// This is the primary baseline-comparison operation, adapted from the
// resample-medians-ratio shape of a bootstrap confidence interval into
// the percent/CI/direction/histogram shape this harness's reporters
// expect.
package compare

import (
	"math/rand"
	"time"

	"github.com/feather-lang/benchharness/bench"
	"github.com/feather-lang/benchharness/bench/stats"
)

// Options controls a Compare call.
type Options struct {
	Resamples  int     // default 10_000
	Confidence float64 // default 0.95
	Bins       int     // default 30
	Seed       int64   // 0 picks a random seed
}

// DefaultOptions returns sensible defaults: 10,000 resamples, 95%
// confidence, 30 histogram bins.
func DefaultOptions() Options {
	return Options{Resamples: 10_000, Confidence: 0.95, Bins: 30}
}

func (o Options) withDefaults() Options {
	if o.Resamples <= 0 {
		o.Resamples = 10_000
	}
	if o.Confidence <= 0 {
		o.Confidence = 0.95
	}
	if o.Bins <= 0 {
		o.Bins = 30
	}
	return o
}

// Compare computes the bootstrap-derived percentage-difference-of-medians
// confidence interval between baseline and current.
//
//  1. observed = 100 * (median(current) - median(baseline)) / median(baseline)
//  2. Resample both inputs with replacement `Resamples` times, recomputing
//     the same percentage expression each time.
//  3. CI = [quantile(diffs, alpha/2), quantile(diffs, 1-alpha/2)].
//  4. direction: faster if CI lies strictly below 0, slower if strictly
//     above, uncertain if it spans 0.
//  5. The resample distribution is binned into Bins equal-width bins.
//
// If median(baseline) == 0, the percentage is undefined: Compare returns
// percent 0, an empty CI and direction Uncertain rather than failing —
// callers must tolerate a zero-median baseline.
func Compare(baseline, current []float64, opts Options) bench.DifferenceCI {
	opts = opts.withDefaults()

	baseMedian := stats.Median(baseline)
	if baseMedian == 0 {
		return bench.DifferenceCI{Direction: bench.DirectionUncertain}
	}

	observed := percentDiff(stats.Median(current), baseMedian)

	rng := rngFor(opts.Seed)
	diffs := make([]float64, opts.Resamples)
	for i := 0; i < opts.Resamples; i++ {
		rb := stats.Resample(baseline, rng)
		rc := stats.Resample(current, rng)
		rbMedian := stats.Median(rb)
		if rbMedian == 0 {
			diffs[i] = 0
			continue
		}
		diffs[i] = percentDiff(stats.Median(rc), rbMedian)
	}

	alpha := 1 - opts.Confidence
	lower := stats.Percentile(diffs, alpha/2)
	upper := stats.Percentile(diffs, 1-alpha/2)

	return bench.DifferenceCI{
		Percent:   observed,
		CILower:   lower,
		CIUpper:   upper,
		Direction: direction(lower, upper),
		Histogram: histogram(diffs, opts.Bins),
	}
}

func percentDiff(current, base float64) float64 {
	return 100 * (current - base) / base
}

func direction(lower, upper float64) bench.Direction {
	switch {
	case upper < 0:
		return bench.DirectionFaster
	case lower > 0:
		return bench.DirectionSlower
	default:
		return bench.DirectionUncertain
	}
}

func rngFor(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// histogram bins values into n equal-width bins, reporting each bin's
// midpoint and count, for transport to a reporter.
func histogram(values []float64, n int) []bench.HistogramBin {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	width := (max - min) / float64(n)
	bins := make([]bench.HistogramBin, n)
	for i := range bins {
		bins[i].Midpoint = min + width*(float64(i)+0.5)
	}
	if width == 0 {
		// All values identical: put everything in the single midpoint bin.
		bins[0].Midpoint = min
		bins[0].Count = len(values)
		return bins
	}
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins
}
