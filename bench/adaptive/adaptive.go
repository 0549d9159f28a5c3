// Package adaptive implements the controller that wraps a base
// collector and repeatedly invokes it until convergence is reached, a
// time budget is exhausted, or a fallback confidence is satisfied after
// a minimum measurement time.
package adaptive

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/feather-lang/benchharness/bench"
	"github.com/feather-lang/benchharness/bench/collector"
	"github.com/feather-lang/benchharness/bench/stats"
)

// ProgressWriter receives a progress line at most once per second while
// the controller runs. A nil writer disables progress output.
type ProgressWriter = io.Writer

// Run drives the adaptive measurement protocol:
//
//  1. Collect an initial batch (100ms budget, full warmup+settle).
//  2. Start the adaptive clock after that initial batch.
//  3. Repeatedly check_convergence; stop when converged at
//     TargetConfidence, or when elapsed >= MinTimeMS and confidence >=
//     max(TargetConfidence, 80); otherwise collect another 100ms/10-iter
//     batch with warmup skipped and append its samples.
func Run(cfg collector.Config, progress ProgressWriter) (bench.MeasuredResults, error) {
	initial := cfg
	initial.Options.MaxTimeMS = 100
	initial.Options.MaxIterations = 0

	result, err := collector.Collect(initial)
	if err != nil {
		return bench.MeasuredResults{}, err
	}

	start := time.Now()
	lastProgress := time.Time{}
	targetConf := cfg.Options.TargetConf
	isTTY := isTerminalWriter(progress)

	for {
		samplesMS := result.Samples
		conv := CheckConvergence(samplesMS)

		if shouldLog(progress, lastProgress) {
			printProgress(progress, isTTY, conv, time.Since(start).Round(time.Millisecond))
			lastProgress = time.Now()
		}

		elapsed := time.Since(start)

		if conv.Converged && conv.Confidence >= targetConf {
			result.Convergence = &conv
			break
		}

		fallback := targetConf
		if fallback < 80 {
			fallback = 80
		}
		if elapsed.Milliseconds() >= cfg.Options.MinTimeMS && conv.Confidence >= fallback {
			result.Convergence = &conv
			break
		}

		if cfg.Options.MaxTimeMS > 0 && elapsed.Milliseconds() >= cfg.Options.MaxTimeMS {
			result.Convergence = &conv
			break
		}

		next := cfg
		next.Options.MaxTimeMS = 100
		next.Options.MaxIterations = 10
		next.SkipWarmup = true

		batch, err := collector.Collect(next)
		if err != nil {
			return bench.MeasuredResults{}, err
		}
		result = collector.Merge(result, batch)
	}

	if progress != nil {
		fmt.Fprintln(progress)
	}
	return result, nil
}

func shouldLog(w ProgressWriter, last time.Time) bool {
	return w != nil && time.Since(last) >= time.Second
}

// isTerminalWriter decides, once per run, whether progress is an
// interactive terminal, to choose between carriage-return overwrite
// (TTY) and one line per update (redirected to a file or pipe).
func isTerminalWriter(w ProgressWriter) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func printProgress(w ProgressWriter, isTTY bool, conv bench.Convergence, elapsed time.Duration) {
	if isTTY {
		fmt.Fprintf(w, "\rconverged=%v confidence=%d%% reason=%q elapsed=%s",
			conv.Converged, conv.Confidence, conv.Reason, elapsed)
		return
	}
	fmt.Fprintf(w, "converged=%v confidence=%d%% reason=%q elapsed=%s\n",
		conv.Converged, conv.Confidence, conv.Reason, elapsed)
}

// windowSize adapts W to the median of the last 20 samples.
func windowSize(samples []float64) int {
	if len(samples) < 20 {
		return 50
	}
	recent20 := samples[len(samples)-20:]
	med := stats.Median(recent20)
	switch {
	case med < 0.01: // < 10 microseconds, expressed in ms
		return 200
	case med < 0.1: // < 100 microseconds
		return 100
	case med < 1: // < 1 millisecond
		return 50
	case med < 10: // < 10 milliseconds
		return 30
	default:
		return 20
	}
}

// outlierImpact is the time-weighted fraction of total time attributable
// to samples beyond Tukey's upper fence — it weights by time cost, not
// count.
func outlierImpact(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	med := stats.Median(samples)
	q75 := stats.Percentile(samples, 0.75)
	threshold := med + 1.5*(q75-med)

	var excess, total float64
	for _, s := range samples {
		total += s
		if s > threshold {
			excess += s - med
		}
	}
	if total == 0 {
		return 0
	}
	return excess / total
}

// CheckConvergence compares the median and outlier impact of the most
// recent window of samples against the window before it. It requires at
// least 2*W samples; below that it reports a progress result
// (converged=false, confidence=(n/2W)*100).
func CheckConvergence(samples []float64) bench.Convergence {
	w := windowSize(samples)
	need := 2 * w

	if len(samples) < need {
		confidence := int(100 * float64(len(samples)) / float64(need))
		return bench.Convergence{
			Converged:  false,
			Confidence: clamp(confidence),
			Reason:     fmt.Sprintf("Collecting samples: %d/%d", len(samples), need),
		}
	}

	recent := samples[len(samples)-w:]
	previous := samples[len(samples)-2*w : len(samples)-w]

	medRecent := stats.Median(recent)
	medPrevious := stats.Median(previous)

	var medianDrift float64
	if medPrevious != 0 {
		medianDrift = abs(medRecent-medPrevious) / medPrevious
	}

	impactRecent := outlierImpact(recent)
	impactPrevious := outlierImpact(previous)
	impactDrift := abs(impactRecent - impactPrevious)

	medianStable := medianDrift < 0.05
	impactStable := impactDrift < 0.05

	if medianStable && impactStable {
		return bench.Convergence{Converged: true, Confidence: 100, Reason: "Stable performance pattern"}
	}

	confidence := 50*(1-medianDrift/0.05) + 50*(1-impactDrift/0.05)
	reason := "Median drift"
	if !medianStable && !impactStable {
		reason = "Median and outlier-impact drift"
	} else if !impactStable {
		reason = "Outlier-impact drift"
	}

	return bench.Convergence{
		Converged:  false,
		Confidence: clamp(int(confidence)),
		Reason:     reason,
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
