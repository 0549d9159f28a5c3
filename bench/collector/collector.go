// Package collector implements the sample collection loop: warmup,
// settle, and the instrumented measurement pass that produces a
// bench.MeasuredResults in one go.
package collector

import (
	"math"
	"runtime"
	"time"

	"github.com/feather-lang/benchharness/bench"
	"github.com/feather-lang/benchharness/bench/profhook"
	"github.com/feather-lang/benchharness/bench/stats"
)

// SettleMS is the fixed settle window after warmup.
const SettleMS = 1000

// Config bundles a resolved callable with the options and optional
// instrumentation hooks the loop consults.
type Config struct {
	Name    string
	Fn      bench.Func
	Param   any
	Options bench.RunnerOptions

	// OptProbe and HeapSampler are optional external-profiler hooks
	// (bench/profhook); nil means "not available", matching
	// profhook.Noop's behavior.
	OptProbe    profhook.OptTierProbe
	HeapSampler profhook.HeapSampler

	// SkipWarmup forces warmup/settle to be skipped regardless of
	// Options, used by the adaptive controller for follow-up batches.
	SkipWarmup bool
}

// Collect runs Config.Fn repeatedly and returns the resulting
// MeasuredResults. It fails with KindConfigInvalid if neither
// MaxTimeMS nor MaxIterations is set, and KindEmptySamples if the
// measurement phase produced zero samples.
func Collect(cfg Config) (bench.MeasuredResults, error) {
	if err := cfg.Options.Validate(); err != nil {
		return bench.MeasuredResults{}, err
	}

	var warmupSamples []float64
	if !cfg.SkipWarmup && cfg.Options.WarmupIters > 0 {
		warmupSamples = runWarmup(cfg)
		runtime.GC()
		if !cfg.Options.SkipSettle {
			time.Sleep(SettleMS * time.Millisecond)
			runtime.GC()
		}
	}

	capacity := estimateCapacity(cfg.Options)

	samples := make([]float64, 0, capacity)
	var timestamps []int64
	var heapSamples []int64
	var optSamples []int
	var pausePoints []bench.PausePoint

	if cfg.Options.TraceOpt {
		timestamps = make([]int64, 0, capacity)
	}
	heapSamples = make([]int64, 0, capacity)
	if cfg.Options.TraceOpt && cfg.OptProbe != nil {
		optSamples = make([]int, 0, capacity)
	}

	var heapBefore runtime.MemStats
	runtime.ReadMemStats(&heapBefore)
	heapUsedBefore := heapBefore.HeapAlloc

	loopStart := time.Now()
	var exclusion time.Duration
	count := 0

	pauseFirst := -1
	if cfg.Options.PauseFirst != nil {
		pauseFirst = *cfg.Options.PauseFirst
	}
	pauseInterval := cfg.Options.PauseInterval
	pauseDur := time.Duration(cfg.Options.PauseDurMS) * time.Millisecond

	for {
		elapsed := time.Since(loopStart) - exclusion

		if cfg.Options.MaxIterations > 0 && count >= cfg.Options.MaxIterations {
			break
		}
		if cfg.Options.MaxTimeMS > 0 && elapsed >= time.Duration(cfg.Options.MaxTimeMS)*time.Millisecond {
			break
		}

		t0 := time.Now()
		err := cfg.Fn(cfg.Param)
		t1 := time.Now()
		if err != nil {
			return bench.MeasuredResults{}, &bench.Error{
				Kind: bench.KindBenchmarkFailed, Name: cfg.Name,
				Message: err.Error(), Cause: err,
			}
		}

		samples = append(samples, float64(t1.Sub(t0))/float64(time.Millisecond))

		if timestamps != nil {
			timestamps = append(timestamps, t1.UnixMicro())
		}

		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		heapSamples = append(heapSamples, int64(ms.HeapAlloc))

		if optSamples != nil {
			tier, ok := cfg.OptProbe.Tier(0)
			if !ok {
				tier = -1
			}
			optSamples = append(optSamples, tier)
		}

		if cfg.Options.Collect {
			runtime.GC()
		}

		if shouldPause(count, pauseFirst, pauseInterval) {
			pausePoints = append(pausePoints, bench.PausePoint{
				SampleIndex: count,
				DurationMS:  float64(cfg.Options.PauseDurMS),
			})
			time.Sleep(pauseDur)
			exclusion += pauseDur
		}

		count++
	}

	if count == 0 {
		return bench.MeasuredResults{}, &bench.Error{Kind: bench.KindEmptySamples, Name: cfg.Name, Message: "measurement loop produced zero samples"}
	}

	var heapAfter runtime.MemStats
	runtime.ReadMemStats(&heapAfter)
	heapGrowth := int64(heapAfter.HeapAlloc) - int64(heapUsedBefore)
	if heapGrowth < 0 {
		heapGrowth = 0
	}
	heapGrowthKB := float64(heapGrowth) / 1024 / float64(count)

	result := bench.MeasuredResults{
		Name:          cfg.Name,
		Samples:       samples,
		WarmupSamples: warmupSamples,
		HeapSamples:   heapSamples,
		Timestamps:    timestamps,
		OptSamples:    optSamples,
		PausePoints:   pausePoints,
		TotalTimeS:    time.Since(loopStart).Seconds(),
		HeapGrowthKB:  heapGrowthKB,
	}
	result.Time = ComputeTimeStats(samples, cfg.Options.Adaptive)
	return result, nil
}

func runWarmup(cfg Config) []float64 {
	out := make([]float64, 0, cfg.Options.WarmupIters)
	for i := 0; i < cfg.Options.WarmupIters; i++ {
		t0 := time.Now()
		_ = cfg.Fn(cfg.Param)
		out = append(out, float64(time.Since(t0))/float64(time.Millisecond))
	}
	return out
}

// shouldPause implements the pause-scheduling rule: a pause triggers at
// iteration == pauseFirst (if set), and additionally whenever
// (iteration - (pauseFirst ?? 0)) mod pauseInterval == 0 with
// pauseInterval > 0. When pauseFirst is set but pauseInterval == 0,
// exactly one pause fires, at pauseFirst.
func shouldPause(iteration, pauseFirst, pauseInterval int) bool {
	if pauseFirst >= 0 && iteration == pauseFirst {
		return true
	}
	if pauseInterval <= 0 {
		return false
	}
	base := pauseFirst
	if base < 0 {
		base = 0
	}
	if iteration < base {
		return false
	}
	return (iteration-base)%pauseInterval == 0
}

// estimateCapacity sizes the arena to avoid mid-measurement reallocation
// distorting tail percentiles.
func estimateCapacity(opts bench.RunnerOptions) int {
	candidates := []int{}
	if opts.MaxIterations > 0 {
		candidates = append(candidates, opts.MaxIterations)
	}
	if opts.MaxTimeMS > 0 {
		candidates = append(candidates, int(math.Ceil(float64(opts.MaxTimeMS)/0.1)))
	}
	max := 16
	for _, c := range candidates {
		if c > max {
			max = c
		}
	}
	return max
}

// ComputeTimeStats fills in a bench.TimeStats block. The always-present
// fields are computed unconditionally; P25/P95/CV/MAD/OutlierRate are
// only computed when adaptive is true.
func ComputeTimeStats(samples []float64, adaptive bool) bench.TimeStats {
	ts := bench.TimeStats{
		Min:  stats.Min(samples),
		Max:  stats.Max(samples),
		Avg:  stats.Mean(samples),
		P50:  stats.Percentile(samples, 0.50),
		P75:  stats.Percentile(samples, 0.75),
		P99:  stats.Percentile(samples, 0.99),
		P999: stats.Percentile(samples, 0.999),
	}
	if adaptive {
		ts.P25 = stats.Percentile(samples, 0.25)
		ts.P95 = stats.Percentile(samples, 0.95)
		ts.CV = stats.CV(samples)
		ts.MAD = stats.MAD(samples)
		rate, _ := stats.Outliers(samples)
		ts.OutlierRate = rate
	}
	return ts
}
