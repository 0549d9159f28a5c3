package collector

import "github.com/feather-lang/benchharness/bench"

// CollectBatched splits a group's total time budget across N batches and
// alternates the (baseline, benchmark) collection order each batch to
// cancel systematic drift: batch 1 runs baseline-first, batch 2 runs
// the benchmark first, and so on. Merging batches concatenates samples
// and shifts PausePoints.SampleIndex by the cumulative offset.
func CollectBatched(baselineCfg, benchCfg Config, batches int) (baseline, candidate bench.MeasuredResults, err error) {
	if batches < 1 {
		batches = 1
	}

	splitOptions := func(o bench.RunnerOptions) bench.RunnerOptions {
		if o.MaxTimeMS > 0 {
			o.MaxTimeMS = (o.MaxTimeMS + int64(batches) - 1) / int64(batches)
		}
		if o.MaxIterations > 0 {
			o.MaxIterations = (o.MaxIterations + batches - 1) / batches
			if o.MaxIterations < 1 {
				o.MaxIterations = 1
			}
		}
		return o
	}

	baselineCfg.Options = splitOptions(baselineCfg.Options)
	benchCfg.Options = splitOptions(benchCfg.Options)

	var baselineBatches, benchBatches []bench.MeasuredResults

	for i := 0; i < batches; i++ {
		// Warmup/settle only on the first batch for each side; later
		// batches skip it, since the runtime is already warmed.
		bCfg := baselineCfg
		cCfg := benchCfg
		if i > 0 {
			bCfg.SkipWarmup = true
			cCfg.SkipWarmup = true
		}

		if i%2 == 0 {
			// baseline-first
			br, e := Collect(bCfg)
			if e != nil {
				return bench.MeasuredResults{}, bench.MeasuredResults{}, e
			}
			cr, e := Collect(cCfg)
			if e != nil {
				return bench.MeasuredResults{}, bench.MeasuredResults{}, e
			}
			baselineBatches = append(baselineBatches, br)
			benchBatches = append(benchBatches, cr)
		} else {
			// benchmark-first
			cr, e := Collect(cCfg)
			if e != nil {
				return bench.MeasuredResults{}, bench.MeasuredResults{}, e
			}
			br, e := Collect(bCfg)
			if e != nil {
				return bench.MeasuredResults{}, bench.MeasuredResults{}, e
			}
			baselineBatches = append(baselineBatches, br)
			benchBatches = append(benchBatches, cr)
		}
	}

	return Merge(baselineBatches...), Merge(benchBatches...), nil
}

// Merge concatenates N batches of MeasuredResults from the same
// benchmark into one, shifting PausePoints.SampleIndex by the cumulative
// sample offset as it goes. The merged sample length equals the sum of
// the input lengths.
func Merge(batches ...bench.MeasuredResults) bench.MeasuredResults {
	if len(batches) == 0 {
		return bench.MeasuredResults{}
	}
	if len(batches) == 1 {
		return batches[0]
	}

	merged := bench.MeasuredResults{Name: batches[0].Name}
	offset := 0
	for _, b := range batches {
		merged.Samples = append(merged.Samples, b.Samples...)
		merged.WarmupSamples = append(merged.WarmupSamples, b.WarmupSamples...)
		merged.HeapSamples = append(merged.HeapSamples, b.HeapSamples...)
		merged.Timestamps = append(merged.Timestamps, b.Timestamps...)
		merged.OptSamples = append(merged.OptSamples, b.OptSamples...)
		for _, p := range b.PausePoints {
			merged.PausePoints = append(merged.PausePoints, bench.PausePoint{
				SampleIndex: p.SampleIndex + offset,
				DurationMS:  p.DurationMS,
			})
		}
		merged.TotalTimeS += b.TotalTimeS
		offset += len(b.Samples)
	}
	merged.Time = ComputeTimeStats(merged.Samples, true)
	return merged
}
