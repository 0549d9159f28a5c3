package bench

// TimeStats holds the percentile block of a MeasuredResults. Min/Max/Avg/
// P50/P75/P99/P999 are always populated; P25/P95/CV/MAD/OutlierRate are
// populated when the adaptive controller (or a caller that wants the
// fuller picture) requests them.
type TimeStats struct {
	Min  float64
	Max  float64
	Avg  float64
	P25  float64
	P50  float64
	P75  float64
	P95  float64
	P99  float64
	P999 float64

	CV          float64
	MAD         float64
	OutlierRate float64
}

// PausePoint records one scheduled pause injected during measurement.
type PausePoint struct {
	SampleIndex int
	DurationMS  float64
}

// GCStats is the aggregated output of bench/gctrace, attached to a
// MeasuredResults when RunnerOptions.GCStats is set.
type GCStats struct {
	Scavenges       int
	MarkCompacts    int
	TotalCollected  int64
	GCPauseTimeMS   float64
	TotalAllocated  *int64
	TotalPromoted   *int64
	TotalSurvived   *int64
}

// HeapProfile is an opaque payload produced by an optional external
// heap sampler (bench/profhook.HeapSampler); this harness does not
// interpret its contents.
type HeapProfile struct {
	Format string
	Data   []byte
}

// Convergence is written once at the end of an adaptive run and never
// mutated thereafter.
type Convergence struct {
	Converged  bool
	Confidence int // 0..100
	Reason     string
}

// MeasuredResults is the canonical record a benchmark produces.
//
// Invariants: len(Samples) > 0; Time.Min <= Time.P50 <= Time.P99 <=
// Time.Max; percentiles are monotonically non-decreasing; every
// PausePoint.SampleIndex < len(Samples); if Timestamps is non-nil it has
// the same length as Samples.
type MeasuredResults struct {
	Name    string
	Samples []float64 // ms per iteration, insertion order
	Time    TimeStats

	WarmupSamples []float64
	HeapSamples   []int64   // used-heap bytes, one per sample
	Timestamps    []int64   // wall-clock microseconds, one per sample
	OptSamples    []int     // per-sample optimization-tier codes
	PausePoints   []PausePoint
	GCStats       *GCStats
	HeapProfile   *HeapProfile
	Convergence   *Convergence
	TotalTimeS    float64

	// HeapGrowthKB is the amortized heap-growth estimate per sample, in
	// KB, reported as a single scalar rather than three equal values.
	HeapGrowthKB float64
}

// DifferenceCI is produced by bench/compare: the bootstrap confidence
// interval on the percentage change of candidate vs baseline.
type DifferenceCI struct {
	Percent   float64
	CILower   float64
	CIUpper   float64
	Direction Direction
	Histogram []HistogramBin // optional, 30 bins by default
}

// Direction classifies a DifferenceCI against zero.
type Direction int

const (
	DirectionUncertain Direction = iota
	DirectionFaster
	DirectionSlower
)

func (d Direction) String() string {
	switch d {
	case DirectionFaster:
		return "faster"
	case DirectionSlower:
		return "slower"
	default:
		return "uncertain"
	}
}

// HistogramBin is one equal-width bin of the resample distribution.
type HistogramBin struct {
	Midpoint float64
	Count    int
}
