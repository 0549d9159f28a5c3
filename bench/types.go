// Package bench holds the data model shared by every subsystem of the
// benchmark harness: the spec a user hands in, the options that steer
// the collector, and the result record every reporter consumes.
package bench

// Func is an in-process benchmark callable. It receives the (possibly
// nil) parameter produced by Setup, once per iteration, and returns an
// error if the iteration failed. Implementations must return promptly —
// there is no cooperative cancellation of a running iteration.
type Func func(param any) error

// SetupFunc runs once before the measured iterations and returns the
// state passed into Func on every call. A stateless benchmark omits it.
type SetupFunc func() (any, error)

// BenchmarkSpec is a named unit of measurable work. Exactly one of
// Callable or (ModulePath, Export) must be set — Callable for in-process
// runs, (ModulePath, Export) for a worker to re-resolve the function via
// the process-wide registry (see Register/Lookup).
type BenchmarkSpec struct {
	Name string

	// In-process path.
	Callable Func
	Setup    SetupFunc

	// Worker path: re-resolved inside the child via the registry.
	ModulePath  string
	Export      string
	SetupExport string

	// Param is passed once into each iteration when Setup is nil.
	Param any
}

// validate checks the "exactly one of callable or (module, export)" invariant.
func (b BenchmarkSpec) validate() error {
	hasCallable := b.Callable != nil
	hasRef := b.ModulePath != "" || b.Export != ""
	if hasCallable == hasRef {
		return NewError(KindConfigInvalid, b.Name,
			"exactly one of Callable or (ModulePath, Export) must be set")
	}
	if hasRef && (b.ModulePath == "" || b.Export == "") {
		return NewError(KindConfigInvalid, b.Name,
			"ModulePath and Export must both be set")
	}
	return nil
}

// BenchGroup is an ordered list of BenchmarkSpecs sharing a single setup
// step and an optional baseline compared against every member.
type BenchGroup struct {
	Name     string
	Setup    SetupFunc
	Baseline *BenchmarkSpec
	Members  []BenchmarkSpec
	// Batches is the batch count for alternating-order collection
	// (collector.CollectBatched takes it as an argument); nothing in this
	// module reads the field, and cmd/bench run collects each spec once.
	Batches int
}

// RunnerOptions are the tunables consumed by the collector. Zero value
// fields take the defaults noted inline.
type RunnerOptions struct {
	MaxTimeMS      int64 // soft wall-clock budget for measurement
	MaxIterations  int   // hard iteration cap
	WarmupIters    int   // untimed iterations before measurement
	SkipSettle     bool  // skip the post-warmup settle sleep
	Collect        bool  // force GC after each iteration
	PauseFirst     *int  // iteration index of the first scheduled pause; nil = no pause at a fixed index
	PauseInterval  int   // pause every N iterations after PauseFirst (after iteration 0 when PauseFirst is nil)
	PauseDurMS     int64 // duration of each scheduled pause
	TraceOpt       bool  // record per-sample optimization-tier status
	GCStats        bool  // enable GC-trace capture in the worker child
	Adaptive       bool  // enable the adaptive controller
	MinTimeMS      int64 // adaptive: minimum elapsed before fallback-confidence stop
	TargetConf     int   // adaptive: target confidence 0..100
}

// Validate enforces the ConfigInvalid conditions that are detectable
// from options alone (conflicting matrix baseline fields are checked in
// package matrix).
func (o RunnerOptions) Validate() error {
	if o.MaxTimeMS <= 0 && o.MaxIterations <= 0 {
		return NewError(KindConfigInvalid, "", "one of MaxTimeMS or MaxIterations must be set")
	}
	return nil
}

// VariantKind discriminates the two shapes a matrix Variant can take —
// a tagged union rather than structural detection.
type VariantKind int

const (
	VariantInline VariantKind = iota
	VariantDir
)

// Variant is one axis of a BenchMatrix: the code under test.
type Variant struct {
	Name string
	Kind VariantKind

	// VariantInline
	Run   Func
	Setup SetupFunc

	// VariantDir: a directory of modules, one per variant, resolved by
	// the worker via ModulePath/Export on each (variant, case) run.
	Dir         string
	ModulePath  string
	Export      string
	SetupExport string
}

// Case is the other axis of a BenchMatrix: the input under test.
type Case struct {
	Name string
	// Data is the inline literal value, when the matrix's cases are not
	// loaded from a module.
	Data any
}
