package bench

// BenchMatrix is a named collection of variants (the things under test)
// crossed with cases (the inputs). Exactly one of BaselineDir or
// BaselineVariant may be set; never both.
type BenchMatrix struct {
	Name     string
	Variants []Variant
	Cases    []Case

	// CasesModule, when set, loads case data per identifier rather than
	// using Case.Data inline.
	CasesModule string

	BaselineDir     string // per-variant baseline modules
	BaselineVariant string // one variant is the reference for the others

	Filter           string // "case/variant", either half optional
	FilteredCases    []string
	FilteredVariants []string

	Options RunnerOptions
}

// Validate enforces the ConfigInvalid conditions that are detectable
// from the matrix definition alone.
func (m BenchMatrix) Validate() error {
	if m.BaselineDir != "" && m.BaselineVariant != "" {
		return NewError(KindConfigInvalid, m.Name, "baseline_dir and baseline_variant are mutually exclusive")
	}
	for _, v := range m.Variants {
		if v.Kind == VariantInline && m.BaselineDir != "" {
			return NewError(KindConfigInvalid, m.Name,
				"inline variants are incompatible with baseline_dir: it requires re-resolvable modules")
		}
	}
	return nil
}

// MatrixCaseResult is one (variant, case) cell of a matrix run.
type MatrixCaseResult struct {
	Variant      string
	Case         string
	Results      MeasuredResults
	Baseline     *MeasuredResults
	DeltaPercent float64
	HasBaseline  bool
}
