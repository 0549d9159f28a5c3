// Package matrix runs a variants × cases cross product: every variant
// is measured against every case, optionally compared against a
// baseline.
package matrix

import (
	"fmt"

	"github.com/feather-lang/benchharness/bench"
	"github.com/feather-lang/benchharness/bench/collector"
	"github.com/feather-lang/benchharness/bench/worker"
)

// Runner executes a BenchMatrix. Orchestrator is used for every
// VariantDir cell and every baseline_dir lookup, both of which must run
// in a fresh worker process; VariantInline cells run directly with the
// in-process collector.
type Runner struct {
	Orchestrator worker.Orchestrator
}

// Run executes every (variant, case) cell surviving the matrix's filter,
// attaching baseline comparisons.
func (r Runner) Run(m bench.BenchMatrix) ([]bench.MatrixCaseResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	f := parseFilter(m.Filter)
	cases := selectCases(m.Cases, f, m.FilteredCases)
	variants := selectVariants(m.Variants, f, m.FilteredVariants)

	if len(cases) == 0 || len(variants) == 0 {
		return nil, bench.NewError(bench.KindFilterNoMatch, m.Name,
			fmt.Sprintf("filter %q matched no cases/variants to run", m.Filter))
	}

	var results []bench.MatrixCaseResult
	for _, v := range variants {
		for _, c := range cases {
			cell, err := r.runCell(m, v, c)
			if err != nil {
				return nil, err
			}

			if m.BaselineDir != "" {
				base, ok, err := r.runBaselineDir(m, v, c)
				if err != nil {
					return nil, err
				}
				if ok {
					cell.Baseline = &base
					cell.HasBaseline = true
					cell.DeltaPercent = deltaPercent(cell.Results, base)
				}
			}

			results = append(results, cell)
		}
	}

	if m.BaselineVariant != "" {
		attachBaselineVariant(results, m.BaselineVariant)
	}

	return results, nil
}

func (r Runner) runCell(m bench.BenchMatrix, v bench.Variant, c bench.Case) (bench.MatrixCaseResult, error) {
	name := fmt.Sprintf("%s/%s", v.Name, c.Name)
	data, err := resolveCaseData(m, c)
	if err != nil {
		return bench.MatrixCaseResult{}, err
	}

	var measured bench.MeasuredResults

	switch v.Kind {
	case bench.VariantInline:
		measured, err = collector.Collect(collector.Config{
			Name:    name,
			Fn:      v.Run,
			Param:   data,
			Options: m.Options,
		})
	case bench.VariantDir:
		var results []bench.MeasuredResults
		results, _, err = r.Orchestrator.Run(worker.WireSpec{
			Name:        name,
			ModulePath:  v.ModulePath,
			Export:      v.Export,
			SetupExport: v.SetupExport,
			VariantDir:  v.Dir,
			VariantID:   v.Name,
			CaseID:      c.Name,
			CaseData:    data,
			CasesModule: m.CasesModule,
		}, m.Options, nil)
		if err == nil && len(results) > 0 {
			measured = results[0]
		}
	default:
		err = bench.NewError(bench.KindConfigInvalid, v.Name, "unrecognized variant kind")
	}

	if err != nil {
		return bench.MatrixCaseResult{}, err
	}
	return bench.MatrixCaseResult{Variant: v.Name, Case: c.Name, Results: measured}, nil
}

func (r Runner) runBaselineDir(m bench.BenchMatrix, v bench.Variant, c bench.Case) (bench.MeasuredResults, bool, error) {
	d, found, err := discoverBaseline(m.BaselineDir, v.Name)
	if err != nil {
		return bench.MeasuredResults{}, false, err
	}
	if !found {
		return bench.MeasuredResults{}, false, nil
	}

	data, err := resolveCaseData(m, c)
	if err != nil {
		return bench.MeasuredResults{}, false, err
	}

	name := fmt.Sprintf("%s/%s (baseline)", v.Name, c.Name)
	results, _, err := r.Orchestrator.Run(worker.WireSpec{
		Name:        name,
		ModulePath:  d.ModulePath,
		Export:      d.Export,
		SetupExport: d.SetupExport,
		VariantDir:  m.BaselineDir,
		VariantID:   v.Name,
		CaseID:      c.Name,
		CaseData:    data,
		CasesModule: m.CasesModule,
	}, m.Options, nil)
	if err != nil {
		return bench.MeasuredResults{}, false, err
	}
	if len(results) == 0 {
		return bench.MeasuredResults{}, false, nil
	}
	return results[0], true, nil
}

// attachBaselineVariant implements the baseline_variant comparison
// mode: one variant's results serve as baseline for every other variant
// sharing the same case. The baseline variant's own rows keep no
// baseline.
func attachBaselineVariant(results []bench.MatrixCaseResult, baselineVariant string) {
	baselineByCase := make(map[string]bench.MeasuredResults)
	for _, r := range results {
		if r.Variant == baselineVariant {
			baselineByCase[r.Case] = r.Results
		}
	}
	for i := range results {
		if results[i].Variant == baselineVariant {
			continue
		}
		base, ok := baselineByCase[results[i].Case]
		if !ok {
			continue
		}
		results[i].Baseline = &base
		results[i].HasBaseline = true
		results[i].DeltaPercent = deltaPercent(results[i].Results, base)
	}
}

// deltaPercent computes the percentage delta:
// (avg(current) - avg(baseline)) / avg(baseline) * 100, with 0 when
// avg(baseline) is 0.
func deltaPercent(current, baseline bench.MeasuredResults) float64 {
	if baseline.Time.Avg == 0 {
		return 0
	}
	return (current.Time.Avg - baseline.Time.Avg) / baseline.Time.Avg * 100
}
