package suite

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/feather-lang/benchharness/bench"
	"github.com/feather-lang/benchharness/bench/matrix"
)

// yamlMatrix is the on-disk shape of a benchmark-matrix manifest: a thin
// struct decoded straight off yaml.Unmarshal.
type yamlMatrix struct {
	Name             string        `yaml:"name"`
	Variants         []yamlVariant `yaml:"variants"`
	Cases            []yamlCase    `yaml:"cases"`
	CasesModule      string        `yaml:"cases_module"`
	BaselineDir      string        `yaml:"baseline_dir"`
	BaselineVariant  string        `yaml:"baseline_variant"`
	Filter           string        `yaml:"filter"`
	FilteredCases    []string      `yaml:"filtered_cases"`
	FilteredVariants []string      `yaml:"filtered_variants"`
	Options          yamlOptions   `yaml:"options"`
}

type yamlVariant struct {
	Name        string `yaml:"name"`
	ModulePath  string `yaml:"module_path"`
	Export      string `yaml:"export"`
	SetupExport string `yaml:"setup_export"`
	Dir         string `yaml:"dir"` // directory of variant descriptors, see bench/matrix.DiscoverVariants
}

type yamlCase struct {
	Name string `yaml:"name"`
	Data any    `yaml:"data"`
}

type yamlOptions struct {
	MaxTimeMS     int64 `yaml:"max_time_ms"`
	MaxIterations int   `yaml:"max_iterations"`
	WarmupIters   int   `yaml:"warmup_iterations"`
	Adaptive      bool  `yaml:"adaptive"`
	GCStats       bool  `yaml:"gc_stats"`
	TraceOpt      bool  `yaml:"trace_opt"`
}

// LoadMatrixFile loads a BenchMatrix from a YAML manifest, expanding
// each "dir"-style variant entry via bench/matrix.DiscoverVariants,
// since Go has no dynamic module loader to resolve an arbitrary
// directory path into callables on its own.
func LoadMatrixFile(path string) (*bench.BenchMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading matrix file %s: %w", path, err)
	}

	var ym yamlMatrix
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("parsing matrix file %s: %w", path, err)
	}

	base := filepath.Dir(path)

	m := bench.BenchMatrix{
		Name:             ym.Name,
		CasesModule:      ym.CasesModule,
		BaselineDir:      resolveRelative(base, ym.BaselineDir),
		BaselineVariant:  ym.BaselineVariant,
		Filter:           ym.Filter,
		FilteredCases:    ym.FilteredCases,
		FilteredVariants: ym.FilteredVariants,
		Options: bench.RunnerOptions{
			MaxTimeMS:     ym.Options.MaxTimeMS,
			MaxIterations: ym.Options.MaxIterations,
			WarmupIters:   ym.Options.WarmupIters,
			Adaptive:      ym.Options.Adaptive,
			GCStats:       ym.Options.GCStats,
			TraceOpt:      ym.Options.TraceOpt,
		},
	}

	for _, c := range ym.Cases {
		m.Cases = append(m.Cases, bench.Case{Name: c.Name, Data: c.Data})
	}

	for _, v := range ym.Variants {
		if v.Dir != "" {
			discovered, err := matrix.DiscoverVariants(resolveRelative(base, v.Dir))
			if err != nil {
				return nil, fmt.Errorf("discovering variants under %s: %w", v.Dir, err)
			}
			m.Variants = append(m.Variants, discovered...)
			continue
		}
		m.Variants = append(m.Variants, bench.Variant{
			Name:        v.Name,
			Kind:        bench.VariantDir,
			ModulePath:  v.ModulePath,
			Export:      v.Export,
			SetupExport: v.SetupExport,
		})
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func resolveRelative(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
