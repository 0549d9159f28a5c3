package matrix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/feather-lang/benchharness/bench"
)

func inlineVariant(name string, ms float64) bench.Variant {
	return bench.Variant{
		Name: name,
		Kind: bench.VariantInline,
		Run: func(param any) error {
			return nil
		},
	}
}

func opts() bench.RunnerOptions {
	return bench.RunnerOptions{MaxIterations: 5}
}

func TestRunInlineVariantsCrossProduct(t *testing.T) {
	m := bench.BenchMatrix{
		Name:     "m",
		Variants: []bench.Variant{inlineVariant("a", 1), inlineVariant("b", 2)},
		Cases:    []bench.Case{{Name: "x"}, {Name: "y"}},
		Options:  opts(),
	}

	results, err := (Runner{}).Run(m)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4 (2 variants x 2 cases)", len(results))
	}
}

func TestRunFilterNoMatch(t *testing.T) {
	m := bench.BenchMatrix{
		Name:     "m",
		Variants: []bench.Variant{inlineVariant("a", 1)},
		Cases:    []bench.Case{{Name: "x"}},
		Filter:   "nonexistent",
		Options:  opts(),
	}

	_, err := (Runner{}).Run(m)
	if err == nil {
		t.Fatal("expected a FilterNoMatch error")
	}
	var benchErr *bench.Error
	if !errors.As(err, &benchErr) {
		t.Fatalf("expected *bench.Error, got %T", err)
	}
	if benchErr.Kind != bench.KindFilterNoMatch {
		t.Errorf("kind = %v, want FilterNoMatch", benchErr.Kind)
	}
}

func TestRunFilterSubstringCaseInsensitive(t *testing.T) {
	m := bench.BenchMatrix{
		Name:     "m",
		Variants: []bench.Variant{inlineVariant("FastPath", 1), inlineVariant("SlowPath", 2)},
		Cases:    []bench.Case{{Name: "small"}, {Name: "large"}},
		Filter:   "/fast",
		Options:  opts(),
	}

	results, err := (Runner{}).Run(m)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, r := range results {
		if r.Variant != "FastPath" {
			t.Errorf("unexpected variant %q survived the /fast filter", r.Variant)
		}
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2 (1 variant x 2 cases)", len(results))
	}
}

func TestRunBaselineVariantAttachesDelta(t *testing.T) {
	m := bench.BenchMatrix{
		Name: "m",
		Variants: []bench.Variant{
			inlineVariant("base", 1),
			inlineVariant("candidate", 1),
		},
		Cases:           []bench.Case{{Name: "x"}},
		BaselineVariant: "base",
		Options:         opts(),
	}

	results, err := (Runner{}).Run(m)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var baseRow, candidateRow *bench.MatrixCaseResult
	for i := range results {
		switch results[i].Variant {
		case "base":
			baseRow = &results[i]
		case "candidate":
			candidateRow = &results[i]
		}
	}
	if baseRow == nil || candidateRow == nil {
		t.Fatal("expected one row per variant")
	}
	if baseRow.HasBaseline {
		t.Error("the baseline variant's own row must carry no baseline")
	}
	if !candidateRow.HasBaseline {
		t.Error("the candidate row should have the baseline attached")
	}
}

func TestValidateRejectsBothBaselineFields(t *testing.T) {
	m := bench.BenchMatrix{BaselineDir: "x", BaselineVariant: "y"}
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error when both baseline fields are set")
	}
}

func TestValidateRejectsInlineWithBaselineDir(t *testing.T) {
	m := bench.BenchMatrix{
		Variants:    []bench.Variant{inlineVariant("a", 1)},
		BaselineDir: "somedir",
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error: inline variants are incompatible with baseline_dir")
	}
}

func TestDiscoverVariantsWalksYAMLDescriptors(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, filepath.Join(dir, "fast.yaml"), "name: fast\nmodule_path: example.com/bench\nexport: Fast\n")
	writeYAML(t, filepath.Join(dir, "slow.yaml"), "name: slow\nmodule_path: example.com/bench\nexport: Slow\n")
	writeYAML(t, filepath.Join(dir, "notes.txt"), "ignore me")

	variants, err := DiscoverVariants(dir)
	if err != nil {
		t.Fatalf("DiscoverVariants failed: %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(variants))
	}
	for _, v := range variants {
		if v.Kind != bench.VariantDir {
			t.Errorf("variant %q: kind = %v, want VariantDir", v.Name, v.Kind)
		}
		if v.ModulePath == "" || v.Export == "" {
			t.Errorf("variant %q missing ModulePath/Export", v.Name)
		}
	}
}

func TestRunCasesModuleMissingRegistrationErrors(t *testing.T) {
	m := bench.BenchMatrix{
		Name:        "m",
		Variants:    []bench.Variant{inlineVariant("a", 1)},
		Cases:       []bench.Case{{Name: "unregistered"}},
		CasesModule: "example.com/cases",
		Options:     opts(),
	}

	_, err := (Runner{}).Run(m)
	if err == nil {
		t.Fatal("expected an error for a case with no registered data")
	}
	var benchErr *bench.Error
	if !errors.As(err, &benchErr) {
		t.Fatalf("expected *bench.Error, got %T", err)
	}
	if benchErr.Kind != bench.KindConfigInvalid {
		t.Errorf("kind = %v, want KindConfigInvalid", benchErr.Kind)
	}
}

func TestRunCasesModuleResolvesRegisteredData(t *testing.T) {
	RegisterCase("example.com/cases2", "registered", 42)

	var gotParam any
	v := bench.Variant{
		Name: "a",
		Kind: bench.VariantInline,
		Run: func(param any) error {
			gotParam = param
			return nil
		},
	}
	m := bench.BenchMatrix{
		Name:        "m",
		Variants:    []bench.Variant{v},
		Cases:       []bench.Case{{Name: "registered"}},
		CasesModule: "example.com/cases2",
		Options:     opts(),
	}

	_, err := (Runner{}).Run(m)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if gotParam != 42 {
		t.Errorf("param = %v, want 42", gotParam)
	}
}

func TestFilterParsingEitherHalfOptional(t *testing.T) {
	f := parseFilter("foo/bar")
	if f.casePattern != "foo" || f.variantPattern != "bar" {
		t.Errorf("parseFilter(foo/bar) = %+v", f)
	}
	f = parseFilter("foo")
	if f.casePattern != "foo" || f.variantPattern != "" {
		t.Errorf("parseFilter(foo) = %+v", f)
	}
	f = parseFilter("/bar")
	if f.casePattern != "" || f.variantPattern != "bar" {
		t.Errorf("parseFilter(/bar) = %+v", f)
	}
}

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
