package matrix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/feather-lang/benchharness/bench"
)

// descriptor is the on-disk shape of one file under a variantDir or a
// baseline_dir: a re-resolvable (module_path, export) pair, since Go
// cannot load an arbitrary file as a callable at runtime.
type descriptor struct {
	Name        string `yaml:"name"`
	ModulePath  string `yaml:"module_path"`
	Export      string `yaml:"export"`
	SetupExport string `yaml:"setup_export"`
}

// DiscoverVariants walks dir for ".yaml" variant descriptors.
func DiscoverVariants(dir string) ([]bench.Variant, error) {
	descs, err := walkDescriptors(dir)
	if err != nil {
		return nil, err
	}
	variants := make([]bench.Variant, 0, len(descs))
	for _, d := range descs {
		variants = append(variants, bench.Variant{
			Name:        d.Name,
			Kind:        bench.VariantDir,
			Dir:         dir,
			ModulePath:  d.ModulePath,
			Export:      d.Export,
			SetupExport: d.SetupExport,
		})
	}
	return variants, nil
}

// discoverBaseline resolves the single baseline descriptor matching
// variantName under baselineDir: for each variant that also exists in
// the baseline directory. A variant absent from the baseline directory
// has no baseline to attach.
func discoverBaseline(baselineDir, variantName string) (descriptor, bool, error) {
	descs, err := walkDescriptors(baselineDir)
	if err != nil {
		return descriptor{}, false, err
	}
	for _, d := range descs {
		if strings.EqualFold(d.Name, variantName) {
			return d, true, nil
		}
	}
	return descriptor{}, false, nil
}

func walkDescriptors(dir string) ([]descriptor, error) {
	var out []descriptor
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		var d descriptor
		if uerr := yaml.Unmarshal(data, &d); uerr != nil {
			return fmt.Errorf("parsing variant descriptor %s: %w", path, uerr)
		}
		if d.Name == "" {
			d.Name = strings.TrimSuffix(filepath.Base(path), ".yaml")
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
