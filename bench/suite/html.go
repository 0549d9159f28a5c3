// Package suite parses the three declarative, file-based definitions
// this repo adds on top of the in-process bench.BenchGroup/BenchMatrix
// data structures: an HTML-ish benchmark-suite dialect, an XML
// case-suite dialect, and a YAML matrix manifest. Each format mirrors
// one of harness's existing parsers one-for-one, repurposed from
// differential-testing inputs to benchmark definitions.
package suite

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/feather-lang/benchharness/bench"
)

// Definition is the parsed shape of a "<benchmark-suite>" document: a
// BenchGroup plus the RunnerOptions overrides the file carried at the
// suite level.
type Definition struct {
	Group   bench.BenchGroup
	Options bench.RunnerOptions
}

// ParseSuiteFile parses a benchmark-suite document from path. Grounded
// on benchmark_parser.go's ParseBenchmarkFile.
func ParseSuiteFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	def, err := ParseSuite(f)
	if err != nil {
		return nil, err
	}
	if def.Group.Name == "" {
		base := filepath.Base(path)
		def.Group.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return def, nil
}

// ParseSuite parses a benchmark-suite document of the form:
//
//	<benchmark-suite name="..." warmup="5" iterations="1000" max-time-ms="2000">
//	  <baseline name="..." module-path="..." export="..."/>
//	  <benchmark name="..." module-path="..." export="..." setup-export="..."/>
//	  ...
//	</benchmark-suite>
//
// Grounded on benchmark_parser.go's ParseBenchmark: same html.Parse +
// recursive element walk, generalized from a flat Benchmarks slice to a
// BenchGroup with an optional baseline.
func ParseSuite(r io.Reader) (*Definition, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	def := &Definition{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "benchmark-suite":
				applySuiteAttrs(n, def)
			case "baseline":
				spec := parseBenchmarkElement(n)
				def.Group.Baseline = &spec
			case "benchmark":
				def.Group.Members = append(def.Group.Members, parseBenchmarkElement(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return def, nil
}

func applySuiteAttrs(n *html.Node, def *Definition) {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "name":
			def.Group.Name = attr.Val
		case "warmup":
			if v, err := strconv.Atoi(attr.Val); err == nil {
				def.Options.WarmupIters = v
			}
		case "iterations":
			if v, err := strconv.Atoi(attr.Val); err == nil {
				def.Options.MaxIterations = v
			}
		case "max-time-ms":
			if v, err := strconv.ParseInt(attr.Val, 10, 64); err == nil {
				def.Options.MaxTimeMS = v
			}
		case "batches":
			if v, err := strconv.Atoi(attr.Val); err == nil {
				def.Group.Batches = v
			}
		}
	}
}

func parseBenchmarkElement(n *html.Node) bench.BenchmarkSpec {
	var spec bench.BenchmarkSpec
	for _, attr := range n.Attr {
		switch attr.Key {
		case "name":
			spec.Name = attr.Val
		case "module-path":
			spec.ModulePath = attr.Val
		case "export":
			spec.Export = attr.Val
		case "setup-export":
			spec.SetupExport = attr.Val
		}
	}
	return spec
}
