package matrix

import (
	"strings"

	"github.com/feather-lang/benchharness/bench"
)

// parsedFilter splits a "case/variant" filter string into its two
// case-insensitive substring patterns; either half may be empty,
// meaning "match everything" on that axis.
type parsedFilter struct {
	casePattern    string
	variantPattern string
}

func parseFilter(filter string) parsedFilter {
	if filter == "" {
		return parsedFilter{}
	}
	casePart, variantPart, _ := strings.Cut(filter, "/")
	return parsedFilter{
		casePattern:    strings.ToLower(casePart),
		variantPattern: strings.ToLower(variantPart),
	}
}

func (f parsedFilter) matchesCase(name string) bool {
	return f.casePattern == "" || strings.Contains(strings.ToLower(name), f.casePattern)
}

func (f parsedFilter) matchesVariant(name string) bool {
	return f.variantPattern == "" || strings.Contains(strings.ToLower(name), f.variantPattern)
}

// selectCases resolves the final set of cases to run: the filter match
// intersected with any pre-existing FilteredCases allowlist.
func selectCases(cases []bench.Case, f parsedFilter, allow []string) []bench.Case {
	var out []bench.Case
	for _, c := range cases {
		if !f.matchesCase(c.Name) {
			continue
		}
		if len(allow) > 0 && !containsFold(allow, c.Name) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func selectVariants(variants []bench.Variant, f parsedFilter, allow []string) []bench.Variant {
	var out []bench.Variant
	for _, v := range variants {
		if !f.matchesVariant(v.Name) {
			continue
		}
		if len(allow) > 0 && !containsFold(allow, v.Name) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func containsFold(list []string, name string) bool {
	for _, s := range list {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
