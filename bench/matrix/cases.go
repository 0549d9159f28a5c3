package matrix

import (
	"fmt"

	"github.com/feather-lang/benchharness/bench"
)

// caseRegistry mirrors bench.Register's resolution strategy for the
// other half of a BenchMatrix: when CasesModule is set, a case's data
// is loaded by identifier rather than carried inline in Case.Data.
var caseRegistry = map[string]any{}

// RegisterCase associates data with a (casesModule, caseID) pair so a
// matrix whose Cases only carry identifiers can resolve the payload at
// run time.
func RegisterCase(casesModule, caseID string, data any) {
	caseRegistry[casesModule+"#"+caseID] = data
}

func resolveCaseData(m bench.BenchMatrix, c bench.Case) (any, error) {
	if m.CasesModule == "" {
		return c.Data, nil
	}
	key := m.CasesModule + "#" + c.Name
	data, ok := caseRegistry[key]
	if !ok {
		return nil, bench.NewError(bench.KindConfigInvalid, c.Name,
			fmt.Sprintf("no case data registered for %q", key))
	}
	return data, nil
}
