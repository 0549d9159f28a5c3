package suite

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/feather-lang/benchharness/bench"
)

// xmlCaseSuite mirrors parser.go's xmlTestSuite shape one-for-one,
// repurposed from test expectations to benchmark case inputs.
type xmlCaseSuite struct {
	XMLName xml.Name  `xml:"case-suite"`
	Cases   []xmlCase `xml:"case"`
}

type xmlCase struct {
	Name        string `xml:"name,attr"`
	Data        string `xml:"data"`
	CaseDataRef string `xml:"case-data-ref"`
}

// CaseSuite is the parsed shape of a "<case-suite>" document.
type CaseSuite struct {
	Cases []bench.Case
}

// ParseCaseFile parses a case-suite document from path. Grounded on
// parser.go's ParseFile.
func ParseCaseFile(path string) (*CaseSuite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses a case-suite document of the form:
//
//	<case-suite>
//	  <case name="small"><data>42</data></case>
//	  <case name="large"><case-data-ref>large-input</case-data-ref></case>
//	</case-suite>
//
// A <case> with an inline <data> element carries that literal value
// (as a string — callers that need a richer type decode it themselves).
// A <case> with <case-data-ref> instead leaves Data nil: the matrix's
// CasesModule resolves it by the case's Name at run time (see
// bench/matrix.RegisterCase). Mirrors parser.go's xml.Decoder.Decode
// one-for-one, repurposed from test-result expectations to benchmark
// input data.
func Parse(r io.Reader) (*CaseSuite, error) {
	var xs xmlCaseSuite
	if err := xml.NewDecoder(r).Decode(&xs); err != nil {
		return nil, err
	}

	cs := &CaseSuite{Cases: make([]bench.Case, 0, len(xs.Cases))}
	for _, xc := range xs.Cases {
		data := strings.TrimSpace(xc.Data)

		c := bench.Case{Name: xc.Name}
		if data != "" {
			c.Data = data
		}
		cs.Cases = append(cs.Cases, c)
	}
	return cs, nil
}
