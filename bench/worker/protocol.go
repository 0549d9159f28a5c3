// Package worker executes a single benchmark in an isolated child
// process, so that one benchmark cannot poison another's measurements
// through shared caches, allocation arenas, or runtime state.
package worker

import "github.com/feather-lang/benchharness/bench"

// RunMessage is sent once from parent to child.
type RunMessage struct {
	Type    string              `json:"type"` // always "run"
	Spec    WireSpec            `json:"spec"`
	Options bench.RunnerOptions `json:"options"`
	Params  any                 `json:"params,omitempty"`
}

// WireSpec is the over-the-wire shape of a BenchmarkSpec: a callable
// cannot cross a process boundary in Go, so only the re-resolvable
// module-path form is ever sent.
type WireSpec struct {
	Name        string `json:"name"`
	ModulePath  string `json:"module_path"`
	Export      string `json:"export_name"`
	SetupExport string `json:"setup_export_name,omitempty"`

	VariantDir  string `json:"variant_dir,omitempty"`
	VariantID   string `json:"variant_id,omitempty"`
	CaseID      string `json:"case_id,omitempty"`
	CaseData    any    `json:"case_data,omitempty"`
	CasesModule string `json:"cases_module,omitempty"`
}

// ResultMessage is the child's success reply.
type ResultMessage struct {
	Type        string                  `json:"type"` // always "result"
	Results     []bench.MeasuredResults `json:"results"`
	HeapProfile *bench.HeapProfile      `json:"heap_profile,omitempty"`
}

// ErrorMessage is the child's failure reply.
type ErrorMessage struct {
	Type  string `json:"type"` // always "error"
	Error string `json:"error"`
	Stack string `json:"stack,omitempty"`
}
