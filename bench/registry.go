package bench

import "fmt"

// registry backs the strategy for shipping a benchmark to a worker
// process: Go cannot serialize a closure to source text and re-evaluate
// it in a child process, so a
// BenchmarkSpec that crosses the worker boundary carries a stable
// (ModulePath, Export) pair instead, and the child resolves it here.
//
// ModulePath is a caller-chosen namespace (typically a Go import path)
// and Export a name within it; the pair must be registered by an init()
// in the same binary that the worker re-execs, since there is no
// separate loader process.
var registry = map[string]Func{}
var setupRegistry = map[string]SetupFunc{}

func key(modulePath, export string) string { return modulePath + "#" + export }

// Register associates a callable with a (modulePath, export) pair so
// that a worker child — a re-exec of the same binary — can resolve it
// from a BenchmarkSpec that crossed the process boundary.
func Register(modulePath, export string, fn Func) {
	registry[key(modulePath, export)] = fn
}

// RegisterSetup associates a setup function the same way.
func RegisterSetup(modulePath, export string, fn SetupFunc) {
	setupRegistry[key(modulePath, export)] = fn
}

// Lookup resolves a previously Registered callable.
func Lookup(modulePath, export string) (Func, error) {
	fn, ok := registry[key(modulePath, export)]
	if !ok {
		return nil, fmt.Errorf("bench: no callable registered for %s#%s", modulePath, export)
	}
	return fn, nil
}

// LookupSetup resolves a previously RegisterSetup'd setup function.
func LookupSetup(modulePath, export string) (SetupFunc, error) {
	if export == "" {
		return nil, nil
	}
	fn, ok := setupRegistry[key(modulePath, export)]
	if !ok {
		return nil, fmt.Errorf("bench: no setup registered for %s#%s", modulePath, export)
	}
	return fn, nil
}

// Resolve turns a BenchmarkSpec that may reference a registered
// (ModulePath, Export) pair into a concrete Func + SetupFunc, leaving an
// already-inline spec untouched.
func (b BenchmarkSpec) Resolve() (Func, SetupFunc, error) {
	if b.Callable != nil {
		return b.Callable, b.Setup, nil
	}
	if err := b.validate(); err != nil {
		return nil, nil, err
	}
	fn, err := Lookup(b.ModulePath, b.Export)
	if err != nil {
		return nil, nil, err
	}
	setup, err := LookupSetup(b.ModulePath, b.SetupExport)
	if err != nil {
		return nil, nil, err
	}
	return fn, setup, nil
}
