package worker

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/feather-lang/benchharness/bench"
	"github.com/feather-lang/benchharness/bench/adaptive"
	"github.com/feather-lang/benchharness/bench/collector"
	"github.com/feather-lang/benchharness/bench/profhook"
)

// resultFD is the file descriptor the parent attaches via
// cmd.ExtraFiles for the single reply; fd 0-2 are the standard
// stdin/stdout/stderr, so the first ExtraFiles entry lands on 3.
const resultFD = 3

// RunChild is the entry point for the re-exec'd worker process invoked
// with the hidden worker flag. It reads one RunMessage from stdin, runs
// the benchmark, and writes exactly one ResultMessage or ErrorMessage
// to fd 3.
func RunChild(stdin io.Reader) int {
	time.AfterFunc(ChildSelfDestruct, func() { os.Exit(1) })

	out := os.NewFile(resultFD, "bench-result")
	if out == nil {
		fmt.Fprintln(os.Stderr, "bench worker: result descriptor not attached")
		return 1
	}
	defer out.Close()

	var msg RunMessage
	if err := json.NewDecoder(stdin).Decode(&msg); err != nil {
		writeError(out, fmt.Errorf("decoding run message: %w", err))
		return 1
	}

	result, err := runOne(msg)
	if err != nil {
		writeError(out, err)
		return 1
	}

	reply := ResultMessage{Type: "result", Results: []bench.MeasuredResults{result}}
	if err := json.NewEncoder(out).Encode(reply); err != nil {
		fmt.Fprintln(os.Stderr, "bench worker: encoding result:", err)
		return 1
	}
	return 0
}

func runOne(msg RunMessage) (result bench.MeasuredResults, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = bench.MeasuredResults{}
			err = fmt.Errorf("%s panicked: %v", msg.Spec.Name, r)
		}
	}()

	spec := bench.BenchmarkSpec{
		Name:        msg.Spec.Name,
		ModulePath:  msg.Spec.ModulePath,
		Export:      msg.Spec.Export,
		SetupExport: msg.Spec.SetupExport,
		Param:       msg.Spec.CaseData,
	}

	fn, setup, err := spec.Resolve()
	if err != nil {
		return bench.MeasuredResults{}, err
	}

	param := msg.Spec.CaseData
	if msg.Params != nil {
		param = msg.Params
	} else if setup != nil {
		param, err = setup()
		if err != nil {
			return bench.MeasuredResults{}, fmt.Errorf("setup for %s: %w", spec.Name, err)
		}
	}

	cfg := collector.Config{
		Name:        spec.Name,
		Fn:          fn,
		Param:       param,
		Options:     msg.Options,
		OptProbe:    profhook.Noop{},
		HeapSampler: profhook.Noop{},
	}

	if msg.Options.Adaptive {
		return adaptive.Run(cfg, os.Stderr)
	}
	return collector.Collect(cfg)
}

func writeError(out *os.File, err error) {
	msg := ErrorMessage{Type: "error", Error: err.Error()}
	if encErr := json.NewEncoder(out).Encode(msg); encErr != nil {
		fmt.Fprintln(os.Stderr, "bench worker: encoding error reply:", encErr)
	}
}
