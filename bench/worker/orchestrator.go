package worker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/feather-lang/benchharness/bench"
	"github.com/feather-lang/benchharness/bench/gctrace"
)

// Timeout is the hard wall-clock limit from send to reply.
const Timeout = 60 * time.Second

// ChildSelfDestruct is the child's own last-resort safety limit,
// independent of the parent's Timeout.
const ChildSelfDestruct = 5 * time.Minute

// Orchestrator spawns an isolated child (a re-exec of the current
// executable) to run one BenchmarkSpec.
type Orchestrator struct {
	// Executable is the binary to re-exec; empty means os.Executable().
	Executable string
	// WorkerArgs are appended so the child recognizes it should run as
	// a worker, e.g. []string{"--bench-worker"}.
	WorkerArgs []string
	// Stderr receives GC-trace-stripped passthrough output from the
	// child when GCStats is set; nil discards it. With GCStats off the
	// child's stderr is only buffered for error messages.
	Stderr *os.File
	// Env carries extra "KEY=VALUE" entries appended to the child's
	// environment, on top of the parent's own.
	Env []string
}

// Run sends one RunMessage and awaits exactly one reply over the
// worker's pipe-and-JSON protocol.
func (o Orchestrator) Run(spec WireSpec, opts bench.RunnerOptions, params any) ([]bench.MeasuredResults, *bench.HeapProfile, error) {
	execPath := o.Executable
	if execPath == "" {
		p, err := os.Executable()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving worker executable: %w", err)
		}
		execPath = p
	}

	resultReader, resultWriter, err := os.Pipe()
	if err != nil {
		return nil, nil, fmt.Errorf("creating result pipe: %w", err)
	}
	defer resultReader.Close()

	msg := RunMessage{Type: "run", Spec: spec, Options: opts, Params: params}
	payload, err := json.Marshal(msg)
	if err != nil {
		resultWriter.Close()
		return nil, nil, fmt.Errorf("encoding run message: %w", err)
	}

	cmd := exec.Command(execPath, o.WorkerArgs...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.ExtraFiles = []*os.File{resultWriter}
	cmd.Env = append(os.Environ(), o.Env...)

	var stderrBuf bytes.Buffer
	var gcEvents []gctrace.Event

	if opts.GCStats {
		cmd.Env = append(cmd.Env, "GODEBUG=gctrace=1")
		stderrReader, stderrWriter, perr := os.Pipe()
		if perr != nil {
			resultWriter.Close()
			return nil, nil, fmt.Errorf("creating stderr pipe: %w", perr)
		}
		cmd.Stderr = stderrWriter

		done := make(chan struct{})
		go func() {
			defer close(done)
			events, _ := gctrace.ScanLines(stderrReader, passthroughWriter(o.Stderr, &stderrBuf))
			gcEvents = events
		}()
		defer func() {
			stderrWriter.Close()
			<-done
			stderrReader.Close()
		}()
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Start(); err != nil {
		resultWriter.Close()
		return nil, nil, fmt.Errorf("starting worker: %w", err)
	}
	resultWriter.Close()

	replyCh := make(chan wireReply, 1)
	go func() {
		data, readErr := readAll(resultReader)
		replyCh <- wireReply{data: data, err: readErr}
	}()

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var reply wireReply
	select {
	case reply = <-replyCh:
		<-waitCh
	case <-time.After(Timeout):
		cmd.Process.Signal(syscall.SIGTERM)
		<-waitCh
		return nil, nil, &bench.Error{Kind: bench.KindBenchmarkTimeout, Name: spec.Name,
			Message: fmt.Sprintf("no reply within %s", Timeout)}
	}

	if reply.err != nil {
		return nil, nil, fmt.Errorf("reading worker reply: %w", reply.err)
	}

	if len(reply.data) == 0 {
		return nil, nil, &bench.Error{Kind: bench.KindWorkerCrashed, Name: spec.Name,
			Message: fmt.Sprintf("worker exited without a reply; stderr: %s", tail(stderrBuf.String(), 2000))}
	}

	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(reply.data, &envelope); err != nil {
		return nil, nil, fmt.Errorf("decoding worker reply: %w", err)
	}

	switch envelope.Type {
	case "result":
		var rm ResultMessage
		if err := json.Unmarshal(reply.data, &rm); err != nil {
			return nil, nil, fmt.Errorf("decoding result message: %w", err)
		}
		if opts.GCStats && len(gcEvents) > 0 {
			stats := gctrace.Aggregate(gcEvents)
			for i := range rm.Results {
				rm.Results[i].GCStats = &stats
			}
		}
		return rm.Results, rm.HeapProfile, nil
	case "error":
		var em ErrorMessage
		if err := json.Unmarshal(reply.data, &em); err != nil {
			return nil, nil, fmt.Errorf("decoding error message: %w", err)
		}
		return nil, nil, &bench.Error{Kind: bench.KindBenchmarkFailed, Name: spec.Name,
			Message: em.Error, Stack: em.Stack}
	default:
		return nil, nil, &bench.Error{Kind: bench.KindWorkerCrashed, Name: spec.Name,
			Message: fmt.Sprintf("unrecognized reply type %q", envelope.Type)}
	}
}

type wireReply struct {
	data []byte
	err  error
}

func readAll(r *os.File) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r)
	return buf.Bytes(), err
}

// passthroughWriter always writes to fallback, so the stderr tail is
// available for a KindWorkerCrashed message even when GCStats is on; it
// additionally tees to primary when the caller wants the child's
// passthrough output forwarded live.
func passthroughWriter(primary *os.File, fallback *bytes.Buffer) io.Writer {
	if primary != nil {
		return io.MultiWriter(primary, fallback)
	}
	return fallback
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
