package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feather-lang/benchharness/bench"
	"github.com/feather-lang/benchharness/bench/report"
	"github.com/feather-lang/benchharness/bench/suite"
	"github.com/feather-lang/benchharness/bench/worker"
)

func newRunCommand() *cobra.Command {
	var maxTimeMS int64
	var maxIterations int
	var adaptive bool
	var gcStats bool

	cmd := &cobra.Command{
		Use:   "run <suite-file>",
		Short: "Run a benchmark-suite file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := suite.ParseSuiteFile(args[0])
			if err != nil {
				return fmt.Errorf("parsing suite: %w", err)
			}

			opts := def.Options
			if maxTimeMS > 0 {
				opts.MaxTimeMS = maxTimeMS
			}
			if maxIterations > 0 {
				opts.MaxIterations = maxIterations
			}
			opts.Adaptive = opts.Adaptive || adaptive
			opts.GCStats = opts.GCStats || gcStats

			orch := worker.Orchestrator{
				Executable: os.Args[0],
				WorkerArgs: []string{"--bench-worker"},
				Stderr:     os.Stderr,
			}
			rep := report.New(os.Stdout)

			specs := def.Group.Members
			if def.Group.Baseline != nil {
				specs = append([]bench.BenchmarkSpec{*def.Group.Baseline}, specs...)
			}

			for _, spec := range specs {
				results, _, err := orch.Run(worker.WireSpec{
					Name:        spec.Name,
					ModulePath:  spec.ModulePath,
					Export:      spec.Export,
					SetupExport: spec.SetupExport,
				}, opts, nil)
				if err != nil {
					return fmt.Errorf("%s: %w", spec.Name, err)
				}
				for _, r := range results {
					rep.Result(r)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&maxTimeMS, "max-time-ms", 0, "override the suite's max-time-ms")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "override the suite's iterations")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "enable the adaptive convergence controller")
	cmd.Flags().BoolVar(&gcStats, "gc-stats", false, "capture GC trace statistics in the worker")

	return cmd
}
