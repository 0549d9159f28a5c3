// Command bench is the CLI entry point for the benchmark harness.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feather-lang/benchharness/bench/worker"
)

var workerMode bool

// NewRootCommand builds the "bench" cobra command tree. Exported so a
// consumer's own main package can import it, register its benchmarks'
// (modulePath, export) pairs via bench.Register in an init(), and call
// Execute() without needing to fork this package.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bench",
		Short: "Statistical benchmark harness",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if workerMode {
				os.Exit(worker.RunChild(os.Stdin))
			}
			return nil
		},
		// The root must be runnable: cobra skips PersistentPreRunE for a
		// command without Run/RunE, and the worker child is invoked with
		// only --bench-worker and no subcommand.
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Hidden: only ever set by Orchestrator when it re-execs this same
	// binary as a worker child.
	root.PersistentFlags().BoolVar(&workerMode, "bench-worker", false, "internal: run as a worker child")
	root.PersistentFlags().MarkHidden("bench-worker")

	root.AddCommand(newRunCommand())
	root.AddCommand(newMatrixCommand())
	root.AddCommand(newListCommand())
	root.AddCommand(newCompareCommand())

	return root
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
}
