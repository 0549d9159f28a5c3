package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feather-lang/benchharness/bench/matrix"
	"github.com/feather-lang/benchharness/bench/report"
	"github.com/feather-lang/benchharness/bench/suite"
	"github.com/feather-lang/benchharness/bench/worker"
)

func newMatrixCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "matrix <matrix-file>",
		Short: "Run a variants x cases matrix file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := suite.LoadMatrixFile(args[0])
			if err != nil {
				return fmt.Errorf("loading matrix: %w", err)
			}
			if filter != "" {
				m.Filter = filter
			}

			orch := worker.Orchestrator{
				Executable: os.Args[0],
				WorkerArgs: []string{"--bench-worker"},
				Stderr:     os.Stderr,
			}

			results, err := (matrix.Runner{Orchestrator: orch}).Run(*m)
			if err != nil {
				return err
			}

			report.New(os.Stdout).Matrix(results)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", `"case/variant" substring filter, overrides the matrix file's`)
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <matrix-file>",
		Short: "List the variants and cases defined by a matrix file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := suite.LoadMatrixFile(args[0])
			if err != nil {
				return fmt.Errorf("loading matrix: %w", err)
			}

			fmt.Printf("Variants:\n")
			for _, v := range m.Variants {
				fmt.Printf("  %s\n", v.Name)
			}
			fmt.Printf("Cases:\n")
			for _, c := range m.Cases {
				fmt.Printf("  %s\n", c.Name)
			}
			return nil
		},
	}
}
