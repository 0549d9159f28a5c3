package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feather-lang/benchharness/bench/compare"
	"github.com/feather-lang/benchharness/bench/report"
)

func newCompareCommand() *cobra.Command {
	var resamples int
	var confidence float64

	cmd := &cobra.Command{
		Use:   "compare <baseline-samples-file> <current-samples-file>",
		Short: "Bootstrap-compare two whitespace-separated sample files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := readSamples(args[0])
			if err != nil {
				return err
			}
			current, err := readSamples(args[1])
			if err != nil {
				return err
			}

			opts := compare.DefaultOptions()
			if resamples > 0 {
				opts.Resamples = resamples
			}
			if confidence > 0 {
				opts.Confidence = confidence
			}

			ci := compare.Compare(baseline, current, opts)
			report.New(os.Stdout).Comparison(args[1], ci)
			return nil
		},
	}

	cmd.Flags().IntVar(&resamples, "resamples", 0, "bootstrap resample count (default 10000)")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "confidence level (default 0.95)")
	return cmd
}

func readSamples(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var out []float64
	for _, field := range strings.Fields(string(data)) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing sample %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}
