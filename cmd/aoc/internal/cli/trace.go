package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/aoc2019/pkg/intcode"
)

var (
	traceProgram string
	traceInputs  []int64
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Trace an Intcode program instruction by instruction",
	Long: `Run an Intcode program and print each decoded instruction as it
executes, followed by the final memory and output dumps.

Inputs, if the program reads any, are supplied up front with --input.

EXAMPLES:
  # Trace the day 5 diagnostic with system ID 1
  aoc trace --program inputs/day05.txt --input 1

  # Trace a program that reads two values
  aoc trace --program quine.txt --input 3,7`,
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceProgram, "program", "", "path to the Intcode program")
	traceCmd.Flags().Int64SliceVar(&traceInputs, "input", nil, "input values, in read order")
	traceCmd.MarkFlagRequired("program")
}

func runTrace(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(traceProgram)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	it, err := intcode.NewFromSource(string(src))
	if err != nil {
		return err
	}
	it.Push(traceInputs...)

	state, err := it.RunTrace(os.Stdout)
	if err != nil {
		return err
	}
	if state == intcode.Waiting {
		return fmt.Errorf("program is waiting for input; supply more values with --input")
	}

	fmt.Println()
	fmt.Printf("Memory: %s\n", it.Dump())
	if out := it.DumpOutput(); out != "" {
		fmt.Printf("Output: %s\n", out)
	}
	return nil
}
