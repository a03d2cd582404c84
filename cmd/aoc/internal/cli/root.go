package cli

import (
	"github.com/spf13/cobra"

	// Register the puzzle solutions.
	_ "github.com/example/aoc2019/internal/solutions"
)

var rootCmd = &cobra.Command{
	Use:   "aoc",
	Short: "Run Advent of Code 2019 solutions",
	Long: `aoc runs the Advent of Code 2019 solutions in this repository.

Each day is a registered solution with one or two parts. Inputs are not
checked in; download yours from adventofcode.com and point --input at it.

EXAMPLES:
  # Run both parts of day 3
  aoc run --day 3 --input inputs/day03.txt

  # Run only part 2
  aoc run --day 14 --input inputs/day14.txt --part 2

  # See which days are implemented
  aoc list

  # Watch an Intcode program execute, instruction by instruction
  aoc trace --program inputs/day05.txt --input 5`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(traceCmd)
}
