package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/aoc2019/internal/puzzle"
)

var (
	runDay   int
	runInput string
	runPart  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a day's solution against an input file",
	Long: `Run a registered solution and print its results.

By default both parts run in order. Use --part to run a single part,
for example while the other is still slow or unfinished.

EXAMPLES:
  # Run both parts of day 7
  aoc run --day 7 --input inputs/day07.txt

  # Run just part 1
  aoc run --day 7 --input inputs/day07.txt --part 1`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runDay, "day", 0, "puzzle day to run (1-25)")
	runCmd.Flags().StringVar(&runInput, "input", "", "path to the puzzle input file")
	runCmd.Flags().IntVar(&runPart, "part", 0, "part to run (0 = both)")
	runCmd.MarkFlagRequired("day")
	runCmd.MarkFlagRequired("input")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runPart < 0 || runPart > 2 {
		return fmt.Errorf("invalid --part %d: must be 1, 2 or 0 for both", runPart)
	}

	sol, err := puzzle.Get(runDay)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(runInput)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	input := string(data)

	fmt.Printf("Day %d: %s\n", runDay, sol.Title)

	if runPart == 0 || runPart == 1 {
		fmt.Println("[Part 1]")
		out, err := sol.Part1(input)
		if err != nil {
			return fmt.Errorf("day %d part 1: %w", runDay, err)
		}
		fmt.Printf("Result: %s\n", out)
	}

	if runPart == 2 && !sol.HasPart2() {
		return fmt.Errorf("day %d has no part 2", runDay)
	}
	if (runPart == 0 || runPart == 2) && sol.HasPart2() {
		fmt.Println("[Part 2]")
		out, err := sol.Part2(input)
		if err != nil {
			return fmt.Errorf("day %d part 2: %w", runDay, err)
		}
		fmt.Printf("Result: %s\n", out)
	}

	return nil
}
