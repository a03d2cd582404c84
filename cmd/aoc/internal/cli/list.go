package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/aoc2019/internal/puzzle"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the implemented days",
	Long:  `Display every registered day with its title and implemented parts.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	days := puzzle.Days()
	if len(days) == 0 {
		fmt.Println("No solutions registered.")
		return nil
	}

	for _, day := range days {
		sol, err := puzzle.Get(day)
		if err != nil {
			return err
		}
		parts := "1  "
		if sol.HasPart2() {
			parts = "1,2"
		}
		fmt.Printf("day %2d  parts %s  %s\n", day, parts, sol.Title)
	}
	return nil
}
