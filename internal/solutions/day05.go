package solutions

import (
	"fmt"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/intcode"
)

func init() {
	puzzle.Register(5, puzzle.Solution{
		Title: "Sunny with a Chance of Asteroids",
		Part1: day5Part1,
		Part2: day5Part2,
	})
}

func day5Part1(input string) (string, error) {
	return runDiagnostic(input, 1)
}

func day5Part2(input string) (string, error) {
	return runDiagnostic(input, 5)
}

// runDiagnostic runs the TEST program with the given system id. All
// outputs before the diagnostic code must be zero.
func runDiagnostic(input string, systemID int64) (string, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return "", err
	}
	it.Push(systemID)
	if _, err := it.Run(); err != nil {
		return "", err
	}

	outputs := it.Output()
	if len(outputs) == 0 {
		return "", fmt.Errorf("diagnostic produced no output")
	}
	for _, v := range outputs[:len(outputs)-1] {
		if v != 0 {
			return "", fmt.Errorf("diagnostic check failed with %d", v)
		}
	}
	return itoa64(outputs[len(outputs)-1]), nil
}
