package solutions

import (
	"fmt"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/intcode"
)

func init() {
	puzzle.Register(9, puzzle.Solution{
		Title: "Sensor Boost",
		Part1: day9Part1,
		Part2: day9Part2,
	})
}

func day9Part1(input string) (string, error) {
	return runBoost(input, 1)
}

func day9Part2(input string) (string, error) {
	return runBoost(input, 2)
}

// runBoost runs the BOOST program in the given mode. In test mode a
// correct machine produces exactly one output, the keycode.
func runBoost(input string, mode int64) (string, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return "", err
	}
	it.Push(mode)
	if _, err := it.Run(); err != nil {
		return "", err
	}

	outputs := it.Output()
	switch len(outputs) {
	case 0:
		return "", fmt.Errorf("BOOST produced no output")
	case 1:
		return itoa64(outputs[0]), nil
	default:
		// Extra outputs name malfunctioning opcodes.
		return "", fmt.Errorf("BOOST self-test failed: %v", outputs[:len(outputs)-1])
	}
}
