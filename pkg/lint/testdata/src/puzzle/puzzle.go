// Package puzzle is a stub for testing the registration linter.
// It mirrors the registry API just enough for the fixtures to compile.
package puzzle

// Func solves one part of a puzzle.
type Func func(input string) (string, error)

// Solution is one day's registered solution.
type Solution struct {
	Title string
	Part1 Func
	Part2 Func
}

// Register records a solution. Panics if day is out of range or taken.
func Register(day int, sol Solution) {}
