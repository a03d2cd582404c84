package solutions

import "github.com/example/aoc2019/internal/puzzle"

func init() {
	puzzle.Register(1, puzzle.Solution{
		Title: "The Tyranny of the Rocket Equation",
		Part1: day1Part1,
		Part2: day1Part2,
	})
}

func day1Part1(input string) (string, error) {
	masses, err := intLines(input)
	if err != nil {
		return "", err
	}
	total := 0
	for _, m := range masses {
		total += fuelFor(m)
	}
	return itoa(total), nil
}

func day1Part2(input string) (string, error) {
	masses, err := intLines(input)
	if err != nil {
		return "", err
	}
	total := 0
	for _, m := range masses {
		total += totalFuelFor(m)
	}
	return itoa(total), nil
}

func fuelFor(mass int) int {
	return mass/3 - 2
}

// totalFuelFor also counts the fuel needed to lift the fuel itself.
func totalFuelFor(mass int) int {
	total := 0
	for {
		fuel := fuelFor(mass)
		if fuel <= 0 {
			return total
		}
		total += fuel
		mass = fuel
	}
}
