package solutions

import (
	"fmt"
	"strings"

	"github.com/example/aoc2019/internal/puzzle"
)

func init() {
	puzzle.Register(6, puzzle.Solution{
		Title: "Universal Orbit Map",
		Part1: day6Part1,
		Part2: day6Part2,
	})
}

func day6Part1(input string) (string, error) {
	parents, err := parseOrbits(input)
	if err != nil {
		return "", err
	}
	total := 0
	for body := range parents {
		total += len(orbitChain(parents, body))
	}
	return itoa(total), nil
}

func day6Part2(input string) (string, error) {
	parents, err := parseOrbits(input)
	if err != nil {
		return "", err
	}

	// Transfers move between the bodies YOU and SAN orbit, so compare
	// their parent chains and drop the shared tail.
	you := orbitChain(parents, "YOU")
	san := orbitChain(parents, "SAN")
	if you == nil || san == nil {
		return "", fmt.Errorf("orbit map lacks YOU or SAN")
	}

	onSanPath := make(map[string]int, len(san))
	for i, body := range san {
		onSanPath[body] = i
	}
	for i, body := range you {
		if j, shared := onSanPath[body]; shared {
			return itoa(i + j), nil
		}
	}
	return "", fmt.Errorf("YOU and SAN orbit disconnected bodies")
}

// parseOrbits reads "A)B" lines into a child -> parent map.
func parseOrbits(input string) (map[string]string, error) {
	parents := make(map[string]string)
	for _, line := range lines(input) {
		center, body, ok := strings.Cut(line, ")")
		if !ok {
			return nil, fmt.Errorf("bad orbit %q", line)
		}
		parents[body] = center
	}
	return parents, nil
}

// orbitChain returns the bodies between body and the universal center,
// nearest parent first. The body itself is excluded.
func orbitChain(parents map[string]string, body string) []string {
	var chain []string
	for {
		parent, ok := parents[body]
		if !ok {
			return chain
		}
		chain = append(chain, parent)
		body = parent
	}
}
