package solutions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/geom"
)

func init() {
	puzzle.Register(3, puzzle.Solution{
		Title: "Crossed Wires",
		Part1: day3Part1,
		Part2: day3Part2,
	})
}

func day3Part1(input string) (string, error) {
	first, second, err := parseWires(input)
	if err != nil {
		return "", err
	}

	origin := geom.Point{}
	best := -1
	for p := range first {
		if _, crossed := second[p]; !crossed {
			continue
		}
		if d := origin.Manhattan(p); best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return "", fmt.Errorf("wires never cross")
	}
	return itoa(best), nil
}

func day3Part2(input string) (string, error) {
	first, second, err := parseWires(input)
	if err != nil {
		return "", err
	}

	best := -1
	for p, steps := range first {
		other, crossed := second[p]
		if !crossed {
			continue
		}
		if total := steps + other; best < 0 || total < best {
			best = total
		}
	}
	if best < 0 {
		return "", fmt.Errorf("wires never cross")
	}
	return itoa(best), nil
}

func parseWires(input string) (map[geom.Point]int, map[geom.Point]int, error) {
	rows := lines(input)
	if len(rows) != 2 {
		return nil, nil, fmt.Errorf("expected 2 wires, got %d", len(rows))
	}
	first, err := traceWire(rows[0])
	if err != nil {
		return nil, nil, err
	}
	second, err := traceWire(rows[1])
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// traceWire walks a wire path and records the step count at which each
// point is first visited. The origin is not recorded.
func traceWire(path string) (map[geom.Point]int, error) {
	visited := make(map[geom.Point]int)
	pos := geom.Point{}
	steps := 0

	for _, move := range strings.Split(path, ",") {
		move = strings.TrimSpace(move)
		if len(move) < 2 {
			return nil, fmt.Errorf("bad wire move %q", move)
		}
		dist, err := strconv.Atoi(move[1:])
		if err != nil {
			return nil, fmt.Errorf("bad wire move %q: %w", move, err)
		}

		var delta geom.Point
		switch move[0] {
		case 'U':
			delta = geom.Point{Y: 1}
		case 'D':
			delta = geom.Point{Y: -1}
		case 'L':
			delta = geom.Point{X: -1}
		case 'R':
			delta = geom.Point{X: 1}
		default:
			return nil, fmt.Errorf("bad wire direction %q", move)
		}

		for i := 0; i < dist; i++ {
			pos = pos.Add(delta)
			steps++
			if _, seen := visited[pos]; !seen {
				visited[pos] = steps
			}
		}
	}
	return visited, nil
}
