// Package solutions contains the daily puzzle solvers. Each day lives
// in its own file and registers itself with the puzzle registry from
// init; importing this package (usually blank) is all a caller needs.
package solutions

import (
	"fmt"
	"strconv"
	"strings"
)

// lines splits input into trimmed, non-empty lines.
func lines(input string) []string {
	var out []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// intLines parses one integer per line.
func intLines(input string) ([]int, error) {
	var out []int
	for _, line := range lines(input) {
		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", line, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func itoa(v int) string { return strconv.Itoa(v) }

func itoa64(v int64) string { return strconv.FormatInt(v, 10) }
