package solutions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/mathutil"
)

const fftPhases = 100

func init() {
	puzzle.Register(16, puzzle.Solution{
		Title: "Flawed Frequency Transmission",
		Part1: day16Part1,
		Part2: day16Part2,
	})
}

func day16Part1(input string) (string, error) {
	digits, err := parseDigits(input)
	if err != nil {
		return "", err
	}
	for i := 0; i < fftPhases; i++ {
		digits = fftPhase(digits)
	}
	return digitString(digits[:8]), nil
}

// day16Part2 decodes the real signal: the input repeated 10000 times,
// read at the offset named by its first seven digits. The offset lands
// in the back half, where each phase is just a reversed running sum.
func day16Part2(input string) (string, error) {
	digits, err := parseDigits(input)
	if err != nil {
		return "", err
	}
	if len(digits) < 7 {
		return "", fmt.Errorf("signal too short for an offset")
	}

	offset := 0
	for _, d := range digits[:7] {
		offset = offset*10 + d
	}
	total := len(digits) * 10000
	if offset < total/2 || offset >= total {
		return "", fmt.Errorf("offset %d outside the back half of the signal", offset)
	}

	tail := make([]int, total-offset)
	for i := range tail {
		tail[i] = digits[(offset+i)%len(digits)]
	}

	for phase := 0; phase < fftPhases; phase++ {
		sum := 0
		for i := len(tail) - 1; i >= 0; i-- {
			sum = (sum + tail[i]) % 10
			tail[i] = sum
		}
	}
	return digitString(tail[:8]), nil
}

// fftPhase applies one phase of the base pattern 0, 1, 0, -1 stretched
// by output position.
func fftPhase(digits []int) []int {
	out := make([]int, len(digits))
	for i := range out {
		sum := 0
		for j := i; j < len(digits); j++ {
			switch ((j + 1) / (i + 1)) % 4 {
			case 1:
				sum += digits[j]
			case 3:
				sum -= digits[j]
			}
		}
		out[i] = mathutil.Abs(sum) % 10
	}
	return out
}

func parseDigits(input string) ([]int, error) {
	src := strings.TrimSpace(input)
	if src == "" {
		return nil, fmt.Errorf("empty signal")
	}
	digits := make([]int, len(src))
	for i, r := range src {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("bad signal digit %q", r)
		}
		digits[i] = int(r - '0')
	}
	return digits, nil
}

func digitString(digits []int) string {
	var sb strings.Builder
	for _, d := range digits {
		sb.WriteString(strconv.Itoa(d))
	}
	return sb.String()
}
