package solutions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/aoc2019/internal/puzzle"
)

func init() {
	puzzle.Register(4, puzzle.Solution{
		Title: "Secure Container",
		Part1: day4Part1,
		Part2: day4Part2,
	})
}

func day4Part1(input string) (string, error) {
	return countPasswords(input, validPassword)
}

func day4Part2(input string) (string, error) {
	return countPasswords(input, validPasswordStrict)
}

func countPasswords(input string, valid func(int) bool) (string, error) {
	lo, hi, err := parseRange(input)
	if err != nil {
		return "", err
	}
	count := 0
	for n := lo; n <= hi; n++ {
		if valid(n) {
			count++
		}
	}
	return itoa(count), nil
}

func parseRange(input string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(input), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected lo-hi range, got %q", input)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// validPassword: six digits, never decreasing, at least one repeated
// adjacent digit.
func validPassword(n int) bool {
	digits := strconv.Itoa(n)
	if len(digits) != 6 {
		return false
	}
	pair := false
	for i := 1; i < len(digits); i++ {
		if digits[i] < digits[i-1] {
			return false
		}
		if digits[i] == digits[i-1] {
			pair = true
		}
	}
	return pair
}

// validPasswordStrict additionally requires a repeat group of exactly
// two digits.
func validPasswordStrict(n int) bool {
	digits := strconv.Itoa(n)
	if len(digits) != 6 {
		return false
	}
	pair := false
	run := 1
	for i := 1; i <= len(digits); i++ {
		if i < len(digits) && digits[i] == digits[i-1] {
			run++
			continue
		}
		if i < len(digits) && digits[i] < digits[i-1] {
			return false
		}
		if run == 2 {
			pair = true
		}
		run = 1
	}
	return pair
}
