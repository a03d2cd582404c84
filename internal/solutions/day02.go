package solutions

import (
	"fmt"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/intcode"
)

// day2Target is the output part two searches for.
const day2Target = 19690720

func init() {
	puzzle.Register(2, puzzle.Solution{
		Title: "1202 Program Alarm",
		Part1: day2Part1,
		Part2: day2Part2,
	})
}

func day2Part1(input string) (string, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return "", err
	}
	it.RestoreAlarmState()
	if _, err := it.Run(); err != nil {
		return "", err
	}
	v, _ := it.Value(0)
	return itoa64(v), nil
}

func day2Part2(input string) (string, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return "", err
	}
	for noun := int64(0); noun <= 99; noun++ {
		for verb := int64(0); verb <= 99; verb++ {
			it.Reset()
			it.SetNounVerb(noun, verb)
			if _, err := it.Run(); err != nil {
				continue
			}
			if v, _ := it.Value(0); v == day2Target {
				return itoa64(100*noun + verb), nil
			}
		}
	}
	return "", fmt.Errorf("no noun/verb pair produces %d", day2Target)
}
