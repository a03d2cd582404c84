package solutions

import (
	"fmt"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/intcode"
	"github.com/example/aoc2019/pkg/mathutil"
)

func init() {
	puzzle.Register(7, puzzle.Solution{
		Title: "Amplification Circuit",
		Part1: day7Part1,
		Part2: day7Part2,
	})
}

func day7Part1(input string) (string, error) {
	program, err := intcode.Parse(input)
	if err != nil {
		return "", err
	}
	best, err := bestThrust([]int64{0, 1, 2, 3, 4}, func(phases []int64) (int64, error) {
		return runAmplifierChain(program, phases)
	})
	if err != nil {
		return "", err
	}
	return itoa64(best), nil
}

func day7Part2(input string) (string, error) {
	program, err := intcode.Parse(input)
	if err != nil {
		return "", err
	}
	best, err := bestThrust([]int64{5, 6, 7, 8, 9}, func(phases []int64) (int64, error) {
		return runFeedbackLoop(program, phases)
	})
	if err != nil {
		return "", err
	}
	return itoa64(best), nil
}

func bestThrust(phases []int64, run func([]int64) (int64, error)) (int64, error) {
	best := int64(-1)
	for _, perm := range mathutil.Permutations(phases) {
		thrust, err := run(perm)
		if err != nil {
			return 0, err
		}
		if thrust > best {
			best = thrust
		}
	}
	return best, nil
}

// runAmplifierChain feeds the signal through five amplifiers once.
func runAmplifierChain(program []int64, phases []int64) (int64, error) {
	signal := int64(0)
	for _, phase := range phases {
		amp := intcode.New(program)
		amp.Push(phase, signal)
		if _, err := amp.Run(); err != nil {
			return 0, err
		}
		signal = amp.LastOutput()
	}
	return signal, nil
}

// runFeedbackLoop wires the last amplifier's output back to the first
// and runs until every amplifier halts.
func runFeedbackLoop(program []int64, phases []int64) (int64, error) {
	amps := make([]*intcode.Interpreter, len(phases))
	for i, phase := range phases {
		amps[i] = intcode.New(program)
		amps[i].Push(phase)
	}

	signal := int64(0)
	for {
		halted := 0
		for i, amp := range amps {
			if amp.State() == intcode.Halted {
				halted++
				continue
			}
			amp.Push(signal)
			st, err := amp.Run()
			if err != nil {
				return 0, fmt.Errorf("amplifier %d: %w", i, err)
			}
			signal = amp.LastOutput()
			if st == intcode.Halted {
				halted++
			}
		}
		if halted == len(amps) {
			return signal, nil
		}
	}
}
