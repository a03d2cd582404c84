package solutions

import (
	"fmt"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/intcode"
)

// Arcade tile ids.
const (
	tileEmpty  = 0
	tileWall   = 1
	tileBlock  = 2
	tilePaddle = 3
	tileBall   = 4
)

func init() {
	puzzle.Register(13, puzzle.Solution{
		Title: "Care Package",
		Part1: day13Part1,
		Part2: day13Part2,
	})
}

func day13Part1(input string) (string, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return "", err
	}
	if _, err := it.Run(); err != nil {
		return "", err
	}

	blocks := 0
	outputs := it.Output()
	for i := 0; i+2 < len(outputs); i += 3 {
		if outputs[i+2] == tileBlock {
			blocks++
		}
	}
	return itoa(blocks), nil
}

// day13Part2 plays the game for free (memory 0 set to 2), tracking the
// ball with the paddle until the program halts, and reports the score.
func day13Part2(input string) (string, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return "", err
	}
	it.SetValue(0, 2)

	var score, ballX, paddleX int64
	for {
		st, err := it.Run()
		if err != nil {
			return "", err
		}

		for {
			x, ok := it.PopOutput()
			if !ok {
				break
			}
			y, ok1 := it.PopOutput()
			tile, ok2 := it.PopOutput()
			if !ok1 || !ok2 {
				return "", fmt.Errorf("arcade produced a partial draw instruction")
			}

			if x == -1 && y == 0 {
				score = tile
				continue
			}
			switch tile {
			case tileBall:
				ballX = x
			case tilePaddle:
				paddleX = x
			}
		}

		if st == intcode.Halted {
			return itoa64(score), nil
		}

		switch {
		case ballX < paddleX:
			it.Push(-1)
		case ballX > paddleX:
			it.Push(1)
		default:
			it.Push(0)
		}
	}
}
