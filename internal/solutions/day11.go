package solutions

import (
	"fmt"
	"strings"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/geom"
	"github.com/example/aoc2019/pkg/intcode"
)

func init() {
	puzzle.Register(11, puzzle.Solution{
		Title: "Space Police",
		Part1: day11Part1,
		Part2: day11Part2,
	})
}

func day11Part1(input string) (string, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return "", err
	}
	painted, err := runPaintRobot(it, 0)
	if err != nil {
		return "", err
	}
	return itoa(len(painted)), nil
}

func day11Part2(input string) (string, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return "", err
	}
	painted, err := runPaintRobot(it, 1)
	if err != nil {
		return "", err
	}
	return renderHull(painted), nil
}

// robotBrain is the camera/motor interface the painting loop drives.
// The real brain is the Intcode program; tests script one.
type robotBrain interface {
	Push(values ...int64)
	Run() (intcode.State, error)
	PopOutput() (int64, bool)
}

// runPaintRobot drives the hull painting robot: feed the camera
// reading, read back a paint color and a turn, move one panel.
func runPaintRobot(brain robotBrain, startPanel int64) (map[geom.Point]int64, error) {
	painted := make(map[geom.Point]int64)
	pos := geom.Point{}
	painted[pos] = startPanel

	// Facing up; turns rotate this delta.
	dir := geom.Point{X: 0, Y: -1}

	for {
		brain.Push(painted[pos])
		st, err := brain.Run()
		if err != nil {
			return nil, err
		}

		for {
			color, ok := brain.PopOutput()
			if !ok {
				break
			}
			turn, ok := brain.PopOutput()
			if !ok {
				return nil, fmt.Errorf("robot produced a color without a turn")
			}
			painted[pos] = color

			switch turn {
			case 0: // left
				dir = geom.Point{X: dir.Y, Y: -dir.X}
			case 1: // right
				dir = geom.Point{X: -dir.Y, Y: dir.X}
			default:
				return nil, fmt.Errorf("bad turn %d", turn)
			}
			pos = pos.Add(dir)
		}

		if st == intcode.Halted {
			return painted, nil
		}
	}
}

// renderHull draws the painted panels, white as '#'.
func renderHull(painted map[geom.Point]int64) string {
	minX, minY := 0, 0
	maxX, maxY := 0, 0
	for p, color := range painted {
		if color != 1 {
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	var sb strings.Builder
	for y := minY; y <= maxY; y++ {
		if y > minY {
			sb.WriteByte('\n')
		}
		for x := minX; x <= maxX; x++ {
			if painted[geom.Point{X: x, Y: y}] == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}
