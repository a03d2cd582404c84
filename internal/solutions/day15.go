package solutions

import (
	"fmt"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/geom"
	"github.com/example/aoc2019/pkg/intcode"
)

// Droid movement commands and reply statuses.
const (
	moveNorth int64 = 1
	moveSouth int64 = 2
	moveWest  int64 = 3
	moveEast  int64 = 4

	statusWall   int64 = 0
	statusMoved  int64 = 1
	statusOxygen int64 = 2
)

var droidDeltas = map[int64]geom.Point{
	moveNorth: {Y: -1},
	moveSouth: {Y: 1},
	moveWest:  {X: -1},
	moveEast:  {X: 1},
}

var droidOpposite = map[int64]int64{
	moveNorth: moveSouth,
	moveSouth: moveNorth,
	moveWest:  moveEast,
	moveEast:  moveWest,
}

func init() {
	puzzle.Register(15, puzzle.Solution{
		Title: "Oxygen System",
		Part1: day15Part1,
		Part2: day15Part2,
	})
}

func day15Part1(input string) (string, error) {
	d, err := newIntcodeDroid(input)
	if err != nil {
		return "", err
	}
	open, oxygen, err := exploreShip(d)
	if err != nil {
		return "", err
	}
	dist := bfsDepths(open, geom.Point{})[oxygen]
	if dist == 0 {
		return "", fmt.Errorf("no path to the oxygen system")
	}
	return itoa(dist), nil
}

func day15Part2(input string) (string, error) {
	d, err := newIntcodeDroid(input)
	if err != nil {
		return "", err
	}
	open, oxygen, err := exploreShip(d)
	if err != nil {
		return "", err
	}

	// Oxygen spreads one step per minute; the fill time is the longest
	// shortest-path from the oxygen system.
	longest := 0
	for _, depth := range bfsDepths(open, oxygen) {
		if depth > longest {
			longest = depth
		}
	}
	return itoa(longest), nil
}

// droid is the remote control surface: issue a move, get the status.
// Tests drive the exploration with a scripted maze.
type droid interface {
	Move(dir int64) (int64, error)
}

type intcodeDroid struct {
	it *intcode.Interpreter
}

func newIntcodeDroid(input string) (*intcodeDroid, error) {
	it, err := intcode.NewFromSource(input)
	if err != nil {
		return nil, err
	}
	return &intcodeDroid{it: it}, nil
}

func (d *intcodeDroid) Move(dir int64) (int64, error) {
	d.it.Push(dir)
	for {
		if status, ok := d.it.PopOutput(); ok {
			return status, nil
		}
		st, err := d.it.Run()
		if err != nil {
			return 0, err
		}
		if st == intcode.Halted {
			return 0, fmt.Errorf("droid program halted mid-exploration")
		}
	}
}

// exploreShip maps every reachable cell by depth-first search,
// physically backtracking the droid after each branch.
func exploreShip(d droid) (map[geom.Point]bool, geom.Point, error) {
	open := map[geom.Point]bool{{}: true}
	visited := map[geom.Point]bool{{}: true}
	var oxygen geom.Point
	foundOxygen := false

	var dfs func(pos geom.Point) error
	dfs = func(pos geom.Point) error {
		for dir, delta := range droidDeltas {
			next := pos.Add(delta)
			if visited[next] {
				continue
			}
			visited[next] = true

			status, err := d.Move(dir)
			if err != nil {
				return err
			}
			if status == statusWall {
				continue
			}
			open[next] = true
			if status == statusOxygen {
				oxygen = next
				foundOxygen = true
			}
			if err := dfs(next); err != nil {
				return err
			}
			if _, err := d.Move(droidOpposite[dir]); err != nil {
				return err
			}
		}
		return nil
	}

	if err := dfs(geom.Point{}); err != nil {
		return nil, geom.Point{}, err
	}
	if !foundOxygen {
		return nil, geom.Point{}, fmt.Errorf("oxygen system not found")
	}
	return open, oxygen, nil
}

// bfsDepths returns the shortest distance from start to every open cell.
func bfsDepths(open map[geom.Point]bool, start geom.Point) map[geom.Point]int {
	depths := map[geom.Point]int{start: 0}
	queue := []geom.Point{start}

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, delta := range droidDeltas {
			next := pos.Add(delta)
			if !open[next] {
				continue
			}
			if _, seen := depths[next]; seen {
				continue
			}
			depths[next] = depths[pos] + 1
			queue = append(queue, next)
		}
	}
	return depths
}
