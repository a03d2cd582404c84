package solutions

import (
	"fmt"
	"math"
	"sort"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/geom"
)

func init() {
	puzzle.Register(10, puzzle.Solution{
		Title: "Monitoring Station",
		Part1: day10Part1,
		Part2: day10Part2,
	})
}

func day10Part1(input string) (string, error) {
	asteroids := parseAsteroids(input)
	_, visible, err := bestStation(asteroids)
	if err != nil {
		return "", err
	}
	return itoa(visible), nil
}

func day10Part2(input string) (string, error) {
	asteroids := parseAsteroids(input)
	station, _, err := bestStation(asteroids)
	if err != nil {
		return "", err
	}
	order := vaporizationOrder(station, asteroids)
	if len(order) < 200 {
		return "", fmt.Errorf("only %d asteroids to vaporize", len(order))
	}
	target := order[199]
	return itoa(target.X*100 + target.Y), nil
}

func parseAsteroids(input string) []geom.Point {
	var out []geom.Point
	for y, row := range lines(input) {
		for x, cell := range row {
			if cell == '#' {
				out = append(out, geom.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// bestStation picks the asteroid that sees the most others. Two
// asteroids on the same bearing from the candidate block each other,
// so visibility is the count of distinct bearings.
func bestStation(asteroids []geom.Point) (geom.Point, int, error) {
	if len(asteroids) == 0 {
		return geom.Point{}, 0, fmt.Errorf("no asteroids in field")
	}

	var best geom.Point
	visible := -1
	for _, candidate := range asteroids {
		bearings := make(map[int64]bool)
		for _, other := range asteroids {
			if other == candidate {
				continue
			}
			bearings[bearingKey(candidate, other)] = true
		}
		if len(bearings) > visible {
			visible = len(bearings)
			best = candidate
		}
	}
	return best, visible, nil
}

// bearingKey quantizes the angle from station to target so asteroids
// on the same ray collapse to one key. Zero points up, increasing
// clockwise, matching the laser's sweep.
func bearingKey(station, target geom.Point) int64 {
	return int64(bearing(station, target) * 1e6)
}

func bearing(station, target geom.Point) float64 {
	dx := float64(target.X - station.X)
	dy := float64(target.Y - station.Y)
	// Grid Y grows downward; atan2(dx, -dy) puts up at 0.
	a := math.Atan2(dx, -dy)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// vaporizationOrder sweeps the laser clockwise from up, destroying the
// nearest asteroid on each bearing per revolution.
func vaporizationOrder(station geom.Point, asteroids []geom.Point) []geom.Point {
	type targetInfo struct {
		point geom.Point
		key   int64
		dist  int
	}

	var targets []targetInfo
	for _, a := range asteroids {
		if a == station {
			continue
		}
		targets = append(targets, targetInfo{
			point: a,
			key:   bearingKey(station, a),
			dist:  station.Manhattan(a),
		})
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].key != targets[j].key {
			return targets[i].key < targets[j].key
		}
		return targets[i].dist < targets[j].dist
	})

	// Position in the queue for its bearing decides the revolution on
	// which each asteroid is destroyed.
	round := make(map[int64]int)
	type queued struct {
		targetInfo
		round int
	}
	ordered := make([]queued, 0, len(targets))
	for _, tgt := range targets {
		ordered = append(ordered, queued{tgt, round[tgt.key]})
		round[tgt.key]++
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].round != ordered[j].round {
			return ordered[i].round < ordered[j].round
		}
		return ordered[i].key < ordered[j].key
	})

	out := make([]geom.Point, len(ordered))
	for i, tgt := range ordered {
		out[i] = tgt.point
	}
	return out
}
