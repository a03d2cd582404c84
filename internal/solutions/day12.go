package solutions

import (
	"fmt"

	"github.com/example/aoc2019/internal/puzzle"
	"github.com/example/aoc2019/pkg/mathutil"
)

func init() {
	puzzle.Register(12, puzzle.Solution{
		Title: "The N-Body Problem",
		Part1: day12Part1,
		Part2: day12Part2,
	})
}

type moon struct {
	pos [3]int
	vel [3]int
}

func day12Part1(input string) (string, error) {
	moons, err := parseMoons(input)
	if err != nil {
		return "", err
	}
	for i := 0; i < 1000; i++ {
		stepMoons(moons)
	}
	return itoa(totalEnergy(moons)), nil
}

func day12Part2(input string) (string, error) {
	moons, err := parseMoons(input)
	if err != nil {
		return "", err
	}
	return itoa64(stepsToRepeat(moons)), nil
}

func parseMoons(input string) ([]moon, error) {
	var moons []moon
	for _, line := range lines(input) {
		var m moon
		n, err := fmt.Sscanf(line, "<x=%d, y=%d, z=%d>", &m.pos[0], &m.pos[1], &m.pos[2])
		if err != nil || n != 3 {
			return nil, fmt.Errorf("bad moon %q", line)
		}
		moons = append(moons, m)
	}
	if len(moons) == 0 {
		return nil, fmt.Errorf("no moons in scan")
	}
	return moons, nil
}

// stepMoons applies pairwise gravity then velocity.
func stepMoons(moons []moon) {
	for i := range moons {
		for j := i + 1; j < len(moons); j++ {
			for axis := 0; axis < 3; axis++ {
				switch {
				case moons[i].pos[axis] < moons[j].pos[axis]:
					moons[i].vel[axis]++
					moons[j].vel[axis]--
				case moons[i].pos[axis] > moons[j].pos[axis]:
					moons[i].vel[axis]--
					moons[j].vel[axis]++
				}
			}
		}
	}
	for i := range moons {
		for axis := 0; axis < 3; axis++ {
			moons[i].pos[axis] += moons[i].vel[axis]
		}
	}
}

func totalEnergy(moons []moon) int {
	total := 0
	for _, m := range moons {
		potential, kinetic := 0, 0
		for axis := 0; axis < 3; axis++ {
			potential += mathutil.Abs(m.pos[axis])
			kinetic += mathutil.Abs(m.vel[axis])
		}
		total += potential * kinetic
	}
	return total
}

// stepsToRepeat finds the first repeated full state. The axes evolve
// independently, so the answer is the LCM of the per-axis cycles.
func stepsToRepeat(moons []moon) int64 {
	var cycles [3]int64
	initial := make([]moon, len(moons))
	copy(initial, moons)

	for step := int64(1); cycles[0] == 0 || cycles[1] == 0 || cycles[2] == 0; step++ {
		stepMoons(moons)
		for axis := 0; axis < 3; axis++ {
			if cycles[axis] != 0 {
				continue
			}
			if axisMatches(moons, initial, axis) {
				cycles[axis] = step
			}
		}
	}
	return mathutil.LCM(mathutil.LCM(cycles[0], cycles[1]), cycles[2])
}

func axisMatches(moons, initial []moon, axis int) bool {
	for i := range moons {
		if moons[i].pos[axis] != initial[i].pos[axis] || moons[i].vel[axis] != initial[i].vel[axis] {
			return false
		}
	}
	return true
}
