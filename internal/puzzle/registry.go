// Package puzzle holds the registry of daily puzzle solvers. Solvers
// register themselves from init so importing the solutions package is
// enough to make every day available.
package puzzle

import (
	"fmt"
	"sort"
	"sync"

	"github.com/example/aoc2019/internal/domain"
)

// MaxDay is the highest valid puzzle day.
const MaxDay = 25

// Func solves one part of a puzzle for the given raw input.
type Func func(input string) (string, error)

// Solution is one day's solver. Part2 may be nil while a day is in
// progress.
type Solution struct {
	Title string
	Part1 Func
	Part2 Func
}

var (
	mu       sync.RWMutex
	registry = make(map[int]Solution)
)

// Register adds a day's solution. Panics on an out-of-range day, a
// duplicate registration, or a missing Part1; registration runs at
// init, so these are programmer errors.
func Register(day int, sol Solution) {
	if day < 1 || day > MaxDay {
		panic(fmt.Sprintf("puzzle: Register(%d): day out of range 1-%d", day, MaxDay))
	}
	if sol.Part1 == nil {
		panic(fmt.Sprintf("puzzle: Register(%d): Part1 is required", day))
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[day]; dup {
		panic(fmt.Sprintf("puzzle: Register(%d): day already registered", day))
	}
	registry[day] = sol
}

// HasPart2 reports whether the second part is implemented.
func (s Solution) HasPart2() bool { return s.Part2 != nil }

// Get returns the registered solution for day.
func Get(day int) (Solution, error) {
	mu.RLock()
	defer mu.RUnlock()

	sol, ok := registry[day]
	if !ok {
		return Solution{}, fmt.Errorf("%w: no solver for day %d", domain.ErrNotFound, day)
	}
	return sol, nil
}

// Days returns the registered days in ascending order.
func Days() []int {
	mu.RLock()
	defer mu.RUnlock()

	days := make([]int, 0, len(registry))
	for day := range registry {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}
