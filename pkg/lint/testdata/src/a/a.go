// Package a is a test package for the registration linter.
package a

import "puzzle"

// Test cases

func registerZero() {
	puzzle.Register(0, puzzle.Solution{}) // want "Register called with day 0 outside 1-25"
}

func registerNegative() {
	puzzle.Register(-3, puzzle.Solution{}) // want "Register called with day -3 outside 1-25"
}

func registerTooHigh() {
	puzzle.Register(26, puzzle.Solution{}) // want "Register called with day 26 outside 1-25"
}

func registerDuplicate() {
	puzzle.Register(7, puzzle.Solution{Title: "Amplification Circuit"})
	puzzle.Register(7, puzzle.Solution{}) // want "duplicate registration for day 7"
}

// Valid cases - should NOT produce warnings

func registerValid() {
	puzzle.Register(1, puzzle.Solution{Title: "The Tyranny of the Rocket Equation"})
	puzzle.Register(25, puzzle.Solution{})
}

func registerComputed(day int) {
	puzzle.Register(day, puzzle.Solution{})
}
