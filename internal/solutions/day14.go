package solutions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/aoc2019/internal/puzzle"
)

// oreBudget is the cargo hold's ore supply in part two.
const oreBudget = 1_000_000_000_000

func init() {
	puzzle.Register(14, puzzle.Solution{
		Title: "Space Stoichiometry",
		Part1: day14Part1,
		Part2: day14Part2,
	})
}

type reaction struct {
	yield  int64
	inputs map[string]int64
}

func day14Part1(input string) (string, error) {
	reactions, err := parseReactions(input)
	if err != nil {
		return "", err
	}
	ore, err := oreForFuel(reactions, 1)
	if err != nil {
		return "", err
	}
	return itoa64(ore), nil
}

func day14Part2(input string) (string, error) {
	reactions, err := parseReactions(input)
	if err != nil {
		return "", err
	}

	perFuel, err := oreForFuel(reactions, 1)
	if err != nil {
		return "", err
	}

	// Binary search the largest fuel amount within the ore budget.
	// Leftover sharing means the true answer is at least budget/perFuel.
	lo := oreBudget / perFuel
	hi := 2 * lo
	for {
		ore, err := oreForFuel(reactions, hi)
		if err != nil {
			return "", err
		}
		if ore > oreBudget {
			break
		}
		hi *= 2
	}
	for lo < hi {
		mid := (lo + hi + 1) / 2
		ore, err := oreForFuel(reactions, mid)
		if err != nil {
			return "", err
		}
		if ore <= oreBudget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return itoa64(lo), nil
}

// oreForFuel resolves the reaction graph for the given fuel amount,
// banking surplus chemicals for reuse.
func oreForFuel(reactions map[string]reaction, fuel int64) (int64, error) {
	ore := int64(0)
	surplus := make(map[string]int64)
	need := map[string]int64{"FUEL": fuel}

	for len(need) > 0 {
		var chemical string
		for chemical = range need {
			break
		}
		amount := need[chemical]
		delete(need, chemical)

		if banked := surplus[chemical]; banked > 0 {
			used := min64(banked, amount)
			surplus[chemical] -= used
			amount -= used
			if amount == 0 {
				continue
			}
		}

		r, ok := reactions[chemical]
		if !ok {
			return 0, fmt.Errorf("no reaction produces %s", chemical)
		}
		batches := (amount + r.yield - 1) / r.yield
		surplus[chemical] += batches*r.yield - amount
		for inputChem, inputAmount := range r.inputs {
			total := batches * inputAmount
			if inputChem == "ORE" {
				ore += total
			} else {
				need[inputChem] += total
			}
		}
	}
	return ore, nil
}

// parseReactions reads "7 A, 1 B => 1 C" lines keyed by output chemical.
func parseReactions(input string) (map[string]reaction, error) {
	reactions := make(map[string]reaction)
	for _, line := range lines(input) {
		left, right, ok := strings.Cut(line, "=>")
		if !ok {
			return nil, fmt.Errorf("bad reaction %q", line)
		}
		outAmount, outChem, err := parseChemical(right)
		if err != nil {
			return nil, fmt.Errorf("bad reaction %q: %w", line, err)
		}
		if _, dup := reactions[outChem]; dup {
			return nil, fmt.Errorf("two reactions produce %s", outChem)
		}

		r := reaction{yield: outAmount, inputs: make(map[string]int64)}
		for _, part := range strings.Split(left, ",") {
			amount, chem, err := parseChemical(part)
			if err != nil {
				return nil, fmt.Errorf("bad reaction %q: %w", line, err)
			}
			r.inputs[chem] = amount
		}
		reactions[outChem] = r
	}
	return reactions, nil
}

func parseChemical(s string) (int64, string, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("bad chemical %q", s)
	}
	amount, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, "", err
	}
	return amount, fields[1], nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
