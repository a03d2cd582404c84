package solutions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallReactions = `10 ORE => 10 A
1 ORE => 1 B
7 A, 1 B => 1 C
7 A, 1 C => 1 D
7 A, 1 D => 1 E
7 A, 1 E => 1 FUEL
`

const largeReactions = `157 ORE => 5 NZVS
165 ORE => 6 DCFZ
44 XJWVT, 5 KHKGT, 1 QDVJ, 29 NZVS, 9 GPVTF, 48 HKGWZ => 1 FUEL
12 HKGWZ, 1 GPVTF, 8 PSHF => 9 QDVJ
179 ORE => 7 PSHF
177 ORE => 5 HKGWZ
7 DCFZ, 7 PSHF => 2 XJWVT
165 ORE => 2 GPVTF
3 DCFZ, 7 NZVS, 5 HKGWZ, 10 PSHF => 8 KHKGT
`

func TestDay14OreForOneFuel(t *testing.T) {
	out, err := day14Part1(smallReactions)
	require.NoError(t, err)
	assert.Equal(t, "31", out)

	out, err = day14Part1(`9 ORE => 2 A
8 ORE => 3 B
7 ORE => 5 C
3 A, 4 B => 1 AB
5 B, 7 C => 1 BC
4 C, 1 A => 1 CA
2 AB, 3 BC, 4 CA => 1 FUEL
`)
	require.NoError(t, err)
	assert.Equal(t, "165", out)

	out, err = day14Part1(largeReactions)
	require.NoError(t, err)
	assert.Equal(t, "13312", out)
}

func TestDay14FuelForBudget(t *testing.T) {
	out, err := day14Part2(largeReactions)
	require.NoError(t, err)
	assert.Equal(t, "82892753", out)
}

func TestDay14BadReactions(t *testing.T) {
	_, err := day14Part1("1 ORE -> 1 FUEL")
	assert.Error(t, err)

	// FUEL depends on a chemical nothing produces.
	_, err = day14Part1("1 MYSTERY => 1 FUEL")
	assert.Error(t, err)
}
