package solutions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay1Fuel(t *testing.T) {
	assert.Equal(t, 2, fuelFor(12))
	assert.Equal(t, 2, fuelFor(14))
	assert.Equal(t, 654, fuelFor(1969))
	assert.Equal(t, 33583, fuelFor(100756))
}

func TestDay1TotalFuel(t *testing.T) {
	assert.Equal(t, 2, totalFuelFor(14))
	assert.Equal(t, 966, totalFuelFor(1969))
	assert.Equal(t, 50346, totalFuelFor(100756))
}

func TestDay1Parts(t *testing.T) {
	input := "12\n14\n1969\n100756\n"

	out, err := day1Part1(input)
	require.NoError(t, err)
	assert.Equal(t, "34241", out)

	out, err = day1Part2(input)
	require.NoError(t, err)
	assert.Equal(t, "51316", out)
}
