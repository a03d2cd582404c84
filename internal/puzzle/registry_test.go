package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/aoc2019/internal/domain"
)

func echo(input string) (string, error) { return input, nil }

func TestRegisterAndGet(t *testing.T) {
	Register(24, Solution{Title: "Example", Part1: echo})

	sol, err := Get(24)
	require.NoError(t, err)
	assert.Equal(t, "Example", sol.Title)
	assert.False(t, sol.HasPart2())

	out, err := sol.Part1("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	assert.Contains(t, Days(), 24)
}

func TestGetUnknownDay(t *testing.T) {
	_, err := Get(23)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterPanics(t *testing.T) {
	assert.Panics(t, func() { Register(0, Solution{Part1: echo}) })
	assert.Panics(t, func() { Register(26, Solution{Part1: echo}) })
	assert.Panics(t, func() { Register(25, Solution{}) })

	Register(25, Solution{Part1: echo})
	assert.Panics(t, func() { Register(25, Solution{Part1: echo}) })
}
