package solutions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/aoc2019/pkg/geom"
)

const largeAsteroidField = `.#..##.###...#######
##.############..##.
.#.######.########.#
.###.#######.####.#.
#####.##.#.##.###.##
..#####..#.#########
####################
#.####....###.#.#.##
##.#################
#####.##.###..####..
..######..##.#######
####.##.####...##..#
.#####..#.######.###
##...#.##########...
#.##########.#######
.####.#.###.###.#.##
....##.##.###..#####
.#.#.###########.###
#.#.#.#####.####.###
###.##.####.##.#..##
`

func TestDay10BestStation(t *testing.T) {
	cases := []struct {
		field   string
		station geom.Point
		visible int
	}{
		{
			field: `.#..#
.....
#####
....#
...##`,
			station: geom.Point{X: 3, Y: 4},
			visible: 8,
		},
		{
			field: `......#.#.
#..#.#....
..#######.
.#.#.###..
.#..#.....
..#....#.#
#..#....#.
.##.#..###
##...#..#.
.#....####`,
			station: geom.Point{X: 5, Y: 8},
			visible: 33,
		},
		{
			field: `#.#...#.#.
.###....#.
.#....#...
##.#.#.#.#
....#.#.#.
.##..###.#
..#...##..
..##....##
......#...
.####.###.`,
			station: geom.Point{X: 1, Y: 2},
			visible: 35,
		},
		{
			field: `.#..#..###
####.###.#
....###.#.
..###.##.#
##.##.#.#.
....###..#
..#.#..#.#
#..#.#.###
.##...##.#
.....#.#..`,
			station: geom.Point{X: 6, Y: 3},
			visible: 41,
		},
		{
			field:   largeAsteroidField,
			station: geom.Point{X: 11, Y: 13},
			visible: 210,
		},
	}

	for _, tc := range cases {
		station, visible, err := bestStation(parseAsteroids(tc.field))
		require.NoError(t, err)
		assert.Equal(t, tc.station, station)
		assert.Equal(t, tc.visible, visible)
	}
}

func TestDay10Vaporization(t *testing.T) {
	asteroids := parseAsteroids(largeAsteroidField)
	station, _, err := bestStation(asteroids)
	require.NoError(t, err)

	order := vaporizationOrder(station, asteroids)
	require.GreaterOrEqual(t, len(order), 200)

	assert.Equal(t, geom.Point{X: 11, Y: 12}, order[0])
	assert.Equal(t, geom.Point{X: 12, Y: 1}, order[1])
	assert.Equal(t, geom.Point{X: 12, Y: 8}, order[9])
	assert.Equal(t, geom.Point{X: 8, Y: 2}, order[199])
	assert.Equal(t, geom.Point{X: 11, Y: 1}, order[len(order)-1])

	out, err := day10Part2(largeAsteroidField)
	require.NoError(t, err)
	assert.Equal(t, "802", out)
}
