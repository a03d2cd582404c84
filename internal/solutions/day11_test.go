package solutions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/aoc2019/pkg/geom"
	"github.com/example/aoc2019/pkg/intcode"
)

// scriptedBrain replays a fixed list of (color, turn) commands, one per
// camera reading, then halts.
type scriptedBrain struct {
	commands [][2]int64
	cameras  []int64
	outputs  []int64
}

func (b *scriptedBrain) Push(values ...int64) {
	b.cameras = append(b.cameras, values...)
}

func (b *scriptedBrain) Run() (intcode.State, error) {
	if len(b.commands) == 0 {
		return intcode.Halted, nil
	}
	cmd := b.commands[0]
	b.commands = b.commands[1:]
	b.outputs = append(b.outputs, cmd[0], cmd[1])
	return intcode.Waiting, nil
}

func (b *scriptedBrain) PopOutput() (int64, bool) {
	if len(b.outputs) == 0 {
		return 0, false
	}
	v := b.outputs[0]
	b.outputs = b.outputs[1:]
	return v, true
}

func TestDay11RobotWalk(t *testing.T) {
	// The movement example: paints 6 panels across 7 commands.
	brain := &scriptedBrain{commands: [][2]int64{
		{1, 0}, {0, 0}, {1, 0}, {1, 0}, {0, 1}, {1, 0}, {1, 0},
	}}

	painted, err := runPaintRobot(brain, 0)
	require.NoError(t, err)
	assert.Len(t, painted, 6)

	// First reading is the starting panel, still black.
	require.NotEmpty(t, brain.cameras)
	assert.Equal(t, int64(0), brain.cameras[0])

	// The start panel was repainted black on the fifth command.
	assert.Equal(t, int64(0), painted[geom.Point{}])
	assert.Equal(t, int64(1), painted[geom.Point{X: 1, Y: -1}])
}

func TestDay11RobotBadTurn(t *testing.T) {
	brain := &scriptedBrain{commands: [][2]int64{{1, 7}}}
	_, err := runPaintRobot(brain, 0)
	assert.Error(t, err)
}

func TestDay11Render(t *testing.T) {
	painted := map[geom.Point]int64{
		{X: 0, Y: 0}: 1,
		{X: 1, Y: 0}: 0,
		{X: 1, Y: 1}: 1,
	}
	assert.Equal(t, "# \n #", renderHull(painted))
}
