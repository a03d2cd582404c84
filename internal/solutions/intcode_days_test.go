package solutions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Small hand-written programs exercise the Intcode-backed days without
// real puzzle inputs.

func TestDay5Diagnostic(t *testing.T) {
	// Echo the input back as the diagnostic code.
	out, err := runDiagnostic("3,0,4,0,99", 1)
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	// A zero prefix is fine; the code is the last output.
	out, err = runDiagnostic("104,0,104,0,3,0,4,0,99", 5)
	require.NoError(t, err)
	assert.Equal(t, "5", out)

	// A non-zero check value before the code means a failed test.
	_, err = runDiagnostic("104,3,104,9,99", 1)
	assert.Error(t, err)

	_, err = runDiagnostic("99", 1)
	assert.Error(t, err)
}

func TestDay5ComparisonProgram(t *testing.T) {
	// Outputs 999, 1000 or 1001 as the input compares to 8.
	program := "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31," +
		"1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104," +
		"999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"

	out, err := runDiagnostic(program, 7)
	require.NoError(t, err)
	assert.Equal(t, "999", out)

	out, err = runDiagnostic(program, 8)
	require.NoError(t, err)
	assert.Equal(t, "1000", out)

	out, err = runDiagnostic(program, 9)
	require.NoError(t, err)
	assert.Equal(t, "1001", out)
}

func TestDay9Boost(t *testing.T) {
	// A single large output is the keycode.
	out, err := runBoost("104,1125899906842624,99", 1)
	require.NoError(t, err)
	assert.Equal(t, "1125899906842624", out)

	// Multiple outputs mean the self-test flagged opcodes.
	_, err = runBoost("104,203,104,0,99", 1)
	assert.Error(t, err)

	_, err = runBoost("99", 1)
	assert.Error(t, err)
}

func TestDay13CountBlocks(t *testing.T) {
	// Two draw instructions paint blocks, one a wall.
	program := "104,0,104,0,104,2,104,1,104,0,104,1,104,2,104,0,104,2,99"
	out, err := day13Part1(program)
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestDay13ScoreWithoutPlay(t *testing.T) {
	// Free play that immediately posts a score and exits. The leading
	// multiply absorbs the quarter poke at address 0.
	program := "2,11,11,11,104,-1,104,0,104,12345,99,0"
	out, err := day13Part2(program)
	require.NoError(t, err)
	assert.Equal(t, "12345", out)
}
