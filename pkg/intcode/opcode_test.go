package intcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(t *testing.T, src string) []int64 {
	t.Helper()
	w, err := Parse(src)
	require.NoError(t, err)
	return w
}

func TestDecodeWithModes(t *testing.T) {
	inst, err := Decode(words(t, "1001,8,10,8"))
	require.NoError(t, err)

	assert.Equal(t, OpAdd, inst.Op)
	assert.Equal(t, []Param{{Value: 8, Mode: Position}, {Value: 10, Mode: Immediate}}, inst.Params)
	require.NotNil(t, inst.Dest)
	assert.Equal(t, Address{Value: 8, Mode: Position}, *inst.Dest)
	assert.Equal(t, 4, inst.Size)
	assert.Equal(t, "ADD 8, [10], 8", inst.String())
}

func TestDecodeSequence(t *testing.T) {
	stream := words(t, "1,0,2,2,4,1")

	inst, err := Decode(stream)
	require.NoError(t, err)
	assert.Equal(t, OpAdd, inst.Op)
	assert.Equal(t, 4, inst.Size)
	assert.Equal(t, "ADD 0, 2, 2", inst.String())

	inst, err = Decode(stream[4:])
	require.NoError(t, err)
	assert.Equal(t, OpShow, inst.Op)
	assert.Equal(t, 2, inst.Size)
	assert.Equal(t, "SHOW 1", inst.String())
}

func TestDecodeRelativeOperands(t *testing.T) {
	inst, err := Decode([]int64{209, -1})
	require.NoError(t, err)
	assert.Equal(t, OpAdjustBase, inst.Op)
	assert.Equal(t, "BASE {-1}", inst.String())

	inst, err = Decode([]int64{203, 3})
	require.NoError(t, err)
	assert.Equal(t, OpStore, inst.Op)
	require.NotNil(t, inst.Dest)
	assert.Equal(t, Address{Value: 3, Mode: Relative}, *inst.Dest)
	assert.Equal(t, "STORE {3}", inst.String())
}

func TestDecodeExit(t *testing.T) {
	inst, err := Decode([]int64{99})
	require.NoError(t, err)
	assert.Equal(t, OpExit, inst.Op)
	assert.Equal(t, 1, inst.Size)
	assert.Equal(t, "EXIT", inst.String())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]int64{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrBadOpcode)

	_, err = Decode([]int64{-1})
	assert.ErrorIs(t, err, ErrBadOpcode)

	_, err = Decode([]int64{301, 1, 2, 3})
	assert.ErrorIs(t, err, ErrBadMode)

	// Input must not write through an immediate operand.
	_, err = Decode([]int64{103, 5})
	assert.ErrorIs(t, err, ErrBadWrite)

	// Comparison destinations are writes too.
	_, err = Decode([]int64{10008, 1, 2, 3})
	assert.ErrorIs(t, err, ErrBadWrite)

	_, err = Decode([]int64{1, 0, 0})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrTruncated)
}
