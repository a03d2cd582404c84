package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 3, Abs(3))
	assert.Equal(t, int64(0), Abs(int64(0)))
}

func TestGCD(t *testing.T) {
	assert.Equal(t, 6, GCD(12, 18))
	assert.Equal(t, 1, GCD(17, 4))
	assert.Equal(t, 5, GCD(-5, 10))
	assert.Equal(t, 7, GCD(7, 0))
}

func TestLCM(t *testing.T) {
	assert.Equal(t, 36, LCM(12, 18))
	assert.Equal(t, int64(2772), LCM(int64(18), LCM(int64(28), int64(44))))
	assert.Equal(t, 0, LCM(0, 9))
}

func TestPermutations(t *testing.T) {
	perms := Permutations([]int64{0, 1, 2})
	assert.Len(t, perms, 6)

	seen := make(map[[3]int64]bool)
	for _, p := range perms {
		assert.Len(t, p, 3)
		seen[[3]int64{p[0], p[1], p[2]}] = true
	}
	assert.Len(t, seen, 6)

	assert.Len(t, Permutations([]int64{0, 1, 2, 3, 4}), 120)
	assert.Nil(t, Permutations([]int64(nil)))
}
