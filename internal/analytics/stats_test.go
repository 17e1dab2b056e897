package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanMedianStdDev(t *testing.T) {
	values := []int{2, 4, 4, 4, 5, 5, 7, 9}
	assert.Equal(t, 5.0, Mean(values))
	assert.Equal(t, 4.5, Median(values))
	assert.Equal(t, 2.0, StdDev(values))

	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Zero(t, Mean([]float64{}))
	assert.Zero(t, Median([]int{}))
	assert.Zero(t, StdDev([]int{}))
}

func TestModeTieBreak(t *testing.T) {
	mode, ok := Mode([]string{"a", "b", "b", "a"})
	assert.True(t, ok)
	assert.Equal(t, "b", mode)

	mode, ok = Mode([]string{"x", "y"})
	assert.True(t, ok)
	assert.Equal(t, "x", mode)

	_, ok = Mode([]int{})
	assert.False(t, ok)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 0.0, Round2(0))
}
