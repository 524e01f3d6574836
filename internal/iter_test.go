package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermutations(t *testing.T) {
	assert := assert.New(t)

	var got [][]int
	for perm := range Permutations([]int{1, 2, 3}) {
		got = append(got, slices.Clone(perm))
	}

	assert.Equal([][]int{
		{1, 2, 3},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 1},
		{3, 1, 2},
		{3, 2, 1},
	}, got)
}

func TestPermutations_Empty(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for perm := range Permutations([]int{}) {
		assert.Empty(perm)
		count++
	}
	assert.Equal(1, count)
}

func TestPermutations_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for range Permutations([]int{5, 6, 7, 8, 9}) {
		count++
		if count == 10 {
			break
		}
	}
	assert.Equal(10, count)
}

func TestPermutations_Count(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for range Permutations([]int{5, 6, 7, 8, 9}) {
		count++
	}
	assert.Equal(Factorial(5), count)
	assert.Equal(120, count)
}
